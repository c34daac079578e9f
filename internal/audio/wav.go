// Package audio wraps raw speech synthesis output into a playable container.
// The generation service hands back bare 16-bit little-endian mono PCM; the
// frontend's <audio> element needs a RIFF/WAVE envelope around it.
package audio

import (
	"encoding/base64"
	"encoding/binary"
)

// ThemeSampleRate is the fixed sample rate of generated theme audio.
const ThemeSampleRate = 24000

// WrapPCM16 builds a WAV file around raw 16-bit LE mono PCM samples.
func WrapPCM16(pcm []byte, sampleRate int) []byte {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataLen := len(pcm)

	buf := make([]byte, 0, 44+dataLen)
	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataLen))
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16) // PCM chunk size
	buf = binary.LittleEndian.AppendUint16(buf, 1)  // PCM format
	buf = binary.LittleEndian.AppendUint16(buf, numChannels)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, bitsPerSample)

	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataLen))
	buf = append(buf, pcm...)
	return buf
}

// DataURI returns the PCM wrapped as a base64 data URI ready for playback.
func DataURI(pcm []byte, sampleRate int) string {
	wav := WrapPCM16(pcm, sampleRate)
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wav)
}
