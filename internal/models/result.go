package models

// ImageVariant selects the framing of a generated image.
type ImageVariant string

const (
	VariantCharacter   ImageVariant = "character"
	VariantEnvironment ImageVariant = "environment"
)

// GeneratedResult is one realized artifact: a design plus its rendered media
// and the engine parameters that produced it. Timestamp is a monotonic
// creation instant and doubles as the identity key inside a collection; no two
// results in the same collection may share one.
type GeneratedResult struct {
	ImageURL    string          `json:"imageUrl"`
	EnvImageURL string          `json:"envImageUrl,omitempty"`
	AudioData   string          `json:"audioData,omitempty"`
	Design      CharacterDesign `json:"design"`
	Timestamp   int64           `json:"timestamp"`
	Quality     QualityLevel    `json:"quality"`
	Resolution  string          `json:"resolution,omitempty"`
	ArtStyle    string          `json:"artStyle,omitempty"`
	Lighting    string          `json:"lighting,omitempty"`
	Composition string          `json:"composition,omitempty"`
}

// Clone returns a deep copy of the result.
func (r GeneratedResult) Clone() GeneratedResult {
	out := r
	out.Design = r.Design.Clone()
	return out
}

const (
	// HistoryCap bounds the rolling history; the oldest entry drops on overflow.
	HistoryCap = 30
	// ArchiveCap bounds the saved-scrolls archive.
	ArchiveCap = 50
)
