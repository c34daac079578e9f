package models

import "fmt"

// ArtStyles, LightingStyles, CompositionStyles and Resolutions enumerate every
// legal value of the corresponding AppSettings field.
var (
	ArtStyles = []string{
		"Classic Anime", "Ufotable Style", "Studio Ghibli",
		"Cyberpunk Edge", "Retro 90s", "Ink Wash",
		"Realistic", "Digital Concept", "Fantasy Oil",
		"High-Impact Shonen", "Vintage Manga",
	}
	LightingStyles    = []string{"Cinematic", "Ethereal", "Dramatic", "Neon", "Golden Hour", "Cyber-Noir"}
	CompositionStyles = []string{"Dynamic Pose", "Portrait", "Wide Shot", "Epic Low Angle", "Close-up Detail"}
	Resolutions       = []string{"512", "1024", "2048"}
)

// AppSettings is the process-wide engine configuration. It is persisted on
// every change and loaded once at startup, falling back to DefaultSettings
// when the stored record is absent or corrupt.
type AppSettings struct {
	AutoSave    bool   `json:"autoSave"`
	Resolution  string `json:"resolution"`
	ArtStyle    string `json:"artStyle"`
	Lighting    string `json:"lighting"`
	Composition string `json:"composition"`
}

func DefaultSettings() AppSettings {
	return AppSettings{
		AutoSave:    true,
		Resolution:  "1024",
		ArtStyle:    "Classic Anime",
		Lighting:    "Cinematic",
		Composition: "Dynamic Pose",
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Validate rejects any field outside its catalog.
func (s AppSettings) Validate() error {
	if !contains(Resolutions, s.Resolution) {
		return fmt.Errorf("resolution must be one of %v", Resolutions)
	}
	if !contains(ArtStyles, s.ArtStyle) {
		return fmt.Errorf("unknown art style %q", s.ArtStyle)
	}
	if !contains(LightingStyles, s.Lighting) {
		return fmt.Errorf("unknown lighting style %q", s.Lighting)
	}
	if !contains(CompositionStyles, s.Composition) {
		return fmt.Errorf("unknown composition style %q", s.Composition)
	}
	return nil
}
