package models

import "errors"

// QualityLevel is the summon tier selected before generation. It is recorded
// on the result but does not change the image prompt.
type QualityLevel string

const (
	QualityGenin  QualityLevel = "GENIN"
	QualityChunin QualityLevel = "CHUNIN"
	QualityJonin  QualityLevel = "JONIN"
)

func (q QualityLevel) Valid() bool {
	switch q {
	case QualityGenin, QualityChunin, QualityJonin:
		return true
	}
	return false
}

const (
	StatMin = 1
	StatMax = 100
)

// CharacterStats holds the four combat attributes, each constrained to
// [StatMin, StatMax].
type CharacterStats struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Stamina      int `json:"stamina"`
}

func clampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// Clamped returns a copy with every attribute forced into [StatMin, StatMax].
func (s CharacterStats) Clamped() CharacterStats {
	return CharacterStats{
		Strength:     clampStat(s.Strength),
		Agility:      clampStat(s.Agility),
		Intelligence: clampStat(s.Intelligence),
		Stamina:      clampStat(s.Stamina),
	}
}

// Aesthetics is the catalog of theme tags offered by the sheet UI. The
// generator may answer with a tag outside this list; the catalog is a UI
// affordance, not a validation rule.
var Aesthetics = []string{
	"Cyberpunk", "Steampunk", "Gothic", "High Fantasy", "Dark Fantasy",
	"Space Opera", "Solarpunk", "Art Nouveau", "Grimdark",
}

// CharacterDesign is the structured artifact returned by design generation.
type CharacterDesign struct {
	Name           string         `json:"name"`
	Title          string         `json:"title"`
	Personality    string         `json:"personality"`
	Aesthetic      string         `json:"aesthetic"`
	Powers         []string       `json:"powers"`
	Lore           string         `json:"lore"`
	VisualTraits   string         `json:"visualTraits"`
	Homeworld      string         `json:"homeworld"`
	EvolutionStage int            `json:"evolutionStage"`
	Stats          CharacterStats `json:"stats"`
}

var ErrIncompleteDesign = errors.New("design is missing required fields")

// Validate checks the generation contract: every field present and non-empty,
// evolution stage at least 1. A design failing this is a generation failure.
func (d *CharacterDesign) Validate() error {
	if d == nil {
		return ErrIncompleteDesign
	}
	if d.Name == "" || d.Title == "" || d.Personality == "" || d.Aesthetic == "" ||
		d.Lore == "" || d.VisualTraits == "" || d.Homeworld == "" {
		return ErrIncompleteDesign
	}
	if len(d.Powers) == 0 {
		return ErrIncompleteDesign
	}
	if d.EvolutionStage < 1 {
		return ErrIncompleteDesign
	}
	return nil
}

// Clone returns a deep copy, so a draft can be edited without aliasing the
// history entry it came from.
func (d CharacterDesign) Clone() CharacterDesign {
	out := d
	out.Powers = append([]string(nil), d.Powers...)
	return out
}
