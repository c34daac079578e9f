package models

import "fmt"

// DesignField names one regenerable field of a CharacterDesign.
type DesignField string

const (
	FieldName         DesignField = "name"
	FieldTitle        DesignField = "title"
	FieldPersonality  DesignField = "personality"
	FieldAesthetic    DesignField = "aesthetic"
	FieldPowers       DesignField = "powers"
	FieldLore         DesignField = "lore"
	FieldVisualTraits DesignField = "visualTraits"
	FieldHomeworld    DesignField = "homeworld"
	FieldStats        DesignField = "stats"
)

func (f DesignField) Valid() bool {
	switch f {
	case FieldName, FieldTitle, FieldPersonality, FieldAesthetic, FieldPowers,
		FieldLore, FieldVisualTraits, FieldHomeworld, FieldStats:
		return true
	}
	return false
}

// Label returns the field name with its first letter upper-cased, as shown in
// re-manifestation notices.
func (f DesignField) Label() string {
	s := string(f)
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// FieldValue is the payload of a single-field regeneration or edit. Exactly
// one branch is meaningful, selected by the DesignField it accompanies: Powers
// for FieldPowers, Stats for FieldStats, Text for everything else.
type FieldValue struct {
	Text   string          `json:"text,omitempty"`
	Powers []string        `json:"powers,omitempty"`
	Stats  *CharacterStats `json:"stats,omitempty"`
}

// DesignUpdate is a closed command set over CharacterDesign fields. Each
// variant carries the payload type its field demands, so an unknown field name
// is unrepresentable.
type DesignUpdate interface {
	Apply(d *CharacterDesign)
}

type NameUpdate struct{ Value string }
type TitleUpdate struct{ Value string }
type PersonalityUpdate struct{ Value string }
type AestheticUpdate struct{ Value string }
type PowersUpdate struct{ Value []string }
type LoreUpdate struct{ Value string }
type VisualTraitsUpdate struct{ Value string }
type HomeworldUpdate struct{ Value string }
type StatsUpdate struct{ Value CharacterStats }

func (u NameUpdate) Apply(d *CharacterDesign)         { d.Name = u.Value }
func (u TitleUpdate) Apply(d *CharacterDesign)        { d.Title = u.Value }
func (u PersonalityUpdate) Apply(d *CharacterDesign)  { d.Personality = u.Value }
func (u AestheticUpdate) Apply(d *CharacterDesign)    { d.Aesthetic = u.Value }
func (u PowersUpdate) Apply(d *CharacterDesign)       { d.Powers = append([]string(nil), u.Value...) }
func (u LoreUpdate) Apply(d *CharacterDesign)         { d.Lore = u.Value }
func (u VisualTraitsUpdate) Apply(d *CharacterDesign) { d.VisualTraits = u.Value }
func (u HomeworldUpdate) Apply(d *CharacterDesign)    { d.Homeworld = u.Value }

// Apply clamps stats on the way in, so a slider or generator handing back 150
// lands on 100 and -5 lands on 1.
func (u StatsUpdate) Apply(d *CharacterDesign) { d.Stats = u.Value.Clamped() }

// UpdateFor converts a field/value pair into its update command, rejecting
// mismatched payloads.
func UpdateFor(field DesignField, value FieldValue) (DesignUpdate, error) {
	switch field {
	case FieldName:
		return NameUpdate{Value: value.Text}, nil
	case FieldTitle:
		return TitleUpdate{Value: value.Text}, nil
	case FieldPersonality:
		return PersonalityUpdate{Value: value.Text}, nil
	case FieldAesthetic:
		return AestheticUpdate{Value: value.Text}, nil
	case FieldLore:
		return LoreUpdate{Value: value.Text}, nil
	case FieldVisualTraits:
		return VisualTraitsUpdate{Value: value.Text}, nil
	case FieldHomeworld:
		return HomeworldUpdate{Value: value.Text}, nil
	case FieldPowers:
		if value.Powers == nil {
			return nil, fmt.Errorf("powers payload is required for field %q", field)
		}
		return PowersUpdate{Value: value.Powers}, nil
	case FieldStats:
		if value.Stats == nil {
			return nil, fmt.Errorf("stats payload is required for field %q", field)
		}
		return StatsUpdate{Value: *value.Stats}, nil
	}
	return nil, fmt.Errorf("unknown design field %q", field)
}
