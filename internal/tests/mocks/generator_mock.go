package mocks

import (
	"context"

	"aaruto/internal/models"
)

// SampleDesign returns a complete design for tests to start from.
func SampleDesign() models.CharacterDesign {
	return models.CharacterDesign{
		Name:           "Kaour the Stormblade",
		Title:          "Herald of the Shattered Sky",
		Personality:    "Stoic, loyal, quietly furious.",
		Aesthetic:      "Dark Fantasy",
		Powers:         []string{"Storm Calling", "Blade Dance"},
		Lore:           "Forged in the lightning wastes of Varnheim.",
		VisualTraits:   "Silver hair, storm-grey cloak, cracked gauntlet.",
		Homeworld:      "Varnheim",
		EvolutionStage: 1,
		Stats:          models.CharacterStats{Strength: 70, Agility: 60, Intelligence: 55, Stamina: 65},
	}
}

// GeneratorMock covers every provider operation, including lore answers.
type GeneratorMock struct {
	GenerateDesignFunc     func(ctx context.Context, prompt string) (*models.CharacterDesign, error)
	EvolveDesignFunc       func(ctx context.Context, current models.CharacterDesign) (*models.CharacterDesign, error)
	GenerateImageFunc      func(ctx context.Context, design models.CharacterDesign, quality models.QualityLevel, settings models.AppSettings, variant models.ImageVariant) (string, error)
	GenerateThemeAudioFunc func(ctx context.Context, design models.CharacterDesign) ([]byte, error)
	UpdateFieldFunc        func(ctx context.Context, design models.CharacterDesign, field models.DesignField) (models.FieldValue, error)
	LoreChatFunc           func(ctx context.Context, design models.CharacterDesign, question string) (string, error)
}

func (m *GeneratorMock) GenerateDesign(ctx context.Context, prompt string) (*models.CharacterDesign, error) {
	if m.GenerateDesignFunc != nil {
		return m.GenerateDesignFunc(ctx, prompt)
	}
	d := SampleDesign()
	return &d, nil
}

func (m *GeneratorMock) EvolveDesign(ctx context.Context, current models.CharacterDesign) (*models.CharacterDesign, error) {
	if m.EvolveDesignFunc != nil {
		return m.EvolveDesignFunc(ctx, current)
	}
	evolved := current.Clone()
	evolved.EvolutionStage = current.EvolutionStage + 1
	return &evolved, nil
}

func (m *GeneratorMock) GenerateImage(ctx context.Context, design models.CharacterDesign, quality models.QualityLevel, settings models.AppSettings, variant models.ImageVariant) (string, error) {
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, design, quality, settings, variant)
	}
	if variant == models.VariantEnvironment {
		return "data:image/png;base64,env", nil
	}
	return "data:image/png;base64,char", nil
}

func (m *GeneratorMock) GenerateThemeAudio(ctx context.Context, design models.CharacterDesign) ([]byte, error) {
	if m.GenerateThemeAudioFunc != nil {
		return m.GenerateThemeAudioFunc(ctx, design)
	}
	return []byte{0x01, 0x02, 0x03, 0x04}, nil
}

func (m *GeneratorMock) UpdateField(ctx context.Context, design models.CharacterDesign, field models.DesignField) (models.FieldValue, error) {
	if m.UpdateFieldFunc != nil {
		return m.UpdateFieldFunc(ctx, design, field)
	}
	switch field {
	case models.FieldPowers:
		return models.FieldValue{Powers: []string{"Rewritten Power"}}, nil
	case models.FieldStats:
		return models.FieldValue{Stats: &models.CharacterStats{Strength: 80, Agility: 80, Intelligence: 80, Stamina: 80}}, nil
	default:
		return models.FieldValue{Text: "Rewritten " + string(field)}, nil
	}
}

func (m *GeneratorMock) LoreChat(ctx context.Context, design models.CharacterDesign, question string) (string, error) {
	if m.LoreChatFunc != nil {
		return m.LoreChatFunc(ctx, design, question)
	}
	return "The oracle answers: " + question, nil
}
