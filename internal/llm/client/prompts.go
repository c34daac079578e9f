package client

import (
	"encoding/json"
	"fmt"

	"aaruto/internal/models"
)

const promptEnhancers = "masterpiece, top-tier quality, highly detailed, 8k resolution, " +
	"cinematic lighting, vibrant colors, sharp focus, volumetric fog, " +
	"trending on pixiv and artstation."

func designPrompt(concept string) string {
	return fmt.Sprintf(`You are the Master Architect of AARUTO_ANIME.AI. Design an apex-tier anime character based on: %q.

Requirements:
1. 'visualTraits': Describe with supreme detail (e.g., 'eyes burning with celestial supernova energy', 'armor forged from the core of a dying star', 'a cloak that flows like liquid obsidian').
2. 'homeworld': An environment that dictates their biology and power (e.g., 'A dimension of suspended crystal shards where light travels in slow-motion').
3. 'stats': 1-100 values for Strength, Agility, Intelligence, Stamina.
4. 'evolutionStage': Start at 1.`, concept)
}

func evolvePrompt(current models.CharacterDesign) (string, error) {
	data, err := json.Marshal(current)
	if err != nil {
		return "", fmt.Errorf("marshal current design: %w", err)
	}
	return fmt.Sprintf(`Perform a God-Tier Ascension for: %s.

Rules:
1. Dramatically upgrade stats.
2. Update 'visualTraits' to reflect supreme power (e.g., aura of localized space-time distortion, hair turning into pure light, growing spectral wings).
3. Increment 'evolutionStage'.
4. Enhance lore to describe this mythic transformation.`, data), nil
}

func imagePrompt(design models.CharacterDesign, settings models.AppSettings, variant models.ImageVariant) string {
	if variant == models.VariantEnvironment {
		return fmt.Sprintf(
			"Cinematic %s environment background. Wide angle. Location: %s. Lighting: %s. Atmospheric world-building, high-fidelity textures. %s",
			settings.ArtStyle, design.Homeworld, settings.Lighting, promptEnhancers)
	}
	return fmt.Sprintf(
		"%s masterpiece. %s. Character: %s (%s). traits: %s. Lighting: %s. Background: %s. %s",
		settings.ArtStyle, settings.Composition, design.Name, design.Title,
		design.VisualTraits, settings.Lighting, design.Homeworld, promptEnhancers)
}

func themeScript(design models.CharacterDesign) string {
	return fmt.Sprintf(
		"Heed the call of %s, the %s! Originating from %s, their presence reshapes reality itself. Power levels are peaking at stage %d. Let the chronicle begin!",
		design.Name, design.Title, design.Homeworld, design.EvolutionStage)
}

func updateFieldPrompt(design models.CharacterDesign, field models.DesignField) (string, error) {
	data, err := json.Marshal(design)
	if err != nil {
		return "", fmt.Errorf("marshal design: %w", err)
	}
	return fmt.Sprintf(`Current state: %s.
Rewrite the %q with god-tier creativity. Maintain the %s theme and homeworld lore.`,
		data, field, design.Aesthetic), nil
}

func lorePrompt(design models.CharacterDesign, question string) (string, error) {
	data, err := json.Marshal(design)
	if err != nil {
		return "", fmt.Errorf("marshal design: %w", err)
	}
	return fmt.Sprintf(`Identity Context: %s.
Oracle Inquiry: %q.

Instruction: You are the Akashic Oracle. Provide a response that feels like an organic expansion of this character's mythos.
CRITICAL: You must explicitly weave together their visual appearance ('visualTraits') and their origin ('homeworld') into your answer.
Every answer should explain how their physical form or their environment influences the information you are providing.
Maintain a tone of mythic weight and god-tier immersion.`, data, question), nil
}
