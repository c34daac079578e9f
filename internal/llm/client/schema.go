package client

import (
	"google.golang.org/genai"

	"aaruto/internal/models"
)

func statsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"strength":     {Type: genai.TypeInteger},
			"agility":      {Type: genai.TypeInteger},
			"intelligence": {Type: genai.TypeInteger},
			"stamina":      {Type: genai.TypeInteger},
		},
		Required: []string{"strength", "agility", "intelligence", "stamina"},
	}
}

// designSchema constrains design and evolution responses to the full
// CharacterDesign shape with every field required.
func designSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":           {Type: genai.TypeString},
			"title":          {Type: genai.TypeString},
			"personality":    {Type: genai.TypeString},
			"aesthetic":      {Type: genai.TypeString},
			"powers":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"lore":           {Type: genai.TypeString},
			"visualTraits":   {Type: genai.TypeString},
			"homeworld":      {Type: genai.TypeString},
			"evolutionStage": {Type: genai.TypeInteger},
			"stats":          statsSchema(),
		},
		Required: []string{
			"name", "title", "personality", "aesthetic", "powers",
			"lore", "visualTraits", "stats", "homeworld", "evolutionStage",
		},
	}
}

func designConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   designSchema(),
	}
}

// updateFieldConfig shapes the single-field response: a list for powers, a
// stats record for stats, plain text for everything else.
func updateFieldConfig(field models.DesignField) *genai.GenerateContentConfig {
	var value *genai.Schema
	switch field {
	case models.FieldPowers:
		value = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	case models.FieldStats:
		value = statsSchema()
	default:
		value = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{"newValue": value},
			Required:   []string{"newValue"},
		},
	}
}
