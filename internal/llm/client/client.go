// Package client wraps the Gemini API for every generation operation the
// forge needs: structured character design, evolution, imagery, theme speech,
// single-field regeneration and lore answers. Every call is a one-shot
// request/response with no retry or streaming; failures surface immediately.
package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"aaruto/internal/models"
)

const (
	designModel = "gemini-3-flash-preview"
	imageModel  = "gemini-2.5-flash-image"
	ttsModel    = "gemini-2.5-flash-preview-tts"

	characterAspect   = "3:4"
	environmentAspect = "16:9"

	themeVoice = "Kore"
)

// GeminiClient talks to the Gemini API. It is safe for concurrent use.
type GeminiClient struct {
	client *genai.Client
}

func New(ctx context.Context, apiKey string) (*GeminiClient, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: c}, nil
}

// Raw exposes the underlying genai client so the sensei advisor can share it.
func (g *GeminiClient) Raw() *genai.Client {
	return g.client
}

// GenerateDesign asks for a structured design matching the full schema. A
// response missing required fields is a generation failure.
func (g *GeminiClient) GenerateDesign(ctx context.Context, prompt string) (*models.CharacterDesign, error) {
	resp, err := g.client.Models.GenerateContent(ctx, designModel,
		genai.Text(designPrompt(prompt)), designConfig())
	if err != nil {
		return nil, fmt.Errorf("generate design: %w", err)
	}
	return parseDesign(resp.Text())
}

// EvolveDesign rewrites the design at the next ascension stage. The stage
// increment is enforced locally when the model fails to honor it.
func (g *GeminiClient) EvolveDesign(ctx context.Context, current models.CharacterDesign) (*models.CharacterDesign, error) {
	prompt, err := evolvePrompt(current)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Models.GenerateContent(ctx, designModel,
		genai.Text(prompt), designConfig())
	if err != nil {
		return nil, fmt.Errorf("evolve design: %w", err)
	}
	evolved, err := parseDesign(resp.Text())
	if err != nil {
		return nil, err
	}
	if evolved.EvolutionStage <= current.EvolutionStage {
		evolved.EvolutionStage = current.EvolutionStage + 1
	}
	return evolved, nil
}

// GenerateImage renders the design (or its homeworld, for the environment
// variant) and returns the image as a data URI.
func (g *GeminiClient) GenerateImage(ctx context.Context, design models.CharacterDesign, quality models.QualityLevel, settings models.AppSettings, variant models.ImageVariant) (string, error) {
	aspect := characterAspect
	if variant == models.VariantEnvironment {
		aspect = environmentAspect
	}
	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: aspect},
	}

	resp, err := g.client.Models.GenerateContent(ctx, imageModel,
		genai.Text(imagePrompt(design, settings, variant)), cfg)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return "data:" + mime + ";base64," +
					base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}
	return "", fmt.Errorf("generate image: provider returned no image payload")
}

// GenerateThemeAudio narrates the design and returns raw 16-bit PCM at 24kHz.
// Wrapping the samples into a playable container is the caller's job.
func (g *GeminiClient) GenerateThemeAudio(ctx context.Context, design models.CharacterDesign) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: themeVoice},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, ttsModel,
		genai.Text(themeScript(design)), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate theme audio: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("generate theme audio: provider returned no audio payload")
}

// UpdateField regenerates exactly one design field, preserving aesthetic and
// homeworld continuity. The payload shape follows the field type.
func (g *GeminiClient) UpdateField(ctx context.Context, design models.CharacterDesign, field models.DesignField) (models.FieldValue, error) {
	if !field.Valid() {
		return models.FieldValue{}, fmt.Errorf("unknown design field %q", field)
	}
	prompt, err := updateFieldPrompt(design, field)
	if err != nil {
		return models.FieldValue{}, err
	}
	resp, err := g.client.Models.GenerateContent(ctx, designModel,
		genai.Text(prompt), updateFieldConfig(field))
	if err != nil {
		return models.FieldValue{}, fmt.Errorf("update field %q: %w", field, err)
	}
	return parseFieldValue(field, resp.Text())
}

// LoreChat answers a freeform question in the voice of the Akashic Oracle.
// The visual-traits/homeworld weaving requirement lives in the prompt; it is
// not verified programmatically.
func (g *GeminiClient) LoreChat(ctx context.Context, design models.CharacterDesign, question string) (string, error) {
	prompt, err := lorePrompt(design, question)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Models.GenerateContent(ctx, designModel,
		genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("lore chat: %w", err)
	}
	answer := resp.Text()
	if answer == "" {
		return "", fmt.Errorf("lore chat: provider returned no answer")
	}
	return answer, nil
}

func parseDesign(raw string) (*models.CharacterDesign, error) {
	var design models.CharacterDesign
	if err := json.Unmarshal([]byte(raw), &design); err != nil {
		return nil, fmt.Errorf("parse design response: %w", err)
	}
	if err := design.Validate(); err != nil {
		return nil, fmt.Errorf("design response incomplete: %w", err)
	}
	design.Stats = design.Stats.Clamped()
	return &design, nil
}

func parseFieldValue(field models.DesignField, raw string) (models.FieldValue, error) {
	var envelope struct {
		NewValue json.RawMessage `json:"newValue"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return models.FieldValue{}, fmt.Errorf("parse field response: %w", err)
	}
	if len(envelope.NewValue) == 0 {
		return models.FieldValue{}, fmt.Errorf("field response missing newValue")
	}

	switch field {
	case models.FieldPowers:
		var powers []string
		if err := json.Unmarshal(envelope.NewValue, &powers); err != nil {
			return models.FieldValue{}, fmt.Errorf("parse powers: %w", err)
		}
		return models.FieldValue{Powers: powers}, nil
	case models.FieldStats:
		var stats models.CharacterStats
		if err := json.Unmarshal(envelope.NewValue, &stats); err != nil {
			return models.FieldValue{}, fmt.Errorf("parse stats: %w", err)
		}
		stats = stats.Clamped()
		return models.FieldValue{Stats: &stats}, nil
	default:
		var text string
		if err := json.Unmarshal(envelope.NewValue, &text); err != nil {
			return models.FieldValue{}, fmt.Errorf("parse text value: %w", err)
		}
		return models.FieldValue{Text: text}, nil
	}
}
