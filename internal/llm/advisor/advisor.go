// Package advisor runs the Omni-Sensei chat on top of eino chat models, so
// the assistant can be backed by Gemini, OpenAI or Claude depending on which
// API key is configured.
package advisor

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"aaruto/internal/models"
)

const senseiSystemPrompt = "You are the Omni-Sensei of AARUTO_ANIME.AI, the most advanced character generation terminal."

const (
	geminiChatModel = "gemini-3-flash-preview"
	openaiChatModel = "gpt-5-mini"
	claudeChatModel = "claude-sonnet-4-20250514"

	claudeMaxTokens = 2048
)

// Advisor answers a sensei exchange given the full prior transcript.
type Advisor interface {
	Advise(ctx context.Context, transcript []models.ChatMessage) (string, error)
}

// ChatAdvisor adapts an eino chat model to the sensei transcript.
type ChatAdvisor struct {
	model model.BaseChatModel
}

// NewGemini shares the forge's genai client instead of opening a second one.
func NewGemini(ctx context.Context, client *genai.Client) (*ChatAdvisor, error) {
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  geminiChatModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini chat model: %w", err)
	}
	return &ChatAdvisor{model: cm}, nil
}

func NewOpenAI(ctx context.Context, apiKey string) (*ChatAdvisor, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  openaiChatModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &ChatAdvisor{model: cm}, nil
}

func NewClaude(ctx context.Context, apiKey string) (*ChatAdvisor, error) {
	cm, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    apiKey,
		Model:     claudeChatModel,
		MaxTokens: claudeMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create claude chat model: %w", err)
	}
	return &ChatAdvisor{model: cm}, nil
}

func (a *ChatAdvisor) Advise(ctx context.Context, transcript []models.ChatMessage) (string, error) {
	msgs := make([]*schema.Message, 0, len(transcript)+1)
	msgs = append(msgs, schema.SystemMessage(senseiSystemPrompt))
	for _, m := range transcript {
		if m.Role == models.RoleUser {
			msgs = append(msgs, schema.UserMessage(m.Text))
		} else {
			msgs = append(msgs, schema.AssistantMessage(m.Text, nil))
		}
	}

	out, err := a.model.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("sensei advice: %w", err)
	}
	if out == nil || out.Content == "" {
		return "", fmt.Errorf("sensei advice: provider returned no content")
	}
	return out.Content, nil
}
