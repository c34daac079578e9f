package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"aaruto/internal/events"
	"aaruto/internal/llm/advisor"
	"aaruto/internal/models"
)

const (
	senseiWelcome  = "Welcome to AARUTO_ANIME.AI. Manifest your vision with god-tier precision."
	senseiFallback = "Spirit signal destabilized. Try again."
)

// SenseiService runs the global advisor chat. The transcript lives in memory
// and seeds with a welcome line; one exchange is in flight at a time, and a
// failed exchange still records the question with a fallback answer.
type SenseiService interface {
	Transcript() []models.ChatMessage
	Ask(ctx context.Context, question string) ([]models.ChatMessage, error)
}

type senseiService struct {
	mu         sync.Mutex
	busy       bool
	transcript []models.ChatMessage
	advisor    advisor.Advisor
}

func NewSenseiService(adv advisor.Advisor) SenseiService {
	return &senseiService{
		transcript: []models.ChatMessage{{Role: models.RoleSensei, Text: senseiWelcome}},
		advisor:    adv,
	}
}

func (s *senseiService) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.transcript...)
}

func (s *senseiService) Ask(ctx context.Context, question string) ([]models.ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, models.ErrPromptRequired
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		log.Printf("sensei: dropped question, exchange in flight")
		return nil, nil
	}
	s.busy = true
	s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleUser, Text: question})
	prior := append([]models.ChatMessage(nil), s.transcript...)
	s.mu.Unlock()

	events.Emit(ctx, events.SenseiState, events.NewInfo(string(models.StateSenseiThinking)))
	defer events.Emit(ctx, events.SenseiState, events.NewInfo(string(models.StateIdle)))

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	answer, err := s.advisor.Advise(callCtx, prior)
	if err != nil {
		log.Printf("sensei: advice failed: %v", err)
		answer = senseiFallback
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleSensei, Text: answer})
	out := append([]models.ChatMessage(nil), s.transcript...)
	s.busy = false
	s.mu.Unlock()

	return out, nil
}
