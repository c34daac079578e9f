package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"aaruto/internal/events"
	"aaruto/internal/models"
)

// LoreOracle answers freeform questions about one character.
type LoreOracle interface {
	LoreChat(ctx context.Context, design models.CharacterDesign, question string) (string, error)
}

// LoreService keeps the per-character lore log. The log belongs to exactly
// one design and resets whenever the draft changes; a failed question leaves
// the log untouched.
type LoreService interface {
	Reset(design *models.CharacterDesign)
	Entries() []models.LoreEntry
	Search(query string) []models.LoreEntry
	Ask(ctx context.Context, question string) ([]models.LoreEntry, error)
}

type loreService struct {
	mu      sync.Mutex
	busy    bool
	design  *models.CharacterDesign
	entries []models.LoreEntry
	oracle  LoreOracle
}

func NewLoreService(oracle LoreOracle) LoreService {
	return &loreService{oracle: oracle}
}

// Reset rebinds the log to a new design, discarding prior entries. A nil
// design clears the log entirely.
func (s *loreService) Reset(design *models.CharacterDesign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	if design == nil {
		s.design = nil
		return
	}
	d := design.Clone()
	s.design = &d
}

func (s *loreService) Entries() []models.LoreEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LoreEntry(nil), s.entries...)
}

func (s *loreService) Search(query string) []models.LoreEntry {
	s.mu.Lock()
	entries := append([]models.LoreEntry(nil), s.entries...)
	s.mu.Unlock()
	return models.FilterLore(entries, query)
}

func (s *loreService) Ask(ctx context.Context, question string) ([]models.LoreEntry, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, models.ErrPromptRequired
	}

	s.mu.Lock()
	if s.design == nil {
		s.mu.Unlock()
		return nil, models.ErrNoDraft
	}
	if s.busy {
		s.mu.Unlock()
		log.Printf("lore: dropped question, exchange in flight")
		return nil, nil
	}
	s.busy = true
	design := *s.design
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	answer, err := s.oracle.LoreChat(callCtx, design, question)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		log.Printf("lore: question failed: %v", err)
		events.Emit(ctx, events.ForgeNotify, events.NewWarn("Spirit signal destabilized. Try again."))
		return nil, nil
	}
	s.entries = append(s.entries, models.LoreEntry{Question: question, Answer: answer})
	return append([]models.LoreEntry(nil), s.entries...), nil
}
