package mocks

import (
	"context"

	"aaruto/internal/models"
)

type AdvisorMock struct {
	AdviseFunc func(ctx context.Context, transcript []models.ChatMessage) (string, error)
}

func (m *AdvisorMock) Advise(ctx context.Context, transcript []models.ChatMessage) (string, error) {
	if m.AdviseFunc != nil {
		return m.AdviseFunc(ctx, transcript)
	}
	return "Focus your chakra.", nil
}
