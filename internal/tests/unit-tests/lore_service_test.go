package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"aaruto/internal/models"
	"aaruto/internal/services"
	"aaruto/internal/tests/mocks"
)

func TestLoreService_Ask_RequiresDesign(t *testing.T) {
	service := services.NewLoreService(&mocks.GeneratorMock{})

	_, err := service.Ask(context.Background(), "Who forged your blade?")
	assert.ErrorIs(t, err, models.ErrNoDraft)
}

func TestLoreService_Ask_AppendsEntry(t *testing.T) {
	design := mocks.SampleDesign()
	service := services.NewLoreService(&mocks.GeneratorMock{
		LoreChatFunc: func(ctx context.Context, d models.CharacterDesign, question string) (string, error) {
			assert.Equal(t, design.Name, d.Name)
			return "A smith of the lightning wastes.", nil
		},
	})
	service.Reset(&design)

	entries, err := service.Ask(context.Background(), "Who forged your blade?")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Who forged your blade?", entries[0].Question)
	assert.Equal(t, "A smith of the lightning wastes.", entries[0].Answer)
}

func TestLoreService_Ask_FailureLeavesLogUntouched(t *testing.T) {
	design := mocks.SampleDesign()
	service := services.NewLoreService(&mocks.GeneratorMock{
		LoreChatFunc: func(ctx context.Context, d models.CharacterDesign, question string) (string, error) {
			return "", assert.AnError
		},
	})
	service.Reset(&design)

	entries, err := service.Ask(context.Background(), "Doomed question?")
	assert.NoError(t, err)
	assert.Nil(t, entries)
	assert.Empty(t, service.Entries())
}

func TestLoreService_Reset_DiscardsEntries(t *testing.T) {
	design := mocks.SampleDesign()
	service := services.NewLoreService(&mocks.GeneratorMock{})
	service.Reset(&design)

	_, err := service.Ask(context.Background(), "First question?")
	assert.NoError(t, err)
	assert.Len(t, service.Entries(), 1)

	other := mocks.SampleDesign()
	other.Name = "Another"
	service.Reset(&other)
	assert.Empty(t, service.Entries())

	service.Reset(nil)
	_, err = service.Ask(context.Background(), "Unbound question?")
	assert.ErrorIs(t, err, models.ErrNoDraft)
}

func TestLoreService_Search(t *testing.T) {
	design := mocks.SampleDesign()
	service := services.NewLoreService(&mocks.GeneratorMock{
		LoreChatFunc: func(ctx context.Context, d models.CharacterDesign, question string) (string, error) {
			return "Answer about " + question, nil
		},
	})
	service.Reset(&design)

	_, err := service.Ask(context.Background(), "the storm blade")
	assert.NoError(t, err)
	_, err = service.Ask(context.Background(), "childhood rivals")
	assert.NoError(t, err)

	assert.Len(t, service.Search("STORM"), 1)
	assert.Len(t, service.Search("rivals"), 1)
	assert.Len(t, service.Search(""), 2)
	assert.Empty(t, service.Search("dragons"))
}

func TestLoreService_Ask_BusyDropped(t *testing.T) {
	design := mocks.SampleDesign()
	release := make(chan struct{})
	started := make(chan struct{})
	service := services.NewLoreService(&mocks.GeneratorMock{
		LoreChatFunc: func(ctx context.Context, d models.CharacterDesign, question string) (string, error) {
			close(started)
			<-release
			return "Slow answer.", nil
		},
	})
	service.Reset(&design)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = service.Ask(context.Background(), "slow question")
	}()
	<-started

	entries, err := service.Ask(context.Background(), "impatient question")
	assert.NoError(t, err)
	assert.Nil(t, entries)

	close(release)
	<-done
	assert.Len(t, service.Entries(), 1)
}
