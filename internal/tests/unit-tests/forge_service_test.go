package unit_tests

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aaruto/internal/events"
	"aaruto/internal/models"
	"aaruto/internal/services"
	"aaruto/internal/tests/mocks"
)

func newForge(t *testing.T, gen *mocks.GeneratorMock, store *mocks.StateRepositoryMock) services.ForgeService {
	t.Helper()
	settings := services.NewSettingsService(store)
	settings.Startup(context.Background())
	forge := services.NewForgeService(gen, store, settings)
	forge.Startup(context.Background())
	t.Cleanup(func() { forge.Shutdown(context.Background()) })
	return forge
}

func captureNotices(t *testing.T) *[]events.AppEvent {
	t.Helper()
	var notices []events.AppEvent
	events.SetCustomEmitter(func(ctx context.Context, name string, evt events.AppEvent) {
		if name == events.ForgeNotify {
			notices = append(notices, evt)
		}
	})
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	return &notices
}

func TestForgeService_Summon_Success(t *testing.T) {
	store := &mocks.StateRepositoryMock{}
	forge := newForge(t, &mocks.GeneratorMock{}, store)
	notices := captureNotices(t)

	result, err := forge.Summon(context.Background(), "storm knight", models.QualityJonin)
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "data:image/png;base64,char", result.ImageURL)
	assert.Equal(t, models.QualityJonin, result.Quality)
	assert.Equal(t, models.StateIdle, forge.State())

	history := forge.History()
	assert.Len(t, history, 1)
	assert.Equal(t, result.Timestamp, history[0].Timestamp)

	draft := forge.Draft()
	assert.NotNil(t, draft)
	assert.Equal(t, result.Timestamp, draft.Timestamp)

	assert.Len(t, store.HistoryData, 1)
	assert.NotNil(t, store.DraftData)

	if assert.NotEmpty(t, *notices) {
		assert.Equal(t, "Manifestation successful.", (*notices)[len(*notices)-1].Message)
	}
}

func TestForgeService_Summon_EmptyPrompt(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	_, err := forge.Summon(context.Background(), "   ", models.QualityGenin)
	assert.ErrorIs(t, err, models.ErrPromptRequired)
	assert.Empty(t, forge.History())
}

func TestForgeService_Summon_NewestFirst(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	first, err := forge.Summon(context.Background(), "first", models.QualityGenin)
	assert.NoError(t, err)
	second, err := forge.Summon(context.Background(), "second", models.QualityGenin)
	assert.NoError(t, err)

	history := forge.History()
	assert.Len(t, history, 2)
	assert.Equal(t, second.Timestamp, history[0].Timestamp)
	assert.Equal(t, first.Timestamp, history[1].Timestamp)
	assert.Greater(t, second.Timestamp, first.Timestamp)
}

func TestForgeService_Summon_HistoryCap(t *testing.T) {
	// newest first, timestamps 30..1
	seed := make([]models.GeneratedResult, models.HistoryCap)
	for i := range seed {
		seed[i] = models.GeneratedResult{Design: mocks.SampleDesign(), Timestamp: int64(models.HistoryCap - i)}
	}
	store := &mocks.StateRepositoryMock{HistoryData: seed}
	forge := newForge(t, &mocks.GeneratorMock{}, store)

	result, err := forge.Summon(context.Background(), "one more", models.QualityGenin)
	assert.NoError(t, err)

	history := forge.History()
	assert.Len(t, history, models.HistoryCap)
	assert.Equal(t, result.Timestamp, history[0].Timestamp)
	// the oldest entry (timestamp 1) fell off the end
	assert.Equal(t, int64(2), history[len(history)-1].Timestamp)
}

func TestForgeService_Summon_ProviderFailure(t *testing.T) {
	gen := &mocks.GeneratorMock{
		GenerateDesignFunc: func(ctx context.Context, prompt string) (*models.CharacterDesign, error) {
			return nil, assert.AnError
		},
	}
	forge := newForge(t, gen, &mocks.StateRepositoryMock{})
	notices := captureNotices(t)

	result, err := forge.Summon(context.Background(), "doomed", models.QualityGenin)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, forge.History())
	assert.Nil(t, forge.Draft())
	assert.Equal(t, models.StateIdle, forge.State())

	if assert.NotEmpty(t, *notices) {
		assert.Equal(t, "Manifestation failed.", (*notices)[0].Message)
	}
}

func TestForgeService_Summon_ImageFailureDiscardsDesign(t *testing.T) {
	gen := &mocks.GeneratorMock{
		GenerateImageFunc: func(ctx context.Context, design models.CharacterDesign, quality models.QualityLevel, settings models.AppSettings, variant models.ImageVariant) (string, error) {
			return "", assert.AnError
		},
	}
	forge := newForge(t, gen, &mocks.StateRepositoryMock{})

	result, err := forge.Summon(context.Background(), "half done", models.QualityGenin)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, forge.History())
}

func TestForgeService_Summon_BusyDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gen := &mocks.GeneratorMock{
		GenerateDesignFunc: func(ctx context.Context, prompt string) (*models.CharacterDesign, error) {
			close(started)
			<-release
			d := mocks.SampleDesign()
			return &d, nil
		},
	}
	forge := newForge(t, gen, &mocks.StateRepositoryMock{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = forge.Summon(context.Background(), "slow one", models.QualityGenin)
	}()
	<-started

	result, err := forge.Summon(context.Background(), "impatient", models.QualityGenin)
	assert.NoError(t, err)
	assert.Nil(t, result)

	close(release)
	<-done
	assert.Len(t, forge.History(), 1)
}

func TestForgeService_BusyDropsEveryGenerationFlow(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var imageCalls atomic.Int64
	gen := &mocks.GeneratorMock{
		GenerateDesignFunc: func(ctx context.Context, prompt string) (*models.CharacterDesign, error) {
			close(started)
			<-release
			d := mocks.SampleDesign()
			return &d, nil
		},
		GenerateImageFunc: func(ctx context.Context, design models.CharacterDesign, quality models.QualityLevel, settings models.AppSettings, variant models.ImageVariant) (string, error) {
			imageCalls.Add(1)
			return "data:image/png;base64,img", nil
		},
		EvolveDesignFunc: func(ctx context.Context, current models.CharacterDesign) (*models.CharacterDesign, error) {
			t.Error("evolve provider call must be dropped while busy")
			return nil, assert.AnError
		},
		GenerateThemeAudioFunc: func(ctx context.Context, design models.CharacterDesign) ([]byte, error) {
			t.Error("audio provider call must be dropped while busy")
			return nil, assert.AnError
		},
	}
	// a restored draft lets the draft-requiring flows get as far as the guard
	store := &mocks.StateRepositoryMock{
		DraftData: &models.GeneratedResult{Design: mocks.SampleDesign(), Timestamp: 7},
	}
	forge := newForge(t, gen, store)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = forge.Summon(context.Background(), "slow one", models.QualityGenin)
	}()
	<-started

	result, err := forge.Evolve(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, result)

	result, err = forge.GenerateEnvironment(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, result)

	result, err = forge.PlayTheme(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, result)

	// none of the dropped flows reached a provider
	assert.Equal(t, int64(0), imageCalls.Load())

	close(release)
	<-done
	assert.Len(t, forge.History(), 1)
	assert.Equal(t, int64(1), imageCalls.Load())
}

func TestForgeService_Evolve_RequiresDraft(t *testing.T) {
	gen := &mocks.GeneratorMock{
		EvolveDesignFunc: func(ctx context.Context, current models.CharacterDesign) (*models.CharacterDesign, error) {
			t.Fatal("provider must not be called without a draft")
			return nil, nil
		},
	}
	forge := newForge(t, gen, &mocks.StateRepositoryMock{})

	_, err := forge.Evolve(context.Background())
	assert.ErrorIs(t, err, models.ErrNoDraft)
}

func TestForgeService_Evolve_StageAlwaysAdvances(t *testing.T) {
	gen := &mocks.GeneratorMock{
		EvolveDesignFunc: func(ctx context.Context, current models.CharacterDesign) (*models.CharacterDesign, error) {
			evolved := current.Clone()
			evolved.EvolutionStage = current.EvolutionStage // model ignored the increment
			return &evolved, nil
		},
	}
	forge := newForge(t, gen, &mocks.StateRepositoryMock{})

	base, err := forge.Summon(context.Background(), "seed", models.QualityChunin)
	assert.NoError(t, err)

	evolved, err := forge.Evolve(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, evolved)
	assert.Equal(t, base.Design.EvolutionStage+1, evolved.Design.EvolutionStage)
	assert.Greater(t, evolved.Timestamp, base.Timestamp)
	assert.Equal(t, base.Quality, evolved.Quality)
	assert.Len(t, forge.History(), 2)
}

func TestForgeService_GenerateEnvironment_UpdatesInPlace(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})
	notices := captureNotices(t)

	base, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)

	result, err := forge.GenerateEnvironment(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "data:image/png;base64,env", result.EnvImageURL)
	assert.Equal(t, base.Timestamp, result.Timestamp)

	// no new history entry, the existing one gained the environment image
	history := forge.History()
	assert.Len(t, history, 1)
	assert.Equal(t, "data:image/png;base64,env", history[0].EnvImageURL)

	assert.Equal(t, "World manifested.", (*notices)[len(*notices)-1].Message)
}

func TestForgeService_GenerateEnvironment_RequiresDraft(t *testing.T) {
	gen := &mocks.GeneratorMock{
		GenerateImageFunc: func(ctx context.Context, design models.CharacterDesign, quality models.QualityLevel, settings models.AppSettings, variant models.ImageVariant) (string, error) {
			t.Fatal("provider must not be called without a draft")
			return "", nil
		},
	}
	forge := newForge(t, gen, &mocks.StateRepositoryMock{})

	_, err := forge.GenerateEnvironment(context.Background())
	assert.ErrorIs(t, err, models.ErrNoDraft)
}

func TestForgeService_PlayTheme_DraftOnly(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	_, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)

	result, err := forge.PlayTheme(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, strings.HasPrefix(result.AudioData, "data:audio/wav;base64,"))

	// the history entry stays lean
	history := forge.History()
	assert.Empty(t, history[0].AudioData)
}

func TestForgeService_RerollField_MutatesDraftOnly(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})
	notices := captureNotices(t)

	_, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)
	originalName := forge.History()[0].Design.Name

	result, err := forge.RerollField(context.Background(), models.FieldName)
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Rewritten name", result.Design.Name)
	assert.Equal(t, originalName, forge.History()[0].Design.Name)

	assert.Equal(t, "Name re-manifested.", (*notices)[len(*notices)-1].Message)
}

func TestForgeService_RerollField_ProviderFailureKeepsDraft(t *testing.T) {
	gen := &mocks.GeneratorMock{
		UpdateFieldFunc: func(ctx context.Context, design models.CharacterDesign, field models.DesignField) (models.FieldValue, error) {
			return models.FieldValue{}, assert.AnError
		},
	}
	forge := newForge(t, gen, &mocks.StateRepositoryMock{})

	seed, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)

	result, err := forge.RerollField(context.Background(), models.FieldLore)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, seed.Design.Lore, forge.Draft().Design.Lore)
}

func TestForgeService_EditDesign_ClampsStats(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	_, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)

	result, err := forge.EditDesign(context.Background(), models.FieldStats, models.FieldValue{
		Stats: &models.CharacterStats{Strength: 150, Agility: -5, Intelligence: 50, Stamina: 0},
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatMax, result.Design.Stats.Strength)
	assert.Equal(t, models.StatMin, result.Design.Stats.Agility)
	assert.Equal(t, 50, result.Design.Stats.Intelligence)
	assert.Equal(t, models.StatMin, result.Design.Stats.Stamina)
}

func TestForgeService_EditDesign_RejectsBadPayload(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	_, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)

	_, err = forge.EditDesign(context.Background(), models.FieldStats, models.FieldValue{Text: "not stats"})
	assert.Error(t, err)
}

func TestForgeService_SwapEnvironmentView(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	_, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)
	_, err = forge.GenerateEnvironment(context.Background())
	assert.NoError(t, err)

	swapped, err := forge.SwapEnvironmentView(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,env", swapped.ImageURL)
	assert.Equal(t, "data:image/png;base64,char", swapped.EnvImageURL)
}

func TestForgeService_SelectResult_FromHistoryAndArchive(t *testing.T) {
	archived := models.GeneratedResult{Design: mocks.SampleDesign(), Timestamp: 777}
	store := &mocks.StateRepositoryMock{ArchiveData: []models.GeneratedResult{archived}}
	forge := newForge(t, &mocks.GeneratorMock{}, store)

	seed, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)

	fromArchive, err := forge.SelectResult(context.Background(), 777)
	assert.NoError(t, err)
	assert.Equal(t, int64(777), fromArchive.Timestamp)
	assert.Equal(t, int64(777), forge.Draft().Timestamp)

	fromHistory, err := forge.SelectResult(context.Background(), seed.Timestamp)
	assert.NoError(t, err)
	assert.Equal(t, seed.Timestamp, fromHistory.Timestamp)

	_, err = forge.SelectResult(context.Background(), 123456)
	assert.ErrorIs(t, err, models.ErrResultNotFound)
}

func TestForgeService_SelectResult_ResetsLoreBinding(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	var rebound *models.CharacterDesign
	forge.OnDraftChange(func(design *models.CharacterDesign) { rebound = design })

	seed, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)
	assert.NotNil(t, rebound)

	rebound = nil
	_, err = forge.SelectResult(context.Background(), seed.Timestamp)
	assert.NoError(t, err)
	assert.NotNil(t, rebound)
}

func TestForgeService_SaveToArchive_DedupesAndCaps(t *testing.T) {
	seed := make([]models.GeneratedResult, models.ArchiveCap)
	for i := range seed {
		seed[i] = models.GeneratedResult{Design: mocks.SampleDesign(), Timestamp: int64(i + 1)}
	}
	store := &mocks.StateRepositoryMock{ArchiveData: seed}
	forge := newForge(t, &mocks.GeneratorMock{}, store)
	notices := captureNotices(t)

	result, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)

	assert.NoError(t, forge.SaveToArchive(context.Background()))
	assert.NoError(t, forge.SaveToArchive(context.Background()))

	archive := forge.Archive()
	assert.Len(t, archive, models.ArchiveCap)
	assert.Equal(t, result.Timestamp, archive[0].Timestamp)
	// saving twice did not duplicate the entry
	count := 0
	for _, r := range archive {
		if r.Timestamp == result.Timestamp {
			count++
		}
	}
	assert.Equal(t, 1, count)

	assert.Equal(t, "Archived.", (*notices)[len(*notices)-1].Message)
}

func TestForgeService_ClearHistory_SparesArchiveAndDraft(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	_, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)
	assert.NoError(t, forge.SaveToArchive(context.Background()))

	forge.ClearHistory(context.Background())
	assert.Empty(t, forge.History())
	assert.Len(t, forge.Archive(), 1)
	assert.NotNil(t, forge.Draft())
}

func TestForgeService_ShareLink_RoundTrip(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	_, err := forge.ShareLink()
	assert.ErrorIs(t, err, models.ErrNoDraft)

	result, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)

	link, err := forge.ShareLink()
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "#/summon/"))

	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link, "#/summon/"))
	assert.NoError(t, err)
	var decoded models.CharacterDesign
	assert.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, result.Design, decoded)
}

func TestForgeService_Startup_RestoresState(t *testing.T) {
	store := &mocks.StateRepositoryMock{
		HistoryData: []models.GeneratedResult{{Design: mocks.SampleDesign(), Timestamp: 99}},
		DraftData:   &models.GeneratedResult{Design: mocks.SampleDesign(), Timestamp: 99},
	}
	forge := newForge(t, &mocks.GeneratorMock{}, store)

	assert.Len(t, forge.History(), 1)
	assert.NotNil(t, forge.Draft())

	// a new timestamp never collides with a restored one
	result, err := forge.Summon(context.Background(), "fresh", models.QualityGenin)
	assert.NoError(t, err)
	assert.Greater(t, result.Timestamp, int64(99))
}

func TestForgeService_Autosave_StopsWhenToggledOff(t *testing.T) {
	var draftSaves, historySaves atomic.Int64
	store := &mocks.StateRepositoryMock{}
	store.SaveDraftFunc = func(ctx context.Context, draft *models.GeneratedResult) {
		draftSaves.Add(1)
	}
	store.SaveHistoryFunc = func(ctx context.Context, history []models.GeneratedResult) {
		historySaves.Add(1)
	}

	settings := services.NewSettingsService(store)
	settings.Startup(context.Background())
	forge := services.NewForgeServiceWithAutosave(&mocks.GeneratorMock{}, store, settings, 5*time.Millisecond)
	forge.Startup(context.Background())
	t.Cleanup(func() { forge.Shutdown(context.Background()) })

	_, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)
	afterSummon := draftSaves.Load()
	historyAfterSummon := historySaves.Load()

	// the ticker keeps flushing the draft while autosave is on
	assert.Eventually(t, func() bool {
		return draftSaves.Load() > afterSummon
	}, time.Second, time.Millisecond)

	off := settings.Get()
	off.AutoSave = false
	assert.NoError(t, settings.Update(context.Background(), off))

	// drain any tick that was already in flight, then expect silence
	time.Sleep(20 * time.Millisecond)
	settled := draftSaves.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, draftSaves.Load())

	// autosave only ever touches the draft
	assert.Equal(t, historyAfterSummon, historySaves.Load())
	assert.Empty(t, store.ArchiveData)
}

func TestForgeService_StateReturnsToIdleAfterEveryFlow(t *testing.T) {
	forge := newForge(t, &mocks.GeneratorMock{}, &mocks.StateRepositoryMock{})

	_, err := forge.Summon(context.Background(), "seed", models.QualityGenin)
	assert.NoError(t, err)
	assert.Equal(t, models.StateIdle, forge.State())

	_, err = forge.Evolve(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.StateIdle, forge.State())

	_, err = forge.PlayTheme(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.StateIdle, forge.State())

	// even a short wait should never observe a stuck state
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, models.StateIdle, forge.State())
}
