package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"aaruto/internal/audio"
	"aaruto/internal/events"
	"aaruto/internal/models"
	"aaruto/internal/repositories"
)

// providerTimeout bounds every generation call so a hung provider cannot pin
// the forge in a non-idle state.
const providerTimeout = 120 * time.Second

// autosaveInterval is how often the draft is flushed while autosave is on.
const autosaveInterval = 60 * time.Second

// Generator is the provider surface the forge depends on.
type Generator interface {
	GenerateDesign(ctx context.Context, prompt string) (*models.CharacterDesign, error)
	EvolveDesign(ctx context.Context, current models.CharacterDesign) (*models.CharacterDesign, error)
	GenerateImage(ctx context.Context, design models.CharacterDesign, quality models.QualityLevel, settings models.AppSettings, variant models.ImageVariant) (string, error)
	GenerateThemeAudio(ctx context.Context, design models.CharacterDesign) ([]byte, error)
	UpdateField(ctx context.Context, design models.CharacterDesign, field models.DesignField) (models.FieldValue, error)
}

// ForgeService runs the generation state machine. At most one generation-class
// flow is in flight; a request arriving while one runs is dropped without
// error. Provider failures end the flow with a notice and a nil result;
// validation failures return an error without touching any state.
type ForgeService interface {
	Startup(ctx context.Context)
	Shutdown(ctx context.Context)

	State() models.GenerationState
	Draft() *models.GeneratedResult
	History() []models.GeneratedResult
	Archive() []models.GeneratedResult

	Summon(ctx context.Context, prompt string, quality models.QualityLevel) (*models.GeneratedResult, error)
	Evolve(ctx context.Context) (*models.GeneratedResult, error)
	GenerateEnvironment(ctx context.Context) (*models.GeneratedResult, error)
	PlayTheme(ctx context.Context) (*models.GeneratedResult, error)
	RerollField(ctx context.Context, field models.DesignField) (*models.GeneratedResult, error)

	EditDesign(ctx context.Context, field models.DesignField, value models.FieldValue) (*models.GeneratedResult, error)
	SwapEnvironmentView(ctx context.Context) (*models.GeneratedResult, error)
	SelectResult(ctx context.Context, timestamp int64) (*models.GeneratedResult, error)
	SaveToArchive(ctx context.Context) error
	ClearHistory(ctx context.Context)
	ShareLink() (string, error)

	OnDraftChange(fn func(design *models.CharacterDesign))
}

type forgeService struct {
	mu      sync.Mutex
	state   models.GenerationState
	draft   *models.GeneratedResult
	history []models.GeneratedResult
	archive []models.GeneratedResult

	lastStamp int64
	now       func() time.Time

	autosaveEvery time.Duration

	generator Generator
	store     repositories.StateRepository
	settings  SettingsService

	draftChanged func(design *models.CharacterDesign)

	autosaveStop chan struct{}
}

func NewForgeService(generator Generator, store repositories.StateRepository, settings SettingsService) ForgeService {
	return NewForgeServiceWithAutosave(generator, store, settings, autosaveInterval)
}

// NewForgeServiceWithAutosave overrides the autosave cadence.
func NewForgeServiceWithAutosave(generator Generator, store repositories.StateRepository, settings SettingsService, every time.Duration) ForgeService {
	return &forgeService{
		state:         models.StateIdle,
		now:           time.Now,
		generator:     generator,
		store:         store,
		settings:      settings,
		autosaveEvery: every,
	}
}

func (s *forgeService) Startup(ctx context.Context) {
	s.mu.Lock()
	s.history = s.store.LoadHistory(ctx)
	s.archive = s.store.LoadArchive(ctx)
	s.draft = s.store.LoadDraft(ctx)
	for _, r := range s.history {
		if r.Timestamp > s.lastStamp {
			s.lastStamp = r.Timestamp
		}
	}
	s.autosaveStop = make(chan struct{})
	s.mu.Unlock()

	log.Printf("forge: restored %d history entries, %d archived", len(s.history), len(s.archive))
	go s.autosaveLoop(ctx)
}

func (s *forgeService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	if s.autosaveStop != nil {
		close(s.autosaveStop)
		s.autosaveStop = nil
	}
	draft := s.draft
	s.mu.Unlock()
	if draft != nil {
		s.store.SaveDraft(ctx, draft)
	}
}

func (s *forgeService) autosaveLoop(ctx context.Context) {
	s.mu.Lock()
	stop := s.autosaveStop
	s.mu.Unlock()

	ticker := time.NewTicker(s.autosaveEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !s.settings.Get().AutoSave {
				continue
			}
			s.mu.Lock()
			draft := s.draft
			s.mu.Unlock()
			if draft != nil {
				s.store.SaveDraft(ctx, draft)
			}
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// begin claims the forge for one flow. It reports false when another flow is
// already running, in which case the caller drops the request.
func (s *forgeService) begin(ctx context.Context, state models.GenerationState) bool {
	s.mu.Lock()
	if s.state != models.StateIdle {
		s.mu.Unlock()
		log.Printf("forge: dropped %s request, forge busy in %s", state, s.state)
		return false
	}
	s.state = state
	s.mu.Unlock()
	s.emitState(ctx, state)
	return true
}

func (s *forgeService) setPhase(ctx context.Context, state models.GenerationState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.emitState(ctx, state)
}

func (s *forgeService) finish(ctx context.Context) {
	s.setPhase(ctx, models.StateIdle)
}

func (s *forgeService) emitState(ctx context.Context, state models.GenerationState) {
	evt := events.NewInfo(string(state))
	evt.Metadata = map[string]string{"state": string(state)}
	events.Emit(ctx, events.ForgeState, evt)
}

func (s *forgeService) notify(ctx context.Context, evt events.AppEvent) {
	events.Emit(ctx, events.ForgeNotify, evt)
}

// nextTimestamp returns a strictly increasing creation instant even when two
// results land within the same millisecond.
func (s *forgeService) nextTimestamp() int64 {
	ts := s.now().UnixMilli()
	if ts <= s.lastStamp {
		ts = s.lastStamp + 1
	}
	s.lastStamp = ts
	return ts
}

func (s *forgeService) State() models.GenerationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *forgeService) Draft() *models.GeneratedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	out := s.draft.Clone()
	return &out
}

func (s *forgeService) History() []models.GeneratedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GeneratedResult(nil), s.history...)
}

func (s *forgeService) Archive() []models.GeneratedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GeneratedResult(nil), s.archive...)
}

func (s *forgeService) OnDraftChange(fn func(design *models.CharacterDesign)) {
	s.mu.Lock()
	s.draftChanged = fn
	s.mu.Unlock()
}

func (s *forgeService) fireDraftChange(design *models.CharacterDesign) {
	s.mu.Lock()
	fn := s.draftChanged
	s.mu.Unlock()
	if fn != nil {
		fn(design)
	}
}

// Summon runs the full manifestation: structured design, then character
// portrait. The new result lands at the front of history and becomes the
// draft.
func (s *forgeService) Summon(ctx context.Context, prompt string, quality models.QualityLevel) (*models.GeneratedResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, models.ErrPromptRequired
	}
	if !quality.Valid() {
		quality = models.QualityGenin
	}
	if !s.begin(ctx, models.StateGeneratingDesign) {
		return nil, nil
	}
	defer s.finish(ctx)

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	settings := s.settings.Get()

	design, err := s.generator.GenerateDesign(callCtx, prompt)
	if err != nil {
		log.Printf("forge: design generation failed: %v", err)
		s.notify(ctx, events.NewError("Manifestation failed."))
		return nil, nil
	}

	s.setPhase(ctx, models.StateGeneratingImage)
	imageURL, err := s.generator.GenerateImage(callCtx, *design, quality, settings, models.VariantCharacter)
	if err != nil {
		log.Printf("forge: image generation failed: %v", err)
		s.notify(ctx, events.NewError("Manifestation failed."))
		return nil, nil
	}

	s.mu.Lock()
	result := models.GeneratedResult{
		ImageURL:    imageURL,
		Design:      *design,
		Timestamp:   s.nextTimestamp(),
		Quality:     quality,
		Resolution:  settings.Resolution,
		ArtStyle:    settings.ArtStyle,
		Lighting:    settings.Lighting,
		Composition: settings.Composition,
	}
	s.history = prependCapped(s.history, result, models.HistoryCap)
	draft := result.Clone()
	s.draft = &draft
	s.mu.Unlock()

	s.store.SaveHistory(ctx, s.History())
	s.store.SaveDraft(ctx, &draft)
	s.fireDraftChange(&draft.Design)
	s.notify(ctx, events.NewSuccess("Manifestation successful."))

	out := result.Clone()
	return &out, nil
}

// Evolve rewrites the draft at the next ascension stage and renders a fresh
// portrait. The evolved character is a new result, not an edit of the old one.
func (s *forgeService) Evolve(ctx context.Context) (*models.GeneratedResult, error) {
	base := s.Draft()
	if base == nil {
		return nil, models.ErrNoDraft
	}
	if !s.begin(ctx, models.StateEvolving) {
		return nil, nil
	}
	defer s.finish(ctx)

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	settings := s.settings.Get()

	evolved, err := s.generator.EvolveDesign(callCtx, base.Design)
	if err != nil {
		log.Printf("forge: evolution failed: %v", err)
		s.notify(ctx, events.NewError("Evolution failed."))
		return nil, nil
	}
	if evolved.EvolutionStage <= base.Design.EvolutionStage {
		evolved.EvolutionStage = base.Design.EvolutionStage + 1
	}

	s.setPhase(ctx, models.StateGeneratingImage)
	imageURL, err := s.generator.GenerateImage(callCtx, *evolved, base.Quality, settings, models.VariantCharacter)
	if err != nil {
		log.Printf("forge: evolution image failed: %v", err)
		s.notify(ctx, events.NewError("Evolution failed."))
		return nil, nil
	}

	s.mu.Lock()
	result := models.GeneratedResult{
		ImageURL:    imageURL,
		Design:      *evolved,
		Timestamp:   s.nextTimestamp(),
		Quality:     base.Quality,
		Resolution:  settings.Resolution,
		ArtStyle:    settings.ArtStyle,
		Lighting:    settings.Lighting,
		Composition: settings.Composition,
	}
	s.history = prependCapped(s.history, result, models.HistoryCap)
	draft := result.Clone()
	s.draft = &draft
	s.mu.Unlock()

	s.store.SaveHistory(ctx, s.History())
	s.store.SaveDraft(ctx, &draft)
	s.fireDraftChange(&draft.Design)
	s.notify(ctx, events.NewSuccess("Ascension complete."))

	out := result.Clone()
	return &out, nil
}

// GenerateEnvironment renders the draft's homeworld and attaches it to the
// existing result in place. It does not create a new history entry.
func (s *forgeService) GenerateEnvironment(ctx context.Context) (*models.GeneratedResult, error) {
	base := s.Draft()
	if base == nil {
		return nil, models.ErrNoDraft
	}
	if !s.begin(ctx, models.StateGeneratingEnv) {
		return nil, nil
	}
	defer s.finish(ctx)

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	envURL, err := s.generator.GenerateImage(callCtx, base.Design, base.Quality, s.settings.Get(), models.VariantEnvironment)
	if err != nil {
		log.Printf("forge: environment generation failed: %v", err)
		s.notify(ctx, events.NewError("World manifestation failed."))
		return nil, nil
	}

	s.mu.Lock()
	if s.draft == nil || s.draft.Timestamp != base.Timestamp {
		s.mu.Unlock()
		return nil, nil
	}
	s.draft.EnvImageURL = envURL
	for i := range s.history {
		if s.history[i].Timestamp == base.Timestamp {
			s.history[i].EnvImageURL = envURL
			break
		}
	}
	draft := s.draft.Clone()
	s.mu.Unlock()

	s.store.SaveHistory(ctx, s.History())
	s.store.SaveDraft(ctx, &draft)
	s.notify(ctx, events.NewSuccess("World manifested."))

	return &draft, nil
}

// PlayTheme synthesizes the draft's theme narration and stores it as a
// playable WAV data URI on the draft only. History stays untouched so replays
// never bloat persisted collections.
func (s *forgeService) PlayTheme(ctx context.Context) (*models.GeneratedResult, error) {
	base := s.Draft()
	if base == nil {
		return nil, models.ErrNoDraft
	}
	if !s.begin(ctx, models.StateGeneratingAudio) {
		return nil, nil
	}
	defer s.finish(ctx)

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	pcm, err := s.generator.GenerateThemeAudio(callCtx, base.Design)
	if err != nil {
		log.Printf("forge: theme audio failed: %v", err)
		s.notify(ctx, events.NewError("Audio resonance failed."))
		return nil, nil
	}

	s.mu.Lock()
	if s.draft == nil || s.draft.Timestamp != base.Timestamp {
		s.mu.Unlock()
		return nil, nil
	}
	s.draft.AudioData = audio.DataURI(pcm, audio.ThemeSampleRate)
	draft := s.draft.Clone()
	s.mu.Unlock()

	s.notify(ctx, events.NewSuccess("Theme resonating."))
	return &draft, nil
}

// RerollField regenerates one design field on the draft. History entries keep
// their original value.
func (s *forgeService) RerollField(ctx context.Context, field models.DesignField) (*models.GeneratedResult, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("unknown design field %q", field)
	}
	base := s.Draft()
	if base == nil {
		return nil, models.ErrNoDraft
	}
	if !s.begin(ctx, models.StateUpdatingField) {
		return nil, nil
	}
	defer s.finish(ctx)

	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	value, err := s.generator.UpdateField(callCtx, base.Design, field)
	if err != nil {
		log.Printf("forge: reroll %s failed: %v", field, err)
		s.notify(ctx, events.NewError("Manifestation failed."))
		return nil, nil
	}
	update, err := models.UpdateFor(field, value)
	if err != nil {
		log.Printf("forge: reroll %s returned bad payload: %v", field, err)
		s.notify(ctx, events.NewError("Manifestation failed."))
		return nil, nil
	}

	s.mu.Lock()
	if s.draft == nil || s.draft.Timestamp != base.Timestamp {
		s.mu.Unlock()
		return nil, nil
	}
	update.Apply(&s.draft.Design)
	draft := s.draft.Clone()
	s.mu.Unlock()

	s.store.SaveDraft(ctx, &draft)
	s.notify(ctx, events.NewSuccess(field.Label()+" re-manifested."))
	return &draft, nil
}

// EditDesign applies a manual field edit to the draft without any provider
// call. Stats are clamped on the way in.
func (s *forgeService) EditDesign(ctx context.Context, field models.DesignField, value models.FieldValue) (*models.GeneratedResult, error) {
	update, err := models.UpdateFor(field, value)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return nil, models.ErrNoDraft
	}
	update.Apply(&s.draft.Design)
	draft := s.draft.Clone()
	s.mu.Unlock()

	s.store.SaveDraft(ctx, &draft)
	return &draft, nil
}

// SwapEnvironmentView exchanges the portrait and environment images on the
// draft so the frontend can feature either as the primary view.
func (s *forgeService) SwapEnvironmentView(ctx context.Context) (*models.GeneratedResult, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return nil, models.ErrNoDraft
	}
	if s.draft.EnvImageURL == "" {
		draft := s.draft.Clone()
		s.mu.Unlock()
		return &draft, nil
	}
	s.draft.ImageURL, s.draft.EnvImageURL = s.draft.EnvImageURL, s.draft.ImageURL
	draft := s.draft.Clone()
	s.mu.Unlock()

	s.store.SaveDraft(ctx, &draft)
	return &draft, nil
}

// SelectResult recalls a past result from history or the archive into the
// draft slot.
func (s *forgeService) SelectResult(ctx context.Context, timestamp int64) (*models.GeneratedResult, error) {
	s.mu.Lock()
	var found *models.GeneratedResult
	for i := range s.history {
		if s.history[i].Timestamp == timestamp {
			r := s.history[i].Clone()
			found = &r
			break
		}
	}
	if found == nil {
		for i := range s.archive {
			if s.archive[i].Timestamp == timestamp {
				r := s.archive[i].Clone()
				found = &r
				break
			}
		}
	}
	if found == nil {
		s.mu.Unlock()
		return nil, models.ErrResultNotFound
	}
	s.draft = found
	draft := found.Clone()
	s.mu.Unlock()

	s.store.SaveDraft(ctx, &draft)
	s.fireDraftChange(&draft.Design)
	return &draft, nil
}

// SaveToArchive copies the draft into the saved scrolls. Saving the same
// result twice replaces the earlier copy instead of duplicating it.
func (s *forgeService) SaveToArchive(ctx context.Context) error {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return models.ErrNoDraft
	}
	entry := s.draft.Clone()
	filtered := s.archive[:0:0]
	for _, r := range s.archive {
		if r.Timestamp != entry.Timestamp {
			filtered = append(filtered, r)
		}
	}
	s.archive = prependCapped(filtered, entry, models.ArchiveCap)
	s.mu.Unlock()

	s.store.SaveArchive(ctx, s.Archive())
	s.notify(ctx, events.NewSuccess("Archived."))
	return nil
}

// ClearHistory wipes the rolling history. The archive and draft survive.
func (s *forgeService) ClearHistory(ctx context.Context) {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()

	s.store.ClearHistory(ctx)
	s.notify(ctx, events.NewInfo("History purged."))
}

// ShareLink encodes the draft's design as a recallable fragment URL.
func (s *forgeService) ShareLink() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return "", models.ErrNoDraft
	}
	payload, err := json.Marshal(s.draft.Design)
	if err != nil {
		return "", err
	}
	return "#/summon/" + base64.StdEncoding.EncodeToString(payload), nil
}

func prependCapped(list []models.GeneratedResult, head models.GeneratedResult, limit int) []models.GeneratedResult {
	out := make([]models.GeneratedResult, 0, len(list)+1)
	out = append(out, head)
	out = append(out, list...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
