package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"aaruto/internal/models"
	"aaruto/internal/services"
)

// App struct
type App struct {
	ctx     context.Context
	dbClose func() error

	auth     services.AuthService
	settings services.SettingsService
	forge    services.ForgeService
	sensei   services.SenseiService
	lore     services.LoreService
	export   services.ExportService
}

// NewApp creates a new App application struct
func NewApp(
	auth services.AuthService,
	settings services.SettingsService,
	forge services.ForgeService,
	sensei services.SenseiService,
	lore services.LoreService,
	export services.ExportService,
) *App {
	return &App{
		auth:     auth,
		settings: settings,
		forge:    forge,
		sensei:   sensei,
		lore:     lore,
		export:   export,
	}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	a.auth.Startup(ctx)
	a.settings.Startup(ctx)
	a.forge.Startup(ctx)

	// A draft change invalidates the lore log, which belongs to one design.
	a.forge.OnDraftChange(a.lore.Reset)
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	a.forge.Shutdown(ctx)

	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// --- Session ---

func (a *App) Login(email, password string) (*models.Identity, error) {
	return a.auth.Login(a.ctx, email, password)
}

func (a *App) Signup(email, password string) (*models.Identity, error) {
	return a.auth.Signup(a.ctx, email, password)
}

func (a *App) Logout() {
	a.auth.Logout(a.ctx)
}

func (a *App) CurrentUser() *models.Identity {
	return a.auth.Current()
}

// ListUsers returns the bound identities. Admin sessions only.
func (a *App) ListUsers() ([]models.User, error) {
	return a.auth.ListUsers(a.ctx)
}

// --- Settings ---

func (a *App) GetSettings() models.AppSettings {
	return a.settings.Get()
}

func (a *App) UpdateSettings(s models.AppSettings) error {
	return a.settings.Update(a.ctx, s)
}

// --- Forge ---

func (a *App) GetState() models.GenerationState {
	return a.forge.State()
}

func (a *App) GetDraft() *models.GeneratedResult {
	return a.forge.Draft()
}

func (a *App) GetHistory() []models.GeneratedResult {
	return a.forge.History()
}

func (a *App) GetArchive() []models.GeneratedResult {
	return a.forge.Archive()
}

func (a *App) Summon(prompt string, quality models.QualityLevel) (*models.GeneratedResult, error) {
	return a.forge.Summon(a.ctx, prompt, quality)
}

func (a *App) Evolve() (*models.GeneratedResult, error) {
	return a.forge.Evolve(a.ctx)
}

func (a *App) GenerateEnvironment() (*models.GeneratedResult, error) {
	return a.forge.GenerateEnvironment(a.ctx)
}

func (a *App) PlayTheme() (*models.GeneratedResult, error) {
	return a.forge.PlayTheme(a.ctx)
}

func (a *App) RerollField(field models.DesignField) (*models.GeneratedResult, error) {
	return a.forge.RerollField(a.ctx, field)
}

func (a *App) EditDesign(field models.DesignField, value models.FieldValue) (*models.GeneratedResult, error) {
	return a.forge.EditDesign(a.ctx, field, value)
}

func (a *App) SwapEnvironmentView() (*models.GeneratedResult, error) {
	return a.forge.SwapEnvironmentView(a.ctx)
}

func (a *App) SelectResult(timestamp int64) (*models.GeneratedResult, error) {
	return a.forge.SelectResult(a.ctx, timestamp)
}

func (a *App) SaveToArchive() error {
	return a.forge.SaveToArchive(a.ctx)
}

func (a *App) ClearHistory() {
	a.forge.ClearHistory(a.ctx)
}

func (a *App) ShareLink() (string, error) {
	return a.forge.ShareLink()
}

// --- Sensei ---

func (a *App) SenseiTranscript() []models.ChatMessage {
	return a.sensei.Transcript()
}

func (a *App) AskSensei(question string) ([]models.ChatMessage, error) {
	return a.sensei.Ask(a.ctx, question)
}

// --- Lore ---

func (a *App) LoreEntries() []models.LoreEntry {
	return a.lore.Entries()
}

func (a *App) SearchLore(query string) []models.LoreEntry {
	return a.lore.Search(query)
}

func (a *App) AskLore(question string) ([]models.LoreEntry, error) {
	return a.lore.Ask(a.ctx, question)
}

// --- Export ---

func (a *App) ExportCurrent() (string, error) {
	draft := a.forge.Draft()
	if draft == nil {
		return "", models.ErrNoDraft
	}
	path, err := a.export.ExportResult(*draft)
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to export character sheet: %v", err))
		return "", err
	}
	runtime.LogInfo(a.ctx, fmt.Sprintf("exported character sheet to %s", path))
	return path, nil
}

func (a *App) ListExports() ([]string, error) {
	return a.export.ListExports()
}

// SelectDirectory opens a native directory picker dialog
func (a *App) SelectDirectory() (string, error) {
	dir, err := runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select Directory",
	})
	if err != nil {
		return "", err
	}
	return dir, nil
}
