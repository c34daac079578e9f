package main

import (
	"context"
	"embed"
	"fmt"
	"log"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"aaruto/internal/database"
	"aaruto/internal/events"
	"aaruto/internal/llm/advisor"
	"aaruto/internal/llm/client"
	"aaruto/internal/repositories"
	"aaruto/internal/services"
	"aaruto/internal/utils"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := utils.LoadEnv(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	logLevel := logger.Warn
	if database.IsDevelopment() {
		logLevel = logger.Info
	}
	db, err := database.Init(database.Config{
		LogLevel: logLevel,
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}

	keyringService := services.NewKeyringService()

	ctx := context.Background()

	geminiKey := apiKeyFor(keyringService, "gemini", "GEMINI_API_KEY")
	if geminiKey == "" {
		fmt.Println("No Gemini API key found. Store one with the keyring or set GEMINI_API_KEY.")
		return
	}
	generator, err := client.New(ctx, geminiKey)
	if err != nil {
		fmt.Println("Error creating generation client:", err)
		return
	}

	adv, err := buildAdvisor(ctx, keyringService, generator)
	if err != nil {
		fmt.Println("Error creating sensei advisor:", err)
		return
	}

	records := repositories.NewRecordRepository(db)
	state := repositories.NewStateRepository(records)
	credentials := repositories.NewCredentialRepository(db)

	authService := services.NewAuthService(credentials, state)
	settingsService := services.NewSettingsService(state)
	forgeService := services.NewForgeService(generator, state, settingsService)
	senseiService := services.NewSenseiService(adv)
	loreService := services.NewLoreService(generator)
	exportService, err := services.NewExportService(os.Getenv("AARUTO_EXPORT_DIR"))
	if err != nil {
		fmt.Println("Error creating export service:", err)
		return
	}

	app := NewApp(authService, settingsService, forgeService, senseiService, loreService, exportService)
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	err = wails.Run(&options.App{
		Title:  "Aaruto",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "Aaruto",
		},
		BackgroundColour: &options.RGBA{R: 10, G: 10, B: 18, A: 1},
		OnStartup: func(ctx context.Context) {
			events.EnableRuntimeEmitter()
			app.startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			keyringService,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}

// apiKeyFor prefers the keyring entry and falls back to the environment.
func apiKeyFor(kr *services.KeyringService, provider, envVar string) string {
	if key, err := kr.GetApiKey(provider); err == nil && key != "" {
		return key
	}
	return os.Getenv(envVar)
}

// buildAdvisor selects the sensei chat backend. Gemini is the default and
// reuses the generation client; OpenAI and Claude need their own keys.
func buildAdvisor(ctx context.Context, kr *services.KeyringService, generator *client.GeminiClient) (advisor.Advisor, error) {
	switch provider := os.Getenv("CHAT_PROVIDER"); provider {
	case "", "gemini":
		return advisor.NewGemini(ctx, generator.Raw())
	case "openai":
		key := apiKeyFor(kr, "openai", "OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("no OpenAI API key found")
		}
		return advisor.NewOpenAI(ctx, key)
	case "claude":
		key := apiKeyFor(kr, "claude", "ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("no Claude API key found")
		}
		return advisor.NewClaude(ctx, key)
	default:
		return nil, fmt.Errorf("unknown chat provider %q", provider)
	}
}
