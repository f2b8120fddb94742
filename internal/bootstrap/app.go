package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"timetable-backend/internal/extract"
	"timetable-backend/internal/processing"
	"timetable-backend/internal/shared/config"
	"timetable-backend/internal/shared/server"
	"timetable-backend/internal/shared/storage/db"
	"timetable-backend/internal/shared/telemetry"
	"timetable-backend/internal/structuring"
	openaiclient "timetable-backend/internal/structuring/openai"
	"timetable-backend/internal/timetables"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Engine       *extract.Engine
	GoogleVision *extract.GoogleVision
	Extractors   *extract.Factory

	StructuringService *structuring.Service
	ProcessingService  *processing.Service

	TimetablesRepo    timetables.TimetablesRepo
	TimetablesService *timetables.Service
	TimetablesHandler *timetables.Handler
}

// Overrides let tests swap pipeline pieces before routes are wired.
type Overrides struct {
	StructuringClient structuring.Client
	Processor         timetables.Processor
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOverrides(cfg, Overrides{})
}

// BuildWithOverrides is Build with test seams.
func BuildWithOverrides(cfg config.Config, ov Overrides) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB := buildDB(ctx, cfg)

	imageOpts := extract.ImageOptions{
		MaxWidth:     cfg.ImageMaxWidth,
		MaxHeight:    cfg.ImageMaxHeight,
		MinDimension: cfg.ImageMinDim,
	}

	engine := extract.NewEngine(cfg.TesseractPath, cfg.TesseractLang)
	tesseract := extract.NewTesseract(engine, imageOpts, cfg.OCRTimeout)
	groq := extract.NewGroqVision(cfg.GroqAPIKey, cfg.GroqVisionModel, imageOpts, cfg.OCRTimeout)
	google := extract.NewGoogleVision(ctx, extract.GoogleVisionConfig{
		ProjectID:       cfg.GoogleProjectID,
		Location:        cfg.GoogleLocation,
		ProcessorID:     cfg.GoogleProcessorID,
		CredentialsFile: cfg.GoogleCredentialsFile,
	}, imageOpts, cfg.OCRTimeout)
	docx := extract.NewDocx()

	defaultProvider, err := extract.ParseProvider(cfg.DefaultVisionProvider)
	if err != nil || defaultProvider == "" {
		defaultProvider = extract.ProviderGroq
	}
	factory := extract.NewFactory(groq, google, tesseract, docx, defaultProvider)

	llmClient := ov.StructuringClient
	if llmClient == nil {
		client, err := openaiclient.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITemperature, cfg.OpenAITimeout)
		if err != nil {
			telemetry.Warn("bootstrap.structuring_unconfigured", map[string]any{"error": err.Error()})
		} else {
			llmClient = client
		}
	}
	structuringSvc := structuring.NewService(llmClient)

	processingSvc := processing.NewService(factory, structuringSvc)
	var processor timetables.Processor = processingSvc
	if ov.Processor != nil {
		processor = ov.Processor
	}

	var repo timetables.TimetablesRepo
	if sqlDB != nil {
		repo = &timetables.PGRepo{DB: sqlDB}
	} else {
		repo = timetables.NewMemoryRepo()
	}
	svc := &timetables.Service{Repo: repo, Processor: processor}
	handler := timetables.NewHandler(svc, cfg.UploadDir, cfg.MaxUploadBytes)

	app := &App{
		Config:             cfg,
		DB:                 sqlDB,
		Engine:             engine,
		GoogleVision:       google,
		Extractors:         factory,
		StructuringService: structuringSvc,
		ProcessingService:  processingSvc,
		TimetablesRepo:     repo,
		TimetablesService:  svc,
		TimetablesHandler:  handler,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		TimetableHandler: handler,
		Extractors:       factory,
		UsingDatabase:    sqlDB != nil,
	})

	return app, nil
}

// buildDB connects and migrates when DATABASE_URL is set, falling back to
// in-memory storage when the database is unreachable.
func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
		return nil
	}
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	conn, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
		return nil
	}
	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
		conn.Close()
		return nil
	}
	return conn
}

// Close releases resources held by the app.
func (a *App) Close() error {
	var firstErr error
	if a.Engine != nil {
		if err := a.Engine.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.GoogleVision != nil {
		if err := a.GoogleVision.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
