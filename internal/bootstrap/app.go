package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"medreport/internal/dashboard"
	"medreport/internal/services/health"
	"medreport/internal/session"
	"medreport/internal/shared/config"
	"medreport/internal/shared/server"
	"medreport/internal/shared/server/middleware"
	"medreport/internal/shared/storage/db"
	"medreport/internal/shared/storage/object"
	localstore "medreport/internal/shared/storage/object/local"
	s3store "medreport/internal/shared/storage/object/s3"
	"medreport/internal/upload"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Redis    *redis.Client
	Store    object.ObjectStore
	Slot     session.Slot
	Analyzer upload.Analyzer
	Sessions *session.Registry
	Health   *health.Service

	dbOptions *db.Options
	indicator upload.Indicator
}

// Option customizes Build, mostly for tests.
type Option func(*App)

// WithAnalyzer replaces the HTTP analysis client.
func WithAnalyzer(a upload.Analyzer) Option {
	return func(app *App) { app.Analyzer = a }
}

// WithIndicator reports busy state of every upload, used by the CLI spinner.
func WithIndicator(ind upload.Indicator) Option {
	return func(app *App) { app.indicator = ind }
}

// WithDBOptions is used by the CLI to keep its pool small.
func WithDBOptions(opts db.Options) Option {
	return func(app *App) { app.dbOptions = &opts }
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.SessionStoreType) == "" {
		cfg.SessionStoreType = config.StoreMemory
	}
	ctx := context.Background()

	app := &App{Config: cfg, Health: health.NewService()}
	for _, opt := range opts {
		opt(app)
	}

	if app.Analyzer == nil {
		client, err := upload.NewClient(cfg.BackendURL, cfg.AnalysisTimeout)
		if err != nil {
			return nil, err
		}
		app.Analyzer = client
	}

	slot, err := app.buildSlot(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Slot = slot
	if app.DB != nil {
		app.Health.Register("database", app.DB.PingContext)
	}
	if app.Redis != nil {
		client := app.Redis
		app.Health.Register("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}

	app.Sessions = session.NewRegistry(session.RegistryConfig{
		Slot:           app.Slot,
		Analyzer:       app.Analyzer,
		Indicator:      app.indicator,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Dashboard:      dashboard.Options{TrendsEnabled: cfg.TrendsEnabled},
		IdleTTL:        cfg.SessionTTL,
	})

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      app.Config,
		Sessions:    app.Sessions,
		RateLimiter: middleware.NewRateLimiter(nil),
		Health:      app.Health,
	})

	return app, nil
}

// Close releases sessions and connections.
func (a *App) Close() {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func (a *App) buildSlot(ctx context.Context) (session.Slot, error) {
	cfg := a.Config
	switch cfg.SessionStoreType {
	case config.StoreLocal, config.StoreS3:
		store, err := buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.Store = store
		return &session.ObjectSlot{Store: store}, nil
	case config.StorePostgres:
		sqlDB, err := a.buildDB(ctx)
		if err != nil {
			return nil, err
		}
		if sqlDB == nil {
			return session.NewMemorySlot(), nil
		}
		a.DB = sqlDB
		slot := &session.PGSlot{DB: sqlDB, TTL: cfg.SessionTTL}
		if n, err := slot.PurgeExpired(ctx); err != nil {
			log.Printf("bootstrap: purge expired session slots: %v", err)
		} else if n > 0 {
			log.Printf("bootstrap: purged %d expired session slots", n)
		}
		return slot, nil
	case config.StoreRedis:
		client, err := buildRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return session.NewMemorySlot(), nil
		}
		a.Redis = client
		return session.NewRedisSlot(client, cfg.SessionTTL), nil
	default:
		return session.NewMemorySlot(), nil
	}
}

func (a *App) buildDB(ctx context.Context) (*sql.DB, error) {
	cfg := a.Config
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory session slot")
			return nil, nil
		}
		return nil, fmt.Errorf("SESSION_STORE=postgres requires DATABASE_URL")
	}

	opts := db.ServerOptions()
	if a.dbOptions != nil {
		opts = *a.dbOptions
	}
	sqlDB, err := db.OpenSessionStore(ctx, cfg.DatabaseURL, opts.WithEnv())
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable; using in-memory session slot: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.SessionStoreType {
	case config.StoreS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("SESSION_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: REDIS_URL empty; using in-memory session slot")
			return nil, nil
		}
		return nil, fmt.Errorf("SESSION_STORE=redis requires REDIS_URL")
	}
	client, err := session.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: redis unavailable; using in-memory session slot: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
