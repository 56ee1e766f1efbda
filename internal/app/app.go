package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/compoundjoy/server/internal/config"
	"github.com/compoundjoy/server/internal/db"
	"github.com/compoundjoy/server/internal/middleware"
	"github.com/compoundjoy/server/internal/repository"
	"github.com/compoundjoy/server/internal/service"
	"github.com/compoundjoy/server/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	GoalService    *service.GoalService
	StatsService   *service.StatsService
	ProfileService *service.ProfileService
	ExportService  *service.ExportService
	ClaimLimiter   *middleware.RateLimiter
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	if cfg.MigrateOnStart {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %v", err)
		}
	}

	// Storage (nil when exports are not configured)
	exportStorage, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	return newApp(cfg, database, exportStorage), nil
}

// NewWithStorage builds the app around an already migrated database and an
// explicit export store.
func NewWithStorage(cfg *config.Config, database *sqlx.DB, exportStorage storage.Storage) *App {
	return newApp(cfg, database, exportStorage)
}

func newApp(cfg *config.Config, database *sqlx.DB, exportStorage storage.Storage) *App {
	// Repositories
	goalRepository := repository.NewGoalRepository(database)
	contributionRepository := repository.NewContributionRepository(database)
	profileRepository := repository.NewProfileRepository(database)

	// Services
	guard := service.NewGuard(service.ContextCaller, service.NewProfileRoles(profileRepository))
	statsService := service.NewStatsService(goalRepository, contributionRepository, guard)

	app := &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry),
		GoalService:    service.NewGoalService(goalRepository, contributionRepository, guard),
		StatsService:   statsService,
		ProfileService: service.NewProfileService(profileRepository, guard),
		ExportService:  service.NewExportService(goalRepository, contributionRepository, statsService, exportStorage, guard),
		ClaimLimiter:   middleware.NewRateLimiter(cfg.RateLimitClaims, cfg.RateLimitWindow),
	}

	slog.Debug("app initialized", "driver", cfg.DBDriver, "exports", exportStorage != nil)
	return app
}

func (a *App) Close() error {
	if a.ClaimLimiter != nil {
		a.ClaimLimiter.Stop()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
