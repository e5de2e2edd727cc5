// Package app assembles the portal client, repositories and workflows shared by the
// gateway and the terminal client.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/repository"
	"github.com/noah-isme/sma-substitution-console/internal/service"
	"github.com/noah-isme/sma-substitution-console/pkg/cache"
	"github.com/noah-isme/sma-substitution-console/pkg/config"
	"github.com/noah-isme/sma-substitution-console/pkg/export"
	"github.com/noah-isme/sma-substitution-console/pkg/storage"
)

// App holds the wired workflows.
type App struct {
	Portal        *repository.PortalClient
	Metrics       *service.MetricsService
	Absence       *service.AbsenceService
	Substitutions *service.SubstitutionService
	Transfers     *service.TransferService
	Theme         *service.ThemeService
	Exports       *service.ExportService
	Teacher       *repository.ScheduleRepository
	Validator     *validator.Validate

	prefs io.Closer
}

// New builds every workflow from cfg. The portal session is opened when credentials are
// configured; otherwise the first call that needs one fails with PORTAL_UNAUTHORIZED.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := service.NewMetricsService()

	portal, err := repository.NewPortalClient(cfg.Portal, metrics, logger.Named("portal"))
	if err != nil {
		return nil, err
	}
	if cfg.Portal.Email != "" {
		if err := portal.Login(ctx, cfg.Portal.Email, cfg.Portal.Password); err != nil {
			return nil, fmt.Errorf("portal login: %w", err)
		}
	} else {
		logger.Warn("no portal credentials configured, continuing without a session")
	}

	a := &App{Portal: portal, Metrics: metrics, Validator: validator.New()}

	prefs, err := a.preferences(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init export storage: %w", err)
	}
	var signer *storage.SignedURLSigner
	if cfg.Exports.SignedURLSecret != "" {
		signer = storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	}

	substitutionRepo := repository.NewSubstitutionRepository(portal)
	scheduleRepo := repository.NewScheduleRepository(portal)
	a.Teacher = scheduleRepo

	a.Absence = service.NewAbsenceService(
		repository.NewAbsenceRepository(portal, logger.Named("absence")),
		metrics,
		service.AbsenceConfig{FallbackPath: cfg.Portal.FallbackPath, DashboardPath: cfg.Portal.DashboardPath},
		logger.Named("absence"),
	)
	a.Substitutions = service.NewSubstitutionService(substitutionRepo, a.Validator, logger.Named("substitution"))
	a.Transfers = service.NewTransferService(repository.NewTransferRepository(portal), a.Validator, logger.Named("transfer"))
	a.Theme = service.NewThemeService(prefs, cfg.Preferences.SystemTheme, logger.Named("theme"))
	a.Exports = service.NewExportService(
		substitutionRepo,
		scheduleRepo,
		files,
		signer,
		logger.Named("export"),
		export.NewCSVExporter(),
		export.NewPDFExporter(),
	)
	return a, nil
}

func (a *App) preferences(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.PreferenceRepository, error) {
	if cfg.Preferences.Store == config.PreferenceStoreRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, theme preference will not persist", zap.Error(err))
			return repository.NewRedisPreferenceRepository(nil, cfg.Preferences.KeyPrefix, logger), nil
		}
		prefs := repository.NewRedisPreferenceRepository(client, cfg.Preferences.KeyPrefix, logger)
		a.prefs = prefs
		return prefs, nil
	}

	dir, err := storage.NewLocalStorage(cfg.Preferences.Dir)
	if err != nil {
		return nil, fmt.Errorf("init preference storage: %w", err)
	}
	return repository.NewFilePreferenceRepository(dir), nil
}

// Close releases the Redis-backed preference store if one was opened.
func (a *App) Close() {
	if a.prefs != nil {
		_ = a.prefs.Close()
		a.prefs = nil
	}
}
