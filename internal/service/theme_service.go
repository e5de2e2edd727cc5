package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

type preferenceRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ThemeService persists the light/dark preference.
type ThemeService struct {
	repo   preferenceRepository
	system models.Theme
	logger *zap.Logger
}

// NewThemeService constructs a ThemeService. system is used until a preference is stored.
func NewThemeService(repo preferenceRepository, system string, logger *zap.Logger) *ThemeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	theme, ok := models.ParseTheme(system)
	if !ok {
		theme = models.ThemeLight
	}
	return &ThemeService{repo: repo, system: theme, logger: logger}
}

// Current returns the stored theme, or the system default when none is stored.
func (s *ThemeService) Current(ctx context.Context) (models.ThemeState, error) {
	raw, ok, err := s.repo.Get(ctx, models.ThemePreferenceKey)
	if err != nil {
		return models.ThemeState{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read theme preference")
	}
	if !ok {
		return models.NewThemeState(s.system), nil
	}
	theme, valid := models.ParseTheme(raw)
	if !valid {
		s.logger.Warn("ignoring unknown stored theme", zap.String("value", raw))
		theme = s.system
	}
	return models.NewThemeState(theme), nil
}

// Toggle flips the theme and stores the new value.
func (s *ThemeService) Toggle(ctx context.Context) (models.ThemeState, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return models.ThemeState{}, err
	}
	return s.Set(ctx, current.Theme.Toggle())
}

// Set stores theme explicitly.
func (s *ThemeService) Set(ctx context.Context, theme models.Theme) (models.ThemeState, error) {
	if _, ok := models.ParseTheme(string(theme)); !ok {
		return models.ThemeState{}, appErrors.Clone(appErrors.ErrValidation, "theme must be light or dark")
	}
	if err := s.repo.Set(ctx, models.ThemePreferenceKey, string(theme)); err != nil {
		return models.ThemeState{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store theme preference")
	}
	s.logger.Debug("theme changed", zap.String("theme", string(theme)))
	return models.NewThemeState(theme), nil
}
