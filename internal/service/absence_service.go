package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

const (
	noSelectionTitle   = "No Teachers Selected"
	confirmAbsenceText = "Are you sure you want to mark %d teacher(s) as absent?"
	nativeConfirmText  = "Are you sure you want to mark the selected teachers as absent?"
)

type absenceRepository interface {
	LoadPage(ctx context.Context) (*models.AbsencePage, error)
	CSRFToken(ctx context.Context) (string, error)
	Submit(ctx context.Context, action string, form url.Values, csrf string) (models.Outcome, error)
	SubmitNative(ctx context.Context, action string, form url.Values) (models.Outcome, error)
}

type submissionObserver interface {
	ObserveSubmission(result string)
}

// AbsenceConfig holds the portal locations the workflow navigates to.
type AbsenceConfig struct {
	// FallbackPath is used when the portal reports success without a redirect.
	FallbackPath string
	// DashboardPath is where the cancel button leads.
	DashboardPath string
}

// SubmissionInput is what the page holds when the submit button is pressed.
type SubmissionInput struct {
	Date      time.Time
	Day       string
	Selection models.SelectionSet
	// Action and CSRFToken come from the loaded page; an empty token is fetched fresh.
	Action    string
	CSRFToken string
}

// AbsenceService drives one absence submission at a time through validation,
// confirmation, the POST and the dispatch of the reply.
type AbsenceService struct {
	repo    absenceRepository
	metrics submissionObserver
	logger  *zap.Logger
	cfg     AbsenceConfig
	newID   func() string

	mu     sync.Mutex
	active bool
	state  models.SubmissionState
}

// NewAbsenceService constructs an AbsenceService.
func NewAbsenceService(repo absenceRepository, metrics submissionObserver, cfg AbsenceConfig, logger *zap.Logger) *AbsenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FallbackPath == "" {
		cfg.FallbackPath = "/admin/substitution"
	}
	if cfg.DashboardPath == "" {
		cfg.DashboardPath = "/admin/dashboard"
	}
	return &AbsenceService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		newID:   uuid.NewString,
		state:   models.SubmissionIdle,
	}
}

// LoadPage reads the roster and form defaults. When the page carries a date, the day is
// derived from it as the page does on load.
func (s *AbsenceService) LoadPage(ctx context.Context) (*models.AbsencePage, error) {
	page, err := s.repo.LoadPage(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrPortalUnauthorized) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load absence page")
	}
	if !page.Form.Date.IsZero() {
		page.Form.Day = DeriveDay(page.Form.Date)
	}
	return page, nil
}

// State reports the stage of the current or last attempt.
func (s *AbsenceService) State() models.SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cancel leaves the absence page for the dashboard.
func (s *AbsenceService) Cancel(ctx context.Context, page Page) string {
	page.navigate(ctx, s.cfg.DashboardPath)
	return s.cfg.DashboardPath
}

// Submit runs one attempt. A declined confirmation returns a cancelled result and no error.
// Every failure has already been shown to the user through page when Submit returns.
func (s *AbsenceService) Submit(ctx context.Context, in SubmissionInput, page Page) (*models.SubmissionResult, error) {
	if !s.begin() {
		return nil, appErrors.ErrSubmissionInFlight
	}
	attemptID := s.newID()
	log := s.logger.With(zap.String("attempt_id", attemptID))
	result := &models.SubmissionResult{AttemptID: attemptID}

	// Validating. The payload is frozen here so later checkbox changes cannot leak in.
	if in.Selection.Empty() {
		page.alert(ctx, log, models.DialogRequest{
			Title: noSelectionTitle,
			Text:  appErrors.ErrNoSelection.Message,
			Icon:  models.IconWarning,
		})
		s.finish(models.SubmissionIdle)
		s.observe("no_selection")
		log.Info("absence submission blocked, nothing selected")
		return nil, appErrors.ErrNoSelection
	}
	payload := models.AbsencePayload{Date: in.Date, Day: in.Day, TeacherIDs: in.Selection.IDs()}
	if payload.Day == "" && !payload.Date.IsZero() {
		payload.Day = DeriveDay(payload.Date)
	}
	result.Payload = &payload

	s.transition(models.SubmissionConfirming)
	ok, degraded, err := page.confirm(ctx, log, models.DialogRequest{
		Title:       "Confirm Absence",
		Text:        fmt.Sprintf(confirmAbsenceText, in.Selection.Len()),
		Icon:        models.IconQuestion,
		ConfirmText: "Yes, proceed",
		CancelText:  "No, cancel",
		ShowCancel:  true,
	}, nativeConfirmText)
	if err != nil {
		s.finish(models.SubmissionIdle)
		s.observe("dialog_failure")
		log.Error("no confirmation capability available", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrDialogFailure.Code, appErrors.ErrDialogFailure.Status, appErrors.ErrDialogFailure.Message)
	}
	if !ok {
		s.finish(models.SubmissionCancelled)
		s.observe("cancelled")
		log.Info("absence submission cancelled at confirmation")
		result.State = models.SubmissionCancelled
		return result, nil
	}

	s.transition(models.SubmissionSubmitting)
	csrf := in.CSRFToken
	if csrf == "" {
		csrf, err = s.repo.CSRFToken(ctx)
		if err != nil {
			return s.transportFailure(ctx, page, log, result, err)
		}
	}
	form := payload.Form(csrf)
	log.Info("submitting absences",
		zap.Int("teachers", len(payload.TeacherIDs)),
		zap.String("day", payload.Day),
		zap.Bool("degraded", degraded),
	)

	if degraded {
		result.Degraded = true
		outcome, err := s.repo.SubmitNative(ctx, in.Action, form)
		if err != nil {
			return s.transportFailure(ctx, page, log, result, err)
		}
		return s.dispatch(ctx, page, log, result, outcome)
	}

	outcome, err := s.repo.Submit(ctx, in.Action, form, csrf)
	if err != nil {
		return s.transportFailure(ctx, page, log, result, err)
	}
	return s.dispatch(ctx, page, log, result, outcome)
}

func (s *AbsenceService) dispatch(ctx context.Context, page Page, log *zap.Logger, result *models.SubmissionResult, outcome models.Outcome) (*models.SubmissionResult, error) {
	result.State = models.SubmissionResolved
	result.Outcome = &outcome
	defer s.finish(models.SubmissionResolved)
	defer s.observe(string(outcome.Kind))

	if !outcome.Succeeded() {
		message := outcome.Message
		if message == "" {
			message = appErrors.ErrServerRejected.Message
		}
		page.alert(ctx, log, errorDialog(message))
		log.Warn("portal rejected absences", zap.Int("status", outcome.StatusCode), zap.String("message", message))
		return result, appErrors.Clone(appErrors.ErrServerRejected, message)
	}

	switch outcome.Kind {
	case models.OutcomeRedirect, models.OutcomeSuccessRedirect:
		result.NavigateTo = outcome.Location
	case models.OutcomeUnstructured:
		log.Warn("portal replied without json, assuming success", zap.Int("status", outcome.StatusCode))
		result.NavigateTo = s.cfg.FallbackPath
	default:
		result.NavigateTo = s.cfg.FallbackPath
	}

	result.Success = true
	log.Info("absences recorded", zap.String("kind", string(outcome.Kind)), zap.String("navigate_to", result.NavigateTo))
	page.navigate(ctx, result.NavigateTo)
	return result, nil
}

func (s *AbsenceService) transportFailure(ctx context.Context, page Page, log *zap.Logger, result *models.SubmissionResult, err error) (*models.SubmissionResult, error) {
	log.Error("absence submission failed", zap.Error(err))
	page.alert(ctx, log, errorDialog(appErrors.ErrTransport.Message))
	s.finish(models.SubmissionResolved)
	s.observe("transport_error")
	result.State = models.SubmissionResolved

	if errors.Is(err, appErrors.ErrPortalUnauthorized) {
		return result, err
	}
	return result, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
}

func (s *AbsenceService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return false
	}
	s.active = true
	s.state = models.SubmissionValidating
	return true
}

func (s *AbsenceService) transition(state models.SubmissionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *AbsenceService) finish(state models.SubmissionState) {
	s.mu.Lock()
	s.state = state
	s.active = false
	s.mu.Unlock()
}

func (s *AbsenceService) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(result)
	}
}
