package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

const (
	msgSelectNewTeacher      = "Please select a new teacher."
	msgProvideChangeReason   = "Please provide a reason for changing the substitution."
	msgSubstitutionUpdated   = "Substitution updated successfully."
	msgSubstitutionFailed    = "Failed to update substitution."
	msgUnexpectedError       = "An unexpected error occurred."
	msgCandidatesUnavailable = "Failed to load available teachers."
)

type substitutionRepository interface {
	Plan(ctx context.Context, date string) (*models.SubstitutionPlan, error)
	CSRFToken(ctx context.Context) (string, error)
	Candidates(ctx context.Context, id string) (*models.CandidateList, error)
	Edit(ctx context.Context, id string, edit models.SubstitutionEdit, csrf string) (*models.PortalResult, error)
}

// SubstitutionService backs the plan page and its edit-substitution modal.
type SubstitutionService struct {
	repo      substitutionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubstitutionService constructs a SubstitutionService.
func NewSubstitutionService(repo substitutionRepository, validate *validator.Validate, logger *zap.Logger) *SubstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionService{repo: repo, validator: validate, logger: logger}
}

// Plan loads the plan rendered for date (YYYY-MM-DD, empty for today).
func (s *SubstitutionService) Plan(ctx context.Context, date string) (*models.SubstitutionPlan, error) {
	if date != "" {
		if _, _, ok := DayForInput(date); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
		}
	}
	plan, err := s.repo.Plan(ctx, date)
	if err != nil {
		return nil, wrapPortal(err, "failed to load substitution plan")
	}
	return plan, nil
}

// Candidates lists the teachers that can take over substitution id.
func (s *SubstitutionService) Candidates(ctx context.Context, id string) ([]models.SubstitutionCandidate, error) {
	list, err := s.repo.Candidates(ctx, id)
	if err != nil {
		return nil, wrapPortal(err, msgCandidatesUnavailable)
	}
	if !list.Success {
		message := list.Message
		if message == "" {
			message = msgCandidatesUnavailable
		}
		return nil, appErrors.Clone(appErrors.ErrServerRejected, message)
	}
	return list.Teachers, nil
}

// Save validates the modal, posts the change and reloads the page on success.
func (s *SubstitutionService) Save(ctx context.Context, id string, edit models.SubstitutionEdit, page Page) (*models.ActionResult, error) {
	if message := s.validateEdit(edit); message != "" {
		page.alert(ctx, s.logger, errorDialog(message))
		return &models.ActionResult{Message: message}, appErrors.Clone(appErrors.ErrValidation, message)
	}

	csrf, err := s.repo.CSRFToken(ctx)
	if err != nil {
		return s.unexpected(ctx, page, id, err)
	}
	result, err := s.repo.Edit(ctx, id, edit, csrf)
	if err != nil {
		return s.unexpected(ctx, page, id, err)
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = msgSubstitutionFailed
		}
		page.alert(ctx, s.logger, errorDialog(message))
		return &models.ActionResult{Message: message}, appErrors.Clone(appErrors.ErrServerRejected, message)
	}

	s.logger.Info("substitution reassigned", zap.String("substitution_id", id), zap.String("new_teacher_id", edit.NewTeacherID))
	page.alert(ctx, s.logger, successDialog(msgSubstitutionUpdated))
	page.reload(ctx)
	return &models.ActionResult{Success: true, Message: msgSubstitutionUpdated, Reloaded: true}, nil
}

func (s *SubstitutionService) validateEdit(edit models.SubstitutionEdit) string {
	err := s.validator.Struct(edit)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Reason" {
		return msgProvideChangeReason
	}
	return msgSelectNewTeacher
}

func (s *SubstitutionService) unexpected(ctx context.Context, page Page, id string, err error) (*models.ActionResult, error) {
	s.logger.Error("substitution edit failed", zap.String("substitution_id", id), zap.Error(err))
	page.alert(ctx, s.logger, errorDialog(msgUnexpectedError))
	return &models.ActionResult{Message: msgUnexpectedError}, wrapPortal(err, msgUnexpectedError)
}

// wrapPortal keeps an expired-session error intact and reports everything else as a
// transport failure.
func wrapPortal(err error, message string) error {
	if errors.Is(err, appErrors.ErrPortalUnauthorized) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, message)
}
