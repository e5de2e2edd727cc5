package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

const (
	msgProvideTransferReason = "Please provide a reason for the transfer request."
	msgSelectTransferTeacher = "Please select a teacher for the transfer."
	msgTransferReasonShort   = "The reason must be at least 5 characters long."
)

type transferRepository interface {
	AdminCSRFToken(ctx context.Context) (string, error)
	Decide(ctx context.Context, id string, action models.TransferAction, csrf string) (*models.PortalResult, error)
	RequestCSRFToken(ctx context.Context, substitutionID string) (string, error)
	Request(ctx context.Context, req models.TransferRequest, csrf string) (string, error)
}

// TransferService approves or rejects transfer requests and files new ones.
type TransferService struct {
	repo      transferRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTransferService constructs a TransferService.
func NewTransferService(repo transferRepository, validate *validator.Validate, logger *zap.Logger) *TransferService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{repo: repo, validator: validate, logger: logger}
}

// Decide confirms and posts an admin decision on transfer id.
func (s *TransferService) Decide(ctx context.Context, id string, action models.TransferAction, page Page) (*models.ActionResult, error) {
	if !action.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "action must be approve or reject")
	}
	log := s.logger.With(zap.String("transfer_id", id), zap.String("action", string(action)))

	ok, _, err := page.confirm(ctx, log, models.DialogRequest{
		Title:       fmt.Sprintf("%s Transfer?", action.Title()),
		Text:        fmt.Sprintf("Are you sure you want to %s this transfer request?", action),
		Icon:        models.IconQuestion,
		ConfirmText: fmt.Sprintf("Yes, %s it", action),
		CancelText:  "No, cancel",
		ShowCancel:  true,
	}, fmt.Sprintf("Are you sure you want to %s this transfer request?", action))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDialogFailure.Code, appErrors.ErrDialogFailure.Status, appErrors.ErrDialogFailure.Message)
	}
	if !ok {
		return &models.ActionResult{Cancelled: true}, nil
	}

	csrf, err := s.repo.AdminCSRFToken(ctx)
	if err != nil {
		return s.unexpected(ctx, page, log, err)
	}
	result, err := s.repo.Decide(ctx, id, action, csrf)
	if err != nil {
		return s.unexpected(ctx, page, log, err)
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = fmt.Sprintf("Failed to %s transfer.", action)
		}
		page.alert(ctx, log, errorDialog(message))
		return &models.ActionResult{Message: message}, appErrors.Clone(appErrors.ErrServerRejected, message)
	}

	message := fmt.Sprintf("Transfer request %s successfully.", action.PastTense())
	log.Info("transfer decided")
	page.alert(ctx, log, successDialog(message))
	page.reload(ctx)
	return &models.ActionResult{Success: true, Message: message, Reloaded: true}, nil
}

// Request validates the teacher's transfer form, confirms and submits it natively.
func (s *TransferService) Request(ctx context.Context, req models.TransferRequest, page Page) (*models.ActionResult, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	log := s.logger.With(zap.String("substitution_id", req.SubstitutionID))

	if message := s.validateRequest(req); message != "" {
		page.alert(ctx, log, models.DialogRequest{Title: "Form Incomplete", Text: message, Icon: models.IconWarning})
		return &models.ActionResult{Message: message}, appErrors.Clone(appErrors.ErrValidation, message)
	}

	ok, _, err := page.confirm(ctx, log, models.DialogRequest{
		Title:       "Confirm Transfer Request",
		Text:        "Are you sure you want to request this substitution transfer?",
		Icon:        models.IconQuestion,
		ConfirmText: "Yes, submit request",
		CancelText:  "No, cancel",
		ShowCancel:  true,
	}, "Are you sure you want to request this substitution transfer?")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDialogFailure.Code, appErrors.ErrDialogFailure.Status, appErrors.ErrDialogFailure.Message)
	}
	if !ok {
		return &models.ActionResult{Cancelled: true}, nil
	}

	csrf, err := s.repo.RequestCSRFToken(ctx, req.SubstitutionID)
	if err != nil {
		return s.unexpected(ctx, page, log, err)
	}
	landing, err := s.repo.Request(ctx, req, csrf)
	if err != nil {
		return s.unexpected(ctx, page, log, err)
	}
	log.Info("transfer requested", zap.String("new_teacher_id", req.NewTeacherID), zap.Bool("transfer_all", req.TransferAll))
	page.navigate(ctx, landing)
	return &models.ActionResult{Success: true, NavigateTo: landing}, nil
}

// validateRequest reports the first problem in the order the portal form checks them.
func (s *TransferService) validateRequest(req models.TransferRequest) string {
	if req.Reason == "" {
		return msgProvideTransferReason
	}
	if req.NewTeacherID == "" {
		return msgSelectTransferTeacher
	}
	err := s.validator.Struct(req)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Reason":
			return msgTransferReasonShort
		case "SubstitutionID":
			return "Substitution is required."
		}
	}
	return err.Error()
}

func (s *TransferService) unexpected(ctx context.Context, page Page, log *zap.Logger, err error) (*models.ActionResult, error) {
	log.Error("transfer call failed", zap.Error(err))
	page.alert(ctx, log, errorDialog(msgUnexpectedError))
	return &models.ActionResult{Message: msgUnexpectedError}, wrapPortal(err, msgUnexpectedError)
}
