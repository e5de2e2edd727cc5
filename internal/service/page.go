package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

// Dialog is the modal alert/confirmation capability of a page.
type Dialog interface {
	Alert(ctx context.Context, req models.DialogRequest) error
	// Confirm reports whether the primary button was chosen. An error means the dialog
	// could not be shown at all.
	Confirm(ctx context.Context, req models.DialogRequest) (bool, error)
}

// NativePrompt is the bare confirm/alert fallback used when Dialog fails.
type NativePrompt interface {
	Confirm(ctx context.Context, message string) (bool, error)
	Alert(ctx context.Context, message string)
}

// Navigator moves the page to another location.
type Navigator interface {
	Navigate(ctx context.Context, location string)
	Reload(ctx context.Context)
}

// Page bundles the user-facing capabilities a workflow drives. The terminal client keeps
// one for the whole session; the gateway builds one per request.
type Page struct {
	Dialog    Dialog
	Native    NativePrompt
	Navigator Navigator
}

// alert shows req, falling back to the native alert when the dialog is unavailable.
func (p Page) alert(ctx context.Context, logger *zap.Logger, req models.DialogRequest) {
	if p.Dialog != nil {
		err := p.Dialog.Alert(ctx, req)
		if err == nil {
			return
		}
		logger.Warn("dialog alert failed, using native alert", zap.Error(err))
	}
	if p.Native != nil {
		p.Native.Alert(ctx, req.Text)
	}
}

// confirm asks req through the dialog and reports degraded=true when it had to use the
// native prompt with fallbackText instead.
func (p Page) confirm(ctx context.Context, logger *zap.Logger, req models.DialogRequest, fallbackText string) (ok, degraded bool, err error) {
	if p.Dialog != nil {
		ok, err = p.Dialog.Confirm(ctx, req)
		if err == nil {
			return ok, false, nil
		}
		logger.Warn("dialog confirm failed, using native prompt", zap.Error(err))
	}
	if p.Native == nil {
		return false, true, err
	}
	ok, err = p.Native.Confirm(ctx, fallbackText)
	return ok, true, err
}

func (p Page) navigate(ctx context.Context, location string) {
	if p.Navigator != nil && location != "" {
		p.Navigator.Navigate(ctx, location)
	}
}

func (p Page) reload(ctx context.Context) {
	if p.Navigator != nil {
		p.Navigator.Reload(ctx)
	}
}

func errorDialog(text string) models.DialogRequest {
	return models.DialogRequest{Title: "Error", Text: text, Icon: models.IconError}
}

func successDialog(text string) models.DialogRequest {
	return models.DialogRequest{Title: "Success", Text: text, Icon: models.IconSuccess}
}
