package handler

import (
	"context"
	"sync"

	"github.com/noah-isme/sma-substitution-console/internal/dto"
	"github.com/noah-isme/sma-substitution-console/internal/models"
	"github.com/noah-isme/sma-substitution-console/internal/service"
)

// apiPage stands in for the browser page during one gateway request. Confirmations are
// answered from the request body and every dialog is recorded for the response.
type apiPage struct {
	mu      sync.Mutex
	confirm *bool
	dialogs []models.DialogRequest
	target  string
	reload  bool
}

func newAPIPage(confirm *bool) *apiPage {
	return &apiPage{confirm: confirm}
}

func (p *apiPage) Page() service.Page {
	return service.Page{Dialog: p, Native: nativeAdapter{p}, Navigator: p}
}

func (p *apiPage) Alert(_ context.Context, req models.DialogRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialogs = append(p.dialogs, req)
	return nil
}

// Confirm records the question; an unanswered confirmation counts as declined.
func (p *apiPage) Confirm(_ context.Context, req models.DialogRequest) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialogs = append(p.dialogs, req)
	return p.confirm != nil && *p.confirm, nil
}

func (p *apiPage) Navigate(_ context.Context, location string) {
	p.mu.Lock()
	p.target = location
	p.mu.Unlock()
}

func (p *apiPage) Reload(context.Context) {
	p.mu.Lock()
	p.reload = true
	p.mu.Unlock()
}

func (p *apiPage) response(result interface{}) dto.WorkflowResponse {
	p.mu.Lock()
	defer p.mu.Unlock()
	dialogs := append([]models.DialogRequest{}, p.dialogs...)
	return dto.WorkflowResponse{Result: result, Dialogs: dialogs, NavigateTo: p.target, Reloaded: p.reload}
}

type nativeAdapter struct{ p *apiPage }

func (n nativeAdapter) Confirm(ctx context.Context, message string) (bool, error) {
	return n.p.Confirm(ctx, models.DialogRequest{Text: message, Icon: models.IconQuestion, ShowCancel: true})
}

func (n nativeAdapter) Alert(ctx context.Context, message string) {
	_ = n.p.Alert(ctx, models.DialogRequest{Text: message, Icon: models.IconInfo})
}
