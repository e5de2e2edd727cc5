package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

// TransferRequestsPagePath lists pending transfer requests for admins.
const TransferRequestsPagePath = "/admin/transfer_requests"

// TransferRepository posts transfer decisions and transfer requests.
type TransferRepository struct {
	client *PortalClient
}

// NewTransferRepository constructs a TransferRepository.
func NewTransferRepository(client *PortalClient) *TransferRepository {
	return &TransferRepository{client: client}
}

// AdminCSRFToken reads the token from the transfer requests page.
func (r *TransferRepository) AdminCSRFToken(ctx context.Context) (string, error) {
	return r.client.CSRFToken(ctx, TransferRequestsPagePath)
}

// Decide approves or rejects transfer id.
func (r *TransferRepository) Decide(ctx context.Context, id string, action models.TransferAction, csrf string) (*models.PortalResult, error) {
	var result models.PortalResult
	path := fmt.Sprintf("/admin/%s_transfer/%s", action, url.PathEscape(id))
	if err := r.client.PostJSON(ctx, path, nil, csrf, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestCSRFToken reads the token from the teacher's transfer form.
func (r *TransferRepository) RequestCSRFToken(ctx context.Context, substitutionID string) (string, error) {
	return r.client.CSRFToken(ctx, transferFormPath(substitutionID))
}

// Request submits the teacher transfer form natively and returns where the portal landed.
func (r *TransferRepository) Request(ctx context.Context, req models.TransferRequest, csrf string) (string, error) {
	form := url.Values{}
	form.Set("substitution_id", req.SubstitutionID)
	form.Set("new_teacher_id", req.NewTeacherID)
	form.Set("reason", req.Reason)
	if req.TransferAll {
		form.Set("transfer_all", "on")
	}
	if csrf != "" {
		form.Set("csrf_token", csrf)
	}
	resp, err := r.client.PostForm(ctx, transferFormPath(req.SubstitutionID), form, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("transfer request: unexpected status %d", resp.StatusCode)
	}
	return r.client.RelativePath(resp.FinalURL), nil
}

func transferFormPath(substitutionID string) string {
	return fmt.Sprintf("/teacher/transfer/%s", url.PathEscape(substitutionID))
}
