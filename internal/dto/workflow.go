package dto

import (
	"time"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

// WorkflowResponse carries a workflow result together with every dialog the workflow
// raised, so API clients can show them.
type WorkflowResponse struct {
	Result     interface{}            `json:"result,omitempty"`
	Dialogs    []models.DialogRequest `json:"dialogs"`
	NavigateTo string                 `json:"navigate_to,omitempty"`
	Reloaded   bool                   `json:"reloaded,omitempty"`
}

// ConfirmRequest answers the confirmation of a transfer decision.
type ConfirmRequest struct {
	Confirm *bool `json:"confirm"`
}

// TransferRequestBody files a transfer of one substitution to another teacher.
type TransferRequestBody struct {
	NewTeacherID string `json:"new_teacher_id"`
	Reason       string `json:"reason"`
	TransferAll  bool   `json:"transfer_all"`
	Confirm      *bool  `json:"confirm"`
}

// EditSubstitutionRequest reassigns a substitution.
type EditSubstitutionRequest struct {
	NewTeacherID string `json:"new_teacher_id"`
	Reason       string `json:"reason"`
}

// CandidateResponse is one option of the new-teacher select.
type CandidateResponse struct {
	ID        int    `json:"id"`
	TeacherID string `json:"teacher_id"`
	Label     string `json:"label"`
}

// ExportBody picks the output format and, for the plan, the date.
type ExportBody struct {
	Format string `json:"format" validate:"omitempty,oneof=pdf csv"`
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ExportResponse describes a generated file and where to fetch it.
type ExportResponse struct {
	ID          string     `json:"id"`
	FileName    string     `json:"file_name"`
	Format      string     `json:"format"`
	Size        int        `json:"size"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
