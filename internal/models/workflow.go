package models

import "time"

// ActionResult summarises a peripheral workflow (substitution edit, transfer decision or
// transfer request) once its dialogs have closed.
type ActionResult struct {
	Success   bool   `json:"success"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Message   string `json:"message,omitempty"`
	// Reloaded means the current page was refreshed after a success alert.
	Reloaded   bool   `json:"reloaded,omitempty"`
	NavigateTo string `json:"navigate_to,omitempty"`
}

// ThemeState is the active theme and the label the toggle button shows for it.
type ThemeState struct {
	Theme       Theme  `json:"theme"`
	ToggleLabel string `json:"toggle_label"`
}

// NewThemeState builds the state for t.
func NewThemeState(t Theme) ThemeState {
	return ThemeState{Theme: t, ToggleLabel: t.ToggleLabel()}
}

// ExportKind names a printable page.
type ExportKind string

const (
	ExportSubstitutionPlan     ExportKind = "substitution-plan"
	ExportTeacherSchedule      ExportKind = "schedule"
	ExportTeacherSubstitutions ExportKind = "substitutions"
)

// ExportFormat is the rendered file type.
type ExportFormat string

const (
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatCSV ExportFormat = "csv"
)

// ExportResult describes a rendered file in local storage.
type ExportResult struct {
	ID        string       `json:"id"`
	Kind      ExportKind   `json:"kind"`
	Format    ExportFormat `json:"format"`
	FileName  string       `json:"file_name"`
	Path      string       `json:"path"`
	Size      int          `json:"size"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

// MetricsSnapshot is a small JSON summary of the Prometheus counters.
type MetricsSnapshot struct {
	RequestsTotal            uint64            `json:"requests_total"`
	AverageRequestDurationMs float64           `json:"average_request_duration_ms"`
	PortalCallsTotal         uint64            `json:"portal_calls_total"`
	AveragePortalDurationMs  float64           `json:"average_portal_duration_ms"`
	Submissions              map[string]uint64 `json:"submissions"`
	Goroutines               int               `json:"goroutines"`
	GeneratedAt              time.Time         `json:"generated_at"`
}
