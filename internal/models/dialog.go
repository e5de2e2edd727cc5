package models

// DialogIcon mirrors the severities of the portal's modal alerts.
type DialogIcon string

const (
	IconWarning  DialogIcon = "warning"
	IconQuestion DialogIcon = "question"
	IconError    DialogIcon = "error"
	IconSuccess  DialogIcon = "success"
	IconInfo     DialogIcon = "info"
)

// DialogRequest describes one modal. ShowCancel turns an alert into a confirmation.
type DialogRequest struct {
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	Icon        DialogIcon `json:"icon"`
	ConfirmText string     `json:"confirm_text,omitempty"`
	CancelText  string     `json:"cancel_text,omitempty"`
	ShowCancel  bool       `json:"show_cancel,omitempty"`
}
