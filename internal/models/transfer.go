package models

import "strings"

// TransferAction is an admin decision on a pending transfer request.
type TransferAction string

const (
	TransferApprove TransferAction = "approve"
	TransferReject  TransferAction = "reject"
)

// Valid reports whether the action is known.
func (a TransferAction) Valid() bool {
	return a == TransferApprove || a == TransferReject
}

// Title is the capitalised verb, e.g. "Approve".
func (a TransferAction) Title() string {
	s := string(a)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PastTense is used in success messages, e.g. "approved".
func (a TransferAction) PastTense() string {
	return string(a) + "d"
}

// TransferRequest is a teacher asking to hand a substitution to a colleague.
type TransferRequest struct {
	SubstitutionID string `json:"substitution_id" validate:"required"`
	NewTeacherID   string `json:"new_teacher_id" validate:"required"`
	Reason         string `json:"reason" validate:"required,min=5"`
	TransferAll    bool   `json:"transfer_all"`
}
