package models

// Teacher is one row of the portal roster table.
type Teacher struct {
	// ID is the checkbox value, the portal's primary key.
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"teacher_id"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// RosterRow pairs a teacher with its checkbox and visibility state.
type RosterRow struct {
	Teacher
	Selected bool `json:"selected"`
	Visible  bool `json:"visible"`
}
