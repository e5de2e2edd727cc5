package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAbsencePayloadFormDeduplicates(t *testing.T) {
	p := AbsencePayload{
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Day:        "Day 1",
		TeacherIDs: []string{"1", "3", "1"},
	}
	form := p.Form("tok")
	assert.Equal(t, "2024-03-04", form.Get(FieldDate))
	assert.Equal(t, "Day 1", form.Get(FieldDay))
	assert.Equal(t, []string{"1", "3"}, form[FieldSelectedTeachers])
	assert.Equal(t, "tok", form.Get(FieldCSRFToken))
}

func TestTableSnapshotWithoutAction(t *testing.T) {
	tbl := TableSnapshot{
		Headers: []string{"Class", "Substitute", "Action"},
		Rows:    [][]string{{"10", "John", "Edit"}, {"11", "Jane"}},
	}
	out := tbl.WithoutColumn(ActionColumn)
	assert.Equal(t, []string{"Class", "Substitute"}, out.Headers)
	assert.Equal(t, [][]string{{"10", "John"}, {"11", "Jane"}}, out.Rows)
	assert.Equal(t, "John", out.Records()[0]["Substitute"])
	assert.Len(t, tbl.Headers, 3)
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, "Light Mode", ThemeDark.ToggleLabel())
	_, ok := ParseTheme("sepia")
	assert.False(t, ok)
}

func TestTransferActionWording(t *testing.T) {
	assert.Equal(t, "Approve", TransferApprove.Title())
	assert.Equal(t, "rejected", TransferReject.PastTense())
	assert.False(t, TransferAction("delete").Valid())
}
