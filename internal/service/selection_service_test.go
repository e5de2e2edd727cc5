package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

func checkedCount(rows []models.RosterRow) int {
	n := 0
	for _, r := range rows {
		if r.Selected {
			n++
		}
	}
	return n
}

func TestSelectionFilterMatchesNameCodeOrEmail(t *testing.T) {
	svc := NewSelectionService(sampleRoster())

	assert.Len(t, svc.Filter("ALICE"), 1)
	assert.Len(t, svc.Filter("t00"), 3)
	assert.Len(t, svc.Filter("other.org"), 1)
	assert.Len(t, svc.Filter("nobody"), 0)
	assert.Len(t, svc.Filter(""), 4)
}

func TestSelectionFilterNeverChangesSelection(t *testing.T) {
	svc := NewSelectionService(sampleRoster())
	_, err := svc.Toggle("2", true)
	require.NoError(t, err)

	svc.Filter("alice")
	svc.Filter("alice")
	assert.Equal(t, []string{"2"}, svc.Selection().IDs())
}

func TestSelectAllOnlyTouchesVisibleRows(t *testing.T) {
	svc := NewSelectionService(sampleRoster())
	_, err := svc.Toggle("4", true)
	require.NoError(t, err)

	svc.Filter("t00")
	panel := svc.SelectAll(true)
	assert.Equal(t, 4, panel.Count)

	panel = svc.SelectAll(false)
	assert.Equal(t, 1, panel.Count)
	assert.Equal(t, []string{"4"}, svc.Selection().IDs())
}

func TestPanelCountMatchesCheckedRowsAfterEveryMutation(t *testing.T) {
	svc := NewSelectionService(sampleRoster())
	mutations := []func(){
		func() { _, _ = svc.Toggle("1", true) },
		func() { svc.Filter("bob") },
		func() { svc.SelectAll(true) },
		func() { _, _ = svc.Remove("1") },
		func() { svc.Filter("") },
		func() { svc.SelectAll(true) },
		func() { _, _ = svc.Remove("3") },
		func() { svc.Filter("dan") },
		func() { svc.SelectAll(false) },
	}
	for i, mutate := range mutations {
		mutate()
		assert.Equal(t, checkedCount(svc.Rows()), svc.Panel().Count, "after mutation %d", i)
	}
}

func TestPanelPlaceholderAndEntries(t *testing.T) {
	svc := NewSelectionService(sampleRoster())
	panel := svc.Panel()
	assert.Equal(t, 0, panel.Count)
	assert.Equal(t, models.NoSelectionPlaceholder, panel.Placeholder)
	assert.Empty(t, panel.Entries)

	panel, err := svc.Toggle("3", true)
	require.NoError(t, err)
	assert.Empty(t, panel.Placeholder)
	require.Len(t, panel.Entries, 1)
	assert.Equal(t, models.PanelEntry{Name: "Carol White", Code: "T003", RemoveID: "3"}, panel.Entries[0])

	panel, err = svc.Remove("3")
	require.NoError(t, err)
	assert.Equal(t, models.NoSelectionPlaceholder, panel.Placeholder)
}

func TestToggleUnknownTeacher(t *testing.T) {
	svc := NewSelectionService(sampleRoster())
	_, err := svc.Toggle("99", true)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSelectionKeepsRosterOrder(t *testing.T) {
	svc := NewSelectionService(sampleRoster())
	_, _ = svc.Toggle("3", true)
	_, _ = svc.Toggle("1", true)
	assert.Equal(t, []string{"1", "3"}, svc.Selection().IDs())
}
