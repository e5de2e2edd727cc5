package repository

import (
	"context"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

const (
	TeacherSchedulePath  = "/teacher/schedule"
	TeacherDashboardPath = "/teacher/dashboard"
)

// ScheduleRepository reads the teacher-facing schedule and dashboard pages.
type ScheduleRepository struct {
	client *PortalClient
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(client *PortalClient) *ScheduleRepository {
	return &ScheduleRepository{client: client}
}

// WeeklySchedule reads #scheduleTable and the teacher name from "<name>'s ..." in the card header.
func (r *ScheduleRepository) WeeklySchedule(ctx context.Context) (*models.TeacherTable, error) {
	doc, _, err := r.client.GetPage(ctx, TeacherSchedulePath)
	if err != nil {
		return nil, err
	}
	out := &models.TeacherTable{}
	if header := findFirst(doc, tagWithClasses(atom.Div, "card-header")); header != nil {
		text := textContent(findFirst(header, tag(atom.H5)))
		out.TeacherName = strings.TrimSpace(strings.SplitN(text, "'s", 2)[0])
	}
	if table := findFirst(doc, withID("scheduleTable")); table != nil {
		snap := snapshotTable(table)
		out.Table = &snap
	}
	return out, nil
}

// Substitutions reads the teacher's substitution table from the dashboard.
func (r *ScheduleRepository) Substitutions(ctx context.Context) (*models.TeacherTable, error) {
	doc, _, err := r.client.GetPage(ctx, TeacherDashboardPath)
	if err != nil {
		return nil, err
	}
	out := &models.TeacherTable{TeacherName: "Teacher"}
	bodies := findAll(doc, tagWithClasses(atom.Div, "card-body"))
	for _, body := range bodies {
		if h4 := findFirst(body, tag(atom.H4)); h4 != nil && out.TeacherName == "Teacher" {
			out.TeacherName = textContent(h4)
		}
	}
	if badge := findFirst(doc, tagWithClasses(atom.Span, "badge", "bg-primary")); badge != nil {
		out.DateText = textContent(badge)
	}
	for _, body := range bodies {
		if table := findFirst(body, tag(atom.Table)); table != nil {
			snap := snapshotTable(table)
			out.Table = &snap
			break
		}
	}
	return out, nil
}
