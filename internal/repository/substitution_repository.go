package repository

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

// SubstitutionPagePath is the admin substitution plan page.
const SubstitutionPagePath = "/admin/substitution"

var planDatePattern = regexp.MustCompile(`for (\d{4}-\d{2}-\d{2})`)

// SubstitutionRepository talks to the plan page and the substitution edit endpoints.
type SubstitutionRepository struct {
	client *PortalClient
}

// NewSubstitutionRepository constructs a SubstitutionRepository.
func NewSubstitutionRepository(client *PortalClient) *SubstitutionRepository {
	return &SubstitutionRepository{client: client}
}

// PlanPath returns the plan page path for date; an empty date lets the portal pick today.
func PlanPath(date string) string {
	if date == "" {
		return SubstitutionPagePath
	}
	return SubstitutionPagePath + "?date=" + url.QueryEscape(date)
}

// Plan reads the rendered plan for date.
func (r *SubstitutionRepository) Plan(ctx context.Context, date string) (*models.SubstitutionPlan, error) {
	doc, _, err := r.client.GetPage(ctx, PlanPath(date))
	if err != nil {
		return nil, err
	}
	plan := parsePlan(doc)
	if plan.Date == "" {
		plan.Date = date
	}
	return plan, nil
}

// CSRFToken reads the token from the plan page, where the edit modal lives.
func (r *SubstitutionRepository) CSRFToken(ctx context.Context) (string, error) {
	return r.client.CSRFToken(ctx, SubstitutionPagePath)
}

// Candidates lists teachers available to take over substitution id.
func (r *SubstitutionRepository) Candidates(ctx context.Context, id string) (*models.CandidateList, error) {
	var list models.CandidateList
	path := fmt.Sprintf("/admin/available_teachers_for_substitution/%s", url.PathEscape(id))
	if err := r.client.GetJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Edit reassigns substitution id.
func (r *SubstitutionRepository) Edit(ctx context.Context, id string, edit models.SubstitutionEdit, csrf string) (*models.PortalResult, error) {
	var result models.PortalResult
	path := fmt.Sprintf("/admin/edit_substitution/%s", url.PathEscape(id))
	if err := r.client.PostJSON(ctx, path, edit, csrf, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func parsePlan(doc *html.Node) *models.SubstitutionPlan {
	plan := &models.SubstitutionPlan{}
	if header := findFirst(doc, tagWithClasses(atom.Div, "card-header")); header != nil {
		if m := planDatePattern.FindStringSubmatch(textContent(findFirst(header, tag(atom.H5)))); m != nil {
			plan.Date = m[1]
		}
	}

	for _, heading := range findAll(doc, tagWithClasses(atom.H5, "mt-4", "mb-3")) {
		period := models.PlanPeriod{Title: textContent(heading)}
		if wrapper := nextElementSibling(heading); wrapper != nil && hasClass(wrapper, "table-responsive") {
			if table := findFirst(wrapper, tag(atom.Table)); table != nil {
				snap := snapshotTable(table)
				period.Table = &snap
				for _, btn := range findAll(table, func(n *html.Node) bool { return hasClass(n, "edit-substitution") }) {
					period.EditIDs = append(period.EditIDs, attr(btn, "data-id"))
				}
			}
		}
		plan.Periods = append(plan.Periods, period)
	}
	return plan
}
