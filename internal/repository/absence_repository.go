package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

// AbsencePagePath is the portal page carrying the roster and the absence form.
const AbsencePagePath = "/admin/absence"

// AbsenceRepository reads the absence page and posts the absence form.
type AbsenceRepository struct {
	client *PortalClient
	logger *zap.Logger
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(client *PortalClient, logger *zap.Logger) *AbsenceRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceRepository{client: client, logger: logger}
}

// LoadPage fetches the absence page and extracts roster rows, form defaults and token.
func (r *AbsenceRepository) LoadPage(ctx context.Context) (*models.AbsencePage, error) {
	doc, _, err := r.client.GetPage(ctx, AbsencePagePath)
	if err != nil {
		return nil, err
	}
	return parseAbsencePage(doc), nil
}

// CSRFToken reads the anti-forgery token from a fresh copy of the absence page.
func (r *AbsenceRepository) CSRFToken(ctx context.Context) (string, error) {
	return r.client.CSRFToken(ctx, AbsencePagePath)
}

// Submit posts the form the way the page's AJAX handler does and interprets the reply.
func (r *AbsenceRepository) Submit(ctx context.Context, action string, form url.Values, csrf string) (models.Outcome, error) {
	headers := http.Header{}
	headers.Set(headerRequestedWith, ajaxMarker)
	headers.Set(headerCSRF, csrf)
	resp, err := r.client.PostForm(ctx, actionOrDefault(action), form, headers)
	if err != nil {
		return models.Outcome{}, err
	}
	return r.interpret(resp)
}

// SubmitNative posts the form without the AJAX marker, as a plain browser submission would.
// The reply is never parsed; the caller lands wherever the transport ended.
func (r *AbsenceRepository) SubmitNative(ctx context.Context, action string, form url.Values) (models.Outcome, error) {
	resp, err := r.client.PostForm(ctx, actionOrDefault(action), form, nil)
	if err != nil {
		return models.Outcome{}, err
	}
	return models.Outcome{
		Kind:       models.OutcomeRedirect,
		Location:   r.client.RelativePath(resp.FinalURL),
		StatusCode: resp.StatusCode,
	}, nil
}

func (r *AbsenceRepository) interpret(resp *PortalResponse) (models.Outcome, error) {
	if resp.Redirected {
		return models.Outcome{
			Kind:       models.OutcomeRedirect,
			Location:   r.client.RelativePath(resp.FinalURL),
			StatusCode: resp.StatusCode,
		}, nil
	}
	if !resp.IsJSON() {
		r.logger.Warn("absence endpoint answered without json; treating as success",
			zap.Int("status", resp.StatusCode),
			zap.String("content_type", resp.ContentType),
		)
		return models.Outcome{Kind: models.OutcomeUnstructured, StatusCode: resp.StatusCode}, nil
	}

	var result models.PortalResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return models.Outcome{}, fmt.Errorf("decode absence response: %w", err)
	}
	switch {
	case result.Success && result.Redirect != "":
		return models.Outcome{Kind: models.OutcomeSuccessRedirect, Location: result.Redirect, StatusCode: resp.StatusCode}, nil
	case result.Success:
		return models.Outcome{Kind: models.OutcomeSuccess, StatusCode: resp.StatusCode}, nil
	default:
		return models.Outcome{Kind: models.OutcomeFailure, Message: result.Message, StatusCode: resp.StatusCode}, nil
	}
}

func actionOrDefault(action string) string {
	if action == "" {
		return AbsencePagePath
	}
	return action
}

func parseAbsencePage(doc *html.Node) *models.AbsencePage {
	page := &models.AbsencePage{Action: AbsencePagePath, CSRFToken: csrfToken(doc)}

	if form := findFirst(doc, withID("absenceForm")); form != nil {
		if action := attr(form, "action"); action != "" {
			page.Action = action
		}
	}
	if input := findFirst(doc, tagWithAttr(atom.Input, "name", "date")); input != nil {
		if d, err := time.Parse(models.DateLayout, attr(input, "value")); err == nil {
			page.Form.Date = d
		}
	}
	if sel := findFirst(doc, tagWithAttr(atom.Select, "name", "day")); sel != nil {
		for _, opt := range findAll(sel, tag(atom.Option)) {
			if hasAttr(opt, "selected") {
				page.Form.Day = attr(opt, "value")
			}
		}
	}

	table := findFirst(doc, withID("teacherTable"))
	if table == nil {
		return page
	}
	tbody := findFirst(table, tag(atom.Tbody))
	for _, tr := range findAll(tbody, tag(atom.Tr)) {
		checkbox := findFirst(tr, func(n *html.Node) bool {
			return n.DataAtom == atom.Input && hasClass(n, "teacher-checkbox")
		})
		if checkbox == nil {
			continue
		}
		cells := directCells(tr)
		cell := func(i int) string {
			if i < len(cells) {
				return textContent(cells[i])
			}
			return ""
		}
		page.Roster = append(page.Roster, models.RosterRow{
			Teacher: models.Teacher{
				ID:    attr(checkbox, "value"),
				Name:  cell(1),
				Code:  cell(2),
				Phone: cell(3),
				Email: cell(4),
			},
			Selected: hasAttr(checkbox, "checked"),
			Visible:  true,
		})
	}
	return page
}
