package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-substitution-console/internal/dto"
	"github.com/noah-isme/sma-substitution-console/internal/models"
	"github.com/noah-isme/sma-substitution-console/internal/service"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
	"github.com/noah-isme/sma-substitution-console/pkg/response"
)

type absenceWorkflow interface {
	LoadPage(ctx context.Context) (*models.AbsencePage, error)
	Submit(ctx context.Context, in service.SubmissionInput, page service.Page) (*models.SubmissionResult, error)
	Cancel(ctx context.Context, page service.Page) string
}

// AbsenceHandler exposes the absence page over HTTP.
type AbsenceHandler struct {
	absence   absenceWorkflow
	validator *validator.Validate
}

// NewAbsenceHandler constructs an AbsenceHandler.
func NewAbsenceHandler(absence absenceWorkflow, validate *validator.Validate) *AbsenceHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AbsenceHandler{absence: absence, validator: validate}
}

// Roster godoc
// @Summary Load the absence roster
// @Tags Absence
// @Produce json
// @Param search query string false "Filter by name, teacher id or email"
// @Success 200 {object} response.Envelope
// @Router /absence/roster [get]
func (h *AbsenceHandler) Roster(c *gin.Context) {
	page, err := h.absence.LoadPage(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	selection := service.NewSelectionService(page.Roster)
	query := c.Query("search")
	selection.Filter(query)

	resp := dto.RosterResponse{
		Rows:   selection.Visible(),
		Panel:  selection.Panel(),
		Day:    page.Form.Day,
		Action: page.Action,
		Query:  query,
	}
	if !page.Form.Date.IsZero() {
		resp.Date = page.Form.Date.Format(models.DateLayout)
	}
	response.JSON(c, http.StatusOK, resp)
}

// Day godoc
// @Summary Derive the rotation day for a date
// @Tags Absence
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /absence/day [get]
func (h *AbsenceHandler) Day(c *gin.Context) {
	raw := c.Query("date")
	day, _, ok := service.DayForInput(raw)
	response.JSON(c, http.StatusOK, dto.DayResponse{Date: strings.TrimSpace(raw), Day: day, Derived: ok})
}

// Submit godoc
// @Summary Mark teachers absent
// @Tags Absence
// @Accept json
// @Produce json
// @Param payload body dto.SubmitAbsenceRequest true "Selected teachers"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /absence [post]
func (h *AbsenceHandler) Submit(c *gin.Context) {
	var req dto.SubmitAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error()))
		return
	}

	ctx := c.Request.Context()
	page, err := h.absence.LoadPage(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	selection := service.NewSelectionService(page.Roster)
	selection.SelectAll(false)
	for _, id := range req.TeacherIDs {
		if _, err := selection.Toggle(id, true); err != nil {
			response.Error(c, err)
			return
		}
	}

	input := service.SubmissionInput{
		Date:      page.Form.Date,
		Day:       page.Form.Day,
		Selection: selection.Selection(),
		Action:    page.Action,
		CSRFToken: page.CSRFToken,
	}
	if req.Date != "" {
		if day, date, ok := service.DayForInput(req.Date); ok {
			input.Date = date
			input.Day = day
		}
	}
	if req.Day != "" {
		input.Day = req.Day
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
		if input.Day == "" {
			input.Day = service.DeriveDay(input.Date)
		}
	}

	ui := newAPIPage(req.Confirm)
	result, err := h.absence.Submit(ctx, input, ui.Page())
	if err != nil {
		response.ErrorWithData(c, err, ui.response(result))
		return
	}
	response.JSON(c, http.StatusOK, ui.response(result))
}

// Cancel godoc
// @Summary Leave the absence page
// @Tags Absence
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /absence/cancel [post]
func (h *AbsenceHandler) Cancel(c *gin.Context) {
	ui := newAPIPage(nil)
	target := h.absence.Cancel(c.Request.Context(), ui.Page())
	response.JSON(c, http.StatusOK, gin.H{"navigate_to": target})
}
