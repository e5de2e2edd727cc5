package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-substitution-console/internal/dto"
	"github.com/noah-isme/sma-substitution-console/internal/models"
	"github.com/noah-isme/sma-substitution-console/internal/service"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
	"github.com/noah-isme/sma-substitution-console/pkg/response"
)

type substitutionWorkflow interface {
	Plan(ctx context.Context, date string) (*models.SubstitutionPlan, error)
	Candidates(ctx context.Context, id string) ([]models.SubstitutionCandidate, error)
	Save(ctx context.Context, id string, edit models.SubstitutionEdit, page service.Page) (*models.ActionResult, error)
}

// SubstitutionHandler exposes the substitution plan and the edit modal.
type SubstitutionHandler struct {
	substitutions substitutionWorkflow
}

// NewSubstitutionHandler constructs a SubstitutionHandler.
func NewSubstitutionHandler(substitutions substitutionWorkflow) *SubstitutionHandler {
	return &SubstitutionHandler{substitutions: substitutions}
}

// Plan godoc
// @Summary Substitution plan for a date
// @Tags Substitutions
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /substitutions/plan [get]
func (h *SubstitutionHandler) Plan(c *gin.Context) {
	plan, err := h.substitutions.Plan(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// Candidates godoc
// @Summary Teachers available to take over a substitution
// @Tags Substitutions
// @Produce json
// @Param id path string true "Substitution ID"
// @Success 200 {object} response.Envelope
// @Router /substitutions/{id}/candidates [get]
func (h *SubstitutionHandler) Candidates(c *gin.Context) {
	candidates, err := h.substitutions.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	options := make([]dto.CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		options = append(options, dto.CandidateResponse{ID: cand.ID, TeacherID: cand.TeacherID, Label: cand.Label()})
	}
	response.JSON(c, http.StatusOK, options)
}

// Update godoc
// @Summary Reassign a substitution
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param id path string true "Substitution ID"
// @Param payload body dto.EditSubstitutionRequest true "New teacher and reason"
// @Success 200 {object} response.Envelope
// @Router /substitutions/{id} [put]
func (h *SubstitutionHandler) Update(c *gin.Context) {
	var body dto.EditSubstitutionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	ui := newAPIPage(nil)
	result, err := h.substitutions.Save(c.Request.Context(), c.Param("id"), models.SubstitutionEdit{
		NewTeacherID: body.NewTeacherID,
		Reason:       body.Reason,
	}, ui.Page())
	if err != nil {
		response.ErrorWithData(c, err, ui.response(result))
		return
	}
	response.JSON(c, http.StatusOK, ui.response(result))
}
