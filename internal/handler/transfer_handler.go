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

type transferWorkflow interface {
	Decide(ctx context.Context, id string, action models.TransferAction, page service.Page) (*models.ActionResult, error)
	Request(ctx context.Context, req models.TransferRequest, page service.Page) (*models.ActionResult, error)
}

// TransferHandler exposes transfer decisions and transfer requests.
type TransferHandler struct {
	transfers transferWorkflow
}

// NewTransferHandler constructs a TransferHandler.
func NewTransferHandler(transfers transferWorkflow) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Decide godoc
// @Summary Approve or reject a transfer request
// @Tags Transfers
// @Accept json
// @Produce json
// @Param id path string true "Transfer ID"
// @Param action path string true "approve or reject"
// @Param payload body dto.ConfirmRequest false "Confirmation answer"
// @Success 200 {object} response.Envelope
// @Router /transfers/{id}/{action} [post]
func (h *TransferHandler) Decide(c *gin.Context) {
	action := models.TransferAction(c.Param("action"))
	if !action.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "action must be approve or reject"))
		return
	}
	var req dto.ConfirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
			return
		}
	}

	ui := newAPIPage(req.Confirm)
	result, err := h.transfers.Decide(c.Request.Context(), c.Param("id"), action, ui.Page())
	if err != nil {
		response.ErrorWithData(c, err, ui.response(result))
		return
	}
	response.JSON(c, http.StatusOK, ui.response(result))
}

// Request godoc
// @Summary Request a transfer of a substitution
// @Tags Transfers
// @Accept json
// @Produce json
// @Param id path string true "Substitution ID"
// @Param payload body dto.TransferRequestBody true "Transfer request"
// @Success 200 {object} response.Envelope
// @Router /substitutions/{id}/transfer [post]
func (h *TransferHandler) Request(c *gin.Context) {
	var body dto.TransferRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	ui := newAPIPage(body.Confirm)
	result, err := h.transfers.Request(c.Request.Context(), models.TransferRequest{
		SubstitutionID: c.Param("id"),
		NewTeacherID:   body.NewTeacherID,
		Reason:         body.Reason,
		TransferAll:    body.TransferAll,
	}, ui.Page())
	if err != nil {
		response.ErrorWithData(c, err, ui.response(result))
		return
	}
	response.JSON(c, http.StatusOK, ui.response(result))
}
