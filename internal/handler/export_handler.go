package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-substitution-console/internal/dto"
	"github.com/noah-isme/sma-substitution-console/internal/models"
	"github.com/noah-isme/sma-substitution-console/internal/service"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
	"github.com/noah-isme/sma-substitution-console/pkg/response"
	"github.com/noah-isme/sma-substitution-console/pkg/storage"
)

type exportGenerator interface {
	Generate(ctx context.Context, req service.ExportRequest) (*models.ExportResult, error)
	Resolve(token string) (storage.Grant, error)
	Open(relPath string) (*os.File, error)
}

// ExportHandler renders printable pages and serves them back through signed links.
type ExportHandler struct {
	exports   exportGenerator
	validator *validator.Validate
	prefix    string
}

// NewExportHandler constructs an ExportHandler. prefix is the API prefix download links are
// built under.
func NewExportHandler(exports exportGenerator, validate *validator.Validate, prefix string) *ExportHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ExportHandler{exports: exports, validator: validate, prefix: strings.TrimRight(prefix, "/")}
}

// Create godoc
// @Summary Export a page to PDF or CSV
// @Tags Exports
// @Accept json
// @Produce json
// @Param kind path string true "substitution-plan, schedule or substitutions"
// @Param payload body dto.ExportBody false "Format and date"
// @Success 201 {object} response.Envelope
// @Router /exports/{kind} [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var body dto.ExportBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
			return
		}
	}
	req := service.ExportRequest{
		Kind:   models.ExportKind(c.Param("kind")),
		Format: models.ExportFormat(strings.ToLower(body.Format)),
		Date:   body.Date,
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error()))
		return
	}

	result, err := h.exports.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.ExportResponse{
		ID:        result.ID,
		FileName:  result.FileName,
		Format:    string(result.Format),
		Size:      result.Size,
		ExpiresAt: result.ExpiresAt,
	}
	if result.Token != "" {
		resp.DownloadURL = fmt.Sprintf("%s/exports/download/%s", h.prefix, result.Token)
	}
	response.JSON(c, http.StatusCreated, resp)
}

// Download godoc
// @Summary Download an export via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	grant, err := h.exports.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Open(grant.Path)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	name := service.SanitizeFileName(path.Base(grant.Path))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType(name), file, nil)
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
