package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
	"github.com/noah-isme/sma-substitution-console/pkg/response"
)

type themePreference interface {
	Current(ctx context.Context) (models.ThemeState, error)
	Toggle(ctx context.Context) (models.ThemeState, error)
	Set(ctx context.Context, theme models.Theme) (models.ThemeState, error)
}

// ThemeHandler exposes the stored light/dark preference.
type ThemeHandler struct {
	theme themePreference
}

// NewThemeHandler constructs a ThemeHandler.
func NewThemeHandler(theme themePreference) *ThemeHandler {
	return &ThemeHandler{theme: theme}
}

// Get godoc
// @Summary Current theme
// @Tags Theme
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /theme [get]
func (h *ThemeHandler) Get(c *gin.Context) {
	state, err := h.theme.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}

// Toggle godoc
// @Summary Flip between light and dark
// @Tags Theme
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /theme/toggle [post]
func (h *ThemeHandler) Toggle(c *gin.Context) {
	state, err := h.theme.Toggle(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}

// Put godoc
// @Summary Store a theme explicitly
// @Tags Theme
// @Accept json
// @Produce json
// @Param payload body models.ThemeState true "Theme to store"
// @Success 200 {object} response.Envelope
// @Router /theme [put]
func (h *ThemeHandler) Put(c *gin.Context) {
	var body struct {
		Theme models.Theme `json:"theme"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	state, err := h.theme.Set(c.Request.Context(), body.Theme)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}
