package handler

import "github.com/gin-gonic/gin"

// Handlers groups the gateway handlers mounted under the API prefix.
type Handlers struct {
	Absence       *AbsenceHandler
	Transfers     *TransferHandler
	Substitutions *SubstitutionHandler
	Theme         *ThemeHandler
	Exports       *ExportHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes mounts the workflow routes on api.
func RegisterRoutes(api gin.IRouter, h Handlers) {
	absence := api.Group("/absence")
	absence.GET("/roster", h.Absence.Roster)
	absence.GET("/day", h.Absence.Day)
	absence.POST("", h.Absence.Submit)
	absence.POST("/cancel", h.Absence.Cancel)

	api.POST("/transfers/:id/:action", h.Transfers.Decide)

	subs := api.Group("/substitutions")
	subs.GET("/plan", h.Substitutions.Plan)
	subs.GET("/:id/candidates", h.Substitutions.Candidates)
	subs.PUT("/:id", h.Substitutions.Update)
	subs.POST("/:id/transfer", h.Transfers.Request)

	api.GET("/theme", h.Theme.Get)
	api.PUT("/theme", h.Theme.Put)
	api.POST("/theme/toggle", h.Theme.Toggle)

	api.POST("/exports/:kind", h.Exports.Create)
	api.GET("/exports/download/:token", h.Exports.Download)

	if h.Metrics != nil {
		api.GET("/metrics/summary", h.Metrics.Summary)
	}
}
