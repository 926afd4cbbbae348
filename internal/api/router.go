package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/api/handler"
	"github.com/BrutalPeanut/iowa-liquor-sales/pkg/router"
)

// RegisterRoutes wires every analysis endpoint into the router.
func RegisterRoutes(r *router.Router) {
	// Analyses
	r.POST("/api/v1/analyses", handler.CreateAnalysis)
	r.GET("/api/v1/analyses", handler.ListAnalyses)
	r.GET("/api/v1/analyses/*", handler.GetAnalysis)
	r.DELETE("/api/v1/analyses/*", handler.DeleteAnalysis)

	// Per-analysis subresources
	r.GET("/api/v1/analyses/*/results", handler.GetAnalysisResults)
	r.GET("/api/v1/analyses/*/quarantine", handler.GetAnalysisQuarantine)
	r.GET("/api/v1/analyses/*/errors", handler.GetAnalysisErrors)
	r.GET("/api/v1/analyses/*/logs", handler.GetAnalysisLogs)
	r.GET("/api/v1/analyses/*/files", handler.GetAnalysisFiles)
	r.POST("/api/v1/analyses/*/rerun", handler.RerunAnalysis)

	// Artifacts
	r.GET("/api/v1/download/*", handler.DownloadFile)

	// API documentation
	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)
}
