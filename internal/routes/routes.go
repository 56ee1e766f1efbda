package routes

import (
	"net/http"

	"github.com/compoundjoy/server/internal/app"
	"github.com/compoundjoy/server/internal/handler"
	"github.com/compoundjoy/server/internal/middleware"
	"github.com/compoundjoy/server/internal/projection"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	projections := handler.NewProjectionHandler(projection.DefaultTargets)
	goal := handler.NewGoalHandler(app.GoalService)
	stats := handler.NewStatsHandler(app.StatsService)
	export := handler.NewExportHandler(app.ExportService)
	profile := handler.NewProfileHandler(app.ProfileService)
	admin := handler.NewAdminHandler(app.ProfileService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /api/projections", projections.Project)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Show))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("GET /api/goals/{id}/contributions", middleware.RequireAuth(goal.Contributions))
	mux.HandleFunc("POST /api/goals/{id}/contributions", middleware.RequireAuth(goal.AddContribution))

	// Stats
	mux.HandleFunc("GET /api/stats", middleware.RequireAuth(stats.Stats))
	mux.HandleFunc("GET /api/stats/total", middleware.RequireAuth(stats.TotalSaved))

	// Export
	mux.HandleFunc("GET /api/export", middleware.RequireAuth(export.Download))
	mux.HandleFunc("POST /api/exports", middleware.RequireAuth(export.Archive))

	// Profile
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profile.Show))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profile.Upsert))

	// Admin (role checks happen in ProfileService)
	claimLimit := middleware.RateLimit(app.ClaimLimiter)
	mux.HandleFunc("GET /api/admin/status", middleware.RequireAuth(admin.Status))
	mux.HandleFunc("POST /api/admin/claim", middleware.RequireAuth(claimLimit(admin.Claim)))
	mux.HandleFunc("GET /api/admin/profiles", middleware.RequireAuth(admin.Profiles))
	mux.HandleFunc("PATCH /api/admin/profiles/{id}/role", middleware.RequireAuth(admin.SetRole))
	mux.HandleFunc("DELETE /api/admin/profiles/{id}", middleware.RequireAuth(admin.DeleteAccount))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID, // Must run before logging so entries carry the id
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	)

	return handler
}
