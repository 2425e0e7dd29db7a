package handlers

import (
	"net/http"

	customMiddleware "feedback-analytics/internal/middleware"
	"feedback-analytics/internal/models"
	"feedback-analytics/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterDeps struct {
	FeedbackRepo    *repository.FeedbackRepo
	AuthHandler     *AuthHandler
	FeedbackHandler *FeedbackHandler
	UserHandler     *UserHandler
	JWTSecret       string
	Logger          *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "feedback-analytics",
			"records": d.FeedbackRepo.Count(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Post("/auth/login", d.AuthHandler.Login)

	// Any signed-in user
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(d.JWTSecret))

		r.Get("/user/me", d.UserHandler.GetMe)
		r.Post("/feedback", d.FeedbackHandler.SubmitFeedback)
		r.Get("/feedback/mine", d.FeedbackHandler.ListMine)

		// Admin only
		r.Route("/admin", func(r chi.Router) {
			r.Use(customMiddleware.RequireRole(models.RoleAdmin))

			r.Get("/feedback", d.FeedbackHandler.ListAll)
			r.Delete("/feedback", d.FeedbackHandler.ClearAll)
			r.Post("/feedback/sample", d.FeedbackHandler.AddSampleData)
			r.Get("/analytics", d.FeedbackHandler.GetAnalytics)
			r.Get("/export", d.FeedbackHandler.ExportJSON)
		})
	})

	return r
}
