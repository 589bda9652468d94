package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/HansOr04/testing-sub002/internal/handler/http/middleware"
	"github.com/HansOr04/testing-sub002/internal/pkg/jwt"
)

type RouterConfig struct {
	Env            string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, attendanceHandler AttendanceHandler, summaryHandler SummaryHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Read-only reporting
		r.Route("/summary", func(r chi.Router) {
			r.Get("/", summaryHandler.GetSummary)
			r.Get("/trend", summaryHandler.GetTrend)
		})

		r.Route("/records", func(r chi.Router) {
			r.Get("/", attendanceHandler.ListRecords)
			r.Get("/{id}", attendanceHandler.GetRecord)
			r.Get("/{id}/check", attendanceHandler.CheckRecord)

			// Mutations require authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

				r.Patch("/{id}", attendanceHandler.UpdateRecord)
				r.Delete("/{id}", attendanceHandler.DeleteRecord)
				r.Post("/{id}/approve", attendanceHandler.ApproveRecord)
				r.Post("/{id}/reject", attendanceHandler.RejectRecord)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/reconciliation", func(r chi.Router) {
				r.Post("/day", attendanceHandler.ReconcileDay)
				r.Post("/range", attendanceHandler.ReconcileRange)
				r.Post("/repair", attendanceHandler.RepairRecords)
			})
		})
	})
	return r
}
