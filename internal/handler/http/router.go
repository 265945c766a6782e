package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/odpc9/attendance-backend-go/internal/handler/http/middleware"
	"github.com/odpc9/attendance-backend-go/internal/pkg/jwt"
)

// Handlers groups the route handlers mounted under /api/v1.
type Handlers struct {
	Auth   AuthHandler
	Leave  LeaveHandler
	Travel TravelHandler
	Scan   ScanHandler
	Report ReportHandler
	Meta   MetaHandler
}

// RouterOptions carries the environment dependent router settings.
type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	// UploadPath is served under /uploads when attachments are stored
	// locally. Empty disables the route.
	UploadPath string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.UploadPath != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadPath))))
	}

	adminOnly := []func(http.Handler) http.Handler{
		jwtauth.Verifier(JWTService.JWTAuth()),
		middleware.AuthRequired(JWTService),
		middleware.AdminOnly,
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
		})

		r.Route("/meta", func(r chi.Router) {
			r.Get("/work-groups", h.Meta.ListWorkGroups)
			r.Get("/leave-categories", h.Meta.ListLeaveCategories)
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Get("/", h.Leave.List)
			r.Post("/", h.Leave.Create)
			r.Get("/{id}", h.Leave.Get)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(adminOnly...)
				r.Put("/", h.Leave.Replace)
				r.Put("/{id}", h.Leave.Update)
				r.Delete("/{id}", h.Leave.Delete)
			})
		})

		r.Route("/travels", func(r chi.Router) {
			r.Get("/", h.Travel.List)
			r.Post("/", h.Travel.Create)
			r.Get("/{id}", h.Travel.Get)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(adminOnly...)
				r.Put("/", h.Travel.Replace)
				r.Put("/{id}", h.Travel.Update)
				r.Delete("/{id}", h.Travel.Delete)
			})
		})

		r.Route("/attendance/scans", func(r chi.Router) {
			r.Get("/", h.Scan.List)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(adminOnly...)
				r.Post("/import", h.Scan.Import)
				r.Put("/", h.Scan.Replace)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/attendance", h.Report.GetMonthlyAttendanceReport)
			r.Get("/attendance/export", h.Report.ExportMonthlyAttendanceReport)
			r.Get("/dashboard", h.Report.GetDashboard)
		})
	})
	return r
}
