package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level

	// FilesDir and FilesPrefix expose archived workbooks from local storage.
	// Leave FilesDir empty to skip.
	FilesDir    string
	FilesPrefix string
}

type Handlers struct {
	DateRange  DateRangeHandler
	Calendar   CalendarHandler
	Attendance AttendanceHandler
	Report     ReportHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.FilesDir != "" && opts.FilesPrefix != "" {
		fs := http.StripPrefix(opts.FilesPrefix, http.FileServer(http.Dir(opts.FilesDir)))
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireCompany)
			r.Use(middleware.RequireManager)
			r.Use(middleware.RequireCompanyPath(opts.FilesPrefix))
			r.Get(opts.FilesPrefix+"/*", fs.ServeHTTP)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/date-ranges", func(r chi.Router) {
			r.Get("/resolve", h.DateRange.Resolve)
			r.Get("/presets", h.DateRange.Presets)
		})
		r.Get("/calendar", h.Calendar.Month)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireCompany)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/", h.Attendance.List)
					r.Get("/stats", h.Attendance.Stats)
					r.Get("/{id}", h.Attendance.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
					r.Post("/", h.Attendance.Create)
					r.Put("/{id}", h.Attendance.Update)
				})
			})

			r.With(middleware.RequirePermission(user.PermissionReportsView)).
				Get("/reports/attendance", h.Report.GetMonthlyAttendanceReport)
		})

		// Downloads are opened as plain links, so the token may also come
		// from the jwt query parameter.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireCompany)
			r.Use(middleware.RequirePermission(user.PermissionReportsExport))

			r.Get("/reports/attendance/export", h.Report.ExportMonthlyAttendance)
			r.Get("/reports/attendance/summary/export", h.Report.ExportAttendanceSummary)
			r.Get("/reports/exports", h.Report.ListArchivedExports)
			r.Get("/reports/exports/{id}/download", h.Report.DownloadArchivedExport)
		})
	})
	return r
}
