package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexa091904/semi-project/internal/academicyear"
	"github.com/alexa091904/semi-project/internal/archive"
	"github.com/alexa091904/semi-project/internal/auth"
	"github.com/alexa091904/semi-project/internal/course"
	"github.com/alexa091904/semi-project/internal/dashboard"
	"github.com/alexa091904/semi-project/internal/department"
	"github.com/alexa091904/semi-project/internal/events"
	"github.com/alexa091904/semi-project/internal/faculty"
	"github.com/alexa091904/semi-project/internal/health"
	"github.com/alexa091904/semi-project/internal/metrics"
	"github.com/alexa091904/semi-project/internal/middleware"
	"github.com/alexa091904/semi-project/internal/report"
	"github.com/alexa091904/semi-project/internal/student"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
)

// Dependencies are the shared resources every handler is built from.
type Dependencies struct {
	DB           *bun.DB
	Publisher    events.Publisher
	Limiter      auth.Limiter
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	JWTSecret    string
	SessionIdle  time.Duration
	CookieSecure bool
	CORSOrigins  []string
}

// NewRouter wires repositories, services and handlers into one chi router.
// The returned auth service is used for admin seeding.
func NewRouter(deps Dependencies) (chi.Router, *auth.Service) {
	if deps.Publisher == nil {
		deps.Publisher = events.Noop{}
	}
	if deps.Limiter == nil {
		deps.Limiter = auth.NoopLimiter{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewMock()
	}
	if deps.SessionIdle <= 0 {
		deps.SessionIdle = 30 * time.Minute
	}
	logger := deps.Logger

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.CORS(deps.CORSOrigins))

	healthHandler := health.NewHandler(readinessChecks(deps))
	healthHandler.RegisterRoutes(router)

	// Repositories
	departmentRepo := department.NewRepository(deps.DB, deps.Metrics)
	academicYearRepo := academicyear.NewRepository(deps.DB, deps.Metrics)
	courseRepo := course.NewRepository(deps.DB, deps.Metrics)
	facultyRepo := faculty.NewRepository(deps.DB, deps.Metrics)
	studentRepo := student.NewRepository(deps.DB, deps.Metrics)
	authRepo := auth.NewRepository(deps.DB, deps.Metrics)

	// Services
	departmentService := department.NewService(departmentRepo)
	academicYearService := academicyear.NewService(academicYearRepo)
	courseService := course.NewService(courseRepo, departmentRepo)
	facultyService := faculty.NewService(facultyRepo, departmentRepo)
	studentService := student.NewService(studentRepo, departmentRepo, courseRepo, academicYearRepo)
	authService := auth.NewService(authRepo, auth.NewTokenManager(deps.JWTSecret), deps.SessionIdle, deps.Metrics)
	reportService := report.NewService(studentService, facultyService, courseService, departmentService, deps.Metrics)
	dashboardService := dashboard.NewService(dashboard.NewRepository(deps.DB, deps.Metrics))
	engine := archive.NewEngine(deps.Publisher, deps.Metrics, logger,
		courseRepo, departmentRepo, academicYearRepo, studentRepo, facultyRepo)

	authHandler := auth.NewHandler(authService, deps.Limiter, logger, deps.CookieSecure)
	authHandler.RegisterPublicRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService, logger))

		authHandler.RegisterRoutes(r)
		department.NewHandler(departmentService, logger).RegisterRoutes(r)
		academicyear.NewHandler(academicYearService, logger).RegisterRoutes(r)
		course.NewHandler(courseService, logger).RegisterRoutes(r)
		faculty.NewHandler(facultyService, logger).RegisterRoutes(r)
		student.NewHandler(studentService, logger).RegisterRoutes(r)
		archive.NewHandler(engine, logger).RegisterRoutes(r)
		dashboard.NewHandler(dashboardService, logger).RegisterRoutes(r)
		report.NewHandler(reportService, logger).RegisterRoutes(r)
	})

	return router, authService
}

func readinessChecks(deps Dependencies) map[string]health.Checker {
	checks := map[string]health.Checker{
		"database": func(ctx context.Context) error {
			return deps.DB.PingContext(ctx)
		},
	}
	if hc, ok := deps.Publisher.(interface{ HealthCheck() error }); ok {
		checks["events"] = func(context.Context) error {
			return hc.HealthCheck()
		}
	}
	return checks
}
