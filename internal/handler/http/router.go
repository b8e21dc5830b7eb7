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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrcore-id/leave-backend-go/internal/handler/http/middleware"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	leaveHandler *LeaveHandler,
	calendarHandler *CalendarHandler,
	hierarchyHandler *HierarchyHandler,
	reportHandler *ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
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

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", leaveHandler.ListLeaveTypes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManage)
					r.Post("/", leaveHandler.CreateLeaveType)
					r.Patch("/{leaveTypeID}", leaveHandler.UpdateLeaveType)
				})
			})

			r.Route("/leave-balances", func(r chi.Router) {
				r.Get("/me", leaveHandler.GetMyBalances)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManage)
					r.Post("/", leaveHandler.GrantBalance)
					r.Delete("/{balanceID}", leaveHandler.DeleteBalance)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", leaveHandler.SubmitRequest)
				r.Get("/", leaveHandler.ListMyRequests)
				r.Get("/{requestID}", leaveHandler.GetRequest)
				r.Delete("/{requestID}", leaveHandler.DeleteRequest)
				r.Post("/{requestID}/approve", leaveHandler.ApproveRequest)
				r.Post("/{requestID}/reject", leaveHandler.RejectRequest)
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Get("/leave-balances", leaveHandler.GetEmployeeBalances)
				r.Get("/leave-requests", reportHandler.EmployeeRequests)
			})

			r.Get("/approvals/pending", reportHandler.PendingApprovals)
			r.Get("/reports/team-calendar", reportHandler.TeamCalendar)

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", calendarHandler.ListHolidays)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManage)
					r.Post("/", calendarHandler.CreateHoliday)
					r.Patch("/{holidayID}", calendarHandler.UpdateHoliday)
					r.Delete("/{holidayID}", calendarHandler.DeleteHoliday)
				})
			})

			r.Route("/work-week", func(r chi.Router) {
				r.Get("/", calendarHandler.GetWorkWeek)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManage)
					r.Put("/", calendarHandler.SetWorkWeek)
				})
			})

			r.Route("/manager-links", func(r chi.Router) {
				r.Use(middleware.RequireManage)
				r.Put("/", hierarchyHandler.SetManager)
				r.Delete("/{employeeID}", hierarchyHandler.ClearManager)
			})
		})
	})

	return r
}
