package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type Handlers struct {
	Attendance   AttendanceHandler
	Schedule     ScheduleHandler
	Leave        LeaveHandler
	Payroll      PayrollHandler
	Employee     EmployeeHandler
	Notification NotificationHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.Employee.Create)
			r.Get("/", h.Employee.List)
			r.Get("/{id}", h.Employee.Get)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", h.Attendance.CheckIn)
			r.Post("/check-out", h.Attendance.CheckOut)
			r.Put("/correct", h.Attendance.Correct)
			r.Get("/summary", h.Attendance.Summary)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Post("/holidays", h.Schedule.CreateHoliday)
			r.Get("/holidays", h.Schedule.ListHolidays)
			r.Post("/weekly-offs", h.Schedule.CreateWeeklyOff)
			r.Get("/weekly-offs", h.Schedule.ListWeeklyOffs)
		})

		r.Route("/leave", func(r chi.Router) {
			r.Post("/types", h.Leave.CreateType)
			r.Get("/types", h.Leave.ListTypes)

			r.Post("/balances", h.Leave.AllocateBalance)
			r.Get("/balances", h.Leave.ListBalances)

			r.Route("/applications", func(r chi.Router) {
				r.Post("/", h.Leave.Apply)
				r.Get("/", h.Leave.ListApplications)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Leave.GetApplication)
					r.Post("/approve", h.Leave.Approve)
					r.Post("/reject", h.Leave.Reject)
					r.Post("/cancel", h.Leave.RequestCancellation)
					r.Post("/cancel/approve", h.Leave.ApproveCancellation)
					r.Post("/cancel/reject", h.Leave.RejectCancellation)
				})
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/salary-structures", h.Payroll.CreateSalaryStructure)
			r.Post("/run", h.Payroll.Run)
			r.Post("/payslips", h.Payroll.GeneratePayslip)
			r.Get("/payslips", h.Payroll.GetPayslip)
		})

		r.Get("/notifications", h.Notification.List)
	})

	return r
}
