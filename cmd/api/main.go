package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/notification"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	scheduleService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll-engine"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			return err
		}
		slog.Info("database schema applied")
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	weeklyOffRepo := postgresql.NewWeeklyOffRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveApplicationRepo := postgresql.NewLeaveApplicationRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	salaryStructureRepo := postgresql.NewSalaryStructureRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	transactor := postgresql.NewTransactor(db)
	calendarLoader := scheduleService.NewCalendarLoader(holidayRepo, weeklyOffRepo)

	scheduleSvc := scheduleService.NewScheduleService(holidayRepo, weeklyOffRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		calendarLoader,
		cfg.Shift,
		cfg.Location(),
	)
	leaveSvc := leaveService.NewLeaveService(
		transactor,
		leaveTypeRepo,
		leaveApplicationRepo,
		leaveBalanceRepo,
		attendanceRepo,
		notificationRepo,
		calendarLoader,
		attendanceSvc,
	)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		salaryStructureRepo,
		payslipRepo,
		employeeRepo,
		attendanceSvc,
		payrollService.NewCalculator(cfg.Statutory),
	)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	notificationSvc := notificationService.NewNotificationService(notificationRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		appHTTP.Handlers{
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
			Schedule:     appHTTP.NewScheduleHandler(scheduleSvc),
			Leave:        appHTTP.NewLeaveHandler(leaveSvc),
			Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
			Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
			Notification: appHTTP.NewNotificationHandler(notificationSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
