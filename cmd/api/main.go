package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v3"

	"github.com/jkgulay/payroll-system-sub001/internal/config"
	appHTTP "github.com/jkgulay/payroll-system-sub001/internal/handler/http"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/audit"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/jwt"
	"github.com/jkgulay/payroll-system-sub001/internal/repository/postgresql"
	attendanceService "github.com/jkgulay/payroll-system-sub001/internal/service/attendance"
	compensationService "github.com/jkgulay/payroll-system-sub001/internal/service/compensation"
	holidayService "github.com/jkgulay/payroll-system-sub001/internal/service/holiday"
	masterdataService "github.com/jkgulay/payroll-system-sub001/internal/service/masterdata"
	payrollService "github.com/jkgulay/payroll-system-sub001/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "construction-payroll"),
		slog.String("env", cfg.App.Env),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	rateRepo := postgresql.NewContributionRepository(db)
	bracketRepo := postgresql.NewTaxRepository(db)
	allowanceRepo := postgresql.NewAllowanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	auditEmitter := audit.NewEmitter(logger)
	holidayResolver := holidayService.NewResolver(holidayRepo, cfg.Payroll)

	attendanceSvc := attendanceService.NewService(
		cfg.Payroll, attendanceRepo, employeeRepo, holidayResolver, auditEmitter, logger,
	)
	payrollSvc := payrollService.NewService(payrollService.Deps{
		Config:      cfg.Payroll,
		Tx:          postgresql.NewTxManager(db),
		Payrolls:    payrollRepo,
		Employees:   employeeRepo,
		Attendances: attendanceRepo,
		Holidays:    holidayResolver,
		Rates:       rateRepo,
		Brackets:    bracketRepo,
		Allowances:  allowanceRepo,
		Leaves:      leaveRepo,
		Adjustments: adjustmentRepo,
		Loans:       loanRepo,
		Audit:       auditEmitter,
		Logger:      logger,
	})
	masterdataSvc := masterdataService.NewService(holidayRepo, rateRepo, bracketRepo, auditEmitter)
	compensationSvc := compensationService.NewService(loanRepo, adjustmentRepo, allowanceRepo, employeeRepo, auditEmitter)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	masterdataHandler := appHTTP.NewMasterdataHandler(masterdataSvc)
	compensationHandler := appHTTP.NewCompensationHandler(compensationSvc)

	router := appHTTP.NewRouter(
		logger,
		jwtService,
		payrollHandler,
		attendanceHandler,
		masterdataHandler,
		compensationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("server listening", slog.String("addr", port))
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
