package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/handler/http/middleware"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/jwt"
)

func NewRouter(
	logger *slog.Logger,
	jwtService jwt.Service,
	payrollHandler PayrollHandler,
	attendanceHandler AttendanceHandler,
	masterdataHandler MasterdataHandler,
	compensationHandler CompensationHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payrolls", func(r chi.Router) {
				r.Post("/", payrollHandler.Create)
				r.Get("/", payrollHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.Get)
					r.Delete("/", payrollHandler.Delete)
					r.Post("/reprocess", payrollHandler.Reprocess)
					r.Post("/finalize", payrollHandler.Finalize)
					r.Post("/mark-paid", payrollHandler.MarkPaid)
					r.Post("/cancel", payrollHandler.Cancel)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/", attendanceHandler.Upsert)
				r.Get("/", attendanceHandler.List)
				r.Get("/incomplete", attendanceHandler.ListIncomplete)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", attendanceHandler.Get)
					r.Delete("/", attendanceHandler.Delete)
					r.Post("/decide", attendanceHandler.Decide)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Post("/", masterdataHandler.CreateHoliday)
				r.Get("/", masterdataHandler.ListHolidays)
				r.Put("/{id}", masterdataHandler.UpdateHoliday)
				r.Delete("/{id}", masterdataHandler.DeleteHoliday)
			})

			r.Route("/government-rates", func(r chi.Router) {
				r.Post("/", masterdataHandler.CreateRate)
				r.Get("/", masterdataHandler.ListRates)
				r.Put("/{id}", masterdataHandler.UpdateRate)
				r.Delete("/{id}", masterdataHandler.DeleteRate)
			})

			r.Route("/tax-brackets", func(r chi.Router) {
				r.Post("/", masterdataHandler.CreateBracket)
				r.Get("/", masterdataHandler.ListBrackets)
				r.Put("/{id}", masterdataHandler.UpdateBracket)
				r.Delete("/{id}", masterdataHandler.DeleteBracket)
			})

			r.Route("/loans", func(r chi.Router) {
				r.Post("/", compensationHandler.CreateLoan)
				r.Get("/", compensationHandler.ListLoans)
				r.Get("/{id}", compensationHandler.GetLoan)
			})

			r.Route("/deductions", func(r chi.Router) {
				r.Post("/", compensationHandler.CreateDeduction)
				r.Get("/{id}", compensationHandler.GetDeduction)
			})

			r.Route("/adjustments", func(r chi.Router) {
				r.Post("/", compensationHandler.CreateAdjustment)
				r.Post("/{id}/decide", compensationHandler.DecideAdjustment)
			})

			r.Route("/allowances", func(r chi.Router) {
				r.Post("/", compensationHandler.CreateAllowance)
				r.Delete("/{id}", compensationHandler.DeleteAllowance)
			})

			r.Route("/meal-allowances", func(r chi.Router) {
				r.Post("/", compensationHandler.CreateMealAllowance)
				r.Post("/{id}/decide", compensationHandler.DecideMealAllowance)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
