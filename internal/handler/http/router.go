package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Auth       AuthHandler
	Company    CompanyHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payroll    PayrollHandler
	Dashboard  DashboardHandler
	Events     EventHandler
}

type RouterOptions struct {
	Logger      *slog.Logger
	CORSOrigins []string

	// UploadsDir is served under /uploads when files are stored locally. Empty disables it.
	UploadsDir string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/reset-password", h.Auth.ResetPassword)
			r.Get("/verify-email/{token}", h.Auth.VerifyEmail)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
				r.Put("/change-password", h.Auth.ChangePassword)
			})
		})

		// The stream authenticates with its own short-lived query token.
		r.Get("/events/stream", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/events/token", h.Events.StreamToken)

			r.Route("/companies", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.ResourceCompany, user.ActionRead)).Get("/", h.Company.List)
				r.With(middleware.RequirePermission(user.ResourceCompany, user.ActionCreate)).Post("/", h.Company.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.ResourceCompany, user.ActionRead)).Get("/", h.Company.GetByID)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.ResourceCompany, user.ActionUpdate))
						r.Put("/", h.Company.Update)
						r.Post("/logo", h.Company.UploadLogo)
					})
					r.With(middleware.RequirePermission(user.ResourceCompany, user.ActionDelete)).Delete("/", h.Company.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.ResourceEmployee, user.ActionCreate)).Post("/", h.Employee.OnboardEmployee)
				r.With(middleware.RequirePermission(user.ResourceEmployee, user.ActionRead)).Get("/", h.Employee.ListEmployees)
				r.With(middleware.RequirePermission(user.ResourceEmployee, user.ActionStats)).Get("/stats", h.Employee.Stats)
				r.Get("/me", h.Employee.GetMe)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.ResourceEmployee, user.ActionRead)).Get("/", h.Employee.GetEmployee)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.ResourceEmployee, user.ActionUpdate))
						r.Put("/", h.Employee.UpdateEmployee)
						r.Post("/avatar", h.Employee.UploadAvatar)
					})
					r.With(middleware.RequirePermission(user.ResourceEmployee, user.ActionDelete)).Delete("/", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.ResourceAttendance, user.ActionRecord))
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
					r.Get("/today", h.Attendance.Today)
					r.Get("/me", h.Attendance.MyHistory)
				})

				r.With(middleware.RequirePermission(user.ResourceAttendance, user.ActionRead)).Get("/", h.Attendance.List)
				r.With(middleware.RequirePermission(user.ResourceAttendance, user.ActionStats)).Get("/stats", h.Attendance.Stats)
				r.With(middleware.RequirePermission(user.ResourceAttendance, user.ActionMarkAbsent)).Post("/mark-absent", h.Attendance.MarkAbsent)
				r.With(middleware.RequirePermission(user.ResourceAttendance, user.ActionRead)).Get("/employee/{employeeID}", h.Attendance.ListByEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.ResourceAttendance, user.ActionRead)).Get("/", h.Attendance.GetByID)
					r.With(middleware.RequirePermission(user.ResourceAttendance, user.ActionUpdate)).Put("/", h.Attendance.Update)
					r.With(middleware.RequirePermission(user.ResourceAttendance, user.ActionDelete)).Delete("/", h.Attendance.Delete)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionCreate)).Post("/", h.Leave.Apply)
				r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionRead)).Get("/", h.Leave.List)
				r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionRead)).Get("/me", h.Leave.MyLeaves)
				r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionStats)).Get("/stats", h.Leave.Stats)
				r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionRead)).Get("/balance", h.Leave.Balance)
				r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionRead)).Get("/balance/{employeeID}", h.Leave.Balance)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionRead)).Get("/", h.Leave.GetByID)
					r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionUpdate)).Put("/", h.Leave.Update)
					r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionApprove)).Put("/status", h.Leave.Review)
					r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionCancel)).Post("/cancel", h.Leave.Cancel)
					r.With(middleware.RequirePermission(user.ResourceLeave, user.ActionDelete)).Delete("/", h.Leave.Delete)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionCreate)).Post("/", h.Payroll.Create)
				r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionCreate)).Post("/bulk", h.Payroll.BulkCreate)
				r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionRead)).Get("/", h.Payroll.List)
				r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionRead)).Get("/me", h.Payroll.MyPayroll)
				r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionStats)).Get("/stats", h.Payroll.Stats)
				r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionRead)).Get("/employee/{employeeID}", h.Payroll.ListByEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionRead)).Get("/", h.Payroll.GetByID)
					r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionRead)).Get("/payslip", h.Payroll.Payslip)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.ResourcePayroll, user.ActionUpdate))
						r.Put("/", h.Payroll.Update)
						r.Put("/status", h.Payroll.UpdatePaymentStatus)
					})
					r.With(middleware.RequirePermission(user.ResourcePayroll, user.ActionDelete)).Delete("/", h.Payroll.Delete)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/quick-stats", h.Dashboard.QuickStats)
				r.With(middleware.RequirePermission(user.ResourceDashboard, user.ActionOwnView)).Get("/employee", h.Dashboard.Employee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.ResourceDashboard, user.ActionAdminView))
					r.Get("/admin", h.Dashboard.Admin)
					r.Get("/attendance-trends", h.Dashboard.AttendanceTrends)
					r.Get("/leave-trends", h.Dashboard.LeaveTrends)
					r.Get("/analytics", h.Dashboard.Analytics)
				})
			})
		})
	})
	return r
}
