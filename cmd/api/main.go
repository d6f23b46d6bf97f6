package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/config"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/dashboard"
	appHTTP "github.com/cmlabs-hris/hrms-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrms-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hrms-backend-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/hrms-backend-go/internal/service/company"
	dashboardService "github.com/cmlabs-hris/hrms-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hrms-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hrms-backend-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hrms-backend-go/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
	"github.com/shopspring/decimal"
)

const appVersion = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms"),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	// Money fields are JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	loc := cfg.Location()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	transactor := postgresql.NewTransactor(db)

	var revoked jwt.RevocationStore
	if cfg.Redis.Addr != "" {
		rdb, err := jwt.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: ", err)
		}
		defer rdb.Close()
		revoked = jwt.NewRedisRevocationStore(rdb)
	} else {
		slog.Warn("REDIS_ADDR not set, revoked access tokens are kept in memory")
		revoked = jwt.NewMemoryRevocationStore()
	}

	JWTService, err := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiration,
		cfg.JWT.RefreshExpiration,
		cfg.App.Env == "production",
		revoked,
	)
	if err != nil {
		log.Fatal("Failed to initialize jwt service: ", err)
	}

	var GoogleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	var fileStorage storage.FileStorage
	var uploadsDir string
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
		uploadsDir = cfg.Storage.BasePath
	case "cloudinary":
		fileStorage, err = storage.NewCloudinaryStorage(
			cfg.Storage.CloudinaryCloudName,
			cfg.Storage.CloudinaryAPIKey,
			cfg.Storage.CloudinaryAPISecret,
			cfg.Storage.CloudinaryFolder,
		)
		if err != nil {
			log.Fatal("Failed to initialize cloudinary storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	hub := sse.NewHub()
	var broker events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		broker = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	publisher := events.Multi{broker, hub}

	entitlements := cfg.Leave.Entitlements
	thresholds := dashboard.NewThresholds(
		cfg.Analytics.HighPerformerMinAvgHours,
		cfg.Analytics.HighPerformerMinAttendance,
		cfg.Analytics.AtRiskMaxAttendance,
		cfg.Analytics.AtRiskMaxAvgHours,
		cfg.Analytics.WorkingDaysPerMonth,
	)

	authService := serviceAuth.NewAuthService(
		userRepo,
		companyRepo,
		employeeRepo,
		JWTService,
		JWTRepository,
		transactor,
		emailService,
		GoogleService,
		cfg.App.FrontendURL,
	)
	companyService := serviceCompany.NewCompanyService(companyRepo, fileService)
	employeeSvc := employeeService.NewEmployeeService(
		employeeRepo,
		userRepo,
		companyRepo,
		transactor,
		fileService,
		emailService,
		publisher,
		cfg.App.FrontendURL,
		loc,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		publisher,
		attendance.NewPolicy(cfg.Attendance.StandardHours, cfg.Attendance.HalfDayHours),
		loc,
	)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, emailService, publisher, entitlements, loc)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, emailService, publisher)
	dashboardSvc := dashboardService.NewDashboardService(
		dashboardRepo,
		employeeRepo,
		attendanceRepo,
		leaveRepo,
		payrollRepo,
		thresholds,
		entitlements,
		loc,
	)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:      logger,
			CORSOrigins: cfg.App.CORSOrigins,
			UploadsDir:  uploadsDir,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL, cfg.App.Env == "production"),
			Company:    appHTTP.NewCompanyHandler(companyService),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
			Events:     appHTTP.NewEventHandler(hub, JWTService),
		},
	)

	var scheduler *cron.Scheduler
	if cfg.Cron.Enabled {
		scheduler = cron.NewScheduler(loc)
		if err := cron.NewAttendanceJobs(attendanceSvc, loc).RegisterJobs(scheduler, cfg.Cron.MarkAbsentSpec); err != nil {
			log.Fatal("Failed to register cron jobs: ", err)
		}
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	publisher.Close()
	emailService.Close()
	db.Close()

	slog.Info("Server stopped")
}
