package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Cron         CronConfig
	OAuth2Google OAuth2GoogleConfig
	Attendance   AttendanceConfig
	Analytics    AnalyticsConfig
	Leave        LeaveConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	Timezone    string
	CORSOrigins []string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	Type     string // local | cloudinary
	BasePath string
	BaseURL  string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// RedisConfig is optional. An empty Addr keeps token revocation in memory.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// KafkaConfig is optional. No brokers means events are discarded.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type CronConfig struct {
	Enabled        bool
	MarkAbsentSpec string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Enabled reports whether Google sign-in has been configured.
func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

// AttendanceConfig is the overtime and half-day policy applied on check-out.
type AttendanceConfig struct {
	StandardHours float64
	HalfDayHours  float64
}

// AnalyticsConfig holds the performance classification thresholds.
type AnalyticsConfig struct {
	HighPerformerMinAvgHours   float64 `yaml:"high_performer_min_avg_hours"`
	HighPerformerMinAttendance float64 `yaml:"high_performer_min_attendance_pct"`
	AtRiskMaxAttendance        float64 `yaml:"at_risk_max_attendance_pct"`
	AtRiskMaxAvgHours          float64 `yaml:"at_risk_max_avg_hours"`
	WorkingDaysPerMonth        int     `yaml:"working_days_per_month"`
}

// LeaveConfig maps leave type to yearly entitlement in days. Negative means unlimited.
type LeaveConfig struct {
	Entitlements map[string]int `yaml:"entitlements"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs_hrms"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", "http://localhost:3000"),
	}
	if _, err := time.LoadLocation(config.App.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@hrms.local"),
		FromName: getEnv("SMTP_FROM_NAME", "HRMS"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:                getEnv("STORAGE_TYPE", "local"),
		BasePath:            getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:             getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "hrms"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Username: getEnv("REDIS_USER", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Kafka configuration
	config.Kafka = KafkaConfig{
		Brokers: getEnvSlice("KAFKA_BROKERS", ""),
		Topic:   getEnv("KAFKA_TOPIC", "hrms.events"),
	}

	// Cron configuration
	config.Cron = CronConfig{
		Enabled:        getEnvBool("CRON_ENABLED", false),
		MarkAbsentSpec: getEnv("CRON_MARK_ABSENT_SPEC", "15 0 * * *"),
	}

	// OAuth2 Google configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES", "openid,email,profile"),
	}

	// Attendance policy
	standardHours, err := getEnvFloat("ATTENDANCE_STANDARD_HOURS", 8)
	if err != nil {
		return nil, err
	}
	halfDayHours, err := getEnvFloat("ATTENDANCE_HALF_DAY_HOURS", 4)
	if err != nil {
		return nil, err
	}
	config.Attendance = AttendanceConfig{
		StandardHours: standardHours,
		HalfDayHours:  halfDayHours,
	}

	config.Analytics = DefaultAnalytics()
	config.Leave = DefaultLeave()

	if path := getEnv("POLICY_FILE", ""); path != "" {
		if err := config.LoadPolicyFile(path); err != nil {
			return nil, err
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// DefaultAnalytics returns the stock performance thresholds.
func DefaultAnalytics() AnalyticsConfig {
	return AnalyticsConfig{
		HighPerformerMinAvgHours:   8.5,
		HighPerformerMinAttendance: 90,
		AtRiskMaxAttendance:        60,
		AtRiskMaxAvgHours:          6,
		WorkingDaysPerMonth:        22,
	}
}

// DefaultLeave returns the stock yearly entitlements.
func DefaultLeave() LeaveConfig {
	return LeaveConfig{
		Entitlements: map[string]int{
			"paid":      20,
			"sick":      12,
			"casual":    10,
			"unpaid":    -1,
			"maternity": 90,
			"paternity": 15,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if c.Storage.Type != "local" && c.Storage.Type != "cloudinary" {
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}
	if c.Attendance.HalfDayHours > c.Attendance.StandardHours {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must not exceed ATTENDANCE_STANDARD_HOURS")
	}
	if c.Analytics.WorkingDaysPerMonth <= 0 {
		return fmt.Errorf("working_days_per_month must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the timezone used to decide what "today" means.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
