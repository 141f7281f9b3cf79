package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration. Tokens are issued by an external
// identity service; this backend only verifies them.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// TimeOfDay is a minute-resolution wall clock time ("HH:MM").
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Minutes returns the offset from midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// On anchors the time of day to a calendar date in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, d.Location())
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// StrictSchedule is the schedule attached to a strict undertime group.
// Departments in a strict group are docked by minutes late past the grace
// period, and forced to half-day once time-in passes the half-day threshold.
type StrictSchedule struct {
	TimeIn           TimeOfDay
	GraceMinutes     int
	HalfDayThreshold TimeOfDay
	Departments      []string
}

// PayrollConfig carries every rate parameter the computation engine needs.
// It is injected into the calculators explicitly; nothing in the engine
// reads configuration ambiently.
type PayrollConfig struct {
	StandardHoursPerDay     float64
	WorkingDaysPerMonth     int
	WorkingDaysPerSemiMonth int
	StandardTimeIn          TimeOfDay
	GracePeriodMinutes      int
	NightShiftStart         TimeOfDay
	NightShiftEnd           TimeOfDay
	RestDay                 time.Weekday
	StrictGroups            map[string]StrictSchedule
	MealProrationFloorDays  int
	WeeklyAllowanceFactor   float64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "construction-payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	payrollCfg, err := loadPayrollConfig()
	if err != nil {
		return nil, err
	}
	config.Payroll = payrollCfg

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadPayrollConfig() (PayrollConfig, error) {
	standardHours, err := strconv.ParseFloat(getEnv("STANDARD_HOURS_PER_DAY", "8"), 64)
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid STANDARD_HOURS_PER_DAY: %w", err)
	}
	workingDaysMonth, err := strconv.Atoi(getEnv("WORKING_DAYS_PER_MONTH", "26"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid WORKING_DAYS_PER_MONTH: %w", err)
	}
	workingDaysSemiMonth, err := strconv.Atoi(getEnv("WORKING_DAYS_PER_SEMI_MONTH", "13"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid WORKING_DAYS_PER_SEMI_MONTH: %w", err)
	}
	grace, err := strconv.Atoi(getEnv("GRACE_PERIOD_MINUTES", "15"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid GRACE_PERIOD_MINUTES: %w", err)
	}
	restDay, err := strconv.Atoi(getEnv("REST_DAY", "0"))
	if err != nil || restDay < 0 || restDay > 6 {
		return PayrollConfig{}, fmt.Errorf("REST_DAY must be 0-6")
	}

	standardIn, err := ParseTimeOfDay(getEnv("STANDARD_TIME_IN", "08:00"))
	if err != nil {
		return PayrollConfig{}, err
	}
	nightStart, err := ParseTimeOfDay(getEnv("NIGHT_SHIFT_START", "22:00"))
	if err != nil {
		return PayrollConfig{}, err
	}
	nightEnd, err := ParseTimeOfDay(getEnv("NIGHT_SHIFT_END", "06:00"))
	if err != nil {
		return PayrollConfig{}, err
	}

	// The two strict undertime buckets. Which departments belong to each is
	// deployment configuration; the schedules themselves are fixed.
	groups := map[string]StrictSchedule{
		"8am": {
			TimeIn:           TimeOfDay{Hour: 8},
			GraceMinutes:     grace,
			HalfDayThreshold: TimeOfDay{Hour: 10},
			Departments:      getEnvSlice("UNDERTIME_GROUP_8AM_DEPARTMENTS"),
		},
		"730am": {
			TimeIn:           TimeOfDay{Hour: 7, Minute: 30},
			GraceMinutes:     grace,
			HalfDayThreshold: TimeOfDay{Hour: 9, Minute: 30},
			Departments:      getEnvSlice("UNDERTIME_GROUP_730AM_DEPARTMENTS"),
		},
	}

	return PayrollConfig{
		StandardHoursPerDay:     standardHours,
		WorkingDaysPerMonth:     workingDaysMonth,
		WorkingDaysPerSemiMonth: workingDaysSemiMonth,
		StandardTimeIn:          standardIn,
		GracePeriodMinutes:      grace,
		NightShiftStart:         nightStart,
		NightShiftEnd:           nightEnd,
		RestDay:                 time.Weekday(restDay),
		StrictGroups:            groups,
		MealProrationFloorDays:  16,
		WeeklyAllowanceFactor:   2.17,
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Database.MaxConns <= 0 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.Payroll.StandardHoursPerDay <= 0 {
		return fmt.Errorf("STANDARD_HOURS_PER_DAY must be positive")
	}
	if c.Payroll.WorkingDaysPerMonth <= 0 {
		return fmt.Errorf("WORKING_DAYS_PER_MONTH must be positive")
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

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
