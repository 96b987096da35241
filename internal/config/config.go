package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database  DatabaseConfig
	App       AppConfig
	Shift     ShiftConfig
	Statutory StatutoryConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	AutoMigrate bool
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// ShiftConfig is the attendance policy used by check-in and check-out.
type ShiftConfig struct {
	Start         string // HH:MM
	GraceMinutes  int
	StandardHours decimal.Decimal
	HalfDayHours  decimal.Decimal
}

// PTSlab is one row of the professional tax table. A nil UpTo matches any gross.
type PTSlab struct {
	UpTo   *decimal.Decimal
	Amount decimal.Decimal
}

// StatutoryConfig holds the payroll deduction rates and thresholds.
type StatutoryConfig struct {
	EPFEmployeeRate    decimal.Decimal
	EPFEmployerRate    decimal.Decimal
	EPFWageCeiling     decimal.Decimal
	ESIEmployeeRate    decimal.Decimal
	ESIEmployerRate    decimal.Decimal
	ESIWageLimit       decimal.Decimal
	PTSlabs            []PTSlab
	MediclaimAmount    decimal.Decimal
	MediclaimThreshold decimal.Decimal
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
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
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "hris_payroll"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		MaxConns:    int32(maxConns),
		MinConns:    int32(minConns),
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// Shift policy
	graceMinutes, err := strconv.Atoi(getEnv("SHIFT_GRACE_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIFT_GRACE_MINUTES: %w", err)
	}
	standardHours, err := getEnvDecimal("SHIFT_STANDARD_HOURS", "8")
	if err != nil {
		return nil, err
	}
	halfDayHours, err := getEnvDecimal("SHIFT_HALF_DAY_HOURS", "4")
	if err != nil {
		return nil, err
	}

	config.Shift = ShiftConfig{
		Start:         getEnv("SHIFT_START", "09:30"),
		GraceMinutes:  graceMinutes,
		StandardHours: standardHours,
		HalfDayHours:  halfDayHours,
	}

	// Statutory rates
	statutory, err := loadStatutory()
	if err != nil {
		return nil, err
	}
	config.Statutory = statutory

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadStatutory() (StatutoryConfig, error) {
	var (
		s   StatutoryConfig
		err error
	)

	decimals := []struct {
		key      string
		fallback string
		dst      *decimal.Decimal
	}{
		{"EPF_EMPLOYEE_RATE", "0.12", &s.EPFEmployeeRate},
		{"EPF_EMPLOYER_RATE", "0.12", &s.EPFEmployerRate},
		{"EPF_WAGE_CEILING", "15000", &s.EPFWageCeiling},
		{"ESI_EMPLOYEE_RATE", "0.0075", &s.ESIEmployeeRate},
		{"ESI_EMPLOYER_RATE", "0.0325", &s.ESIEmployerRate},
		{"ESI_WAGE_LIMIT", "21000", &s.ESIWageLimit},
		{"MEDICLAIM_AMOUNT", "0", &s.MediclaimAmount},
		{"MEDICLAIM_THRESHOLD", "0", &s.MediclaimThreshold},
	}
	for _, d := range decimals {
		if *d.dst, err = getEnvDecimal(d.key, d.fallback); err != nil {
			return StatutoryConfig{}, err
		}
	}

	s.PTSlabs, err = ParsePTSlabs(getEnv("PT_SLABS", "7500:0,10000:175,*:200"))
	if err != nil {
		return StatutoryConfig{}, fmt.Errorf("invalid PT_SLABS: %w", err)
	}

	return s, nil
}

// ParsePTSlabs parses "upTo:amount" pairs separated by commas. "*" as upTo
// marks the open-ended top slab. Slabs must be listed in ascending order.
func ParsePTSlabs(raw string) ([]PTSlab, error) {
	var slabs []PTSlab
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bound, amount, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("slab %q must be upTo:amount", part)
		}

		amt, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("slab %q has invalid amount: %w", part, err)
		}

		slab := PTSlab{Amount: amt}
		if b := strings.TrimSpace(bound); b != "*" {
			upTo, err := decimal.NewFromString(b)
			if err != nil {
				return nil, fmt.Errorf("slab %q has invalid bound: %w", part, err)
			}
			if n := len(slabs); n > 0 && (slabs[n-1].UpTo == nil || !upTo.GreaterThan(*slabs[n-1].UpTo)) {
				return nil, fmt.Errorf("slab %q is out of order", part)
			}
			slab.UpTo = &upTo
		} else if n := len(slabs); n > 0 && slabs[n-1].UpTo == nil {
			return nil, errors.New("only one open-ended slab is allowed")
		}
		slabs = append(slabs, slab)
	}
	return slabs, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	if _, err := time.Parse("15:04", c.Shift.Start); err != nil {
		return fmt.Errorf("SHIFT_START must be HH:MM: %w", err)
	}
	if c.Shift.GraceMinutes < 0 {
		return fmt.Errorf("SHIFT_GRACE_MINUTES must not be negative")
	}
	if !c.Shift.HalfDayHours.LessThan(c.Shift.StandardHours) {
		return fmt.Errorf("SHIFT_HALF_DAY_HOURS must be less than SHIFT_STANDARD_HOURS")
	}
	if len(c.Statutory.PTSlabs) == 0 {
		return fmt.Errorf("PT_SLABS is required")
	}
	return nil
}

// Location returns the configured business timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
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
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
