package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Roster sources understood by the roster service.
const (
	RosterSourceStatic   = "static"
	RosterSourceFile     = "file"
	RosterSourceDatabase = "database"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Roster    RosterConfig
	Export    ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the placement engine budget.
type SchedulerConfig struct {
	TrialBudget       int
	PreferenceTrials  int
	MaxDailySessions  int
	MaxBatchDivisions int
	GenerationTimeout time.Duration
}

// RosterConfig selects where the teacher/course roster comes from.
type RosterConfig struct {
	Source       string
	File         string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ExportConfig controls document rendering.
type ExportConfig struct {
	Timezone string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		TrialBudget:       v.GetInt("SCHEDULER_TRIAL_BUDGET"),
		PreferenceTrials:  v.GetInt("SCHEDULER_PREFERENCE_TRIALS"),
		MaxDailySessions:  v.GetInt("SCHEDULER_MAX_DAILY_SESSIONS"),
		MaxBatchDivisions: v.GetInt("SCHEDULER_MAX_BATCH_DIVISIONS"),
		GenerationTimeout: parseDuration(v.GetString("SCHEDULER_GENERATION_TIMEOUT"), 10*time.Second),
	}

	cfg.Roster = RosterConfig{
		Source:       strings.ToLower(v.GetString("ROSTER_SOURCE")),
		File:         v.GetString("ROSTER_FILE"),
		CacheEnabled: v.GetBool("ROSTER_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("ROSTER_CACHE_TTL"), 10*time.Minute),
	}
	switch cfg.Roster.Source {
	case RosterSourceStatic, RosterSourceFile, RosterSourceDatabase:
	default:
		return nil, errors.New("ROSTER_SOURCE must be one of static, file, database")
	}
	if cfg.Roster.Source == RosterSourceFile && cfg.Roster.File == "" {
		return nil, errors.New("ROSTER_FILE is required when ROSTER_SOURCE=file")
	}

	cfg.Export = ExportConfig{
		Timezone: v.GetString("EXPORT_TIMEZONE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_TRIAL_BUDGET", 50)
	v.SetDefault("SCHEDULER_PREFERENCE_TRIALS", 30)
	v.SetDefault("SCHEDULER_MAX_DAILY_SESSIONS", 2)
	v.SetDefault("SCHEDULER_MAX_BATCH_DIVISIONS", 3)
	v.SetDefault("SCHEDULER_GENERATION_TIMEOUT", "10s")

	v.SetDefault("ROSTER_SOURCE", RosterSourceStatic)
	v.SetDefault("ROSTER_FILE", "")
	v.SetDefault("ROSTER_CACHE_ENABLED", false)
	v.SetDefault("ROSTER_CACHE_TTL", "10m")

	v.SetDefault("EXPORT_TIMEZONE", "Local")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
