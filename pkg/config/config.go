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

const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Gradebook  GradebookConfig
	Grading    GradingConfig
	Storage    StorageConfig
	Statistics StatisticsConfig
	Autosave   AutosaveConfig
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
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig secures the mutating API routes. Auth is off while Secret or APIKeyHash is empty.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	APIKeyHash string
}

// Enabled reports whether token auth is configured.
func (c JWTConfig) Enabled() bool {
	return c.Secret != "" && c.APIKeyHash != ""
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GradebookConfig holds roster level settings.
type GradebookConfig struct {
	Semester       string
	StudentIDStart int
	ContentSeed    int64
}

// GradingConfig carries the category weight overrides.
type GradingConfig struct {
	HomeworkWeight      float64
	TestsWeight         float64
	ParticipationWeight float64
	ProjectsWeight      float64
}

// StorageConfig selects where roster and feed documents are persisted.
type StorageConfig struct {
	Backend    string
	DataDir    string
	ExportsDir string
}

// StatisticsConfig governs the optional Redis cache for class statistics.
type StatisticsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// AutosaveConfig controls background saves after API mutations.
type AutosaveConfig struct {
	Enabled    bool
	MaxRetries int
	RetryDelay time.Duration
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

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		APIKeyHash: v.GetString("API_KEY_HASH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Gradebook = GradebookConfig{
		Semester:       v.GetString("SEMESTER"),
		StudentIDStart: v.GetInt("STUDENT_ID_START"),
		ContentSeed:    v.GetInt64("CONTENT_SEED"),
	}

	cfg.Grading = GradingConfig{
		HomeworkWeight:      v.GetFloat64("GRADE_WEIGHT_HOMEWORK"),
		TestsWeight:         v.GetFloat64("GRADE_WEIGHT_TESTS"),
		ParticipationWeight: v.GetFloat64("GRADE_WEIGHT_PARTICIPATION"),
		ProjectsWeight:      v.GetFloat64("GRADE_WEIGHT_PROJECTS"),
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND")))
	if backend != StorageBackendPostgres {
		backend = StorageBackendFile
	}
	cfg.Storage = StorageConfig{
		Backend:    backend,
		DataDir:    v.GetString("DATA_DIR"),
		ExportsDir: v.GetString("EXPORTS_DIR"),
	}

	cfg.Statistics = StatisticsConfig{
		CacheEnabled: v.GetBool("ENABLE_STATISTICS_CACHE"),
		CacheTTL:     parseDuration(v.GetString("STATISTICS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Autosave = AutosaveConfig{
		Enabled:    v.GetBool("AUTOSAVE_ENABLED"),
		MaxRetries: v.GetInt("AUTOSAVE_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("AUTOSAVE_RETRY_DELAY"), 2*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sma_gradebook")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("API_KEY_HASH", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("SEMESTER", "Fall 2024")
	v.SetDefault("STUDENT_ID_START", 10000)
	v.SetDefault("CONTENT_SEED", 0)

	v.SetDefault("GRADE_WEIGHT_HOMEWORK", 0.3)
	v.SetDefault("GRADE_WEIGHT_TESTS", 0.4)
	v.SetDefault("GRADE_WEIGHT_PARTICIPATION", 0.2)
	v.SetDefault("GRADE_WEIGHT_PROJECTS", 0.1)

	v.SetDefault("STORAGE_BACKEND", StorageBackendFile)
	v.SetDefault("DATA_DIR", "/tmp")
	v.SetDefault("EXPORTS_DIR", "./exports")

	v.SetDefault("ENABLE_STATISTICS_CACHE", false)
	v.SetDefault("STATISTICS_CACHE_TTL", "5m")

	v.SetDefault("AUTOSAVE_ENABLED", false)
	v.SetDefault("AUTOSAVE_MAX_RETRIES", 3)
	v.SetDefault("AUTOSAVE_RETRY_DELAY", "2s")
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
