package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds optional PostgreSQL connection settings. The archive
// is enabled only when a host is configured; otherwise assessments are
// recorded to the local filesystem.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether the PostgreSQL archive should be used.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// KafkaConfig holds event publication settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether events should be published to Kafka.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 && c.Brokers[0] != "" }

// ModelConfig locates the trained model artifacts. Missing or corrupt
// artifacts are not fatal; the service runs in heuristic mode.
type ModelConfig struct {
	Dir                string
	CategoryClassifier string
	DefaultEstimator   string
}

// ClassifierPath returns the full path to the category classifier artifact.
func (c ModelConfig) ClassifierPath() string {
	return c.Dir + "/" + c.CategoryClassifier
}

// EstimatorPath returns the full path to the default estimator artifact.
func (c ModelConfig) EstimatorPath() string {
	return c.Dir + "/" + c.DefaultEstimator
}

// Config is the full service configuration, loaded from the environment.
type Config struct {
	GRPCPort      int
	HTTPPort      int
	AssessmentDir string
	JWTSecret     string
	LogLevel      string
	LogFormat     string
	Models        ModelConfig
	DB            DatabaseConfig
	Kafka         KafkaConfig
	ServiceName   string
}

// Load reads configuration from environment variables with development
// defaults.
func Load() Config {
	return Config{
		GRPCPort:      getEnvInt("GRPC_PORT", 9095),
		HTTPPort:      getEnvInt("HTTP_PORT", 8095),
		AssessmentDir: getEnv("ASSESSMENT_DIR", "assessments"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		Models: ModelConfig{
			Dir:                getEnv("MODEL_DIR", "models"),
			CategoryClassifier: getEnv("MODEL_CLASSIFIER_FILE", "credit_score_model_ensemble.json"),
			DefaultEstimator:   getEnv("MODEL_ESTIMATOR_FILE", "default_probability_model.json"),
		},
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "lendingverse"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "lendingverse_scoring"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "scoring.events"),
		},
		ServiceName: "credit-scoring-service",
	}
}

// GRPCAddr returns the gRPC listen address.
func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddr returns the HTTP listen address.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
