package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Store      StoreConfig       `mapstructure:"store"`
	Qdrant     QdrantConfig      `mapstructure:"qdrant"`
	Postgres   PostgresConfig    `mapstructure:"postgres"`
	LLM        LLMConfig         `mapstructure:"llm"`
	Embeddings []EmbeddingConfig `mapstructure:"embeddings"`
	Ingest     IngestConfig      `mapstructure:"ingest"`
	Search     SearchConfig      `mapstructure:"search"`
	Dataset    DatasetConfig     `mapstructure:"dataset"`
	Genres     GenresConfig      `mapstructure:"genres"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// StoreConfig selects the vector store backend: "qdrant" or "pgvector".
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type QdrantConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
	UseTLS bool   `mapstructure:"use_tls"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN returns the connection string for the pgvector backend.
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// LLMConfig addresses the external inference server that serves both
// metadata extraction and reasoning generation.
type LLMConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type IngestConfig struct {
	Workers       int           `mapstructure:"workers"`
	RetryCount    int           `mapstructure:"retry_count"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	SkipThreshold int64         `mapstructure:"skip_threshold"`
}

type SearchConfig struct {
	ScoreThreshold  float32 `mapstructure:"score_threshold"`
	DefaultStrategy string  `mapstructure:"default_strategy"`
	DefaultModel    string  `mapstructure:"default_model"`
}

// DatasetConfig describes where the movie dataset lives: a local CSV file or
// an object in S3-compatible storage.
type DatasetConfig struct {
	Type      string `mapstructure:"type"` // "local" or "s3"
	Path      string `mapstructure:"path"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Key       string `mapstructure:"key"`
}

// GenresConfig points at the known-genre vocabulary file. An empty path
// falls back to the built-in vocabulary.
type GenresConfig struct {
	Path string `mapstructure:"path"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("store.backend", "pgvector")
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "admin")
	v.SetDefault("postgres.database", "movies")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("llm.base_url", "http://localhost:8000")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("ingest.workers", 3)
	v.SetDefault("ingest.retry_count", 10)
	v.SetDefault("ingest.retry_delay", 200*time.Millisecond)
	v.SetDefault("ingest.skip_threshold", 10)
	v.SetDefault("search.score_threshold", 0.0)
	v.SetDefault("search.default_strategy", "fixed-size-splitter")
	v.SetDefault("search.default_model", "all-MiniLM-L6-v2")
	v.SetDefault("dataset.type", "local")
	v.SetDefault("dataset.path", "./data/movies.csv")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("qdrant.host", "QDRANT_HOST")
	v.BindEnv("qdrant.port", "QDRANT_PORT")
	v.BindEnv("qdrant.api_key", "QDRANT_API_KEY")
	v.BindEnv("postgres.host", "POSTGRES_HOST")
	v.BindEnv("postgres.user", "POSTGRES_USER")
	v.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	v.BindEnv("postgres.database", "POSTGRES_DB")
	v.BindEnv("llm.base_url", "LLM_API")
	v.BindEnv("dataset.access_key", "DATASET_ACCESS_KEY")
	v.BindEnv("dataset.secret_key", "DATASET_SECRET_KEY")
	v.BindEnv("store.backend", "STORE_BACKEND")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Embeddings) == 0 {
		cfg.Embeddings = DefaultEmbeddings()
	}

	return &cfg, nil
}
