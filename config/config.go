package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when no Google API credential is configured.
var ErrMissingAPIKey = errors.New("Google API Key is missing. Set it in a .env file or as an environment variable")

// ErrInvalidAllowOrigin is returned by Validate when server.allowOrigin is not an http(s) origin.
var ErrInvalidAllowOrigin = errors.New("server.allowOrigin must be an origin such as https://example.com")

type Config struct {
	App struct {
		Name string
		Port string
		Mode string
	}
	Server struct {
		AllowOrigin string
		RateLimit   float64
		RateBurst   int
	}
	RAG struct {
		APIKey          string
		APIBaseURL      string
		ChatModel       string
		EmbeddingModel  string
		CorpusDir       string
		ChunkSize       int
		ChunkOverlap    int
		TopK            int
		EmbedBatchSize  int
		WorkingLanguage string
		TimeoutSeconds  int
	}
	Translate struct {
		APIKey   string
		Endpoint string
	}
	Database struct {
		Dsn          string
		MaxIdleConns int
		MaxOpenConns int
	}
	Redis struct {
		Addr       string
		DB         int
		Password   string
		TTLSeconds int
	}
	RabbitMQ struct {
		Url   string
		Queue string
	}
	Auth struct {
		JWTSecret  string
		Issuer     string
		TTLMinutes int
	}
	UI struct {
		APIURL string
		Port   string
	}
	Log struct {
		Level string
	}
}

// Load reads config.yml (from ./config, or the explicit path when given),
// applies defaults and then environment overrides. A missing config file in
// the default location is not an error.
func Load(path string) (*Config, error) {
	// .env is optional, like the deployment it came from.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	applyEnv(cfg)
	applyFallbacks(cfg)
	return cfg, nil
}

// Validate checks the settings the question-answering pipeline cannot start without.
func (c *Config) Validate() error {
	if c.RAG.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.RAG.CorpusDir == "" {
		return errors.New("rag.corpusDir must not be empty")
	}
	if err := validateOrigin(c.Server.AllowOrigin); err != nil {
		return err
	}
	return nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: got %q", ErrInvalidAllowOrigin, origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%w: got %q", ErrInvalidAllowOrigin, origin)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "agrigpt")
	v.SetDefault("app.port", ":8000")
	v.SetDefault("app.mode", "release")

	v.SetDefault("server.allowOrigin", "https://agrigpt.netlify.app")
	v.SetDefault("server.rateLimit", 0)
	v.SetDefault("server.rateBurst", 10)

	v.SetDefault("rag.apiBaseURL", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("rag.chatModel", "gemini-2.5-flash")
	v.SetDefault("rag.embeddingModel", "text-embedding-004")
	v.SetDefault("rag.corpusDir", "data")
	v.SetDefault("rag.chunkSize", 500)
	v.SetDefault("rag.chunkOverlap", 50)
	v.SetDefault("rag.topK", 3)
	v.SetDefault("rag.embedBatchSize", 100)
	v.SetDefault("rag.workingLanguage", "en")
	v.SetDefault("rag.timeoutSeconds", 120)

	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.maxOpenConns", 100)

	v.SetDefault("redis.ttlSeconds", 24*60*60)

	v.SetDefault("rabbitmq.queue", "agrigpt.ask")

	v.SetDefault("auth.issuer", "agrigpt")
	v.SetDefault("auth.ttlMinutes", 60)

	v.SetDefault("ui.apiURL", "http://localhost:8000/ask")
	v.SetDefault("ui.port", ":8501")

	v.SetDefault("log.level", "INFO")
}

func applyEnv(cfg *Config) {
	cfg.RAG.APIKey = getEnvOrDefault("GOOGLE_API_KEY", cfg.RAG.APIKey)
	cfg.RAG.CorpusDir = getEnvOrDefault("CORPUS_DIR", cfg.RAG.CorpusDir)
	cfg.RAG.ChatModel = getEnvOrDefault("CHAT_MODEL", cfg.RAG.ChatModel)
	cfg.RAG.EmbeddingModel = getEnvOrDefault("EMBEDDING_MODEL", cfg.RAG.EmbeddingModel)
	cfg.RAG.APIBaseURL = getEnvOrDefault("AI_API_BASE_URL", cfg.RAG.APIBaseURL)
	cfg.Translate.APIKey = getEnvOrDefault("TRANSLATE_API_KEY", cfg.Translate.APIKey)
	cfg.Server.AllowOrigin = getEnvOrDefault("ALLOW_ORIGIN", cfg.Server.AllowOrigin)
	cfg.Database.Dsn = getEnvOrDefault("DATABASE_DSN", cfg.Database.Dsn)
	cfg.Redis.Addr = getEnvOrDefault("REDIS_ADDR", cfg.Redis.Addr)
	cfg.RabbitMQ.Url = getEnvOrDefault("RABBITMQ_URL", cfg.RabbitMQ.Url)
	cfg.Auth.JWTSecret = getEnvOrDefault("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.UI.APIURL = getEnvOrDefault("API_URL", cfg.UI.APIURL)
	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)

	// Hosting platforms hand out a bare port number.
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			port = ":" + port
		}
		cfg.App.Port = port
	}
}

func applyFallbacks(cfg *Config) {
	if cfg.Translate.APIKey == "" {
		cfg.Translate.APIKey = cfg.RAG.APIKey
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = 3
	}
	if cfg.RAG.ChunkSize <= 0 {
		cfg.RAG.ChunkSize = 500
	}
	if cfg.RAG.ChunkOverlap < 0 {
		cfg.RAG.ChunkOverlap = 0
	}
	if cfg.RAG.EmbedBatchSize < 0 {
		cfg.RAG.EmbedBatchSize = 0
	}
	if cfg.RAG.WorkingLanguage == "" {
		cfg.RAG.WorkingLanguage = "en"
	}
}

// getEnvOrDefault returns the environment variable, or defaultValue when it is unset or empty.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
