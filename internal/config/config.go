package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the server.
type Config struct {
	Port            string        `yaml:"port"`
	LogLevel        string        `yaml:"log_level"`
	CORSOrigin      string        `yaml:"cors_origin"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Database DatabaseConfig `yaml:"database"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Firebase FirebaseConfig `yaml:"firebase"`
	Gemini   GeminiConfig   `yaml:"gemini"`
}

// DatabaseConfig describes the Postgres connection. URL wins over the parts.
type DatabaseConfig struct {
	URL         string `yaml:"url"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Name        string `yaml:"name"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	SSLMode     string `yaml:"sslmode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type YouTubeConfig struct {
	APIKey          string        `yaml:"api_key"`
	RegionCode      string        `yaml:"region_code"`
	MaxResultsLimit int64         `yaml:"max_results_limit"`
	Timeout         time.Duration `yaml:"timeout"`
}

// FirebaseConfig selects how the Admin SDK finds its credentials: a file, the
// individual service-account fields, or application default credentials.
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	PrivateKeyID    string `yaml:"private_key_id"`
	PrivateKey      string `yaml:"private_key"`
	ClientEmail     string `yaml:"client_email"`
	ClientID        string `yaml:"client_id"`
	AuthURI         string `yaml:"auth_uri"`
	TokenURI        string `yaml:"token_uri"`
	CertURL         string `yaml:"client_x509_cert_url"`
	CheckRevoked    bool   `yaml:"check_revoked"`
}

// GeminiConfig uses the Gemini API when APIKey is set, Vertex AI otherwise.
type GeminiConfig struct {
	APIKey   string        `yaml:"api_key"`
	Project  string        `yaml:"project"`
	Location string        `yaml:"location"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Port:            "8080",
		LogLevel:        "info",
		CORSOrigin:      "http://localhost:3000",
		ShutdownTimeout: 10 * time.Second,
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "youtube_app",
			User:     "postgres",
			Password: "postgres",
			SSLMode:  "disable",
		},
		YouTube: YouTubeConfig{
			RegionCode:      "JP",
			MaxResultsLimit: 50,
			Timeout:         30 * time.Second,
		},
		Firebase: FirebaseConfig{
			AuthURI:  "https://accounts.google.com/o/oauth2/auth",
			TokenURI: "https://oauth2.googleapis.com/token",
		},
		Gemini: GeminiConfig{
			Location: "us-central1",
			Model:    "gemini-2.5-flash",
			Timeout:  120 * time.Second,
		},
	}
}

// Load builds the configuration with the following priority:
// Environment variables > Config file (optional) > Defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.CORSOrigin, "CORS_ORIGIN")

	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")

	setString(&cfg.YouTube.APIKey, "YOUTUBE_API_KEY")
	setString(&cfg.YouTube.RegionCode, "YOUTUBE_REGION_CODE")

	setString(&cfg.Firebase.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&cfg.Firebase.CredentialsFile, "FIREBASE_CREDENTIALS_FILE")
	setString(&cfg.Firebase.PrivateKeyID, "FIREBASE_PRIVATE_KEY_ID")
	setString(&cfg.Firebase.PrivateKey, "FIREBASE_PRIVATE_KEY")
	setString(&cfg.Firebase.ClientEmail, "FIREBASE_CLIENT_EMAIL")
	setString(&cfg.Firebase.ClientID, "FIREBASE_CLIENT_ID")
	setString(&cfg.Firebase.AuthURI, "FIREBASE_AUTH_URI")
	setString(&cfg.Firebase.TokenURI, "FIREBASE_TOKEN_URI")
	setString(&cfg.Firebase.CertURL, "FIREBASE_CLIENT_CERT_URL")

	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Project, "GOOGLE_CLOUD_PROJECT")
	setString(&cfg.Gemini.Location, "GOOGLE_CLOUD_LOCATION")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL_ID")

	var err error
	if cfg.Database.Port, err = envInt("DB_PORT", cfg.Database.Port); err != nil {
		return err
	}
	if cfg.Database.AutoMigrate, err = envBool("AUTO_MIGRATE", cfg.Database.AutoMigrate); err != nil {
		return err
	}
	if cfg.Firebase.CheckRevoked, err = envBool("AUTH_CHECK_REVOKED", cfg.Firebase.CheckRevoked); err != nil {
		return err
	}
	limit, err := envInt("SEARCH_MAX_RESULTS_LIMIT", int(cfg.YouTube.MaxResultsLimit))
	if err != nil {
		return err
	}
	cfg.YouTube.MaxResultsLimit = int64(limit)
	if cfg.YouTube.Timeout, err = envDuration("UPSTREAM_TIMEOUT", cfg.YouTube.Timeout); err != nil {
		return err
	}
	if cfg.Gemini.Timeout, err = envDuration("GENERATION_TIMEOUT", cfg.Gemini.Timeout); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// DatabaseURL returns Database.URL, or a postgres URL composed from the parts.
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Host:   net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:   "/" + c.Database.Name,
	}
	if c.Database.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.Database.SSLMode)
	}
	return u.String()
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	var missing []string
	if c.YouTube.APIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if c.DatabaseURL() == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Gemini.APIKey == "" && c.Gemini.Project == "" {
		missing = append(missing, "GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.YouTube.MaxResultsLimit < 1 || c.YouTube.MaxResultsLimit > 50 {
		return fmt.Errorf("SEARCH_MAX_RESULTS_LIMIT must be between 1 and 50, got %d", c.YouTube.MaxResultsLimit)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
