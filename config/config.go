package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// IsConfigured returns true if all required Google OAuth configuration is present
func (c GoogleConfig) IsConfigured() bool {
	return c.ClientID != "" &&
		c.ClientSecret != "" &&
		c.RedirectURI != ""
}

// Validate checks that the configured redirect URI is a well-formed absolute URL
func (c GoogleConfig) Validate() error {
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid Google redirect URI: %w", err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("google redirect URI %q is missing a scheme", c.RedirectURI)
	}
	return nil
}

type SlackConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.ClientID != "" &&
		c.ClientSecret != "" &&
		c.RedirectURI != ""
}

type DiscordConfig struct {
	BotToken     string
	OpsChannelID string
}

// IsConfigured returns true if the Discord notification channel can be used
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != "" && c.OpsChannelID != ""
}

type JWTConfig struct {
	SecretKey     string
	Algorithm     string
	TokenDuration time.Duration
}

type WebhookAuthConfig struct {
	Username string
	Password string
}

// IsConfigured returns true if the inbound webhook basic auth credentials are set
func (c WebhookAuthConfig) IsConfigured() bool {
	return c.Username != "" && c.Password != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	FrontendBaseURL    string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string

	// Scheduler
	SweepInterval time.Duration

	// Optional outbound alert webhook
	AlertWebhookURL string

	// Integration configurations (grouped)
	GoogleConfig      GoogleConfig
	SlackConfig       SlackConfig
	DiscordConfig     DiscordConfig
	JWTConfig         JWTConfig
	WebhookAuthConfig WebhookAuthConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	databaseSchema := os.Getenv("DATABASE_SCHEMA")
	if databaseSchema == "" {
		databaseSchema = "public"
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	jwtAlgorithm := os.Getenv("JWT_ALGORITHM")
	if jwtAlgorithm == "" {
		jwtAlgorithm = "HS256"
	}

	expireMinutes := 30
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer, got %q", v)
		}
		expireMinutes = parsed
	}

	frontendBaseURL := os.Getenv("FRONTEND_BASE_URL")
	if frontendBaseURL == "" {
		frontendBaseURL = "http://localhost:3000"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "*"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	sweepInterval := time.Hour
	if v := os.Getenv("REMINDER_SWEEP_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("REMINDER_SWEEP_INTERVAL must be a positive duration, got %q", v)
		}
		sweepInterval = parsed
	}

	cfg := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		FrontendBaseURL:    frontendBaseURL,
		Port:               port,
		CORSAllowedOrigins: corsOrigins,
		Environment:        environment,
		SweepInterval:      sweepInterval,
		AlertWebhookURL:    os.Getenv("ALERT_WEBHOOK_URL"),
		GoogleConfig: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		},
		SlackConfig: SlackConfig{
			ClientID:     os.Getenv("SLACK_CLIENT_ID"),
			ClientSecret: os.Getenv("SLACK_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("SLACK_REDIRECT_URI"),
		},
		DiscordConfig: DiscordConfig{
			BotToken:     os.Getenv("DISCORD_BOT_TOKEN"),
			OpsChannelID: os.Getenv("DISCORD_OPS_CHANNEL_ID"),
		},
		JWTConfig: JWTConfig{
			SecretKey:     jwtSecret,
			Algorithm:     jwtAlgorithm,
			TokenDuration: time.Duration(expireMinutes) * time.Minute,
		},
		WebhookAuthConfig: WebhookAuthConfig{
			Username: os.Getenv("WEBHOOK_USERNAME"),
			Password: os.Getenv("WEBHOOK_PASSWORD"),
		},
	}

	if !cfg.GoogleConfig.IsConfigured() {
		fmt.Println("⚠️ Google OAuth is not fully configured - login endpoints will report a configuration error")
	}
	if !cfg.SlackConfig.IsConfigured() {
		fmt.Println("⚠️ Slack OAuth is not fully configured - Slack linking is disabled")
	}

	return cfg, nil
}
