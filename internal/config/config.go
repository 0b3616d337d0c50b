package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. VOXCREDIT_RAZORPAY_WEBHOOK_SECRET.
const EnvPrefix = "VOXCREDIT"

type Config struct {
	Port     string         `mapstructure:"port"`
	DB       DBConfig       `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Razorpay RazorpayConfig `mapstructure:"razorpay"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Credits  CreditsConfig  `mapstructure:"credits"`
	Mail     MailConfig     `mapstructure:"mail"`
	App      AppConfig      `mapstructure:"app"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	ResetTTL   time.Duration `mapstructure:"reset_ttl"`
}

type RazorpayConfig struct {
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type AudioConfig struct {
	Dir           string `mapstructure:"dir"`
	MaxTextLength int    `mapstructure:"max_text_length"`
	Cost          int    `mapstructure:"cost"`
	HistoryLimit  int    `mapstructure:"history_limit"`
}

type CreditsConfig struct {
	SignupBonus int `mapstructure:"signup_bonus"`
}

type MailConfig struct {
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromAddress    string `mapstructure:"from_address"`
	FromName       string `mapstructure:"from_name"`
}

type AppConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.reset_ttl", time.Hour)
	v.SetDefault("razorpay.key_id", "")
	v.SetDefault("razorpay.key_secret", "")
	v.SetDefault("razorpay.webhook_secret", "")
	v.SetDefault("audio.dir", "static/audio")
	v.SetDefault("audio.max_text_length", 5000)
	v.SetDefault("audio.cost", 10)
	v.SetDefault("audio.history_limit", 10)
	v.SetDefault("credits.signup_bonus", 100)
	v.SetDefault("mail.sendgrid_api_key", "")
	v.SetDefault("mail.from_address", "no-reply@localhost")
	v.SetDefault("mail.from_name", "VoxCredit")
	v.SetDefault("app.base_url", "http://localhost:8080")
}

// Load reads an optional .env file, then configs/config.yml (or path when
// set), then VOXCREDIT_* environment overrides, on top of built-in defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate reports settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.Auth.SigningKey == "" {
		missing = append(missing, "auth.signing_key")
	}
	if c.Razorpay.KeyID == "" {
		missing = append(missing, "razorpay.key_id")
	}
	if c.Razorpay.KeySecret == "" {
		missing = append(missing, "razorpay.key_secret")
	}
	if c.Razorpay.WebhookSecret == "" {
		missing = append(missing, "razorpay.webhook_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if c.Audio.Cost <= 0 {
		return fmt.Errorf("audio.cost must be positive, got %d", c.Audio.Cost)
	}
	if c.Audio.MaxTextLength <= 0 {
		return fmt.Errorf("audio.max_text_length must be positive, got %d", c.Audio.MaxTextLength)
	}
	if c.Credits.SignupBonus < 0 {
		return fmt.Errorf("credits.signup_bonus must not be negative, got %d", c.Credits.SignupBonus)
	}
	return nil
}
