package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
	Redis  Redis  `yaml:"redis"`
	OpenAI OpenAI `yaml:"openai"`
	Bot    Bot    `yaml:"bot"`
}

type OpenAI struct {
	// Primary is the default sales model (reasoning-capable)
	Primary ModelConfig `yaml:"primary" validate:"required"`
	// Fast is the cheaper model used when an FAQ trigger matches
	Fast ModelConfig `yaml:"fast"`
}

type ModelConfig struct {
	// OpenAI base url, empty means the official endpoint
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"gpt-5-mini" validate:"required"`
}

type Server struct {
	// Port to listen on, Cloud Run style deployments override via PORT
	Port int `yaml:"port" example:"8081"`
}

type Redis struct {
	// Redis address
	Addr string `yaml:"addr" example:"localhost:6379" validate:"required"`
	// Redis password
	Password string `yaml:"password"`
	// Redis database number
	DB int `yaml:"db" example:"0"`
}

type Bot struct {
	// HistoryLimit is the maximum number of turns kept per conversation
	HistoryLimit int `yaml:"history_limit" example:"10"`
	// SessionTimeoutSec after which a conversation restarts from scratch
	SessionTimeoutSec int `yaml:"session_timeout_sec" example:"86400"`
	// ConfigTTLSec bounds how long remote config documents are cached
	ConfigTTLSec int `yaml:"config_ttl_sec" example:"300"`
	// FallbackDir holds schedule.json / faq_student.json used when redis is down
	FallbackDir string `yaml:"fallback_dir" example:"."`
}

func (b Bot) SessionTimeout() time.Duration {
	return time.Duration(b.SessionTimeoutSec) * time.Second
}

func (b Bot) ConfigTTL() time.Duration {
	return time.Duration(b.ConfigTTLSec) * time.Second
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	result.ApplyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8081
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.OpenAI.Primary.Model == "" {
		c.OpenAI.Primary.Model = "gpt-5-mini"
	}
	if c.OpenAI.Fast.Token == "" {
		c.OpenAI.Fast.Token = c.OpenAI.Primary.Token
	}
	if c.OpenAI.Fast.BaseURL == "" {
		c.OpenAI.Fast.BaseURL = c.OpenAI.Primary.BaseURL
	}
	if c.OpenAI.Fast.Model == "" {
		c.OpenAI.Fast.Model = "gpt-4o-mini"
	}
	if c.Bot.HistoryLimit == 0 {
		c.Bot.HistoryLimit = 10
	}
	if c.Bot.SessionTimeoutSec == 0 {
		c.Bot.SessionTimeoutSec = 86400
	}
	if c.Bot.ConfigTTLSec == 0 {
		c.Bot.ConfigTTLSec = 300
	}
	if c.Bot.FallbackDir == "" {
		c.Bot.FallbackDir = "."
	}
}
