package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	AnthropicKey    string        `yaml:"anthropic_key"`
	OpenAIKey       string        `yaml:"openai_key"`
	GeminiKey       string        `yaml:"gemini_key"`
	GeminiURL       string        `yaml:"gemini_url"`
	DefaultModel    string        `yaml:"default_model"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	PromptBudget    int           `yaml:"prompt_budget"` // max document tokens per evaluation
	ConcurrentLimit int           `yaml:"concurrent_limit"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

type AnalysisConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"` // jobs processed at once
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type UploadConfig struct {
	Dir         string `yaml:"dir"`
	MaxFileSize int64  `yaml:"max_file_size"` // bytes
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Auth     AuthConfig     `yaml:"auth"`
	Upload   UploadConfig   `yaml:"upload"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "claude-3-haiku-20240307"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 1000
	}
	if cfg.AI.PromptBudget <= 0 {
		cfg.AI.PromptBudget = 100000
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.RequestTimeout <= 0 {
		cfg.AI.RequestTimeout = 60 * time.Second
	}
	if cfg.Analysis.MaxConcurrent <= 0 {
		cfg.Analysis.MaxConcurrent = 2
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 30 * time.Minute
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads"
	}
	if cfg.Upload.MaxFileSize <= 0 {
		cfg.Upload.MaxFileSize = 50 * 1024 * 1024
	}
}
