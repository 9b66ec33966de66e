// Package config loads sentimix settings from defaults, a YAML file and the environment.
//
// Configuration hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (SENTIMIX_*, YOUTUBE_API_KEY)
//  3. Config file (~/.sentimix/config.yaml)
//  4. Defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every sentimix environment variable.
const EnvPrefix = "SENTIMIX"

// APIKeyEnv is the conventional variable holding the YouTube Data API key.
const APIKeyEnv = "YOUTUBE_API_KEY"

// Config holds all sentimix settings.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	News     NewsConfig     `mapstructure:"news" yaml:"news"`
	YouTube  YouTubeConfig  `mapstructure:"youtube" yaml:"youtube"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// AnalysisConfig holds request defaults.
type AnalysisConfig struct {
	WindowMonths int `mapstructure:"window_months" yaml:"window_months" validate:"min=1,max=12"`
	MaxArticles  int `mapstructure:"max_articles" yaml:"max_articles" validate:"min=0,max=100"`
}

// NewsConfig configures the news feed client.
type NewsConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Qualifier string        `mapstructure:"qualifier" yaml:"qualifier"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// YouTubeConfig configures the YouTube client. An empty APIKey disables the video source.
type YouTubeConfig struct {
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Qualifier         string        `mapstructure:"qualifier" yaml:"qualifier"`
	MaxResults        int           `mapstructure:"max_results" yaml:"max_results" validate:"min=1,max=50"`
	CommentWorkers    int           `mapstructure:"comment_workers" yaml:"comment_workers" validate:"min=1,max=16"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			WindowMonths: 3,
			MaxArticles:  0,
		},
		News: NewsConfig{
			BaseURL:   "https://news.google.com/rss/search",
			Qualifier: "celebrity news",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			Timeout:   10 * time.Second,
		},
		YouTube: YouTubeConfig{
			Qualifier:         "interview news",
			MaxResults:        10,
			CommentWorkers:    4,
			RequestsPerSecond: 10,
			Timeout:           10 * time.Second,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// SetDefaults registers every default on v so that environment variables can
// override any key.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("analysis.window_months", d.Analysis.WindowMonths)
	v.SetDefault("analysis.max_articles", d.Analysis.MaxArticles)
	v.SetDefault("news.base_url", d.News.BaseURL)
	v.SetDefault("news.qualifier", d.News.Qualifier)
	v.SetDefault("news.user_agent", d.News.UserAgent)
	v.SetDefault("news.timeout", d.News.Timeout)
	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.base_url", "")
	v.SetDefault("youtube.qualifier", d.YouTube.Qualifier)
	v.SetDefault("youtube.max_results", d.YouTube.MaxResults)
	v.SetDefault("youtube.comment_workers", d.YouTube.CommentWorkers)
	v.SetDefault("youtube.requests_per_second", d.YouTube.RequestsPerSecond)
	v.SetDefault("youtube.timeout", d.YouTube.Timeout)
	v.SetDefault("log.level", d.Log.Level)
}

// BindEnv maps SENTIMIX_SECTION_KEY variables onto section.key and accepts
// YOUTUBE_API_KEY for the API key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("youtube.api_key", EnvPrefix+"_YOUTUBE_API_KEY", APIKeyEnv)
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.YouTube.APIKey = strings.TrimSpace(cfg.YouTube.APIKey)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// VideoEnabled reports whether a YouTube API key is configured.
func (c *Config) VideoEnabled() bool {
	return c.YouTube.APIKey != ""
}

// Masked returns a copy safe to print: the API key keeps its last 4 characters.
func (c Config) Masked() Config {
	key := c.YouTube.APIKey
	switch {
	case key == "":
	case len(key) <= 4:
		c.YouTube.APIKey = "****"
	default:
		c.YouTube.APIKey = strings.Repeat("*", len(key)-4) + key[len(key)-4:]
	}
	return c
}

// YAML renders c as a YAML document.
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// DefaultPath returns ~/.sentimix/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".sentimix", "config.yaml"), nil
}

// WriteDefault writes the default settings to path. An existing file is only
// replaced when overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := DefaultConfig().YAML()
	if err != nil {
		return err
	}
	header := "# sentimix configuration\n# The YouTube API key can also be set with " + APIKeyEnv + ".\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
