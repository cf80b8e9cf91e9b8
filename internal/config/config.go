package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the binary needs. Values come from
// config.yaml when present, overridden by BANDHAN_* env vars.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Storage      StorageConfig      `mapstructure:"storage"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Intelligence IntelligenceConfig `mapstructure:"intelligence"`
	Admin        AdminConfig        `mapstructure:"admin"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type StorageConfig struct {
	// Backend is "memory" or "firestore".
	Backend      string `mapstructure:"backend"`
	GCPProjectID string `mapstructure:"gcp_project"`
}

type LLMConfig struct {
	// Provider is "openai" or "mock".
	Provider       string        `mapstructure:"provider"`
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	Temperature    float64       `mapstructure:"temperature"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type IntelligenceConfig struct {
	// WeekStart names the weekday the "this-week" time frame opens on.
	WeekStart string `mapstructure:"week_start"`
	Currency  string `mapstructure:"currency"`
}

type AdminConfig struct {
	// SessionToken is the shared back-office token for deployments
	// without the hosted identity provider (dev, CI).
	SessionToken string `mapstructure:"session_token"`
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("storage.backend", "memory")
	viper.SetDefault("llm.provider", "mock")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 1024)
	viper.SetDefault("llm.request_timeout", 60*time.Second)
	viper.SetDefault("intelligence.week_start", "monday")
	viper.SetDefault("intelligence.currency", "₹")
}

// Load reads config.yaml (optional) and the environment.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.SetEnvPrefix("BANDHAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key (BANDHAN_LLM_API_KEY) is required when llm.provider is openai")
	}
	if c.Storage.Backend == "firestore" && c.Storage.GCPProjectID == "" {
		return fmt.Errorf("storage.gcp_project (BANDHAN_STORAGE_GCP_PROJECT) is required when storage.backend is firestore")
	}
	if _, err := c.WeekStart(); err != nil {
		return err
	}
	return nil
}

// WeekStart maps the configured weekday name to a time.Weekday.
func (c *Config) WeekStart() (time.Weekday, error) {
	switch strings.ToLower(c.Intelligence.WeekStart) {
	case "sunday":
		return time.Sunday, nil
	case "monday", "":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return time.Monday, fmt.Errorf("intelligence.week_start: unknown weekday %q", c.Intelligence.WeekStart)
	}
}
