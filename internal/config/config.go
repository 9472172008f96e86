package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned by Load when no model API key is configured.
var ErrMissingAPIKey = errors.New("ai.api_key is required (set it in the config file, GEMINI_API_KEY or OPENAI_API_KEY)")

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "FIRSTROUND_CONFIG"

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

const (
	defaultDatabasePath  = "interview_db.sqlite"
	defaultJobTitle      = "Job Title"
	defaultNumQuestions  = 5
	maxNumQuestions      = 10
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultAITimeout     = 2 * time.Minute
	localConfigFile      = "config.yaml"
)

// Config is the root configuration for firstround.
type Config struct {
	DatabasePath        string
	JobTitle            string // stored as the title of every job description
	DefaultNumQuestions int
	AI                  AIConfig
}

// AIConfig selects and configures the model provider.
type AIConfig struct {
	Provider string        // "gemini" or "openai"
	Model    string        // model identifier, e.g. "gemini-2.5-flash"
	APIKey   string        // expanded from env var by Load
	BaseURL  string        // endpoint override; required default for openai
	Timeout  time.Duration // per-call timeout
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	DatabasePath        string      `yaml:"database_path"`
	JobTitle            string      `yaml:"job_title"`
	DefaultNumQuestions *int        `yaml:"default_num_questions"`
	AI                  rawAIConfig `yaml:"ai"`
}

type rawAIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var present []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Resolve picks the config file to load: the explicit path, then
// $FIRSTROUND_CONFIG, then ./config.yaml when it exists. An empty result
// means built-in defaults.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile
	}
	return ""
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. An empty path loads the defaults.
func Load(path string) (*Config, error) {
	var raw rawConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		// Expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	aiTimeout := defaultAITimeout
	if raw.AI.Timeout != "" {
		var err error
		aiTimeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}

	numQuestions := defaultNumQuestions
	if raw.DefaultNumQuestions != nil {
		numQuestions = *raw.DefaultNumQuestions
	}

	provider := raw.AI.Provider
	if provider == "" {
		provider = ProviderGemini
	}

	cfg := &Config{
		DatabasePath:        orDefault(raw.DatabasePath, defaultDatabasePath),
		JobTitle:            orDefault(raw.JobTitle, defaultJobTitle),
		DefaultNumQuestions: numQuestions,
		AI: AIConfig{
			Provider: provider,
			Model:    raw.AI.Model,
			APIKey:   raw.AI.APIKey,
			BaseURL:  raw.AI.BaseURL,
			Timeout:  aiTimeout,
		},
	}
	applyProviderDefaults(&cfg.AI)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyProviderDefaults(ai *AIConfig) {
	switch ai.Provider {
	case ProviderGemini:
		ai.Model = orDefault(ai.Model, defaultGeminiModel)
		ai.APIKey = orDefault(ai.APIKey, os.Getenv("GEMINI_API_KEY"))
	case ProviderOpenAI:
		ai.Model = orDefault(ai.Model, defaultOpenAIModel)
		ai.APIKey = orDefault(ai.APIKey, os.Getenv("OPENAI_API_KEY"))
		ai.BaseURL = orDefault(ai.BaseURL, defaultOpenAIBaseURL)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	if cfg.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if cfg.DefaultNumQuestions < 1 || cfg.DefaultNumQuestions > maxNumQuestions {
		return fmt.Errorf("default_num_questions must be between 1 and %d, got %d", maxNumQuestions, cfg.DefaultNumQuestions)
	}

	switch cfg.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, cfg.AI.Provider)
	}
	if cfg.AI.APIKey == "" {
		return ErrMissingAPIKey
	}
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}

	return nil
}
