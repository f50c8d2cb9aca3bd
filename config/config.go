// Package config loads the studio configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"substack_studio/feedback"
	"substack_studio/generator"
	"substack_studio/history"
)

// Config is the full studio configuration.
type Config struct {
	LLM        LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Agents     AgentsConfig  `yaml:"agents" mapstructure:"agents"`
	History    HistoryConfig `yaml:"history" mapstructure:"history"`
	ServerAddr string        `yaml:"server_addr" mapstructure:"server_addr"`
	CopyExpiry time.Duration `yaml:"copy_expiry" mapstructure:"copy_expiry"`

	// Sample answers every agent call with built-in data.
	Sample  bool `yaml:"sample" mapstructure:"sample"`
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// LLMConfig selects the model behind both agents.
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

type AgentsConfig struct {
	ContentOrchestrator string `yaml:"content_orchestrator" mapstructure:"content_orchestrator"`
	NotesCreator        string `yaml:"notes_creator" mapstructure:"notes_creator"`
}

// HistoryConfig locates the persisted history slot.
type HistoryConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	Path    string `yaml:"path" mapstructure:"path"`
	Key     string `yaml:"key" mapstructure:"key"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	ids := generator.DefaultAgentIDs()
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Agents: AgentsConfig{
			ContentOrchestrator: ids.ContentOrchestrator,
			NotesCreator:        ids.NotesCreator,
		},
		History: HistoryConfig{
			Backend: "sqlite",
			Path:    filepath.Join(DataDir(), "studio.db"),
			Key:     history.DefaultKey,
		},
		ServerAddr: ":8080",
		CopyExpiry: feedback.DefaultExpiry,
	}
}

// DataDir is where history lives unless history.path says otherwise.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studio"
	}
	return filepath.Join(home, ".studio")
}

// DefaultPath returns the config file read when --config is not given.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// Load reads path over the defaults; STUDIO_* environment variables override
// both. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix("studio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("llm.provider", cfg.LLM.Provider)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.api_key", cfg.LLM.APIKey)
	v.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	v.SetDefault("agents.content_orchestrator", cfg.Agents.ContentOrchestrator)
	v.SetDefault("agents.notes_creator", cfg.Agents.NotesCreator)
	v.SetDefault("history.backend", cfg.History.Backend)
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("history.key", cfg.History.Key)
	v.SetDefault("server_addr", cfg.ServerAddr)
	v.SetDefault("copy_expiry", cfg.CopyExpiry)
	v.SetDefault("sample", cfg.Sample)
	v.SetDefault("verbose", cfg.Verbose)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.History.Backend {
	case "sqlite", "file":
	default:
		return fmt.Errorf("history.backend %q not supported (sqlite, file)", c.History.Backend)
	}
	if c.Agents.ContentOrchestrator == "" || c.Agents.NotesCreator == "" {
		return errors.New("agents.content_orchestrator and agents.notes_creator must be set")
	}
	if c.CopyExpiry <= 0 {
		return fmt.Errorf("copy_expiry must be positive, got %s", c.CopyExpiry)
	}
	return nil
}

// AgentIDs converts the agents section for the generator.
func (c *Config) AgentIDs() generator.AgentIDs {
	return generator.AgentIDs{
		ContentOrchestrator: c.Agents.ContentOrchestrator,
		NotesCreator:        c.Agents.NotesCreator,
	}
}

// BuildLLM returns the model client for the configured provider.
func (c *Config) BuildLLM() (generator.LLMClient, error) {
	if c.Sample {
		return generator.SampleLLM{}, nil
	}
	settings := &generator.LLMSettings{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
	}
	switch c.LLM.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// DeepSeek speaks the OpenAI protocol but has no default endpoint.
		if c.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case "":
		return nil, fmt.Errorf("llm config missing; set llm.provider/model/api_key or run with --sample")
	default:
		return nil, fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
}
