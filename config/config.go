package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendWeaviate = "weaviate"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// DefaultFallbackAnswer is returned when retrieval succeeds but produces no
// context. It is the only answer the generator may produce without consulting
// the model.
const DefaultFallbackAnswer = "I don't have information about this in the provided legal sections."

type Config struct {
	Port        string `mapstructure:"port"`
	Development bool   `mapstructure:"development"`
	AllowOrigin string `mapstructure:"allow_origin"`

	AIProvider     string   `mapstructure:"ai_provider"`
	AIEndpoint     string   `mapstructure:"ai_endpoint"`
	Model          string   `mapstructure:"model"`
	EmbeddingModel string   `mapstructure:"embedding_model"`
	OpenAIAPIKey   string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys  []string `mapstructure:"GEMINI_API_KEYS"`

	TopK              int           `mapstructure:"top_k"`
	RetrievalTimeout  time.Duration `mapstructure:"retrieval_timeout"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	FallbackAnswer    string        `mapstructure:"fallback_answer"`

	// Retries around model calls are off unless explicitly configured.
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`

	DefaultDomain string         `mapstructure:"default_domain"`
	Domains       []DomainConfig `mapstructure:"domains"`

	Weaviate WeaviateConfig `mapstructure:"weaviate"`
	MongoURI string         `mapstructure:"MONGODB_URI"`
}

// DomainConfig binds one named corpus to its index backend.
type DomainConfig struct {
	Name    string   `mapstructure:"name"`
	Path    string   `mapstructure:"path"`
	Aliases []string `mapstructure:"aliases"`
	Backend string   `mapstructure:"backend"`
}

type WeaviateConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
	Class  string `mapstructure:"class"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("port", "8000")
	v.SetDefault("ai_provider", ProviderOpenAI)
	v.SetDefault("model", "gpt-4-turbo-preview")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("top_k", 5)
	v.SetDefault("retrieval_timeout", 10*time.Second)
	v.SetDefault("generation_timeout", 120*time.Second)
	v.SetDefault("fallback_answer", DefaultFallbackAnswer)
	v.SetDefault("allow_origin", "*")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEYS")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration once at startup so request handling never
// has to deal with ambiguous settings.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.AIProvider != ProviderOpenAI && c.AIProvider != ProviderGemini {
		return fmt.Errorf("unknown ai_provider %q", c.AIProvider)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.RetrievalTimeout <= 0 || c.GenerationTimeout <= 0 {
		return fmt.Errorf("retrieval_timeout and generation_timeout must be positive")
	}
	if c.FallbackAnswer == "" {
		return fmt.Errorf("fallback_answer must not be empty")
	}
	if len(c.Domains) == 0 {
		return fmt.Errorf("at least one domain must be configured")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts must not be negative")
	}

	seen := make(map[string]string)
	for _, d := range c.Domains {
		if d.Name == "" {
			return fmt.Errorf("domain name must not be empty")
		}
		backend := d.Backend
		if backend == "" {
			backend = BackendMemory
		}
		switch backend {
		case BackendMemory:
			if d.Path == "" {
				return fmt.Errorf("domain %q: path is required for the memory backend", d.Name)
			}
		case BackendWeaviate:
			if c.Weaviate.Host == "" {
				return fmt.Errorf("domain %q: weaviate.host is required for the weaviate backend", d.Name)
			}
		default:
			return fmt.Errorf("domain %q: unknown backend %q", d.Name, d.Backend)
		}
		for _, name := range append([]string{d.Name}, d.Aliases...) {
			if owner, ok := seen[name]; ok {
				return fmt.Errorf("domain name %q registered twice (by %q and %q)", name, owner, d.Name)
			}
			seen[name] = d.Name
		}
	}

	if c.DefaultDomain != "" {
		if _, ok := seen[c.DefaultDomain]; !ok {
			return fmt.Errorf("default_domain %q is not a configured domain", c.DefaultDomain)
		}
	}
	return nil
}

// Backend returns the effective backend for a domain entry.
func (d DomainConfig) BackendOrDefault() string {
	if d.Backend == "" {
		return BackendMemory
	}
	return d.Backend
}
