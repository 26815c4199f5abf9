package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	compatx "github.com/proposalkit/rfp-assistant/pkg/openaicompat"
)

// Role distinguishes the routing call from specialist calls, so the router
// can run on a cheaper or colder model than the drafting agents.
type Role string

const (
	RoleRouter     Role = "router"
	RoleSpecialist Role = "specialist"
)

type Config struct {
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" split_words:"true"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" split_words:"true" default:"gpt-4o-mini"`

	OpenRouterAPIKey  string `envconfig:"OPENROUTER_API_KEY" split_words:"true"`
	OpenRouterBaseURL string `envconfig:"OPENROUTER_BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	OpenRouterModel   string `envconfig:"OPENROUTER_MODEL" split_words:"true" default:"openai/gpt-4o-mini"`

	OllamaHost  string `envconfig:"OLLAMA_HOST" split_words:"true" default:"http://localhost:11434"`
	OllamaModel string `envconfig:"OLLAMA_MODEL" split_words:"true" default:"llama3.2"`

	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	RouterModel       string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	RouterTemperature float32 `envconfig:"ROUTER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if len(c.Priority()) == 0 {
		return fmt.Errorf("%w: no language model provider configured", contractx.ErrValidation)
	}
	return nil
}

// Priority returns candidate providers in fallback order, based on which
// credentials are present. Ollama is always last because it needs no
// credentials, only a reachable server.
func (c Config) Priority() []Provider {
	var priority []Provider
	if strings.TrimSpace(c.OpenAIAPIKey) != "" {
		priority = append(priority, ProviderOpenAI)
	}
	if strings.TrimSpace(c.OpenRouterAPIKey) != "" {
		priority = append(priority, ProviderOpenRouter)
	}
	priority = append(priority, ProviderOllama)
	return priority
}

// CompatFor materializes an endpoint config for the given provider and role,
// applying the router-specific model and temperature overrides when set.
func (c Config) CompatFor(provider Provider, role Role) compatx.Config {
	maxToken := c.MaxCompletionToken
	cfg := compatx.Config{
		MaxCompletionToken: &maxToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
	}

	switch provider {
	case ProviderOpenAI:
		cfg.APIKey = strings.TrimSpace(c.OpenAIAPIKey)
		cfg.Model = strings.TrimSpace(c.OpenAIModel)
	case ProviderOpenRouter:
		cfg.BaseURL = strings.TrimSpace(c.OpenRouterBaseURL)
		cfg.APIKey = strings.TrimSpace(c.OpenRouterAPIKey)
		cfg.Model = strings.TrimSpace(c.OpenRouterModel)
	case ProviderOllama:
		// Ollama exposes an OpenAI-compatible surface under /v1.
		cfg.BaseURL = strings.TrimRight(strings.TrimSpace(c.OllamaHost), "/") + "/v1"
		cfg.APIKey = "ollama"
		cfg.Model = strings.TrimSpace(c.OllamaModel)
	}

	if role == RoleRouter {
		if v := strings.TrimSpace(c.RouterModel); v != "" && provider != ProviderOllama {
			cfg.Model = v
		}
		if c.RouterTemperature >= 0 {
			cfg.Temperature = c.RouterTemperature
		}
	}

	return cfg
}
