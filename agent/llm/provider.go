package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	compatx "github.com/proposalkit/rfp-assistant/pkg/openaicompat"
)

type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderOllama     Provider = "ollama"
)

// NewGateway walks the provider priority list and returns a gateway on the
// first provider that verifies. OpenAI proper uses the SDK directly; the
// OpenAI-compatible providers go through an eino chat model.
func NewGateway(ctx context.Context, cfg Config, role Role) (*ModelGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, provider := range cfg.Priority() {
		compatCfg := cfg.CompatFor(provider, role)

		switch provider {
		case ProviderOpenAI:
			client := compatx.NewClient(compatCfg)
			if client == nil {
				continue
			}
			log.Info().Str("provider", string(provider)).Str("model", compatCfg.Model).Str("role", string(role)).Msg("language model gateway ready")
			return &ModelGateway{provider: provider, direct: client, modelName: compatCfg.Model}, nil

		case ProviderOpenRouter:
			m, err := compatCfg.New(ctx)
			if err != nil {
				log.Warn().Err(err).Str("provider", string(provider)).Msg("provider initialization failed, trying next")
				continue
			}
			log.Info().Str("provider", string(provider)).Str("model", compatCfg.Model).Str("role", string(role)).Msg("language model gateway ready")
			return &ModelGateway{provider: provider, model: m, modelName: compatCfg.Model}, nil

		case ProviderOllama:
			if err := verifyOllama(ctx, cfg.OllamaHost); err != nil {
				log.Warn().Err(err).Str("provider", string(provider)).Msg("provider initialization failed, trying next")
				continue
			}
			m, err := compatCfg.New(ctx)
			if err != nil {
				log.Warn().Err(err).Str("provider", string(provider)).Msg("provider initialization failed, trying next")
				continue
			}
			log.Info().Str("provider", string(provider)).Str("model", compatCfg.Model).Str("role", string(role)).Msg("language model gateway ready")
			return &ModelGateway{provider: provider, model: m, modelName: compatCfg.Model}, nil
		}
	}

	return nil, fmt.Errorf("%w: no language model provider available", contractx.ErrGatewayUnavailable)
}

func verifyOllama(ctx context.Context, host string) error {
	url := strings.TrimRight(strings.TrimSpace(host), "/") + "/api/tags"

	reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build ollama probe: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama probe returned status %d", resp.StatusCode)
	}
	return nil
}
