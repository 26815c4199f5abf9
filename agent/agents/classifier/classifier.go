// Package classifier maps free-text input to one of the seven specialist
// agents. The mapping is total: whatever the model (or the network) does,
// Classify returns a valid agent name.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	promptx "github.com/proposalkit/rfp-assistant/agent/prompt"
)

const maxRoutingQueryChars = 500

type routingDecision struct {
	Agent     string `json:"agent"`
	Reasoning string `json:"reasoning,omitempty"`
}

type RoutingClassifier struct {
	gateway      contractx.Gateway
	systemPrompt string
}

var _ contractx.Classifier = (*RoutingClassifier)(nil)

func New(gateway contractx.Gateway) (*RoutingClassifier, error) {
	if gateway == nil {
		return nil, errors.New("gateway is required")
	}
	return &RoutingClassifier{
		gateway:      gateway,
		systemPrompt: promptx.LoadPromptSet().Router,
	}, nil
}

// Classify issues one routing call and normalizes the answer into the closed
// agent set. Unusable responses and Gateway failures fall back
// deterministically: strategist when a document is attached (uploads usually
// start as requirements analysis), content otherwise.
func (c *RoutingClassifier) Classify(ctx context.Context, query string, hasDocument bool) contractx.AgentName {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) > maxRoutingQueryChars {
		trimmed = trimmed[:maxRoutingQueryChars]
	}

	raw, err := c.gateway.Generate(ctx, c.systemPrompt, "Route this query to the appropriate agent: "+trimmed)
	if err != nil {
		log.Warn().Err(err).Msg("routing call failed, using deterministic default")
		return defaultAgent(hasDocument)
	}

	if agent, ok := parseRoutingResponse(raw); ok {
		return agent
	}

	log.Warn().Str("response", truncate(raw, 120)).Msg("routing response did not name a known agent, using deterministic default")
	return defaultAgent(hasDocument)
}

func parseRoutingResponse(raw string) (contractx.AgentName, bool) {
	s := stripFence(raw)

	var decision routingDecision
	if err := json.Unmarshal([]byte(s), &decision); err == nil {
		if agent, ok := contractx.ParseAgentName(decision.Agent); ok {
			return agent, true
		}
		return "", false
	}

	// Some models answer with the bare agent name.
	return contractx.ParseAgentName(s)
}

func defaultAgent(hasDocument bool) contractx.AgentName {
	if hasDocument {
		return contractx.AgentStrategist
	}
	return contractx.AgentContent
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
