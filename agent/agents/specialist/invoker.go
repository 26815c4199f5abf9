package specialist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

const maxDocumentContextChars = 2000

// SpecialistInvoker runs any of the seven specialists through one templated
// Gateway call. It deliberately never returns an error: a Gateway outage or
// an unparseable model response degrades to a placeholder result so the
// session's aggregation step always has something to store.
type SpecialistInvoker struct {
	gateway  contractx.Gateway
	registry *Registry
	now      func() time.Time
}

var _ contractx.Invoker = (*SpecialistInvoker)(nil)

func NewInvoker(gateway contractx.Gateway, registry *Registry) (*SpecialistInvoker, error) {
	if gateway == nil {
		return nil, errors.New("gateway is required")
	}
	if registry == nil {
		return nil, errors.New("specialist registry is required")
	}
	return &SpecialistInvoker{
		gateway:  gateway,
		registry: registry,
		now:      time.Now,
	}, nil
}

func (v *SpecialistInvoker) Invoke(ctx context.Context, agent contractx.AgentName, query string, documentText string) contractx.AgentResult {
	spec, ok := v.registry.Spec(agent)
	if !ok {
		// The classifier only emits registry names; reaching this means a
		// caller bypassed it.
		log.Error().Str("agent", string(agent)).Msg("invoke requested for unregistered agent")
		return v.placeholder(contractx.AgentContent, contractx.ResultText, fmt.Sprintf("No specialist registered for %q", agent))
	}

	prompt := buildPrompt(query, documentText)

	raw, err := v.gateway.Generate(ctx, spec.SystemPrompt, prompt)
	if err != nil {
		log.Warn().Err(err).Str("agent", string(agent)).Msg("specialist call failed, returning placeholder")
		return v.placeholder(spec.Name, spec.Kind, fmt.Sprintf("%s unavailable: %v", agent.SectionTitle(), err))
	}

	return v.parseResult(spec, raw)
}

func buildPrompt(query, documentText string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(query))
	if doc := strings.TrimSpace(documentText); doc != "" {
		if len(doc) > maxDocumentContextChars {
			doc = doc[:maxDocumentContextChars]
		}
		b.WriteString("\n\n--- Document Context ---\n")
		b.WriteString(doc)
		b.WriteString("\n--- End Document Context ---")
	}
	return b.String()
}

func (v *SpecialistInvoker) parseResult(spec contractx.AgentSpec, raw string) contractx.AgentResult {
	result := contractx.AgentResult{
		Agent:       spec.Name,
		Kind:        spec.Kind,
		GeneratedAt: v.now().UTC(),
	}

	switch spec.Kind {
	case contractx.ResultDiagram:
		diagram, err := parseDiagram(raw)
		if err != nil {
			log.Warn().Err(err).Str("agent", string(spec.Name)).Msg("diagram response unparseable, using empty placeholder")
			result.Diagram = emptyDiagram()
			result.Placeholder = true
			return result
		}
		result.Diagram = diagram

	case contractx.ResultTable:
		table, err := parseCostTable(raw)
		if err != nil {
			log.Warn().Err(err).Str("agent", string(spec.Name)).Msg("pricing response unparseable, using placeholder row")
			result.Table = placeholderCostTable()
			result.Placeholder = true
			return result
		}
		result.Table = table

	default:
		text := strings.TrimSpace(raw)
		if text == "" {
			result.Text = fmt.Sprintf("%s produced no content", spec.Name.SectionTitle())
			result.Placeholder = true
			return result
		}
		result.Text = text
	}

	return result
}

func (v *SpecialistInvoker) placeholder(agent contractx.AgentName, kind contractx.ResultKind, message string) contractx.AgentResult {
	result := contractx.AgentResult{
		Agent:       agent,
		Kind:        kind,
		Placeholder: true,
		GeneratedAt: v.now().UTC(),
	}
	switch kind {
	case contractx.ResultDiagram:
		d := emptyDiagram()
		d.Description = message
		result.Diagram = d
	case contractx.ResultTable:
		result.Table = placeholderCostTable()
		result.Table.Notes = message
	default:
		result.Text = message
	}
	return result
}
