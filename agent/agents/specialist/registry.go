package specialist

import (
	"fmt"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	promptx "github.com/proposalkit/rfp-assistant/agent/prompt"
)

// Registry holds the static, compile-time-fixed specs for the seven
// specialists. Adding an agent is a data change here plus a template file,
// not a new code path.
type Registry struct {
	specs map[contractx.AgentName]contractx.AgentSpec
}

var outputKinds = map[contractx.AgentName]contractx.ResultKind{
	contractx.AgentStrategist:        contractx.ResultText,
	contractx.AgentSolutionArchitect: contractx.ResultText,
	contractx.AgentDiagram:           contractx.ResultDiagram,
	contractx.AgentContent:           contractx.ResultText,
	contractx.AgentFinancial:         contractx.ResultTable,
	contractx.AgentCompliance:        contractx.ResultText,
	contractx.AgentReview:            contractx.ResultText,
}

func NewRegistry() (*Registry, error) {
	prompts := promptx.LoadPromptSet()

	specs := make(map[contractx.AgentName]contractx.AgentSpec, len(contractx.SectionOrder))
	for _, name := range contractx.SectionOrder {
		template, ok := prompts.Specialists[name]
		if !ok || template == "" {
			return nil, fmt.Errorf("%w: missing prompt template for agent %q", contractx.ErrValidation, name)
		}
		specs[name] = contractx.AgentSpec{
			Name:         name,
			SystemPrompt: template,
			Kind:         outputKinds[name],
		}
	}

	return &Registry{specs: specs}, nil
}

func (r *Registry) Spec(name contractx.AgentName) (contractx.AgentSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}
