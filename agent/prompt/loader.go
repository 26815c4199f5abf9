package prompt

import (
	_ "embed"
	"strings"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/strategist.txt
	strategistRaw string

	//go:embed template/solution_architect.txt
	solutionArchitectRaw string

	//go:embed template/diagram.txt
	diagramRaw string

	//go:embed template/content.txt
	contentRaw string

	//go:embed template/financial.txt
	financialRaw string

	//go:embed template/compliance.txt
	complianceRaw string

	//go:embed template/review.txt
	reviewRaw string
)

// PromptSet holds loaded prompt content: the routing instruction plus one
// instruction template per specialist.
type PromptSet struct {
	Router      string
	Specialists map[contractx.AgentName]string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router: strings.TrimSpace(routerRaw),
		Specialists: map[contractx.AgentName]string{
			contractx.AgentStrategist:        strings.TrimSpace(strategistRaw),
			contractx.AgentSolutionArchitect: strings.TrimSpace(solutionArchitectRaw),
			contractx.AgentDiagram:           strings.TrimSpace(diagramRaw),
			contractx.AgentContent:           strings.TrimSpace(contentRaw),
			contractx.AgentFinancial:         strings.TrimSpace(financialRaw),
			contractx.AgentCompliance:        strings.TrimSpace(complianceRaw),
			contractx.AgentReview:            strings.TrimSpace(reviewRaw),
		},
	}
}
