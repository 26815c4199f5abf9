package contract

import (
	"strings"
	"time"
)

// AgentName identifies one of the seven fixed specialist roles.
// The set is closed; routing output is normalized into it at the boundary
// and never carried around as raw provider text.
type AgentName string

const (
	AgentStrategist        AgentName = "strategist"
	AgentSolutionArchitect AgentName = "solution_architect"
	AgentDiagram           AgentName = "diagram"
	AgentContent           AgentName = "content"
	AgentFinancial         AgentName = "financial"
	AgentCompliance        AgentName = "compliance"
	AgentReview            AgentName = "review"
)

// SectionOrder is the canonical ordering of proposal sections. Assembly
// always emits sections in this order, skipping agents with no result.
var SectionOrder = []AgentName{
	AgentStrategist,
	AgentSolutionArchitect,
	AgentDiagram,
	AgentContent,
	AgentFinancial,
	AgentCompliance,
	AgentReview,
}

// ParseAgentName matches raw text against the closed agent set,
// case-insensitively. It reports false for anything outside the set.
func ParseAgentName(raw string) (AgentName, bool) {
	name := AgentName(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range SectionOrder {
		if name == known {
			return known, true
		}
	}
	return "", false
}

// SectionTitle returns the human-readable heading used in exported documents.
func (a AgentName) SectionTitle() string {
	parts := strings.Split(string(a), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// ResultKind tags the output shape an agent produces.
type ResultKind string

const (
	ResultText    ResultKind = "text"
	ResultDiagram ResultKind = "diagram"
	ResultTable   ResultKind = "table"
)

// AgentSpec is a static registry entry: the agent's name, its instruction
// template, and the shape of output it produces. Immutable for the process
// lifetime.
type AgentSpec struct {
	Name         AgentName
	SystemPrompt string
	Kind         ResultKind
}

// AgentResult is one agent's latest output for a session. Exactly one of
// Text, Diagram, or Table is populated, according to Kind.
type AgentResult struct {
	Agent       AgentName  `json:"agent"`
	Kind        ResultKind `json:"kind"`
	Text        string     `json:"text,omitempty"`
	Diagram     *Diagram   `json:"diagram,omitempty"`
	Table       *CostTable `json:"table,omitempty"`
	Placeholder bool       `json:"placeholder,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Diagram is a structured architecture description: named components and
// their directed connections.
type Diagram struct {
	Type        string             `json:"diagram_type"`
	Components  []DiagramComponent `json:"components"`
	Description string             `json:"description,omitempty"`
}

type DiagramComponent struct {
	Name        string   `json:"name"`
	Kind        string   `json:"type"`
	Connections []string `json:"connections,omitempty"`
}

// CostTable is the financial agent's pricing breakdown.
type CostTable struct {
	Rows  []CostRow `json:"cost_breakdown"`
	Total string    `json:"total,omitempty"`
	Notes string    `json:"notes,omitempty"`
}

type CostRow struct {
	Item     string `json:"item"`
	Cost     string `json:"cost"`
	Duration string `json:"duration,omitempty"`
}

// Turn is one processed user interaction: the raw input, the resolved agent,
// its result, and any non-fatal warnings accumulated along the way.
// Immutable once appended to the session log.
type Turn struct {
	Query     string      `json:"query"`
	Agent     AgentName   `json:"agent"`
	Result    AgentResult `json:"result"`
	Warnings  []string    `json:"warnings,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Document is the extractor's view of an uploaded file.
type Document struct {
	Text     string            `json:"text"`
	Tables   [][]string        `json:"tables,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Filename string            `json:"filename"`
	FileType string            `json:"file_type"`
}

// ExportFormat selects the rendered output type for assembly.
type ExportFormat string

const (
	FormatDOCX ExportFormat = "docx"
	FormatPDF  ExportFormat = "pdf"
)

// ParseExportFormat normalizes a format string, reporting false for
// unsupported values.
func ParseExportFormat(raw string) (ExportFormat, bool) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatDOCX:
		return FormatDOCX, true
	case FormatPDF:
		return FormatPDF, true
	}
	return "", false
}

// ProposalSection is one section of an assembled proposal.
type ProposalSection struct {
	Agent  AgentName
	Title  string
	Result AgentResult
}

// AssembledProposal is the on-demand, canonical-order concatenation of a
// session's current per-agent results. Derived, never persisted.
type AssembledProposal struct {
	SessionID   string
	Sections    []ProposalSection
	DiagramPath string
	GeneratedAt time.Time
}
