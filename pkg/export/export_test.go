package export

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

func sampleProposal() *contractx.AssembledProposal {
	return &contractx.AssembledProposal{
		SessionID: "s1",
		Sections: []contractx.ProposalSection{
			{
				Agent: contractx.AgentStrategist,
				Title: "Strategist",
				Result: contractx.AgentResult{
					Agent: contractx.AgentStrategist,
					Kind:  contractx.ResultText,
					Text:  "Focus on the fastest path to a working pilot.\nKeep scope tight.",
				},
			},
			{
				Agent: contractx.AgentFinancial,
				Title: "Financial",
				Result: contractx.AgentResult{
					Agent: contractx.AgentFinancial,
					Kind:  contractx.ResultTable,
					Table: &contractx.CostTable{
						Rows:  []contractx.CostRow{{Item: "Build", Cost: "$80,000", Duration: "10 weeks"}},
						Total: "$80,000",
					},
				},
			},
		},
		GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderDOCXAndPDF(t *testing.T) {
	t.Parallel()

	exporter, err := NewFileExporter(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileExporter() error = %v", err)
	}

	for _, format := range []contractx.ExportFormat{contractx.FormatDOCX, contractx.FormatPDF} {
		path, err := exporter.Render(context.Background(), sampleProposal(), format)
		if err != nil {
			t.Fatalf("Render(%s) error = %v", format, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("rendered file missing: %v", err)
		}
		if info.Size() == 0 {
			t.Fatalf("rendered %s file is empty", format)
		}
		if !strings.HasSuffix(path, "."+string(format)) {
			t.Fatalf("unexpected extension on %s", path)
		}
	}
}

func TestRenderRejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	exporter, err := NewFileExporter(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileExporter() error = %v", err)
	}

	if _, err := exporter.Render(context.Background(), sampleProposal(), contractx.ExportFormat("odt")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestRenderDiagramWritesPNG(t *testing.T) {
	t.Parallel()

	exporter, err := NewFileExporter(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileExporter() error = %v", err)
	}

	diagram := &contractx.Diagram{
		Type: "architecture",
		Components: []contractx.DiagramComponent{
			{Name: "Gateway", Kind: "service", Connections: []string{"Store", "Queue"}},
			{Name: "Store", Kind: "database"},
			{Name: "Queue", Kind: "broker"},
		},
	}

	path := t.TempDir() + "/diagram.png"
	if err := exporter.RenderDiagram(diagram, path); err != nil {
		t.Fatalf("RenderDiagram() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("png missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("png file is empty")
	}
}

func TestRenderDiagramRejectsEmpty(t *testing.T) {
	t.Parallel()

	exporter, err := NewFileExporter(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileExporter() error = %v", err)
	}

	if err := exporter.RenderDiagram(&contractx.Diagram{}, t.TempDir()+"/empty.png"); err == nil {
		t.Fatal("expected error for diagram without components")
	}
}

func TestSectionBodyFlattensKinds(t *testing.T) {
	t.Parallel()

	table := sectionBody(contractx.AgentResult{
		Kind: contractx.ResultTable,
		Table: &contractx.CostTable{
			Rows:  []contractx.CostRow{{Item: "Build", Cost: "$1", Duration: "1 week"}},
			Total: "$1",
			Notes: "estimate only",
		},
	})
	joined := strings.Join(table, "\n")
	for _, want := range []string{"Build: $1 (1 week)", "Total: $1", "estimate only"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in %q", want, joined)
		}
	}

	diagram := sectionBody(contractx.AgentResult{
		Kind: contractx.ResultDiagram,
		Diagram: &contractx.Diagram{
			Description: "two tier",
			Components: []contractx.DiagramComponent{
				{Name: "API", Kind: "service", Connections: []string{"DB"}},
			},
		},
	})
	joined = strings.Join(diagram, "\n")
	if !strings.Contains(joined, "two tier") || !strings.Contains(joined, "API (service) -> DB") {
		t.Fatalf("unexpected diagram body %q", joined)
	}

	if body := sectionBody(contractx.AgentResult{Kind: contractx.ResultText, Text: "  "}); body[0] != "(no content)" {
		t.Fatalf("unexpected empty-text body %v", body)
	}
}
