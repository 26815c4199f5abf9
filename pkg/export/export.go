// Package export renders assembled proposals to DOCX or PDF files and draws
// architecture diagrams as PNG images.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// FileExporter writes rendered documents into a fixed output directory.
type FileExporter struct {
	outputDir string
}

func NewFileExporter(outputDir string) (*FileExporter, error) {
	outputDir = strings.TrimSpace(outputDir)
	if outputDir == "" {
		return nil, errors.New("export output directory is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileExporter{outputDir: outputDir}, nil
}

func (e *FileExporter) Render(ctx context.Context, proposal *contractx.AssembledProposal, format contractx.ExportFormat) (string, error) {
	if proposal == nil || len(proposal.Sections) == 0 {
		return "", fmt.Errorf("%w: proposal has no sections", contractx.ErrExportFailed)
	}

	name := fmt.Sprintf("proposal_%s_%s.%s",
		proposal.SessionID, proposal.GeneratedAt.Format("20060102_150405"), format)
	path := filepath.Join(e.outputDir, name)

	var err error
	switch format {
	case contractx.FormatDOCX:
		err = renderDOCX(proposal, path)
	case contractx.FormatPDF:
		err = renderPDF(proposal, path)
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", contractx.ErrValidation, format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: render %s: %v", contractx.ErrExportFailed, format, err)
	}
	return path, nil
}

// sectionBody flattens any result kind into display lines. Diagram and table
// results get textual fallbacks so a section never renders empty.
func sectionBody(result contractx.AgentResult) []string {
	switch result.Kind {
	case contractx.ResultDiagram:
		if result.Diagram == nil {
			return []string{result.Text}
		}
		lines := make([]string, 0, len(result.Diagram.Components)+1)
		if result.Diagram.Description != "" {
			lines = append(lines, result.Diagram.Description)
		}
		for _, c := range result.Diagram.Components {
			line := fmt.Sprintf("%s (%s)", c.Name, c.Kind)
			if len(c.Connections) > 0 {
				line += " -> " + strings.Join(c.Connections, ", ")
			}
			lines = append(lines, line)
		}
		return lines
	case contractx.ResultTable:
		if result.Table == nil {
			return []string{result.Text}
		}
		lines := make([]string, 0, len(result.Table.Rows)+2)
		for _, row := range result.Table.Rows {
			line := row.Item + ": " + row.Cost
			if row.Duration != "" {
				line += " (" + row.Duration + ")"
			}
			lines = append(lines, line)
		}
		if result.Table.Total != "" {
			lines = append(lines, "Total: "+result.Table.Total)
		}
		if result.Table.Notes != "" {
			lines = append(lines, result.Table.Notes)
		}
		return lines
	default:
		return splitParagraphs(result.Text)
	}
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"(no content)"}
	}
	return out
}
