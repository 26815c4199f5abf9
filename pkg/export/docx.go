package export

import (
	"fmt"
	"os"

	"github.com/fumiama/go-docx"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

func renderDOCX(proposal *contractx.AssembledProposal, path string) error {
	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph()
	title.AddText("Project Proposal").Size("36").Bold()
	w.AddParagraph().AddText("Session " + proposal.SessionID).Size("20")
	w.AddParagraph().AddText("Generated " + proposal.GeneratedAt.Format("2 January 2006 15:04")).Size("20")
	w.AddParagraph()

	for _, section := range proposal.Sections {
		heading := w.AddParagraph()
		heading.AddText(section.Title).Size("28").Bold()

		if section.Agent == contractx.AgentFinancial && section.Result.Table != nil {
			writeDOCXCostTable(w, section.Result.Table)
		} else {
			for _, line := range sectionBody(section.Result) {
				w.AddParagraph().AddText(line)
			}
		}
		w.AddParagraph()
	}

	if proposal.DiagramPath != "" {
		caption := w.AddParagraph()
		caption.AddText("Architecture diagram: " + proposal.DiagramPath).Italic()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func writeDOCXCostTable(w *docx.Docx, table *contractx.CostTable) {
	rows := len(table.Rows) + 1
	t := w.AddTable(rows, 3, 8000, nil)

	header := []string{"Item", "Cost", "Duration"}
	for col, text := range header {
		t.TableRows[0].TableCells[col].AddParagraph().AddText(text).Bold()
	}
	for i, row := range table.Rows {
		cells := t.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(row.Item)
		cells[1].AddParagraph().AddText(row.Cost)
		cells[2].AddParagraph().AddText(row.Duration)
	}

	if table.Total != "" {
		w.AddParagraph().AddText("Total: " + table.Total).Bold()
	}
	if table.Notes != "" {
		w.AddParagraph().AddText(table.Notes)
	}
}
