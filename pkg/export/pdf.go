package export

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

func renderPDF(proposal *contractx.AssembledProposal, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Project Proposal", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Session "+proposal.SessionID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+proposal.GeneratedAt.Format("2 January 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for _, section := range proposal.Sections {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, section.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)

		if section.Agent == contractx.AgentFinancial && section.Result.Table != nil {
			writePDFCostTable(pdf, section.Result.Table)
		} else {
			for _, line := range sectionBody(section.Result) {
				pdf.MultiCell(0, 5.5, line, "", "L", false)
				pdf.Ln(1)
			}
		}
		pdf.Ln(4)
	}

	if proposal.DiagramPath != "" {
		if _, err := os.Stat(proposal.DiagramPath); err == nil {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 10, "Architecture Diagram", "", 1, "L", false, 0, "")
			pdf.ImageOptions(proposal.DiagramPath, 15, pdf.GetY()+4, 180, 0, false,
				fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writePDFCostTable(pdf *fpdf.Fpdf, table *contractx.CostTable) {
	const (
		itemW     = 90.0
		costW     = 45.0
		durationW = 45.0
		rowH      = 7.0
	)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(itemW, rowH, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(costW, rowH, "Cost", "1", 0, "L", false, 0, "")
	pdf.CellFormat(durationW, rowH, "Duration", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range table.Rows {
		pdf.CellFormat(itemW, rowH, row.Item, "1", 0, "L", false, 0, "")
		pdf.CellFormat(costW, rowH, row.Cost, "1", 0, "L", false, 0, "")
		pdf.CellFormat(durationW, rowH, row.Duration, "1", 1, "L", false, 0, "")
	}

	if table.Total != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, rowH, "Total: "+table.Total, "", 1, "L", false, 0, "")
	}
	if table.Notes != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, table.Notes, "", "L", false)
	}
}
