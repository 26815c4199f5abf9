package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

func extractDOCX(filePath string) (*contractx.Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", filePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx %s: %w", filePath, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", filePath, err)
	}

	var (
		parts  []string
		tables [][]string
	)
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if text := strings.TrimSpace(it.String()); text != "" {
				parts = append(parts, text)
			}
		case *docx.Table:
			for _, row := range it.TableRows {
				var cells []string
				for _, cell := range row.TableCells {
					var cellParts []string
					for _, p := range cell.Paragraphs {
						if text := strings.TrimSpace(p.String()); text != "" {
							cellParts = append(cellParts, text)
						}
					}
					cells = append(cells, strings.Join(cellParts, " "))
				}
				if len(cells) > 0 {
					tables = append(tables, cells)
					parts = append(parts, strings.Join(cells, " | "))
				}
			}
		}
	}

	return &contractx.Document{
		Text:   strings.Join(parts, "\n"),
		Tables: tables,
	}, nil
}
