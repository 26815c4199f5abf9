package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

func extractPDF(filePath string) (*contractx.Document, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filePath, err)
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text %s: %w", filePath, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("read pdf text %s: %w", filePath, err)
	}

	return &contractx.Document{
		Text: buf.String(),
		Metadata: map[string]string{
			"pages": fmt.Sprintf("%d", reader.NumPage()),
		},
	}, nil
}
