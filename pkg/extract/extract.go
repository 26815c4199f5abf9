// Package extract pulls plain text out of uploaded proposal documents so the
// specialists can ground their answers in it.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// maxDocumentBytes caps how much of a file is read. Anything larger than
// this is almost certainly not an RFP.
const maxDocumentBytes = 20 << 20

// FileExtractor dispatches on file extension. PDF and DOCX get dedicated
// parsers; everything else is treated as plain text.
type FileExtractor struct{}

func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

func (e *FileExtractor) Extract(ctx context.Context, filePath string) (*contractx.Document, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return nil, fmt.Errorf("%w: file path is empty", contractx.ErrValidation)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", contractx.ErrExtractionFailed, filePath, err)
	}
	if info.Size() > maxDocumentBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", contractx.ErrExtractionFailed, filePath, maxDocumentBytes)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	var doc *contractx.Document
	switch ext {
	case "pdf":
		doc, err = extractPDF(filePath)
	case "docx":
		doc, err = extractDOCX(filePath)
	default:
		doc, err = extractPlainText(filePath)
		ext = "txt"
	}
	if err != nil {
		if errors.Is(err, contractx.ErrExtractionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", contractx.ErrExtractionFailed, err)
	}

	doc.Filename = filepath.Base(filePath)
	doc.FileType = ext
	if doc.Metadata == nil {
		doc.Metadata = map[string]string{}
	}
	doc.Metadata["size_bytes"] = fmt.Sprintf("%d", info.Size())

	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("%w: no text content in %s", contractx.ErrExtractionFailed, filePath)
	}
	return doc, nil
}

func extractPlainText(filePath string) (*contractx.Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return &contractx.Document{Text: string(data)}, nil
}
