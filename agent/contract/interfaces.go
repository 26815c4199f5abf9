package contract

import "context"

// Gateway submits a prompt with system instructions to a hosted language
// model and returns generated text. Failures wrap ErrGatewayUnavailable.
type Gateway interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Classifier resolves free-text input to one of the seven agents. It is
// total: it always returns a valid AgentName, falling back deterministically
// when the model's answer is unusable.
type Classifier interface {
	Classify(ctx context.Context, query string, hasDocument bool) AgentName
}

// Invoker runs one specialist call. It never returns an error for model or
// parsing failures; those degrade to placeholder results so a partial
// proposal stays assemblable.
type Invoker interface {
	Invoke(ctx context.Context, agent AgentName, query string, documentText string) AgentResult
}

// Extractor pulls text, tables, and metadata out of an uploaded file.
// Failures wrap ErrExtractionFailed.
type Extractor interface {
	Extract(ctx context.Context, filePath string) (*Document, error)
}

// Exporter renders an assembled proposal to a file on disk and returns its
// path. Failures wrap ErrExportFailed.
type Exporter interface {
	Render(ctx context.Context, proposal *AssembledProposal, format ExportFormat) (string, error)
	RenderDiagram(diagram *Diagram, outputPath string) error
}
