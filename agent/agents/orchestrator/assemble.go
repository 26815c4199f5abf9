package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	statex "github.com/proposalkit/rfp-assistant/agent/state"
)

// Assemble concatenates the session's current per-agent results in canonical
// order and renders them to a document, returning its path. Unlike Process,
// assembly fails hard: a missing session or an empty result set is an error,
// not a degraded document.
func (o *Orchestrator) Assemble(ctx context.Context, sessionID string, format contractx.ExportFormat) (string, error) {
	st, err := o.store.Load(ctx, sessionID)
	if errors.Is(err, statex.ErrStateNotFound) {
		return "", fmt.Errorf("%w: %s", contractx.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return "", fmt.Errorf("%w: load session %s: %v", contractx.ErrStorageUnavailable, sessionID, err)
	}

	sections := st.Sections()
	if len(sections) == 0 {
		return "", fmt.Errorf("%w: session %s has no agent results", contractx.ErrNothingToExport, sessionID)
	}

	proposal := &contractx.AssembledProposal{
		SessionID:   st.SessionID,
		Sections:    sections,
		GeneratedAt: o.now(),
	}

	// Diagram rendering is best-effort: a failed PNG never blocks the export.
	if diagram := st.DiagramResult(); diagram != nil && len(diagram.Components) > 0 {
		diagramPath := filepath.Join(o.outputDir,
			fmt.Sprintf("diagram_%s_%s.png", st.SessionID, proposal.GeneratedAt.Format("20060102_150405")))
		if err := o.exporter.RenderDiagram(diagram, diagramPath); err != nil {
			log.Warn().Err(err).Str("session_id", st.SessionID).Msg("diagram rendering failed")
		} else {
			proposal.DiagramPath = diagramPath
		}
	}

	path, err := o.exporter.Render(ctx, proposal, format)
	if err != nil {
		if errors.Is(err, contractx.ErrExportFailed) || errors.Is(err, contractx.ErrValidation) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", contractx.ErrExportFailed, err)
	}

	log.Info().
		Str("session_id", st.SessionID).
		Str("format", string(format)).
		Int("sections", len(sections)).
		Str("path", path).
		Msg("proposal assembled")
	return path, nil
}
