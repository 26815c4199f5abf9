package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// ExtractDocument runs the extractor when a file accompanies the request and
// stashes the text on the session, so later turns keep the document context.
// A broken attachment must not block a text-only question: extraction
// failures degrade to no document context plus a warning.
func ExtractDocument(ctx context.Context, in *GraphState, extractor contractx.Extractor) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	if in.FilePath != "" {
		doc, err := extractor.Extract(ctx, in.FilePath)
		if err != nil {
			log.Warn().Err(err).Str("file", in.FilePath).Msg("document extraction failed, continuing without document context")
			in.Warn(fmt.Sprintf("document extraction failed: %v", err))
		} else {
			in.Session.DocumentText = doc.Text
		}
	}

	in.DocumentText = in.Session.DocumentText
	return in, nil
}
