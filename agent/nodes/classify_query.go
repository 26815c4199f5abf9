package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// ClassifyQuery resolves the request to a specialist. The classifier is
// total, so this node cannot fail on model behavior.
func ClassifyQuery(ctx context.Context, in *GraphState, classifier contractx.Classifier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Agent = classifier.Classify(ctx, in.Text, in.DocumentText != "")
	return in, nil
}
