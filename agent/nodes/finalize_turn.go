package orchestratornode

import (
	"fmt"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// FinalizeTurn emits the turn for the caller, folding in warnings raised
// after the turn was recorded (persistence runs last).
func FinalizeTurn(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	turn := in.Turn
	turn.Warnings = append([]string(nil), in.Warnings...)
	return GraphOutput{Turn: turn}, nil
}
