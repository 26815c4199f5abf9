package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// InvokeSpecialist runs the resolved agent. The invoker degrades internally,
// so the only signal of trouble is a placeholder result, which surfaces as a
// warning on the turn.
func InvokeSpecialist(ctx context.Context, in *GraphState, invoker contractx.Invoker) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Result = invoker.Invoke(ctx, in.Agent, in.Text, in.DocumentText)
	if in.Result.Placeholder {
		in.Warn(fmt.Sprintf("%s returned placeholder content", in.Agent))
	}
	return in, nil
}
