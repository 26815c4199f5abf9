package orchestratornode

import (
	"fmt"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// RecordTurn appends the turn to the session log and upserts the agent's
// result (last write wins per agent).
func RecordTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Turn = contractx.Turn{
		Query:     in.Text,
		Agent:     in.Agent,
		Result:    in.Result,
		Warnings:  append([]string(nil), in.Warnings...),
		CreatedAt: in.Now,
	}
	if err := in.Session.RecordTurn(in.Turn); err != nil {
		return nil, err
	}
	in.Session.Touch(in.Now)
	return in, nil
}
