package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	statex "github.com/proposalkit/rfp-assistant/agent/state"
)

// LoadOrCreateSession pulls the session record from the store, starting a
// fresh one for an unknown id. A store outage degrades to a fresh in-memory
// session with a warning; the user's answer must not depend on durable
// storage being up.
func LoadOrCreateSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
		in.Session = st
	case errors.Is(err, statex.ErrStateNotFound):
		in.Session = statex.NewSessionState(in.SessionID, in.Now)
	default:
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("session load failed, continuing with fresh state")
		in.Warn(fmt.Sprintf("session load failed: %v", err))
		in.Session = statex.NewSessionState(in.SessionID, in.Now)
	}
	return in, nil
}
