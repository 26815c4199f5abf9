package orchestratornode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	statex "github.com/proposalkit/rfp-assistant/agent/state"
	blobx "github.com/proposalkit/rfp-assistant/pkg/blob"
)

// PersistSession writes the raw agent output to blob storage and the updated
// session record to the store. Both writes are best-effort at this point:
// the turn has already been produced, and losing durability briefly must not
// lose the user's answer. Failures surface as warnings on the turn.
func PersistSession(ctx context.Context, in *GraphState, store statex.Store, blobs blobx.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	if blobs != nil {
		key := fmt.Sprintf("sessions/%s/%s_%s.json", in.SessionID, in.Agent, in.Now.Format("20060102_150405"))
		if payload, err := json.Marshal(in.Result); err != nil {
			log.Warn().Err(err).Str("session_id", in.SessionID).Msg("marshal agent result for blob storage failed")
			in.Warn(fmt.Sprintf("result archival failed: %v", err))
		} else if err := blobs.Save(ctx, key, payload, "application/json"); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("blob save failed")
			in.Warn(fmt.Sprintf("result archival failed: %v", err))
		}
	}

	if err := store.Save(ctx, in.Session); err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("session save failed, returning turn anyway")
		in.Warn(fmt.Sprintf("session persistence failed: %v", err))
	}
	return in, nil
}
