// Package orchestrator wires the per-turn pipeline: validate input, restore
// session state, extract document context, route to a specialist, record and
// persist the turn. It also assembles the session's current results into an
// exportable proposal.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	nodex "github.com/proposalkit/rfp-assistant/agent/nodes"
	statex "github.com/proposalkit/rfp-assistant/agent/state"
	blobx "github.com/proposalkit/rfp-assistant/pkg/blob"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Config struct {
	// OutputDir receives rendered proposals and diagram images.
	OutputDir string
}

type Orchestrator struct {
	store      statex.Store
	blobs      blobx.Store
	classifier contractx.Classifier
	invoker    contractx.Invoker
	extractor  contractx.Extractor
	exporter   contractx.Exporter

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	outputDir string

	now func() time.Time
}

func New(
	store statex.Store,
	blobs blobx.Store,
	classifier contractx.Classifier,
	invoker contractx.Invoker,
	extractor contractx.Extractor,
	exporter contractx.Exporter,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if invoker == nil {
		return nil, errors.New("specialist invoker is required")
	}
	if exporter == nil {
		return nil, errors.New("exporter is required")
	}
	if blobs == nil {
		blobs = noopBlobStore{}
	}
	if extractor == nil {
		extractor = noopExtractor{}
	}

	outputDir := strings.TrimSpace(cfg.OutputDir)
	if outputDir == "" {
		outputDir = "output"
	}

	o := &Orchestrator{
		store:      store,
		blobs:      blobs,
		classifier: classifier,
		invoker:    invoker,
		extractor:  extractor,
		exporter:   exporter,
		outputDir:  outputDir,
		now:        time.Now,
	}

	graphRunner, err := o.compileProcessGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Process runs one user turn through the pipeline. Specialist and persistence
// failures degrade to warnings on the returned turn; only invalid input or a
// broken pipeline produce an error.
func (o *Orchestrator) Process(ctx context.Context, sessionID, text, filePath string) (contractx.Turn, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
		FilePath:  filePath,
	})
	if err != nil {
		return contractx.Turn{}, err
	}

	log.Info().
		Str("session_id", sessionID).
		Str("agent", string(out.Turn.Agent)).
		Int("warnings", len(out.Turn.Warnings)).
		Msg("turn processed")
	return out.Turn, nil
}

// Session returns the stored state for inspection. Missing sessions map to
// ErrSessionNotFound.
func (o *Orchestrator) Session(ctx context.Context, sessionID string) (*statex.SessionState, error) {
	st, err := o.store.Load(ctx, strings.TrimSpace(sessionID))
	if errors.Is(err, statex.ErrStateNotFound) {
		return nil, contractx.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

type noopBlobStore struct{}

func (noopBlobStore) Save(context.Context, string, []byte, string) error { return nil }
func (noopBlobStore) Load(context.Context, string) ([]byte, error) {
	return nil, blobx.ErrNotFound
}

type noopExtractor struct{}

func (noopExtractor) Extract(_ context.Context, filePath string) (*contractx.Document, error) {
	return nil, contractx.ErrExtractionFailed
}
