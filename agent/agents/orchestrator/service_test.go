package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	statex "github.com/proposalkit/rfp-assistant/agent/state"
)

type fakeStore struct {
	states  map[string]*statex.SessionState
	loadErr error
	saveErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[string]*statex.SessionState)}
}

func (f *fakeStore) Load(ctx context.Context, sessionID string) (*statex.SessionState, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	st, ok := f.states[sessionID]
	if !ok {
		return nil, statex.ErrStateNotFound
	}
	return cloneSessionState(st), nil
}

func (f *fakeStore) Save(ctx context.Context, st *statex.SessionState) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.states[st.SessionID] = cloneSessionState(st)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, sessionID string) error {
	delete(f.states, sessionID)
	return nil
}

type fakeBlobs struct {
	saved   map[string][]byte
	saveErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{saved: make(map[string][]byte)}
}

func (f *fakeBlobs) Save(ctx context.Context, key string, data []byte, contentType string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeBlobs) Load(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.saved[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

type fakeClassifier struct {
	agent contractx.AgentName
	calls int
}

func (f *fakeClassifier) Classify(ctx context.Context, query string, hasDocument bool) contractx.AgentName {
	f.calls++
	return f.agent
}

type invokeRecord struct {
	agent        contractx.AgentName
	query        string
	documentText string
}

type fakeInvoker struct {
	results map[contractx.AgentName]contractx.AgentResult
	calls   []invokeRecord
}

func (f *fakeInvoker) Invoke(ctx context.Context, agent contractx.AgentName, query string, documentText string) contractx.AgentResult {
	f.calls = append(f.calls, invokeRecord{agent: agent, query: query, documentText: documentText})
	if result, ok := f.results[agent]; ok {
		return result
	}
	return contractx.AgentResult{Agent: agent, Kind: contractx.ResultText, Text: "stub " + string(agent)}
}

type fakeExtractor struct {
	doc *contractx.Document
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, filePath string) (*contractx.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type fakeExporter struct {
	renderErr     error
	diagramErr    error
	lastProposal  *contractx.AssembledProposal
	diagramCalls  int
	renderedPaths []string
}

func (f *fakeExporter) Render(ctx context.Context, proposal *contractx.AssembledProposal, format contractx.ExportFormat) (string, error) {
	f.lastProposal = proposal
	if f.renderErr != nil {
		return "", f.renderErr
	}
	path := fmt.Sprintf("output/proposal_%s.%s", proposal.SessionID, format)
	f.renderedPaths = append(f.renderedPaths, path)
	return path, nil
}

func (f *fakeExporter) RenderDiagram(diagram *contractx.Diagram, outputPath string) error {
	f.diagramCalls++
	return f.diagramErr
}

func TestProcessInvalidInput(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, newFakeStore(), newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, &fakeInvoker{}, nil, &fakeExporter{})

	if _, err := o.Process(context.Background(), "   ", "hello", ""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := o.Process(context.Background(), "s1", "   ", ""); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestProcessRoutesAndPersists(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	blobs := newFakeBlobs()
	invoker := &fakeInvoker{
		results: map[contractx.AgentName]contractx.AgentResult{
			contractx.AgentFinancial: {
				Agent: contractx.AgentFinancial,
				Kind:  contractx.ResultTable,
				Table: &contractx.CostTable{
					Rows:  []contractx.CostRow{{Item: "Development", Cost: "$50,000", Duration: "3 months"}},
					Total: "$50,000",
				},
			},
		},
	}

	o := newTestOrchestrator(t, store, blobs,
		&fakeClassifier{agent: contractx.AgentFinancial}, invoker, nil, &fakeExporter{})

	turn, err := o.Process(context.Background(), "session-1", "How much will this cost?", "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if turn.Agent != contractx.AgentFinancial {
		t.Fatalf("expected financial agent, got %s", turn.Agent)
	}
	if turn.Result.Table == nil || turn.Result.Table.Total != "$50,000" {
		t.Fatalf("unexpected result table: %+v", turn.Result.Table)
	}
	if len(turn.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", turn.Warnings)
	}

	saved, ok := store.states["session-1"]
	if !ok {
		t.Fatal("expected session saved")
	}
	if len(saved.Turns) != 1 {
		t.Fatalf("expected one turn, got %d", len(saved.Turns))
	}
	if _, ok := saved.Results[contractx.AgentFinancial]; !ok {
		t.Fatal("expected financial result stored")
	}

	if len(blobs.saved) != 1 {
		t.Fatalf("expected one blob write, got %d", len(blobs.saved))
	}
	for key := range blobs.saved {
		if !strings.HasPrefix(key, "sessions/session-1/financial_") || !strings.HasSuffix(key, ".json") {
			t.Fatalf("unexpected blob key: %s", key)
		}
	}
}

func TestProcessOverwritesAgentResult(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	invoker := &fakeInvoker{
		results: map[contractx.AgentName]contractx.AgentResult{
			contractx.AgentContent: {Agent: contractx.AgentContent, Kind: contractx.ResultText, Text: "draft one"},
		},
	}

	o := newTestOrchestrator(t, store, newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, invoker, nil, &fakeExporter{})

	if _, err := o.Process(context.Background(), "session-2", "write the summary", ""); err != nil {
		t.Fatalf("first Process() error = %v", err)
	}

	invoker.results[contractx.AgentContent] = contractx.AgentResult{
		Agent: contractx.AgentContent, Kind: contractx.ResultText, Text: "draft two",
	}
	if _, err := o.Process(context.Background(), "session-2", "rewrite it shorter", ""); err != nil {
		t.Fatalf("second Process() error = %v", err)
	}

	saved := store.states["session-2"]
	if len(saved.Turns) != 2 {
		t.Fatalf("expected two turns logged, got %d", len(saved.Turns))
	}
	if len(saved.Results) != 1 {
		t.Fatalf("expected one result entry, got %d", len(saved.Results))
	}
	if got := saved.Results[contractx.AgentContent].Text; got != "draft two" {
		t.Fatalf("expected latest result kept, got %q", got)
	}
}

func TestProcessDegradesOnStorageFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.loadErr = errors.New("db down")
	store.saveErr = errors.New("db still down")
	blobs := newFakeBlobs()
	blobs.saveErr = errors.New("bucket gone")

	o := newTestOrchestrator(t, store, blobs,
		&fakeClassifier{agent: contractx.AgentContent}, &fakeInvoker{}, nil, &fakeExporter{})

	turn, err := o.Process(context.Background(), "session-3", "hello", "")
	if err != nil {
		t.Fatalf("Process() must not fail on storage outage, got %v", err)
	}
	if turn.Result.Text == "" {
		t.Fatal("expected a result despite storage outage")
	}
	if len(turn.Warnings) != 3 {
		t.Fatalf("expected load, blob, and save warnings, got %v", turn.Warnings)
	}
}

func TestProcessDocumentContextSticksToSession(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	invoker := &fakeInvoker{}
	extractor := &fakeExtractor{doc: &contractx.Document{Text: "RFP: build a data platform"}}

	o := newTestOrchestrator(t, store, newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentStrategist}, invoker, extractor, &fakeExporter{})

	if _, err := o.Process(context.Background(), "session-4", "analyze this", "/tmp/rfp.pdf"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if invoker.calls[0].documentText != "RFP: build a data platform" {
		t.Fatalf("expected document context on first turn, got %q", invoker.calls[0].documentText)
	}

	// Second turn has no file attached but the session keeps the document.
	if _, err := o.Process(context.Background(), "session-4", "now the architecture", ""); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if invoker.calls[1].documentText != "RFP: build a data platform" {
		t.Fatalf("expected document context to persist, got %q", invoker.calls[1].documentText)
	}
}

func TestProcessExtractionFailureWarns(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{err: contractx.ErrExtractionFailed}
	invoker := &fakeInvoker{}

	o := newTestOrchestrator(t, newFakeStore(), newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, invoker, extractor, &fakeExporter{})

	turn, err := o.Process(context.Background(), "session-5", "summarize the attachment", "/tmp/broken.pdf")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(turn.Warnings) != 1 || !strings.Contains(turn.Warnings[0], "extraction failed") {
		t.Fatalf("expected extraction warning, got %v", turn.Warnings)
	}
	if invoker.calls[0].documentText != "" {
		t.Fatalf("expected no document context, got %q", invoker.calls[0].documentText)
	}
}

func TestProcessPlaceholderResultWarns(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{
		results: map[contractx.AgentName]contractx.AgentResult{
			contractx.AgentReview: {
				Agent:       contractx.AgentReview,
				Kind:        contractx.ResultText,
				Text:        "Review unavailable: model offline",
				Placeholder: true,
			},
		},
	}

	o := newTestOrchestrator(t, newFakeStore(), newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentReview}, invoker, nil, &fakeExporter{})

	turn, err := o.Process(context.Background(), "session-6", "review the draft", "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(turn.Warnings) != 1 || !strings.Contains(turn.Warnings[0], "placeholder") {
		t.Fatalf("expected placeholder warning, got %v", turn.Warnings)
	}
}

func TestAssembleCanonicalOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	st := statex.NewSessionState("session-7", now)
	for _, agent := range []contractx.AgentName{
		contractx.AgentFinancial,
		contractx.AgentStrategist,
		contractx.AgentReview,
	} {
		if err := st.RecordTurn(contractx.Turn{
			Query:     "q",
			Agent:     agent,
			Result:    contractx.AgentResult{Agent: agent, Kind: contractx.ResultText, Text: "body " + string(agent)},
			CreatedAt: now,
		}); err != nil {
			t.Fatalf("RecordTurn(%s) error = %v", agent, err)
		}
	}

	store := newFakeStore()
	store.states["session-7"] = st
	exporter := &fakeExporter{}

	o := newTestOrchestrator(t, store, newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, &fakeInvoker{}, nil, exporter)

	path, err := o.Assemble(context.Background(), "session-7", contractx.FormatDOCX)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if path == "" {
		t.Fatal("expected a rendered path")
	}

	want := []contractx.AgentName{
		contractx.AgentStrategist,
		contractx.AgentFinancial,
		contractx.AgentReview,
	}
	got := exporter.lastProposal.Sections
	if len(got) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(got))
	}
	for i, agent := range want {
		if got[i].Agent != agent {
			t.Fatalf("section %d: expected %s, got %s", i, agent, got[i].Agent)
		}
	}
	if exporter.diagramCalls != 0 {
		t.Fatalf("expected no diagram rendering, got %d calls", exporter.diagramCalls)
	}
}

func TestAssembleSessionNotFound(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, newFakeStore(), newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, &fakeInvoker{}, nil, &fakeExporter{})

	_, err := o.Assemble(context.Background(), "missing", contractx.FormatPDF)
	if !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAssembleNothingToExport(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.states["session-8"] = statex.NewSessionState("session-8", now)

	o := newTestOrchestrator(t, store, newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, &fakeInvoker{}, nil, &fakeExporter{})

	_, err := o.Assemble(context.Background(), "session-8", contractx.FormatDOCX)
	if !errors.Is(err, contractx.ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestAssembleRendersDiagram(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	st := statex.NewSessionState("session-9", now)
	if err := st.RecordTurn(contractx.Turn{
		Query: "draw the architecture",
		Agent: contractx.AgentDiagram,
		Result: contractx.AgentResult{
			Agent: contractx.AgentDiagram,
			Kind:  contractx.ResultDiagram,
			Diagram: &contractx.Diagram{
				Type: "architecture",
				Components: []contractx.DiagramComponent{
					{Name: "API", Kind: "service", Connections: []string{"DB"}},
					{Name: "DB", Kind: "database"},
				},
			},
		},
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("RecordTurn() error = %v", err)
	}

	store := newFakeStore()
	store.states["session-9"] = st
	exporter := &fakeExporter{}

	o := newTestOrchestrator(t, store, newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, &fakeInvoker{}, nil, exporter)

	if _, err := o.Assemble(context.Background(), "session-9", contractx.FormatPDF); err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if exporter.diagramCalls != 1 {
		t.Fatalf("expected one diagram render, got %d", exporter.diagramCalls)
	}
	if exporter.lastProposal.DiagramPath == "" {
		t.Fatal("expected diagram path on proposal")
	}

	// A failed PNG must not block the document export.
	exporter.diagramErr = errors.New("font missing")
	if _, err := o.Assemble(context.Background(), "session-9", contractx.FormatPDF); err != nil {
		t.Fatalf("Assemble() with diagram failure error = %v", err)
	}
	if exporter.lastProposal.DiagramPath != "" {
		t.Fatal("expected no diagram path after render failure")
	}
}

func TestAssembleExportFailure(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	st := statex.NewSessionState("session-10", now)
	if err := st.RecordTurn(contractx.Turn{
		Query:     "q",
		Agent:     contractx.AgentContent,
		Result:    contractx.AgentResult{Agent: contractx.AgentContent, Kind: contractx.ResultText, Text: "body"},
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("RecordTurn() error = %v", err)
	}

	store := newFakeStore()
	store.states["session-10"] = st
	exporter := &fakeExporter{renderErr: errors.New("disk full")}

	o := newTestOrchestrator(t, store, newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, &fakeInvoker{}, nil, exporter)

	_, err := o.Assemble(context.Background(), "session-10", contractx.FormatDOCX)
	if !errors.Is(err, contractx.ErrExportFailed) {
		t.Fatalf("expected ErrExportFailed, got %v", err)
	}
}

func TestSessionLookup(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.states["session-11"] = statex.NewSessionState("session-11", now)

	o := newTestOrchestrator(t, store, newFakeBlobs(),
		&fakeClassifier{agent: contractx.AgentContent}, &fakeInvoker{}, nil, &fakeExporter{})

	st, err := o.Session(context.Background(), "session-11")
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if st.SessionID != "session-11" {
		t.Fatalf("unexpected session id %q", st.SessionID)
	}

	if _, err := o.Session(context.Background(), "nope"); !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func newTestOrchestrator(
	t *testing.T,
	store statex.Store,
	blobs *fakeBlobs,
	routing contractx.Classifier,
	invoker contractx.Invoker,
	extractor contractx.Extractor,
	exporter contractx.Exporter,
) *Orchestrator {
	t.Helper()
	o, err := New(store, blobs, routing, invoker, extractor, exporter, Config{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func cloneSessionState(in *statex.SessionState) *statex.SessionState {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	var out statex.SessionState
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	out.EnsureResultsMap()
	return &out
}
