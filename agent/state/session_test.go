package state

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

func TestRecordTurnLastWriteWins(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	st := NewSessionState("s1", now)

	first := contractx.Turn{
		Query:     "draft it",
		Agent:     contractx.AgentContent,
		Result:    contractx.AgentResult{Agent: contractx.AgentContent, Kind: contractx.ResultText, Text: "v1"},
		CreatedAt: now,
	}
	second := contractx.Turn{
		Query:     "shorter",
		Agent:     contractx.AgentContent,
		Result:    contractx.AgentResult{Agent: contractx.AgentContent, Kind: contractx.ResultText, Text: "v2"},
		CreatedAt: now.Add(time.Minute),
	}

	if err := st.RecordTurn(first); err != nil {
		t.Fatalf("RecordTurn(first) error = %v", err)
	}
	if err := st.RecordTurn(second); err != nil {
		t.Fatalf("RecordTurn(second) error = %v", err)
	}

	if len(st.Turns) != 2 {
		t.Fatalf("expected two turns, got %d", len(st.Turns))
	}
	if len(st.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(st.Results))
	}
	if st.Results[contractx.AgentContent].Text != "v2" {
		t.Fatalf("expected latest result, got %q", st.Results[contractx.AgentContent].Text)
	}
}

func TestRecordTurnRejectsUnknownAgent(t *testing.T) {
	t.Parallel()

	st := NewSessionState("s2", time.Now())
	err := st.RecordTurn(contractx.Turn{Agent: contractx.AgentName("intern")})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSectionsCanonicalOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	st := NewSessionState("s3", now)

	// Insert out of canonical order.
	for _, agent := range []contractx.AgentName{
		contractx.AgentReview,
		contractx.AgentDiagram,
		contractx.AgentStrategist,
	} {
		if err := st.RecordTurn(contractx.Turn{
			Agent:     agent,
			Result:    contractx.AgentResult{Agent: agent, Kind: contractx.ResultText, Text: string(agent)},
			CreatedAt: now,
		}); err != nil {
			t.Fatalf("RecordTurn(%s) error = %v", agent, err)
		}
	}

	sections := st.Sections()
	want := []contractx.AgentName{
		contractx.AgentStrategist,
		contractx.AgentDiagram,
		contractx.AgentReview,
	}
	if len(sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(sections))
	}
	for i, agent := range want {
		if sections[i].Agent != agent {
			t.Fatalf("section %d: expected %s, got %s", i, agent, sections[i].Agent)
		}
		if sections[i].Title != agent.SectionTitle() {
			t.Fatalf("section %d: unexpected title %q", i, sections[i].Title)
		}
	}
}

func TestSectionsEmptyWhenNoResults(t *testing.T) {
	t.Parallel()

	st := NewSessionState("s4", time.Now())
	if sections := st.Sections(); len(sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(sections))
	}
}

func TestDiagramResult(t *testing.T) {
	t.Parallel()

	now := time.Now()
	st := NewSessionState("s5", now)
	if st.DiagramResult() != nil {
		t.Fatal("expected nil diagram before the diagram agent runs")
	}

	diagram := &contractx.Diagram{
		Type:       "architecture",
		Components: []contractx.DiagramComponent{{Name: "API", Kind: "service"}},
	}
	if err := st.RecordTurn(contractx.Turn{
		Agent: contractx.AgentDiagram,
		Result: contractx.AgentResult{
			Agent:   contractx.AgentDiagram,
			Kind:    contractx.ResultDiagram,
			Diagram: diagram,
		},
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("RecordTurn() error = %v", err)
	}

	got := st.DiagramResult()
	if got == nil || len(got.Components) != 1 || got.Components[0].Name != "API" {
		t.Fatalf("unexpected diagram %+v", got)
	}
}

func TestSessionStateSurvivesRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	st := NewSessionState("s6", now)
	st.DocumentText = "the rfp text"
	if err := st.RecordTurn(contractx.Turn{
		Query:     "price it",
		Agent:     contractx.AgentFinancial,
		Result:    contractx.AgentResult{Agent: contractx.AgentFinancial, Kind: contractx.ResultTable, Table: &contractx.CostTable{Rows: []contractx.CostRow{{Item: "Build", Cost: "$1"}}}},
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("RecordTurn() error = %v", err)
	}

	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var restored SessionState
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	restored.EnsureResultsMap()

	if err := restored.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if restored.DocumentText != "the rfp text" {
		t.Fatalf("unexpected document text %q", restored.DocumentText)
	}
	if restored.Results[contractx.AgentFinancial].Table.Rows[0].Item != "Build" {
		t.Fatal("expected table to survive the round trip")
	}
}

func TestValidateRejectsBadState(t *testing.T) {
	t.Parallel()

	st := NewSessionState("", time.Now())
	if err := st.Validate(); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}

	st = NewSessionState("s7", time.Now())
	st.Results[contractx.AgentName("ghost")] = contractx.AgentResult{}
	if err := st.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
