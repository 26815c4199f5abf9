package state

import (
	"errors"
	"fmt"
	"time"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

var (
	ErrNilSessionState = errors.New("session state is nil")
	ErrInvalidSession  = errors.New("session id is empty")
)

// SessionState is the persistent record of one drafting conversation:
// the full append-only turn log, the latest result per agent, and the
// extracted text of the most recently uploaded document.
//
// Results keeps exactly one entry per agent. Re-running an agent overwrites
// its stored result (last write wins) while Turns retains the full history.
type SessionState struct {
	SessionID    string                                        `json:"session_id"`
	Turns        []contractx.Turn                              `json:"turns,omitempty"`
	Results      map[contractx.AgentName]contractx.AgentResult `json:"results,omitempty"`
	DocumentText string                                        `json:"document_text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Results:   make(map[contractx.AgentName]contractx.AgentResult, len(contractx.SectionOrder)),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureResultsMap makes sure s.Results is initialized after deserialization.
func (s *SessionState) EnsureResultsMap() {
	if s.Results == nil {
		s.Results = make(map[contractx.AgentName]contractx.AgentResult, len(contractx.SectionOrder))
	}
}

// RecordTurn appends the turn to the log and upserts its result into the
// per-agent map.
func (s *SessionState) RecordTurn(t contractx.Turn) error {
	if s == nil {
		return ErrNilSessionState
	}
	if _, ok := contractx.ParseAgentName(string(t.Agent)); !ok {
		return fmt.Errorf("%w: unknown agent %q", contractx.ErrValidation, t.Agent)
	}
	s.EnsureResultsMap()
	s.Turns = append(s.Turns, t)
	s.Results[t.Agent] = t.Result
	return nil
}

// Sections returns the session's current results as proposal sections in
// canonical order, skipping agents that have not run.
func (s *SessionState) Sections() []contractx.ProposalSection {
	if s == nil || len(s.Results) == 0 {
		return nil
	}
	sections := make([]contractx.ProposalSection, 0, len(s.Results))
	for _, agent := range contractx.SectionOrder {
		result, ok := s.Results[agent]
		if !ok {
			continue
		}
		sections = append(sections, contractx.ProposalSection{
			Agent:  agent,
			Title:  agent.SectionTitle(),
			Result: result,
		})
	}
	return sections
}

// DiagramResult returns the stored diagram, if the diagram agent has run.
func (s *SessionState) DiagramResult() *contractx.Diagram {
	if s == nil || s.Results == nil {
		return nil
	}
	result, ok := s.Results[contractx.AgentDiagram]
	if !ok {
		return nil
	}
	return result.Diagram
}

func (s *SessionState) Validate() error {
	if s.SessionID == "" {
		return ErrInvalidSession
	}
	for name := range s.Results {
		if _, ok := contractx.ParseAgentName(string(name)); !ok {
			return fmt.Errorf("%w: result map has unknown agent %q", contractx.ErrValidation, name)
		}
	}
	for i, t := range s.Turns {
		if _, ok := contractx.ParseAgentName(string(t.Agent)); !ok {
			return fmt.Errorf("%w: turn %d has unknown agent %q", contractx.ErrValidation, i, t.Agent)
		}
	}
	return nil
}
