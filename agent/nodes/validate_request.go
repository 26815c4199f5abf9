package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	statex "github.com/proposalkit/rfp-assistant/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
	FilePath  string
}

type GraphOutput struct {
	Turn contractx.Turn
}

// GraphState carries one request through the processing pipeline.
type GraphState struct {
	SessionID string
	Text      string
	FilePath  string
	Now       time.Time

	Session      *statex.SessionState
	DocumentText string
	Agent        contractx.AgentName
	Result       contractx.AgentResult

	Turn     contractx.Turn
	Warnings []string
}

func (s *GraphState) Warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		FilePath:  strings.TrimSpace(in.FilePath),
		Now:       nowFn().UTC(),
	}, nil
}
