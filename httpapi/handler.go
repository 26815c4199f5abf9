// Package httpapi exposes the assistant over HTTP: process a turn, inspect a
// session, assemble the proposal.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/proposalkit/rfp-assistant/agent/agents/orchestrator"
	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

type Handler struct {
	svc *orchestrator.Orchestrator

	// locks serializes turns per session; concurrent turns on different
	// sessions proceed in parallel.
	locks sync.Map
}

func NewHandler(svc *orchestrator.Orchestrator) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/process", h.handleProcess)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Post("/sessions/{sessionID}/assemble", h.handleAssemble)
}

func (h *Handler) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := h.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

type processRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	FilePath  string `json:"file_path"`
}

type processResponse struct {
	SessionID string         `json:"session_id"`
	Turn      contractx.Turn `json:"turn"`
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	var payload processRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	sessionID := strings.TrimSpace(payload.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	mu := h.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	turn, err := h.svc.Process(r.Context(), sessionID, payload.Text, payload.FilePath)
	if err != nil {
		if errors.Is(err, orchestrator.ErrInvalidMessage) || errors.Is(err, orchestrator.ErrInvalidSession) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("process failed")
		respondError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	respondJSON(w, http.StatusOK, processResponse{SessionID: sessionID, Turn: turn})
}

type sessionResponse struct {
	SessionID string                                        `json:"session_id"`
	Turns     []contractx.Turn                              `json:"turns"`
	Results   map[contractx.AgentName]contractx.AgentResult `json:"results"`
	UpdatedAt string                                        `json:"updated_at"`
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	st, err := h.svc.Session(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, contractx.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("session lookup failed")
		respondError(w, http.StatusInternalServerError, "session lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		SessionID: st.SessionID,
		Turns:     st.Turns,
		Results:   st.Results,
		UpdatedAt: st.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

type assembleRequest struct {
	Format string `json:"format"`
}

type assembleResponse struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
	Path      string `json:"path"`
}

func (h *Handler) handleAssemble(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload assembleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	format, ok := contractx.ParseExportFormat(payload.Format)
	if !ok {
		respondError(w, http.StatusBadRequest, "format must be docx or pdf")
		return
	}

	mu := h.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	path, err := h.svc.Assemble(r.Context(), sessionID, format)
	if err != nil {
		switch {
		case errors.Is(err, contractx.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, contractx.ErrNothingToExport):
			respondError(w, http.StatusConflict, "session has no agent results to export")
		case errors.Is(err, contractx.ErrValidation):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Str("session_id", sessionID).Msg("assemble failed")
			respondError(w, http.StatusInternalServerError, "assembly failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, assembleResponse{
		SessionID: sessionID,
		Format:    string(format),
		Path:      path,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
