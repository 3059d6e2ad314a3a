package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mathieu/jobcoach/internal/tunnel"
	"github.com/mathieu/jobcoach/internal/types"
)

// sessionHeader carries the client-chosen tunnel session id.
const sessionHeader = "X-Session-ID"

// TunnelRegistry hands out one Session per session id, restoring persisted
// drafts on first access.
type TunnelRegistry struct {
	mu        sync.Mutex
	sessions  map[string]*tunnel.Session
	store     tunnel.DraftStore
	finalizer tunnel.Finalizer
	debounce  time.Duration
}

// NewTunnelRegistry creates a registry over the given draft store and finalizer.
func NewTunnelRegistry(store tunnel.DraftStore, finalizer tunnel.Finalizer, debounce time.Duration) *TunnelRegistry {
	return &TunnelRegistry{
		sessions:  make(map[string]*tunnel.Session),
		store:     store,
		finalizer: finalizer,
		debounce:  debounce,
	}
}

// Get returns the session for the id, creating it (and restoring its draft)
// on first access.
func (reg *TunnelRegistry) Get(r *http.Request, id string) (*tunnel.Session, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if session, ok := reg.sessions[id]; ok {
		return session, nil
	}

	session, err := tunnel.NewSession(r.Context(), id, reg.store, reg.finalizer, reg.debounce)
	if err != nil {
		return nil, err
	}
	reg.sessions[id] = session
	return session, nil
}

// Remove drops a session from the registry.
func (reg *TunnelRegistry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.sessions, id)
}

// tunnelState is the wire representation of a session.
type tunnelState struct {
	Step     int                     `json:"step"`
	StepName string                  `json:"step_name"`
	Profile  *types.CandidateProfile `json:"profile"`
	Errors   map[string]string       `json:"errors"`
	Done     bool                    `json:"done"`
}

func stateOf(session *tunnel.Session) tunnelState {
	profile := session.Profile()
	// Credentials never travel back to the client.
	profile.Password = ""
	profile.ConfirmPassword = ""

	step := session.Step()
	return tunnelState{
		Step:     step,
		StepName: tunnel.StepName(step),
		Profile:  profile,
		Errors:   session.Errors(),
		Done:     session.Done(),
	}
}

// session resolves the request's tunnel session or writes the error response.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *tunnel.Session {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing "+sessionHeader+" header")
		return nil
	}

	session, err := s.tunnels.Get(r, id)
	if err != nil {
		log.Printf("[tunnel] Session restore failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to open tunnel session")
		return nil
	}
	return session
}

// handleTunnelState serves GET /tunnel.
func (s *Server) handleTunnelState(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

// handleTunnelUpdate serves PATCH /tunnel with a partial profile update.
func (s *Server) handleTunnelUpdate(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}

	var update tunnel.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.UpdateField(update); err != nil {
		s.tunnelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

// handleTunnelNext serves POST /tunnel/next.
func (s *Server) handleTunnelNext(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}

	if err := session.Next(r.Context()); err != nil {
		s.tunnelError(w, err)
		return
	}

	if session.Done() {
		s.tunnels.Remove(r.Header.Get(sessionHeader))
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

// handleTunnelBack serves POST /tunnel/back.
func (s *Server) handleTunnelBack(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	session.Back()
	writeJSON(w, http.StatusOK, stateOf(session))
}

// handleTunnelJump serves POST /tunnel/jump with a target step.
func (s *Server) handleTunnelJump(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}

	var req struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.JumpBack(req.Step); err != nil {
		s.tunnelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

// tunnelError maps tunnel errors to HTTP responses.
func (s *Server) tunnelError(w http.ResponseWriter, err error) {
	var validation *tunnel.ErrValidation
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation_failed",
			"step":   validation.Step,
			"fields": validation.Fields,
		})
		return
	}

	var inFlight *tunnel.ErrSubmitInFlight
	if errors.As(err, &inFlight) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	var closed *tunnel.ErrSessionClosed
	if errors.As(err, &closed) {
		writeError(w, http.StatusGone, err.Error())
		return
	}

	var forward *tunnel.ErrForwardJump
	if errors.As(err, &forward) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var failed *tunnel.ErrSubmitFailed
	if errors.As(err, &failed) {
		log.Printf("[tunnel] Submission failed: %v", failed.Err)
		writeError(w, http.StatusBadGateway, "submission failed, state kept for retry")
		return
	}

	log.Printf("[tunnel] Unexpected error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
