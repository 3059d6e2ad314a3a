package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu/jobcoach/internal/draft"
	"github.com/mathieu/jobcoach/internal/types"
)

// noopFinalizer accepts every submission.
type noopFinalizer struct{ calls int }

func (f *noopFinalizer) Finalize(_ context.Context, _ *types.CandidateProfile) error {
	f.calls++
	return nil
}

func newTunnelServer() (*Server, *noopFinalizer) {
	finalizer := &noopFinalizer{}
	return &Server{
		tunnels: NewTunnelRegistry(draft.NewMemoryStore(0), finalizer, 0),
	}, finalizer
}

func tunnelReq(method, path, sessionID, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}
	return req
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) tunnelState {
	t.Helper()
	var state tunnelState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func TestTunnel_MissingSessionHeader(t *testing.T) {
	s, _ := newTunnelServer()

	rec := httptest.NewRecorder()
	s.handleTunnelState(rec, tunnelReq(http.MethodGet, "/tunnel", "", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTunnel_InitialState(t *testing.T) {
	s, _ := newTunnelServer()

	rec := httptest.NewRecorder()
	s.handleTunnelState(rec, tunnelReq(http.MethodGet, "/tunnel", "s1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, 1, state.Step)
	assert.Equal(t, "mode", state.StepName)
	assert.False(t, state.Done)
	assert.Equal(t, 30, state.Profile.DistanceMax)
}

func TestTunnel_UpdateThenNext(t *testing.T) {
	s, _ := newTunnelServer()

	rec := httptest.NewRecorder()
	s.handleTunnelUpdate(rec, tunnelReq(http.MethodPatch, "/tunnel", "s1", `{"mode":"autonome"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.ModeAutonome, decodeState(t, rec).Profile.Mode)

	rec = httptest.NewRecorder()
	s.handleTunnelNext(rec, tunnelReq(http.MethodPost, "/tunnel/next", "s1", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeState(t, rec).Step)
}

func TestTunnel_NextValidationFailure(t *testing.T) {
	s, _ := newTunnelServer()

	rec := httptest.NewRecorder()
	s.handleTunnelNext(rec, tunnelReq(http.MethodPost, "/tunnel/next", "s1", ""))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Step   int               `json:"step"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
	assert.Equal(t, 1, resp.Step)
	assert.Contains(t, resp.Fields, "mode")
}

func TestTunnel_PasswordNeverEchoed(t *testing.T) {
	s, _ := newTunnelServer()

	rec := httptest.NewRecorder()
	s.handleTunnelUpdate(rec, tunnelReq(http.MethodPatch, "/tunnel", "s1",
		`{"password":"motdepasse","confirm_password":"motdepasse"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "motdepasse")
}

func TestTunnel_BackAndJump(t *testing.T) {
	s, _ := newTunnelServer()

	rec := httptest.NewRecorder()
	s.handleTunnelUpdate(rec, tunnelReq(http.MethodPatch, "/tunnel", "s1", `{"mode":"assiste","plan":"pack_8"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	for i := 0; i < 2; i++ {
		rec = httptest.NewRecorder()
		s.handleTunnelNext(rec, tunnelReq(http.MethodPost, "/tunnel/next", "s1", ""))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, 3, decodeState(t, rec).Step)

	rec = httptest.NewRecorder()
	s.handleTunnelBack(rec, tunnelReq(http.MethodPost, "/tunnel/back", "s1", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeState(t, rec).Step)

	// Jumping forward is rejected, jumping back is not.
	rec = httptest.NewRecorder()
	s.handleTunnelJump(rec, tunnelReq(http.MethodPost, "/tunnel/jump", "s1", `{"step":5}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.handleTunnelJump(rec, tunnelReq(http.MethodPost, "/tunnel/jump", "s1", `{"step":1}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeState(t, rec).Step)
}

func TestTunnel_SessionsAreIsolated(t *testing.T) {
	s, _ := newTunnelServer()

	rec := httptest.NewRecorder()
	s.handleTunnelUpdate(rec, tunnelReq(http.MethodPatch, "/tunnel", "s1", `{"prenom":"Marie"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleTunnelState(rec, tunnelReq(http.MethodGet, "/tunnel", "s2", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeState(t, rec).Profile.Prenom)
}

func TestTunnel_DraftSurvivesRegistryEviction(t *testing.T) {
	store := draft.NewMemoryStore(0)
	s := &Server{tunnels: NewTunnelRegistry(store, &noopFinalizer{}, 0)}

	rec := httptest.NewRecorder()
	s.handleTunnelUpdate(rec, tunnelReq(http.MethodPatch, "/tunnel", "s1", `{"prenom":"Marie"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	// A fresh registry over the same store restores the draft.
	s2 := &Server{tunnels: NewTunnelRegistry(store, &noopFinalizer{}, 0)}
	rec = httptest.NewRecorder()
	s2.handleTunnelState(rec, tunnelReq(http.MethodGet, "/tunnel", "s1", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Marie", decodeState(t, rec).Profile.Prenom)
}
