package tunnel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mathieu/jobcoach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory DraftStore recording call counts.
type fakeStore struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	saves  int
	failed bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{drafts: make(map[string]*Draft)}
}

func (f *fakeStore) Load(_ context.Context, key string) (*Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drafts[key], nil
}

func (f *fakeStore) Save(_ context.Context, key string, d *Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return errors.New("storage unavailable")
	}
	f.saves++
	f.drafts[key] = d
	return nil
}

func (f *fakeStore) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, key)
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// fakeFinalizer counts finalizations and can be told to fail or to block
// until released.
type fakeFinalizer struct {
	mu      sync.Mutex
	calls   int
	failErr error
	started chan struct{}
	block   chan struct{}
}

func (f *fakeFinalizer) Finalize(_ context.Context, _ *types.CandidateProfile) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.failErr
}

func str(s string) *string                        { return &s }
func boolean(b bool) *bool                        { return &b }
func mode(m types.ServiceMode) *types.ServiceMode { return &m }
func plan(p types.PlanType) *types.PlanType       { return &p }
func list(items ...string) *[]string              { return &items }

func newTestSession(t *testing.T) (*Session, *fakeStore, *fakeFinalizer) {
	t.Helper()
	store := newFakeStore()
	finalizer := &fakeFinalizer{}
	s, err := NewSession(context.Background(), "session-1", store, finalizer, 0)
	require.NoError(t, err)
	return s, store, finalizer
}

// fillAccountStep applies a complete, valid step-3 payload.
func fillAccountStep(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.UpdateField(Update{
		Prenom:          str("Marie"),
		Nom:             str("Dupont"),
		Email:           str("marie@exemple.be"),
		Telephone:       str("0470 00 00 00"),
		Adresse:         str("Rue Haute 12, Bruxelles"),
		Password:        str("motdepasse"),
		ConfirmPassword: str("motdepasse"),
		AcceptCGU:       boolean(true),
	}))
}

// advanceTo moves a fresh session to the requested step with valid data.
func advanceTo(t *testing.T, s *Session, target int) {
	t.Helper()
	ctx := context.Background()

	steps := []func(){
		func() { require.NoError(t, s.UpdateField(Update{Mode: mode(types.ModeAssiste)})) },
		func() { require.NoError(t, s.UpdateField(Update{Plan: plan(types.PlanMensuel30)})) },
		func() { fillAccountStep(t, s) },
		func() { require.NoError(t, s.UpdateField(Update{SituationProfessionnelle: list("Au chômage")})) },
		func() { require.NoError(t, s.UpdateField(Update{MetiersRecherches: list("Vendeur")})) },
		func() {},
	}
	for i := 0; s.Step() < target; i++ {
		steps[i]()
		require.NoError(t, s.Next(ctx))
	}
	require.Equal(t, target, s.Step())
}

func TestNext_Step1RequiresMode(t *testing.T) {
	s, _, _ := newTestSession(t)

	err := s.Next(context.Background())
	var verr *ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, s.Step())
	assert.Contains(t, s.Errors(), "mode")

	require.NoError(t, s.UpdateField(Update{Mode: mode(types.ModeDelegation)}))
	require.NoError(t, s.Next(context.Background()))
	assert.Equal(t, 2, s.Step())
	assert.Empty(t, s.Errors())
}

func TestNext_AutonomousModeSkipsPlan(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.NoError(t, s.UpdateField(Update{Mode: mode(types.ModeAutonome)}))
	require.NoError(t, s.Next(context.Background()))
	require.Equal(t, 2, s.Step())

	// No plan chosen: the free plan is auto-assigned instead of failing.
	require.NoError(t, s.Next(context.Background()))
	assert.Equal(t, 3, s.Step())
	assert.Equal(t, types.PlanGratuit, s.Profile().Plan)
}

func TestNext_PlanRequiredForAssistedMode(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.NoError(t, s.UpdateField(Update{Mode: mode(types.ModeAssiste)}))
	require.NoError(t, s.Next(context.Background()))

	err := s.Next(context.Background())
	var verr *ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "plan")
	assert.Equal(t, 2, s.Step())
}

func TestNext_AccountStepGating(t *testing.T) {
	s, _, _ := newTestSession(t)
	advanceTo(t, s, 3)

	// Empty email among otherwise valid fields blocks the transition.
	fillAccountStep(t, s)
	require.NoError(t, s.UpdateField(Update{Email: str("")}))

	err := s.Next(context.Background())
	var verr *ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, s.Step())
	assert.Contains(t, s.Errors(), "email")

	// Correcting the email clears its error and unlocks step 4.
	require.NoError(t, s.UpdateField(Update{Email: str("a@b.com")}))
	assert.NotContains(t, s.Errors(), "email")
	require.NoError(t, s.Next(context.Background()))
	assert.Equal(t, 4, s.Step())
}

func TestNext_AccountStepRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		update   Update
		errField string
	}{
		{"malformed email", Update{Email: str("pas-un-email")}, "email"},
		{"short password", Update{Password: str("court"), ConfirmPassword: str("court")}, "password"},
		{"password mismatch", Update{ConfirmPassword: str("autrechose")}, "confirm_password"},
		{"missing CGU", Update{AcceptCGU: boolean(false)}, "accept_cgu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t)
			advanceTo(t, s, 3)
			fillAccountStep(t, s)
			require.NoError(t, s.UpdateField(tt.update))

			err := s.Next(context.Background())
			var verr *ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.errField)
			assert.Equal(t, 3, s.Step())
		})
	}
}

func TestNext_ProjectStepAcceptsCustomMetier(t *testing.T) {
	s, _, _ := newTestSession(t)
	advanceTo(t, s, 5)

	err := s.Next(context.Background())
	var verr *ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "metiers_recherches")

	// A free-text entry satisfies the requirement without a structured choice.
	require.NoError(t, s.UpdateField(Update{MetiersRecherches: list(), MetiersCustom: str("Cariste")}))
	require.NoError(t, s.Next(context.Background()))
	assert.Equal(t, 6, s.Step())
}

func TestNext_ConsentGate(t *testing.T) {
	s, store, finalizer := newTestSession(t)
	advanceTo(t, s, 7)

	// 7 of 8 consents: exactly one error key names the missing flag.
	require.NoError(t, s.UpdateField(Update{Consentements: &types.Consentements{
		InfoExactes:              true,
		AutorisationCandidatures: true,
		AutorisationIdentifiants: true,
		PasGarantie:              true,
		ServiceAdministratif:     true,
		AutorisationContact:      true,
		Engagement:               true,
	}}))
	err := s.Next(context.Background())
	var verr *ErrValidation
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Contains(t, verr.Fields, "consentements.rgpd")
	assert.Equal(t, 7, s.Step())
	assert.Equal(t, 0, finalizer.calls)

	// All 8 consents trigger submission, clear the draft and close the session.
	require.NoError(t, s.UpdateField(Update{Consentements: &types.Consentements{
		InfoExactes:              true,
		AutorisationCandidatures: true,
		AutorisationIdentifiants: true,
		PasGarantie:              true,
		ServiceAdministratif:     true,
		AutorisationContact:      true,
		Engagement:               true,
		RGPD:                     true,
	}}))
	require.NoError(t, s.Next(context.Background()))
	assert.True(t, s.Done())
	assert.Equal(t, 1, finalizer.calls)

	draft, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestDraftResumability(t *testing.T) {
	store := newFakeStore()
	finalizer := &fakeFinalizer{}

	s, err := NewSession(context.Background(), "session-1", store, finalizer, 0)
	require.NoError(t, err)
	require.NoError(t, s.UpdateField(Update{Prenom: str("Marie")}))

	// Simulated reload: a fresh session reads the same store.
	restored, err := NewSession(context.Background(), "session-1", store, finalizer, 0)
	require.NoError(t, err)
	assert.Equal(t, "Marie", restored.Profile().Prenom)
}

func TestDraftRestoresStep(t *testing.T) {
	store := newFakeStore()
	finalizer := &fakeFinalizer{}

	s, err := NewSession(context.Background(), "session-1", store, finalizer, 0)
	require.NoError(t, err)
	advanceTo(t, s, 4)

	restored, err := NewSession(context.Background(), "session-1", store, finalizer, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, restored.Step())
}

func TestBack_NeverValidatesNorMutates(t *testing.T) {
	for target := 2; target <= 7; target++ {
		s, _, _ := newTestSession(t)
		advanceTo(t, s, target)

		before := s.Profile()
		s.Back()

		assert.Equal(t, target-1, s.Step())
		assert.Equal(t, before, s.Profile())
		assert.Empty(t, s.Errors())
	}
}

func TestBack_FloorsAtStepOne(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Back()
	assert.Equal(t, 1, s.Step())
}

func TestJumpBack(t *testing.T) {
	s, _, _ := newTestSession(t)
	advanceTo(t, s, 5)

	require.NoError(t, s.JumpBack(2))
	assert.Equal(t, 2, s.Step())

	var fwd *ErrForwardJump
	err := s.JumpBack(6)
	require.ErrorAs(t, err, &fwd)
	assert.Equal(t, 2, s.Step())
}

func TestSubmit_FailureKeepsState(t *testing.T) {
	s, store, finalizer := newTestSession(t)
	finalizer.failErr = errors.New("backend indisponible")
	advanceTo(t, s, 7)
	require.NoError(t, s.UpdateField(Update{Consentements: &types.Consentements{
		InfoExactes: true, AutorisationCandidatures: true, AutorisationIdentifiants: true,
		PasGarantie: true, ServiceAdministratif: true, AutorisationContact: true,
		Engagement: true, RGPD: true,
	}}))

	err := s.Next(context.Background())
	var sf *ErrSubmitFailed
	require.ErrorAs(t, err, &sf)

	// Still at step 7 with the draft intact, ready for a manual retry.
	assert.Equal(t, 7, s.Step())
	assert.False(t, s.Done())
	draft, lerr := store.Load(context.Background(), "session-1")
	require.NoError(t, lerr)
	require.NotNil(t, draft)
	assert.Equal(t, "Marie", draft.Profile.Prenom)

	// Retry succeeds once the collaborator recovers.
	finalizer.failErr = nil
	require.NoError(t, s.Next(context.Background()))
	assert.True(t, s.Done())
}

func TestSubmit_SecondCallWhileInFlightIsRejected(t *testing.T) {
	s, _, finalizer := newTestSession(t)
	finalizer.started = make(chan struct{}, 1)
	finalizer.block = make(chan struct{})
	advanceTo(t, s, 7)
	require.NoError(t, s.UpdateField(Update{Consentements: &types.Consentements{
		InfoExactes: true, AutorisationCandidatures: true, AutorisationIdentifiants: true,
		PasGarantie: true, ServiceAdministratif: true, AutorisationContact: true,
		Engagement: true, RGPD: true,
	}}))

	done := make(chan error, 1)
	go func() { done <- s.Next(context.Background()) }()

	// Wait until the first submission is inside the finalizer.
	<-finalizer.started

	var inFlight *ErrSubmitInFlight
	require.ErrorAs(t, s.Next(context.Background()), &inFlight)

	close(finalizer.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, finalizer.calls)
}

func TestUpdateField_DebounceCoalescesWrites(t *testing.T) {
	store := newFakeStore()
	s, err := NewSession(context.Background(), "session-1", store, &fakeFinalizer{}, 30*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, s.UpdateField(Update{Prenom: str("M")}))
	require.NoError(t, s.UpdateField(Update{Prenom: str("Ma")}))
	require.NoError(t, s.UpdateField(Update{Prenom: str("Marie")}))

	// Nothing written during the quiet period yet
	assert.Equal(t, 0, store.saveCount())

	require.Eventually(t, func() bool { return store.saveCount() == 1 }, time.Second, 10*time.Millisecond)

	draft, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "Marie", draft.Profile.Prenom)
}

func TestFlush_WritesPendingSnapshot(t *testing.T) {
	store := newFakeStore()
	s, err := NewSession(context.Background(), "session-1", store, &fakeFinalizer{}, time.Hour)
	require.NoError(t, err)

	require.NoError(t, s.UpdateField(Update{Prenom: str("Marie")}))
	require.NoError(t, s.Flush(context.Background()))

	draft, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "Marie", draft.Profile.Prenom)
}
