package tunnel

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mathieu/jobcoach/internal/types"
)

// Session drives one candidate through the tunnel. It owns the in-progress
// profile, the current step, the per-field error map for that step, and the
// debounced draft persistence. A session belongs to exactly one user session;
// the mutex only guards against the draft-flush timer firing concurrently
// with an edit.
type Session struct {
	mu        sync.Mutex
	key       string
	step      int
	profile   *types.CandidateProfile
	errs      map[string]string
	store     DraftStore
	finalizer Finalizer
	debounce  time.Duration

	pending    *Draft // latest snapshot awaiting persistence
	timer      *time.Timer
	submitting bool
	done       bool
}

// NewSession creates a session for the given draft key, restoring any
// previously persisted draft. A debounce of zero makes draft writes
// synchronous.
func NewSession(ctx context.Context, key string, store DraftStore, finalizer Finalizer, debounce time.Duration) (*Session, error) {
	s := &Session{
		key:       key,
		step:      StepMode,
		profile:   types.NewCandidateProfile(),
		errs:      make(map[string]string),
		store:     store,
		finalizer: finalizer,
		debounce:  debounce,
	}

	draft, err := store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft != nil && draft.Profile != nil {
		s.profile = draft.Profile
		if draft.Step >= StepMode && draft.Step <= StepPreferences {
			s.step = draft.Step
		}
	}

	return s, nil
}

// Step returns the current step (1-7).
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Profile returns a copy of the in-progress profile.
func (s *Session) Profile() *types.CandidateProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Errors returns a copy of the current step's field error map.
func (s *Session) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

// Done reports whether the session reached the terminal (submitted) state.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// UpdateField merges a partial update into the profile, clears the error
// entries of the touched fields and schedules a debounced draft write. No
// validation runs here.
func (s *Session) UpdateField(update Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return &ErrSessionClosed{}
	}

	for _, key := range update.apply(s.profile) {
		delete(s.errs, key)
	}
	s.scheduleSaveLocked()
	return nil
}

// Next validates the current step. On violations it fills the error map and
// returns ErrValidation without advancing. On success it advances one step,
// or triggers the final submission when already at the last step.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()

	if s.done {
		s.mu.Unlock()
		return &ErrSessionClosed{}
	}
	if s.submitting {
		s.mu.Unlock()
		return &ErrSubmitInFlight{}
	}

	// Autonomous mode skips plan selection by auto-assigning the free plan.
	if s.step == StepFormule && s.profile.Mode == types.ModeAutonome && s.profile.Plan == "" {
		s.profile.Plan = types.PlanGratuit
	}

	if errs := validateStep(s.step, s.profile); len(errs) > 0 {
		s.errs = errs
		step := s.step
		s.mu.Unlock()
		return &ErrValidation{Step: step, Fields: errs}
	}

	if s.step < StepPreferences {
		s.step++
		s.errs = make(map[string]string)
		s.scheduleSaveLocked()
		s.mu.Unlock()
		return nil
	}

	s.mu.Unlock()
	return s.submit(ctx)
}

// Back moves one step backwards, stopping at the first step. It never runs
// validation and never touches the profile.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepMode {
		s.step--
		s.scheduleSaveLocked()
	}
}

// JumpBack moves directly to an earlier step. Jumping to the current step is
// a no-op; jumping forward is rejected.
func (s *Session) JumpBack(step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if step > s.step {
		return &ErrForwardJump{From: s.step, To: step}
	}
	if step < StepMode {
		step = StepMode
	}
	if step != s.step {
		s.step = step
		s.scheduleSaveLocked()
	}
	return nil
}

// submit flushes the pending draft, runs the finalizer once, and on success
// clears the persisted draft and closes the session. On failure every piece
// of state is kept for a manual retry.
func (s *Session) submit(ctx context.Context) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return &ErrSubmitInFlight{}
	}
	s.submitting = true
	s.cancelTimerLocked()
	profile := s.profile.Clone()
	s.mu.Unlock()

	// Flush the latest state before the async boundary so nothing is lost if
	// finalization fails mid-way.
	if err := s.store.Save(ctx, s.key, &Draft{Step: StepPreferences, Profile: profile}); err != nil {
		log.Printf("[tunnel] draft flush before submit failed: %v", err)
	}

	err := s.finalizer.Finalize(ctx, profile)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		return &ErrSubmitFailed{Err: err}
	}

	if err := s.store.Clear(ctx, s.key); err != nil {
		log.Printf("[tunnel] draft clear after submit failed: %v", err)
	}
	s.done = true
	s.pending = nil
	return nil
}

// Flush writes any pending draft snapshot immediately.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.cancelTimerLocked()
	draft := s.pending
	s.pending = nil
	s.mu.Unlock()

	if draft == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.key, draft); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	return nil
}

// scheduleSaveLocked snapshots the current state and (re)arms the debounce
// timer. Rapid successive edits coalesce into a single write of the latest
// snapshot. Callers must hold s.mu.
func (s *Session) scheduleSaveLocked() {
	s.pending = &Draft{Step: s.step, Profile: s.profile.Clone()}

	if s.debounce <= 0 {
		draft := s.pending
		s.pending = nil
		if err := s.store.Save(context.Background(), s.key, draft); err != nil {
			log.Printf("[tunnel] draft save failed: %v", err)
		}
		return
	}

	s.cancelTimerLocked()
	s.timer = time.AfterFunc(s.debounce, func() {
		if err := s.Flush(context.Background()); err != nil {
			log.Printf("[tunnel] %v", err)
		}
	})
}

// cancelTimerLocked stops a pending debounce timer. Callers must hold s.mu.
func (s *Session) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
