// Package tunnel implements the seven-step intake wizard state machine.
//
// Step flow:
//
//	1 Mode ──► 2 Formule ──► 3 Compte ──► 4 Situation ──► 5 Projet ──► 6 Documents ──► 7 Préférences ──► submit
//
// Forward navigation is gated by per-step validation; backward navigation is
// always free and never mutates the draft.
package tunnel

import (
	"context"

	"github.com/mathieu/jobcoach/internal/types"
)

// Step bounds.
const (
	StepMode        = 1
	StepFormule     = 2
	StepCompte      = 3
	StepSituation   = 4
	StepProjet      = 5
	StepDocuments   = 6
	StepPreferences = 7
)

// stepNames maps step numbers to their display names.
var stepNames = map[int]string{
	StepMode:        "mode",
	StepFormule:     "formule",
	StepCompte:      "compte",
	StepSituation:   "situation",
	StepProjet:      "projet",
	StepDocuments:   "documents",
	StepPreferences: "preferences",
}

// StepName returns the short name of a step, or "" for out-of-range values.
func StepName(step int) string { return stepNames[step] }

// Draft is the unit persisted between page loads: the current step plus the
// in-progress profile.
type Draft struct {
	Step    int                     `json:"step"`
	Profile *types.CandidateProfile `json:"profile"`
}

// DraftStore persists in-progress drafts keyed by tunnel session id.
// Load returns (nil, nil) when no draft exists for the key.
type DraftStore interface {
	Load(ctx context.Context, key string) (*Draft, error)
	Save(ctx context.Context, key string, draft *Draft) error
	Clear(ctx context.Context, key string) error
}

// Finalizer receives the complete validated profile at the end of the tunnel.
// Idempotency is the implementation's responsibility.
type Finalizer interface {
	Finalize(ctx context.Context, profile *types.CandidateProfile) error
}
