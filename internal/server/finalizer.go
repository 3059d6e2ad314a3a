package server

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/mathieu/jobcoach/internal/config"
	"github.com/mathieu/jobcoach/internal/db"
	"github.com/mathieu/jobcoach/internal/types"
)

// FinalizeStore is the slice of the storage layer tunnel finalization needs.
type FinalizeStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, email, passwordHash, prenom, nom, telephone string) (*db.User, error)
	CreateCandidate(ctx context.Context, userID uuid.UUID, profile *types.CandidateProfile) (*db.Candidate, error)
	LogActivity(ctx context.Context, candidatID uuid.UUID, action string, details any) error
}

// AccountFinalizer turns a completed tunnel profile into a user account and a
// candidate row. It implements tunnel.Finalizer.
type AccountFinalizer struct {
	db             FinalizeStore
	passwordConfig *config.PasswordConfig
}

// NewAccountFinalizer creates a finalizer over the given store.
func NewAccountFinalizer(store FinalizeStore, passwordConfig *config.PasswordConfig) *AccountFinalizer {
	return &AccountFinalizer{
		db:             store,
		passwordConfig: passwordConfig,
	}
}

// Finalize creates the account and candidate. Any error leaves the tunnel
// session intact so the candidate can retry.
func (f *AccountFinalizer) Finalize(ctx context.Context, profile *types.CandidateProfile) error {
	exists, err := f.db.EmailExists(ctx, profile.Email)
	if err != nil {
		return fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return &ErrEmailAlreadyExists{Email: profile.Email}
	}

	passwordHash, err := f.passwordConfig.HashPassword(profile.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := f.db.CreateUser(ctx, profile.Email, passwordHash, profile.Prenom, profile.Nom, profile.Telephone)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	candidate, err := f.db.CreateCandidate(ctx, user.ID, profile)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	if err := f.db.LogActivity(ctx, candidate.ID, db.ActionProfileSubmitted, map[string]any{
		"mode": profile.Mode,
		"plan": profile.Plan,
	}); err != nil {
		log.Printf("[tunnel] Activity log failed: %v", err)
	}

	log.Printf("[tunnel] Profile finalized for candidate %s", candidate.ID)
	return nil
}
