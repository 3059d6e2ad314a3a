package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mathieu/jobcoach/internal/types"
)

// Candidate is a candidats row: the finalized tunnel profile attached to an
// account. The full profile is stored as JSONB; the columns duplicated out of
// it exist for querying.
type Candidate struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"user_id"`
	Prenom    string                  `json:"prenom"`
	Nom       string                  `json:"nom"`
	Email     string                  `json:"email"`
	Profile   *types.CandidateProfile `json:"profil"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// CreateCandidate stores a finalized profile for the user. Credentials are
// stripped before persisting; they live hashed on the users table only.
func (db *DB) CreateCandidate(ctx context.Context, userID uuid.UUID, profile *types.CandidateProfile) (*Candidate, error) {
	stored := profile.Clone()
	stored.Password = ""
	stored.ConfirmPassword = ""

	profileJSON, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	var c Candidate
	var raw []byte
	err = db.pool.QueryRow(ctx,
		`INSERT INTO candidats (user_id, prenom, nom, email, profil)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, prenom, nom, email, profil, created_at, updated_at`,
		userID, stored.Prenom, stored.Nom, NormalizeEmail(stored.Email), profileJSON,
	).Scan(&c.ID, &c.UserID, &c.Prenom, &c.Nom, &c.Email, &raw, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}

	if err := json.Unmarshal(raw, &c.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &c, nil
}

// GetCandidateByUserID retrieves the candidate attached to a user, nil when absent
func (db *DB) GetCandidateByUserID(ctx context.Context, userID uuid.UUID) (*Candidate, error) {
	var c Candidate
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, prenom, nom, email, profil, created_at, updated_at
		 FROM candidats WHERE user_id = $1`,
		userID,
	).Scan(&c.ID, &c.UserID, &c.Prenom, &c.Nom, &c.Email, &raw, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	if err := json.Unmarshal(raw, &c.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &c, nil
}

// UpdateCandidateProfile replaces the stored profile JSONB
func (db *DB) UpdateCandidateProfile(ctx context.Context, id uuid.UUID, profile *types.CandidateProfile) error {
	stored := profile.Clone()
	stored.Password = ""
	stored.ConfirmPassword = ""

	profileJSON, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE candidats SET profil = $1, updated_at = NOW() WHERE id = $2`,
		profileJSON, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", id)
	}
	return nil
}
