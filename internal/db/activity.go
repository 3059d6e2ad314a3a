package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Activity action types.
const (
	ActionOfferSuggested   = "OFFER_SUGGESTED"
	ActionProfileSubmitted = "PROFILE_SUBMITTED"
)

// LogActivity appends an entry to the candidate activity log. Callers treat
// it as fire-and-forget and only log the returned error.
func (db *DB) LogActivity(ctx context.Context, candidatID uuid.UUID, action string, details any) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal activity details: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO log_activite (candidat_id, type_action, details)
		 VALUES ($1, $2, $3)`,
		candidatID, action, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}
