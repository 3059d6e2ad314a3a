package server

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mathieu/jobcoach/internal/db"
	"github.com/mathieu/jobcoach/internal/matching"
	"github.com/mathieu/jobcoach/internal/server/middleware"
	"github.com/mathieu/jobcoach/internal/types"
)

// activeOfferPool caps how many offers are scored per request.
const activeOfferPool = 100

// MatchStore is the slice of the storage layer the match handler needs.
type MatchStore interface {
	GetCandidateByUserID(ctx context.Context, userID uuid.UUID) (*db.Candidate, error)
	ListActiveOffers(ctx context.Context, limit int) ([]types.Offer, error)
	LogActivity(ctx context.Context, candidatID uuid.UUID, action string, details any) error
}

// matchResponse is the payload for GET /matches.
type matchResponse struct {
	Success      bool              `json:"success"`
	CandidatID   uuid.UUID         `json:"candidat_id"`
	TotalOffres  int               `json:"total_offres"`
	MatchedCount int               `json:"matched_count"`
	Offers       []matching.Result `json:"offers"`
}

// handleMatches ranks the active offers for the authenticated candidate.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	log.Printf("[match-offers] Ranking request for user %s", userID)

	candidate, err := s.matches.GetCandidateByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("[match-offers] Candidate lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load candidate")
		return
	}
	if candidate == nil {
		err := &ErrCandidateNotFound{UserID: userID}
		writeError(w, HTTPStatus(err), err.Error())
		return
	}

	offers, err := s.matches.ListActiveOffers(r.Context(), activeOfferPool)
	if err != nil {
		log.Printf("[match-offers] Offer load failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load offers")
		return
	}

	// -1 marks the parameter as absent so Rank applies its defaults; an
	// explicit min_score=0 keeps every offer.
	minScore := queryInt(r, "min_score", -1)
	limit := queryInt(r, "limit", -1)
	results := matching.Rank(candidate.Profile, offers, minScore, limit)

	log.Printf("[match-offers] Scored %d offer(s), %d kept", len(offers), len(results))

	// Fire-and-forget activity log; the response never waits on it.
	candidatID := candidate.ID
	go func() {
		details := map[string]any{
			"total_offres":  len(offers),
			"matched_count": len(results),
		}
		if err := s.matches.LogActivity(context.Background(), candidatID, db.ActionOfferSuggested, details); err != nil {
			log.Printf("[match-offers] Activity log failed: %v", err)
		}
	}()

	writeJSON(w, http.StatusOK, matchResponse{
		Success:      true,
		CandidatID:   candidate.ID,
		TotalOffres:  len(offers),
		MatchedCount: len(results),
		Offers:       results,
	})
}

// queryInt reads an integer query parameter, returning the default when the
// parameter is absent or malformed.
func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
