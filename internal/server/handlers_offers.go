package server

import (
	"context"
	"log"
	"net/http"

	"github.com/mathieu/jobcoach/internal/types"
)

const (
	defaultOfferPageSize = 20
	maxOfferPageSize     = 100
)

// OfferStore is the slice of the storage layer the offer listing needs.
type OfferStore interface {
	ListOffers(ctx context.Context, limit, offset int) ([]types.Offer, error)
}

// SyncRunner triggers an on-demand feed sync.
type SyncRunner interface {
	Run(ctx context.Context) (int, error)
}

// handleListOffers serves the public offer listing.
func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultOfferPageSize)
	if limit < 1 || limit > maxOfferPageSize {
		limit = defaultOfferPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	offers, err := s.offers.ListOffers(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[offers] Listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list offers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":  len(offers),
		"limit":  limit,
		"offset": offset,
		"offers": offers,
	})
}

// handleSyncOffers triggers an immediate feed sync.
func (s *Server) handleSyncOffers(w http.ResponseWriter, r *http.Request) {
	if s.sync == nil {
		writeError(w, http.StatusServiceUnavailable, "offer sync is not configured")
		return
	}

	count, err := s.sync.Run(r.Context())
	if err != nil {
		log.Printf("[offers] Sync failed: %v", err)
		writeError(w, http.StatusBadGateway, "offer sync failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"synced":  count,
	})
}
