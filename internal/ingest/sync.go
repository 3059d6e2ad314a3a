package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/mathieu/jobcoach/internal/types"
)

const (
	syncPageSize = 50
	syncMaxPages = 10
)

// OfferWriter is the slice of the storage layer the syncer needs.
type OfferWriter interface {
	UpsertOffer(ctx context.Context, offer *types.Offer) error
	DeactivateMissingOffers(ctx context.Context, seenIDs []string) (int64, error)
}

// Syncer pulls the full feed and reconciles it with the offres table.
type Syncer struct {
	fetcher *FeedFetcher
	store   OfferWriter
}

// NewSyncer creates a Syncer over the given fetcher and store.
func NewSyncer(fetcher *FeedFetcher, store OfferWriter) *Syncer {
	return &Syncer{fetcher: fetcher, store: store}
}

// Run fetches the feed page by page, upserts every offer and deactivates the
// ones no longer present. It returns the number of offers upserted.
func (s *Syncer) Run(ctx context.Context) (int, error) {
	var seen []string

	for page := 0; page < syncMaxPages; page++ {
		offers, err := s.fetcher.Fetch(ctx, "", syncPageSize, page*syncPageSize)
		if err != nil {
			return len(seen), fmt.Errorf("failed to fetch feed page %d: %w", page, err)
		}
		if len(offers) == 0 {
			break
		}

		for i := range offers {
			if err := s.store.UpsertOffer(ctx, &offers[i]); err != nil {
				return len(seen), err
			}
			seen = append(seen, offers[i].ID)
		}

		if len(offers) < syncPageSize {
			break
		}
	}

	if len(seen) > 0 {
		deactivated, err := s.store.DeactivateMissingOffers(ctx, seen)
		if err != nil {
			return len(seen), err
		}
		if deactivated > 0 {
			log.Printf("[ingest] Deactivated %d stale offer(s)", deactivated)
		}
	}

	return len(seen), nil
}
