package matching

import (
	"sort"

	"github.com/mathieu/jobcoach/internal/types"
)

// Defaults applied by Rank when the caller passes negative values. Zero is
// honored: min_score=0 keeps every offer, limit=0 returns none.
const (
	DefaultMinScore = 50
	DefaultLimit    = 10
)

// Result pairs an offer with its computed score and the reasons behind it.
type Result struct {
	Offer   types.Offer `json:"offer"`
	Score   int         `json:"score_matching"`
	Reasons []string    `json:"raisons_matching"`
}

// Rank scores every offer against the candidate, keeps those at or above
// minScore, sorts descending by score (stable, so ties keep their original
// relative order) and truncates the list to limit entries.
func Rank(candidate *types.CandidateProfile, offers []types.Offer, minScore, limit int) []Result {
	if minScore < 0 {
		minScore = DefaultMinScore
	}
	if limit < 0 {
		limit = DefaultLimit
	}

	results := make([]Result, 0, len(offers))
	for _, offer := range offers {
		score, reasons := Score(candidate, &offer)
		if score < minScore {
			continue
		}
		results = append(results, Result{Offer: offer, Score: score, Reasons: reasons})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
