// Package matching computes compatibility scores between a candidate profile
// and job offers. Scoring is a weighted heuristic over five factors: skills
// overlap (40), title similarity (20), location (15), contract type (15) and
// sector (10). All comparisons are case-insensitive and substring-based, so
// partial matches count ("java" matches "javascript").
package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/mathieu/jobcoach/internal/types"
)

// Maximum points per factor.
const (
	skillsWeight   = 40.0
	titleWeight    = 20.0
	locationWeight = 15.0
	contractWeight = 15.0
	sectorWeight   = 10.0
)

// Score computes the 0-100 compatibility score between a candidate and an
// offer, plus the human-readable reasons behind it. It is pure: neither input
// is mutated, and absent fields degrade to zero contribution instead of
// erroring.
func Score(candidate *types.CandidateProfile, offer *types.Offer) (int, []string) {
	score := 0.0
	var reasons []string

	// 1. Skills overlap
	candidateSkills := splitSkills(candidate.CompetencesTechniques, candidate.CompetencesAutres)
	offerSkills := lowerAll(offer.CompetencesRequises)
	if len(candidateSkills) > 0 && len(offerSkills) > 0 {
		matches := 0
		for _, cs := range candidateSkills {
			if containsAny(offerSkills, cs) {
				matches++
			}
		}
		score += math.Min(float64(matches)/float64(len(offerSkills))*skillsWeight, skillsWeight)
		if matches > 0 {
			reasons = append(reasons, fmt.Sprintf("%d compétence(s) correspondante(s)", matches))
		}
	}

	// 2. Desired job title vs offer title
	best := 0.0
	for _, metier := range candidate.MetiersRecherches {
		if sim := similarity(metier, offer.Titre); sim > best {
			best = sim
		}
	}
	titleScore := best * titleWeight
	score += titleScore
	if titleScore > 10 {
		reasons = append(reasons, "Poste similaire recherché")
	}

	// 3. Location
	lieu := strings.ToLower(offer.Lieu)
	switch {
	case matchesCommune(candidate.CommunesRecherchees, lieu):
		score += locationWeight
		reasons = append(reasons, "Localisation correspondante: "+lieu)
	case len(candidate.CommunesRecherchees) == 0:
		// No preference earns a partial bonus
		score += 10
		reasons = append(reasons, "Localisation flexible")
	}

	// 4. Contract type
	typeContrat := strings.ToLower(offer.TypeContrat)
	if len(candidate.TypesContrat) == 0 || containsOneOf(typeContrat, candidate.TypesContrat) {
		score += contractWeight
		if typeContrat != "" {
			reasons = append(reasons, strings.ToUpper(typeContrat)+" accepté")
		}
	}

	// 5. Sector
	domaine := strings.ToLower(offer.Domaine)
	if len(candidate.SecteursRecherches) == 0 || matchesSector(candidate.SecteursRecherches, domaine) {
		score += sectorWeight
		if domaine != "" {
			reasons = append(reasons, "Secteur: "+domaine)
		}
	}

	return int(math.Round(math.Min(score, 100))), reasons
}

// similarity returns the word-overlap similarity between two strings in [0, 1].
// Words from s1 count as common when they contain, or are contained in, some
// word of s2; the count is divided by the larger word count. Equal strings
// (case-insensitive) score 1.
func similarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0
	}
	str1 := strings.ToLower(strings.TrimSpace(s1))
	str2 := strings.ToLower(strings.TrimSpace(s2))
	if str1 == str2 {
		return 1
	}

	words1 := strings.Fields(str1)
	words2 := strings.Fields(str2)
	common := 0
	for _, w1 := range words1 {
		for _, w2 := range words2 {
			if strings.Contains(w2, w1) || strings.Contains(w1, w2) {
				common++
				break
			}
		}
	}
	return float64(common) / math.Max(float64(len(words1)), float64(len(words2)))
}

// splitSkills tokenizes comma-separated skill strings: lower-cased, trimmed,
// empty tokens dropped.
func splitSkills(fields ...string) []string {
	var tokens []string
	for _, field := range fields {
		for _, raw := range strings.Split(field, ",") {
			token := strings.ToLower(strings.TrimSpace(raw))
			if token != "" {
				tokens = append(tokens, token)
			}
		}
	}
	return tokens
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}

// containsAny reports whether token matches any of candidates by bidirectional
// substring containment.
func containsAny(candidates []string, token string) bool {
	for _, c := range candidates {
		if strings.Contains(c, token) || strings.Contains(token, c) {
			return true
		}
	}
	return false
}

// containsOneOf reports whether haystack contains any of needles, case-insensitively.
func containsOneOf(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func matchesCommune(communes []string, lieu string) bool {
	if lieu == "" {
		return false
	}
	for _, c := range communes {
		if strings.Contains(lieu, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

func matchesSector(secteurs []string, domaine string) bool {
	for _, s := range secteurs {
		sl := strings.ToLower(s)
		if strings.Contains(domaine, sl) || strings.Contains(sl, domaine) {
			return true
		}
	}
	return false
}
