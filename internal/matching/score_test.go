package matching

import (
	"testing"

	"github.com/mathieu/jobcoach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_WithinBounds(t *testing.T) {
	candidates := []*types.CandidateProfile{
		{},
		{
			CompetencesTechniques: "Excel, Word, JavaScript",
			MetiersRecherches:     []string{"Développeur web"},
			CommunesRecherchees:   []string{"Bruxelles"},
			TypesContrat:          []string{"CDI"},
			SecteursRecherches:    []string{"Informatique et IT"},
		},
		{
			CompetencesTechniques: "java, go, sql, docker, kubernetes, terraform",
			MetiersRecherches:     []string{"Développeur backend", "Ingénieur logiciel"},
		},
	}
	offers := []*types.Offer{
		{},
		{Titre: "Développeur web"},
		{
			Titre:               "Développeur Full Stack",
			Lieu:                "Bruxelles",
			TypeContrat:         "CDI",
			Domaine:             "Informatique",
			CompetencesRequises: []string{"JavaScript", "Go", "SQL"},
		},
	}

	for _, c := range candidates {
		for _, o := range offers {
			score, _ := Score(c, o)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestScore_EmptyInputsFloor(t *testing.T) {
	// A fully unconstrained candidate still collects the three "no preference"
	// bonuses: 10 location + 15 contract + 10 sector.
	score, reasons := Score(&types.CandidateProfile{}, &types.Offer{})
	assert.Equal(t, 35, score)
	assert.Contains(t, reasons, "Localisation flexible")
}

func TestScore_ExampleScenario(t *testing.T) {
	candidate := &types.CandidateProfile{
		MetiersRecherches:     []string{"Développeur web"},
		SecteursRecherches:    []string{"Informatique et IT"},
		CommunesRecherchees:   []string{"Bruxelles"},
		CompetencesTechniques: "Excel, Word",
	}
	offer := &types.Offer{
		Titre:               "Développeur Full Stack",
		Domaine:             "Informatique",
		Lieu:                "Bruxelles",
		CompetencesRequises: []string{"JavaScript"},
		TypeContrat:         "CDI",
	}

	score, reasons := Score(candidate, offer)

	// Skills 0, title 20/3, location 15, contract 15, sector 10 -> 46.67 rounded
	assert.Equal(t, 47, score)
	assert.Contains(t, reasons, "Localisation correspondante: bruxelles")
	assert.Contains(t, reasons, "CDI accepté")
	assert.Contains(t, reasons, "Secteur: informatique")
	assert.NotContains(t, reasons, "Poste similaire recherché")
}

func TestScore_SkillMonotonicity(t *testing.T) {
	offer := &types.Offer{
		Titre:               "Data Analyst",
		CompetencesRequises: []string{"SQL", "Python"},
	}
	without := &types.CandidateProfile{CompetencesTechniques: "Excel"}
	with := &types.CandidateProfile{CompetencesTechniques: "Excel, SQL"}

	scoreWithout, _ := Score(without, offer)
	scoreWith, reasons := Score(with, offer)

	assert.GreaterOrEqual(t, scoreWith, scoreWithout)
	assert.Contains(t, reasons, "1 compétence(s) correspondante(s)")
}

func TestScore_PartialSkillTokensMatch(t *testing.T) {
	// Substring matching is bidirectional: "java" counts against "javascript".
	candidate := &types.CandidateProfile{CompetencesTechniques: "java"}
	offer := &types.Offer{Titre: "Dev", CompetencesRequises: []string{"JavaScript"}}

	score, reasons := Score(candidate, offer)
	require.NotEmpty(t, reasons)
	assert.Contains(t, reasons, "1 compétence(s) correspondante(s)")
	// 1/1 matched skills -> full 40, plus the three no-preference bonuses
	assert.Equal(t, 75, score)
}

func TestScore_SkillsCappedAtWeight(t *testing.T) {
	// More candidate matches than offer skills must not exceed the factor cap.
	candidate := &types.CandidateProfile{CompetencesTechniques: "sql, mysql, postgresql"}
	offer := &types.Offer{Titre: "DBA", CompetencesRequises: []string{"SQL"}}

	score, _ := Score(candidate, offer)
	assert.LessOrEqual(t, score, 40+35)
}

func TestScore_ContractRestrictionBlocks(t *testing.T) {
	candidate := &types.CandidateProfile{TypesContrat: []string{"CDI"}}
	offer := &types.Offer{Titre: "Serveur", TypeContrat: "CDD"}

	_, reasons := Score(candidate, offer)
	assert.NotContains(t, reasons, "CDD accepté")

	offer.TypeContrat = "CDI temps plein"
	_, reasons = Score(candidate, offer)
	assert.Contains(t, reasons, "CDI TEMPS PLEIN accepté")
}

func TestScore_LocationMismatchGetsNoBonus(t *testing.T) {
	candidate := &types.CandidateProfile{CommunesRecherchees: []string{"Namur"}}

	withMatch, _ := Score(candidate, &types.Offer{Titre: "X", Lieu: "Namur centre"})
	withoutMatch, _ := Score(candidate, &types.Offer{Titre: "X", Lieu: "Liège"})

	assert.Equal(t, 15, withMatch-withoutMatch)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		s1, s2   string
		expected float64
	}{
		{"exact match ignoring case", "Développeur Web", "développeur web", 1.0},
		{"no overlap", "boulanger", "infirmier", 0.0},
		{"partial word overlap", "développeur web", "développeur full stack", 1.0 / 3.0},
		{"empty input", "", "développeur", 0.0},
		{"substring words count", "dev", "developer senior", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, similarity(tt.s1, tt.s2), 1e-9)
		})
	}
}

func TestSplitSkills(t *testing.T) {
	tokens := splitSkills("Excel, Word, ", " SQL ,,python")
	assert.Equal(t, []string{"excel", "word", "sql", "python"}, tokens)

	assert.Empty(t, splitSkills("", "  ,  "))
}
