package types

import "time"

// Offer is an externally sourced job posting. Titre is always present; every
// other field may be empty.
type Offer struct {
	ID                  string     `json:"id"`
	Titre               string     `json:"titre"`
	Entreprise          string     `json:"entreprise,omitempty"`
	Lieu                string     `json:"lieu,omitempty"`
	CodePostal          string     `json:"code_postal,omitempty"`
	TypeContrat         string     `json:"type_contrat,omitempty"`
	Description         string     `json:"description,omitempty"`
	CompetencesRequises []string   `json:"competences_requises,omitempty"`
	Domaine             string     `json:"domaine,omitempty"`
	DatePublication     *time.Time `json:"date_publication,omitempty"`
	Source              string     `json:"source,omitempty"`
	LienCandidature     string     `json:"lien_candidature,omitempty"`
}
