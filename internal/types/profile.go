// Package types provides type definitions for structured data shared across the jobcoach system.
package types

// ServiceMode identifies the assistance tier chosen at the first tunnel step.
type ServiceMode string

// Service modes.
const (
	ModeAutonome   ServiceMode = "autonome"
	ModeAssiste    ServiceMode = "assiste"
	ModeDelegation ServiceMode = "delegation"
)

// ValidServiceMode reports whether m is one of the enumerated service modes.
func ValidServiceMode(m ServiceMode) bool {
	switch m {
	case ModeAutonome, ModeAssiste, ModeDelegation:
		return true
	}
	return false
}

// PlanType identifies the subscription plan chosen at the pricing step.
type PlanType string

// Plans. PlanGratuit is auto-assigned for the autonomous mode.
const (
	PlanGratuit            PlanType = "gratuit"
	PlanPack8              PlanType = "pack_8"
	PlanMensuel30          PlanType = "mensuel_30"
	PlanPack15             PlanType = "pack_15"
	PlanPremiumMensuel     PlanType = "premium_mensuel"
	PlanPremiumTrimestriel PlanType = "premium_trimestriel"
)

// Formation is a single education record entered during the tunnel.
type Formation struct {
	Type          string `json:"type"`
	Intitule      string `json:"intitule"`
	Etablissement string `json:"etablissement"`
	Lieu          string `json:"lieu"`
	Obtenu        bool   `json:"obtenu"`
	DateDebut     string `json:"date_debut"`
	DateFin       string `json:"date_fin"`
}

// Experience is a single prior-employment record entered during the tunnel.
type Experience struct {
	Entreprise  string `json:"entreprise"`
	Poste       string `json:"poste"`
	Ville       string `json:"ville"`
	DateDebut   string `json:"date_debut"`
	DateFin     string `json:"date_fin"`
	TypeContrat string `json:"type_contrat"`
	Missions    string `json:"missions"`
}

// Consentements holds the eight acknowledgments required before final submission.
// Every flag must be true for the profile to be submitted.
type Consentements struct {
	InfoExactes              bool `json:"info_exactes"`
	AutorisationCandidatures bool `json:"autorisation_candidatures"`
	AutorisationIdentifiants bool `json:"autorisation_identifiants"`
	PasGarantie              bool `json:"pas_garantie"`
	ServiceAdministratif     bool `json:"service_administratif"`
	AutorisationContact      bool `json:"autorisation_contact"`
	Engagement               bool `json:"engagement"`
	RGPD                     bool `json:"rgpd"`
}

// All reports whether every consent flag is set.
func (c Consentements) All() bool {
	return c.InfoExactes && c.AutorisationCandidatures && c.AutorisationIdentifiants &&
		c.PasGarantie && c.ServiceAdministratif && c.AutorisationContact &&
		c.Engagement && c.RGPD
}

// Missing returns the JSON names of the consent flags still unset, in declaration order.
func (c Consentements) Missing() []string {
	var missing []string
	checks := []struct {
		name string
		set  bool
	}{
		{"info_exactes", c.InfoExactes},
		{"autorisation_candidatures", c.AutorisationCandidatures},
		{"autorisation_identifiants", c.AutorisationIdentifiants},
		{"pas_garantie", c.PasGarantie},
		{"service_administratif", c.ServiceAdministratif},
		{"autorisation_contact", c.AutorisationContact},
		{"engagement", c.Engagement},
		{"rgpd", c.RGPD},
	}
	for _, check := range checks {
		if !check.set {
			missing = append(missing, check.name)
		}
	}
	return missing
}

// CandidateProfile is the candidate record built incrementally across the seven
// tunnel steps and later consumed by the matching engine. Field names follow the
// candidats table columns.
type CandidateProfile struct {
	// Step 1 - service mode
	Mode ServiceMode `json:"mode,omitempty"`

	// Step 2 - plan
	Plan                 PlanType `json:"plan,omitempty"`
	ServicesAdditionnels []string `json:"services_additionnels,omitempty"`

	// Step 3 - account and identity
	Prenom           string `json:"prenom"`
	Nom              string `json:"nom"`
	Email            string `json:"email"`
	Telephone        string `json:"telephone"`
	Adresse          string `json:"adresse"`
	Password         string `json:"password,omitempty"`
	ConfirmPassword  string `json:"confirm_password,omitempty"`
	AcceptCGU        bool   `json:"accept_cgu"`
	AcceptNewsletter bool   `json:"accept_newsletter"`

	// Driving permit and vehicle
	PermisConduire    *bool    `json:"permis_conduire,omitempty"`
	CategoriesPermis  []string `json:"categories_permis,omitempty"`
	VehiculePersonnel *bool    `json:"vehicule_personnel,omitempty"`

	// Step 4 - professional situation
	SituationProfessionnelle []string `json:"situation_professionnelle,omitempty"`
	Preavis                  *bool    `json:"preavis,omitempty"`
	Disponibilite            string   `json:"disponibilite,omitempty"`

	Formations  []Formation `json:"formations,omitempty"`
	NiveauEtude []string    `json:"niveau_etude,omitempty"`

	Experiences []Experience `json:"experiences,omitempty"`

	CompetencesTechniques string `json:"competences_techniques,omitempty"`
	CompetencesAutres     string `json:"competences_autres,omitempty"`

	// Step 5 - professional project
	MetiersRecherches   []string `json:"metiers_recherches,omitempty"`
	MetiersCustom       string   `json:"metiers_custom,omitempty"`
	SecteursRecherches  []string `json:"secteurs_recherches,omitempty"`
	MetiersExclus       string   `json:"metiers_exclus,omitempty"`
	CommunesRecherchees []string `json:"communes_recherchees,omitempty"`
	DistanceMax         int      `json:"distance_max,omitempty"`
	TypesContrat        []string `json:"types_contrat,omitempty"`
	HorairesAcceptes    []string `json:"horaires_acceptes,omitempty"`
	SalaireSouhaite     []string `json:"salaire_souhaite,omitempty"`
	TachesAEviter       []string `json:"taches_a_eviter,omitempty"`

	// Step 6 - documents (opaque storage references, populated elsewhere)
	CvURL               string `json:"cv_url,omitempty"`
	LettreMotivationURL string `json:"lettre_motivation_url,omitempty"`
	DiplomesURL         string `json:"diplomes_url,omitempty"`
	CertificatsURL      string `json:"certificats_url,omitempty"`

	// Extracted by the CV parsing collaborator; carried as data only
	CompetencesExtraites []string `json:"competences_extraites,omitempty"`
	ExperiencesExtraites []string `json:"experiences_extraites,omitempty"`
	ScoreCv              int      `json:"score_cv,omitempty"`

	// Step 7 - communication preferences
	FrequenceSuivi           string   `json:"frequence_suivi,omitempty"`
	MomentsDisponibles       []string `json:"moments_disponibles,omitempty"`
	MoyensContact            []string `json:"moyens_contact,omitempty"`
	AccesForem               string   `json:"acces_forem,omitempty"`
	IdentifiantsForem        string   `json:"identifiants_forem,omitempty"`
	SitesEmploi              []string `json:"sites_emploi,omitempty"`
	AccesSitesEmploi         string   `json:"acces_sites_emploi,omitempty"`
	UtiliserComptesExistants string   `json:"utiliser_comptes_existants,omitempty"`
	ComptesAUtiliser         string   `json:"comptes_a_utiliser,omitempty"`
	SourceDecouverte         []string `json:"source_decouverte,omitempty"`

	Consentements Consentements `json:"consentements"`
}

// NewCandidateProfile returns an empty profile with the tunnel's initial defaults.
func NewCandidateProfile() *CandidateProfile {
	return &CandidateProfile{
		DistanceMax: 30,
	}
}
