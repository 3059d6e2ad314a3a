package tunnel

import "github.com/mathieu/jobcoach/internal/types"

// Update is a typed partial update of the in-progress profile. Nil fields are
// left untouched; non-nil fields overwrite the corresponding profile field.
// This replaces the original's loosely-typed field-name map with a shape the
// compiler can check.
type Update struct {
	Mode *types.ServiceMode `json:"mode,omitempty"`

	Plan                 *types.PlanType `json:"plan,omitempty"`
	ServicesAdditionnels *[]string       `json:"services_additionnels,omitempty"`

	Prenom           *string `json:"prenom,omitempty"`
	Nom              *string `json:"nom,omitempty"`
	Email            *string `json:"email,omitempty"`
	Telephone        *string `json:"telephone,omitempty"`
	Adresse          *string `json:"adresse,omitempty"`
	Password         *string `json:"password,omitempty"`
	ConfirmPassword  *string `json:"confirm_password,omitempty"`
	AcceptCGU        *bool   `json:"accept_cgu,omitempty"`
	AcceptNewsletter *bool   `json:"accept_newsletter,omitempty"`

	PermisConduire    *bool     `json:"permis_conduire,omitempty"`
	CategoriesPermis  *[]string `json:"categories_permis,omitempty"`
	VehiculePersonnel *bool     `json:"vehicule_personnel,omitempty"`

	SituationProfessionnelle *[]string `json:"situation_professionnelle,omitempty"`
	Preavis                  *bool     `json:"preavis,omitempty"`
	Disponibilite            *string   `json:"disponibilite,omitempty"`

	Formations  *[]types.Formation `json:"formations,omitempty"`
	NiveauEtude *[]string          `json:"niveau_etude,omitempty"`

	Experiences *[]types.Experience `json:"experiences,omitempty"`

	CompetencesTechniques *string `json:"competences_techniques,omitempty"`
	CompetencesAutres     *string `json:"competences_autres,omitempty"`

	MetiersRecherches   *[]string `json:"metiers_recherches,omitempty"`
	MetiersCustom       *string   `json:"metiers_custom,omitempty"`
	SecteursRecherches  *[]string `json:"secteurs_recherches,omitempty"`
	MetiersExclus       *string   `json:"metiers_exclus,omitempty"`
	CommunesRecherchees *[]string `json:"communes_recherchees,omitempty"`
	DistanceMax         *int      `json:"distance_max,omitempty"`
	TypesContrat        *[]string `json:"types_contrat,omitempty"`
	HorairesAcceptes    *[]string `json:"horaires_acceptes,omitempty"`
	SalaireSouhaite     *[]string `json:"salaire_souhaite,omitempty"`
	TachesAEviter       *[]string `json:"taches_a_eviter,omitempty"`

	CvURL               *string `json:"cv_url,omitempty"`
	LettreMotivationURL *string `json:"lettre_motivation_url,omitempty"`
	DiplomesURL         *string `json:"diplomes_url,omitempty"`
	CertificatsURL      *string `json:"certificats_url,omitempty"`

	FrequenceSuivi           *string   `json:"frequence_suivi,omitempty"`
	MomentsDisponibles       *[]string `json:"moments_disponibles,omitempty"`
	MoyensContact            *[]string `json:"moyens_contact,omitempty"`
	AccesForem               *string   `json:"acces_forem,omitempty"`
	IdentifiantsForem        *string   `json:"identifiants_forem,omitempty"`
	SitesEmploi              *[]string `json:"sites_emploi,omitempty"`
	AccesSitesEmploi         *string   `json:"acces_sites_emploi,omitempty"`
	UtiliserComptesExistants *string   `json:"utiliser_comptes_existants,omitempty"`
	ComptesAUtiliser         *string   `json:"comptes_a_utiliser,omitempty"`
	SourceDecouverte         *[]string `json:"source_decouverte,omitempty"`

	Consentements *types.Consentements `json:"consentements,omitempty"`
}

// apply merges the update into the profile and returns the error-map keys to
// clear for the touched fields.
func (u *Update) apply(p *types.CandidateProfile) []string {
	var touched []string
	touch := func(key string) { touched = append(touched, key) }

	if u.Mode != nil {
		p.Mode = *u.Mode
		touch("mode")
	}
	if u.Plan != nil {
		p.Plan = *u.Plan
		touch("plan")
	}
	if u.ServicesAdditionnels != nil {
		p.ServicesAdditionnels = *u.ServicesAdditionnels
		touch("services_additionnels")
	}
	if u.Prenom != nil {
		p.Prenom = *u.Prenom
		touch("prenom")
	}
	if u.Nom != nil {
		p.Nom = *u.Nom
		touch("nom")
	}
	if u.Email != nil {
		p.Email = *u.Email
		touch("email")
	}
	if u.Telephone != nil {
		p.Telephone = *u.Telephone
		touch("telephone")
	}
	if u.Adresse != nil {
		p.Adresse = *u.Adresse
		touch("adresse")
	}
	if u.Password != nil {
		p.Password = *u.Password
		touch("password")
	}
	if u.ConfirmPassword != nil {
		p.ConfirmPassword = *u.ConfirmPassword
		touch("confirm_password")
	}
	if u.AcceptCGU != nil {
		p.AcceptCGU = *u.AcceptCGU
		touch("accept_cgu")
	}
	if u.AcceptNewsletter != nil {
		p.AcceptNewsletter = *u.AcceptNewsletter
		touch("accept_newsletter")
	}
	if u.PermisConduire != nil {
		p.PermisConduire = u.PermisConduire
		touch("permis_conduire")
	}
	if u.CategoriesPermis != nil {
		p.CategoriesPermis = *u.CategoriesPermis
		touch("categories_permis")
	}
	if u.VehiculePersonnel != nil {
		p.VehiculePersonnel = u.VehiculePersonnel
		touch("vehicule_personnel")
	}
	if u.SituationProfessionnelle != nil {
		p.SituationProfessionnelle = *u.SituationProfessionnelle
		touch("situation_professionnelle")
	}
	if u.Preavis != nil {
		p.Preavis = u.Preavis
		touch("preavis")
	}
	if u.Disponibilite != nil {
		p.Disponibilite = *u.Disponibilite
		touch("disponibilite")
	}
	if u.Formations != nil {
		p.Formations = *u.Formations
		touch("formations")
	}
	if u.NiveauEtude != nil {
		p.NiveauEtude = *u.NiveauEtude
		touch("niveau_etude")
	}
	if u.Experiences != nil {
		p.Experiences = *u.Experiences
		touch("experiences")
	}
	if u.CompetencesTechniques != nil {
		p.CompetencesTechniques = *u.CompetencesTechniques
		touch("competences_techniques")
	}
	if u.CompetencesAutres != nil {
		p.CompetencesAutres = *u.CompetencesAutres
		touch("competences_autres")
	}
	if u.MetiersRecherches != nil {
		p.MetiersRecherches = *u.MetiersRecherches
		touch("metiers_recherches")
	}
	if u.MetiersCustom != nil {
		p.MetiersCustom = *u.MetiersCustom
		touch("metiers_custom")
	}
	if u.SecteursRecherches != nil {
		p.SecteursRecherches = *u.SecteursRecherches
		touch("secteurs_recherches")
	}
	if u.MetiersExclus != nil {
		p.MetiersExclus = *u.MetiersExclus
		touch("metiers_exclus")
	}
	if u.CommunesRecherchees != nil {
		p.CommunesRecherchees = *u.CommunesRecherchees
		touch("communes_recherchees")
	}
	if u.DistanceMax != nil {
		p.DistanceMax = *u.DistanceMax
		touch("distance_max")
	}
	if u.TypesContrat != nil {
		p.TypesContrat = *u.TypesContrat
		touch("types_contrat")
	}
	if u.HorairesAcceptes != nil {
		p.HorairesAcceptes = *u.HorairesAcceptes
		touch("horaires_acceptes")
	}
	if u.SalaireSouhaite != nil {
		p.SalaireSouhaite = *u.SalaireSouhaite
		touch("salaire_souhaite")
	}
	if u.TachesAEviter != nil {
		p.TachesAEviter = *u.TachesAEviter
		touch("taches_a_eviter")
	}
	if u.CvURL != nil {
		p.CvURL = *u.CvURL
		touch("cv_url")
	}
	if u.LettreMotivationURL != nil {
		p.LettreMotivationURL = *u.LettreMotivationURL
		touch("lettre_motivation_url")
	}
	if u.DiplomesURL != nil {
		p.DiplomesURL = *u.DiplomesURL
		touch("diplomes_url")
	}
	if u.CertificatsURL != nil {
		p.CertificatsURL = *u.CertificatsURL
		touch("certificats_url")
	}
	if u.FrequenceSuivi != nil {
		p.FrequenceSuivi = *u.FrequenceSuivi
		touch("frequence_suivi")
	}
	if u.MomentsDisponibles != nil {
		p.MomentsDisponibles = *u.MomentsDisponibles
		touch("moments_disponibles")
	}
	if u.MoyensContact != nil {
		p.MoyensContact = *u.MoyensContact
		touch("moyens_contact")
	}
	if u.AccesForem != nil {
		p.AccesForem = *u.AccesForem
		touch("acces_forem")
	}
	if u.IdentifiantsForem != nil {
		p.IdentifiantsForem = *u.IdentifiantsForem
		touch("identifiants_forem")
	}
	if u.SitesEmploi != nil {
		p.SitesEmploi = *u.SitesEmploi
		touch("sites_emploi")
	}
	if u.AccesSitesEmploi != nil {
		p.AccesSitesEmploi = *u.AccesSitesEmploi
		touch("acces_sites_emploi")
	}
	if u.UtiliserComptesExistants != nil {
		p.UtiliserComptesExistants = *u.UtiliserComptesExistants
		touch("utiliser_comptes_existants")
	}
	if u.ComptesAUtiliser != nil {
		p.ComptesAUtiliser = *u.ComptesAUtiliser
		touch("comptes_a_utiliser")
	}
	if u.SourceDecouverte != nil {
		p.SourceDecouverte = *u.SourceDecouverte
		touch("source_decouverte")
	}
	if u.Consentements != nil {
		p.Consentements = *u.Consentements
		for _, name := range []string{
			"info_exactes", "autorisation_candidatures", "autorisation_identifiants",
			"pas_garantie", "service_administratif", "autorisation_contact",
			"engagement", "rgpd",
		} {
			touch("consentements." + name)
		}
	}

	return touched
}
