package tunnel

import (
	"regexp"
	"strings"

	"github.com/mathieu/jobcoach/internal/types"
)

// emailRe accepts the basic text@text.text shape; stricter RFC checks are
// deliberately not applied at this layer.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateStep returns one message per violated field for the given step, or
// an empty map when the step's invariants hold. It never mutates the profile.
func validateStep(step int, p *types.CandidateProfile) map[string]string {
	errs := make(map[string]string)

	switch step {
	case StepMode:
		if !types.ValidServiceMode(p.Mode) {
			errs["mode"] = "Choisis un mode d'accompagnement"
		}

	case StepFormule:
		// Autonomous mode auto-assigns the free plan before validation runs.
		if p.Plan == "" {
			errs["plan"] = "Choisis une formule"
		}

	case StepCompte:
		if strings.TrimSpace(p.Prenom) == "" {
			errs["prenom"] = "Prénom requis"
		}
		if strings.TrimSpace(p.Nom) == "" {
			errs["nom"] = "Nom requis"
		}
		switch {
		case strings.TrimSpace(p.Email) == "":
			errs["email"] = "Email requis"
		case !emailRe.MatchString(p.Email):
			errs["email"] = "Email invalide"
		}
		if strings.TrimSpace(p.Telephone) == "" {
			errs["telephone"] = "Téléphone requis"
		}
		if strings.TrimSpace(p.Adresse) == "" {
			errs["adresse"] = "Adresse requise"
		}
		if len(p.Password) < 8 {
			errs["password"] = "Le mot de passe doit contenir au moins 8 caractères"
		} else if p.Password != p.ConfirmPassword {
			errs["confirm_password"] = "Les mots de passe ne correspondent pas"
		}
		if !p.AcceptCGU {
			errs["accept_cgu"] = "Tu dois accepter les conditions générales"
		}

	case StepSituation:
		if len(p.SituationProfessionnelle) == 0 {
			errs["situation_professionnelle"] = "Sélectionne au moins une situation"
		}

	case StepProjet:
		if len(p.MetiersRecherches) == 0 && strings.TrimSpace(p.MetiersCustom) == "" {
			errs["metiers_recherches"] = "Indique au moins un métier recherché"
		}

	case StepDocuments:
		// Document upload is advisory; nothing blocks here.

	case StepPreferences:
		for _, name := range p.Consentements.Missing() {
			errs["consentements."+name] = "Consentement requis"
		}
	}

	return errs
}
