package types

// Clone returns a deep copy of the profile. Used by the tunnel to snapshot
// drafts without sharing slice or pointer state with further edits.
func (p *CandidateProfile) Clone() *CandidateProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.ServicesAdditionnels = cloneStrings(p.ServicesAdditionnels)
	cp.CategoriesPermis = cloneStrings(p.CategoriesPermis)
	cp.SituationProfessionnelle = cloneStrings(p.SituationProfessionnelle)
	cp.NiveauEtude = cloneStrings(p.NiveauEtude)
	cp.MetiersRecherches = cloneStrings(p.MetiersRecherches)
	cp.SecteursRecherches = cloneStrings(p.SecteursRecherches)
	cp.CommunesRecherchees = cloneStrings(p.CommunesRecherchees)
	cp.TypesContrat = cloneStrings(p.TypesContrat)
	cp.HorairesAcceptes = cloneStrings(p.HorairesAcceptes)
	cp.SalaireSouhaite = cloneStrings(p.SalaireSouhaite)
	cp.TachesAEviter = cloneStrings(p.TachesAEviter)
	cp.CompetencesExtraites = cloneStrings(p.CompetencesExtraites)
	cp.ExperiencesExtraites = cloneStrings(p.ExperiencesExtraites)
	cp.MomentsDisponibles = cloneStrings(p.MomentsDisponibles)
	cp.MoyensContact = cloneStrings(p.MoyensContact)
	cp.SitesEmploi = cloneStrings(p.SitesEmploi)
	cp.SourceDecouverte = cloneStrings(p.SourceDecouverte)

	if p.Formations != nil {
		cp.Formations = append([]Formation(nil), p.Formations...)
	}
	if p.Experiences != nil {
		cp.Experiences = append([]Experience(nil), p.Experiences...)
	}
	cp.PermisConduire = cloneBool(p.PermisConduire)
	cp.VehiculePersonnel = cloneBool(p.VehiculePersonnel)
	cp.Preavis = cloneBool(p.Preavis)
	return &cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
