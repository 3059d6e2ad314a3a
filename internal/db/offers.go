package db

import (
	"context"
	"fmt"

	"github.com/mathieu/jobcoach/internal/types"
)

const offerColumns = `id, titre, entreprise, lieu, code_postal, type_contrat,
	description, competences_requises, domaine, date_publication, source, lien_candidature`

// UpsertOffer inserts an offer or refreshes an existing one by its feed id
func (db *DB) UpsertOffer(ctx context.Context, offer *types.Offer) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO offres (id, titre, entreprise, lieu, code_postal, type_contrat,
		                     description, competences_requises, domaine, date_publication,
		                     source, lien_candidature, statut)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'active')
		 ON CONFLICT (id) DO UPDATE SET
		     titre = $2,
		     entreprise = $3,
		     lieu = $4,
		     code_postal = $5,
		     type_contrat = $6,
		     description = $7,
		     competences_requises = $8,
		     domaine = $9,
		     date_publication = $10,
		     source = $11,
		     lien_candidature = $12,
		     statut = 'active',
		     updated_at = NOW()`,
		offer.ID, offer.Titre, offer.Entreprise, offer.Lieu, offer.CodePostal,
		offer.TypeContrat, offer.Description, StringArray(offer.CompetencesRequises),
		offer.Domaine, offer.DatePublication, offer.Source, offer.LienCandidature,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert offer %s: %w", offer.ID, err)
	}
	return nil
}

// ListActiveOffers retrieves active offers, most recent first
func (db *DB) ListActiveOffers(ctx context.Context, limit int) ([]types.Offer, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+offerColumns+`
		 FROM offres WHERE statut = 'active'
		 ORDER BY date_publication DESC NULLS LAST
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active offers: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows)
}

// ListOffers retrieves offers for the public listing, most recent first
func (db *DB) ListOffers(ctx context.Context, limit, offset int) ([]types.Offer, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+offerColumns+`
		 FROM offres
		 ORDER BY date_publication DESC NULLS LAST
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows)
}

// DeactivateMissingOffers marks offers absent from the latest sync as inactive
func (db *DB) DeactivateMissingOffers(ctx context.Context, seenIDs []string) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE offres SET statut = 'inactive', updated_at = NOW()
		 WHERE statut = 'active' AND NOT (id = ANY($1))`,
		seenIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate offers: %w", err)
	}
	return result.RowsAffected(), nil
}

type offerRows interface {
	Next() bool
	Scan(dest ...any) error
}

func scanOffers(rows offerRows) ([]types.Offer, error) {
	var offers []types.Offer
	for rows.Next() {
		var o types.Offer
		var competences StringArray
		if err := rows.Scan(&o.ID, &o.Titre, &o.Entreprise, &o.Lieu, &o.CodePostal,
			&o.TypeContrat, &o.Description, &competences, &o.Domaine,
			&o.DatePublication, &o.Source, &o.LienCandidature); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		o.CompetencesRequises = competences
		offers = append(offers, o)
	}
	return offers, nil
}
