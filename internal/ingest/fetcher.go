// Package ingest pulls job offers from the Forem feed (an n8n webhook) into
// the offres table and keeps them fresh on a cron schedule.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mathieu/jobcoach/internal/types"
)

const offerDetailBaseURL = "https://www.leforem.be/recherche-offres/offre-detail/"

// feedRecord is one raw record from the n8n Forem export. Field names come
// from the Forem dataset; the alternate names cover older exports.
type feedRecord struct {
	NumeroOffre          string `json:"numero_offre"`
	ID                   string `json:"id"`
	MetierOuFonction     string `json:"metier_ou_fonction"`
	Title                string `json:"title"`
	RaisonSociale        string `json:"raison_sociale"`
	Company              string `json:"company"`
	Localite             string `json:"localite"`
	Location             string `json:"location"`
	CodePostal           string `json:"code_postal"`
	TypeDEngagement      string `json:"type_d_engagement"`
	ContractType         string `json:"contract_type"`
	DescriptionOffre     string `json:"description_offre"`
	Description          string `json:"description"`
	DateDeReception      string `json:"date_de_reception"`
	DomaineProfessionnel string `json:"domaine_professionnel"`
}

type feedResponse struct {
	TotalCount int          `json:"total_count"`
	Results    []feedRecord `json:"results"`
}

// FeedFetcher pulls offer pages from the configured feed URL.
type FeedFetcher struct {
	feedURL string
	client  *http.Client
}

// NewFeedFetcher creates a fetcher for the given feed URL.
func NewFeedFetcher(feedURL string) *FeedFetcher {
	return &FeedFetcher{
		feedURL: feedURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves one page of offers from the feed.
func (f *FeedFetcher) Fetch(ctx context.Context, query string, limit, offset int) ([]types.Offer, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	reqURL := f.feedURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed returned %d: %s", resp.StatusCode, string(body))
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	offers := make([]types.Offer, 0, len(feed.Results))
	for _, rec := range feed.Results {
		offer, ok := mapRecord(rec)
		if !ok {
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// mapRecord converts a raw feed record to an Offer. Records without an id or
// a title are dropped.
func mapRecord(rec feedRecord) (types.Offer, bool) {
	id := firstNonEmpty(rec.NumeroOffre, rec.ID)
	titre := firstNonEmpty(rec.MetierOuFonction, rec.Title)
	if id == "" || titre == "" {
		return types.Offer{}, false
	}

	offer := types.Offer{
		ID:          id,
		Titre:       titre,
		Entreprise:  firstNonEmpty(rec.RaisonSociale, rec.Company),
		Lieu:        firstNonEmpty(rec.Localite, rec.Location),
		CodePostal:  rec.CodePostal,
		TypeContrat: firstNonEmpty(rec.TypeDEngagement, rec.ContractType),
		Description: firstNonEmpty(rec.DescriptionOffre, rec.Description),
		Domaine:     rec.DomaineProfessionnel,
		Source:      "Forem",
	}
	if rec.NumeroOffre != "" {
		offer.LienCandidature = offerDetailBaseURL + rec.NumeroOffre
	}
	if t, ok := parseFeedDate(rec.DateDeReception); ok {
		offer.DatePublication = &t
	}
	return offer, true
}

// parseFeedDate accepts the timestamp shapes the feed has been seen to emit.
func parseFeedDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
