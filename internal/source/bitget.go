package source

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/JinerixX/CriptaBot/internal/domain"
)

const (
	bitgetSpotSymbolsURL   = "https://api.bitget.com/api/v2/spot/public/symbols"
	bitgetPerpContractsURL = "https://api.bitget.com/api/v2/mix/market/contracts?productType=usdt-futures"
	bitgetAnnouncementsURL = "https://api.bitget.com/api/v2/public/annoucements?language=en_US&annType=coin_listings&limit=10"
)

var bitgetUpcomingRx = regexp.MustCompile(`(?i)Will\s+List|New Listing|Initial Listing|Launch`)

const bitgetOK = "00000"

// BitgetAPI reports the complete current Bitget pair set, spot and
// USDT-margined futures.
type BitgetAPI struct {
	client  *http.Client
	spotURL string
	perpURL string
}

// NewBitgetAPI creates the Bitget REST catalog adapter.
func NewBitgetAPI(client *http.Client) *BitgetAPI {
	return &BitgetAPI{client: client, spotURL: bitgetSpotSymbolsURL, perpURL: bitgetPerpContractsURL}
}

func (b *BitgetAPI) Exchange() string        { return "Bitget" }
func (b *BitgetAPI) Kind() domain.SourceKind { return domain.SourceAPI }

type bitgetCatalogResponse struct {
	Code string `json:"code"`
	Data []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"data"`
}

// Fetch returns every currently tradable Bitget pair.
func (b *BitgetAPI) Fetch(ctx context.Context) ([]domain.CandidateRecord, error) {
	var records []domain.CandidateRecord

	for _, catalog := range []struct {
		url    string
		market domain.MarketClass
		status string
	}{
		{b.spotURL, domain.MarketSpot, "online"},
		{b.perpURL, domain.MarketPerp, "normal"},
	} {
		var resp bitgetCatalogResponse
		if err := getJSON(ctx, b.client, catalog.url, &resp); err != nil {
			return nil, fmt.Errorf("bitget catalog (%s): %w", catalog.market, err)
		}
		if resp.Code != bitgetOK {
			return nil, fmt.Errorf("bitget catalog (%s): code %s", catalog.market, resp.Code)
		}
		for _, s := range resp.Data {
			if s.Status != "" && s.Status != catalog.status {
				continue
			}
			records = append(records, domain.CandidateRecord{
				Exchange:    "Bitget",
				RawSymbol:   s.Symbol,
				MarketClass: catalog.market,
				SourceKind:  domain.SourceAPI,
			})
		}
	}
	return records, nil
}

// BitgetCMS scrapes the Bitget announcements API for coin listings.
type BitgetCMS struct {
	client *http.Client
	url    string
}

// NewBitgetCMS creates the Bitget announcement adapter.
func NewBitgetCMS(client *http.Client) *BitgetCMS {
	return &BitgetCMS{client: client, url: bitgetAnnouncementsURL}
}

func (b *BitgetCMS) Exchange() string        { return "Bitget" }
func (b *BitgetCMS) Kind() domain.SourceKind { return domain.SourceCMS }

type bitgetAnnouncementsResponse struct {
	Code string `json:"code"`
	Data []struct {
		AnnTitle string `json:"annTitle"`
		AnnURL   string `json:"annUrl"`
	} `json:"data"`
}

// Fetch returns coin-listing announcements currently on the feed.
func (b *BitgetCMS) Fetch(ctx context.Context) ([]domain.CandidateRecord, error) {
	var resp bitgetAnnouncementsResponse
	if err := getJSON(ctx, b.client, b.url, &resp); err != nil {
		return nil, fmt.Errorf("bitget announcements: %w", err)
	}
	if resp.Code != bitgetOK {
		return nil, nil
	}

	var records []domain.CandidateRecord
	for _, ann := range resp.Data {
		if !bitgetUpcomingRx.MatchString(ann.AnnTitle) {
			continue
		}
		ticker := extractTicker(ann.AnnTitle)
		if ticker == "" {
			continue
		}
		if ann.AnnURL == "" {
			continue
		}
		records = append(records, domain.CandidateRecord{
			Exchange:    "Bitget",
			RawSymbol:   ticker,
			MarketClass: domain.MarketUnknown,
			SourceKind:  domain.SourceCMS,
			DetailsURL:  ann.AnnURL,
		})
	}
	return records, nil
}
