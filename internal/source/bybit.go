package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/JinerixX/CriptaBot/internal/domain"
)

const (
	bybitInstrumentsURL   = "https://api.bybit.com/v5/market/instruments-info"
	bybitAnnouncementsURL = "https://api.bybit.com/v5/announcements/index?locale=en-US&type=new_crypto&page=1&limit=50"
)

var bybitUpcomingRx = regexp.MustCompile(`(?i)New Listing`)

// BybitAPI reports the complete current Bybit pair set, spot and linear
// perpetuals.
type BybitAPI struct {
	client  *http.Client
	baseURL string
}

// NewBybitAPI creates the Bybit REST catalog adapter.
func NewBybitAPI(client *http.Client) *BybitAPI {
	return &BybitAPI{client: client, baseURL: bybitInstrumentsURL}
}

func (b *BybitAPI) Exchange() string        { return "Bybit" }
func (b *BybitAPI) Kind() domain.SourceKind { return domain.SourceAPI }

type bybitInstrumentsResponse struct {
	RetCode int `json:"retCode"`
	Result  struct {
		List []struct {
			Symbol string `json:"symbol"`
			Status string `json:"status"`
		} `json:"list"`
	} `json:"result"`
}

// Fetch returns every currently trading Bybit instrument.
func (b *BybitAPI) Fetch(ctx context.Context) ([]domain.CandidateRecord, error) {
	var records []domain.CandidateRecord

	for _, catalog := range []struct {
		category string
		market   domain.MarketClass
	}{
		{"spot", domain.MarketSpot},
		{"linear", domain.MarketPerp},
	} {
		url := b.baseURL + "?category=" + catalog.category + "&limit=1000"
		var resp bybitInstrumentsResponse
		if err := getJSON(ctx, b.client, url, &resp); err != nil {
			return nil, fmt.Errorf("bybit instruments (%s): %w", catalog.category, err)
		}
		if resp.RetCode != 0 {
			return nil, fmt.Errorf("bybit instruments (%s): retCode %d", catalog.category, resp.RetCode)
		}
		for _, inst := range resp.Result.List {
			if inst.Status != "Trading" {
				continue
			}
			records = append(records, domain.CandidateRecord{
				Exchange:    "Bybit",
				RawSymbol:   inst.Symbol,
				MarketClass: catalog.market,
				SourceKind:  domain.SourceAPI,
			})
		}
	}
	return records, nil
}

// BybitCMS scrapes the Bybit announcements API for new-listing items.
type BybitCMS struct {
	client *http.Client
	url    string
}

// NewBybitCMS creates the Bybit announcement adapter.
func NewBybitCMS(client *http.Client) *BybitCMS {
	return &BybitCMS{client: client, url: bybitAnnouncementsURL}
}

func (b *BybitCMS) Exchange() string        { return "Bybit" }
func (b *BybitCMS) Kind() domain.SourceKind { return domain.SourceCMS }

type bybitAnnouncementsResponse struct {
	RetCode int `json:"retCode"`
	Result  struct {
		List []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
			// Milliseconds, sent as a string; empty or zero when the
			// item has no scheduled start.
			StartDateTimestamp json.Number `json:"startDateTimestamp"`
		} `json:"list"`
	} `json:"result"`
}

// Fetch returns upcoming-listing announcements currently on the feed.
func (b *BybitCMS) Fetch(ctx context.Context) ([]domain.CandidateRecord, error) {
	var resp bybitAnnouncementsResponse
	if err := getJSON(ctx, b.client, b.url, &resp); err != nil {
		return nil, fmt.Errorf("bybit announcements: %w", err)
	}
	if resp.RetCode != 0 {
		// Maintenance or transient API error; nothing to report.
		return nil, nil
	}

	var records []domain.CandidateRecord
	for _, item := range resp.Result.List {
		if !bybitUpcomingRx.MatchString(item.Title) {
			continue
		}
		ticker := extractTicker(item.Title)
		if ticker == "" {
			continue
		}

		rec := domain.CandidateRecord{
			Exchange:    "Bybit",
			RawSymbol:   ticker,
			MarketClass: domain.MarketUnknown,
			SourceKind:  domain.SourceCMS,
			DetailsURL:  item.URL,
		}
		if ms, err := strconv.ParseInt(string(item.StartDateTimestamp), 10, 64); err == nil && ms > 0 {
			t := time.UnixMilli(ms).UTC()
			rec.EffectiveAt = &t
		}
		records = append(records, rec)
	}
	return records, nil
}
