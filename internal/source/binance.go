package source

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/JinerixX/CriptaBot/internal/domain"
)

const (
	binanceSpotInfoURL = "https://api.binance.com/api/v3/exchangeInfo"
	binancePerpInfoURL = "https://fapi.binance.com/fapi/v1/exchangeInfo"
	binanceCMSURL      = "https://www.binance.com/bapi/composite/v1/public/cms/article/catalog/list/query?catalogId=48&pageNo=1&pageSize=40"
	binanceArticleURL  = "https://www.binance.com/en/support/announcement/detail/"
)

// binanceUpcomingRx keeps only future-listing announcements; catalog 48
// also carries delistings and maintenance notices.
var binanceUpcomingRx = regexp.MustCompile(`(?i)\bWill\s+(List|Add)\b`)

// BinanceAPI reports the complete current Binance pair set, spot and
// USDT-margined perpetuals.
type BinanceAPI struct {
	client  *http.Client
	spotURL string
	perpURL string
}

// NewBinanceAPI creates the Binance REST catalog adapter.
func NewBinanceAPI(client *http.Client) *BinanceAPI {
	return &BinanceAPI{client: client, spotURL: binanceSpotInfoURL, perpURL: binancePerpInfoURL}
}

func (b *BinanceAPI) Exchange() string        { return "Binance" }
func (b *BinanceAPI) Kind() domain.SourceKind { return domain.SourceAPI }

type binanceExchangeInfo struct {
	Symbols []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"symbols"`
}

// Fetch returns every currently tradable Binance pair.
func (b *BinanceAPI) Fetch(ctx context.Context) ([]domain.CandidateRecord, error) {
	var records []domain.CandidateRecord

	for _, catalog := range []struct {
		url    string
		market domain.MarketClass
	}{
		{b.spotURL, domain.MarketSpot},
		{b.perpURL, domain.MarketPerp},
	} {
		var info binanceExchangeInfo
		if err := getJSON(ctx, b.client, catalog.url, &info); err != nil {
			return nil, fmt.Errorf("binance exchange info: %w", err)
		}
		for _, s := range info.Symbols {
			if s.Status != "TRADING" {
				continue
			}
			records = append(records, domain.CandidateRecord{
				Exchange:    "Binance",
				RawSymbol:   s.Symbol,
				MarketClass: catalog.market,
				SourceKind:  domain.SourceAPI,
			})
		}
	}
	return records, nil
}

// BinanceCMS scrapes the Binance announcement catalog for upcoming
// listings.
type BinanceCMS struct {
	client *http.Client
	url    string
}

// NewBinanceCMS creates the Binance announcement adapter.
func NewBinanceCMS(client *http.Client) *BinanceCMS {
	return &BinanceCMS{client: client, url: binanceCMSURL}
}

func (b *BinanceCMS) Exchange() string        { return "Binance" }
func (b *BinanceCMS) Kind() domain.SourceKind { return domain.SourceCMS }

type binanceCMSResponse struct {
	Data struct {
		Articles    []binanceArticle `json:"articles"`
		ArticleList []binanceArticle `json:"articleList"`
	} `json:"data"`
}

type binanceArticle struct {
	Title string `json:"title"`
	Code  string `json:"code"`
	URL   string `json:"url"`
}

// Fetch returns upcoming-listing announcements currently on the page.
func (b *BinanceCMS) Fetch(ctx context.Context) ([]domain.CandidateRecord, error) {
	var resp binanceCMSResponse
	if err := getJSON(ctx, b.client, b.url, &resp); err != nil {
		return nil, fmt.Errorf("binance cms catalog: %w", err)
	}

	articles := resp.Data.Articles
	if len(articles) == 0 {
		articles = resp.Data.ArticleList
	}

	var records []domain.CandidateRecord
	for _, art := range articles {
		if !binanceUpcomingRx.MatchString(art.Title) {
			continue
		}
		ticker := extractTicker(art.Title)
		if ticker == "" {
			continue
		}

		url := art.URL
		if art.Code != "" {
			url = binanceArticleURL + art.Code
		}
		records = append(records, domain.CandidateRecord{
			Exchange:    "Binance",
			RawSymbol:   ticker,
			MarketClass: domain.MarketUnknown,
			SourceKind:  domain.SourceCMS,
			DetailsURL:  url,
		})
	}
	return records, nil
}
