package source

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JinerixX/CriptaBot/internal/domain"
)

const (
	okxInstrumentsURL   = "https://www.okx.com/api/v5/public/instruments"
	okxAnnouncementsURL = "https://www.okx.com/help/section/announcements-new-listings"
	okxBaseURL          = "https://www.okx.com"
)

var okxUpcomingRx = regexp.MustCompile(`(?i)Will\s+List|Token Listing`)

// OKXAPI reports the complete current OKX instrument set, spot and
// perpetual swaps.
type OKXAPI struct {
	client  *http.Client
	baseURL string
}

// NewOKXAPI creates the OKX REST catalog adapter.
func NewOKXAPI(client *http.Client) *OKXAPI {
	return &OKXAPI{client: client, baseURL: okxInstrumentsURL}
}

func (o *OKXAPI) Exchange() string        { return "OKX" }
func (o *OKXAPI) Kind() domain.SourceKind { return domain.SourceAPI }

type okxInstrumentsResponse struct {
	Code string `json:"code"`
	Data []struct {
		InstID string `json:"instId"`
		State  string `json:"state"`
	} `json:"data"`
}

// Fetch returns every live OKX instrument.
func (o *OKXAPI) Fetch(ctx context.Context) ([]domain.CandidateRecord, error) {
	var records []domain.CandidateRecord

	for _, catalog := range []struct {
		instType string
		market   domain.MarketClass
	}{
		{"SPOT", domain.MarketSpot},
		{"SWAP", domain.MarketPerp},
	} {
		url := o.baseURL + "?instType=" + catalog.instType
		var resp okxInstrumentsResponse
		if err := getJSON(ctx, o.client, url, &resp); err != nil {
			return nil, fmt.Errorf("okx instruments (%s): %w", catalog.instType, err)
		}
		if resp.Code != "0" {
			return nil, fmt.Errorf("okx instruments (%s): code %s", catalog.instType, resp.Code)
		}
		for _, inst := range resp.Data {
			if inst.State != "live" {
				continue
			}
			records = append(records, domain.CandidateRecord{
				Exchange:    "OKX",
				RawSymbol:   inst.InstID,
				MarketClass: catalog.market,
				SourceKind:  domain.SourceAPI,
			})
		}
	}
	return records, nil
}

// OKXCMS scrapes the OKX help-center new-listings section. Unlike the
// other exchanges this is plain HTML, so the card list is parsed with
// goquery.
type OKXCMS struct {
	client *http.Client
	url    string
}

// NewOKXCMS creates the OKX announcement adapter.
func NewOKXCMS(client *http.Client) *OKXCMS {
	return &OKXCMS{client: client, url: okxAnnouncementsURL}
}

func (o *OKXCMS) Exchange() string        { return "OKX" }
func (o *OKXCMS) Kind() domain.SourceKind { return domain.SourceCMS }

// Fetch returns upcoming-listing announcements currently on the page.
func (o *OKXCMS) Fetch(ctx context.Context) ([]domain.CandidateRecord, error) {
	body, err := get(ctx, o.client, o.url, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, fmt.Errorf("okx announcements page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse okx announcements page: %w", err)
	}

	var records []domain.CandidateRecord
	doc.Find("a.article-item").Each(func(_ int, sel *goquery.Selection) {
		title := strings.Join(strings.Fields(sel.Text()), " ")
		if !okxUpcomingRx.MatchString(title) {
			return
		}
		ticker := extractTicker(title)
		if ticker == "" {
			return
		}

		href, _ := sel.Attr("href")
		if href != "" && !strings.HasPrefix(href, "http") {
			href = okxBaseURL + href
		}
		records = append(records, domain.CandidateRecord{
			Exchange:    "OKX",
			RawSymbol:   ticker,
			MarketClass: domain.MarketUnknown,
			SourceKind:  domain.SourceCMS,
			DetailsURL:  href,
		})
	})
	return records, nil
}
