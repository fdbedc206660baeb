package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JinerixX/CriptaBot/internal/domain"
)

func TestBitgetAPI_Fetch(t *testing.T) {
	spot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","data":[
			{"symbol":"BTCUSDT","status":"online"},
			{"symbol":"HALTEDUSDT","status":"halt"}
		]}`))
	}))
	defer spot.Close()

	perp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","data":[
			{"symbol":"ETHUSDT","status":"normal"}
		]}`))
	}))
	defer perp.Close()

	adapter := NewBitgetAPI(http.DefaultClient)
	adapter.spotURL = spot.URL
	adapter.perpURL = perp.URL

	records, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "non-trading symbols must be excluded")

	assert.Equal(t, "BTCUSDT", records[0].RawSymbol)
	assert.Equal(t, domain.MarketSpot, records[0].MarketClass)
	assert.Equal(t, "ETHUSDT", records[1].RawSymbol)
	assert.Equal(t, domain.MarketPerp, records[1].MarketClass)
}

func TestBitgetAPI_FetchErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"40001","data":[]}`))
	}))
	defer server.Close()

	adapter := NewBitgetAPI(http.DefaultClient)
	adapter.spotURL = server.URL
	adapter.perpURL = server.URL

	_, err := adapter.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001")
}

func TestBitgetCMS_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","data":[
			{"annTitle":"Bitget Will List Altlayer (ALT) in the Innovation Zone","annUrl":"https://www.bitget.com/support/articles/1"},
			{"annTitle":"Notice on Contract Maintenance","annUrl":"https://www.bitget.com/support/articles/2"},
			{"annTitle":"Initial Listing: FOOUSDT Carnival","annUrl":""}
		]}`))
	}))
	defer server.Close()

	adapter := NewBitgetCMS(http.DefaultClient)
	adapter.url = server.URL

	records, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1, "maintenance titles and entries without a link are dropped")

	assert.Equal(t, "ALT", records[0].RawSymbol)
	assert.Equal(t, domain.MarketUnknown, records[0].MarketClass)
	assert.Equal(t, domain.SourceCMS, records[0].SourceKind)
	assert.Equal(t, "https://www.bitget.com/support/articles/1", records[0].DetailsURL)
}
