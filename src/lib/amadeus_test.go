package lib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAmadeusStub(t *testing.T, tokenRequests *atomic.Int32, apiHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":1799}`))
	})
	mux.HandleFunc("/", apiHandler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestTokenIsCachedAcrossRequests(t *testing.T) {
	var tokenRequests atomic.Int32
	server := newAmadeusStub(t, &tokenRequests, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"iataCode":"LON","name":"London"}]}`))
	})

	client := NewAmadeusClient(NewAmadeusClientForURL(server.URL))
	assert.Same(t, client, GetAmadeusClient())
	ctx := context.Background()

	res, err := client.SearchLocations(ctx, "london", "CITY")
	require.NoError(t, err)
	assert.Equal(t, "LON", res.Get("data.0.iataCode").String())

	_, err = client.SearchLocations(ctx, "london", "CITY")
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokenRequests.Load())
}

func TestSupplierErrorsCarryStatusAndDetail(t *testing.T) {
	var tokenRequests atomic.Int32
	server := newAmadeusStub(t, &tokenRequests, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"status":404,"detail":"Resource not found"}]}`))
	})

	client := NewAmadeusClientForURL(server.URL)
	_, err := client.ConfirmOfferPricing(context.Background(), "GONE123")
	require.Error(t, err)

	aerr, ok := err.(*AmadeusError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, aerr.StatusCode)
	assert.Equal(t, "Resource not found", aerr.Message)
}

func TestUnauthorizedResponseInvalidatesToken(t *testing.T) {
	var tokenRequests atomic.Int32
	var apiRequests atomic.Int32
	server := newAmadeusStub(t, &tokenRequests, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if apiRequests.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"detail":"Access token expired"}]}`))
			return
		}
		w.Write([]byte(`{"data":[]}`))
	})

	client := NewAmadeusClientForURL(server.URL)
	ctx := context.Background()

	_, err := client.SearchLocations(ctx, "paris", "CITY")
	require.Error(t, err)
	aerr, ok := err.(*AmadeusError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, aerr.StatusCode)

	_, err = client.SearchLocations(ctx, "paris", "CITY")
	require.NoError(t, err)
	assert.Equal(t, int32(2), tokenRequests.Load())
}

func TestHotelOfferSearchMergesQueryParams(t *testing.T) {
	var tokenRequests atomic.Int32
	server := newAmadeusStub(t, &tokenRequests, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/shopping/hotel-offers", r.URL.Path)
		assert.Equal(t, "HLLON123", r.URL.Query().Get("hotelIds"))
		assert.Equal(t, "2099-05-02", r.URL.Query().Get("checkInDate"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"type":"hotel-offers"}]}`))
	})

	client := NewAmadeusClientForURL(server.URL)
	params := map[string][]string{"checkInDate": {"2099-05-02"}}
	res, err := client.SearchHotelOffers(context.Background(), "HLLON123", params)
	require.NoError(t, err)
	assert.Len(t, res.Get("data").Array(), 1)
}
