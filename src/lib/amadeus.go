package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"travexe/src/config"
	"travexe/src/types"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2/clientcredentials"
)

// AmadeusError carries the upstream HTTP status so handlers can map
// supplier failures onto their own responses.
type AmadeusError struct {
	StatusCode int
	Message    string
}

func (e *AmadeusError) Error() string {
	return fmt.Sprintf("amadeus: %s (status %d)", e.Message, e.StatusCode)
}

// AmadeusTokenCache holds a bearer token until shortly before expiry.
// A 60 second buffer keeps requests from racing token expiration.
type AmadeusTokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func (c *AmadeusTokenCache) Get(ctx context.Context, conf *clientcredentials.Config) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.expiresAt) {
		return c.token, nil
	}
	tok, err := conf.Token(ctx)
	if err != nil {
		log.Printf("[amadeus] Error requesting access token: %s\n", err.Error())
		return "", &AmadeusError{StatusCode: http.StatusBadGateway, Message: "failed to authenticate with supplier"}
	}
	c.token = tok.AccessToken
	c.expiresAt = tok.Expiry.Add(-60 * time.Second)
	return c.token, nil
}

func (c *AmadeusTokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

type AmadeusClient struct {
	BaseURL string
	http    *http.Client
	conf    *clientcredentials.Config
	tokens  *AmadeusTokenCache
}

var amadeusClient *AmadeusClient

func GetAmadeusClient() *AmadeusClient {
	if amadeusClient != nil {
		return amadeusClient
	}
	base := config.AmadeusBaseURL()
	amadeusClient = &AmadeusClient{
		BaseURL: base,
		http:    &http.Client{Timeout: 15 * time.Second},
		conf: &clientcredentials.Config{
			ClientID:     config.AmadeusClientID(),
			ClientSecret: config.AmadeusClientSecret(),
			TokenURL:     base + "/v1/security/oauth2/token",
		},
		tokens: &AmadeusTokenCache{},
	}
	return amadeusClient
}

// NewAmadeusClient Replace amadeus instance with custom client implementation
func NewAmadeusClient(c *AmadeusClient) *AmadeusClient {
	amadeusClient = c
	return amadeusClient
}

// NewAmadeusClientForURL builds a client against a custom endpoint with
// auth disabled, used with local stand-in servers.
func NewAmadeusClientForURL(baseURL string) *AmadeusClient {
	return &AmadeusClient{
		BaseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		conf: &clientcredentials.Config{
			TokenURL: baseURL + "/v1/security/oauth2/token",
		},
		tokens: &AmadeusTokenCache{},
	}
}

func (a *AmadeusClient) do(ctx context.Context, req *http.Request) (gjson.Result, error) {
	token, err := a.tokens.Get(ctx, a.conf)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := a.http.Do(req)
	if err != nil {
		log.Printf("[amadeus] Request failed: %s\n", err.Error())
		return gjson.Result{}, &AmadeusError{StatusCode: http.StatusBadGateway, Message: "supplier request failed"}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return gjson.Result{}, &AmadeusError{StatusCode: http.StatusBadGateway, Message: "error reading supplier response"}
	}
	if res.StatusCode == http.StatusUnauthorized {
		a.tokens.Invalidate()
	}
	if res.StatusCode >= 400 {
		detail := gjson.GetBytes(body, "errors.0.detail").String()
		if detail == "" {
			detail = gjson.GetBytes(body, "error_description").String()
		}
		if detail == "" {
			detail = http.StatusText(res.StatusCode)
		}
		return gjson.ParseBytes(body), &AmadeusError{StatusCode: res.StatusCode, Message: detail}
	}
	return gjson.ParseBytes(body), nil
}

func (a *AmadeusClient) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	endpoint := a.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return a.do(ctx, req)
}

func (a *AmadeusClient) post(ctx context.Context, path string, payload any) (gjson.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return gjson.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(ctx, req)
}

// SearchLocations looks up cities and airports by keyword.
func (a *AmadeusClient) SearchLocations(ctx context.Context, keyword, subType string) (gjson.Result, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	if subType != "" {
		q.Set("subType", subType)
	}
	q.Set("page[limit]", "10")
	return a.get(ctx, "/v1/reference-data/locations", q)
}

func (a *AmadeusClient) SearchHotelsByCity(ctx context.Context, cityCode string) (gjson.Result, error) {
	q := url.Values{}
	q.Set("cityCode", cityCode)
	return a.get(ctx, "/v1/reference-data/locations/hotels/by-city", q)
}

func (a *AmadeusClient) SearchHotelsByGeocode(ctx context.Context, latitude, longitude string) (gjson.Result, error) {
	q := url.Values{}
	q.Set("latitude", latitude)
	q.Set("longitude", longitude)
	return a.get(ctx, "/v1/reference-data/locations/hotels/by-geocode", q)
}

func (a *AmadeusClient) SearchHotelsByIds(ctx context.Context, hotelIds string) (gjson.Result, error) {
	q := url.Values{}
	q.Set("hotelIds", hotelIds)
	return a.get(ctx, "/v1/reference-data/locations/hotels/by-hotels", q)
}

// SearchHotelOffers retrieves live offers for up to 20 hotel ids per call.
func (a *AmadeusClient) SearchHotelOffers(ctx context.Context, hotelIds string, params url.Values) (gjson.Result, error) {
	q := url.Values{}
	q.Set("hotelIds", hotelIds)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return a.get(ctx, "/v3/shopping/hotel-offers", q)
}

// ConfirmOfferPricing re-prices a single hotel offer right before booking.
func (a *AmadeusClient) ConfirmOfferPricing(ctx context.Context, offerID string) (gjson.Result, error) {
	return a.get(ctx, "/v3/shopping/hotel-offers/"+url.PathEscape(offerID), nil)
}

func (a *AmadeusClient) CreateHotelOrder(ctx context.Context, payload types.JSONB) (gjson.Result, error) {
	return a.post(ctx, "/v2/booking/hotel-orders", types.JSONB{"data": payload})
}

func (a *AmadeusClient) SearchFlightOffers(ctx context.Context, params url.Values) (gjson.Result, error) {
	return a.get(ctx, "/v2/shopping/flight-offers", params)
}

// ConfirmFlightPricing verifies that a previously returned flight offer is
// still available at the quoted price.
func (a *AmadeusClient) ConfirmFlightPricing(ctx context.Context, flightOffer types.JSONB) (gjson.Result, error) {
	payload := types.JSONB{
		"data": types.JSONB{
			"type":         "flight-offers-pricing",
			"flightOffers": []types.JSONB{flightOffer},
		},
	}
	return a.post(ctx, "/v1/shopping/flight-offers/pricing", payload)
}

func (a *AmadeusClient) CreateFlightOrder(ctx context.Context, flightOffer types.JSONB, travelers []types.JSONB) (gjson.Result, error) {
	payload := types.JSONB{
		"data": types.JSONB{
			"type":         "flight-order",
			"flightOffers": []types.JSONB{flightOffer},
			"travelers":    travelers,
		},
	}
	return a.post(ctx, "/v1/booking/flight-orders", payload)
}

func (a *AmadeusClient) GetSeatmaps(ctx context.Context, flightOffer types.JSONB) (gjson.Result, error) {
	payload := types.JSONB{
		"data": []types.JSONB{flightOffer},
	}
	return a.post(ctx, "/v1/shopping/seatmaps", payload)
}
