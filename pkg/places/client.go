package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// detailsFields is the field mask requested from Place Details.
const detailsFields = "name,website,formatted_phone_number,international_phone_number," +
	"formatted_address,business_status"

// findPlaceFields is the field mask requested from Find Place.
const findPlaceFields = "place_id,name,formatted_address,business_status,website," +
	"formatted_phone_number,international_phone_number"

// Client performs Google Places Web Service operations.
type Client interface {
	TextSearch(ctx context.Context, query, pageToken string) (*TextSearchResponse, error)
	FindPlace(ctx context.Context, query string) (*FindPlaceResponse, error)
	Details(ctx context.Context, placeID string) (*DetailsResponse, error)
}

// Place is a business returned by the API. Only the fields the resolver
// scores and copies are decoded.
type Place struct {
	PlaceID                  string `json:"place_id"`
	Name                     string `json:"name"`
	FormattedAddress         string `json:"formatted_address"`
	BusinessStatus           string `json:"business_status"`
	Website                  string `json:"website"`
	FormattedPhoneNumber     string `json:"formatted_phone_number"`
	InternationalPhoneNumber string `json:"international_phone_number"`
}

// Phone returns the international number when present, otherwise the
// formatted one.
func (p Place) Phone() string {
	if p.InternationalPhoneNumber != "" {
		return p.InternationalPhoneNumber
	}
	return p.FormattedPhoneNumber
}

// TextSearchResponse is one page of Text Search results.
type TextSearchResponse struct {
	Results       []Place `json:"results"`
	NextPageToken string  `json:"next_page_token"`
	Status        string  `json:"status"`
}

// FindPlaceResponse is the response from Find Place From Text.
type FindPlaceResponse struct {
	Candidates []Place `json:"candidates"`
	Status     string  `json:"status"`
}

// DetailsResponse is the response from Place Details.
type DetailsResponse struct {
	Result Place  `json:"result"`
	Status string `json:"status"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Google Places Web Service client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, query, pageToken string) (*TextSearchResponse, error) {
	params := url.Values{}
	if pageToken != "" {
		// A page token supersedes the query per the API contract.
		params.Set("pagetoken", pageToken)
	} else {
		params.Set("query", query)
	}

	var result TextSearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "places: text search")
	}
	return &result, nil
}

func (c *httpClient) FindPlace(ctx context.Context, query string) (*FindPlaceResponse, error) {
	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", findPlaceFields)

	var result FindPlaceResponse
	if err := c.get(ctx, "/findplacefromtext/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "places: find place")
	}
	return &result, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)

	var result DetailsResponse
	if err := c.get(ctx, "/details/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "places: details")
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}

	return nil
}

// SearchAll paginates a Text Search up to maxPages pages, pausing pageDelay
// between pages. The API needs a beat before a fresh next_page_token
// becomes valid, so the delay is part of the transport contract, not
// politeness.
func SearchAll(ctx context.Context, c Client, query string, maxPages int, pageDelay time.Duration) ([]Place, error) {
	var (
		results []Place
		token   string
	)

	for page := 0; page < maxPages; page++ {
		resp, err := c.TextSearch(ctx, query, token)
		if err != nil {
			return results, err
		}
		results = append(results, resp.Results...)

		if resp.NextPageToken == "" {
			break
		}
		token = resp.NextPageToken

		if page < maxPages-1 {
			t := time.NewTimer(pageDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return results, eris.Wrap(ctx.Err(), "places: page delay")
			case <-t.C:
			}
		}
	}

	return results, nil
}
