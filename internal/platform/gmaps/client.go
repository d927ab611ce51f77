// Package gmaps wraps the Google Maps web service endpoints used for
// specialist search: geocoding, text search, and place details.
package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/glucoguide/glucoguide/internal/geo"
)

const defaultBaseURL = "https://maps.googleapis.com"

// Client calls the Maps web services. It satisfies geo.PlacesClient.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client with the given per-request timeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithBaseURL is for tests against an httptest server.
func NewClientWithBaseURL(apiKey, baseURL string, timeout time.Duration) *Client {
	c := NewClient(apiKey, timeout)
	c.baseURL = baseURL
	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("maps request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("maps API error: %s - %s", resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode maps response: %w", err)
	}
	return nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-text location. An unknown location returns
// (nil, nil) so the caller can distinguish it from transport failure.
func (c *Client) Geocode(ctx context.Context, location string) (*geo.LatLng, error) {
	params := url.Values{}
	params.Set("address", location)

	var out geocodeResponse
	if err := c.get(ctx, "/maps/api/geocode/json", params, &out); err != nil {
		return nil, err
	}
	if out.Status == "ZERO_RESULTS" || len(out.Results) == 0 {
		return nil, nil
	}
	if out.Status != "OK" {
		return nil, fmt.Errorf("geocode status %s", out.Status)
	}
	loc := out.Results[0].Geometry.Location
	return &geo.LatLng{Lat: loc.Lat, Lng: loc.Lng}, nil
}

type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID string `json:"place_id"`
		Name    string `json:"name"`
	} `json:"results"`
}

// FindNearby runs a text search for the query around the center point,
// restricted to doctor-type places.
func (c *Client) FindNearby(ctx context.Context, center geo.LatLng, radiusMeters int, query string) ([]geo.PlaceRef, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("location", fmt.Sprintf("%f,%f", center.Lat, center.Lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("type", "doctor")

	var out textSearchResponse
	if err := c.get(ctx, "/maps/api/place/textsearch/json", params, &out); err != nil {
		return nil, err
	}
	if out.Status == "ZERO_RESULTS" {
		return nil, nil
	}
	if out.Status != "OK" {
		return nil, fmt.Errorf("text search status %s", out.Status)
	}

	refs := make([]geo.PlaceRef, 0, len(out.Results))
	for _, r := range out.Results {
		refs = append(refs, geo.PlaceRef{PlaceID: r.PlaceID, Name: r.Name})
	}
	return refs, nil
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		FormattedPhone   string  `json:"formatted_phone_number"`
		Website          string  `json:"website"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		Reviews          []struct {
			AuthorName string  `json:"author_name"`
			Rating     float64 `json:"rating"`
			Text       string  `json:"text"`
			Time       string  `json:"relative_time_description"`
		} `json:"reviews"`
	} `json:"result"`
}

// PlaceDetails fetches the detail record for one place. A failed lookup
// comes back with OK false rather than an error.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (geo.PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,formatted_address,formatted_phone_number,website,rating,user_ratings_total,reviews")

	var out detailsResponse
	if err := c.get(ctx, "/maps/api/place/details/json", params, &out); err != nil {
		return geo.PlaceDetails{}, err
	}
	if out.Status != "OK" {
		return geo.PlaceDetails{}, nil
	}

	d := geo.PlaceDetails{
		OK:           true,
		Name:         out.Result.Name,
		Address:      out.Result.FormattedAddress,
		PhoneNumber:  out.Result.FormattedPhone,
		Website:      out.Result.Website,
		Rating:       out.Result.Rating,
		TotalRatings: out.Result.UserRatingsTotal,
	}
	for _, r := range out.Result.Reviews {
		d.Reviews = append(d.Reviews, geo.Review{AuthorName: r.AuthorName, Rating: r.Rating, Text: r.Text, Time: r.Time})
	}
	return d, nil
}
