// Package geo wraps the external geocoding services the app depends
// on: OpenStreetMap Nominatim for forward/reverse geocoding, ViaCEP
// for postal-code lookups and Overpass for nearby-place search.
// Responses are cached in Redis; every outbound call carries an
// explicit timeout.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	internalredis "mandado/internal/redis"
	"mandado/internal/repository"
)

// Place is a geocoding result.
type Place struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// CEPAddress is a ViaCEP postal-code lookup result.
type CEPAddress struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
}

// NearbyPlace is a point of interest returned by Overpass.
type NearbyPlace struct {
	Name    string  `json:"name"`
	Amenity string  `json:"amenity"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Client calls the external geocoding services.
type Client struct {
	nominatimBaseURL string
	viaCEPBaseURL    string
	overpassBaseURL  string
	httpClient       *http.Client
	cache            internalredis.GeocodeCacheInterface
}

// NewClient creates a geocoding client. cache may be nil, in which
// case every lookup goes to the remote service.
func NewClient(nominatimBaseURL, viaCEPBaseURL, overpassBaseURL string, timeout time.Duration, cache internalredis.GeocodeCacheInterface) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		nominatimBaseURL: nominatimBaseURL,
		viaCEPBaseURL:    viaCEPBaseURL,
		overpassBaseURL:  overpassBaseURL,
		httpClient:       &http.Client{Timeout: timeout},
		cache:            cache,
	}
}

// nominatimPlace matches Nominatim's response shape, which reports
// coordinates as strings.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search forward-geocodes a free-form query.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=5&q=%s", c.nominatimBaseURL, url.QueryEscape(query))

	body, err := c.fetch(ctx, "search:"+query, endpoint)
	if err != nil {
		return nil, err
	}

	var raw []nominatimPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	places := make([]Place, 0, len(raw))
	for _, p := range raw {
		place, err := toPlace(p)
		if err != nil {
			continue
		}
		places = append(places, place)
	}
	return places, nil
}

// Reverse reverse-geocodes a coordinate into an address.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f", c.nominatimBaseURL, lat, lng)

	body, err := c.fetch(ctx, fmt.Sprintf("reverse:%.5f:%.5f", lat, lng), endpoint)
	if err != nil {
		return nil, err
	}

	var raw nominatimPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	place, err := toPlace(raw)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

// LookupCEP resolves a Brazilian postal code via ViaCEP.
func (c *Client) LookupCEP(ctx context.Context, cep string) (*CEPAddress, error) {
	endpoint := fmt.Sprintf("%s/ws/%s/json/", c.viaCEPBaseURL, url.PathEscape(cep))

	body, err := c.fetch(ctx, "cep:"+cep, endpoint)
	if err != nil {
		return nil, err
	}

	// ViaCEP reports unknown CEPs with {"erro": true} and status 200.
	var probe struct {
		Erro bool `json:"erro"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Erro {
		return nil, fmt.Errorf("cep %s: %w", cep, repository.ErrNotFound)
	}

	var address CEPAddress
	if err := json.Unmarshal(body, &address); err != nil {
		return nil, fmt.Errorf("decode viacep response: %w", err)
	}
	return &address, nil
}

// overpassResponse matches the Overpass interpreter's JSON output.
type overpassResponse struct {
	Elements []struct {
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// Nearby finds places of the given amenity type within radiusMeters of
// a coordinate, via the Overpass API.
func (c *Client) Nearby(ctx context.Context, lat, lng float64, amenity string, radiusMeters int) ([]NearbyPlace, error) {
	if radiusMeters <= 0 {
		radiusMeters = 1000
	}

	query := fmt.Sprintf(`[out:json][timeout:10];node(around:%d,%f,%f)["amenity"="%s"];out 20;`,
		radiusMeters, lat, lng, amenity)
	endpoint := fmt.Sprintf("%s/api/interpreter?data=%s", c.overpassBaseURL, url.QueryEscape(query))

	cacheKey := fmt.Sprintf("nearby:%s:%d:%.4f:%.4f", amenity, radiusMeters, lat, lng)
	body, err := c.fetch(ctx, cacheKey, endpoint)
	if err != nil {
		return nil, err
	}

	var raw overpassResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	places := make([]NearbyPlace, 0, len(raw.Elements))
	for _, el := range raw.Elements {
		places = append(places, NearbyPlace{
			Name:    el.Tags["name"],
			Amenity: el.Tags["amenity"],
			Lat:     el.Lat,
			Lng:     el.Lon,
		})
	}
	return places, nil
}

// fetch returns the response body for endpoint, consulting the cache
// first and storing successful responses back.
func (c *Client) fetch(ctx context.Context, cacheKey, endpoint string) ([]byte, error) {
	if c.cache != nil {
		if body, err := c.cache.GetGeocode(ctx, cacheKey); err == nil && body != nil {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "mandado/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.SetGeocode(ctx, cacheKey, body)
	}
	return body, nil
}

func toPlace(raw nominatimPlace) (Place, error) {
	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(raw.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse lon: %w", err)
	}
	return Place{DisplayName: raw.DisplayName, Lat: lat, Lng: lng}, nil
}
