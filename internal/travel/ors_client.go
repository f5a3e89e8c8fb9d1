package travel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

// ORSClient talks to an openrouteservice-compatible API. It provides the
// matrix function the orchestrator injects and implements the
// ReachabilityClient and Geocoder interfaces.
type ORSClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewORSClient creates a client for the given base URL and API key
func NewORSClient(baseURL, apiKey string) *ORSClient {
	return &ORSClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// profileFor maps the internal travel mode onto the ORS routing profile
func profileFor(mode models.TravelMode) string {
	switch mode {
	case models.TravelModeCyclingRegular:
		return "cycling-regular"
	case models.TravelModeFootWalking:
		return "foot-walking"
	default:
		return "driving-car"
	}
}

// matrixRequest is the ORS matrix request body; coordinates are [lon, lat]
type matrixRequest struct {
	Locations    [][2]float64 `json:"locations"`
	Sources      []int        `json:"sources"`
	Destinations []int        `json:"destinations"`
	Metrics      []string     `json:"metrics"`
}

// matrixResponse holds durations in seconds; null cells mean unreachable
type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// Matrix computes travel times in minutes from every origin to every
// destination. Satisfies travelmatrix.MatrixFunc as a method value.
func (c *ORSClient) Matrix(ctx context.Context, origins, destinations []models.Coordinate, mode models.TravelMode) (*models.TravelTimeMatrix, error) {
	locations := make([][2]float64, 0, len(origins)+len(destinations))
	sources := make([]int, len(origins))
	dests := make([]int, len(destinations))
	for i, o := range origins {
		locations = append(locations, [2]float64{o.Longitude, o.Latitude})
		sources[i] = i
	}
	for j, d := range destinations {
		locations = append(locations, [2]float64{d.Longitude, d.Latitude})
		dests[j] = len(origins) + j
	}

	var resp matrixResponse
	if err := c.post(ctx, "/v2/matrix/"+profileFor(mode), matrixRequest{
		Locations:    locations,
		Sources:      sources,
		Destinations: dests,
		Metrics:      []string{"duration"},
	}, &resp); err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}

	if len(resp.Durations) != len(origins) {
		return nil, fmt.Errorf("matrix response has %d rows for %d origins", len(resp.Durations), len(origins))
	}

	times := make([][]float64, len(origins))
	for i, row := range resp.Durations {
		if len(row) != len(destinations) {
			return nil, fmt.Errorf("matrix response row %d has %d columns for %d destinations", i, len(row), len(destinations))
		}
		times[i] = make([]float64, len(row))
		for j, cell := range row {
			if cell == nil {
				times[i][j] = models.UnreachableSentinel
			} else {
				times[i][j] = *cell / 60.0
			}
		}
	}

	return &models.TravelTimeMatrix{
		Origins:      origins,
		Destinations: destinations,
		TravelTimes:  times,
		TravelMode:   mode,
	}, nil
}

// isochroneRequest is the ORS isochrone request body
type isochroneRequest struct {
	Locations [][2]float64 `json:"locations"`
	Range     []float64    `json:"range"`
	RangeType string       `json:"range_type"`
}

// isochroneResponse is the GeoJSON shape ORS returns; only the outer ring
// of the first feature is used
type isochroneResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Reachability computes the isochrone polygon around center for the given
// travel-time budget
func (c *ORSClient) Reachability(ctx context.Context, center models.Coordinate, travelTimeMinutes int, mode models.TravelMode) (*models.Polygon, error) {
	var resp isochroneResponse
	if err := c.post(ctx, "/v2/isochrones/"+profileFor(mode), isochroneRequest{
		Locations: [][2]float64{{center.Longitude, center.Latitude}},
		Range:     []float64{float64(travelTimeMinutes) * 60},
		RangeType: "time",
	}, &resp); err != nil {
		return nil, fmt.Errorf("isochrone request failed: %w", err)
	}

	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) == 0 {
		return nil, fmt.Errorf("isochrone response contains no polygon")
	}

	ring := resp.Features[0].Geometry.Coordinates[0]
	polygon := &models.Polygon{Ring: make([]models.Coordinate, len(ring))}
	for i, pt := range ring {
		polygon.Ring[i] = models.Coordinate{Latitude: pt[1], Longitude: pt[0]}
	}
	return polygon, nil
}

// geocodeResponse is the GeoJSON shape the ORS Pelias geocoder returns
type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a free-form address to the best-matching coordinate
func (c *ORSClient) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	endpoint := c.baseURL + "/geocode/search?size=1&text=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Coordinate{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(detail))
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return models.Coordinate{}, fmt.Errorf("no geocoding result for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	return models.Coordinate{Latitude: coords[1], Longitude: coords[0]}, nil
}

// post sends a JSON request and decodes the JSON response
func (c *ORSClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(detail))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
