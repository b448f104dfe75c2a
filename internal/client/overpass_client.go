package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"irrigation-planner/internal/config"
	"irrigation-planner/internal/geo"
	"irrigation-planner/internal/model"
)

// OverpassClient fetches water features from the OpenStreetMap Overpass API.
type OverpassClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOverpassClient(cfg *config.Config) *OverpassClient {
	return &OverpassClient{
		baseURL: cfg.Overpass.URL,
		httpClient: &http.Client{
			Timeout: cfg.Overpass.Timeout,
		},
	}
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// FindWaterSources queries water features inside the bounding box and maps
// them to the domain shape with Source set to "osm".
func (c *OverpassClient) FindWaterSources(ctx context.Context, bounds geo.Bounds) ([]model.WaterSource, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("overpass URL is not configured")
	}

	query := buildQuery(bounds)

	body, err := c.post(ctx, query)
	if err != nil {
		return nil, err
	}

	var response overpassResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse overpass response: %w", err)
	}

	sources := make([]model.WaterSource, 0, len(response.Elements))
	for _, el := range response.Elements {
		source, ok := mapElement(el)
		if !ok {
			continue
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func (c *OverpassClient) post(ctx context.Context, query string) ([]byte, error) {
	form := url.Values{"data": {query}}

	var resp *http.Response
	var lastErr error
	const maxRetries = 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			break
		}
		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("overpass request failed after %d attempts: %w", maxRetries, lastErr)
		}
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}
	if resp == nil {
		return nil, fmt.Errorf("overpass request failed: %w", lastErr)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read overpass response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func buildQuery(b geo.Bounds) string {
	bbox := fmt.Sprintf("%f,%f,%f,%f", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)
	return fmt.Sprintf(`[out:json][timeout:25];
(
  node["natural"="water"](%[1]s);
  way["natural"="water"](%[1]s);
  node["natural"="spring"](%[1]s);
  node["man_made"="water_well"](%[1]s);
  node["man_made"="water_tower"](%[1]s);
  way["waterway"~"^(river|stream|canal)$"](%[1]s);
);
out center tags;`, bbox)
}

func mapElement(el overpassElement) (model.WaterSource, bool) {
	lat, lng := el.Lat, el.Lon
	if el.Center != nil {
		lat, lng = el.Center.Lat, el.Center.Lon
	}
	if lat == 0 && lng == 0 {
		return model.WaterSource{}, false
	}

	srcType, ok := mapType(el.Tags)
	if !ok {
		return model.WaterSource{}, false
	}

	name := el.Tags["name"]
	if name == "" {
		name = fmt.Sprintf("%s (OSM %d)", typeLabel(srcType), el.ID)
	}

	return model.WaterSource{
		ID:          uuid.New(),
		Name:        name,
		Type:        srcType,
		Coordinates: geo.LatLng{Lat: lat, Lng: lng},
		Source:      model.WaterSourceOriginOSM,
	}, true
}

func mapType(tags map[string]string) (model.WaterSourceType, bool) {
	switch {
	case tags["man_made"] == "water_well":
		return model.WaterSourceWell, true
	case tags["man_made"] == "water_tower":
		return model.WaterSourceWaterTower, true
	case tags["natural"] == "spring":
		return model.WaterSourceSpring, true
	}

	switch tags["waterway"] {
	case "river":
		return model.WaterSourceRiver, true
	case "stream":
		return model.WaterSourceStream, true
	case "canal":
		return model.WaterSourceCanal, true
	}

	if tags["natural"] == "water" {
		switch tags["water"] {
		case "pond":
			return model.WaterSourcePond, true
		case "reservoir":
			return model.WaterSourceReservoir, true
		case "river":
			return model.WaterSourceRiver, true
		case "canal":
			return model.WaterSourceCanal, true
		case "stream":
			return model.WaterSourceStream, true
		default:
			return model.WaterSourceLake, true
		}
	}
	if tags["waterway"] != "" {
		return model.WaterSourceWaterway, true
	}
	return "", false
}

func typeLabel(t model.WaterSourceType) string {
	label := strings.ReplaceAll(string(t), "_", " ")
	if label == "" {
		return "water source"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
