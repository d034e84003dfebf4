// Package nps is a client for the National Park Service public data API.
package nps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://developer.nps.gov/api/v1"

	// rosterPageSize is the NPS API page limit per request.
	rosterPageSize = 50

	defaultTimeout = 8 * time.Second
	// Alerts sit on the conversational hot path and get a tighter budget.
	alertsTimeout = 3 * time.Second
)

// Client communicates with the NPS data API over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client using the given API key.
func New(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 0,
		},
	}
}

// NewWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// envelope mirrors the common NPS response wrapper. Total is a string in
// the upstream payload.
type envelope[T any] struct {
	Total string `json:"total"`
	Data  []T    `json:"data"`
}

func get[T any](ctx context.Context, c *Client, path string, params url.Values, timeout time.Duration) (envelope[T], error) {
	var env envelope[T]

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params.Set("api_key", c.apiKey)
	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return env, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return env, fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, fmt.Errorf("decoding %s response: %w", path, err)
	}
	return env, nil
}

func codeParams(parkCode string, limit int) url.Values {
	p := url.Values{}
	p.Set("parkCode", parkCode)
	if limit > 0 {
		p.Set("limit", strconv.Itoa(limit))
	}
	return p
}

// Park fetches a single park record by code with the given fields.
func (c *Client) Park(ctx context.Context, parkCode string, fields ...string) (Park, error) {
	p := codeParams(parkCode, 1)
	if len(fields) > 0 {
		p.Set("fields", strings.Join(fields, ","))
	}
	env, err := get[Park](ctx, c, "/parks", p, defaultTimeout)
	if err != nil {
		return Park{}, err
	}
	if len(env.Data) == 0 {
		return Park{}, fmt.Errorf("park %q: no data", parkCode)
	}
	return env.Data[0], nil
}

// AllParks iterates the paginated roster until the reported total is
// reached, returning every park's name, code, states, and images.
func (c *Client) AllParks(ctx context.Context) ([]Park, error) {
	var all []Park
	start := 0
	total := 1

	for start < total {
		p := url.Values{}
		p.Set("limit", strconv.Itoa(rosterPageSize))
		p.Set("start", strconv.Itoa(start))
		p.Set("fields", "parkCode,fullName,states,images")

		env, err := get[Park](ctx, c, "/parks", p, defaultTimeout)
		if err != nil {
			return nil, fmt.Errorf("fetching park roster (start=%d): %w", start, err)
		}

		t, err := strconv.Atoi(env.Total)
		if err != nil {
			return nil, fmt.Errorf("parsing roster total %q: %w", env.Total, err)
		}
		total = t
		all = append(all, env.Data...)
		start += rosterPageSize

		if len(env.Data) == 0 {
			break
		}
	}
	return all, nil
}

// Alerts returns current alerts for a park.
func (c *Client) Alerts(ctx context.Context, parkCode string, limit int) ([]Alert, error) {
	env, err := get[Alert](ctx, c, "/alerts", codeParams(parkCode, limit), alertsTimeout)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Events returns upcoming events for a park.
func (c *Client) Events(ctx context.Context, parkCode string, limit int) ([]Event, error) {
	env, err := get[Event](ctx, c, "/events", codeParams(parkCode, limit), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Permits returns permits offered at a park.
func (c *Client) Permits(ctx context.Context, parkCode string, limit int) ([]Permit, error) {
	env, err := get[Permit](ctx, c, "/permits", codeParams(parkCode, limit), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Campgrounds returns campgrounds for a park.
func (c *Client) Campgrounds(ctx context.Context, parkCode string, limit int) ([]Campground, error) {
	env, err := get[Campground](ctx, c, "/campgrounds", codeParams(parkCode, limit), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ThingsToDo returns activities listed for a park.
func (c *Client) ThingsToDo(ctx context.Context, parkCode string, limit int) ([]ThingToDo, error) {
	env, err := get[ThingToDo](ctx, c, "/thingstodo", codeParams(parkCode, limit), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// RoadEvents returns road closures and conditions for a park.
func (c *Client) RoadEvents(ctx context.Context, parkCode string, limit int) ([]RoadEvent, error) {
	env, err := get[RoadEvent](ctx, c, "/roadevents", codeParams(parkCode, limit), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Webcams returns webcams for a park.
func (c *Client) Webcams(ctx context.Context, parkCode string, limit int) ([]Webcam, error) {
	env, err := get[Webcam](ctx, c, "/webcams", codeParams(parkCode, limit), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// VisitorCenters returns visitor centers for a park.
func (c *Client) VisitorCenters(ctx context.Context, parkCode string, limit int) ([]VisitorCenter, error) {
	env, err := get[VisitorCenter](ctx, c, "/visitorcenters", codeParams(parkCode, limit), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}
