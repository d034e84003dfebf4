// Package fetch implements the per-category data fetchers that turn a
// free-text park name into a formatted answer backed by the NPS API.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hollandm/ranger/internal/nps"
)

// resultLimit bounds how many items a category call requests upstream.
const resultLimit = 5

// alertsLimit is higher: the raw list is retained for follow-up filtering.
const alertsLimit = 50

// Resolver maps a free-text park name to a park code.
type Resolver interface {
	Resolve(query string) string
}

// API is the subset of the NPS client the fetchers call.
type API interface {
	Park(ctx context.Context, parkCode string, fields ...string) (nps.Park, error)
	Alerts(ctx context.Context, parkCode string, limit int) ([]nps.Alert, error)
	Events(ctx context.Context, parkCode string, limit int) ([]nps.Event, error)
	Permits(ctx context.Context, parkCode string, limit int) ([]nps.Permit, error)
	Campgrounds(ctx context.Context, parkCode string, limit int) ([]nps.Campground, error)
	ThingsToDo(ctx context.Context, parkCode string, limit int) ([]nps.ThingToDo, error)
	RoadEvents(ctx context.Context, parkCode string, limit int) ([]nps.RoadEvent, error)
	Webcams(ctx context.Context, parkCode string, limit int) ([]nps.Webcam, error)
	VisitorCenters(ctx context.Context, parkCode string, limit int) ([]nps.VisitorCenter, error)
}

// Store is the response cache surface the fetchers use. A nil Store
// disables caching.
type Store interface {
	Get(category, park string) (any, bool)
	Put(category, park string, value any)
}

// Result is a fetcher's answer: user-facing text and, where the caller
// needs it, the structured payload behind it.
type Result struct {
	Text string `json:"text"`
	Data any    `json:"data,omitempty"`
}

// Fetchers answers category questions about parks.
type Fetchers struct {
	resolver Resolver
	api      API
	store    Store
	logger   *slog.Logger
}

// New creates Fetchers over the given resolver, API client, and cache.
func New(resolver Resolver, api API, store Store) *Fetchers {
	return &Fetchers{
		resolver: resolver,
		api:      api,
		store:    store,
		logger:   slog.Default(),
	}
}

func notFoundMsg(parkName string) string {
	return fmt.Sprintf("I couldn't find information for %q. Please check the park name and try again.", parkName)
}

func unavailableMsg(what string) string {
	return fmt.Sprintf("Unable to retrieve %s at this time.", what)
}

// resolve returns the park code for parkName, or "" when the name cannot
// be resolved (including when the index has not loaded yet).
func (f *Fetchers) resolve(parkName string) string {
	return f.resolver.Resolve(parkName)
}

// cached wraps a category fetch with cache get/put. The compute func runs
// only on a miss; its Result is stored wholesale.
func (f *Fetchers) cached(category Category, parkName string, compute func() (Result, error)) (Result, error) {
	if f.store != nil {
		if v, ok := f.store.Get(string(category), parkName); ok {
			if r, ok := v.(Result); ok {
				return r, nil
			}
		}
	}
	r, err := compute()
	if err != nil {
		return r, err
	}
	if f.store != nil {
		f.store.Put(string(category), parkName, r)
	}
	return r, nil
}

// failure logs an upstream error and converts it to a generic message.
func (f *Fetchers) failure(category Category, parkName, what string, err error) Result {
	f.logger.Warn("upstream fetch failed", "category", category, "park", parkName, "error", err)
	return Result{Text: unavailableMsg(what)}
}

// ParkHours returns the operating hours description for a park.
func (f *Fetchers) ParkHours(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	park, err := f.api.Park(ctx, code, "operatingHours")
	if err != nil {
		return f.failure(CategoryParkHours, parkName, "park hours", err)
	}
	if len(park.OperatingHours) == 0 {
		return Result{Text: fmt.Sprintf("Operating hours information for %s is not available.", park.FullName)}
	}
	return Result{
		Text: fmt.Sprintf("Operating hours for %s: %s", park.FullName, park.OperatingHours[0].Description),
		Data: park.OperatingHours,
	}
}

// Permits lists permits offered at a park.
func (f *Fetchers) Permits(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	permits, err := f.api.Permits(ctx, code, resultLimit)
	if err != nil {
		return f.failure(CategoryPermits, parkName, "permit information", err)
	}
	if len(permits) == 0 {
		return Result{Text: fmt.Sprintf("No permit information found for %s.", parkName)}
	}

	titles := make([]string, len(permits))
	for i, p := range permits {
		titles[i] = p.Title
	}
	return Result{
		Text: fmt.Sprintf("Permits available at %s: %s", parkName, strings.Join(titles, ", ")),
		Data: permits,
	}
}

// Events lists upcoming events at a park.
func (f *Fetchers) Events(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	r, err := f.cached(CategoryEvents, parkName, func() (Result, error) {
		events, err := f.api.Events(ctx, code, resultLimit)
		if err != nil {
			return Result{}, err
		}
		if len(events) == 0 {
			return Result{Text: fmt.Sprintf("No upcoming events found for %s.", parkName)}, nil
		}
		parts := make([]string, len(events))
		for i, e := range events {
			parts[i] = fmt.Sprintf("%s on %s", e.Title, e.DateStart)
		}
		return Result{
			Text: fmt.Sprintf("Upcoming events at %s: %s", parkName, strings.Join(parts, "; ")),
			Data: events,
		}, nil
	})
	if err != nil {
		return f.failure(CategoryEvents, parkName, "events information", err)
	}
	return r
}

// GeneralInfo returns the park description.
func (f *Fetchers) GeneralInfo(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	r, err := f.cached(CategoryGeneralInfo, parkName, func() (Result, error) {
		park, err := f.api.Park(ctx, code, "description", "weatherInfo")
		if err != nil {
			return Result{}, err
		}
		if park.Description == "" {
			return Result{Text: fmt.Sprintf("No description available for %s.", park.FullName)}, nil
		}
		text := fmt.Sprintf("Here's some information about %s: %s", park.FullName, park.Description)
		if park.WeatherInfo != "" {
			text += fmt.Sprintf("\n\nWeather: %s", park.WeatherInfo)
		}
		return Result{Text: text, Data: park}, nil
	})
	if err != nil {
		return f.failure(CategoryGeneralInfo, parkName, "park information", err)
	}
	return r
}

// Alerts returns the current alerts for a park. On success Data holds the
// raw []nps.Alert so callers can retain it for follow-up filtering.
func (f *Fetchers) Alerts(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	r, err := f.cached(CategoryAlerts, parkName, func() (Result, error) {
		alerts, err := f.api.Alerts(ctx, code, alertsLimit)
		if err != nil {
			return Result{}, err
		}
		if len(alerts) == 0 {
			return Result{Text: fmt.Sprintf("There are currently no alerts for %s.", parkName)}, nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Here are the current alerts for %s:\n", parkName)
		for i, a := range alerts {
			fmt.Fprintf(&sb, "\n**Alert %d:**\n- **Title**: %s\n- **Description**: %s\n- **Category**: %s\n", i+1, a.Title, a.Description, a.Category)
			if a.URL != "" {
				fmt.Fprintf(&sb, "- **More info**: %s\n", a.URL)
			}
		}
		return Result{Text: sb.String(), Data: alerts}, nil
	})
	if err != nil {
		return f.failure(CategoryAlerts, parkName, "alerts", err)
	}
	return r
}

// Campgrounds lists campgrounds at a park.
func (f *Fetchers) Campgrounds(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	r, err := f.cached(CategoryCampgrounds, parkName, func() (Result, error) {
		camps, err := f.api.Campgrounds(ctx, code, resultLimit)
		if err != nil {
			return Result{}, err
		}
		if len(camps) == 0 {
			return Result{Text: fmt.Sprintf("No campground information found for %s.", parkName)}, nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Campgrounds at %s:\n", parkName)
		for _, cg := range camps {
			fmt.Fprintf(&sb, "\n- **%s**", cg.Name)
			if cg.Campsites.TotalSites != "" && cg.Campsites.TotalSites != "0" {
				fmt.Fprintf(&sb, " (%s sites)", cg.Campsites.TotalSites)
			}
			if cg.Description != "" {
				fmt.Fprintf(&sb, ": %s", cg.Description)
			}
		}
		return Result{Text: sb.String(), Data: camps}, nil
	})
	if err != nil {
		return f.failure(CategoryCampgrounds, parkName, "campground information", err)
	}
	return r
}

// ThingsToDo lists activities at a park.
func (f *Fetchers) ThingsToDo(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	r, err := f.cached(CategoryThingsToDo, parkName, func() (Result, error) {
		things, err := f.api.ThingsToDo(ctx, code, resultLimit)
		if err != nil {
			return Result{}, err
		}
		if len(things) == 0 {
			return Result{Text: fmt.Sprintf("No activity information found for %s.", parkName)}, nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Things to do at %s:\n", parkName)
		for _, t := range things {
			fmt.Fprintf(&sb, "\n- **%s**", t.Title)
			if t.Duration != "" {
				fmt.Fprintf(&sb, " (%s)", t.Duration)
			}
			if t.ShortDescription != "" {
				fmt.Fprintf(&sb, ": %s", t.ShortDescription)
			}
		}
		return Result{Text: sb.String(), Data: things}, nil
	})
	if err != nil {
		return f.failure(CategoryThingsToDo, parkName, "activity information", err)
	}
	return r
}

// FeesPasses lists entrance fees and passes for a park.
func (f *Fetchers) FeesPasses(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	park, err := f.api.Park(ctx, code, "entranceFees", "entrancePasses")
	if err != nil {
		return f.failure(CategoryFeesPasses, parkName, "fee information", err)
	}
	if len(park.EntranceFees) == 0 && len(park.EntrancePasses) == 0 {
		return Result{Text: fmt.Sprintf("No fee information found for %s.", parkName)}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Fees and passes for %s:\n", park.FullName)
	for _, fee := range park.EntranceFees {
		fmt.Fprintf(&sb, "\n- %s: $%s", fee.Title, fee.Cost)
	}
	for _, pass := range park.EntrancePasses {
		fmt.Fprintf(&sb, "\n- %s: $%s", pass.Title, pass.Cost)
	}
	return Result{
		Text: sb.String(),
		Data: map[string]any{"entranceFees": park.EntranceFees, "entrancePasses": park.EntrancePasses},
	}
}

// RoadConditions lists road closures and conditions for a park.
func (f *Fetchers) RoadConditions(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	r, err := f.cached(CategoryRoadConditions, parkName, func() (Result, error) {
		events, err := f.api.RoadEvents(ctx, code, alertsLimit)
		if err != nil {
			return Result{}, err
		}
		if len(events) == 0 {
			return Result{Text: fmt.Sprintf("No road condition reports found for %s.", parkName)}, nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Road conditions at %s:\n", parkName)
		for _, e := range events {
			fmt.Fprintf(&sb, "\n- **%s**: %s", e.Title, e.Description)
		}
		return Result{Text: sb.String(), Data: events}, nil
	})
	if err != nil {
		return f.failure(CategoryRoadConditions, parkName, "road conditions", err)
	}
	return r
}

// Webcams lists webcams at a park.
func (f *Fetchers) Webcams(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	cams, err := f.api.Webcams(ctx, code, resultLimit)
	if err != nil {
		return f.failure(CategoryWebcams, parkName, "webcams", err)
	}
	if len(cams) == 0 {
		return Result{Text: fmt.Sprintf("No webcams found for %s.", parkName)}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Webcams at %s:\n", parkName)
	for _, cam := range cams {
		fmt.Fprintf(&sb, "\n- %s: %s", cam.Title, cam.URL)
	}
	return Result{Text: sb.String(), Data: cams}
}

// VisitorCenters lists visitor centers at a park.
func (f *Fetchers) VisitorCenters(ctx context.Context, parkName string) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	r, err := f.cached(CategoryVisitorCenters, parkName, func() (Result, error) {
		centers, err := f.api.VisitorCenters(ctx, code, resultLimit)
		if err != nil {
			return Result{}, err
		}
		if len(centers) == 0 {
			return Result{Text: fmt.Sprintf("No visitor center information found for %s.", parkName)}, nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Visitor centers at %s:\n", parkName)
		for _, vc := range centers {
			fmt.Fprintf(&sb, "\n- **%s**: %s", vc.Name, vc.Description)
		}
		return Result{Text: sb.String(), Data: centers}, nil
	})
	if err != nil {
		return f.failure(CategoryVisitorCenters, parkName, "visitor center information", err)
	}
	return r
}

// Dispatch routes a stateless category request to the matching fetcher.
// specific_alert is not dispatchable here.
func (f *Fetchers) Dispatch(ctx context.Context, category Category, parkName string, trip TripParams) Result {
	switch category {
	case CategoryParkHours:
		return f.ParkHours(ctx, parkName)
	case CategoryPermits:
		return f.Permits(ctx, parkName)
	case CategoryEvents:
		return f.Events(ctx, parkName)
	case CategoryAlerts:
		return f.Alerts(ctx, parkName)
	case CategoryGeneralInfo:
		return f.GeneralInfo(ctx, parkName)
	case CategoryCampgrounds:
		return f.Campgrounds(ctx, parkName)
	case CategoryThingsToDo:
		return f.ThingsToDo(ctx, parkName)
	case CategoryFeesPasses:
		return f.FeesPasses(ctx, parkName)
	case CategoryRoadConditions:
		return f.RoadConditions(ctx, parkName)
	case CategoryWebcams:
		return f.Webcams(ctx, parkName)
	case CategoryVisitorCenters:
		return f.VisitorCenters(ctx, parkName)
	case CategoryTripPlan:
		return f.TripPlan(ctx, parkName, trip)
	default:
		return Result{Text: "I'm sorry, I don't have information on that topic."}
	}
}
