package fetch

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hollandm/ranger/internal/nps"
)

// TripParams carries the optional trip details extracted from the user's
// request.
type TripParams struct {
	DurationDays int    `json:"durationDays,omitempty"`
	Month        string `json:"month,omitempty"`
	GroupSize    int    `json:"groupSize,omitempty"`
}

// TripPlan assembles the raw material for a trip itinerary: park overview,
// campgrounds, activities, and fees fetched concurrently. Any sub-fetch
// failure aborts the whole plan.
func (f *Fetchers) TripPlan(ctx context.Context, parkName string, params TripParams) Result {
	code := f.resolve(parkName)
	if code == "" {
		return Result{Text: notFoundMsg(parkName)}
	}

	var (
		park   nps.Park
		camps  []nps.Campground
		things []nps.ThingToDo
		fees   nps.Park
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		park, err = f.api.Park(gctx, code, "description", "weatherInfo")
		return err
	})
	g.Go(func() error {
		var err error
		camps, err = f.api.Campgrounds(gctx, code, resultLimit)
		return err
	})
	g.Go(func() error {
		var err error
		things, err = f.api.ThingsToDo(gctx, code, resultLimit)
		return err
	})
	g.Go(func() error {
		var err error
		fees, err = f.api.Park(gctx, code, "entranceFees", "entrancePasses")
		return err
	})
	if err := g.Wait(); err != nil {
		return f.failure(CategoryTripPlan, parkName, "trip planning information", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Trip planning information for %s", park.FullName)
	if params.DurationDays > 0 {
		fmt.Fprintf(&sb, " (%d days", params.DurationDays)
		if params.Month != "" {
			fmt.Fprintf(&sb, " in %s", params.Month)
		}
		if params.GroupSize > 0 {
			fmt.Fprintf(&sb, ", group of %d", params.GroupSize)
		}
		sb.WriteString(")")
	}
	sb.WriteString(":\n")

	sb.WriteString("\n## Overview\n")
	sb.WriteString(park.Description)
	if park.WeatherInfo != "" {
		fmt.Fprintf(&sb, "\n\nWeather: %s", park.WeatherInfo)
	}

	sb.WriteString("\n\n## Campgrounds\n")
	if len(camps) == 0 {
		sb.WriteString("No campgrounds listed.")
	}
	for _, cg := range camps {
		fmt.Fprintf(&sb, "- %s", cg.Name)
		if cg.Campsites.TotalSites != "" && cg.Campsites.TotalSites != "0" {
			fmt.Fprintf(&sb, " (%s sites)", cg.Campsites.TotalSites)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Things To Do\n")
	if len(things) == 0 {
		sb.WriteString("No activities listed.")
	}
	for _, t := range things {
		fmt.Fprintf(&sb, "- %s", t.Title)
		if t.Duration != "" {
			fmt.Fprintf(&sb, " (%s)", t.Duration)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Fees\n")
	if len(fees.EntranceFees) == 0 && len(fees.EntrancePasses) == 0 {
		sb.WriteString("No fee information listed.")
	}
	for _, fee := range fees.EntranceFees {
		fmt.Fprintf(&sb, "- %s: $%s\n", fee.Title, fee.Cost)
	}
	for _, pass := range fees.EntrancePasses {
		fmt.Fprintf(&sb, "- %s: $%s\n", pass.Title, pass.Cost)
	}

	return Result{
		Text: sb.String(),
		Data: map[string]any{
			"park":           park,
			"campgrounds":    camps,
			"thingsToDo":     things,
			"entranceFees":   fees.EntranceFees,
			"entrancePasses": fees.EntrancePasses,
		},
	}
}
