package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hollandm/ranger/internal/nps"
)

func TestTripPlan_AllSections(t *testing.T) {
	api := &fakeAPI{
		park: nps.Park{
			FullName:    "Yellowstone National Park",
			Description: "The world's first national park.",
			WeatherInfo: "Cold winters, mild summers.",
			EntranceFees: []nps.Fee{
				{Title: "Private Vehicle", Cost: "35.00"},
			},
		},
		camps:  []nps.Campground{{Name: "Madison Campground"}},
		things: []nps.ThingToDo{{Title: "Watch Old Faithful", Duration: "1 hour"}},
	}
	f := New(yellowstoneResolver(), api, nil)

	res := f.TripPlan(context.Background(), "Yellowstone", TripParams{DurationDays: 3, Month: "June", GroupSize: 4})

	for _, section := range []string{"## Overview", "## Campgrounds", "## Things To Do", "## Fees"} {
		if !strings.Contains(res.Text, section) {
			t.Errorf("Text missing section %q", section)
		}
	}
	for _, want := range []string{
		"The world's first national park.",
		"Madison Campground",
		"Watch Old Faithful",
		"Private Vehicle: $35.00",
		"3 days",
		"June",
		"group of 4",
	} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("Text missing %q", want)
		}
	}
	if res.Data == nil {
		t.Error("Data should carry the assembled bundle")
	}
}

func TestTripPlan_AnyFailureAborts(t *testing.T) {
	api := &fakeAPI{
		park:    nps.Park{FullName: "Yellowstone National Park", Description: "ok"},
		listErr: errors.New("campgrounds endpoint down"),
	}
	f := New(yellowstoneResolver(), api, nil)

	res := f.TripPlan(context.Background(), "Yellowstone", TripParams{})

	if !strings.Contains(res.Text, "Unable to retrieve") {
		t.Errorf("Text = %q, want unable-to-retrieve message", res.Text)
	}
	if strings.Contains(res.Text, "## Overview") {
		t.Error("partial itinerary emitted after a sub-fetch failure")
	}
	if res.Data != nil {
		t.Error("Data should be nil on abort")
	}
}

func TestTripPlan_ParkNotFound(t *testing.T) {
	f := New(yellowstoneResolver(), &fakeAPI{}, nil)

	res := f.TripPlan(context.Background(), "Atlantis", TripParams{})
	if !strings.Contains(res.Text, "couldn't find information") {
		t.Errorf("Text = %q", res.Text)
	}
}
