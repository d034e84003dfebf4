package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hollandm/ranger/internal/nps"
)

// fakeResolver resolves names via a fixed map.
type fakeResolver struct {
	codes map[string]string
}

func (f fakeResolver) Resolve(query string) string {
	return f.codes[query]
}

// fakeAPI serves canned data and records calls.
type fakeAPI struct {
	park    nps.Park
	parkErr error

	alerts  []nps.Alert
	events  []nps.Event
	permits []nps.Permit
	camps   []nps.Campground
	things  []nps.ThingToDo
	roads   []nps.RoadEvent
	cams    []nps.Webcam
	centers []nps.VisitorCenter
	listErr error

	calls int
}

func (f *fakeAPI) Park(ctx context.Context, parkCode string, fields ...string) (nps.Park, error) {
	f.calls++
	return f.park, f.parkErr
}

func (f *fakeAPI) Alerts(ctx context.Context, parkCode string, limit int) ([]nps.Alert, error) {
	f.calls++
	return f.alerts, f.listErr
}

func (f *fakeAPI) Events(ctx context.Context, parkCode string, limit int) ([]nps.Event, error) {
	f.calls++
	return f.events, f.listErr
}

func (f *fakeAPI) Permits(ctx context.Context, parkCode string, limit int) ([]nps.Permit, error) {
	f.calls++
	return f.permits, f.listErr
}

func (f *fakeAPI) Campgrounds(ctx context.Context, parkCode string, limit int) ([]nps.Campground, error) {
	f.calls++
	return f.camps, f.listErr
}

func (f *fakeAPI) ThingsToDo(ctx context.Context, parkCode string, limit int) ([]nps.ThingToDo, error) {
	f.calls++
	return f.things, f.listErr
}

func (f *fakeAPI) RoadEvents(ctx context.Context, parkCode string, limit int) ([]nps.RoadEvent, error) {
	f.calls++
	return f.roads, f.listErr
}

func (f *fakeAPI) Webcams(ctx context.Context, parkCode string, limit int) ([]nps.Webcam, error) {
	f.calls++
	return f.cams, f.listErr
}

func (f *fakeAPI) VisitorCenters(ctx context.Context, parkCode string, limit int) ([]nps.VisitorCenter, error) {
	f.calls++
	return f.centers, f.listErr
}

// memStore is a plain map cache for tests.
type memStore struct {
	m map[string]any
}

func newMemStore() *memStore {
	return &memStore{m: make(map[string]any)}
}

func (s *memStore) Get(category, park string) (any, bool) {
	v, ok := s.m[category+"/"+park]
	return v, ok
}

func (s *memStore) Put(category, park string, value any) {
	s.m[category+"/"+park] = value
}

func yellowstoneResolver() fakeResolver {
	return fakeResolver{codes: map[string]string{"Yellowstone": "yell"}}
}

func TestFetchers_ParkNotFound(t *testing.T) {
	f := New(yellowstoneResolver(), &fakeAPI{}, nil)

	res := f.GeneralInfo(context.Background(), "Atlantis")
	if !strings.Contains(res.Text, "couldn't find information") {
		t.Errorf("Text = %q, want park-not-found message", res.Text)
	}
	if res.Data != nil {
		t.Error("Data should be nil for unresolved park")
	}
}

func TestFetchers_EmptyResult(t *testing.T) {
	f := New(yellowstoneResolver(), &fakeAPI{}, nil)

	res := f.Campgrounds(context.Background(), "Yellowstone")
	if !strings.Contains(res.Text, "No campground information found") {
		t.Errorf("Text = %q, want nothing-found message", res.Text)
	}
	if res.Data != nil {
		t.Error("Data should be nil for empty result")
	}
}

func TestFetchers_UpstreamFailure(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("timeout")}
	f := New(yellowstoneResolver(), api, nil)

	res := f.Permits(context.Background(), "Yellowstone")
	if !strings.Contains(res.Text, "Unable to retrieve") {
		t.Errorf("Text = %q, want unable-to-retrieve message", res.Text)
	}
}

func TestFetchers_AlertsCarryData(t *testing.T) {
	api := &fakeAPI{alerts: []nps.Alert{
		{ID: "a1", Title: "Road Closure on North Rim", Category: "Park Closure"},
		{ID: "a2", Title: "Flash Flood Warning", Category: "Danger"},
	}}
	f := New(yellowstoneResolver(), api, nil)

	res := f.Alerts(context.Background(), "Yellowstone")
	alerts, ok := res.Data.([]nps.Alert)
	if !ok || len(alerts) != 2 {
		t.Fatalf("Data = %T %v, want 2 alerts", res.Data, res.Data)
	}
	if !strings.Contains(res.Text, "Road Closure on North Rim") {
		t.Errorf("Text = %q, want alert titles", res.Text)
	}
}

func TestFetchers_NoAlerts(t *testing.T) {
	f := New(yellowstoneResolver(), &fakeAPI{}, nil)

	res := f.Alerts(context.Background(), "Yellowstone")
	if !strings.Contains(res.Text, "no alerts") {
		t.Errorf("Text = %q, want no-alerts message", res.Text)
	}
	if res.Data != nil {
		t.Error("Data should be nil when there are no alerts")
	}
}

func TestFetchers_CachedCategoriesHitStore(t *testing.T) {
	api := &fakeAPI{camps: []nps.Campground{{Name: "Madison"}}}
	store := newMemStore()
	f := New(yellowstoneResolver(), api, store)

	first := f.Campgrounds(context.Background(), "Yellowstone")
	callsAfterFirst := api.calls
	second := f.Campgrounds(context.Background(), "Yellowstone")

	if api.calls != callsAfterFirst {
		t.Errorf("second call hit upstream: calls %d -> %d", callsAfterFirst, api.calls)
	}
	if first.Text != second.Text {
		t.Errorf("cached text differs: %q vs %q", first.Text, second.Text)
	}
}

func TestFetchers_UncachedCategorySkipsStore(t *testing.T) {
	api := &fakeAPI{cams: []nps.Webcam{{Title: "Old Faithful", URL: "https://example.com/of"}}}
	store := newMemStore()
	f := New(yellowstoneResolver(), api, store)

	f.Webcams(context.Background(), "Yellowstone")
	f.Webcams(context.Background(), "Yellowstone")

	if len(store.m) != 0 {
		t.Errorf("webcams wrote %d cache entries, want 0", len(store.m))
	}
	if api.calls != 2 {
		t.Errorf("calls = %d, want 2", api.calls)
	}
}

func TestFetchers_FailureNotCached(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("boom")}
	store := newMemStore()
	f := New(yellowstoneResolver(), api, store)

	f.ThingsToDo(context.Background(), "Yellowstone")
	if len(store.m) != 0 {
		t.Errorf("failure was cached: %d entries", len(store.m))
	}
}

func TestFetchers_FeesPasses(t *testing.T) {
	api := &fakeAPI{park: nps.Park{
		FullName:     "Yellowstone National Park",
		EntranceFees: []nps.Fee{{Title: "Private Vehicle", Cost: "35.00"}},
		EntrancePasses: []nps.Fee{
			{Title: "Annual Pass", Cost: "70.00"},
		},
	}}
	f := New(yellowstoneResolver(), api, nil)

	res := f.FeesPasses(context.Background(), "Yellowstone")
	for _, want := range []string{"Private Vehicle", "$35.00", "Annual Pass", "$70.00"} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("Text missing %q: %q", want, res.Text)
		}
	}
}

func TestDispatch_UnknownCategory(t *testing.T) {
	f := New(yellowstoneResolver(), &fakeAPI{}, nil)

	res := f.Dispatch(context.Background(), Category("astrology"), "Yellowstone", TripParams{})
	if !strings.Contains(res.Text, "don't have information") {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestParseCategory(t *testing.T) {
	if _, ok := ParseCategory("campgrounds"); !ok {
		t.Error("campgrounds rejected")
	}
	if _, ok := ParseCategory("specific_alert"); ok {
		t.Error("specific_alert accepted on the query path")
	}
	if _, ok := ParseCategory("horoscope"); ok {
		t.Error("unknown category accepted")
	}
}

func TestValidIntent(t *testing.T) {
	for _, good := range []string{"park_hours", "specific_alert", "trip_plan"} {
		if !ValidIntent(good) {
			t.Errorf("ValidIntent(%q) = false", good)
		}
	}
	if ValidIntent("visitor_centers") {
		t.Error("visitor_centers is not a conversational intent")
	}
	if ValidIntent("") {
		t.Error("empty intent accepted")
	}
}
