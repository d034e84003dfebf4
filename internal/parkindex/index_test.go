package parkindex

import (
	"context"
	"errors"
	"testing"

	"github.com/hollandm/ranger/internal/nps"
)

// fakeRoster implements RosterClient.
type fakeRoster struct {
	parks []nps.Park
	err   error
}

func (f fakeRoster) AllParks(ctx context.Context) ([]nps.Park, error) {
	return f.parks, f.err
}

func loadedIndex(t *testing.T) *Index {
	t.Helper()
	ix := New(fakeRoster{parks: []nps.Park{
		{FullName: "Yellowstone National Park", ParkCode: "yell", States: "WY,MT,ID"},
		{FullName: "Yosemite National Park", ParkCode: "yose", States: "CA"},
		{FullName: "Zion National Park", ParkCode: "zion", States: "UT"},
		{FullName: "Grand Canyon National Park", ParkCode: "grca", States: "AZ"},
		{FullName: "Great Smoky Mountains National Park", ParkCode: "grsm", States: "NC,TN"},
	}})
	if err := ix.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return ix
}

func TestResolve_PartialName(t *testing.T) {
	ix := loadedIndex(t)

	cases := []struct {
		query string
		want  string
	}{
		{"Yellowstone", "yell"},
		{"yellowstone national park", "yell"},
		{"  ZION  ", "zion"},
		{"Grand Canyon", "grca"},
		{"Great Smoky Mountains", "grsm"},
	}
	for _, tc := range cases {
		if got := ix.Resolve(tc.query); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestResolve_Typo(t *testing.T) {
	ix := loadedIndex(t)

	if got := ix.Resolve("Yellowstone National Prak"); got != "yell" {
		t.Errorf("Resolve typo = %q, want yell", got)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	ix := loadedIndex(t)

	if got := ix.Resolve("Xyzzyplex"); got != "" {
		t.Errorf("Resolve(Xyzzyplex) = %q, want empty", got)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	ix := loadedIndex(t)

	first := ix.Resolve("Yellowstone")
	for range 20 {
		if got := ix.Resolve("Yellowstone"); got != first {
			t.Fatalf("Resolve not deterministic: %q then %q", first, got)
		}
	}
}

func TestResolve_Unloaded(t *testing.T) {
	ix := New(fakeRoster{})

	if ix.Loaded() {
		t.Error("Loaded() = true before Load")
	}
	if got := ix.Resolve("Yellowstone"); got != "" {
		t.Errorf("Resolve on unloaded index = %q, want empty", got)
	}
}

func TestLoad_Error(t *testing.T) {
	ix := New(fakeRoster{err: errors.New("upstream down")})

	if err := ix.Load(context.Background()); err == nil {
		t.Fatal("expected Load error, got nil")
	}
	if ix.Loaded() {
		t.Error("Loaded() = true after failed Load")
	}
}

func TestEntries_SortedCopy(t *testing.T) {
	ix := loadedIndex(t)

	entries := ix.Entries()
	if len(entries) != 5 {
		t.Fatalf("len(entries) = %d, want 5", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].FullName > entries[i].FullName {
			t.Fatalf("entries not sorted: %q before %q", entries[i-1].FullName, entries[i].FullName)
		}
	}

	// Mutating the copy must not affect the index.
	entries[0].ParkCode = "mutated"
	if got := ix.Entries()[0].ParkCode; got == "mutated" {
		t.Error("Entries() returned a live reference")
	}
}

func TestGet(t *testing.T) {
	ix := loadedIndex(t)

	e, ok := ix.Get("zion")
	if !ok || e.FullName != "Zion National Park" {
		t.Errorf("Get(zion) = %+v, %v", e, ok)
	}
	if _, ok := ix.Get("nope"); ok {
		t.Error("Get(nope) = ok, want miss")
	}
}

func TestResolveEntry_ImageCarried(t *testing.T) {
	ix := New(fakeRoster{parks: []nps.Park{
		{
			FullName: "Acadia National Park",
			ParkCode: "acad",
			States:   "ME",
			Images:   []nps.Image{{URL: "https://example.com/acadia.jpg"}},
		},
	}})
	if err := ix.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	e, ok := ix.ResolveEntry("Acadia")
	if !ok {
		t.Fatal("ResolveEntry(Acadia) missed")
	}
	if e.Image == nil || e.Image.URL != "https://example.com/acadia.jpg" {
		t.Errorf("Image = %+v", e.Image)
	}
	if e.Image.AltText != "Acadia National Park" {
		t.Errorf("AltText = %q, want park name fallback", e.Image.AltText)
	}
}
