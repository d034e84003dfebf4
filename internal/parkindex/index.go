// Package parkindex resolves free-text park names to NPS park codes.
package parkindex

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/hollandm/ranger/internal/nps"
)

// similarityThreshold is the minimum normalized similarity a roster entry
// must score for Resolve to accept it. The original tuning sat around
// 0.3–0.4 edit distance, i.e. 0.6+ similarity.
const similarityThreshold = 0.6

// RosterClient fetches the full park roster.
type RosterClient interface {
	AllParks(ctx context.Context) ([]nps.Park, error)
}

// Entry is one park in the loaded roster.
type Entry struct {
	FullName string     `json:"fullName"`
	ParkCode string     `json:"parkCode"`
	States   string     `json:"states"`
	Image    *nps.Image `json:"image"`
}

// Index holds the park roster and answers fuzzy name lookups.
// Zero value is usable: Resolve returns "" until Load succeeds.
type Index struct {
	client RosterClient

	mu      sync.RWMutex
	entries []Entry
	byCode  map[string]Entry
	loaded  bool
}

// New creates an Index backed by the given roster client.
func New(client RosterClient) *Index {
	return &Index{client: client}
}

// Load fetches the roster and builds the index. On failure the index stays
// empty and Resolve degrades to "not found" for every query.
func (ix *Index) Load(ctx context.Context) error {
	parks, err := ix.client.AllParks(ctx)
	if err != nil {
		return fmt.Errorf("loading park roster: %w", err)
	}

	entries := make([]Entry, 0, len(parks))
	byCode := make(map[string]Entry, len(parks))
	for _, p := range parks {
		e := Entry{
			FullName: p.FullName,
			ParkCode: p.ParkCode,
			States:   p.States,
		}
		if len(p.Images) > 0 {
			img := p.Images[0]
			if img.AltText == "" {
				img.AltText = p.FullName
			}
			e.Image = &img
		}
		entries = append(entries, e)
		byCode[p.ParkCode] = e
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].FullName < entries[j].FullName })

	ix.mu.Lock()
	ix.entries = entries
	ix.byCode = byCode
	ix.loaded = true
	ix.mu.Unlock()

	slog.Info("park roster loaded", "parks", len(entries))
	return nil
}

// Loaded reports whether the roster has been loaded.
func (ix *Index) Loaded() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.loaded
}

// Entries returns a copy of the roster sorted by full name.
func (ix *Index) Entries() []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]Entry, len(ix.entries))
	copy(out, ix.entries)
	return out
}

// Get returns the roster entry for a park code.
func (ix *Index) Get(code string) (Entry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.byCode[code]
	return e, ok
}

// Resolve performs fuzzy matching of query against all full names and
// returns the best match's park code, or "" if nothing clears the
// threshold or the index is not loaded. Deterministic: entries are scanned
// in sorted order and only a strictly better score replaces the candidate.
func (ix *Index) Resolve(query string) string {
	e, ok := ix.ResolveEntry(query)
	if !ok {
		return ""
	}
	return e.ParkCode
}

// ResolveEntry is Resolve but returns the full roster entry.
func (ix *Index) ResolveEntry(query string) (Entry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	q := normalize(query)
	if !ix.loaded || q == "" {
		return Entry{}, false
	}

	// Exact-match fast path.
	for _, e := range ix.entries {
		if normalize(e.FullName) == q {
			return e, true
		}
	}

	best := Entry{}
	bestScore := 0.0
	for _, e := range ix.entries {
		s := similarity(q, normalize(e.FullName))
		if s > bestScore {
			best, bestScore = e, s
		}
	}
	if bestScore < similarityThreshold {
		return Entry{}, false
	}
	return best, true
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// similarity scores query against a full name in [0,1]. A query that is a
// word-boundary substring of the name ("yellowstone" in "yellowstone
// national park") scores by coverage of the shorter string; otherwise the
// normalized edit distance over the full strings decides.
func similarity(query, name string) float64 {
	if query == name {
		return 1
	}

	if containsWord(name, query) {
		// Partial-name queries are the common case; weight them by how
		// much of the name they cover, floored above the threshold.
		cover := float64(len(query)) / float64(len(name))
		if cover < similarityThreshold {
			cover = similarityThreshold
		}
		return cover
	}

	dist := levenshtein.ComputeDistance(query, name)
	n := max(len(query), len(name))
	if n == 0 {
		return 0
	}
	return 1 - float64(dist)/float64(n)
}

func containsWord(name, query string) bool {
	if !strings.Contains(name, query) {
		return false
	}
	idx := strings.Index(name, query)
	before := idx == 0 || name[idx-1] == ' '
	end := idx + len(query)
	after := end == len(name) || name[end] == ' '
	return before && after
}
