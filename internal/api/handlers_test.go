package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hollandm/ranger/internal/convo"
	"github.com/hollandm/ranger/internal/fetch"
	"github.com/hollandm/ranger/internal/llm"
	"github.com/hollandm/ranger/internal/parkindex"
)

type stubMachine struct {
	reply string
	err   error
}

func (s stubMachine) Respond(ctx context.Context, st *convo.State, msg string) (string, error) {
	return s.reply, s.err
}

type stubRoster struct {
	loaded  bool
	entries []parkindex.Entry
}

func (s stubRoster) Loaded() bool               { return s.loaded }
func (s stubRoster) Entries() []parkindex.Entry { return s.entries }

func (s stubRoster) ResolveEntry(query string) (parkindex.Entry, bool) {
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.FullName), strings.ToLower(query)) {
			return e, true
		}
	}
	return parkindex.Entry{}, false
}

type stubQuerier struct {
	result   fetch.Result
	category fetch.Category
}

func (s *stubQuerier) Dispatch(ctx context.Context, category fetch.Category, parkName string, trip fetch.TripParams) fetch.Result {
	s.category = category
	return s.result
}

type stubModel struct {
	reply string
	err   error
	calls int
}

func (s *stubModel) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.calls++
	return s.reply, s.err
}

type stubClearer struct {
	cleared bool
}

func (s *stubClearer) Clear() { s.cleared = true }

func testHandler(deps Deps) http.Handler {
	if deps.Sessions == nil {
		deps.Sessions = convo.NewManager()
	}
	return NewHandler(deps)
}

func postJSON(t *testing.T, h http.Handler, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := testHandler(Deps{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestChat_OK(t *testing.T) {
	h := testHandler(Deps{Machine: stubMachine{reply: "Hours are 24/7."}})

	rec := postJSON(t, h, "/api/chat", `{"userMessage":"hours for yellowstone?"}`)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		BotMessage     string `json:"botMessage"`
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.BotMessage != "Hours are 24/7." {
		t.Errorf("botMessage = %q", resp.BotMessage)
	}
	if resp.ConversationID == "" {
		t.Error("conversationId missing")
	}
}

func TestChat_ReusesConversation(t *testing.T) {
	sessions := convo.NewManager()
	h := testHandler(Deps{Sessions: sessions, Machine: stubMachine{reply: "ok"}})

	rec := postJSON(t, h, "/api/chat", `{"userMessage":"hi"}`)
	var first struct {
		ConversationID string `json:"conversationId"`
	}
	json.NewDecoder(rec.Body).Decode(&first)

	rec = postJSON(t, h, "/api/chat", `{"userMessage":"again","conversationId":"`+first.ConversationID+`"}`)
	var second struct {
		ConversationID string `json:"conversationId"`
	}
	json.NewDecoder(rec.Body).Decode(&second)

	if first.ConversationID != second.ConversationID {
		t.Errorf("conversation IDs differ: %q vs %q", first.ConversationID, second.ConversationID)
	}
	if sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", sessions.Len())
	}
}

func TestChat_InternalFailure(t *testing.T) {
	h := testHandler(Deps{Machine: stubMachine{err: errors.New("model exploded")}})

	rec := postJSON(t, h, "/api/chat", `{"userMessage":"hi"}`)
	if rec.Code != 500 {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp struct {
		BotMessage     string `json:"botMessage"`
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.BotMessage == "" || resp.ConversationID == "" {
		t.Errorf("failure envelope incomplete: %+v", resp)
	}
	if strings.Contains(resp.BotMessage, "exploded") {
		t.Error("raw error leaked to the user")
	}
}

func TestChat_MissingMessage(t *testing.T) {
	h := testHandler(Deps{Machine: stubMachine{reply: "ok"}})

	rec := postJSON(t, h, "/api/chat", `{}`)
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestParks_NotLoaded(t *testing.T) {
	h := testHandler(Deps{Index: stubRoster{loaded: false}})

	req := httptest.NewRequest(http.MethodGet, "/api/parks", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 503 {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("body = %q, want error envelope", rec.Body.String())
	}
}

func TestParks_Loaded(t *testing.T) {
	h := testHandler(Deps{Index: stubRoster{loaded: true, entries: []parkindex.Entry{
		{FullName: "Zion National Park", ParkCode: "zion", States: "UT"},
	}}})

	req := httptest.NewRequest(http.MethodGet, "/api/parks", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Parks []parkindex.Entry `json:"parks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Parks) != 1 || resp.Parks[0].ParkCode != "zion" {
		t.Errorf("parks = %+v", resp.Parks)
	}
}

func TestParkHeader(t *testing.T) {
	h := testHandler(Deps{Index: stubRoster{loaded: true, entries: []parkindex.Entry{
		{FullName: "Zion National Park", ParkCode: "zion", States: "UT"},
	}}})

	rec := postJSON(t, h, "/api/park-header", `{"parkName":"Zion"}`)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		OK   bool            `json:"ok"`
		Park parkindex.Entry `json:"park"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.Park.ParkCode != "zion" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestParkHeader_NotFound(t *testing.T) {
	h := testHandler(Deps{Index: stubRoster{loaded: true}})

	rec := postJSON(t, h, "/api/park-header", `{"parkName":"Atlantis"}`)
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestQuery_OK(t *testing.T) {
	q := &stubQuerier{result: fetch.Result{Text: "campground list", Data: []string{"Watchman"}}}
	model := &stubModel{}
	h := testHandler(Deps{Fetchers: q, Model: model})

	rec := postJSON(t, h, "/api/query", `{"parkName":"Zion","category":"campgrounds"}`)
	if rec.Code != 200 {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OK       bool   `json:"ok"`
		Text     string `json:"text"`
		ParkName string `json:"parkName"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.Text != "campground list" || resp.Category != "campgrounds" {
		t.Errorf("resp = %+v", resp)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times for a non-trip category, want 0", model.calls)
	}
	if q.category != fetch.CategoryCampgrounds {
		t.Errorf("dispatched category = %q", q.category)
	}
}

func TestQuery_TripPlanPhrased(t *testing.T) {
	q := &stubQuerier{result: fetch.Result{Text: "bundle", Data: map[string]any{}}}
	model := &stubModel{reply: "Day 1: hike."}
	h := testHandler(Deps{Fetchers: q, Model: model})

	rec := postJSON(t, h, "/api/query", `{"parkName":"Zion","category":"trip_plan","tripParams":{"durationDays":2}}`)
	if rec.Code != 200 {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Text string `json:"text"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Text != "Day 1: hike." {
		t.Errorf("text = %q, want phrased itinerary", resp.Text)
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
}

func TestQuery_BadRequests(t *testing.T) {
	h := testHandler(Deps{Fetchers: &stubQuerier{}, Model: &stubModel{}})

	cases := []struct {
		name string
		body string
	}{
		{"missing park", `{"category":"alerts"}`},
		{"missing category", `{"parkName":"Zion"}`},
		{"unknown category", `{"parkName":"Zion","category":"horoscope"}`},
		{"specific_alert rejected", `{"parkName":"Zion","category":"specific_alert"}`},
		{"bad json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h, "/api/query", tc.body)
			if rec.Code != 400 {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCacheClear_Auth(t *testing.T) {
	clearer := &stubClearer{}
	h := testHandler(Deps{Cache: clearer, AdminToken: "sekrit"})

	// No token.
	rec := postJSON(t, h, "/api/admin/cache/clear", "")
	if rec.Code != 401 {
		t.Fatalf("status without token = %d, want 401", rec.Code)
	}
	if clearer.cleared {
		t.Fatal("cache cleared without auth")
	}

	// Correct token.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/clear", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status with token = %d", rr.Code)
	}
	if !clearer.cleared {
		t.Error("cache not cleared")
	}
}

func TestCacheClear_DisabledWithoutToken(t *testing.T) {
	h := testHandler(Deps{Cache: &stubClearer{}})

	rec := postJSON(t, h, "/api/admin/cache/clear", "")
	if rec.Code == 200 {
		t.Error("admin endpoint reachable with no token configured")
	}
}

func TestCORSPreflight(t *testing.T) {
	h := testHandler(Deps{})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}
