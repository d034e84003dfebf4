// Package api exposes the chatbot over HTTP and MCP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hollandm/ranger/internal/convo"
	"github.com/hollandm/ranger/internal/fetch"
	"github.com/hollandm/ranger/internal/llm"
	"github.com/hollandm/ranger/internal/parkindex"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Responder drives one conversation turn.
type Responder interface {
	Respond(ctx context.Context, st *convo.State, userMessage string) (string, error)
}

// Roster is the park index surface the handlers read.
type Roster interface {
	Loaded() bool
	Entries() []parkindex.Entry
	ResolveEntry(query string) (parkindex.Entry, bool)
}

// Querier answers stateless category queries.
type Querier interface {
	Dispatch(ctx context.Context, category fetch.Category, parkName string, trip fetch.TripParams) fetch.Result
}

// Clearer drops all cached responses.
type Clearer interface {
	Clear()
}

// Deps holds everything the HTTP handlers need.
type Deps struct {
	Sessions *convo.Manager
	Machine  Responder
	Index    Roster
	Fetchers Querier
	Model    llm.Completer
	Cache    Clearer

	// AdminToken guards the cache-admin endpoint. Empty disables it.
	AdminToken string
}

// NewHandler returns the HTTP handler for the chatbot API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", handleHealth)
	r.Get("/api/parks", handleParks(deps.Index))
	r.Post("/api/park-header", handleParkHeader(deps.Index))
	r.Post("/api/chat", handleChat(deps.Sessions, deps.Machine))
	r.Post("/api/query", handleQuery(deps.Fetchers, deps.Model))

	if deps.AdminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(deps.AdminToken))
			r.Post("/api/admin/cache/clear", handleCacheClear(deps.Cache))
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// corsMiddleware allows browser frontends on any origin to call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
