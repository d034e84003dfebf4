package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hollandm/ranger/internal/convo"
	"github.com/hollandm/ranger/internal/fetch"
	"github.com/hollandm/ranger/internal/llm"
)

type chatRequest struct {
	UserMessage    string `json:"userMessage"`
	ConversationID string `json:"conversationId,omitempty"`
}

type chatResponse struct {
	BotMessage     string `json:"botMessage"`
	ConversationID string `json:"conversationId"`
}

func handleChat(sessions *convo.Manager, machine Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.UserMessage == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "userMessage is required")
			return
		}

		st := sessions.GetOrCreate(req.ConversationID)
		reply, err := machine.Respond(r.Context(), st, req.UserMessage)
		if err != nil {
			slog.Error("conversation turn failed", "conversation", st.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, chatResponse{
				BotMessage:     "I'm sorry, something went wrong while processing your request. Please try again.",
				ConversationID: st.ID,
			})
			return
		}

		writeJSON(w, http.StatusOK, chatResponse{BotMessage: reply, ConversationID: st.ID})
	}
}

func handleParks(index Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !index.Loaded() {
			httpError(w, http.StatusServiceUnavailable, "unavailable_error", "park roster is still loading, try again shortly")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"parks": index.Entries()})
	}
}

type parkHeaderRequest struct {
	ParkName string `json:"parkName"`
}

func handleParkHeader(index Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req parkHeaderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.ParkName == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "parkName is required")
			return
		}

		entry, ok := index.ResolveEntry(req.ParkName)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found_error", "no park matching %q", req.ParkName)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "park": entry})
	}
}

type queryRequest struct {
	ParkName   string            `json:"parkName"`
	Category   string            `json:"category"`
	TripParams *fetch.TripParams `json:"tripParams,omitempty"`
}

type queryResponse struct {
	OK       bool   `json:"ok"`
	Text     string `json:"text"`
	Data     any    `json:"data,omitempty"`
	ParkName string `json:"parkName"`
	Category string `json:"category"`
}

func handleQuery(fetchers Querier, model llm.Completer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.ParkName == "" || req.Category == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "parkName and category are required")
			return
		}

		category, ok := fetch.ParseCategory(req.Category)
		if !ok {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown category %q", req.Category)
			return
		}

		var trip fetch.TripParams
		if req.TripParams != nil {
			trip = *req.TripParams
		}

		res := fetchers.Dispatch(r.Context(), category, req.ParkName, trip)

		text := res.Text
		// Only trip plans get a phrasing pass. Everything else returns the
		// fetcher's output as-is.
		if category == fetch.CategoryTripPlan && res.Data != nil {
			phrased, err := convo.PhraseTripPlan(r.Context(), model, req.ParkName, res.Text)
			if err != nil {
				slog.Error("trip plan phrasing failed", "park", req.ParkName, "error", err)
				httpError(w, http.StatusInternalServerError, "server_error", "failed to compose trip plan")
				return
			}
			text = phrased
		}

		writeJSON(w, http.StatusOK, queryResponse{
			OK:       true,
			Text:     text,
			Data:     res.Data,
			ParkName: req.ParkName,
			Category: string(category),
		})
	}
}

func handleCacheClear(cache Clearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache.Clear()
		slog.Info("response cache cleared by admin request")
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
