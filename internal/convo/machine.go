package convo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hollandm/ranger/internal/fetch"
	"github.com/hollandm/ranger/internal/llm"
	"github.com/hollandm/ranger/internal/nps"
)

// maxPasses bounds how many state transitions one inbound message may
// trigger. An ambiguous confirmation re-enters intent recognition once,
// which always produces a response, so the bound is never reached in
// practice.
const maxPasses = 3

var yesWords = []string{"yes", "yeah", "correct", "yep", "sure", "right", "yea"}

var noWords = []string{"no", "nope", "incorrect", "not really"}

// Answering is the subset of the Data Fetchers the machine dispatches to.
type Answering interface {
	Alerts(ctx context.Context, parkName string) fetch.Result
	TripPlan(ctx context.Context, parkName string, params fetch.TripParams) fetch.Result
	Dispatch(ctx context.Context, category fetch.Category, parkName string, trip fetch.TripParams) fetch.Result
}

// Machine drives conversations: intent recognition, confirmation, dispatch,
// and answer phrasing.
type Machine struct {
	fetchers Answering
	model    llm.Completer
	logger   *slog.Logger
}

// NewMachine creates a conversation machine over the given fetchers and
// language model.
func NewMachine(fetchers Answering, model llm.Completer) *Machine {
	return &Machine{
		fetchers: fetchers,
		model:    model,
		logger:   slog.Default(),
	}
}

// Respond processes one inbound message for a session and returns exactly
// one reply. On a malformed model response it returns ErrMalformedIntent
// with the session state unchanged.
func (m *Machine) Respond(ctx context.Context, st *State, userMessage string) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	msg := userMessage
	for pass := 0; pass < maxPasses; pass++ {
		switch st.Stage {
		case StageAwaitingConfirmation:
			switch {
			case matchesAny(msg, yesWords):
				return m.dispatch(ctx, st, msg)
			case matchesAny(msg, noWords):
				st.ConfirmedParkName = ""
				st.IntentData = nil
				st.Stage = StageIntentRecognition
				reply := "No problem. What would you like to know, and about which park?"
				st.History = append(st.History,
					llm.Message{Role: "user", Content: msg},
					llm.Message{Role: "assistant", Content: reply})
				return reply, nil
			default:
				// Not a yes/no: treat it as a fresh request in the same turn.
				st.Stage = StageIntentRecognition
				continue
			}
		default:
			return m.recognize(ctx, st, msg)
		}
	}
	return "", fmt.Errorf("conversation %s: no response after %d passes", st.ID, maxPasses)
}

// recognize runs the intent-recognition model call and asks the user to
// confirm what was understood.
func (m *Machine) recognize(ctx context.Context, st *State, msg string) (string, error) {
	history := append(append([]llm.Message{}, st.History...), llm.Message{Role: "user", Content: msg})

	raw, err := m.model.Complete(ctx, llm.Request{
		Messages: intentMessages(history),
		JSONOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("intent recognition: %w", err)
	}

	data, err := ParseIntent(raw)
	if err != nil {
		m.logger.Warn("intent parse failed", "conversation", st.ID, "response", raw, "error", err)
		return "", err
	}

	if data.ParkName != "" && data.ParkName != st.ConfirmedParkName {
		// A new park invalidates retained alert context.
		st.AlertsData = nil
	}
	if data.ParkName != "" {
		st.ConfirmedParkName = data.ParkName
	}
	st.IntentData = data
	st.Stage = StageAwaitingConfirmation
	st.History = append(st.History,
		llm.Message{Role: "user", Content: msg},
		llm.Message{Role: "assistant", Content: data.ConfirmationMessage})
	return data.ConfirmationMessage, nil
}

// dispatch runs the confirmed intent's fetcher and phrases the answer.
// State mutations are committed only after every model call has succeeded.
func (m *Machine) dispatch(ctx context.Context, st *State, msg string) (string, error) {
	data := st.IntentData
	if data == nil {
		st.Stage = StageIntentRecognition
		return "I'm sorry, I lost track of your request. What would you like to know?", nil
	}

	park := st.ConfirmedParkName
	question := lastUserMessage(st.History)

	var (
		reply        string
		alerts       []nps.Alert
		retainAlerts bool
	)

	switch fetch.Category(data.Intent) {
	case fetch.CategoryAlerts:
		// An alerts turn always replaces the retained alerts, so an empty
		// or failed fetch clears what an earlier turn left behind.
		retainAlerts = true
		res := m.fetchers.Alerts(ctx, park)
		if got, ok := res.Data.([]nps.Alert); ok && len(got) > 0 {
			alerts = got
			phrased, err := m.phrase(ctx, summarySystemPrompt, question, res.Text)
			if err != nil {
				return "", err
			}
			reply = phrased
		} else {
			// Nothing to phrase.
			reply = res.Text
		}

	case fetch.CategorySpecificAlert:
		retained := st.AlertsData
		if retained == nil {
			res := m.fetchers.Alerts(ctx, park)
			if got, ok := res.Data.([]nps.Alert); ok {
				retained = got
				alerts = got
				retainAlerts = true
			} else {
				reply = res.Text
			}
		}
		if reply == "" {
			q := data.AlertType
			if q == "" {
				q = question
			}
			reply = fetch.FilterAlerts(q, retained).Text
		}

	case fetch.CategoryTripPlan:
		res := m.fetchers.TripPlan(ctx, park, data.TripParams())
		if res.Data == nil {
			reply = res.Text
		} else {
			phrased, err := m.phrase(ctx, tripPlanSystemPrompt, question, res.Text)
			if err != nil {
				return "", err
			}
			reply = phrased
		}

	default:
		res := m.fetchers.Dispatch(ctx, fetch.Category(data.Intent), park, fetch.TripParams{})
		if res.Data == nil {
			reply = res.Text
		} else {
			phrased, err := m.phrase(ctx, summarySystemPrompt, question, res.Text)
			if err != nil {
				return "", err
			}
			reply = phrased
		}
	}

	if retainAlerts {
		st.AlertsData = alerts
	}
	st.IntentData = nil
	st.Stage = StageIntentRecognition
	st.History = append(st.History,
		llm.Message{Role: "user", Content: msg},
		llm.Message{Role: "assistant", Content: reply})
	return reply, nil
}

// PhraseTripPlan turns assembled trip-plan data into an itinerary. The
// stateless query path uses it for the one category whose raw output is
// not meant for direct display.
func PhraseTripPlan(ctx context.Context, model llm.Completer, parkName, data string) (string, error) {
	question := fmt.Sprintf("A trip to %s", parkName)
	out, err := model.Complete(ctx, llm.Request{
		Messages: phrasingMessages(tripPlanSystemPrompt, question, data),
	})
	if err != nil {
		return "", fmt.Errorf("trip plan phrasing: %w", err)
	}
	return out, nil
}

// phrase runs the second model call that turns fetcher output into prose.
func (m *Machine) phrase(ctx context.Context, system, question, data string) (string, error) {
	out, err := m.model.Complete(ctx, llm.Request{
		Messages: phrasingMessages(system, question, data),
	})
	if err != nil {
		return "", fmt.Errorf("answer phrasing: %w", err)
	}
	return out, nil
}

func matchesAny(msg string, words []string) bool {
	lower := strings.ToLower(msg)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func lastUserMessage(history []llm.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}
