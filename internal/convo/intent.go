package convo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hollandm/ranger/internal/fetch"
)

// ErrMalformedIntent reports that the language model returned output that
// could not be parsed or validated as an intent.
var ErrMalformedIntent = errors.New("malformed intent response")

// IntentData is the structured result of the intent-recognition call.
type IntentData struct {
	Intent              string `json:"intent"`
	ParkName            string `json:"parkName"`
	DurationDays        int    `json:"durationDays,omitempty"`
	Month               string `json:"month,omitempty"`
	GroupSize           int    `json:"groupSize,omitempty"`
	AlertType           string `json:"alertType,omitempty"`
	ConfirmationMessage string `json:"confirmationMessage"`
}

// TripParams converts the extracted trip fields.
func (d *IntentData) TripParams() fetch.TripParams {
	return fetch.TripParams{
		DurationDays: d.DurationDays,
		Month:        d.Month,
		GroupSize:    d.GroupSize,
	}
}

// ParseIntent parses and validates a raw model response. Models sometimes
// wrap JSON in markdown fences despite instructions, so fences are
// stripped before unmarshalling.
func ParseIntent(raw string) (*IntentData, error) {
	cleaned := stripFences(raw)

	var data IntentData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIntent, err)
	}
	if !fetch.ValidIntent(data.Intent) {
		return nil, fmt.Errorf("%w: unknown intent %q", ErrMalformedIntent, data.Intent)
	}
	if data.ConfirmationMessage == "" {
		return nil, fmt.Errorf("%w: missing confirmation message", ErrMalformedIntent)
	}
	return &data, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
