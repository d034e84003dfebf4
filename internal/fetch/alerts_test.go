package fetch

import (
	"strings"
	"testing"

	"github.com/hollandm/ranger/internal/nps"
)

func retainedAlerts() []nps.Alert {
	return []nps.Alert{
		{ID: "a1", Title: "North Entrance Road Closure", Description: "Closed for repaving.", Category: "Park Closure"},
		{ID: "a2", Title: "Flash Flood Warning", Description: "Slot canyons hazardous.", Category: "Danger"},
		{ID: "a3", Title: "Backcountry Permit Office Hours", Description: "Reduced hours this week.", Category: "Information"},
	}
}

func TestFilterAlerts_FirstMatchWins(t *testing.T) {
	// Question mentions both a flash flood and a road closure. The scan
	// order of the keyword vocabulary decides, not question order.
	res := FilterAlerts("is there a flash flood or road closure?", retainedAlerts())

	matched, ok := res.Data.([]nps.Alert)
	if !ok {
		t.Fatalf("Data = %T, want []nps.Alert", res.Data)
	}
	if len(matched) != 1 || matched[0].ID != "a1" {
		t.Errorf("matched = %+v, want only the road closure alert", matched)
	}
	if !strings.Contains(res.Text, "road closure") {
		t.Errorf("Text = %q, want road closure framing", res.Text)
	}
}

func TestFilterAlerts_CaseInsensitiveAcrossFields(t *testing.T) {
	res := FilterAlerts("anything about PERMITS?", retainedAlerts())

	matched, ok := res.Data.([]nps.Alert)
	if !ok || len(matched) != 1 || matched[0].ID != "a3" {
		t.Fatalf("matched = %v, want the permit alert", res.Data)
	}
}

func TestFilterAlerts_NoKeyword(t *testing.T) {
	res := FilterAlerts("anything else I should know?", retainedAlerts())

	if res.Data != nil {
		t.Error("Data should be nil when no keyword matches")
	}
	if !strings.Contains(res.Text, "clarify") {
		t.Errorf("Text = %q, want clarification request", res.Text)
	}
}

func TestFilterAlerts_KeywordWithoutMatches(t *testing.T) {
	res := FilterAlerts("any cyanobacteria warnings?", retainedAlerts())

	if res.Data != nil {
		t.Error("Data should be nil when nothing matches the keyword")
	}
	if !strings.Contains(res.Text, "cyanobacteria") {
		t.Errorf("Text = %q, want mention of the searched keyword", res.Text)
	}
}

func TestFilterAlerts_EmptyRetained(t *testing.T) {
	res := FilterAlerts("any road closures?", nil)

	if res.Data != nil {
		t.Error("Data should be nil for empty retained list")
	}
}
