package fetch

import (
	"fmt"
	"strings"

	"github.com/hollandm/ranger/internal/nps"
)

// alertKeywords are matched in order against a follow-up question about
// a park's alerts. The first keyword found in the question selects the
// filter.
var alertKeywords = []string{
	"road closure",
	"trail closure",
	"flash flood",
	"fire",
	"flood",
	"cyanobacteria",
	"parking",
	"permit",
}

// FilterAlerts answers a follow-up question about a previously retrieved
// alert list. It scans the question for a known keyword and returns the
// alerts whose title, description, or category mention it. When the
// question carries no recognized keyword it asks the user to clarify.
func FilterAlerts(question string, alerts []nps.Alert) Result {
	lower := strings.ToLower(question)

	var keyword string
	for _, k := range alertKeywords {
		if strings.Contains(lower, k) {
			keyword = k
			break
		}
	}
	if keyword == "" {
		return Result{Text: "Could you clarify what kind of alert you're asking about? For example: road closures, trail closures, flooding, fires, parking, or permits."}
	}

	var matched []nps.Alert
	for _, a := range alerts {
		if strings.Contains(strings.ToLower(a.Title), keyword) ||
			strings.Contains(strings.ToLower(a.Description), keyword) ||
			strings.Contains(strings.ToLower(a.Category), keyword) {
			matched = append(matched, a)
		}
	}
	if len(matched) == 0 {
		return Result{Text: fmt.Sprintf("I didn't find any alerts mentioning %s.", keyword)}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Alerts mentioning %s:\n", keyword)
	for i, a := range matched {
		fmt.Fprintf(&sb, "\n**Alert %d:**\n- **Title**: %s\n- **Description**: %s\n", i+1, a.Title, a.Description)
		if a.URL != "" {
			fmt.Fprintf(&sb, "- **More info**: %s\n", a.URL)
		}
	}
	return Result{Text: sb.String(), Data: matched}
}
