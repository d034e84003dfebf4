package fetch

import "time"

// Category identifies one information category a user can ask about.
type Category string

const (
	CategoryParkHours      Category = "park_hours"
	CategoryPermits        Category = "permits"
	CategoryEvents         Category = "events"
	CategoryAlerts         Category = "alerts"
	CategorySpecificAlert  Category = "specific_alert"
	CategoryGeneralInfo    Category = "general_info"
	CategoryCampgrounds    Category = "campgrounds"
	CategoryThingsToDo     Category = "things_to_do"
	CategoryFeesPasses     Category = "fees_passes"
	CategoryRoadConditions Category = "road_conditions"
	CategoryWebcams        Category = "webcams"
	CategoryVisitorCenters Category = "visitor_centers"
	CategoryTripPlan       Category = "trip_plan"
)

// queryCategories are the categories the stateless query path accepts.
// specific_alert is excluded: it only makes sense against alerts retained
// in a conversation.
var queryCategories = map[Category]bool{
	CategoryParkHours:      true,
	CategoryPermits:        true,
	CategoryEvents:         true,
	CategoryAlerts:         true,
	CategoryGeneralInfo:    true,
	CategoryCampgrounds:    true,
	CategoryThingsToDo:     true,
	CategoryFeesPasses:     true,
	CategoryRoadConditions: true,
	CategoryWebcams:        true,
	CategoryVisitorCenters: true,
	CategoryTripPlan:       true,
}

// intentCategories are all categories the conversation flow recognizes.
var intentCategories = map[Category]bool{
	CategoryParkHours:      true,
	CategoryPermits:        true,
	CategoryEvents:         true,
	CategoryAlerts:         true,
	CategorySpecificAlert:  true,
	CategoryGeneralInfo:    true,
	CategoryCampgrounds:    true,
	CategoryThingsToDo:     true,
	CategoryFeesPasses:     true,
	CategoryRoadConditions: true,
	CategoryWebcams:        true,
	CategoryTripPlan:       true,
}

// ParseCategory validates a category name for the stateless query path.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, queryCategories[c]
}

// ValidIntent reports whether s is a recognized conversational intent.
func ValidIntent(s string) bool {
	return intentCategories[Category(s)]
}

// DefaultTTLs maps cached categories to their time-to-live. Slow-changing
// categories keep a full day; alerts and road conditions turn over fast.
func DefaultTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		string(CategoryGeneralInfo):    24 * time.Hour,
		string(CategoryCampgrounds):    24 * time.Hour,
		string(CategoryThingsToDo):     24 * time.Hour,
		string(CategoryAlerts):         30 * time.Minute,
		string(CategoryRoadConditions): 30 * time.Minute,
		string(CategoryEvents):         time.Hour,
		string(CategoryVisitorCenters): 24 * time.Hour,
	}
}
