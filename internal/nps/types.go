package nps

// Image is a park image reference as returned by the parks endpoint.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// OperatingHours describes the hours block attached to a park.
type OperatingHours struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Fee is an entrance fee or pass.
type Fee struct {
	Cost        string `json:"cost"`
	Description string `json:"description"`
	Title       string `json:"title"`
}

// Park is the subset of the parks endpoint payload the service uses.
type Park struct {
	FullName       string           `json:"fullName"`
	ParkCode       string           `json:"parkCode"`
	States         string           `json:"states"`
	Description    string           `json:"description"`
	WeatherInfo    string           `json:"weatherInfo"`
	OperatingHours []OperatingHours `json:"operatingHours"`
	Images         []Image          `json:"images"`
	EntranceFees   []Fee            `json:"entranceFees"`
	EntrancePasses []Fee            `json:"entrancePasses"`
}

// Alert is a current alert or warning for a park.
type Alert struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
}

// Event is an upcoming park event.
type Event struct {
	Title     string `json:"title"`
	DateStart string `json:"datestart"`
	Location  string `json:"location"`
}

// Permit describes a permit offered at a park.
type Permit struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Campground is the subset of campground data surfaced to users.
type Campground struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	ReservationsURL string `json:"reservationUrl"`
	Campsites     struct {
		TotalSites string `json:"totalSites"`
	} `json:"campsites"`
}

// ThingToDo is an activity listed for a park.
type ThingToDo struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Duration         string `json:"duration"`
}

// RoadEvent is a road closure or condition entry.
type RoadEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
}

// Webcam is a park webcam.
type Webcam struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// VisitorCenter is a staffed visitor center.
type VisitorCenter struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	DirectionsInfo   string `json:"directionsInfo"`
}
