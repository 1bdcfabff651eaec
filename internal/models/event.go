package models

// RawEvent is the loosely-typed record an extractor produces from one
// upstream page. Fields a source does not expose stay empty; the validator
// decides what is fatal.
type RawEvent struct {
	Title           string
	Description     string
	StartDate       string
	EndDate         string
	VenueName       string
	VenueAddress    string
	City            string
	Organizer       string
	Industry        string
	IsFree          bool
	RegistrationURL string
	ImageURL        string
	Source          string
	SourceEventID   string
}

// Event is the normalized record persisted to the storage sink. StartDate
// and EndDate are canonical YYYY-MM-DD calendar dates, City is drawn from
// the canonical allow-list (or empty) and Industry from the fixed tag set.
type Event struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date,omitempty"`
	VenueName       string `json:"venue_name,omitempty"`
	VenueAddress    string `json:"venue_address,omitempty"`
	City            string `json:"city,omitempty"`
	Organizer       string `json:"organizer,omitempty"`
	Industry        string `json:"industry"`
	IsFree          bool   `json:"is_free"`
	RegistrationURL string `json:"registration_url,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	Source          string `json:"source"`
	SourceEventID   string `json:"source_event_id"`
}
