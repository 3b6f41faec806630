package model

import "time"

// ItineraryStatus tracks a departure from planning to return.
type ItineraryStatus string

const (
	ItineraryScheduled ItineraryStatus = "scheduled"
	ItineraryOngoing   ItineraryStatus = "ongoing"
	ItineraryCompleted ItineraryStatus = "completed"
)

// Valid reports whether s is a known itinerary status.
func (s ItineraryStatus) Valid() bool {
	switch s {
	case ItineraryScheduled, ItineraryOngoing, ItineraryCompleted:
		return true
	}
	return false
}

// Itinerary is the day-by-day schedule of one package departure.
type Itinerary struct {
	ID        string          `json:"id"`
	PackageID string          `json:"package_id"`
	Title     string          `json:"title"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Status    ItineraryStatus `json:"status"`
	Days      []ItineraryDay  `json:"days"`
	CreatedAt time.Time       `json:"created_at"`
}

// ItineraryDay is one day of the schedule.
type ItineraryDay struct {
	Day        int      `json:"day"`
	Date       string   `json:"date,omitempty"`
	City       string   `json:"city"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
}
