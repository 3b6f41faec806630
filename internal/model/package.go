package model

import "time"

// PackageCategory distinguishes umrah from hajj departures.
type PackageCategory string

const (
	CategoryUmrah PackageCategory = "umrah"
	CategoryHajj  PackageCategory = "hajj"
)

// TravelPackage is a sellable departure with its price, dates and accommodation.
type TravelPackage struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Category      PackageCategory `json:"category"`
	Description   string          `json:"description"`
	Price         int64           `json:"price"`
	Quota         int             `json:"quota"`
	DepartureDate time.Time       `json:"departure_date"`
	ReturnDate    time.Time       `json:"return_date"`
	DurationDays  int             `json:"duration_days"`
	HotelMakkah   string          `json:"hotel_makkah"`
	HotelMadinah  string          `json:"hotel_madinah"`
	Airline       string          `json:"airline"`
	Mutawwif      string          `json:"mutawwif"`
	Facilities    []string        `json:"facilities"`
	ImageURL      string          `json:"image_url"`
	Featured      bool            `json:"featured"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Promo is a time-boxed discount, optionally bound to a single package.
type Promo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	PackageID       string    `json:"package_id,omitempty"`
	DiscountPercent int       `json:"discount_percent"`
	ValidFrom       time.Time `json:"valid_from"`
	ValidUntil      time.Time `json:"valid_until"`
	ImageURL        string    `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// ActiveAt reports whether the promo applies at t. A zero ValidUntil means open-ended.
func (p Promo) ActiveAt(t time.Time) bool {
	if !p.ValidFrom.IsZero() && t.Before(p.ValidFrom) {
		return false
	}
	if !p.ValidUntil.IsZero() && t.After(p.ValidUntil) {
		return false
	}
	return true
}
