package model

import "time"

// Education is a manasik/doa/health guide shown to prospective pilgrims.
type Education struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Content    string    `json:"content"`
	VideoURL   string    `json:"video_url,omitempty"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// Article is a marketing or news post addressed by slug.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverURL    string     `json:"cover_url"`
	Author      string     `json:"author"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Testimonial is pilgrim feedback that is shown publicly once approved.
type Testimonial struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	PackageID string       `json:"package_id,omitempty"`
	Rating    int          `json:"rating"`
	Content   string       `json:"content"`
	Status    ReviewStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}
