package model

import "time"

// User is a portal account together with the pilgrim profile used for documents.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the personal data a pilgrim must complete before departure.
type Profile struct {
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	NIK              string `json:"nik"`
	BirthPlace       string `json:"birth_place"`
	BirthDate        string `json:"birth_date"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	PassportNumber   string `json:"passport_number"`
	PassportExpiry   string `json:"passport_expiry"`
	EmergencyContact string `json:"emergency_contact"`
	PhotoURL         string `json:"photo_url"`
}

// ProfileField pairs a JSON field name with its current value.
type ProfileField struct {
	Name  string
	Value string
}

// Fields returns the fixed, ordered list of fields counted for completeness.
func (p Profile) Fields() []ProfileField {
	return []ProfileField{
		{"full_name", p.FullName},
		{"phone", p.Phone},
		{"nik", p.NIK},
		{"birth_place", p.BirthPlace},
		{"birth_date", p.BirthDate},
		{"gender", p.Gender},
		{"address", p.Address},
		{"passport_number", p.PassportNumber},
		{"passport_expiry", p.PassportExpiry},
		{"emergency_contact", p.EmergencyContact},
		{"photo_url", p.PhotoURL},
	}
}
