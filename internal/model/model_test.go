package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReviewStatus_Transition(t *testing.T) {
	tests := []struct {
		from, to ReviewStatus
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusApproved, StatusApproved, false},
		{StatusPending, ReviewStatus("paid"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := tt.from.Transition(tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestPromo_ActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, Promo{}.ActiveAt(now), "open-ended promo")
	assert.True(t, Promo{ValidFrom: now.AddDate(0, 0, -1), ValidUntil: now.AddDate(0, 0, 1)}.ActiveAt(now))
	assert.False(t, Promo{ValidFrom: now.AddDate(0, 0, 1)}.ActiveAt(now), "not started")
	assert.False(t, Promo{ValidUntil: now.AddDate(0, 0, -1)}.ActiveAt(now), "expired")
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RolePilgrim, ParseRole("jamaah"))
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleProspective, ParseRole(""))
	assert.Equal(t, RoleProspective, ParseRole("superuser"))
}

func TestProfile_FieldsOrder(t *testing.T) {
	p := Profile{FullName: "Siti Aminah", PhotoURL: "x.jpg"}
	fields := p.Fields()

	assert.Len(t, fields, 11)
	assert.Equal(t, "full_name", fields[0].Name)
	assert.Equal(t, "Siti Aminah", fields[0].Value)
	assert.Equal(t, "photo_url", fields[len(fields)-1].Name)
}
