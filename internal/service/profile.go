package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

// Completeness summarises how much of the pilgrim profile is filled in.
type Completeness struct {
	Percent int      `json:"percent"`
	Filled  int      `json:"filled"`
	Total   int      `json:"total"`
	Missing []string `json:"missing"`
}

// ComputeCompleteness counts non-blank profile fields. Percent is floor(filled*100/total).
func ComputeCompleteness(p model.Profile) Completeness {
	fields := p.Fields()
	c := Completeness{Total: len(fields), Missing: []string{}}
	for _, f := range fields {
		if strings.TrimSpace(f.Value) != "" {
			c.Filled++
		} else {
			c.Missing = append(c.Missing, f.Name)
		}
	}
	if c.Total > 0 {
		c.Percent = c.Filled * 100 / c.Total
	}
	return c
}

// ProfileView is a user together with their profile completeness.
type ProfileView struct {
	User         *model.User  `json:"user"`
	Completeness Completeness `json:"completeness"`
}

// ProfileService manages the caller's account and pilgrim profile.
type ProfileService interface {
	// Me returns the caller's account, creating it on first sight of a proxy identity.
	Me(ctx context.Context, actor Actor) (*model.User, error)
	GetProfile(ctx context.Context, actor Actor) (*ProfileView, error)
	UpdateProfile(ctx context.Context, actor Actor, p model.Profile) (*ProfileView, error)
	Completeness(ctx context.Context, actor Actor) (*Completeness, error)
}

type profileService struct {
	users repository.UserRepository
}

// NewProfileService constructs a ProfileService.
func NewProfileService(users repository.UserRepository) ProfileService {
	return &profileService{users: users}
}

func (s *profileService) Me(ctx context.Context, actor Actor) (*model.User, error) {
	return provisionUser(ctx, s.users, actor)
}

// provisionUser loads the caller's account, creating it on first use.
func provisionUser(ctx context.Context, users repository.UserRepository, actor Actor) (*model.User, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("%w: missing identity", ErrForbidden)
	}
	u, err := users.FindByID(ctx, actor.UserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Accounts are provisioned lazily; the stored role is authoritative afterwards.
	role := actor.Role
	if !role.Valid() || role == model.RoleAdmin {
		role = model.RoleProspective
	}
	email := actor.Email
	if email == "" {
		email = actor.UserID + "@users.invalid"
	}
	t := now()
	created, err := users.Create(ctx, &model.User{ID: actor.UserID, Email: email, Role: role, CreatedAt: t, UpdatedAt: t})
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent first request.
		return users.FindByID(ctx, actor.UserID)
	}
	return created, err
}

func (s *profileService) GetProfile(ctx context.Context, actor Actor) (*ProfileView, error) {
	u, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: u, Completeness: ComputeCompleteness(u.Profile)}, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, actor Actor, p model.Profile) (*ProfileView, error) {
	if _, err := s.Me(ctx, actor); err != nil {
		return nil, err
	}
	p = normalizeProfile(p)
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	u, err := s.users.UpdateProfile(ctx, actor.UserID, p)
	if err != nil {
		return nil, notFound("user", err)
	}
	return &ProfileView{User: u, Completeness: ComputeCompleteness(u.Profile)}, nil
}

func (s *profileService) Completeness(ctx context.Context, actor Actor) (*Completeness, error) {
	u, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}
	c := ComputeCompleteness(u.Profile)
	return &c, nil
}

func normalizeProfile(p model.Profile) model.Profile {
	trim := func(v *string) { *v = strings.TrimSpace(*v) }
	for _, v := range []*string{&p.FullName, &p.Phone, &p.NIK, &p.BirthPlace, &p.BirthDate, &p.Gender,
		&p.Address, &p.PassportNumber, &p.PassportExpiry, &p.EmergencyContact, &p.PhotoURL} {
		trim(v)
	}
	p.PassportNumber = strings.ToUpper(p.PassportNumber)
	p.Gender = strings.ToUpper(p.Gender)
	return p
}

func validateProfile(p model.Profile) error {
	if p.NIK != "" && (len(p.NIK) != 16 || !allDigits(p.NIK)) {
		return validationf("nik must be 16 digits")
	}
	if p.Phone != "" {
		digits := strings.TrimPrefix(p.Phone, "+")
		if len(digits) < 8 || len(digits) > 15 || !allDigits(digits) {
			return validationf("phone must be 8 to 15 digits")
		}
	}
	if p.Gender != "" && p.Gender != "L" && p.Gender != "P" {
		return validationf("gender must be L or P")
	}
	dates := []struct{ name, value string }{
		{"birth_date", p.BirthDate},
		{"passport_expiry", p.PassportExpiry},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d.value); err != nil {
			return validationf("%s must be YYYY-MM-DD", d.name)
		}
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
