package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
	repoMocks "umrahportal/internal/repository/mocks"
)

func TestComputeCompleteness(t *testing.T) {
	c := ComputeCompleteness(model.Profile{})
	assert.Equal(t, Completeness{Percent: 0, Filled: 0, Total: 11, Missing: c.Missing}, c)
	assert.Len(t, c.Missing, 11)

	c = ComputeCompleteness(model.Profile{FullName: "Siti Aminah", Phone: "08123456789", NIK: "   "})
	assert.Equal(t, 2, c.Filled)
	assert.Equal(t, 18, c.Percent) // floor(200/11)
	assert.Contains(t, c.Missing, "nik")
	assert.NotContains(t, c.Missing, "phone")

	full := model.Profile{
		FullName: "a", Phone: "b", NIK: "c", BirthPlace: "d", BirthDate: "e", Gender: "f",
		Address: "g", PassportNumber: "h", PassportExpiry: "i", EmergencyContact: "j", PhotoURL: "k",
	}
	c = ComputeCompleteness(full)
	assert.Equal(t, 100, c.Percent)
	assert.Empty(t, c.Missing)
}

func TestProfile_Me(t *testing.T) {
	ctx := context.Background()

	t.Run("existing user keeps stored role", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Role: model.RolePilgrim}, nil)
		svc := NewProfileService(users)

		u, err := svc.Me(ctx, Actor{UserID: "u1", Role: model.RoleAlumni})
		require.NoError(t, err)
		assert.Equal(t, model.RolePilgrim, u.Role)
		users.AssertExpectations(t)
	})

	t.Run("first sight creates user", func(t *testing.T) {
		fixClock(t)
		users := new(repoMocks.MockUserRepository)
		users.On("FindByID", ctx, "u2").Return(nil, sql.ErrNoRows)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.ID == "u2" && u.Role == model.RoleProspective && u.Email == "u2@users.invalid" && u.CreatedAt.Equal(testNow)
		})).Return(func(ctx context.Context, u *model.User) *model.User { return u }, nil)
		svc := NewProfileService(users)

		u, err := svc.Me(ctx, Actor{UserID: "u2", Role: model.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, model.RoleProspective, u.Role)
		users.AssertExpectations(t)
	})

	t.Run("concurrent first request", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		users.On("FindByID", ctx, "u3").Return(nil, sql.ErrNoRows).Once()
		users.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
		users.On("FindByID", ctx, "u3").Return(&model.User{ID: "u3", Role: model.RolePilgrim}, nil).Once()
		svc := NewProfileService(users)

		u, err := svc.Me(ctx, Actor{UserID: "u3", Email: "u3@example.com", Role: model.RolePilgrim})
		require.NoError(t, err)
		assert.Equal(t, "u3", u.ID)
		users.AssertExpectations(t)
	})

	t.Run("missing identity", func(t *testing.T) {
		svc := NewProfileService(new(repoMocks.MockUserRepository))
		_, err := svc.Me(ctx, Actor{})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestProfile_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	actor := Actor{UserID: "u1", Role: model.RoleProspective}

	tests := []struct {
		name    string
		input   model.Profile
		wantErr bool
	}{
		{name: "bad nik", input: model.Profile{NIK: "123"}, wantErr: true},
		{name: "letters in nik", input: model.Profile{NIK: "32010101010100AB"}, wantErr: true},
		{name: "short phone", input: model.Profile{Phone: "0812"}, wantErr: true},
		{name: "bad gender", input: model.Profile{Gender: "X"}, wantErr: true},
		{name: "bad birth date", input: model.Profile{BirthDate: "17-08-1980"}, wantErr: true},
		{name: "valid", input: model.Profile{NIK: "3201010101010001", Phone: "+6281234567890", Gender: "l", BirthDate: "1980-08-17", PassportNumber: " c1234567 "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(repoMocks.MockUserRepository)
			users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Role: model.RoleProspective}, nil)
			if !tt.wantErr {
				users.On("UpdateProfile", ctx, "u1", mock.MatchedBy(func(p model.Profile) bool {
					return p.Gender == "L" && p.PassportNumber == "C1234567"
				})).Return(func(ctx context.Context, id string, p model.Profile) *model.User {
					return &model.User{ID: id, Profile: p}
				}, nil)
			}
			svc := NewProfileService(users)

			view, err := svc.UpdateProfile(ctx, actor, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 5, view.Completeness.Filled)
			users.AssertExpectations(t)
		})
	}
}

func TestValidateProfile_DateErrorsAreOrdered(t *testing.T) {
	bad := model.Profile{BirthDate: "17-08-1980", PassportExpiry: "2030/01/01"}
	for i := 0; i < 20; i++ {
		err := validateProfile(bad)
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "birth_date must be YYYY-MM-DD")
	}

	err := validateProfile(model.Profile{BirthDate: "1980-08-17", PassportExpiry: "2030/01/01"})
	assert.ErrorContains(t, err, "passport_expiry must be YYYY-MM-DD")
}

func TestProfile_Completeness(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Profile: model.Profile{FullName: "Ahmad"}}, nil)
	svc := NewProfileService(users)

	c, err := svc.Completeness(ctx, Actor{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Filled)
	assert.Equal(t, 9, c.Percent)
}
