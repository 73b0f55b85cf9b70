package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
	assert.Equal(t, "a@b.co", NormalizeEmail("a@b.co"))
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"turns 13 today", time.Date(2013, 9, 1, 0, 0, 0, 0, time.UTC), 13},
		{"turns 13 tomorrow", time.Date(2013, 9, 2, 0, 0, 0, 0, time.UTC), 12},
		{"turned 13 yesterday", time.Date(2013, 8, 31, 0, 0, 0, 0, time.UTC), 13},
		{"adult", time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC), 36},
		{"born this year", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAt(tt.dob, now))
		})
	}
}

func TestPublicOmitsPasswordHash(t *testing.T) {
	u := &User{
		ID:           "u-1",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$secret",
		FullName:     "Jane Doe",
		Gender:       GenderFemale,
		DOB:          time.Date(1995, 6, 30, 0, 0, 0, 0, time.UTC),
		Phone:        "08123456789",
		Role:         RoleUser,
	}

	p := u.Public()
	assert.Equal(t, "1995-06-30", p.DOB)
	assert.Equal(t, u.Email, p.Email)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}
