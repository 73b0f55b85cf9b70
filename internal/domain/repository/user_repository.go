package repository

import (
	"errors"
	"time"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
)

// ErrDuplicateEmail is returned by Create/Update when the normalized email is
// already taken. The unique index on users.email is the arbiter, so two
// concurrent registrations for the same address cannot both succeed.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrNotFound is returned when the referenced user does not exist.
var ErrNotFound = errors.New("user not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(u *entity.User) error
	UpdatePassword(id, passwordHash string) error
	Delete(id string) error

	// List returns all users, newest first.
	List() ([]*entity.User, error)

	// Dashboard metrics
	CountAll() (int64, error)
	CountByRole(role entity.Role) (int64, error)
	CountCreatedSince(t time.Time) (int64, error)
	RecentlyUpdated(limit int) ([]*entity.User, error)
}
