package user

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an identity from the hosted identity provider, extended with
// the marketplace trust score.
type User struct {
	id          uuid.UUID
	displayName string
	// trustScore is the running average of ratings this user has received.
	trustScore  float64
	ratingCount int64
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a directory entry for a user with no ratings yet.
func New(id uuid.UUID, displayName string) *User {
	now := time.Now().UTC()
	return &User{
		id:          id,
		displayName: displayName,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
}

// Reconstruct rebuilds a User from persistence data.
func Reconstruct(id uuid.UUID, displayName string, trustScore float64, ratingCount, version int64, createdAt, updatedAt time.Time) *User {
	return &User{
		id:          id,
		displayName: displayName,
		trustScore:  trustScore,
		ratingCount: ratingCount,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) DisplayName() string  { return u.displayName }
func (u *User) TrustScore() float64  { return u.trustScore }
func (u *User) RatingCount() int64   { return u.ratingCount }
func (u *User) Version() int64       { return u.version }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// ApplyRating folds a new received rating into the running average.
func (u *User) ApplyRating(rating int) {
	total := u.trustScore*float64(u.ratingCount) + float64(rating)
	u.ratingCount++
	u.trustScore = total / float64(u.ratingCount)
	u.version++
	u.updatedAt = time.Now().UTC()
}
