package domain

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the identity provider's opaque user id plus the derived
// per-user counters this system maintains. Profile data (name, email) lives
// with the identity provider and is out of scope.
type User struct {
	ID   uuid.UUID
	Role UserRole

	// ContributionCount is the number of approved entries contributed.
	// ReviewCount is the number of moderation decisions recorded.
	// Both are maintained by atomic store-level increments from the
	// moderation engine and reconciled by the statistics synchronizer.
	ContributionCount int
	ReviewCount       int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserStats is the recomputed counter pair produced by the synchronizer.
type UserStats struct {
	UserID            uuid.UUID
	ContributionCount int
	ReviewCount       int
}
