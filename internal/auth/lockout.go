package auth

import "time"

// Lockout policy constants. Lockout is per-account rather than per-IP:
// it trades availability for resistance to credential stuffing.
const (
	// MaxFailedAttempts is the consecutive-failure threshold that trips
	// the lock.
	MaxFailedAttempts = 5
	// LockoutDuration is how long authentication is refused once locked,
	// measured from the failure that tripped the threshold.
	LockoutDuration = 15 * time.Minute
)
