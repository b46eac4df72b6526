package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskflow/taskflow/internal/permission"
)

// User is the authenticated principal carried through request context.
// It is a view over the identity record: just enough to authorize.
type User struct {
	ID           int64                    `json:"id"`
	Email        string                   `json:"email"`
	Name         string                   `json:"name"`
	Role         string                   `json:"role"`
	Capabilities permission.CapabilitySet `json:"capabilities"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Credential is the slice of the user row the login flow needs: hash,
// activation status and lockout state.
type Credential struct {
	UserID              int64
	Email               string
	Name                string
	Role                string
	PasswordHash        string
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
}

// Locked reports whether the credential is locked out at the given instant.
func (c *Credential) Locked(now time.Time) bool {
	return c.LockedUntil != nil && c.LockedUntil.After(now)
}

// Claims are the session token contents: who, plus issue and expiry times.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// LoginResult is what a successful authentication hands back to the caller.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResult, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	CurrentUser(userID int64) (*User, error)
	Logout(tokenString string) error
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetCredentialByEmail(email string) (*Credential, error)
	// GetActiveUser resolves the principal only while the account is
	// active; deactivated users fail validation on their next request.
	GetActiveUser(userID int64) (*User, error)
	RecordFailedAttempt(userID int64, threshold int, lockFor time.Duration) (newCount int, lockedUntil *time.Time, err error)
	RecordLogin(userID int64) error
}

type TokenGeneratorAPI interface {
	Generate(userID int64, email string) (string, error)
	Validate(tokenString string) (*Claims, error)
}

// PermissionSource resolves the capability set for a role.
type PermissionSource interface {
	Get(role string) (permission.CapabilitySet, error)
}
