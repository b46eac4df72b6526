package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

// Service implements credential verification, the lockout policy and
// session issuance.
type Service struct {
	repo       RepositoryAPI
	tokenGen   TokenGeneratorAPI
	perms      PermissionSource
	bus        *events.EventBus
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, perms PermissionSource, bus *events.EventBus, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	return &Service{
		repo:       repo,
		tokenGen:   tokenGen,
		perms:      perms,
		bus:        bus,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Authenticate verifies credentials and returns a session token. Unknown
// email and wrong password are indistinguishable to the caller. A failed
// attempt durably increments the failure counter even though the overall
// operation fails; this is the one deliberate side effect on failure.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cred, err := s.repo.GetCredentialByEmail(dto.Email)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("failed to read credential", "error", err)
			return nil, internal.NewInternalError("failed to read credential", err)
		}
		s.bus.Publish(context.Background(), events.NewLoginFailed(0, dto.Email))
		return nil, internal.ErrInvalidCredentials
	}

	if !cred.IsActive {
		s.logger.Warn("login attempt on deactivated account", "user_id", cred.UserID)
		return nil, internal.ErrAccountDeactivated
	}

	if cred.Locked(time.Now()) {
		s.logger.Warn("login attempt on locked account", "user_id", cred.UserID, "locked_until", cred.LockedUntil)
		return nil, internal.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, s.onFailedAttempt(cred, dto.Email)
	}

	if err := s.repo.RecordLogin(cred.UserID); err != nil {
		s.logger.Error("failed to record login", "error", err, "user_id", cred.UserID)
		return nil, internal.NewInternalError("failed to record login", err)
	}

	token, err := s.tokenGen.Generate(cred.UserID, cred.Email)
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err, "user_id", cred.UserID)
		return nil, internal.NewInternalError("failed to issue session token", err)
	}

	u, err := s.CurrentUser(cred.UserID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewLoginSucceeded(cred.UserID, cred.Email))

	s.logger.Info("login succeeded", "user_id", cred.UserID)
	return &LoginResult{Token: token, User: u}, nil
}

func (s *Service) onFailedAttempt(cred *Credential, email string) error {
	newCount, lockedUntil, err := s.repo.RecordFailedAttempt(cred.UserID, MaxFailedAttempts, LockoutDuration)
	if err != nil {
		s.logger.Error("failed to record failed attempt", "error", err, "user_id", cred.UserID)
		return internal.NewInternalError("failed to record login attempt", err)
	}

	s.bus.Publish(context.Background(), events.NewLoginFailed(cred.UserID, email))

	if lockedUntil != nil && newCount >= MaxFailedAttempts {
		s.logger.Warn("account locked after repeated failed logins",
			"user_id", cred.UserID,
			"failed_attempts", newCount,
			"locked_until", lockedUntil)
		s.bus.Publish(context.Background(), events.NewAccountLocked(cred.UserID, *lockedUntil))
	}

	return internal.ErrInvalidCredentials
}

// ValidateAccessToken checks signature and expiry only; the caller still
// has to resolve the user and confirm the account is active.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.Validate(tokenString)
}

// CurrentUser resolves an active user and attaches the capability set for
// their role.
func (s *Service) CurrentUser(userID int64) (*User, error) {
	u, err := s.repo.GetActiveUser(userID)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("failed to resolve user", "error", err, "user_id", userID)
			return nil, internal.NewInternalError("failed to resolve user", err)
		}
		return nil, internal.ErrInvalidToken
	}

	caps, err := s.perms.Get(u.Role)
	if err != nil {
		s.logger.Error("failed to load capabilities", "error", err, "user_id", userID, "role", u.Role)
		return nil, internal.NewInternalError("failed to load capabilities", err)
	}
	u.Capabilities = caps

	return u, nil
}

// Logout validates the token and records the event. Sessions are
// stateless: the token stays valid until its natural expiry.
func (s *Service) Logout(tokenString string) error {
	claims, err := s.tokenGen.Validate(tokenString)
	if err != nil {
		return err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		s.logger.Warn("malformed user id in token claims", "value", claims.UserID, "error", err)
		return internal.ErrInvalidToken
	}
	s.bus.Publish(context.Background(), events.NewLoggedOut(userID, claims.Email))

	s.logger.Info("logout", "user_id", userID)
	return nil
}

// HashPassword creates a bcrypt hash of the password. The plaintext is
// never logged or stored.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a bcrypt hash against a candidate password.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
