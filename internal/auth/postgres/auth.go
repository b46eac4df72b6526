package postgres

import (
	"database/sql"
	"time"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/auth"
	"gorm.io/gorm"
)

// Repository is the credential store: the slice of the users table the
// login flow reads and the per-row atomic lockout bookkeeping.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentialByEmail(email string) (*auth.Credential, error) {
	var cred auth.Credential
	var lockedUntil sql.NullTime

	row := r.db.Raw(`
		SELECT id, email, name, role, password_hash, is_active, failed_login_attempts, locked_until
		FROM users WHERE email = ?`, email).Row()
	if err := row.Scan(&cred.UserID, &cred.Email, &cred.Name, &cred.Role,
		&cred.PasswordHash, &cred.IsActive, &cred.FailedLoginAttempts, &lockedUntil); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	if lockedUntil.Valid {
		t := lockedUntil.Time
		cred.LockedUntil = &t
	}
	return &cred, nil
}

func (r *Repository) GetActiveUser(userID int64) (*auth.User, error) {
	var u auth.User

	row := r.db.Raw(`
		SELECT id, email, name, role
		FROM users WHERE id = ? AND is_active = ?`, userID, true).Row()
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// RecordFailedAttempt runs as one UPDATE so concurrent failures cannot
// under-count and grant extra tries before the lock trips.
func (r *Repository) RecordFailedAttempt(userID int64, threshold int, lockFor time.Duration) (int, *time.Time, error) {
	now := time.Now()
	lockUntil := now.Add(lockFor)

	err := r.db.Exec(`
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= ? THEN ?
		        ELSE locked_until
		    END,
		    updated_at = ?
		WHERE id = ?`,
		threshold, lockUntil, now, userID).Error
	if err != nil {
		return 0, nil, err
	}

	var count int
	var lockedUntil sql.NullTime
	row := r.db.Raw(`SELECT failed_login_attempts, locked_until FROM users WHERE id = ?`, userID).Row()
	if err := row.Scan(&count, &lockedUntil); err != nil {
		return 0, nil, err
	}

	if lockedUntil.Valid {
		t := lockedUntil.Time
		return count, &t, nil
	}
	return count, nil, nil
}

func (r *Repository) RecordLogin(userID int64) error {
	now := time.Now()
	return r.db.Exec(`
		UPDATE users
		SET failed_login_attempts = 0,
		    locked_until = NULL,
		    last_login_at = ?,
		    updated_at = ?
		WHERE id = ?`, now, now, userID).Error
}
