package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal"
)

func TestAuthRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthRepository Suite")
}

type SQLiteUser struct {
	ID                  int64      `gorm:"primaryKey"`
	Email               string     `gorm:"column:email;uniqueIndex;not null"`
	Name                string     `gorm:"column:name;not null"`
	PasswordHash        string     `gorm:"column:password_hash;not null"`
	Role                string     `gorm:"column:role;default:'employee'"`
	IsActive            bool       `gorm:"column:is_active;default:true"`
	FailedLoginAttempts int        `gorm:"column:failed_login_attempts;default:0"`
	LockedUntil         *time.Time `gorm:"column:locked_until"`
	LastLoginAt         *time.Time `gorm:"column:last_login_at"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

var _ = Describe("AuthRepository", func() {
	var (
		db   *gorm.DB
		repo *Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{})
		Expect(err).NotTo(HaveOccurred())

		seed := []*SQLiteUser{
			{Email: "active@example.com", Name: "Active", PasswordHash: "hash-a", Role: "employee", IsActive: true},
			{Email: "inactive@example.com", Name: "Inactive", PasswordHash: "hash-b", Role: "manager", IsActive: false},
		}
		for _, u := range seed {
			Expect(db.Create(u).Error).NotTo(HaveOccurred())
		}

		repo = NewRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).NotTo(HaveOccurred())
	})

	Describe("GetCredentialByEmail", func() {
		It("should load the credential slice of the row", func() {
			cred, err := repo.GetCredentialByEmail("active@example.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(cred.Email).To(Equal("active@example.com"))
			Expect(cred.PasswordHash).To(Equal("hash-a"))
			Expect(cred.Role).To(Equal("employee"))
			Expect(cred.IsActive).To(BeTrue())
			Expect(cred.FailedLoginAttempts).To(Equal(0))
			Expect(cred.LockedUntil).To(BeNil())
		})

		It("should return deactivated accounts too", func() {
			cred, err := repo.GetCredentialByEmail("inactive@example.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(cred.IsActive).To(BeFalse())
		})

		It("should report unknown emails", func() {
			_, err := repo.GetCredentialByEmail("nobody@example.com")
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("GetActiveUser", func() {
		It("should resolve an active account", func() {
			cred, err := repo.GetCredentialByEmail("active@example.com")
			Expect(err).NotTo(HaveOccurred())

			u, err := repo.GetActiveUser(cred.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("active@example.com"))
		})

		It("should not resolve a deactivated account", func() {
			cred, err := repo.GetCredentialByEmail("inactive@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = repo.GetActiveUser(cred.UserID)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("RecordFailedAttempt", func() {
		It("should increment the counter without locking below the threshold", func() {
			cred, _ := repo.GetCredentialByEmail("active@example.com")

			count, lockedUntil, err := repo.RecordFailedAttempt(cred.UserID, 5, 15*time.Minute)

			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
			Expect(lockedUntil).To(BeNil())
		})

		It("should set the lock exactly at the threshold", func() {
			cred, _ := repo.GetCredentialByEmail("active@example.com")

			var count int
			var lockedUntil *time.Time
			var err error
			for i := 0; i < 5; i++ {
				count, lockedUntil, err = repo.RecordFailedAttempt(cred.UserID, 5, 15*time.Minute)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(count).To(Equal(5))
			Expect(lockedUntil).NotTo(BeNil())
			Expect(lockedUntil.After(time.Now().Add(14 * time.Minute))).To(BeTrue())
		})

		It("should leave earlier attempts unlocked", func() {
			cred, _ := repo.GetCredentialByEmail("active@example.com")

			for i := 0; i < 4; i++ {
				_, lockedUntil, err := repo.RecordFailedAttempt(cred.UserID, 5, 15*time.Minute)
				Expect(err).NotTo(HaveOccurred())
				Expect(lockedUntil).To(BeNil())
			}
		})
	})

	Describe("RecordLogin", func() {
		It("should reset the counter, clear the lock and stamp the login", func() {
			cred, _ := repo.GetCredentialByEmail("active@example.com")
			for i := 0; i < 5; i++ {
				_, _, err := repo.RecordFailedAttempt(cred.UserID, 5, 15*time.Minute)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(repo.RecordLogin(cred.UserID)).To(Succeed())

			refreshed, err := repo.GetCredentialByEmail("active@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.FailedLoginAttempts).To(Equal(0))
			Expect(refreshed.LockedUntil).To(BeNil())

			var row SQLiteUser
			Expect(db.Where("id = ?", cred.UserID).First(&row).Error).NotTo(HaveOccurred())
			Expect(row.LastLoginAt).NotTo(BeNil())
		})
	})
})
