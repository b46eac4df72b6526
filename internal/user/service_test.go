package user

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/core/events"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockUserRepository struct {
	users  map[int64]*User
	nextID int64
	dbErr  error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: map[int64]*User{
			1: {ID: 1, Email: "admin@example.com", Name: "Admin", Role: RoleAdmin, IsActive: true},
			2: {ID: 2, Email: "manager@example.com", Name: "Manager", Role: RoleManager, IsActive: true},
			3: {ID: 3, Email: "employee@example.com", Name: "Employee", Role: RoleEmployee, IsActive: true},
		},
		nextID: 4,
	}
}

func (m *mockUserRepository) GetByEmail(email string) (*User, error) {
	if m.dbErr != nil {
		return nil, m.dbErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(id int64) (*User, error) {
	if m.dbErr != nil {
		return nil, m.dbErr
	}
	if u, ok := m.users[id]; ok && u.IsActive {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) GetAnyByID(id int64) (*User, error) {
	if m.dbErr != nil {
		return nil, m.dbErr
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) List(limit, offset int) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Create(u *User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Update(u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) AdminID() (int64, error) {
	if m.dbErr != nil {
		return 0, m.dbErr
	}
	for _, u := range m.users {
		if u.Role == RoleAdmin {
			return u.ID, nil
		}
	}
	return 0, internal.ErrUserNotFound
}

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus := events.NewEventBus(testLogger)
		service = NewService(mockRepo, plainHasher{}, bus, testLogger)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create an active user with a hashed password", func() {
			u, err := service.Create(1, CreateUserDTO{
				Email:    "new@example.com",
				Name:     "New Person",
				Password: "password123",
				Role:     "employee",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).ToNot(BeZero())
			Expect(u.IsActive).To(BeTrue())
			Expect(u.PasswordHash).To(Equal("hashed:password123"))
		})

		ginkgo.It("should reject a duplicate email as a validation failure", func() {
			_, err := service.Create(1, CreateUserDTO{
				Email:    "employee@example.com",
				Name:     "Copycat",
				Password: "password123",
				Role:     "employee",
			})

			Expect(err).To(Equal(internal.ErrDuplicateEmail))
		})

		ginkgo.It("should reject a duplicate email even when the existing account is deactivated", func() {
			mockRepo.users[3].IsActive = false

			_, err := service.Create(1, CreateUserDTO{
				Email:    "employee@example.com",
				Name:     "Copycat",
				Password: "password123",
				Role:     "employee",
			})

			Expect(err).To(Equal(internal.ErrDuplicateEmail))
		})

		ginkgo.It("should refuse a second administrator", func() {
			_, err := service.Create(1, CreateUserDTO{
				Email:    "second-admin@example.com",
				Name:     "Second Admin",
				Password: "password123",
				Role:     "admin",
			})

			Expect(err).To(Equal(internal.ErrAdminExists))
		})

		ginkgo.It("should allow an admin when none exists yet", func() {
			delete(mockRepo.users, 1)

			u, err := service.Create(2, CreateUserDTO{
				Email:    "first-admin@example.com",
				Name:     "First Admin",
				Password: "password123",
				Role:     "admin",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Role).To(Equal(RoleAdmin))
		})

		ginkgo.It("should reject an unknown role", func() {
			_, err := service.Create(1, CreateUserDTO{
				Email:    "x@example.com",
				Name:     "X",
				Password: "password123",
				Role:     "superuser",
			})

			Expect(err).To(Equal(internal.ErrInvalidRole))
		})

		ginkgo.It("should reject a short password", func() {
			_, err := service.Create(1, CreateUserDTO{
				Email:    "x@example.com",
				Name:     "X",
				Password: "short",
				Role:     "employee",
			})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		ginkgo.It("should surface a system error when the store is unreachable", func() {
			mockRepo.dbErr = errors.New("connection refused")

			_, err := service.Create(1, CreateUserDTO{
				Email:    "new@example.com",
				Name:     "New Person",
				Password: "password123",
				Role:     "employee",
			})

			Expect(err).ToNot(Equal(internal.ErrDuplicateEmail))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should apply partial updates", func() {
			name := "Renamed"
			dept := "Platform"
			u, err := service.Update(1, 3, UpdateUserDTO{Name: &name, Department: &dept})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Name).To(Equal("Renamed"))
			Expect(u.Department).To(Equal("Platform"))
			Expect(u.Email).To(Equal("employee@example.com"))
		})

		ginkgo.It("should refuse the admin demoting their own role", func() {
			role := "manager"
			_, err := service.Update(1, 1, UpdateUserDTO{Role: &role})

			Expect(err).To(Equal(internal.ErrSelfModification))
		})

		ginkgo.It("should refuse an actor deactivating themselves", func() {
			inactive := false
			_, err := service.Update(2, 2, UpdateUserDTO{IsActive: &inactive})

			Expect(err).To(Equal(internal.ErrSelfModification))
		})

		ginkgo.It("should allow an actor renaming themselves", func() {
			name := "New Name"
			u, err := service.Update(2, 2, UpdateUserDTO{Name: &name})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Name).To(Equal("New Name"))
		})

		ginkgo.It("should refuse promoting a second user to admin", func() {
			role := "admin"
			_, err := service.Update(1, 2, UpdateUserDTO{Role: &role})

			Expect(err).To(Equal(internal.ErrAdminExists))
		})

		ginkgo.It("should allow promotion once no admin remains", func() {
			mockRepo.users[1].Role = RoleManager

			role := "admin"
			u, err := service.Update(1, 2, UpdateUserDTO{Role: &role})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Role).To(Equal(RoleAdmin))
		})

		ginkgo.It("should report a missing target", func() {
			name := "Ghost"
			_, err := service.Update(1, 99, UpdateUserDTO{Name: &name})

			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		ginkgo.It("should rehash a changed password", func() {
			password := "replacement-pass"
			u, err := service.Update(1, 3, UpdateUserDTO{Password: &password})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.PasswordHash).To(Equal("hashed:replacement-pass"))
		})
	})

	ginkgo.Describe("Deactivate", func() {
		ginkgo.It("should mark the target inactive", func() {
			err := service.Deactivate(1, 3)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.users[3].IsActive).To(BeFalse())
		})

		ginkgo.It("should refuse self-deactivation", func() {
			err := service.Deactivate(1, 1)

			Expect(err).To(Equal(internal.ErrSelfModification))
			Expect(mockRepo.users[1].IsActive).To(BeTrue())
		})

		ginkgo.It("should report a missing target", func() {
			Expect(service.Deactivate(1, 99)).To(Equal(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should return users", func() {
			users, err := service.List(0, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(users).To(HaveLen(3))
		})
	})
})
