package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/permission"
)

type stubAuthService struct {
	authenticateResult *LoginResult
	authenticateErr    error
	logoutErr          error
	currentUser        *User
	currentUserErr     error
	claims             *Claims
	validateErr        error
}

func (s *stubAuthService) Authenticate(dto LoginDTO) (*LoginResult, error) {
	return s.authenticateResult, s.authenticateErr
}

func (s *stubAuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.claims, s.validateErr
}

func (s *stubAuthService) CurrentUser(userID int64) (*User, error) {
	return s.currentUser, s.currentUserErr
}

func (s *stubAuthService) Logout(tokenString string) error {
	return s.logoutErr
}

func (s *stubAuthService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler *Handler
		stub    *stubAuthService
	)

	ginkgo.BeforeEach(func() {
		stub = &stubAuthService{}
		handler = NewHandler(stub)
	})

	ginkgo.Describe("Login", func() {
		login := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)
			return rec
		}

		ginkgo.It("should return the token and user on success", func() {
			stub.authenticateResult = &LoginResult{
				Token: "signed-token",
				User: &User{
					ID:           1,
					Email:        "employee@example.com",
					Role:         "employee",
					Capabilities: permission.CapabilitySet{CreateTask: true},
				},
			}

			rec := login(`{"email":"employee@example.com","password":"correct_password"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var body map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["success"]).To(gomega.BeTrue())
			gomega.Expect(body["token"]).To(gomega.Equal("signed-token"))
		})

		ginkgo.It("should map invalid credentials to 401", func() {
			stub.authenticateErr = internal.ErrInvalidCredentials

			rec := login(`{"email":"employee@example.com","password":"wrong"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("INVALID_CREDENTIALS"))
		})

		ginkgo.It("should map a locked account to 423", func() {
			stub.authenticateErr = internal.ErrAccountLocked

			rec := login(`{"email":"employee@example.com","password":"correct_password"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusLocked))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("ACCOUNT_LOCKED"))
		})

		ginkgo.It("should map a deactivated account to 401", func() {
			stub.authenticateErr = internal.ErrAccountDeactivated

			rec := login(`{"email":"gone@example.com","password":"correct_password"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("ACCOUNT_DEACTIVATED"))
		})

		ginkgo.It("should reject a malformed body", func() {
			rec := login(`{not json`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should require a bearer token", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			rec := httptest.NewRecorder()
			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should succeed with a valid token", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var next http.Handler

		ginkgo.BeforeEach(func() {
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u, ok := UserFromContext(r.Context())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(u.ID).To(gomega.Equal(int64(1)))
				w.WriteHeader(http.StatusOK)
			})
		})

		ginkgo.It("should resolve the principal and call through", func() {
			stub.claims = &Claims{UserID: "1", Email: "employee@example.com"}
			stub.currentUser = &User{ID: 1, Email: "employee@example.com", Role: "employee"}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should reject a missing token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should reject an expired token", func() {
			stub.validateErr = internal.ErrTokenExpired

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer stale-token")
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should reject a token whose user was deactivated", func() {
			stub.claims = &Claims{UserID: "1", Email: "employee@example.com"}
			stub.currentUserErr = internal.ErrInvalidToken

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should answer 500, not 401, when user resolution hits a system error", func() {
			stub.claims = &Claims{UserID: "1", Email: "employee@example.com"}
			stub.currentUserErr = internal.NewInternalError("failed to resolve user", nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		})
	})
})
