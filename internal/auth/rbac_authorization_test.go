package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/taskflow/taskflow/internal/permission"
)

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		rbac    *RBACAuthorization
		okNext  http.Handler
		recBody string
	)

	request := func(mw func(http.Handler) http.Handler, u *User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if u != nil {
			req = req.WithContext(ContextWithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		mw(okNext).ServeHTTP(rec, req)
		return rec
	}

	ginkgo.BeforeEach(func() {
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		rbac = NewRBACAuthorization(testLogger)
		recBody = "reached"
		okNext = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(recBody))
		})
	})

	ginkgo.Describe("Require", func() {
		requireDelete := func() func(http.Handler) http.Handler {
			return rbac.Require("delete_task", func(cs permission.CapabilitySet) bool { return cs.DeleteTask })
		}

		ginkgo.It("should pass a user whose role grants the capability", func() {
			rec := request(requireDelete(), &User{
				ID:           2,
				Role:         "manager",
				Capabilities: permission.CapabilitySet{DeleteTask: true},
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.Equal("reached"))
		})

		ginkgo.It("should reject a user without the capability", func() {
			rec := request(requireDelete(), &User{
				ID:           3,
				Role:         "employee",
				Capabilities: permission.CapabilitySet{CreateTask: true},
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Header().Get("Content-Type")).To(gomega.Equal("application/json"))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"code":"FORBIDDEN"`))
		})

		ginkgo.It("should let the admin through regardless of the stored set", func() {
			rec := request(requireDelete(), &User{
				ID:   1,
				Role: "admin",
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should reject a request with no principal", func() {
			rec := request(requireDelete(), nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("RequireAdmin", func() {
		ginkgo.It("should pass the admin", func() {
			rec := request(rbac.RequireAdmin(), &User{ID: 1, Role: "admin"})
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should reject everyone else, whatever their capabilities", func() {
			rec := request(rbac.RequireAdmin(), &User{
				ID:           2,
				Role:         "manager",
				Capabilities: permission.DefaultForRole("admin"),
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"code":"FORBIDDEN"`))
		})

		ginkgo.It("should reject a request with no principal", func() {
			rec := request(rbac.RequireAdmin(), nil)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
