package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/taskflow/taskflow/internal/activity"
	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/permission"
	"github.com/taskflow/taskflow/internal/task"
	"github.com/taskflow/taskflow/internal/transport/middleware"
	"github.com/taskflow/taskflow/internal/transport/swagger"
	"github.com/taskflow/taskflow/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, corsOrigins string, authHandler *auth.Handler, userHandler *user.Handler, permissionHandler *permission.Handler, taskHandler *task.Handler, activityHandler *activity.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	rbac := auth.NewRBACAuthorization(logger)

	// Global middleware
	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// User management routes
				if userHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.Group(func(vr chi.Router) {
							vr.Use(rbac.Require("view_users", func(cs permission.CapabilitySet) bool { return cs.ViewUsers }))
							vr.Get("/", userHandler.ListUsers)
						})
						ur.Group(func(ar chi.Router) {
							ar.Use(rbac.Require("add_users", func(cs permission.CapabilitySet) bool { return cs.AddUsers }))
							ar.Post("/", userHandler.CreateUser)
						})
						ur.Group(func(er chi.Router) {
							er.Use(rbac.Require("edit_users", func(cs permission.CapabilitySet) bool { return cs.EditUsers }))
							er.Patch("/{id}", userHandler.UpdateUser)
						})
						ur.Group(func(rr chi.Router) {
							rr.Use(rbac.Require("remove_users", func(cs permission.CapabilitySet) bool { return cs.RemoveUsers }))
							rr.Delete("/{id}", userHandler.DeactivateUser)
						})
					})
				}

				// Permission matrix routes (admin only)
				if permissionHandler != nil {
					pr.Route("/permissions", func(pmr chi.Router) {
						pmr.Use(rbac.RequireAdmin())
						pmr.Get("/", permissionHandler.GetPermissions)
						pmr.Put("/{role}", permissionHandler.ReplacePermissions)
					})
				}

				// Task routes
				if taskHandler != nil {
					pr.Route("/tasks", func(tr chi.Router) {
						tr.Get("/", taskHandler.ListTasks)
						tr.Get("/{id}", taskHandler.GetTask)

						tr.Group(func(cr chi.Router) {
							cr.Use(rbac.Require("create_task", func(cs permission.CapabilitySet) bool { return cs.CreateTask }))
							cr.Post("/", taskHandler.CreateTask)
						})
						tr.Group(func(er chi.Router) {
							er.Use(rbac.Require("edit_task", func(cs permission.CapabilitySet) bool { return cs.EditTask }))
							er.Patch("/{id}", taskHandler.UpdateTask)
						})
						tr.Group(func(dr chi.Router) {
							dr.Use(rbac.Require("delete_task", func(cs permission.CapabilitySet) bool { return cs.DeleteTask }))
							dr.Delete("/{id}", taskHandler.DeleteTask)
						})
					})
				}

				// Activity log routes
				if activityHandler != nil {
					pr.Group(func(alr chi.Router) {
						alr.Use(rbac.Require("view_activity_logs", func(cs permission.CapabilitySet) bool { return cs.ViewActivityLogs }))
						alr.Get("/activity", activityHandler.ListActivity)
					})
				}
			})
		}
	})
}
