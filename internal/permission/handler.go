package permission

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/transport"
	"github.com/taskflow/taskflow/pkg/logger"
)

type ServiceAPI interface {
	Get(role string) (CapabilitySet, error)
	GetAll() (map[string]CapabilitySet, error)
	Replace(actorID int64, role string, set CapabilitySet) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

// GetPermissions handles GET /permissions (administrator only, enforced
// in the router).
func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	all, err := h.Service.GetAll()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"permissions": all})
}

// ReplacePermissions handles PUT /permissions/{role}; the body is the
// complete capability set for the role.
func (h *Handler) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	actorID := internal.UserIDFromContext(r.Context())
	if actorID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	role := chi.URLParam(r, "role")

	var set CapabilitySet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Replace(actorID, role, set); err != nil {
		h.Logger.Error("ReplacePermissions: service error", "error", err, "role", role, "actor_id", actorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
