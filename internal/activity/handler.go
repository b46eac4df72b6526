package activity

import (
	"net/http"
	"strconv"

	"github.com/taskflow/taskflow/internal/transport"
	"github.com/taskflow/taskflow/pkg/logger"
)

type ServiceAPI interface {
	List(action string, limit, offset int) ([]*Entry, error)
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

func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	action := r.URL.Query().Get("action")

	entries, err := h.Service.List(action, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}
