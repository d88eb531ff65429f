package api

import (
	"net/http"
	"time"
)

type reloadResponse struct {
	Status   string `json:"status"`
	Source   string `json:"source"`
	Records  int    `json:"records"`
	LoadedAt string `json:"loaded_at"`
}

// ReloadHandler handles snapshot reload requests.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /v1/reload requests. A failed reload leaves the
// current snapshot in place.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if r.Method != http.MethodPost {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	snap, err := h.deps.Reload(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Status:   "reloaded",
		Source:   snap.Source,
		Records:  snap.Dataset.Len(),
		LoadedAt: snap.LoadedAt.UTC().Format(time.RFC3339),
	})
}
