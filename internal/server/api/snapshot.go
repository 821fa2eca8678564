package api

import (
	"net/http"

	"github.com/ayusman/kalam/internal/letters"
)

// SnapshotHandler serves GET and PUT /api/snapshot.
type SnapshotHandler struct {
	svc Service
}

// NewSnapshotHandler creates a SnapshotHandler.
func NewSnapshotHandler(svc Service) *SnapshotHandler {
	return &SnapshotHandler{svc: svc}
}

func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.svc.Snapshot())
	case http.MethodPut:
		var snap letters.Snapshot
		if !decode(w, r, &snap) {
			return
		}
		if err := h.svc.Import(r.Context(), snap); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}
