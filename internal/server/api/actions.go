package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/kalam/internal/plugin"
)

// ActionHandler serves /api/actions and /api/actions/{letter}.
type ActionHandler struct {
	svc     Service
	plugins *plugin.Manager
}

// NewActionHandler creates an ActionHandler. plugins may be nil, in which case
// bindings are not checked against discovered plugins.
func NewActionHandler(svc Service, plugins *plugin.Manager) *ActionHandler {
	return &ActionHandler{svc: svc, plugins: plugins}
}

type bindRequest struct {
	Plugin  string          `json:"plugin"`
	Action  string          `json:"action"`
	Config  json.RawMessage `json:"config"`
	Enabled *bool           `json:"enabled"`
}

type listActionsResponse struct {
	Actions []plugin.Binding `json:"actions"`
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimPrefix(r.URL.Path, "/api/actions")
	label = strings.TrimPrefix(label, "/")

	if label == "" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.list(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.bind(w, r, label)
	case http.MethodDelete:
		h.unbind(w, r, label)
	default:
		methodNotAllowed(w)
	}
}

// list handles GET /api/actions.
func (h *ActionHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.svc.Bindings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if bindings == nil {
		bindings = []plugin.Binding{}
	}
	writeJSON(w, http.StatusOK, listActionsResponse{Actions: bindings})
}

// bind handles PUT /api/actions/{letter}.
func (h *ActionHandler) bind(w http.ResponseWriter, r *http.Request, label string) {
	var req bindRequest
	if !decode(w, r, &req) {
		return
	}

	if h.plugins != nil {
		p, err := h.plugins.Get(req.Plugin)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !p.Manifest.Supports(req.Action) {
			writeError(w, http.StatusBadRequest, "plugin "+req.Plugin+" does not support action "+req.Action)
			return
		}
	}

	b := plugin.Binding{
		Label:   label,
		Plugin:  req.Plugin,
		Action:  req.Action,
		Config:  req.Config,
		Enabled: req.Enabled == nil || *req.Enabled,
	}
	if err := h.svc.Bind(r.Context(), b); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// unbind handles DELETE /api/actions/{letter}.
func (h *ActionHandler) unbind(w http.ResponseWriter, r *http.Request, label string) {
	if err := h.svc.Unbind(r.Context(), label); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
