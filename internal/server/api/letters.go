package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/kalam/internal/app"
	"github.com/ayusman/kalam/internal/hmm"
)

// LetterHandler serves /api/letters, /api/letters/{letter} and
// /api/letters/{letter}/examples.
type LetterHandler struct {
	svc Service
}

// NewLetterHandler creates a LetterHandler.
func NewLetterHandler(svc Service) *LetterHandler {
	return &LetterHandler{svc: svc}
}

type listLettersResponse struct {
	Letters []app.LetterSummary `json:"letters"`
}

type letterResponse struct {
	app.LetterSummary
	X *hmm.AxisModel `json:"x"`
	Y *hmm.AxisModel `json:"y"`
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *LetterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/letters")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodDelete:
			h.clear(w, r)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if label, ok := strings.CutSuffix(path, "/examples"); ok {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.addExample(w, r, label)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, path)
	case http.MethodDelete:
		h.delete(w, r, path)
	default:
		methodNotAllowed(w)
	}
}

// list handles GET /api/letters.
func (h *LetterHandler) list(w http.ResponseWriter, r *http.Request) {
	all := h.svc.Letters()
	resp := listLettersResponse{Letters: make([]app.LetterSummary, 0, len(all))}
	for _, l := range all {
		resp.Letters = append(resp.Letters, app.Summarize(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

// clear handles DELETE /api/letters.
func (h *LetterHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// get handles GET /api/letters/{letter}.
func (h *LetterHandler) get(w http.ResponseWriter, r *http.Request, label string) {
	l, err := h.svc.Letter(label)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, letterResponse{LetterSummary: app.Summarize(l), X: l.X, Y: l.Y})
}

// delete handles DELETE /api/letters/{letter}.
func (h *LetterHandler) delete(w http.ResponseWriter, r *http.Request, label string) {
	if err := h.svc.RemoveLetter(r.Context(), label); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addExample handles POST /api/letters/{letter}/examples.
func (h *LetterHandler) addExample(w http.ResponseWriter, r *http.Request, label string) {
	var req gesture
	if !decode(w, r, &req) {
		return
	}

	l, err := h.svc.Train(r.Context(), label, req.X, req.Y)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app.Summarize(l))
}
