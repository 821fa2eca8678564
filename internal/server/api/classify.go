package api

import (
	"net/http"

	"github.com/ayusman/kalam/internal/app"
	"github.com/ayusman/kalam/internal/letters"
)

type classifyResponse struct {
	Letter     string              `json:"letter"`
	Score      float64             `json:"score"`
	Candidates []letters.Candidate `json:"candidates"`
	Action     *app.ActionResult   `json:"action,omitempty"`
}

type gestureResponse struct {
	Trained *app.LetterSummary `json:"trained,omitempty"`
	classifyResponse
}

func toClassifyResponse(rec *app.Recognition) classifyResponse {
	return classifyResponse{
		Letter:     rec.Best.Label,
		Score:      rec.Best.Score,
		Candidates: rec.Candidates,
		Action:     rec.Action,
	}
}

// ClassifyHandler serves POST /api/classify.
type ClassifyHandler struct {
	svc Service
}

// NewClassifyHandler creates a ClassifyHandler.
func NewClassifyHandler(svc Service) *ClassifyHandler {
	return &ClassifyHandler{svc: svc}
}

func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req gesture
	if !decode(w, r, &req) {
		return
	}

	rec, err := h.svc.Recognize(r.Context(), req.X, req.Y)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClassifyResponse(rec))
}

// GestureHandler serves POST /api/gestures: one finished stroke, trained on
// when training mode is on and a letter is given, then classified.
type GestureHandler struct {
	svc Service
}

// NewGestureHandler creates a GestureHandler.
func NewGestureHandler(svc Service) *GestureHandler {
	return &GestureHandler{svc: svc}
}

func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req gesture
	if !decode(w, r, &req) {
		return
	}

	res, err := h.svc.HandleGesture(r.Context(), req.Label, req.X, req.Y)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gestureResponse{
		Trained:          res.Trained,
		classifyResponse: toClassifyResponse(res.Recognition),
	})
}
