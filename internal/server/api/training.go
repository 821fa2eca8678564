package api

import "net/http"

type trainingState struct {
	Training bool `json:"training"`
}

// TrainingHandler serves GET and PUT /api/training.
type TrainingHandler struct {
	svc Service
}

// NewTrainingHandler creates a TrainingHandler.
func NewTrainingHandler(svc Service) *TrainingHandler {
	return &TrainingHandler{svc: svc}
}

func (h *TrainingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, trainingState{Training: h.svc.IsTraining()})
	case http.MethodPut:
		var req trainingState
		if !decode(w, r, &req) {
			return
		}
		if err := h.svc.SetTraining(r.Context(), req.Training); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, trainingState{Training: h.svc.IsTraining()})
	default:
		methodNotAllowed(w)
	}
}
