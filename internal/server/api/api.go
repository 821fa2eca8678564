// Package api provides the HTTP handlers of the kalam service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/kalam/internal/app"
	"github.com/ayusman/kalam/internal/hmm"
	"github.com/ayusman/kalam/internal/letters"
	"github.com/ayusman/kalam/internal/plugin"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Service is the application surface the handlers drive. *app.App implements it.
type Service interface {
	Train(ctx context.Context, label string, x, y []float64) (*letters.Letter, error)
	Recognize(ctx context.Context, x, y []float64) (*app.Recognition, error)
	HandleGesture(ctx context.Context, label string, x, y []float64) (*app.GestureResult, error)

	Letter(label string) (*letters.Letter, error)
	Letters() []*letters.Letter
	RemoveLetter(ctx context.Context, label string) error
	Clear(ctx context.Context) error

	Snapshot() letters.Snapshot
	Import(ctx context.Context, snap letters.Snapshot) error

	IsTraining() bool
	SetTraining(ctx context.Context, on bool) error

	Bindings(ctx context.Context) ([]plugin.Binding, error)
	Bind(ctx context.Context, b plugin.Binding) error
	Unbind(ctx context.Context, label string) error
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code. The body is
// encoded before the header is sent so an encoding failure becomes a 500.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	var body bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&body).Encode(data); err != nil {
			log.Error().Err(err).Int("status", status).Msg("failed to encode response")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body.Bytes())
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps a service error onto a status code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, letters.ErrNoModels):
		return http.StatusConflict
	case errors.Is(err, letters.ErrUnknownLetter),
		errors.Is(err, plugin.ErrBindingNotFound):
		return http.StatusNotFound
	case errors.Is(err, hmm.ErrEmptySequence),
		errors.Is(err, hmm.ErrSequenceTooShort),
		errors.Is(err, hmm.ErrInvalidModel),
		errors.Is(err, hmm.ErrInvalidStateCount),
		errors.Is(err, letters.ErrInvalidLabel),
		errors.Is(err, letters.ErrInvalidSnapshot),
		errors.Is(err, app.ErrInvalidBinding):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into v, writing a 400 response on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// gesture is the body shape shared by the example, classify and gesture endpoints.
type gesture struct {
	Label string    `json:"letter,omitempty"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}
