package app

import (
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	EventTrained    = "trained"
	EventRecognized = "recognized"
	EventRemoved    = "removed"
	EventCleared    = "cleared"
	EventImported   = "imported"
	EventTraining   = "training"
)

// Event describes a change worth telling connected clients about.
type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Letter   string    `json:"letter,omitempty"`
	Score    float64   `json:"score,omitempty"`
	Examples int       `json:"examples,omitempty"`
	Training *bool     `json:"training,omitempty"`
	Time     time.Time `json:"time"`
}

// EventSink receives events. Publish must not block.
type EventSink interface {
	Publish(Event)
}

type discardSink struct{}

func (discardSink) Publish(Event) {}

func newEvent(typ string) Event {
	return Event{ID: uuid.NewString(), Type: typ, Time: time.Now().UTC()}
}
