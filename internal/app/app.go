// Package app wires the letter models to persistence, action plugins,
// metrics and event delivery.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/kalam/internal/letters"
	"github.com/ayusman/kalam/internal/metrics"
	"github.com/ayusman/kalam/internal/plugin"
)

// ErrInvalidBinding is returned by Bind for incomplete bindings.
var ErrInvalidBinding = errors.New("invalid binding")

// Persister stores letters, the training toggle and action bindings.
// Both the SQLite and the BoltDB stores satisfy it.
type Persister interface {
	LoadSnapshot(ctx context.Context) (letters.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap letters.Snapshot) error
	SaveLetter(ctx context.Context, ls letters.LetterSnapshot) error
	DeleteLetter(ctx context.Context, label string) error
	Clear(ctx context.Context) error

	TrainingMode(ctx context.Context, def bool) (bool, error)
	SetTrainingMode(ctx context.Context, on bool) error

	BindingFor(ctx context.Context, label string) (*plugin.Binding, error)
	Bindings(ctx context.Context) ([]plugin.Binding, error)
	Bind(ctx context.Context, b plugin.Binding) error
	Unbind(ctx context.Context, label string) error
}

// ActionRunner executes a plugin action.
type ActionRunner interface {
	Run(ctx context.Context, name string, req *plugin.Request) (*plugin.Response, error)
}

// Config holds the collaborators of an App. Only Persister is required.
type Config struct {
	Persister Persister
	Runner    ActionRunner
	Metrics   *metrics.Metrics
	Events    EventSink

	// States and Cycles configure new letters. A zero States or a nil
	// Cycles uses the letters package default.
	States   int
	Cycles   *int
	Training bool
}

// Recognition is the outcome of classifying one gesture.
type Recognition struct {
	Best       letters.Candidate   `json:"best"`
	Candidates []letters.Candidate `json:"candidates"`
	Action     *ActionResult       `json:"action,omitempty"`
}

// ActionResult reports the plugin action run for a recognised letter.
type ActionResult struct {
	Plugin string `json:"plugin"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

// GestureResult is the outcome of HandleGesture.
type GestureResult struct {
	Trained     *LetterSummary `json:"trained,omitempty"`
	Recognition *Recognition   `json:"recognition"`
}

// LetterSummary describes a letter without its raw examples.
type LetterSummary struct {
	Label    string `json:"letter"`
	Examples int    `json:"examples"`
	StatesX  int    `json:"states_x"`
	StatesY  int    `json:"states_y"`
}

// Summarize returns the summary of l.
func Summarize(l *letters.Letter) LetterSummary {
	return LetterSummary{Label: l.Label, Examples: l.Examples(), StatesX: l.X.States, StatesY: l.Y.States}
}

// App owns the letter manager and keeps it in step with the persister.
type App struct {
	config  Config
	metrics *metrics.Metrics
	events  EventSink

	// writeMu serializes letter changes so the manager they apply to is the
	// one whose state reaches the persister.
	writeMu sync.Mutex

	mu       sync.RWMutex
	manager  *letters.Manager
	training bool
}

// New creates an App with an empty manager. Call Load to restore stored letters.
func New(config Config) *App {
	a := &App{
		config:   config,
		metrics:  config.Metrics,
		events:   config.Events,
		training: config.Training,
	}
	if a.metrics == nil {
		a.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	}
	if a.events == nil {
		a.events = discardSink{}
	}
	a.manager = letters.NewManager(a.managerOptions()...)
	return a
}

func (a *App) managerOptions() []letters.Option {
	var opts []letters.Option
	if a.config.States > 0 {
		opts = append(opts, letters.WithStates(a.config.States))
	}
	if a.config.Cycles != nil {
		opts = append(opts, letters.WithCycles(*a.config.Cycles))
	}
	return opts
}

func (a *App) current() *letters.Manager {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.manager
}

// Load replaces the in-memory letters with the persisted ones and restores
// the training toggle.
func (a *App) Load(ctx context.Context) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	snap, err := a.config.Persister.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load letters: %w", err)
	}
	m, err := letters.Restore(snap, a.managerOptions()...)
	if err != nil {
		return fmt.Errorf("restore letters: %w", err)
	}

	training, err := a.config.Persister.TrainingMode(ctx, a.config.Training)
	if err != nil {
		return fmt.Errorf("load training mode: %w", err)
	}

	a.mu.Lock()
	a.manager = m
	a.training = training
	a.mu.Unlock()

	a.metrics.SetInventory(m.Len(), m.TotalExamples())
	log.Info().
		Int("letters", m.Len()).
		Int("examples", m.TotalExamples()).
		Bool("training", training).
		Msg("letters loaded")
	return nil
}

// Train adds one example to label and persists the retrained letter.
// When persisting fails the in-memory letter is already updated; the next
// successful save rewrites the whole letter.
func (a *App) Train(ctx context.Context, label string, x, y []float64) (*letters.Letter, error) {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	m := a.current()

	start := time.Now()
	l, err := m.AddExample(label, x, y)
	a.metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.TrainingFailures.Inc()
		log.Warn().Err(err).Str("letter", label).Int("samples", len(x)).Msg("training rejected")
		return nil, err
	}
	a.metrics.TrainingsTotal.Inc()
	a.metrics.SetInventory(m.Len(), m.TotalExamples())

	if err := a.config.Persister.SaveLetter(ctx, letters.SnapshotOf(l)); err != nil {
		log.Error().Err(err).Str("letter", label).Msg("failed to persist letter")
		return l, fmt.Errorf("persist letter %q: %w", label, err)
	}

	log.Info().Str("letter", label).Int("examples", l.Examples()).Msg("letter trained")

	ev := newEvent(EventTrained)
	ev.Letter, ev.Examples = label, l.Examples()
	a.events.Publish(ev)
	return l, nil
}

// Recognize classifies a gesture and runs the action bound to the best letter.
// An action failure is reported in the result, not as an error.
func (a *App) Recognize(ctx context.Context, x, y []float64) (*Recognition, error) {
	start := time.Now()
	candidates, err := a.current().Rank(x, y)
	a.metrics.ClassificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.ClassificationFailures.Inc()
		return nil, err
	}
	a.metrics.ClassificationsTotal.Inc()

	rec := &Recognition{Best: candidates[0], Candidates: candidates}
	rec.Action = a.dispatch(ctx, rec.Best)

	log.Debug().Str("letter", rec.Best.Label).Float64("score", rec.Best.Score).Msg("gesture recognized")

	ev := newEvent(EventRecognized)
	ev.Letter, ev.Score = rec.Best.Label, rec.Best.Score
	a.events.Publish(ev)
	return rec, nil
}

// dispatch runs the action bound to the candidate's letter, if any.
func (a *App) dispatch(ctx context.Context, c letters.Candidate) *ActionResult {
	if a.config.Runner == nil {
		return nil
	}

	b, err := a.config.Persister.BindingFor(ctx, c.Label)
	if err != nil {
		log.Error().Err(err).Str("letter", c.Label).Msg("failed to look up binding")
		return nil
	}
	if b == nil {
		return nil
	}

	res := &ActionResult{Plugin: b.Plugin, Action: b.Action}
	_, err = a.config.Runner.Run(ctx, b.Plugin, &plugin.Request{
		Action: b.Action,
		Letter: c.Label,
		Score:  c.Score,
		Config: b.Config,
	})
	a.metrics.PluginResult(b.Plugin, err)
	if err != nil {
		res.Error = err.Error()
		log.Warn().Err(err).Str("letter", c.Label).Str("plugin", b.Plugin).Msg("action failed")
	}
	return res
}

// HandleGesture processes one finished stroke. With training mode on and a
// label given, the stroke is first added to that label; it is always
// classified afterwards.
func (a *App) HandleGesture(ctx context.Context, label string, x, y []float64) (*GestureResult, error) {
	res := &GestureResult{}

	if label != "" && a.IsTraining() {
		l, err := a.Train(ctx, label, x, y)
		if err != nil {
			return nil, err
		}
		s := Summarize(l)
		res.Trained = &s
	}

	rec, err := a.Recognize(ctx, x, y)
	if err != nil {
		return nil, err
	}
	res.Recognition = rec
	return res, nil
}

// IsTraining reports whether strokes with a label are used for training.
func (a *App) IsTraining() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.training
}

// SetTraining switches training mode and persists the choice.
func (a *App) SetTraining(ctx context.Context, on bool) error {
	if err := a.config.Persister.SetTrainingMode(ctx, on); err != nil {
		return fmt.Errorf("persist training mode: %w", err)
	}

	a.mu.Lock()
	a.training = on
	a.mu.Unlock()

	log.Info().Bool("training", on).Msg("training mode changed")
	ev := newEvent(EventTraining)
	ev.Training = &on
	a.events.Publish(ev)
	return nil
}

// Letter returns a copy of one letter.
func (a *App) Letter(label string) (*letters.Letter, error) {
	return a.current().Letter(label)
}

// Letters returns copies of every letter in creation order.
func (a *App) Letters() []*letters.Letter {
	return a.current().Letters()
}

// RemoveLetter deletes one letter from memory and storage.
func (a *App) RemoveLetter(ctx context.Context, label string) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	m := a.current()
	if err := m.Remove(label); err != nil {
		return err
	}
	a.metrics.SetInventory(m.Len(), m.TotalExamples())

	if err := a.config.Persister.DeleteLetter(ctx, label); err != nil {
		return fmt.Errorf("delete letter %q: %w", label, err)
	}

	log.Info().Str("letter", label).Msg("letter removed")
	ev := newEvent(EventRemoved)
	ev.Letter = label
	a.events.Publish(ev)
	return nil
}

// Clear deletes every letter from memory and storage.
func (a *App) Clear(ctx context.Context) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	a.current().Clear()
	a.metrics.SetInventory(0, 0)

	if err := a.config.Persister.Clear(ctx); err != nil {
		return fmt.Errorf("clear letters: %w", err)
	}

	log.Info().Msg("letters cleared")
	a.events.Publish(newEvent(EventCleared))
	return nil
}

// Snapshot returns the current letters as plain data.
func (a *App) Snapshot() letters.Snapshot {
	return a.current().Snapshot()
}

// Import replaces every letter with the contents of snap. Nothing changes
// when snap cannot be restored or stored.
func (a *App) Import(ctx context.Context, snap letters.Snapshot) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	m, err := letters.Restore(snap, a.managerOptions()...)
	if err != nil {
		return err
	}
	if err := a.config.Persister.SaveSnapshot(ctx, m.Snapshot()); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	a.mu.Lock()
	a.manager = m
	a.mu.Unlock()

	a.metrics.SetInventory(m.Len(), m.TotalExamples())
	log.Info().Int("letters", m.Len()).Msg("snapshot imported")
	a.events.Publish(newEvent(EventImported))
	return nil
}

// Bindings lists every action binding.
func (a *App) Bindings(ctx context.Context) ([]plugin.Binding, error) {
	return a.config.Persister.Bindings(ctx)
}

// Bind stores a binding. The letter does not need to exist yet.
func (a *App) Bind(ctx context.Context, b plugin.Binding) error {
	if b.Label == "" || b.Plugin == "" || b.Action == "" {
		return fmt.Errorf("%w: letter, plugin and action are required", ErrInvalidBinding)
	}
	return a.config.Persister.Bind(ctx, b)
}

// Unbind removes the binding for label.
func (a *App) Unbind(ctx context.Context, label string) error {
	return a.config.Persister.Unbind(ctx, label)
}
