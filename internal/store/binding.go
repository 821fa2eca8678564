package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayusman/kalam/internal/plugin"
)

// BindingFor returns the enabled binding for label, or nil when there is none.
func (s *Store) BindingFor(_ context.Context, label string) (*plugin.Binding, error) {
	a, err := s.Actions().GetByLabel(label)
	if err != nil || a == nil || !a.Enabled {
		return nil, err
	}
	b := bindingOf(a)
	return &b, nil
}

// Bindings lists every binding ordered by label.
func (s *Store) Bindings(_ context.Context) ([]plugin.Binding, error) {
	actions, err := s.Actions().List()
	if err != nil {
		return nil, err
	}
	out := make([]plugin.Binding, 0, len(actions))
	for _, a := range actions {
		out = append(out, bindingOf(a))
	}
	return out, nil
}

// Bind creates or replaces the binding for b.Label.
func (s *Store) Bind(_ context.Context, b plugin.Binding) error {
	repo := s.Actions()

	existing, err := repo.GetByLabel(b.Label)
	if err != nil {
		return err
	}

	a := &Action{
		Label:      b.Label,
		PluginName: b.Plugin,
		ActionName: b.Action,
		Config:     b.Config,
		Enabled:    b.Enabled,
	}
	if existing == nil {
		return repo.Create(a)
	}
	a.ID = existing.ID
	return repo.Update(a)
}

// Unbind removes the binding for label.
func (s *Store) Unbind(_ context.Context, label string) error {
	a, err := s.Actions().GetByLabel(label)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("%w: %q", plugin.ErrBindingNotFound, label)
	}
	if err := s.Actions().Delete(a.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func bindingOf(a *Action) plugin.Binding {
	return plugin.Binding{
		Label:   a.Label,
		Plugin:  a.PluginName,
		Action:  a.ActionName,
		Config:  a.Config,
		Enabled: a.Enabled,
	}
}
