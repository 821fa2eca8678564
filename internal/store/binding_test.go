package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ayusman/kalam/internal/plugin"
)

func TestStore_Bindings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := plugin.Binding{Label: "a", Plugin: "keyboard", Action: "type", Enabled: true}
	if err := s.Bind(ctx, b); err != nil {
		t.Fatalf("failed to bind: %v", err)
	}

	got, err := s.BindingFor(ctx, "a")
	if err != nil {
		t.Fatalf("failed to get binding: %v", err)
	}
	if got == nil || got.Plugin != "keyboard" || got.Action != "type" {
		t.Fatalf("unexpected binding: %+v", got)
	}

	// Rebinding replaces the existing row
	b.Action = "keystroke"
	b.Config = json.RawMessage(`{"key":"a"}`)
	if err := s.Bind(ctx, b); err != nil {
		t.Fatalf("failed to rebind: %v", err)
	}
	all, err := s.Bindings(ctx)
	if err != nil {
		t.Fatalf("failed to list bindings: %v", err)
	}
	if len(all) != 1 || all[0].Action != "keystroke" {
		t.Fatalf("unexpected bindings: %+v", all)
	}

	// Disabled bindings are not returned for dispatch
	b.Enabled = false
	if err := s.Bind(ctx, b); err != nil {
		t.Fatalf("failed to disable: %v", err)
	}
	if got, err := s.BindingFor(ctx, "a"); err != nil || got != nil {
		t.Errorf("expected no enabled binding, got %+v (%v)", got, err)
	}

	if err := s.Unbind(ctx, "a"); err != nil {
		t.Fatalf("failed to unbind: %v", err)
	}
	if err := s.Unbind(ctx, "a"); !errors.Is(err, plugin.ErrBindingNotFound) {
		t.Errorf("expected ErrBindingNotFound, got %v", err)
	}
}
