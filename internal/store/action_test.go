package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestActionRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Actions()

	a := &Action{
		Label:      "a",
		PluginName: "keyboard",
		ActionName: "type",
		Config:     json.RawMessage(`{"suffix":" "}`),
		Enabled:    true,
	}
	if err := repo.Create(a); err != nil {
		t.Fatalf("failed to create action: %v", err)
	}
	if a.ID == "" {
		t.Fatal("ID should be generated on create")
	}

	got, err := repo.GetByLabel("a")
	if err != nil {
		t.Fatalf("failed to get action by label: %v", err)
	}
	if got == nil {
		t.Fatal("expected an action bound to label a")
	}
	if got.PluginName != "keyboard" || got.ActionName != "type" || !got.Enabled {
		t.Errorf("action mismatch: %+v", got)
	}
	if string(got.Config) != `{"suffix":" "}` {
		t.Errorf("config mismatch: got %s", got.Config)
	}

	got.Enabled = false
	got.Config = nil
	if err := repo.Update(got); err != nil {
		t.Fatalf("failed to update action: %v", err)
	}

	byID, err := repo.GetByID(a.ID)
	if err != nil {
		t.Fatalf("failed to get action by ID: %v", err)
	}
	if byID.Enabled {
		t.Error("action should be disabled after update")
	}
	if string(byID.Config) != "{}" {
		t.Errorf("nil config should be stored as {}, got %s", byID.Config)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list actions: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 action, got %d", len(list))
	}

	if err := repo.Delete(a.ID); err != nil {
		t.Fatalf("failed to delete action: %v", err)
	}
	if err := repo.Delete(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestActionRepository_GetByLabel_Unbound(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Actions().GetByLabel("z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Errorf("expected nil action for unbound label, got %+v", a)
	}
}

func TestActionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Actions().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSettingRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	on, err := repo.GetBool(SettingTraining, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !on {
		t.Error("unset bool should return the default")
	}

	if err := repo.SetBool(SettingTraining, false); err != nil {
		t.Fatalf("failed to set bool: %v", err)
	}
	on, err = repo.GetBool(SettingTraining, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if on {
		t.Error("expected stored false")
	}

	if err := repo.Set("theme", "dark"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := repo.Set("theme", "light"); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}
	v, err := repo.Get("theme")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if v != "light" {
		t.Errorf("got %q, want %q", v, "light")
	}
}

func TestStore_TrainingMode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	on, err := s.TrainingMode(ctx, true)
	if err != nil || !on {
		t.Fatalf("expected default true, got %v (%v)", on, err)
	}

	if err := s.SetTrainingMode(ctx, false); err != nil {
		t.Fatalf("failed to set training mode: %v", err)
	}
	on, err = s.TrainingMode(ctx, true)
	if err != nil || on {
		t.Errorf("expected stored false, got %v (%v)", on, err)
	}
}
