package boltstore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/ayusman/kalam/internal/plugin"
)

// BindingFor returns the enabled binding for label, or nil when there is none.
func (s *Store) BindingFor(_ context.Context, label string) (*plugin.Binding, error) {
	var b *plugin.Binding
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(actionsBucket)).Get([]byte(label))
		if v == nil {
			return nil
		}
		var decoded plugin.Binding
		if err := json.Unmarshal(v, &decoded); err != nil {
			return fmt.Errorf("%w: binding %q: %v", ErrCorrupt, label, err)
		}
		if decoded.Enabled {
			b = &decoded
		}
		return nil
	})
	return b, err
}

// Bindings lists every binding ordered by label.
func (s *Store) Bindings(_ context.Context) ([]plugin.Binding, error) {
	var out []plugin.Binding
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(actionsBucket)).ForEach(func(k, v []byte) error {
			var b plugin.Binding
			if err := json.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("%w: binding %q: %v", ErrCorrupt, k, err)
			}
			out = append(out, b)
			return nil
		})
	})
	return out, err
}

// Bind creates or replaces the binding for b.Label.
func (s *Store) Bind(_ context.Context, b plugin.Binding) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal binding %q: %w", b.Label, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(actionsBucket)).Put([]byte(b.Label), data)
	})
}

// Unbind removes the binding for label.
func (s *Store) Unbind(_ context.Context, label string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(actionsBucket))
		if bucket.Get([]byte(label)) == nil {
			return fmt.Errorf("%w: %q", plugin.ErrBindingNotFound, label)
		}
		return bucket.Delete([]byte(label))
	})
}
