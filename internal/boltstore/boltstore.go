// Package boltstore persists letters in a single BoltDB file. It offers the
// same persistence surface as the SQLite store for deployments that want an
// embedded key/value file instead.
package boltstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ayusman/kalam/internal/letters"
)

const (
	lettersBucket = "letters" // label -> record
	metaBucket    = "meta"    // settings
	actionsBucket = "actions" // label -> plugin.Binding

	trainingKey = "training"
)

// ErrCorrupt is returned when a stored record cannot be decoded.
var ErrCorrupt = errors.New("corrupt record")

// record is the value stored under each label. Seq preserves creation order
// across rewrites of the same label.
type record struct {
	Seq    uint64                 `json:"seq"`
	Letter letters.LetterSnapshot `json:"letter"`
}

// Store persists letter snapshots in BoltDB.
type Store struct {
	db *bbolt.DB
}

// New opens (creating if needed) the BoltDB file at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(lettersBucket)); err != nil {
			return fmt.Errorf("create letters bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(metaBucket)); err != nil {
			return fmt.Errorf("create meta bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(actionsBucket)); err != nil {
			return fmt.Errorf("create actions bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database. Closing twice is safe.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveLetter stores ls under its label, keeping the creation order of an
// existing label.
func (s *Store) SaveLetter(_ context.Context, ls letters.LetterSnapshot) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return putLetter(tx.Bucket([]byte(lettersBucket)), ls)
	})
}

func putLetter(b *bbolt.Bucket, ls letters.LetterSnapshot) error {
	key := []byte(ls.Label)
	rec := record{Letter: ls}

	if existing := b.Get(key); existing != nil {
		var old record
		if err := json.Unmarshal(existing, &old); err != nil {
			return fmt.Errorf("%w: letter %q: %v", ErrCorrupt, ls.Label, err)
		}
		rec.Seq = old.Seq
	} else {
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		rec.Seq = seq
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal letter %q: %w", ls.Label, err)
	}
	return b.Put(key, data)
}

// LoadSnapshot reads every stored letter in creation order.
func (s *Store) LoadSnapshot(_ context.Context) (letters.Snapshot, error) {
	var recs []record

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(lettersBucket)).ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("%w: letter %q: %v", ErrCorrupt, k, err)
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return letters.Snapshot{}, err
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })

	snap := letters.Snapshot{
		Version: letters.SnapshotVersion,
		Letters: make([]letters.LetterSnapshot, 0, len(recs)),
	}
	for _, rec := range recs {
		snap.Letters = append(snap.Letters, rec.Letter)
	}
	return snap, nil
}

// SaveSnapshot replaces every stored letter with the contents of snap.
func (s *Store) SaveSnapshot(_ context.Context, snap letters.Snapshot) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := resetBucket(tx, lettersBucket)
		if err != nil {
			return err
		}
		for _, ls := range snap.Letters {
			if err := putLetter(b, ls); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteLetter removes one letter. A missing label is not an error.
func (s *Store) DeleteLetter(_ context.Context, label string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(lettersBucket)).Delete([]byte(label))
	})
}

// Clear removes every letter. Settings and bindings are kept.
func (s *Store) Clear(_ context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := resetBucket(tx, lettersBucket)
		return err
	})
}

// TrainingMode returns the persisted training toggle, or def when none was stored.
func (s *Store) TrainingMode(_ context.Context, def bool) (bool, error) {
	on := def
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(metaBucket)).Get([]byte(trainingKey))
		if v == nil {
			return nil
		}
		parsed, err := strconv.ParseBool(string(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorrupt, trainingKey, err)
		}
		on = parsed
		return nil
	})
	return on, err
}

// SetTrainingMode persists the training toggle.
func (s *Store) SetTrainingMode(_ context.Context, on bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(metaBucket)).Put([]byte(trainingKey), []byte(strconv.FormatBool(on)))
	})
}

func resetBucket(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
		return nil, fmt.Errorf("delete %s bucket: %w", name, err)
	}
	b, err := tx.CreateBucket([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("create %s bucket: %w", name, err)
	}
	return b, nil
}
