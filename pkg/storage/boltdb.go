package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ezix/ezix/pkg/types"
	bolt "go.etcd.io/bbolt"
)

// DBFile is the journal file name inside the data directory
const DBFile = "ezix.db"

var (
	// Bucket names
	bucketRuns     = []byte("runs")
	bucketRunIndex = []byte("run_index")
)

// BoltStore implements Journal using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates the journal in dataDir
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, DBFile)

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRuns, bucketRunIndex} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// indexKey orders runs by start time; the id breaks ties
func indexKey(run *types.Run) []byte {
	key := make([]byte, 8, 8+len(run.ID))
	binary.BigEndian.PutUint64(key, uint64(run.StartedAt.UnixNano()))
	return append(key, run.ID...)
}

// RecordRun stores a run. Recording the same id again replaces it.
func (s *BoltStore) RecordRun(run *types.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run has no id")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		index := tx.Bucket(bucketRunIndex)

		if old := runs.Get([]byte(run.ID)); old != nil {
			var prev types.Run
			if err := json.Unmarshal(old, &prev); err != nil {
				return err
			}
			if err := index.Delete(indexKey(&prev)); err != nil {
				return err
			}
		}

		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		if err := runs.Put([]byte(run.ID), data); err != nil {
			return err
		}
		return index.Put(indexKey(run), []byte(run.ID))
	})
}

func (s *BoltStore) GetRun(id string) (*types.Run, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var run types.Run
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		if data := b.Get([]byte(id)); data != nil {
			return json.Unmarshal(data, &run)
		}

		var match []byte
		c := b.Cursor()
		prefix := []byte(id)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if match != nil {
				return fmt.Errorf("ambiguous run id prefix: %s", id)
			}
			match = v
		}
		if match == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(match, &run)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *BoltStore) ListRuns(limit int) ([]*types.Run, error) {
	var runs []*types.Run
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		c := tx.Bucket(bucketRunIndex).Cursor()
		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			data := b.Get(id)
			if data == nil {
				continue
			}
			var run types.Run
			if err := json.Unmarshal(data, &run); err != nil {
				return err
			}
			runs = append(runs, &run)
		}
		return nil
	})
	return runs, err
}

func (s *BoltStore) LatestRun() (*types.Run, error) {
	runs, err := s.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: journal is empty", ErrNotFound)
	}
	return runs[0], nil
}

func (s *BoltStore) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		index := tx.Bucket(bucketRunIndex)

		var stale [][]byte
		seen := 0
		c := index.Cursor()
		for k, _ := c.Last(); k != nil; k, _ = c.Prev() {
			seen++
			if seen > keep {
				stale = append(stale, append([]byte(nil), k...))
			}
		}

		for _, k := range stale {
			id := append([]byte(nil), index.Get(k)...)
			if err := index.Delete(k); err != nil {
				return err
			}
			if err := runs.Delete(id); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// Summary renders a one-line description of a run
func Summary(run *types.Run) string {
	failed := run.Failed()
	parts := []string{
		run.StartedAt.Format(time.RFC3339),
		run.Kind,
		string(run.Status),
		fmt.Sprintf("%d actions", len(run.Outcomes)),
	}
	if len(failed) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", len(failed)))
	}
	return strings.Join(parts, "  ")
}
