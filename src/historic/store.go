package historic

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

const (
	bucketName = "historic"
	datasetKey = "historic-data"
)

// Store holds at most one uploaded dataset under a fixed key. A new upload
// replaces the whole slot. Failures are converted to sentinel results with a
// logged cause; nothing here panics or propagates storage errors.
type Store struct {
	db *bolt.DB
}

// OpenStore opens (creating if needed) the dataset file at path.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save persists the full dataset, replacing any prior upload. Reports false
// on failure so the caller can show a generic retry message.
func (s *Store) Save(points []telemetry.Point) bool {
	buf, err := json.Marshal(points)
	if err != nil {
		telemetry.Errorf("historic: encode dataset: %v", err)
		return false
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(datasetKey), buf)
	})
	if err != nil {
		telemetry.Errorf("historic: save dataset: %v", err)
		return false
	}
	telemetry.Debugf("historic: saved %d points", len(points))
	return true
}

// Load returns the stored dataset. ok is false when nothing is stored or the
// read fails; read failures are logged, not returned.
func (s *Store) Load() ([]telemetry.Point, bool) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get([]byte(datasetKey)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		telemetry.Warnf("historic: load dataset: %v", err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	var points []telemetry.Point
	if err := json.Unmarshal(raw, &points); err != nil {
		telemetry.Warnf("historic: decode dataset: %v", err)
		return nil, false
	}
	return points, true
}

// Clear removes the stored dataset. Idempotent.
func (s *Store) Clear() bool {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(datasetKey))
	})
	if err != nil {
		telemetry.Errorf("historic: clear dataset: %v", err)
		return false
	}
	return true
}
