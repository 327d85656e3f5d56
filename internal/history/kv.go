package history

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	dbm "github.com/cosmos/cosmos-db"
	bolt "go.etcd.io/bbolt"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
)

const (
	levelDBName  = "history"
	boltFileName = "history.db"
)

var (
	keyPrefix         = []byte("obs\x00")
	bucketObservation = []byte("observations")
)

// kv is the ordered key/value surface the store needs.
type kv interface {
	put(key, value []byte) error
	deleteKeys(keys [][]byte) error
	// scan visits keys in [start, end) until fn returns false.
	scan(start, end []byte, reverse bool, fn func(key, value []byte) bool) error
	close() error
}

// NewWithDB wraps an open cosmos-db database.
func NewWithDB(db dbm.DB, opts Options) *Store {
	return newStore(&dbmKV{db: db}, opts)
}

// observationKey orders observations of a job by time.
func observationKey(obs Observation) []byte {
	start, _ := jobRange(monitor.JobID(obs.JobID))
	ts := fmt.Sprintf("%020d", obs.ObservedAt.UnixNano())
	key := make([]byte, 0, len(start)+len(ts)+1+len(obs.ID))
	key = append(key, start...)
	key = append(key, ts...)
	key = append(key, 0)
	key = append(key, obs.ID...)
	return key
}

func jobRange(jobID monitor.JobID) (start, end []byte) {
	start = append(append(append([]byte{}, keyPrefix...), string(jobID)...), 0)
	end = append(append(append([]byte{}, keyPrefix...), string(jobID)...), 1)
	return start, end
}

func prefixRange() (start, end []byte) {
	start = append([]byte{}, keyPrefix...)
	end = append([]byte{}, keyPrefix...)
	end[len(end)-1]++
	return start, end
}

// dbmKV stores observations in a cosmos-db database.
type dbmKV struct {
	db dbm.DB
}

func openLevelDB(dir string) (kv, error) {
	db, err := dbm.NewDB(levelDBName, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return &dbmKV{db: db}, nil
}

func (k *dbmKV) put(key, value []byte) error {
	return k.db.SetSync(key, value)
}

func (k *dbmKV) deleteKeys(keys [][]byte) error {
	batch := k.db.NewBatch()
	defer batch.Close()

	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return err
		}
	}
	return batch.WriteSync()
}

func (k *dbmKV) scan(start, end []byte, reverse bool, fn func(key, value []byte) bool) error {
	var (
		it  dbm.Iterator
		err error
	)
	if reverse {
		it, err = k.db.ReverseIterator(start, end)
	} else {
		it, err = k.db.Iterator(start, end)
	}
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Error()
}

func (k *dbmKV) close() error {
	return k.db.Close()
}

// boltKV stores observations in a single bbolt bucket.
type boltKV struct {
	db *bolt.DB
}

func openBolt(dir string) (kv, error) {
	db, err := bolt.Open(filepath.Join(dir, boltFileName), 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketObservation); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketObservation, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &boltKV{db: db}, nil
}

func (k *boltKV) put(key, value []byte) error {
	return k.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketObservation).Put(key, value)
	})
}

func (k *boltKV) deleteKeys(keys [][]byte) error {
	return k.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketObservation)
		for _, key := range keys {
			if err := b.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (k *boltKV) scan(start, end []byte, reverse bool, fn func(key, value []byte) bool) error {
	return k.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketObservation).Cursor()

		if !reverse {
			for key, value := c.Seek(start); key != nil && bytes.Compare(key, end) < 0; key, value = c.Next() {
				if !fn(key, value) {
					return nil
				}
			}
			return nil
		}

		key, value := c.Seek(end)
		if key == nil {
			key, value = c.Last()
		} else {
			key, value = c.Prev()
		}
		for ; key != nil && bytes.Compare(key, start) >= 0; key, value = c.Prev() {
			if !fn(key, value) {
				return nil
			}
		}
		return nil
	})
}

func (k *boltKV) close() error {
	return k.db.Close()
}
