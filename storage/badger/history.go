package badger

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/storage"
)

// DefaultHistoryCapacity is the number of records kept before the oldest
// are discarded.
const DefaultHistoryCapacity = 1000

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend  *Backend
	idSeq    *badger.Sequence
	capacity int
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a history log holding at most capacity
// records. A capacity <= 0 selects DefaultHistoryCapacity.
func NewHistoryRepository(backend *Backend, capacity int) (*HistoryRepository, error) {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	idSeq, err := backend.GetSequence(historyIDSeq)
	if err != nil {
		return nil, err
	}
	return &HistoryRepository{
		backend:  backend,
		idSeq:    idSeq,
		capacity: capacity,
	}, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// AppendInteraction stores record and trims the log to capacity in the same
// transaction.
func (r *HistoryRepository) AppendInteraction(ctx context.Context, record *core.InteractionRecord) (*core.InteractionRecord, error) {
	if record != nil && record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if err := core.ValidateInteractionRecord(record); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if record.Id == 0 {
			id, err := r.nextID()
			if err != nil {
				return err
			}
			record.Id = id
		}

		key := makeHistoryKey(record.Timestamp, record.Id)
		if err := tx.Set(key, storage.MarshalInteractionRecord(record)); err != nil {
			return err
		}
		if err := r.trim(tx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, fmt.Errorf("append interaction: %w", err)
	}
	return record, nil
}

func (r *HistoryRepository) nextID() (core.ID, error) {
	next, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		if next, err = r.idSeq.Next(); err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}

// trim deletes the oldest keys beyond capacity. Pending writes in tx are
// visible to its iterators.
func (r *HistoryRepository) trim(tx *badger.Txn) error {
	keys := historyKeys(tx)
	excess := len(keys) - r.capacity
	for i := 0; i < excess; i++ {
		if err := tx.Delete(keys[i]); err != nil {
			return err
		}
	}
	return nil
}

// historyKeys returns every history key in chronological order.
func historyKeys(tx *badger.Txn) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(historyPrefix)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys
}

// RecentInteractions returns up to limit of the newest records, oldest first.
func (r *HistoryRepository) RecentInteractions(ctx context.Context, limit int) ([]*core.InteractionRecord, error) {
	var results []*core.InteractionRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(historyPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(historyEndKey()); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			record, err := readInteraction(iter.Item())
			if err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.Reverse(results)
	return results, nil
}

// InteractionsSince returns records with Timestamp >= since, oldest first.
func (r *HistoryRepository) InteractionsSince(ctx context.Context, since time.Time) ([]*core.InteractionRecord, error) {
	var results []*core.InteractionRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(historyPrefix)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(makePartialHistoryKey(since)); iter.Valid(); iter.Next() {
			if !bytes.HasPrefix(iter.Item().Key(), prefix) {
				break
			}
			record, err := readInteraction(iter.Item())
			if err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	return results, err
}

// CountInteractions returns the number of stored records.
func (r *HistoryRepository) CountInteractions(ctx context.Context) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		count = len(historyKeys(tx))
		return nil
	}, false)
	return count, err
}

// ClearInteractions removes every stored record. IDs keep increasing.
func (r *HistoryRepository) ClearInteractions(ctx context.Context) error {
	if err := r.backend.dropPrefix(historyPrefix); err != nil {
		return fmt.Errorf("clear interactions: %w", err)
	}
	r.backend.logger.Debug("history cleared")
	return nil
}

func readInteraction(item *badger.Item) (*core.InteractionRecord, error) {
	var record *core.InteractionRecord
	err := item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalInteractionRecord(val)
		return err
	})
	return record, err
}
