package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/diarium/storage"
)

// FrequencyRepository implements storage.FrequencyRepository for BadgerDB.
// Each word is stored under its own key; a meta key records when the table was built.
type FrequencyRepository struct {
	backend *Backend
}

var _ storage.FrequencyRepository = (*FrequencyRepository)(nil)

// NewFrequencyRepository creates a new FrequencyRepository.
func NewFrequencyRepository(backend *Backend) *FrequencyRepository {
	return &FrequencyRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *FrequencyRepository) Close() error {
	return nil
}

// SaveFrequencies replaces the stored table with counts.
// Words with a non-positive count are skipped.
func (r *FrequencyRepository) SaveFrequencies(ctx context.Context, counts map[string]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	kvs := make(map[string][]byte, len(counts))
	for word, count := range counts {
		if word == "" || count <= 0 {
			continue
		}
		kvs[string(makeFrequencyKey(word))] = storage.MarshalCount(count)
	}

	if err := r.backend.ReplacePrefix(ctx, []byte(frequencyPrefix), kvs); err != nil {
		return err
	}

	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		return tx.Set([]byte(frequencyMeta), storage.MarshalTime(time.Now().UTC()))
	})
}

// LoadFrequencies returns the stored table.
func (r *FrequencyRepository) LoadFrequencies(ctx context.Context) (map[string]int, error) {
	if _, err := r.BuiltAt(ctx); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	err := r.backend.ScanPrefix(ctx, []byte(frequencyPrefix), func(key, val []byte) error {
		count, err := storage.UnmarshalCount(val)
		if err != nil {
			return err
		}
		counts[string(key[len(frequencyPrefix):])] = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// GetFrequency returns the stored count of a single word, or 0 if absent.
func (r *FrequencyRepository) GetFrequency(ctx context.Context, word string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeFrequencyKey(word))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			count, err = storage.UnmarshalCount(val)
			return err
		})
	}, false)
	return count, err
}

// BuiltAt returns when the stored table was last saved.
func (r *FrequencyRepository) BuiltAt(ctx context.Context) (time.Time, error) {
	var builtAt time.Time
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(frequencyMeta))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: word frequency table", storage.ErrNotFound)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			builtAt, err = storage.UnmarshalTime(val)
			return err
		})
	}, false)
	return builtAt, err
}
