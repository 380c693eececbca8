package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/diarium/core"
	"github.com/poiesic/diarium/storage"
)

// putBatchSize bounds the number of entries written per transaction so large
// imports stay below Badger's transaction size limit.
const putBatchSize = 256

// EntryRepository implements storage.EntryRepository for BadgerDB.
type EntryRepository struct {
	backend *Backend
}

var _ storage.EntryRepository = (*EntryRepository)(nil)

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(backend *Backend) *EntryRepository {
	return &EntryRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *EntryRepository) Close() error {
	return nil
}

// PutEntries stores entries keyed by label.
// Entries without a Date get the day named by their label.
func (r *EntryRepository) PutEntries(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error) {
	for _, entry := range entries {
		if err := core.ValidateEntry(entry); err != nil {
			return nil, err
		}
		day, _ := core.ParseLabel(entry.Label)
		entry.Date = day
	}

	var changed []*core.Entry
	for start := 0; start < len(entries); start += putBatchSize {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		end := min(start+putBatchSize, len(entries))

		var batchChanged []*core.Entry
		err := r.backend.Update(ctx, func(tx *badger.Txn) error {
			batchChanged = batchChanged[:0]
			for _, entry := range entries[start:end] {
				key := makeEntryKey(entry.Label)

				old, err := r.readEntry(tx, key)
				if err != nil {
					return err
				}
				if old != nil && old.Fingerprint() == entry.Fingerprint() {
					continue
				}

				if old != nil && !old.Date.Equal(entry.Date) {
					if err := tx.Delete(makeEntryDateKey(old.Date, old.Label)); err != nil {
						return err
					}
				}

				if err := tx.Set(key, storage.MarshalEntry(entry)); err != nil {
					return err
				}
				if err := tx.Set(makeEntryDateKey(entry.Date, entry.Label), nil); err != nil {
					return err
				}
				batchChanged = append(batchChanged, entry)
			}
			return nil
		})
		if err != nil {
			return changed, err
		}
		changed = append(changed, batchChanged...)
	}

	return changed, nil
}

// DeleteEntries removes entries by label.
func (r *EntryRepository) DeleteEntries(ctx context.Context, labels ...string) error {
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		for _, label := range labels {
			key := makeEntryKey(label)

			entry, err := r.readEntry(tx, key)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("%w: entry %s", storage.ErrNotFound, label)
			}

			if err := tx.Delete(makeEntryDateKey(entry.Date, entry.Label)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetEntry retrieves a single entry by label.
func (r *EntryRepository) GetEntry(ctx context.Context, label string) (*core.Entry, error) {
	var result *core.Entry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readEntry(tx, makeEntryKey(label))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: entry %s", storage.ErrNotFound, label)
		}
		return nil
	}, false)
	return result, err
}

// GetEntries retrieves all entries ordered by date, oldest first.
func (r *EntryRepository) GetEntries(ctx context.Context) ([]*core.Entry, error) {
	var results []*core.Entry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryDatePrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			entry, err := r.entryFromDateKey(ctx, tx, iter.Item().Key())
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetEntriesByDateRange retrieves entries where start <= Date < end.
func (r *EntryRepository) GetEntriesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Entry, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", storage.ErrInvalidQuery, end, start)
	}

	var results []*core.Entry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialEntryDateKey(start)
		endKey := makePartialEntryDateKey(end)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryDatePrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if bytes.Compare(key, endKey) >= 0 {
				break
			}
			entry, err := r.entryFromDateKey(ctx, tx, key)
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)
	return results, err
}

// CountEntries returns the number of stored entries.
func (r *EntryRepository) CountEntries(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// entryFromDateKey resolves a date index key to its entry.
func (r *EntryRepository) entryFromDateKey(ctx context.Context, tx *badger.Txn, dateKey []byte) (*core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	label := dateKey[len(entryDatePrefix)+8:]
	return r.readEntry(tx, makeEntryKey(string(label)))
}

// readEntry reads an entry by key. Returns nil, nil if the key doesn't exist.
func (r *EntryRepository) readEntry(tx *badger.Txn, key []byte) (*core.Entry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.Entry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalEntry(val)
		return err
	})
	return entry, err
}
