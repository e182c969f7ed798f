package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/storage"
)

// AliasRepository implements storage.AliasRepository for BadgerDB.
type AliasRepository struct {
	backend *Backend
}

var _ storage.AliasRepository = (*AliasRepository)(nil)

// NewAliasRepository creates a new AliasRepository.
func NewAliasRepository(backend *Backend) *AliasRepository {
	return &AliasRepository{backend: backend}
}

// AddAliases stores pairs keyed by their case-folded identity. Pairs that
// differ only in case are stored once.
func (r *AliasRepository) AddAliases(ctx context.Context, aliases ...core.Alias) error {
	for _, alias := range aliases {
		if err := core.ValidateAlias(alias); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, alias := range aliases {
			key := makeAliasKey(alias)
			_, err := tx.Get(key)
			if err == nil {
				continue
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := tx.Set(key, storage.MarshalAlias(alias)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ListAliases returns every stored pair ordered by key.
func (r *AliasRepository) ListAliases(ctx context.Context) ([]core.Alias, error) {
	var aliases []core.Alias
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(aliasPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				alias, err := storage.UnmarshalAlias(val)
				if err != nil {
					return err
				}
				aliases = append(aliases, alias)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return aliases, err
}
