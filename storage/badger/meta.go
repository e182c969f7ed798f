// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memorag/storage"
)

// MetaRepository implements storage.MetaRepository for BadgerDB.
type MetaRepository struct {
	backend *Backend
}

var _ storage.MetaRepository = (*MetaRepository)(nil)

// NewMetaRepository creates a new MetaRepository.
func NewMetaRepository(backend *Backend) *MetaRepository {
	return &MetaRepository{
		backend: backend,
	}
}

// PutMeta sets key to value. Keys are case-insensitive.
func (r *MetaRepository) PutMeta(ctx context.Context, key, value string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeMetaKey(key), []byte(value)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetMeta returns the value stored for key.
// Returns storage.ErrNotFound if the key was never set.
func (r *MetaRepository) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMetaKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		val, err := item.ValueCopy(nil)
		value = string(val)
		return err
	}, false)
	return value, err
}
