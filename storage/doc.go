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


// Package storage provides the storage abstraction layer for memorag.
//
// Two kinds of state are kept:
//
//   - FactIndex: the embedded ESG fact corpus, searched by vector
//     similarity (storage/chromem).
//   - HistoryRepository, AliasRepository, MetaRepository: the query log,
//     ticker/legal-name pairs learned at ingestion, and small settings such
//     as the index dimension (storage/badger, encoded with mus-go).
//
// # Constructors
//
// Backends return concrete types; consumers depend only on the interfaces
// declared here:
//
//	backend, err := badger.OpenBackend(dir, false)
//	history, err := badger.NewHistoryRepository(backend, 1000)
//	index, err := chromem.Open(chromem.Config{Path: dir, Collection: "esg_facts"})
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
package storage
