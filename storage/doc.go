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


// Package storage provides the storage abstraction layer for diarium.
//
// This package defines repository interfaces that decouple the journal from the
// concrete key-value store. The BadgerDB implementation lives in storage/badger.
//
// # Architecture
//
//   - EntryRepository: journal entries keyed by their DD.MM.YYYY label, with a
//     date index for ordered listing and range queries
//   - FrequencyRepository: the cached word-frequency table rebuilt after imports
//
// Records are encoded with mus-go (see serialization.go).
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	entries := badger.NewEntryRepository(backend)
//	frequencies := badger.NewFrequencyRepository(backend)
//
// Use in tests with in-memory storage:
//
//	entries, frequencies, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context. Long scans check it
// between records and stop with ctx.Err().
package storage
