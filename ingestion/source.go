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


package ingestion

import (
	"context"

	"github.com/poiesic/diarium/core"
)

// Source produces journal entries for import.
type Source interface {
	// Name identifies the source in logs and reports.
	Name() string

	// Entries reads every entry the source holds.
	Entries(ctx context.Context) ([]*core.Entry, error)
}

// SliceSource serves entries held in memory.
type SliceSource struct {
	name    string
	entries []*core.Entry
}

var _ Source = (*SliceSource)(nil)

// NewSliceSource creates a source over entries.
func NewSliceSource(name string, entries ...*core.Entry) *SliceSource {
	return &SliceSource{name: name, entries: entries}
}

// Name returns the source name.
func (s *SliceSource) Name() string {
	return s.name
}

// Entries returns the wrapped entries.
func (s *SliceSource) Entries(ctx context.Context) ([]*core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.entries, nil
}
