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
	"database/sql"
	"errors"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/poiesic/diarium/core"

	_ "modernc.org/sqlite"
)

const (
	selectEntriesQuery = "SELECT Text, DiaryEntryId FROM Entries"
	countEntriesQuery  = "SELECT COUNT(*) FROM Entries"
)

// SQLiteSource reads entries from a diary application's SQLite database.
//
// Each row of the Entries table is one day. DiaryEntryId holds the day as .NET
// ticks and Text holds the entry as HTML paragraphs.
type SQLiteSource struct {
	path string
}

var _ Source = (*SQLiteSource)(nil)

// NewSQLiteSource creates a source for the database at path.
func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

// Name returns the database path.
func (s *SQLiteSource) Name() string {
	return s.path
}

// Entries reads every row of the Entries table.
// When two rows fall on the same day the later row wins.
func (s *SQLiteSource) Entries(ctx context.Context) ([]*core.Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectEntriesQuery)
	if err != nil {
		return nil, fmt.Errorf("query entries from %s: %w", s.path, err)
	}
	defer rows.Close()

	var entries []*core.Entry
	for rows.Next() {
		var (
			text  sql.NullString
			ticks int64
		)
		if err := rows.Scan(&text, &ticks); err != nil {
			return nil, fmt.Errorf("scan entry from %s: %w", s.path, err)
		}
		entries = append(entries, core.NewEntry(core.DateFromTicks(ticks), CleanDiaryText(text.String)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries from %s: %w", s.path, err)
	}

	return entries, nil
}

// Count returns the number of rows in the Entries table.
func (s *SQLiteSource) Count(ctx context.Context) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx, countEntriesQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries in %s: %w", s.path, err)
	}
	return count, nil
}

// open opens the database. sql.Open would silently create a missing file,
// so existence is checked first.
func (s *SQLiteSource) open() (*sql.DB, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, s.path)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	return db, nil
}

// CleanDiaryText converts a stored entry body to plain text: HTML entities are
// decoded, opening paragraph tags dropped and closing ones turned into newlines.
func CleanDiaryText(raw string) string {
	text := html.UnescapeString(raw)
	text = strings.ReplaceAll(text, "<p>", "")
	return strings.ReplaceAll(text, "</p>", "\n")
}
