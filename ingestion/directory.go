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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/poiesic/diarium/core"
	"golang.org/x/sync/errgroup"
)

// DefaultEntryGlob matches the per-day files exported by Diarium.
const DefaultEntryGlob = "**/Diarium_*.txt"

var fileDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\.txt$`)

// DirectorySource reads one entry per text file from a directory tree.
// The entry date is taken from the file name, e.g. Diarium_2020-01-31.txt.
type DirectorySource struct {
	root      string
	glob      string
	readLimit int
}

var _ Source = (*DirectorySource)(nil)

// DirectoryOption configures a DirectorySource.
type DirectoryOption func(*DirectorySource)

// WithGlob sets the doublestar pattern, relative to the root, that selects entry files.
// Default is DefaultEntryGlob.
func WithGlob(pattern string) DirectoryOption {
	return func(s *DirectorySource) {
		if pattern != "" {
			s.glob = pattern
		}
	}
}

// WithReadLimit bounds the number of files read concurrently.
// Default is runtime.NumCPU().
func WithReadLimit(n int) DirectoryOption {
	return func(s *DirectorySource) {
		if n < 1 {
			n = 1
		}
		s.readLimit = n
	}
}

// NewDirectorySource creates a source over the files under root.
func NewDirectorySource(root string, opts ...DirectoryOption) *DirectorySource {
	s := &DirectorySource{
		root:      root,
		glob:      DefaultEntryGlob,
		readLimit: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the root directory.
func (s *DirectorySource) Name() string {
	return s.root
}

// Entries reads every matching file, ordered by path.
func (s *DirectorySource) Entries(ctx context.Context) ([]*core.Entry, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, s.root)
	}

	if !doublestar.ValidatePattern(s.glob) {
		return nil, fmt.Errorf("invalid glob %q: %w", s.glob, doublestar.ErrBadPattern)
	}

	fsys := os.DirFS(s.root)
	matches, err := doublestar.Glob(fsys, s.glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q in %s: %w", s.glob, s.root, err)
	}
	slices.Sort(matches)

	entries := make([]*core.Entry, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.readLimit)

	for i, name := range matches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			date, err := DateFromFilename(name)
			if err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			entries[i] = core.NewEntry(date, strings.ReplaceAll(string(data), "\r\n", "\n"))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DateFromFilename extracts the YYYY-MM-DD date at the end of an entry file name.
func DateFromFilename(name string) (time.Time, error) {
	m := fileDatePattern.FindStringSubmatch(path.Base(name))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}
	date, err := time.Parse(time.DateOnly, m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrInvalidFilename, name, err)
	}
	return date, nil
}
