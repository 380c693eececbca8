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


// Package search finds a word across a journal corpus and highlights every match.
//
// The Finder type implements a per-entry scan:
//   - Each entry's text is split into sentences (SegmentSentences)
//   - Sentences containing a matching token are kept (IsSameWord)
//   - Kept sentences are rendered with matches wrapped in markers (Highlighter)
//
// Entries are scanned concurrently on a worker pool, but output always follows
// corpus order. Each task returns its own match count, so a search shares no
// mutable counters between tasks or between calls.
//
// Two matching modes are supported. Exact mode compares tokens case-insensitively.
// Fuzzy mode accepts a token when one word is a substring of the other and the
// shorter word is strictly more than half as long as the longer one. The length
// gate is intentionally strict: "run" matches "runs" but not "running".
package search
