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


// Package stats computes word statistics over a journal.
//
// Words are maximal runs of Unicode letters, digits and underscores, lower-cased.
// A Table holds the counts for a whole journal and answers totals, unique counts,
// per-word occurrences and the most frequent words. The helpers in entries.go pick
// entries out of a corpus by length or at random.
package stats
