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


package core

import "fmt"

// ValidateEntry validates an Entry according to domain rules.
//
// Validation rules:
//   - Label must not be empty and must be a DD.MM.YYYY date
//   - Date, when set, must fall on the day named by Label
//
// NOT validated:
//   - Text (an empty day is a valid entry; it simply never matches a search)
//   - Future days
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if entry.Label == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyLabel)
	}

	day, err := ParseLabel(entry.Label)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	if !entry.Date.IsZero() && !TruncateToDay(entry.Date).Equal(day) {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrLabelDateMismatch)
	}

	return nil
}
