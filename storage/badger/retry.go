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
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	conflictAttempts  = 5
	conflictBaseDelay = 5 * time.Millisecond
)

// Update runs fn in a read-write transaction and commits it. A commit that
// fails with badger.ErrConflict is retried with exponential backoff, so fn
// must not keep state between attempts.
func (b *Backend) Update(ctx context.Context, fn func(tx *badger.Txn) error) error {
	return retryOnConflict(ctx, b, func() error {
		return b.WithTx(func(tx *badger.Txn) error {
			if err := fn(tx); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
	}, conflictAttempts, conflictBaseDelay)
}

// retryOnConflict retries operation while it fails with badger.ErrConflict.
// Any other error is returned immediately. The delay doubles after each attempt.
func retryOnConflict(ctx context.Context, b *Backend, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if !errors.Is(lastErr, badger.ErrConflict) {
			if lastErr == nil && attempt > 1 {
				b.logger.Debug("transaction committed after retry", "attempt", attempt)
			}
			return lastErr
		}

		b.logger.Debug("transaction conflict, will retry", "attempt", attempt, "maxAttempts", maxAttempts)
		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
