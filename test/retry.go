// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package test holds helpers shared by tests.
package test

import (
	"time"

	"github.com/pkg/errors"
)

// Retry polls fn until it returns nil. It gives up once maxWait has passed,
// wrapping the last error fn returned.
func Retry(fn func() error, period, maxWait time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	timeout := time.After(maxWait)

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		select {
		case <-timeout:
			return errors.Wrapf(err, "gave up after %d attempts", attempt)
		case <-ticker.C:
		}
	}
}
