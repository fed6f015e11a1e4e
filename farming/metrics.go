// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"time"

	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/metrics"
)

var (
	metricCalls        = metrics.LazyLoadCounterVec("calls_total", []string{"op", "result"})
	metricCallDuration = metrics.LazyLoadHistogramVec("call_duration_ms", []string{"op"}, metrics.BucketMillis)
	metricSagaOutcomes = metrics.LazyLoadCounterVec("saga_outcomes_total", []string{"op", "outcome"})
	metricSagaPending  = metrics.LazyLoadGauge("saga_pending")
)

func observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case reverts.IsRevertErr(err):
		result = "revert"
	default:
		result = "error"
		logger.Error("ledger call failed", "op", op, "err", err)
	}
	metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": result})
	metrics.ObserveSince(metricCallDuration(), start, map[string]string{"op": op})
}
