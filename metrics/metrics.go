// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes ledger meters. Meters discard observations until
// InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
	"time"
)

// BucketMillis are histogram buckets for ledger call durations in milliseconds.
var BucketMillis = []int64{0, 1, 2, 5, 10, 20, 50, 100, 250, 500, 1000}

// CountMeter only goes up.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a CountMeter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter holds a value that may go up and down, e.g. pending withdrawals.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// HistogramVecMeter buckets observations, partitioned by labels.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// registry creates meters by name. Asking twice for the same name yields the same meter.
type registry interface {
	counter(name string) CountMeter
	counterVec(name string, labels []string) CountVecMeter
	gauge(name string) GaugeMeter
	histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	handler() http.Handler
}

var (
	mu     sync.RWMutex
	active registry = discard{}
)

func current() registry {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

func use(r registry) {
	mu.Lock()
	active = r
	mu.Unlock()
}

// HTTPHandler returns the handler exposing the meters, or nil if metrics are disabled.
func HTTPHandler() http.Handler { return current().handler() }

func Counter(name string) CountMeter { return current().counter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return current().counterVec(name, labels)
}

func Gauge(name string) GaugeMeter { return current().gauge(name) }

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return current().histogramVec(name, labels, buckets)
}

// ObserveSince records the milliseconds elapsed since start.
func ObserveSince(h HistogramVecMeter, start time.Time, labels map[string]string) {
	h.ObserveWithLabels(time.Since(start).Milliseconds(), labels)
}

// lazy defers creating a meter until first use, so package level meters
// pick up the registry installed at startup.
func lazy[T any](create func() T) func() T {
	return sync.OnceValue(create)
}

func LazyLoadCounter(name string) func() CountMeter {
	return lazy(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return lazy(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return lazy(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return lazy(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
