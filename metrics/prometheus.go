// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "farming"

// InitializePrometheusMetrics installs the prometheus registry. Meters created
// afterwards are exported under the "farming" namespace. Calling it again is a no-op.
func InitializePrometheusMetrics() {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := active.(*promRegistry); !ok {
		active = &promRegistry{}
	}
}

type promRegistry struct {
	meters sync.Map // name => meter
}

// meter returns the meter registered under name, building it on first use.
// A name reused with a different meter type gets a fresh, unregistered meter.
func meter[T any](r *promRegistry, name string, build func() (prometheus.Collector, T)) T {
	if v, ok := r.meters.Load(name); ok {
		if m, ok := v.(T); ok {
			return m
		}
	}
	collector, m := build()
	if err := prometheus.Register(collector); err != nil {
		log.Warn("metric not registered", "name", name, "err", err)
		return m
	}
	if v, loaded := r.meters.LoadOrStore(name, m); loaded {
		if existing, ok := v.(T); ok {
			return existing
		}
	}
	return m
}

func (r *promRegistry) handler() http.Handler { return promhttp.Handler() }

func (r *promRegistry) counter(name string) CountMeter {
	return meter(r, name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, promCounter{c}
	})
}

func (r *promRegistry) counterVec(name string, labels []string) CountVecMeter {
	return meter(r, name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, promCounterVec{c}
	})
}

func (r *promRegistry) gauge(name string) GaugeMeter {
	return meter(r, name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, promGauge{g}
	})
}

func (r *promRegistry) histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return meter(r, name, func() (prometheus.Collector, HistogramVecMeter) {
		bounds := make([]float64, len(buckets))
		for i, b := range buckets {
			bounds[i] = float64(b)
		}
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   bounds,
		}, labels)
		return h, promHistogramVec{h}
	})
}

type promCounter struct{ prometheus.Counter }

func (c promCounter) Add(i int64) { c.Counter.Add(float64(i)) }

type promCounterVec struct{ vec *prometheus.CounterVec }

func (c promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	c.vec.With(labels).Add(float64(i))
}

type promGauge struct{ prometheus.Gauge }

func (g promGauge) Add(i int64) { g.Gauge.Add(float64(i)) }
func (g promGauge) Set(i int64) { g.Gauge.Set(float64(i)) }

type promHistogramVec struct{ vec *prometheus.HistogramVec }

func (h promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	h.vec.With(labels).Observe(float64(i))
}
