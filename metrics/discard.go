// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// discard is the registry used while metrics are disabled.
type discard struct{}

func (discard) counter(string) CountMeter                 { return discardMeter{} }
func (discard) counterVec(string, []string) CountVecMeter { return discardMeter{} }
func (discard) gauge(string) GaugeMeter                   { return discardMeter{} }
func (discard) handler() http.Handler                     { return nil }

func (discard) histogramVec(string, []string, []int64) HistogramVecMeter {
	return discardMeter{}
}

type discardMeter struct{}

func (discardMeter) Add(int64)                                  {}
func (discardMeter) Set(int64)                                  {}
func (discardMeter) AddWithLabel(int64, map[string]string)      {}
func (discardMeter) ObserveWithLabels(int64, map[string]string) {}
