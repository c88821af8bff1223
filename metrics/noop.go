// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noop discards every observation. It backs all meters until prometheus is
// initialized, so meters can be used unconditionally.
type noop struct{}

func defaultNoopMetrics() Metrics { return noop{} }

// noopMeter satisfies every meter interface.
type noopMeter struct{}

var discard = &noopMeter{}

func (noop) GetOrCreateCountMeter(string) CountMeter                 { return discard }
func (noop) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return discard }
func (noop) GetOrCreateGaugeMeter(string) GaugeMeter                 { return discard }
func (noop) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter { return discard }
func (noop) GetOrCreateHandler() http.Handler                        { return http.NotFoundHandler() }
func (noop) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return discard
}

func (*noopMeter) Add(int64)                                  {}
func (*noopMeter) Set(int64)                                  {}
func (*noopMeter) AddWithLabel(int64, map[string]string)      {}
func (*noopMeter) SetWithLabel(int64, map[string]string)      {}
func (*noopMeter) ObserveWithLabels(int64, map[string]string) {}
