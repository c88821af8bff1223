// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// The tests share the package level singleton, run them in order.

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("noop").Add(1)
	CounterVec("noopVec", []string{"op"}).AddWithLabel(1, map[string]string{"thisIsNonsense": "butDoesntBreak"})
	Gauge("noopGauge").Set(3)
	GaugeVec("noopGaugeVec", nil).SetWithLabel(1, nil)
	HistogramVec("noopHist", nil, nil).ObserveWithLabels(1, nil)

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeter{}, a)
	}

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPromMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	lazyCounter := LazyLoadCounter("lazy_ops")
	lazyGaugeVec := LazyLoadGaugeVec("lazy_gauge_vec", []string{"token"})

	InitializePrometheusMetrics()
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())

	ops := CounterVec("ops_count", []string{"op", "outcome"})
	for range 3 {
		ops.AddWithLabel(1, map[string]string{"op": "bond", "outcome": "ok"})
	}
	ops.AddWithLabel(1, map[string]string{"op": "unbond", "outcome": "revert"})

	height := LazyLoadGauge("last_distributed")
	height().Set(12_345)
	height().Add(10)
	lazyCounter().Add(2)

	hist := HistogramVec("http_duration_ms", []string{"method"}, BucketHTTPReqs)
	hist.ObserveWithLabels(5, map[string]string{"method": "GET"})
	hist.ObserveWithLabels(7, map[string]string{"method": "GET"})

	// same name returns the same meter
	require.Same(t, ops, CounterVec("ops_count", []string{"op", "outcome"}))

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Len(t, byName["distributor_ops_count"].Metric, 2)
	require.Equal(t, float64(12_355), byName["distributor_last_distributed"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(2), byName["distributor_lazy_ops"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(12), byName["distributor_http_duration_ms"].Metric[0].GetHistogram().GetSampleSum())

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `distributor_ops_count{op="bond",outcome="ok"} 3`))
}
