// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holiman/uint256"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/distributor/contract"
	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/lvldb"
	"github.com/vechain/distributor/metrics"
	"github.com/vechain/distributor/store"
	"github.com/vechain/distributor/transferdb"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

const genesisID = "0x00000000000000000000000000000000000000000000000000000000000000aa"

func newExecutor(t *testing.T, instantiate bool) *contract.Executor {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := store.New(db, 16)
	require.NoError(t, err)
	journal, err := transferdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	exec := contract.New(st, journal)
	if instantiate {
		_, err = exec.Instantiate(contract.Env{Height: 100}, contract.Info{Sender: dist.BytesToAddress([]byte("owner"))}, &contract.InstantiateMsg{
			RewardToken:  dist.BytesToAddress([]byte("reward")),
			StakingToken: dist.BytesToAddress([]byte("staking")),
			DistributionSchedule: []contract.ScheduleTuple{
				{Start: 100, End: 200, Amount: uint256.NewInt(1_000_000)},
			},
		}, [32]byte{0xaa})
		require.NoError(t, err)
	}
	return exec
}

func TestMetricsMiddleware(t *testing.T) {
	ts := httptest.NewServer(New(newExecutor(t, true), genesisID, Options{
		AllowedOrigins: "*",
		TransfersLimit: 10,
		EnableMetrics:  true,
	}))
	t.Cleanup(ts.Close)

	_, code := httpGet(t, ts.URL+"/config")
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/stakers/0x")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/stakers/"+dist.Address{}.String())
	assert.Equal(t, http.StatusOK, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["distributor_api_request_count"].GetMetric()
	require.Len(t, m, 3, "should be 3 metric entries")

	byLabels := make(map[string]float64)
	for _, metric := range m {
		labels := make(map[string]string)
		for _, l := range metric.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, "GET", labels["method"])
		byLabels[labels["name"]+"/"+labels["code"]] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"config/200":          1,
		"stakers_address/400": 1,
		"stakers_address/200": 1,
	}, byLabels)
}

func TestGenesisHeader(t *testing.T) {
	ts := httptest.NewServer(New(newExecutor(t, true), genesisID, Options{AllowedOrigins: "*"}))
	t.Cleanup(ts.Close)

	res, err := http.Get(ts.URL + "/state") //#nosec G107
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, genesisID, res.Header.Get("x-genesis-id"))

	// metrics are off
	_, code := httpGet(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNotInitialized(t *testing.T) {
	ts := httptest.NewServer(New(newExecutor(t, false), genesisID, Options{}))
	t.Cleanup(ts.Close)

	body, code := httpGet(t, ts.URL+"/state")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "distributor not initialized\n", string(body))
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "stakers_address", routeLabel("GET /stakers/{address}"))
	assert.Equal(t, "transfers", routeLabel("POST /transfers"))
	assert.Equal(t, "", routeLabel(""))
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}
