// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"

	"github.com/ronin-chain/dpos-contract/api/accounts"
	"github.com/ronin-chain/dpos-contract/metrics"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/test/testchain"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func gather(t *testing.T, name string) []*dto.Metric {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()
		}
	}
	return nil
}

func labelsOf(m *dto.Metric) map[string]string {
	labels := make(map[string]string)
	for _, l := range m.GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	return labels
}

func TestMetricsMiddleware(t *testing.T) {
	thorChain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer thorChain.Close()

	router := mux.NewRouter()
	accounts.New(thorChain.Repo(), thorChain.Stater(), math.MaxUint64).Mount(router, "/accounts")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	httpGet(t, ts.URL+"/accounts/0x")
	httpGet(t, ts.URL+"/accounts/"+ronin.Address{}.String())
	httpGet(t, ts.URL+"/accounts/"+ronin.Address{}.String())

	_, code := httpGet(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)

	m := gather(t, "ronin_dpos_api_request_count")
	require.Len(t, m, 2, "unnamed routes are not recorded")

	counts := make(map[string]float64)
	for _, metric := range m {
		labels := labelsOf(metric)
		assert.Equal(t, "accounts_get_account", labels["name"])
		assert.Equal(t, http.MethodGet, labels["method"])
		counts[labels["code"]] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"200": 2, "400": 1}, counts)
	assert.Len(t, gather(t, "ronin_dpos_api_duration_ms"), 2)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	return r, res.StatusCode
}
