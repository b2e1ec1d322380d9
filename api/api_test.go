// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/test/testchain"
)

func TestRouter(t *testing.T) {
	thorChain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer thorChain.Close()
	require.NoError(t, thorChain.MintBlocks(testchain.DefaultEpochLength))

	ts := httptest.NewServer(New(thorChain.Repo(), thorChain.Stater(), thorChain.Simulator(), thorChain.LogDB(), Options{
		AllowedOrigins: "*",
		CallGasLimit:   10_000_000,
		LogsLimit:      1000,
	}))
	defer ts.Close()

	for _, path := range []string{"/blocks/best", "/validators", "/accounts/" + thorChain.GenesisBlock().Header().Coinbase().String()} {
		_, code := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, code, path)
	}

	res, err := http.Post(ts.URL+"/logs/event", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "empty body")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/blocks/best", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

	_, code := httpGet(t, ts.URL+"/debug/pprof/")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSkipLogs(t *testing.T) {
	thorChain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer thorChain.Close()

	ts := httptest.NewServer(New(thorChain.Repo(), thorChain.Stater(), nil, nil, Options{SkipLogs: true}))
	defer ts.Close()

	res, err := http.Post(ts.URL+"/logs/event", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
