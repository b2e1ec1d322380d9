// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/api/events"
	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/logdb"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/test/testchain"
)

const defaultLogLimit uint64 = 1000

func initEventServer(t *testing.T, limit uint64) (*testchain.Chain, *httptest.Server) {
	thorChain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(thorChain.Close)

	router := mux.NewRouter()
	events.New(thorChain.LogDB(), limit).Mount(router, "/logs/event")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return thorChain, ts
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func filterEvents(t *testing.T, ts *httptest.Server, filter *events.EventFilter) []*events.FilteredEvent {
	body, status := httpPost(t, ts.URL+"/logs/event", filter)
	require.Equal(t, http.StatusOK, status, string(body))
	var fes []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &fes))
	return fes
}

func TestEmptyEvents(t *testing.T) {
	_, ts := initEventServer(t, defaultLogLimit)

	fes := filterEvents(t, ts, &events.EventFilter{})
	assert.Empty(t, fes)
}

func TestDelegatedEvent(t *testing.T) {
	thorChain, ts := initEventServer(t, defaultLogLimit)
	accs := genesis.DevAccounts()
	pool := accs[genesis.DevCandidates].Address

	staking := testchain.NewContract(thorChain, accs[9], builtin.Staking.Address, builtin.Staking.ABI)
	receipt, err := staking.MintTransaction("delegate", uint256.NewInt(1e18), pool)
	require.NoError(t, err)
	require.False(t, receipt.Reverted)
	best, err := thorChain.BestBlock()
	require.NoError(t, err)

	addr := builtin.Staking.Address
	fes := filterEvents(t, ts, &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Address: &addr, Event: "Delegated"}},
		Options:     &events.Options{Decode: true},
	})
	require.Len(t, fes, 1)
	fe := fes[0]
	assert.Equal(t, addr, fe.Address)
	assert.Len(t, fe.Topics, 3)
	assert.Equal(t, best.Header().ID(), fe.Meta.BlockID)
	assert.Equal(t, uint32(best.Header().Number()), fe.Meta.BlockNumber)
	assert.Equal(t, accs[9].Address, fe.Meta.TxOrigin)

	require.NotNil(t, fe.Decoded)
	assert.Equal(t, "Delegated", fe.Decoded.Name)
	assert.Equal(t, accs[9].Address, ronin.MustParseAddress(fe.Decoded.Args["delegator"].(string)))
	assert.Equal(t, pool, ronin.MustParseAddress(fe.Decoded.Args["poolId"].(string)))
	assert.Equal(t, float64(1e18), fe.Decoded.Args["amount"])

	// the same criteria by raw topics
	topic0 := *fe.Topics[0]
	fes = filterEvents(t, ts, &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{TopicSet: events.TopicSet{Topic0: &topic0}}},
	})
	require.Len(t, fes, 1)
	assert.Nil(t, fes[0].Decoded)
}

func TestFilterRangeAndOrder(t *testing.T) {
	thorChain, ts := initEventServer(t, defaultLogLimit)
	require.NoError(t, thorChain.MintBlocks(2*testchain.DefaultEpochLength))

	all := filterEvents(t, ts, &events.EventFilter{})
	require.NotEmpty(t, all)

	desc := filterEvents(t, ts, &events.EventFilter{Order: logdb.DESC})
	require.Len(t, desc, len(all))
	assert.Equal(t, all[0].Meta, desc[len(desc)-1].Meta)

	from, to := uint64(testchain.DefaultEpochLength), uint64(2*testchain.DefaultEpochLength-1)
	ranged := filterEvents(t, ts, &events.EventFilter{Range: &events.Range{From: &from, To: &to}})
	require.NotEmpty(t, ranged)
	for _, fe := range ranged {
		assert.GreaterOrEqual(t, uint64(fe.Meta.BlockNumber), from)
		assert.LessOrEqual(t, uint64(fe.Meta.BlockNumber), to)
	}
	assert.Less(t, len(ranged), len(all))

	limit := uint64(2)
	paged := filterEvents(t, ts, &events.EventFilter{Options: &events.Options{Offset: 1, Limit: &limit}})
	require.Len(t, paged, 2)
	assert.Equal(t, all[1].Meta, paged[0].Meta)
}

func TestFilterErrors(t *testing.T) {
	thorChain, ts := initEventServer(t, 1)
	require.NoError(t, thorChain.MintBlocks(testchain.DefaultEpochLength))

	// more events than the limit
	_, status := httpPost(t, ts.URL+"/logs/event", &events.EventFilter{})
	assert.Equal(t, http.StatusForbidden, status)

	limit := uint64(2)
	_, status = httpPost(t, ts.URL+"/logs/event", &events.EventFilter{Options: &events.Options{Limit: &limit}})
	assert.Equal(t, http.StatusBadRequest, status)

	from, to := uint64(5), uint64(1)
	_, status = httpPost(t, ts.URL+"/logs/event", &events.EventFilter{Range: &events.Range{From: &from, To: &to}})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpPost(t, ts.URL+"/logs/event", &events.EventFilter{Order: "random"})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpPost(t, ts.URL+"/logs/event", map[string]any{"criteriaSet": []any{nil}})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpPost(t, ts.URL+"/logs/event", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Event: "Delegated"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	addr := builtin.Staking.Address
	_, status = httpPost(t, ts.URL+"/logs/event", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Address: &addr, Event: "NoSuchEvent"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
