// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/api/accounts"
	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/genesis"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/test/testchain"
)

const callGasLimit = 10_000_000

func initAccountServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	thorChain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(thorChain.Close)
	require.NoError(t, thorChain.MintBlock())

	router := mux.NewRouter()
	accounts.New(thorChain.Repo(), thorChain.Stater(), callGasLimit).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return thorChain, ts
}

func httpDo(t *testing.T, method, url string, body any) ([]byte, int) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func encode(t *testing.T, a *abi.ABI, method string, args ...any) string {
	m, ok := a.MethodByName(method)
	require.True(t, ok, method)
	data, err := m.EncodeInput(args...)
	require.NoError(t, err)
	return hexutil.Encode(data)
}

func decode(t *testing.T, a *abi.ABI, method string, data string, out any) {
	m, ok := a.MethodByName(method)
	require.True(t, ok, method)
	require.NoError(t, m.DecodeOutput(hexutil.MustDecode(data), out))
}

func TestGetAccount(t *testing.T) {
	_, ts := initAccountServer(t)
	delegator := genesis.DevAccounts()[9].Address

	body, status := httpDo(t, http.MethodGet, ts.URL+"/accounts/"+delegator.String(), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var acc accounts.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	expected, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	assert.Equal(t, expected, (*big.Int)(&acc.Balance))
	assert.False(t, acc.IsContract)

	body, status = httpDo(t, http.MethodGet, ts.URL+"/accounts/"+builtin.Staking.Address.String(), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	acc = accounts.Account{}
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.True(t, acc.IsContract)
	assert.Equal(t, builtin.Staking.Name(), acc.Contract)

	body, status = httpDo(t, http.MethodGet, ts.URL+"/accounts/"+builtin.Staking.Address.String()+"/storage/"+ronin.Bytes32{}.String(), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"value"`)
}

func TestCallContract(t *testing.T) {
	_, ts := initAccountServer(t)

	body, status := httpDo(t, http.MethodPost, ts.URL+"/accounts/"+builtin.ValidatorSet.Address.String(), &accounts.CallData{
		Data: encode(t, builtin.ValidatorSet.ABI, "getValidatorCandidates"),
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var res accounts.CallResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.False(t, res.Reverted)

	var candidates []common.Address
	decode(t, builtin.ValidatorSet.ABI, "getValidatorCandidates", res.Data, &candidates)
	assert.Len(t, candidates, genesis.DevCandidates)
}

func TestBatchCall(t *testing.T) {
	thorChain, ts := initAccountServer(t)
	accs := genesis.DevAccounts()
	delegator := accs[9].Address
	pool := accs[genesis.DevCandidates].Address
	value := math.HexOrDecimal256(*big.NewInt(1e18))

	body, status := httpDo(t, http.MethodPost, ts.URL+"/accounts/*", &accounts.BatchCallData{
		Clauses: accounts.Clauses{
			{To: builtin.Staking.Address, Value: &value, Data: encode(t, builtin.Staking.ABI, "delegate", pool)},
			{To: builtin.Staking.Address, Data: encode(t, builtin.Staking.ABI, "getStakingAmount", pool, delegator)},
		},
		Caller: &delegator,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var results accounts.BatchCallResults
	require.NoError(t, json.Unmarshal(body, &results))
	require.Len(t, results, 2)
	assert.False(t, results[0].Reverted)
	assert.NotEmpty(t, results[0].Events)

	// the second clause sees the delegation
	var amount *big.Int
	decode(t, builtin.Staking.ABI, "getStakingAmount", results[1].Data, &amount)
	assert.Equal(t, big.NewInt(1e18), amount)

	// nothing is persisted
	staking := testchain.NewContract(thorChain, accs[9], builtin.Staking.Address, builtin.Staking.ABI)
	require.NoError(t, staking.CallInto("getStakingAmount", &amount, pool, delegator))
	assert.Zero(t, amount.Sign())

	// a zero value delegation stops the batch
	body, status = httpDo(t, http.MethodPost, ts.URL+"/accounts/*", &accounts.BatchCallData{
		Clauses: accounts.Clauses{
			{To: builtin.Staking.Address, Data: encode(t, builtin.Staking.ABI, "delegate", pool)},
			{To: builtin.Staking.Address, Data: encode(t, builtin.Staking.ABI, "getStakingAmount", pool, delegator)},
		},
		Caller: &delegator,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	results = nil
	require.NoError(t, json.Unmarshal(body, &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Reverted)
	assert.NotEmpty(t, results[0].VMError)
}

func TestAccountErrors(t *testing.T) {
	thorChain, ts := initAccountServer(t)
	best, err := thorChain.BestBlock()
	require.NoError(t, err)
	addr := genesis.DevAccounts()[9].Address.String()

	_, status := httpDo(t, http.MethodGet, ts.URL+"/accounts/0xbad", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpDo(t, http.MethodGet, ts.URL+"/accounts/"+addr+"?revision=invalid", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// only the best block's state exists
	_, status = httpDo(t, http.MethodGet, ts.URL+"/accounts/"+addr+"?revision=0", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpDo(t, http.MethodGet, ts.URL+"/accounts/"+addr+"?revision="+best.Header().ID().String(), nil)
	assert.Equal(t, http.StatusOK, status)

	_, status = httpDo(t, http.MethodPost, ts.URL+"/accounts/"+addr, &accounts.CallData{Gas: callGasLimit + 1})
	assert.Equal(t, http.StatusForbidden, status)

	_, status = httpDo(t, http.MethodPost, ts.URL+"/accounts/"+addr, &accounts.CallData{Data: "0xzz"})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpDo(t, http.MethodGet, ts.URL+"/accounts/"+addr+"/storage/0x01", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
