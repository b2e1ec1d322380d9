// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storagelayout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/builtin/staking"
)

const stakingArtifact = `{
	"storageLayout": {
		"storage": [
			{"astId": 1, "contract": "src/ronin/staking/Staking.sol:Staking", "label": "_initialized", "offset": 0, "slot": "0", "type": "t_uint8"},
			{"astId": 2, "contract": "src/ronin/staking/Staking.sol:Staking", "label": "_initializing", "offset": 1, "slot": "0", "type": "t_bool"},
			{"astId": 3, "contract": "lib/openzeppelin/Initializable.sol:Initializable", "label": "_gap", "offset": 0, "slot": "1", "type": "t_array(t_uint256)50_storage"},
			{"astId": 4, "contract": "src/ronin/staking/Staking.sol:Staking", "label": "_stakingPool", "offset": 0, "slot": "51", "type": "t_mapping(t_address,t_struct(PoolDetail)1_storage)"}
		],
		"types": {
			"t_uint8": {"encoding": "inplace", "label": "uint8", "numberOfBytes": "1"},
			"t_bool": {"encoding": "inplace", "label": "bool", "numberOfBytes": "1"},
			"t_array(t_uint256)50_storage": {"encoding": "inplace", "label": "uint256[50]", "numberOfBytes": "1600"},
			"t_mapping(t_address,t_struct(PoolDetail)1_storage)": {"encoding": "mapping", "label": "mapping(address => struct IBaseStaking.PoolDetail)", "numberOfBytes": "32"}
		}
	}
}`

func TestReport(t *testing.T) {
	a, err := Parse(strings.NewReader(stakingArtifact))
	require.NoError(t, err)
	lines, err := a.Report()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"src/ronin/staking/Staking.sol:Staking:_initialized (storage_slot: 0) (offset: 0) (type: uint8) (numberOfBytes: 1)",
		"src/ronin/staking/Staking.sol:Staking:_initializing (storage_slot: 0) (offset: 1) (type: bool) (numberOfBytes: 1)",
		"src/ronin/staking/Staking.sol:Staking:_stakingPool (storage_slot: 51) (offset: 0) (type: mapping(address => struct IBaseStaking.PoolDetail)) (numberOfBytes: 32)",
	}, lines)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, lines))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestReportWithAST(t *testing.T) {
	withAST := func(path string) string {
		return strings.Replace(stakingArtifact, `"storageLayout"`, `"ast": {"absolutePath": "`+path+`"}, "storageLayout"`, 1)
	}

	// every entry is kept when the source is under src
	a, err := Parse(strings.NewReader(withAST("src/ronin/staking/Staking.sol")))
	require.NoError(t, err)
	lines, err := a.Report()
	require.NoError(t, err)
	assert.Len(t, lines, 4)

	a, err = Parse(strings.NewReader(withAST("lib/openzeppelin/Initializable.sol")))
	require.NoError(t, err)
	lines, err = a.Report()
	require.NoError(t, err)
	assert.Empty(t, lines)

	a, err = Parse(strings.NewReader(`{"ast": {}, "storageLayout": {"storage": [{"contract": "src/A.sol:A", "label": "a", "slot": "0", "type": "t_uint256"}]}}`))
	require.NoError(t, err)
	lines, err = a.Report()
	require.NoError(t, err)
	assert.Empty(t, lines, "no absolute path")
}

func TestReportErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("{"))
	assert.Error(t, err)

	a, err := Parse(strings.NewReader(`{"abi": []}`))
	require.NoError(t, err)
	lines, err := a.Report()
	require.NoError(t, err)
	assert.Empty(t, lines)

	a, err = Parse(strings.NewReader(`{"storageLayout": {"storage": [{"contract": "src/A.sol:A", "label": "a", "slot": "0", "type": "t_missing"}], "types": {}}}`))
	require.NoError(t, err)
	_, err = a.Report()
	assert.ErrorContains(t, err, "unknown type t_missing")
}

func TestNative(t *testing.T) {
	lines := Native()
	require.NotEmpty(t, lines)

	var found bool
	for _, l := range lines {
		require.True(t, strings.HasPrefix(l, "builtin/"), l)
		if strings.HasPrefix(l, "builtin/"+staking.ContractName+":staking-min-validator-staking-amount ") {
			found = true
			assert.Contains(t, l, "(type: uint256) (numberOfBytes: 32)")
		}
	}
	assert.True(t, found)
	assert.Equal(t, lines, Native(), "report is stable")
}

func TestDiff(t *testing.T) {
	from := []string{"a (storage_slot: 0)", "b (storage_slot: 1)", "c (storage_slot: 2)"}
	to := []string{"a (storage_slot: 0)", "c (storage_slot: 1)"}

	diff, err := Diff("old", from, "new", to)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- old")
	assert.Contains(t, diff, "+++ new")
	assert.Contains(t, diff, "-b (storage_slot: 1)\n")
	assert.Contains(t, diff, "+c (storage_slot: 1)\n")

	diff, err = Diff("old", from, "new", from)
	require.NoError(t, err)
	assert.Empty(t, diff)
}
