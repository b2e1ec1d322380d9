// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/dpos/dpostest"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/ronin"
)

func TestOnlyCoinbase(t *testing.T) {
	chain := dpostest.NewChain(t)
	coinbase := ronin.BytesToAddress([]byte("coinbase"))
	chain.Block.Coinbase = coinbase
	self := dpostest.Address(dpos.ContractValidator)

	require.NoError(t, dpos.OnlyCoinbase(chain.Env(coinbase, self, nil)))

	err := dpos.OnlyCoinbase(chain.Env(ronin.BytesToAddress([]byte("other")), self, nil))
	assert.True(t, reverts.Is(err, reverts.ErrCallerMustBeCoinbase))
}

func TestOnlyContractAndAdmin(t *testing.T) {
	chain := dpostest.NewChain(t)
	linker := &dpostest.Linker{}
	self := dpostest.Address(dpos.ContractProfile)
	sig := [4]byte{1, 2, 3, 4}

	staking := linker.Address(dpos.ContractStaking)
	require.NoError(t, dpos.OnlyContract(chain.Env(staking, self, nil), linker, dpos.ContractStaking, sig))
	err := dpos.OnlyContract(chain.Env(self, self, nil), linker, dpos.ContractStaking, sig)
	assert.True(t, reverts.Is(err, reverts.ErrUnexpectedInternalCall))

	admin := linker.Address(dpos.ContractGovernanceAdmin)
	require.NoError(t, dpos.OnlyAdmin(chain.Env(admin, self, nil), linker, sig))
	err = dpos.OnlyAdmin(chain.Env(staking, self, nil), linker, sig)
	assert.True(t, reverts.Is(err, reverts.ErrUnauthorized))
}

func TestContractTypeAndHelpers(t *testing.T) {
	tests := []struct {
		typ  dpos.ContractType
		want string
	}{
		{dpos.ContractProfile, "profile"},
		{dpos.ContractFastFinality, "fast-finality"},
		{dpos.ContractStakingVesting, "staking-vesting"},
		{dpos.ContractType(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}

	addr := ronin.BytesToAddress([]byte{0x01, 0x02})
	assert.Equal(t, uint64(0x0102), dpos.AddressToUint256(addr).Uint64())

	var p *dpos.CandidateProfile
	assert.False(t, p.Exists())
	assert.True(t, (&dpos.CandidateProfile{ID: addr}).Exists())
}
