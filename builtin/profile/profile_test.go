// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package profile

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/dpos/dpostest"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/ronin"
)

const testCooldown = 60

type stubStaking struct {
	dpos.Staking
	changed map[ronin.Address]ronin.Address
}

func (s *stubStaking) ExecChangeAdminAddr(id, newAdmin ronin.Address) error {
	s.changed[id] = newAdmin
	return nil
}

type testContext struct {
	t       *testing.T
	chain   *dpostest.Chain
	linker  *dpostest.Linker
	staking *stubStaking
	self    ronin.Address
}

func newTestContext(t *testing.T, verify bool) *testContext {
	staking := &stubStaking{changed: map[ronin.Address]ronin.Address{}}
	tc := &testContext{
		t:       t,
		chain:   dpostest.NewChain(t),
		linker:  &dpostest.Linker{StakingPeer: staking},
		staking: staking,
		self:    dpostest.Address(dpos.ContractProfile),
	}
	require.NoError(t, tc.as(tc.admin()).InitializeV2(testCooldown, verify))
	return tc
}

func (tc *testContext) admin() ronin.Address {
	return tc.linker.Address(dpos.ContractGovernanceAdmin)
}

func (tc *testContext) as(caller ronin.Address) *Profile {
	return New(tc.chain.Env(caller, tc.self, nil), tc.linker)
}

func (tc *testContext) apply(admin, id ronin.Address, pubkey []byte) error {
	return tc.as(tc.linker.Address(dpos.ContractStaking)).ExecApplyValidatorCandidate(admin, id, pubkey, nil)
}

func (tc *testContext) profile(id ronin.Address) *dpos.CandidateProfile {
	p, err := tc.as(ronin.Address{}).GetId2Profile(id)
	require.NoError(tc.t, err)
	return p
}

func addr(s string) ronin.Address {
	return ronin.BytesToAddress([]byte(s))
}

func TestApplyValidatorCandidate(t *testing.T) {
	tc := newTestContext(t, false)
	id, admin := addr("id"), addr("admin")

	err := tc.as(admin).ExecApplyValidatorCandidate(admin, id, []byte{1}, nil)
	assert.True(t, reverts.Is(err, reverts.ErrUnexpectedInternalCall))

	require.NoError(t, tc.apply(admin, id, []byte{1}))
	p := tc.profile(id)
	assert.Equal(t, id, p.Consensus)
	assert.Equal(t, admin, p.Admin)
	assert.Equal(t, admin, p.Treasury)
	assert.Equal(t, tc.chain.Block.Number, p.RegisteredAt)

	assert.True(t, reverts.Is(tc.apply(admin, id, []byte{2}), reverts.ErrExistentProfile))
	assert.True(t, reverts.Is(tc.apply(admin, addr("id2"), []byte{2}), reverts.ErrDuplicatedInfo))
	assert.True(t, reverts.Is(tc.apply(addr("admin2"), addr("id2"), []byte{1}), reverts.ErrDuplicatedPubkey))
	assert.True(t, reverts.Is(tc.apply(addr("admin2"), addr("id2"), nil), reverts.ErrZeroPubkey))

	got, err := tc.as(ronin.Address{}).Resolve(id, dpos.ById)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = tc.as(ronin.Address{}).Resolve(addr("nobody"), dpos.ById)
	assert.EqualError(t, err, reverts.ErrLookUpIdFailed.New(addr("nobody")).Error())
}

func TestChangeConsensusAddr(t *testing.T) {
	tc := newTestContext(t, false)
	id, admin := addr("id"), addr("admin")
	require.NoError(t, tc.apply(admin, id, []byte{1}))

	err := tc.as(addr("stranger")).ChangeConsensusAddr(id, addr("c1"))
	assert.EqualError(t, err, reverts.ErrUnauthorized.New(sig("changeConsensusAddr"), ronin.RoleCandidateAdmin).Error())

	p := tc.as(admin)
	require.NoError(t, p.ChangeConsensusAddr(id, addr("c1")))
	events := p.env.Events()
	require.Len(t, events, 1)
	assert.Equal(t, evProfileAddressChanged.ID(), events[0].Topics[0])

	_, err = tc.as(ronin.Address{}).Resolve(id, dpos.ByConsensus)
	assert.True(t, reverts.Is(err, reverts.ErrLookUpIdFailed))
	got, err := tc.as(ronin.Address{}).Resolve(addr("c1"), dpos.ByConsensus)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// shared cooldown, inclusive threshold
	tc.chain.Block.Time += testCooldown - 1
	assert.True(t, reverts.Is(tc.as(admin).ChangeConsensusAddr(id, addr("c2")), reverts.ErrProfileChangeCooldownNotEnded))
	assert.True(t, reverts.Is(tc.as(admin).ChangePubkey(id, []byte{9}, nil), reverts.ErrProfileChangeCooldownNotEnded))
	tc.chain.Block.Time++

	// a consensus address is never reused
	assert.True(t, reverts.Is(tc.as(admin).ChangeConsensusAddr(id, id), reverts.ErrDuplicatedInfo))
	require.NoError(t, tc.as(admin).ChangeConsensusAddr(id, addr("c2")))

	consensus, err := tc.as(ronin.Address{}).GetManyId2Consensus([]ronin.Address{id, addr("unknown")})
	require.NoError(t, err)
	assert.Equal(t, []ronin.Address{addr("c2"), {}}, consensus)
}

func TestChangeAdminAddr(t *testing.T) {
	tc := newTestContext(t, false)
	id, admin, next := addr("id"), addr("admin"), addr("next")
	require.NoError(t, tc.apply(admin, id, []byte{1}))

	p := tc.as(admin)
	require.NoError(t, p.ChangeAdminAddr(id, next))
	assert.Equal(t, next, tc.staking.changed[id])
	assert.Len(t, p.env.Events(), 2)

	profile := tc.profile(id)
	assert.Equal(t, next, profile.Admin)
	assert.Equal(t, next, profile.Treasury)

	inHistory, err := tc.as(ronin.Address{}).IsAdminInHistory(admin)
	require.NoError(t, err)
	assert.True(t, inHistory)

	tc.chain.Block.Time += testCooldown
	assert.True(t, reverts.Is(tc.as(admin).ChangeAdminAddr(id, addr("other")), reverts.ErrUnauthorized))
	err = tc.as(next).ChangeAdminAddr(id, admin)
	assert.EqualError(t, err, reverts.ErrDuplicatedInfo.New(ronin.RoleCandidateAdmin, dpos.AddressToUint256(admin)).Error())
}

func TestChangePubkeyWithProof(t *testing.T) {
	tc := newTestContext(t, true)
	id, admin := addr("id"), addr("admin")

	key1, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pub1 := key1.PubKey().SerializeCompressed()
	require.NoError(t, tc.as(tc.linker.Address(dpos.ContractStaking)).
		ExecApplyValidatorCandidate(admin, id, pub1, SignProof(key1, id, pub1)))

	key2, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pub2 := key2.PubKey().SerializeUncompressed()

	err = tc.as(admin).ChangePubkey(id, pub2, SignProof(key1, id, pub2))
	assert.True(t, reverts.Is(err, reverts.ErrInvalidProofOfPossession))

	require.NoError(t, tc.as(admin).ChangePubkey(id, pub2, SignProof(key2, id, pub2)))
	assert.Equal(t, pub2, tc.profile(id).Pubkey)

	tc.chain.Block.Time += testCooldown
	assert.True(t, reverts.Is(tc.as(admin).ChangePubkey(id, pub1, SignProof(key1, id, pub1)), reverts.ErrDuplicatedPubkey))
}

func TestGovernanceSetters(t *testing.T) {
	tc := newTestContext(t, false)

	assert.True(t, reverts.Is(tc.as(addr("stranger")).SetCooldown(1), reverts.ErrUnauthorized))
	require.NoError(t, tc.as(tc.admin()).SetCooldown(120))
	cooldown, err := tc.as(ronin.Address{}).Cooldown()
	require.NoError(t, err)
	assert.Equal(t, uint64(120), cooldown)

	require.NoError(t, tc.as(tc.admin()).SetPubkeyVerification(true))
	verify, err := tc.as(ronin.Address{}).PubkeyVerification()
	require.NoError(t, err)
	assert.True(t, verify)

	assert.True(t, reverts.Is(tc.as(tc.admin()).InitializeV2(1, false), reverts.ErrAlreadyInitialized))
}
