// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package profile implements the identity registry. A candidate is known by a
// stable id, its first consensus address, while consensus, admin, treasury and
// pubkey may be rotated by the current admin.
package profile

import (
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// ContractName is the name of the embedded ABI.
const ContractName = "Profile"

var (
	logger = log.WithContext("pkg", "profile")

	slotId2Profile     = solidity.Slot(ContractName, "profile-id2profile", "mapping(address => struct CandidateProfile)")
	slotConsensus2Id   = solidity.Slot(ContractName, "profile-consensus2id", "mapping(address => address)")
	slotRegistry       = solidity.Slot(ContractName, "profile-registry", "mapping(address => uint256)")
	slotPubkeys        = solidity.Slot(ContractName, "profile-pubkeys", "mapping(bytes32 => bool)")
	slotCooldown       = solidity.Slot(ContractName, "profile-cooldown", "uint256")
	slotPubkeyVerified = solidity.Slot(ContractName, "profile-pubkey-verification", "bool")
)

var (
	evProfileAdded              = gen.MustEvent(ContractName, "ProfileAdded")
	evProfileAddressChanged     = gen.MustEvent(ContractName, "ProfileAddressChanged")
	evPubkeyChanged             = gen.MustEvent(ContractName, "PubkeyChanged")
	evCooldownConfigUpdated     = gen.MustEvent(ContractName, "CooldownConfigUpdated")
	evPubkeyVerificationUpdated = gen.MustEvent(ContractName, "PubkeyVerificationUpdated")
)

func sig(method string) [4]byte {
	return gen.MustMethodID(ContractName, method)
}

// role bits kept in the address registry
const (
	usedAsConsensus uint64 = 1 << iota
	usedAsAdmin
)

// Profile implements the native methods of the `Profile` contract.
type Profile struct {
	env    *xenv.Environment
	linker dpos.Linker

	initializable *solidity.Initializable
	id2Profile    *solidity.Mapping[ronin.Address, *dpos.CandidateProfile]
	consensus2Id  *solidity.Mapping[ronin.Address, ronin.Address]
	registry      *solidity.Mapping[ronin.Address, uint64]
	pubkeys       *solidity.Mapping[ronin.Bytes32, bool]
	cooldown      *solidity.Uint256
	verifyPubkey  *solidity.Value[bool]
}

// New binds the contract to the call env, env.To() is the contract address.
func New(env *xenv.Environment, linker dpos.Linker) *Profile {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &Profile{
		env:           env,
		linker:        linker,
		initializable: solidity.NewInitializable(sctx),
		id2Profile:    solidity.NewMapping[ronin.Address, *dpos.CandidateProfile](sctx, slotId2Profile),
		consensus2Id:  solidity.NewMapping[ronin.Address, ronin.Address](sctx, slotConsensus2Id),
		registry:      solidity.NewMapping[ronin.Address, uint64](sctx, slotRegistry),
		pubkeys:       solidity.NewMapping[ronin.Bytes32, bool](sctx, slotPubkeys),
		cooldown:      solidity.NewUint256(sctx, slotCooldown),
		verifyPubkey:  solidity.NewValue[bool](sctx, slotPubkeyVerified),
	}
}

var _ dpos.Profiles = (*Profile)(nil)

//
// Initializers
//

// Initialize sets the change cooldown and turns pubkey verification on.
func (p *Profile) Initialize(cooldown uint64) error {
	if err := p.initializable.Reinitialize(1); err != nil {
		return err
	}
	if err := p.verifyPubkey.Set(true); err != nil {
		return err
	}
	return p.setCooldown(cooldown)
}

// InitializeV2 reconfigures the cooldown and pubkey verification.
func (p *Profile) InitializeV2(cooldown uint64, pubkeyVerification bool) error {
	if err := p.initializable.Reinitialize(2); err != nil {
		return err
	}
	if err := p.setPubkeyVerification(pubkeyVerification); err != nil {
		return err
	}
	return p.setCooldown(cooldown)
}

//
// Getters
//

// Resolve maps an address to a candidate id. ByConsensus goes through the current
// consensus mapping, ById accepts only registered ids.
func (p *Profile) Resolve(addr ronin.Address, mode dpos.LookupMode) (ronin.Address, error) {
	switch mode {
	case dpos.ByConsensus:
		id, err := p.consensus2Id.Get(addr)
		if err != nil {
			return ronin.Address{}, err
		}
		if id.IsZero() {
			return ronin.Address{}, reverts.ErrLookUpIdFailed.New(addr)
		}
		return id, nil
	case dpos.ById:
		profile, err := p.id2Profile.Get(addr)
		if err != nil {
			return ronin.Address{}, err
		}
		if !profile.Exists() {
			return ronin.Address{}, reverts.ErrLookUpIdFailed.New(addr)
		}
		return profile.ID, nil
	default:
		return ronin.Address{}, errors.Errorf("unknown lookup mode %d", mode)
	}
}

// ResolveMany resolves every address, failing on the first unknown one.
func (p *Profile) ResolveMany(addrs []ronin.Address, mode dpos.LookupMode) ([]ronin.Address, error) {
	ids := make([]ronin.Address, len(addrs))
	for i, addr := range addrs {
		id, err := p.Resolve(addr, mode)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// GetId2Profile returns the profile of id, a zero profile when unknown.
func (p *Profile) GetId2Profile(id ronin.Address) (*dpos.CandidateProfile, error) {
	return p.id2Profile.Get(id)
}

// GetConsensus2Id returns the id currently bound to the consensus address.
func (p *Profile) GetConsensus2Id(consensus ronin.Address) (ronin.Address, error) {
	return p.Resolve(consensus, dpos.ByConsensus)
}

func (p *Profile) GetManyConsensus2Id(consensusList []ronin.Address) ([]ronin.Address, error) {
	return p.ResolveMany(consensusList, dpos.ByConsensus)
}

// GetManyId2Consensus returns the current consensus address of each id, zero for unknown ids.
func (p *Profile) GetManyId2Consensus(ids []ronin.Address) ([]ronin.Address, error) {
	out := make([]ronin.Address, len(ids))
	for i, id := range ids {
		profile, err := p.id2Profile.Get(id)
		if err != nil {
			return nil, err
		}
		out[i] = profile.Consensus
	}
	return out, nil
}

// IsAdminInHistory reports whether addr was ever the admin of any profile.
func (p *Profile) IsAdminInHistory(addr ronin.Address) (bool, error) {
	used, err := p.registry.Get(addr)
	if err != nil {
		return false, err
	}
	return used&usedAsAdmin != 0, nil
}

// Cooldown returns the seconds required between two changes of one profile.
func (p *Profile) Cooldown() (uint64, error) {
	return p.cooldown.Uint64()
}

func (p *Profile) PubkeyVerification() (bool, error) {
	return p.verifyPubkey.Get()
}

//
// Internal
//

// ExecApplyValidatorCandidate registers a new profile, only callable by staking.
func (p *Profile) ExecApplyValidatorCandidate(admin, id ronin.Address, pubkey, proof []byte) error {
	if err := dpos.OnlyContract(p.env, p.linker, dpos.ContractStaking, sig("execApplyValidatorCandidate")); err != nil {
		return err
	}
	existing, err := p.id2Profile.Get(id)
	if err != nil {
		return err
	}
	if existing.Exists() {
		return reverts.ErrExistentProfile
	}
	if err := p.requireUnused(id, ronin.RoleConsensus); err != nil {
		return err
	}
	if err := p.requireUnused(admin, ronin.RoleCandidateAdmin); err != nil {
		return err
	}
	if err := p.checkPubkey(id, pubkey, proof); err != nil {
		return err
	}

	profile := &dpos.CandidateProfile{
		ID:           id,
		Consensus:    id,
		Admin:        admin,
		Treasury:     admin,
		Pubkey:       pubkey,
		RegisteredAt: p.env.BlockContext().Number,
	}
	if err := p.id2Profile.Set(id, profile); err != nil {
		return err
	}
	if err := p.consensus2Id.Set(id, id); err != nil {
		return err
	}
	if err := p.markUsed(id, usedAsConsensus); err != nil {
		return err
	}
	if err := p.markUsed(admin, usedAsAdmin); err != nil {
		return err
	}
	if err := p.pubkeys.Set(ronin.Keccak256(pubkey), true); err != nil {
		return err
	}

	logger.Debug("profile added", "id", id, "admin", admin)
	p.env.Log(evProfileAdded, id)
	p.env.Log(evPubkeyChanged, id, pubkey)
	return nil
}

//
// Admin operations
//

// ChangeConsensusAddr rebinds id to a never used consensus address.
func (p *Profile) ChangeConsensusAddr(id, newConsensus ronin.Address) error {
	profile, err := p.requireChangeable(id, sig("changeConsensusAddr"))
	if err != nil {
		return err
	}
	if err := p.requireUnused(newConsensus, ronin.RoleConsensus); err != nil {
		return err
	}

	if err := p.consensus2Id.Delete(profile.Consensus); err != nil {
		return err
	}
	if err := p.consensus2Id.Set(newConsensus, id); err != nil {
		return err
	}
	if err := p.markUsed(newConsensus, usedAsConsensus); err != nil {
		return err
	}

	profile.Consensus = newConsensus
	if err := p.commitChange(profile); err != nil {
		return err
	}
	logger.Debug("consensus changed", "id", id, "consensus", newConsensus)
	p.env.Log(evProfileAddressChanged, id, ronin.RoleConsensus, newConsensus)
	return nil
}

// ChangeAdminAddr hands the profile and the pool over to a new admin, which also
// becomes the treasury.
func (p *Profile) ChangeAdminAddr(id, newAdmin ronin.Address) error {
	profile, err := p.requireChangeable(id, sig("changeAdminAddr"))
	if err != nil {
		return err
	}
	if err := p.requireUnused(newAdmin, ronin.RoleCandidateAdmin); err != nil {
		return err
	}

	staking, err := p.linker.Staking(p.env, nil)
	if err != nil {
		return err
	}
	if err := staking.ExecChangeAdminAddr(id, newAdmin); err != nil {
		return err
	}
	if err := p.markUsed(newAdmin, usedAsAdmin); err != nil {
		return err
	}

	profile.Admin = newAdmin
	profile.Treasury = newAdmin
	if err := p.commitChange(profile); err != nil {
		return err
	}
	logger.Debug("admin changed", "id", id, "admin", newAdmin)
	p.env.Log(evProfileAddressChanged, id, ronin.RoleCandidateAdmin, newAdmin)
	p.env.Log(evProfileAddressChanged, id, ronin.RoleTreasury, newAdmin)
	return nil
}

// ChangePubkey replaces the pubkey after checking the proof of possession.
func (p *Profile) ChangePubkey(id ronin.Address, pubkey, proof []byte) error {
	profile, err := p.requireChangeable(id, sig("changePubkey"))
	if err != nil {
		return err
	}
	if err := p.checkPubkey(id, pubkey, proof); err != nil {
		return err
	}
	if err := p.pubkeys.Set(ronin.Keccak256(pubkey), true); err != nil {
		return err
	}

	profile.Pubkey = pubkey
	if err := p.commitChange(profile); err != nil {
		return err
	}
	p.env.Log(evPubkeyChanged, id, pubkey)
	return nil
}

//
// Governance
//

func (p *Profile) SetCooldown(cooldown uint64) error {
	if err := dpos.OnlyAdmin(p.env, p.linker, sig("setCooldownConfig")); err != nil {
		return err
	}
	return p.setCooldown(cooldown)
}

func (p *Profile) SetPubkeyVerification(enabled bool) error {
	if err := dpos.OnlyAdmin(p.env, p.linker, sig("setPubkeyVerification")); err != nil {
		return err
	}
	return p.setPubkeyVerification(enabled)
}

func (p *Profile) setCooldown(cooldown uint64) error {
	if err := p.cooldown.SetUint64(cooldown); err != nil {
		return err
	}
	p.env.Log(evCooldownConfigUpdated, cooldown)
	return nil
}

func (p *Profile) setPubkeyVerification(enabled bool) error {
	if err := p.verifyPubkey.Set(enabled); err != nil {
		return err
	}
	p.env.Log(evPubkeyVerificationUpdated, enabled)
	return nil
}

//
// Helpers
//

// requireChangeable loads the profile of id and checks the caller is its admin
// and the shared cooldown has passed.
func (p *Profile) requireChangeable(id ronin.Address, sig [4]byte) (*dpos.CandidateProfile, error) {
	profile, err := p.id2Profile.Get(id)
	if err != nil {
		return nil, err
	}
	if !profile.Exists() {
		return nil, reverts.ErrNonExistentProfile
	}
	if p.env.Caller() != profile.Admin {
		return nil, reverts.ErrUnauthorized.New(sig, ronin.RoleCandidateAdmin)
	}
	cooldown, err := p.Cooldown()
	if err != nil {
		return nil, err
	}
	if profile.LastChange+cooldown > p.env.BlockContext().Time {
		return nil, reverts.ErrProfileChangeCooldownNotEnded
	}
	return profile, nil
}

func (p *Profile) commitChange(profile *dpos.CandidateProfile) error {
	profile.LastChange = p.env.BlockContext().Time
	return p.id2Profile.Set(profile.ID, profile)
}

// requireUnused fails if addr was ever registered as consensus or admin of any profile.
func (p *Profile) requireUnused(addr ronin.Address, role ronin.Role) error {
	used, err := p.registry.Get(addr)
	if err != nil {
		return err
	}
	if used != 0 {
		return reverts.ErrDuplicatedInfo.New(role, dpos.AddressToUint256(addr))
	}
	return nil
}

func (p *Profile) markUsed(addr ronin.Address, bit uint64) error {
	used, err := p.registry.Get(addr)
	if err != nil {
		return err
	}
	return p.registry.Set(addr, used|bit)
}

func (p *Profile) checkPubkey(id ronin.Address, pubkey, proof []byte) error {
	if len(pubkey) == 0 {
		return reverts.ErrZeroPubkey
	}
	used, err := p.pubkeys.Get(ronin.Keccak256(pubkey))
	if err != nil {
		return err
	}
	if used {
		return reverts.ErrDuplicatedPubkey.New(pubkey)
	}
	verify, err := p.verifyPubkey.Get()
	if err != nil {
		return err
	}
	if verify && !verifyProof(id, pubkey, proof) {
		return reverts.ErrInvalidProofOfPossession.New(pubkey, proof)
	}
	return nil
}
