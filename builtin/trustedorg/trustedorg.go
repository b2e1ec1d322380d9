// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package trustedorg keeps the trusted organizations: validators vouched for by
// governance, each with a governor key and a vote weight. Their candidates get
// prioritized slots in the validator set.
package trustedorg

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/builtin/linkedlist"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

const ContractName = "RoninTrustedOrganization"

var (
	logger = log.WithContext("pkg", "trustedorg")

	slotMembersHead  = solidity.Slot(ContractName, "trusted-members-head", "address")
	slotMembersTail  = solidity.Slot(ContractName, "trusted-members-tail", "address")
	slotMembersCount = solidity.Slot(ContractName, "trusted-members-count", "uint256")
	slotOrgs         = solidity.Slot(ContractName, "trusted-orgs", "mapping(address => struct Organization)")
	slotGovernors    = solidity.Slot(ContractName, "trusted-governor-weight", "mapping(address => uint256)")
	slotTotalWeight  = solidity.Slot(ContractName, "trusted-total-weight", "uint256")

	evTrustedOrganizationAdded   = gen.MustEvent(ContractName, "TrustedOrganizationAdded")
	evTrustedOrganizationRemoved = gen.MustEvent(ContractName, "TrustedOrganizationRemoved")
)

func sig(method string) [4]byte {
	return gen.MustMethodID(ContractName, method)
}

// Organization is a trusted organization, keyed by its consensus address.
type Organization struct {
	Consensus  ronin.Address
	Governor   ronin.Address
	Weight     uint64
	AddedBlock uint64
}

// Registry implements the native methods of the `RoninTrustedOrganization` contract.
type Registry struct {
	env    *xenv.Environment
	linker dpos.Linker

	initializable *solidity.Initializable
	members       *linkedlist.LinkedList
	orgs          *solidity.Mapping[ronin.Address, *Organization]
	governors     *solidity.Mapping[ronin.Address, uint64]
	totalWeight   *solidity.Uint256
}

func New(env *xenv.Environment, linker dpos.Linker) *Registry {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &Registry{
		env:           env,
		linker:        linker,
		initializable: solidity.NewInitializable(sctx),
		members:       linkedlist.NewLinkedList(sctx, slotMembersHead, slotMembersTail, slotMembersCount),
		orgs:          solidity.NewMapping[ronin.Address, *Organization](sctx, slotOrgs),
		governors:     solidity.NewMapping[ronin.Address, uint64](sctx, slotGovernors),
		totalWeight:   solidity.NewUint256(sctx, slotTotalWeight),
	}
}

var _ dpos.TrustedOrgs = (*Registry)(nil)

func (r *Registry) Initialize(orgs []*Organization) error {
	if err := r.initializable.Reinitialize(1); err != nil {
		return err
	}
	if len(orgs) == 0 {
		return nil
	}
	return r.add(orgs)
}

// AddTrustedOrganizations registers new organizations. Consensus and governor
// addresses must not be taken, weights must be positive.
func (r *Registry) AddTrustedOrganizations(orgs []*Organization) error {
	if err := dpos.OnlyAdmin(r.env, r.linker, sig("addTrustedOrganizations")); err != nil {
		return err
	}
	return r.add(orgs)
}

func (r *Registry) add(orgs []*Organization) error {
	if len(orgs) == 0 {
		return reverts.ErrEmptyArray
	}
	block := r.env.BlockContext().Number
	for _, org := range orgs {
		if org.Weight == 0 {
			return reverts.ErrInvalidVoteWeight.New(sig("addTrustedOrganizations"))
		}
		exists, err := r.members.Contains(org.Consensus)
		if err != nil {
			return err
		}
		if exists {
			return reverts.ErrConsensusAddressIsAlreadyAdded.New(org.Consensus)
		}
		weight, err := r.governors.Get(org.Governor)
		if err != nil {
			return err
		}
		if weight != 0 {
			return reverts.ErrGovernorAddressIsAlreadyAdded.New(org.Governor)
		}

		stored := &Organization{Consensus: org.Consensus, Governor: org.Governor, Weight: org.Weight, AddedBlock: block}
		if err := r.members.Add(org.Consensus); err != nil {
			return err
		}
		if err := r.orgs.Set(org.Consensus, stored); err != nil {
			return err
		}
		if err := r.governors.Set(org.Governor, org.Weight); err != nil {
			return err
		}
		if err := r.totalWeight.Add(uint256.NewInt(org.Weight)); err != nil {
			return err
		}
		logger.Debug("trusted organization added", "consensus", org.Consensus, "governor", org.Governor, "weight", org.Weight)
		r.env.Log(evTrustedOrganizationAdded, org.Consensus, org.Governor, org.Weight)
	}
	return nil
}

func (r *Registry) RemoveTrustedOrganizations(consensusList []ronin.Address) error {
	if err := dpos.OnlyAdmin(r.env, r.linker, sig("removeTrustedOrganizations")); err != nil {
		return err
	}
	if len(consensusList) == 0 {
		return reverts.ErrEmptyArray
	}
	for _, consensus := range consensusList {
		org, err := r.orgs.Get(consensus)
		if err != nil {
			return err
		}
		if org.Weight == 0 {
			return reverts.ErrQueryForNonExistentConsensusAddress
		}
		if err := r.members.Remove(consensus); err != nil {
			return err
		}
		if err := r.orgs.Delete(consensus); err != nil {
			return err
		}
		if err := r.governors.Delete(org.Governor); err != nil {
			return err
		}
		if err := r.totalWeight.Sub(uint256.NewInt(org.Weight)); err != nil {
			return err
		}
		r.env.Log(evTrustedOrganizationRemoved, consensus)
	}
	return nil
}

// GetTrustedOrganizations lists the organizations in insertion order.
func (r *Registry) GetTrustedOrganizations() ([]*Organization, error) {
	list := make([]*Organization, 0)
	err := r.members.Iter(func(consensus ronin.Address) error {
		org, err := r.orgs.Get(consensus)
		if err != nil {
			return err
		}
		list = append(list, org)
		return nil
	})
	return list, err
}

func (r *Registry) IsTrusted(consensus ronin.Address) (bool, error) {
	return r.members.Contains(consensus)
}

func (r *Registry) GetConsensusWeight(consensus ronin.Address) (uint64, error) {
	org, err := r.orgs.Get(consensus)
	if err != nil {
		return 0, err
	}
	return org.Weight, nil
}

// GetConsensusWeightsById looks the weights up through the current consensus
// address of each id, zero when the id is not trusted.
func (r *Registry) GetConsensusWeightsById(ids []ronin.Address) ([]uint64, error) {
	if len(ids) == 0 {
		return []uint64{}, nil
	}
	profiles, err := r.linker.Profiles(r.env, nil)
	if err != nil {
		return nil, err
	}
	consensusList, err := profiles.GetManyId2Consensus(ids)
	if err != nil {
		return nil, err
	}
	weights := make([]uint64, len(consensusList))
	for i, consensus := range consensusList {
		if weights[i], err = r.GetConsensusWeight(consensus); err != nil {
			return nil, err
		}
	}
	return weights, nil
}

func (r *Registry) GetGovernorWeight(governor ronin.Address) (uint64, error) {
	return r.governors.Get(governor)
}

func (r *Registry) CountTrustedOrganization() (uint64, error) {
	return r.members.Len()
}

func (r *Registry) TotalWeight() (uint64, error) {
	return r.totalWeight.Uint64()
}
