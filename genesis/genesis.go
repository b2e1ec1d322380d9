// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the genesis state: funded accounts, initialized builtin
// contracts and the validator candidates of the network.
package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/builtin/slashing"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis to build genesis block.
type Genesis struct {
	builder *Builder
	id      ronin.Bytes32
	name    string
}

// Build build the genesis block.
func (g *Genesis) Build(stater *state.Stater) (blk *block.Block, events tx.Events, err error) {
	blk, events, err = g.builder.Build(stater)
	if err != nil {
		return nil, nil, err
	}
	if blk.Header().ID() != g.id {
		panic("built genesis ID incorrect")
	}
	return blk, events, nil
}

// ID returns genesis block ID.
func (g *Genesis) ID() ronin.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

func mustEncodeInput(a *abi.ABI, name string, args ...any) []byte {
	m, found := a.MethodByName(name)
	if !found {
		panic("method not found: " + name)
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		panic(err)
	}
	return data
}

// applyOverrides replaces the defaults of config variables known by name.
func applyOverrides(overrides map[string]uint64) error {
	known := make(map[string]bool)
	for _, v := range slashing.ConfigVariables() {
		known[v.Name()] = true
		if value, ok := overrides[v.Name()]; ok {
			v.Override(value)
		}
	}
	for name := range overrides {
		if !known[name] {
			return fmt.Errorf("unknown config variable %q", name)
		}
	}
	return nil
}

// NewGenesis creates the genesis described by cfg.
func NewGenesis(name string, cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg.Overrides); err != nil {
		return nil, err
	}

	admin := builtin.GovernanceAdmin.Address
	builder := new(Builder).
		Timestamp(cfg.LaunchTime).
		State(func(st *state.State) error {
			for _, a := range cfg.Accounts {
				if err := st.AddBalance(a.Address, uint256.MustFromBig(bigOf(a.Balance))); err != nil {
					return err
				}
			}
			return st.AddBalance(builtin.Vesting.Address, uint256.MustFromBig(bigOf(cfg.Vesting.Balance)))
		})

	call := func(a *abi.ABI, to ronin.Address, method string, args ...any) {
		builder.Call(tx.NewClause(to).WithData(mustEncodeInput(a, method, args...)), admin)
	}

	call(builtin.Profile.ABI, builtin.Profile.Address, "initialize", cfg.Profile.Cooldown)
	call(builtin.Profile.ABI, builtin.Profile.Address, "initializeV2", cfg.Profile.Cooldown, cfg.Profile.PubkeyVerification)

	s := cfg.Staking
	call(builtin.Staking.ABI, builtin.Staking.Address, "initialize",
		bigOf(s.MinValidatorStakingAmount), s.MinCommissionRate, s.MaxCommissionRate, s.CooldownSecsToUndelegate, s.WaitingSecsToRevoke)
	call(builtin.Staking.ABI, builtin.Staking.Address, "initializeV3", s.MinEffectiveDaysOnwards)

	v := cfg.ValidatorSet
	call(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address, "initialize",
		v.MaxValidatorNumber, v.MaxValidatorCandidate, v.NumberOfBlocksInEpoch)
	call(builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address, "initializeV4", v.MaxPrioritizedValidatorNumber)

	call(builtin.FastFinality.ABI, builtin.FastFinality.Address, "initialize")
	call(builtin.Vesting.ABI, builtin.Vesting.Address, "initialize",
		bigOf(cfg.Vesting.BlockProducerBonusPerBlock), cfg.Vesting.FastFinalityRewardPercentage)

	sl := cfg.Slashing
	for _, f := range []struct {
		v   *solidity.ConfigVariable
		dst *uint64
	}{
		{slashing.Tier1Threshold, &sl.Tier1Threshold},
		{slashing.Tier2Threshold, &sl.Tier2Threshold},
		{slashing.SlashAmount, &sl.SlashAmount},
		{slashing.JailDuration, &sl.JailDuration},
	} {
		if *f.dst == 0 {
			*f.dst = f.v.Default()
		}
	}
	call(builtin.SlashIndicator.ABI, builtin.SlashIndicator.Address, "initialize",
		sl.Tier1Threshold, sl.Tier2Threshold, sl.SlashAmount, sl.JailDuration)

	// candidates first, trusted organizations are looked up by their profile
	for _, c := range cfg.Candidates {
		data := mustEncodeInput(builtin.Staking.ABI, "applyValidatorCandidate",
			c.Admin, c.Consensus, c.Admin, c.CommissionRate, []byte(c.Pubkey), []byte(c.ProofOfPossession))
		builder.Call(tx.NewClause(builtin.Staking.Address).
			WithValue(uint256.MustFromBig(bigOf(c.Stake))).
			WithData(data), c.Admin)
	}

	var (
		consensus = make([]common.Address, 0, len(cfg.TrustedOrganizations))
		governors = make([]common.Address, 0, len(cfg.TrustedOrganizations))
		weights   = make([]*big.Int, 0, len(cfg.TrustedOrganizations))
	)
	for _, o := range cfg.TrustedOrganizations {
		consensus = append(consensus, common.Address(o.Consensus))
		governors = append(governors, common.Address(o.Governor))
		weights = append(weights, new(big.Int).SetUint64(o.Weight))
	}
	call(builtin.TrustedOrg.ABI, builtin.TrustedOrg.Address, "initialize", consensus, governors, weights)

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	logger.Debug("genesis computed", "name", name, "id", id, "candidates", len(cfg.Candidates))
	return &Genesis{builder, id, name}, nil
}
