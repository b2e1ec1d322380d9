// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validatorset

import (
	"bytes"
	"slices"

	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/ronin"
)

type ranked struct {
	id          ronin.Address
	stake       *uint256.Int
	prioritized bool
}

// pickValidators ranks candidates by stake, highest first and lower id on ties.
// Up to maxPrioritized leading slots go to prioritized candidates, the rest of
// the set is filled in rank order.
func pickValidators(candidates []ranked, maxValidators, maxPrioritized uint64) []ronin.Address {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b ranked) int {
		if c := b.stake.Cmp(a.stake); c != 0 {
			return c
		}
		return bytes.Compare(a.id[:], b.id[:])
	})

	picked := make([]ronin.Address, 0, min(uint64(len(sorted)), maxValidators))
	taken := make([]bool, len(sorted))
	for i, c := range sorted {
		if uint64(len(picked)) >= min(maxPrioritized, maxValidators) {
			break
		}
		if c.prioritized {
			picked = append(picked, c.id)
			taken[i] = true
		}
	}
	for i, c := range sorted {
		if uint64(len(picked)) >= maxValidators {
			break
		}
		if !taken[i] {
			picked = append(picked, c.id)
		}
	}
	return picked
}

// syncValidatorSet recomputes the validators of newPeriod from the candidates
// not jailed at nextBlock.
func (v *ValidatorSet) syncValidatorSet(newPeriod, nextBlock uint64) error {
	all, err := v.GetCandidateIds()
	if err != nil {
		return err
	}
	ids := make([]ronin.Address, 0, len(all))
	for _, id := range all {
		jailed, err := v.jailedAt(id, nextBlock)
		if err != nil {
			return err
		}
		if !jailed {
			ids = append(ids, id)
		}
	}

	candidates := make([]ranked, len(ids))
	if len(ids) > 0 {
		staking, err := v.staking(nil)
		if err != nil {
			return err
		}
		stakes, err := staking.GetManyStakingTotalsById(ids)
		if err != nil {
			return err
		}
		trusted, err := v.linker.TrustedOrgs(v.env, nil)
		if err != nil {
			return err
		}
		weights, err := trusted.GetConsensusWeightsById(ids)
		if err != nil {
			return err
		}
		for i, id := range ids {
			candidates[i] = ranked{id: id, stake: stakes[i], prioritized: weights[i] > 0}
		}
	}

	maxValidators, err := v.MaxValidatorNumber()
	if err != nil {
		return err
	}
	maxPrioritized, err := v.MaxPrioritizedValidatorNumber()
	if err != nil {
		return err
	}
	picked := pickValidators(candidates, maxValidators, maxPrioritized)
	if err := v.validators.Set(picked); err != nil {
		return err
	}
	metricValidators().Set(int64(len(picked)))
	v.env.Log(evValidatorSetUpdated, newPeriod, picked)
	return nil
}

// revampBlockProducers keeps the validators allowed to produce from nextBlock on.
func (v *ValidatorSet) revampBlockProducers(newPeriod, nextBlock uint64) error {
	ids, err := v.GetValidatorIds()
	if err != nil {
		return err
	}
	producers := make([]ronin.Address, 0, len(ids))
	for _, id := range ids {
		jailed, err := v.jailedAt(id, nextBlock)
		if err != nil {
			return err
		}
		deprecated, err := v.miningDeprecated.Get(solidity.Pair(id, solidity.Uint64Key(newPeriod)))
		if err != nil {
			return err
		}
		if !jailed && !deprecated {
			producers = append(producers, id)
		}
	}
	return v.blockProducers.Set(producers)
}

// GetValidatorIds returns the ids of the current validators.
func (v *ValidatorSet) GetValidatorIds() ([]ronin.Address, error) {
	ids, err := v.validators.Get()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []ronin.Address{}
	}
	return ids, nil
}

// GetValidators returns the consensus addresses of the current validators.
func (v *ValidatorSet) GetValidators() ([]ronin.Address, error) {
	ids, err := v.GetValidatorIds()
	if err != nil {
		return nil, err
	}
	return v.consensusOf(ids)
}

func (v *ValidatorSet) GetBlockProducerIds() ([]ronin.Address, error) {
	ids, err := v.blockProducers.Get()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []ronin.Address{}
	}
	return ids, nil
}

// GetBlockProducers returns the consensus addresses allowed to produce blocks.
func (v *ValidatorSet) GetBlockProducers() ([]ronin.Address, error) {
	ids, err := v.GetBlockProducerIds()
	if err != nil {
		return nil, err
	}
	return v.consensusOf(ids)
}

func (v *ValidatorSet) IsBlockProducer(id ronin.Address) (bool, error) {
	ids, err := v.GetBlockProducerIds()
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}
