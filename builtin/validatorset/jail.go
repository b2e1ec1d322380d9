// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validatorset

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/ronin"
)

// ExecSlash punishes id: its mining reward of the current period is deprecated,
// it is jailed until newJailedUntil and slashAmount is taken from its self-stake.
func (v *ValidatorSet) ExecSlash(id ronin.Address, newJailedUntil uint64, slashAmount *uint256.Int, cannotBailout bool) error {
	if err := dpos.OnlyContract(v.env, v.linker, dpos.ContractSlashIndicator, sig("execSlash")); err != nil {
		return err
	}
	period, err := v.CurrentPeriod()
	if err != nil {
		return err
	}
	if err := v.miningDeprecated.Set(solidity.Pair(id, solidity.Uint64Key(period)), true); err != nil {
		return err
	}

	jailedUntil, err := v.jailedUntil.Get(id)
	if err != nil {
		return err
	}
	if newJailedUntil > jailedUntil {
		jailedUntil = newJailedUntil
		if err := v.jailedUntil.Set(id, jailedUntil); err != nil {
			return err
		}
	}

	deducted := new(uint256.Int)
	if slashAmount != nil && !slashAmount.IsZero() {
		staking, err := v.staking(nil)
		if err != nil {
			return err
		}
		if deducted, err = staking.DeductStakingAmount(id, slashAmount); err != nil {
			return err
		}
		if err := v.deprecate(deducted); err != nil {
			return err
		}
	}
	logger.Debug("validator punished", "id", id, "period", period, "jailedUntil", jailedUntil, "deducted", deducted)
	v.env.Log(evValidatorPunished, id, period, jailedUntil, deducted, true, cannotBailout)
	return nil
}

func (v *ValidatorSet) jailedAt(id ronin.Address, block uint64) (bool, error) {
	until, err := v.jailedUntil.Get(id)
	if err != nil {
		return false, err
	}
	return until != 0 && block <= until, nil
}

// GetJailedTimeLeft returns whether id is jailed at the current block and how
// many blocks and epochs are left until it is released.
func (v *ValidatorSet) GetJailedTimeLeft(id ronin.Address) (jailed bool, blockLeft, epochLeft uint64, err error) {
	block := v.env.BlockContext().Number
	until, err := v.jailedUntil.Get(id)
	if err != nil {
		return false, 0, 0, err
	}
	if until == 0 || block > until {
		return false, 0, 0, nil
	}
	untilEpoch, err := v.EpochOf(until)
	if err != nil {
		return false, 0, 0, err
	}
	epoch, err := v.EpochOf(block)
	if err != nil {
		return false, 0, 0, err
	}
	return true, until - block + 1, untilEpoch + 1 - epoch, nil
}

// CheckMiningRewardDeprecated reports whether the rewards of id in the current
// period are deprecated.
func (v *ValidatorSet) CheckMiningRewardDeprecated(id ronin.Address) (bool, error) {
	period, err := v.CurrentPeriod()
	if err != nil {
		return false, err
	}
	return v.miningDeprecated.Get(solidity.Pair(id, solidity.Uint64Key(period)))
}
