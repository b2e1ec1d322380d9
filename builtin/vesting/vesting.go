// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vesting implements the staking vesting source: it funds a fixed bonus
// per produced block and holds the fast finality percentage of block rewards.
package vesting

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

const ContractName = "StakingVesting"

var (
	logger = log.WithContext("pkg", "vesting")

	slotBonusPerBlock     = solidity.Slot(ContractName, "vesting-bonus-per-block", "uint256")
	slotFastFinalityRatio = solidity.Slot(ContractName, "vesting-fast-finality-percentage", "uint256")
	slotLastBonusBlock    = solidity.Slot(ContractName, "vesting-last-bonus-block", "uint256")

	evBonusTransferred                    = gen.MustEvent(ContractName, "BonusTransferred")
	evBonusTransferFailed                 = gen.MustEvent(ContractName, "BonusTransferFailed")
	evBlockProducerBonusPerBlockUpdated   = gen.MustEvent(ContractName, "BlockProducerBonusPerBlockUpdated")
	evFastFinalityRewardPercentageUpdated = gen.MustEvent(ContractName, "FastFinalityRewardPercentageUpdated")
)

func sig(method string) [4]byte {
	return gen.MustMethodID(ContractName, method)
}

// Vesting implements the native methods of the `StakingVesting` contract.
type Vesting struct {
	env    *xenv.Environment
	linker dpos.Linker

	initializable  *solidity.Initializable
	bonusPerBlock  *solidity.Uint256
	fastFinality   *solidity.Uint256
	lastBonusBlock *solidity.Uint256
}

func New(env *xenv.Environment, linker dpos.Linker) *Vesting {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &Vesting{
		env:            env,
		linker:         linker,
		initializable:  solidity.NewInitializable(sctx),
		bonusPerBlock:  solidity.NewUint256(sctx, slotBonusPerBlock),
		fastFinality:   solidity.NewUint256(sctx, slotFastFinalityRatio),
		lastBonusBlock: solidity.NewUint256(sctx, slotLastBonusBlock),
	}
}

var _ dpos.Vesting = (*Vesting)(nil)

// Initialize is payable, the value funds future bonuses.
func (v *Vesting) Initialize(bonusPerBlock *uint256.Int, fastFinalityPercentage uint64) error {
	if err := v.initializable.Reinitialize(1); err != nil {
		return err
	}
	if err := v.setBonusPerBlock(bonusPerBlock); err != nil {
		return err
	}
	return v.setFastFinalityRewardPercentage(fastFinalityPercentage)
}

// Receive accepts funds, such as recycled rewards.
func (v *Vesting) Receive() error {
	logger.Debug("received", "from", v.env.Caller(), "value", v.env.Value())
	return nil
}

// RequestBonus pays the block producer bonus to the validator set. It may be
// requested once per block, a shortfall in balance is reported but not fatal.
func (v *Vesting) RequestBonus(forBlockProducer bool) (bool, *uint256.Int, error) {
	if err := dpos.OnlyContract(v.env, v.linker, dpos.ContractValidator, sig("requestBonus")); err != nil {
		return false, nil, err
	}
	block := v.env.BlockContext().Number
	last, err := v.lastBonusBlock.Uint64()
	if err != nil {
		return false, nil, err
	}
	if last == block && block != 0 {
		return false, nil, reverts.ErrBonusAlreadySent
	}
	if err := v.lastBonusBlock.SetUint64(block); err != nil {
		return false, nil, err
	}

	bonus := new(uint256.Int)
	if forBlockProducer {
		if bonus, err = v.bonusPerBlock.Get(); err != nil {
			return false, nil, err
		}
	}
	if bonus.IsZero() {
		return true, bonus, nil
	}

	recipient := v.env.Caller()
	balance, err := v.env.State().GetBalance(v.env.To())
	if err != nil {
		return false, nil, err
	}
	if balance.Lt(bonus) {
		logger.Warn("bonus transfer failed", "block", block, "bonus", bonus, "balance", balance)
		v.env.Log(evBonusTransferFailed, block, recipient, bonus, balance)
		return false, new(uint256.Int), nil
	}
	if err := v.env.Transfer(recipient, bonus); err != nil {
		return false, nil, err
	}
	v.env.Log(evBonusTransferred, block, recipient, bonus)
	return true, bonus, nil
}

func (v *Vesting) BlockProducerBonusPerBlock() (*uint256.Int, error) {
	return v.bonusPerBlock.Get()
}

// FastFinalityRewardPercentage is expressed in basis points.
func (v *Vesting) FastFinalityRewardPercentage() (uint64, error) {
	return v.fastFinality.Uint64()
}

func (v *Vesting) LastBlockSendingBonus() (uint64, error) {
	return v.lastBonusBlock.Uint64()
}

func (v *Vesting) SetBlockProducerBonusPerBlock(amount *uint256.Int) error {
	if err := dpos.OnlyAdmin(v.env, v.linker, sig("setBlockProducerBonusPerBlock")); err != nil {
		return err
	}
	return v.setBonusPerBlock(amount)
}

func (v *Vesting) SetFastFinalityRewardPercentage(percentage uint64) error {
	if err := dpos.OnlyAdmin(v.env, v.linker, sig("setFastFinalityRewardPercentage")); err != nil {
		return err
	}
	return v.setFastFinalityRewardPercentage(percentage)
}

func (v *Vesting) setBonusPerBlock(amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	if err := v.bonusPerBlock.Set(amount); err != nil {
		return err
	}
	v.env.Log(evBlockProducerBonusPerBlockUpdated, amount)
	return nil
}

func (v *Vesting) setFastFinalityRewardPercentage(percentage uint64) error {
	if percentage > ronin.MaxPercentage {
		return reverts.ErrInvalidArguments.New(sig("setFastFinalityRewardPercentage"))
	}
	if err := v.fastFinality.SetUint64(percentage); err != nil {
		return err
	}
	v.env.Log(evFastFinalityRewardPercentageUpdated, percentage)
	return nil
}
