// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slashing implements the unavailability slash indicator. The coinbase
// reports validators that missed their turn, each report counts against the
// validator in the current period and crossing a tier threshold punishes it
// through the validator set.
package slashing

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/metrics"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

const ContractName = "SlashIndicator"

// SlashType is reported in the Slashed event.
type SlashType uint8

const (
	SlashUnknown SlashType = iota
	SlashUnavailabilityTier1
	SlashUnavailabilityTier2
)

func (s SlashType) String() string {
	switch s {
	case SlashUnavailabilityTier1:
		return "tier1"
	case SlashUnavailabilityTier2:
		return "tier2"
	default:
		return "unknown"
	}
}

// Unavailability slashing parameters. Devnets may override the defaults.
var (
	Tier1Threshold = solidity.NewConfigVariable("slash-tier1-threshold", 50)
	Tier2Threshold = solidity.NewConfigVariable("slash-tier2-threshold", 150)
	// SlashAmount is in wei, 1 RON by default.
	SlashAmount  = solidity.NewConfigVariable("slash-tier2-amount", 1_000_000_000_000_000_000)
	JailDuration = solidity.NewConfigVariable("slash-tier2-jail-blocks", 28800)
)

// ConfigVariables lists the slashing parameters a genesis may override.
func ConfigVariables() []*solidity.ConfigVariable {
	return []*solidity.ConfigVariable{Tier1Threshold, Tier2Threshold, SlashAmount, JailDuration}
}

func init() {
	for _, v := range ConfigVariables() {
		solidity.Slot(ContractName, v.Name(), "uint256")
	}
}

var (
	logger = log.WithContext("pkg", "slashing")

	metricSlashes = metrics.LazyLoadCounterVec("slash_count", []string{"tier"})

	slotIndicators       = solidity.Slot(ContractName, "slash-unavailability-indicators", "mapping(bytes32 => uint256)")
	slotLastSlashedBlock = solidity.Slot(ContractName, "slash-last-slashed-block", "uint256")

	evSlashed                              = gen.MustEvent(ContractName, "Slashed")
	evUnavailabilitySlashingConfigsUpdated = gen.MustEvent(ContractName, "UnavailabilitySlashingConfigsUpdated")
)

func sig(method string) [4]byte {
	return gen.MustMethodID(ContractName, method)
}

// Configs is the set of unavailability slashing parameters.
type Configs struct {
	Tier1Threshold uint64
	Tier2Threshold uint64
	SlashAmount    uint64
	JailDuration   uint64
}

// Indicator implements the native methods of the `SlashIndicator` contract.
type Indicator struct {
	env    *xenv.Environment
	linker dpos.Linker
	sctx   *solidity.Context

	initializable    *solidity.Initializable
	lastSlashedBlock *solidity.Uint256
	// indicators is keyed by (id, period)
	indicators *solidity.Mapping[ronin.Bytes32, uint64]
}

func New(env *xenv.Environment, linker dpos.Linker) *Indicator {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &Indicator{
		env:              env,
		linker:           linker,
		sctx:             sctx,
		initializable:    solidity.NewInitializable(sctx),
		lastSlashedBlock: solidity.NewUint256(sctx, slotLastSlashedBlock),
		indicators:       solidity.NewMapping[ronin.Bytes32, uint64](sctx, slotIndicators),
	}
}

func (s *Indicator) Initialize(configs Configs) error {
	if err := s.initializable.Reinitialize(1); err != nil {
		return err
	}
	return s.setConfigs(configs)
}

func indicatorKey(id ronin.Address, period uint64) ronin.Bytes32 {
	return solidity.Pair(id, solidity.Uint64Key(period))
}

// SlashUnavailability counts one missed block against the validator behind
// consensus. Only one validator may be reported per block.
func (s *Indicator) SlashUnavailability(consensus ronin.Address) error {
	if err := dpos.OnlyCoinbase(s.env); err != nil {
		return err
	}
	block := s.env.BlockContext().Number
	last, err := s.lastSlashedBlock.Uint64()
	if err != nil {
		return err
	}
	if last == block && block != 0 {
		return reverts.ErrSlashTwice
	}
	if err := s.lastSlashedBlock.SetUint64(block); err != nil {
		return err
	}

	profiles, err := s.linker.Profiles(s.env, nil)
	if err != nil {
		return err
	}
	id, err := profiles.Resolve(consensus, dpos.ByConsensus)
	if err != nil {
		return err
	}
	validators, err := s.linker.ValidatorSet(s.env, nil)
	if err != nil {
		return err
	}
	period, err := validators.CurrentPeriod()
	if err != nil {
		return err
	}

	key := indicatorKey(id, period)
	count, err := s.indicators.Get(key)
	if err != nil {
		return err
	}
	count++
	if err := s.indicators.Set(key, count); err != nil {
		return err
	}

	configs, err := s.GetUnavailabilitySlashingConfigs()
	if err != nil {
		return err
	}
	var slashType SlashType
	switch count {
	case configs.Tier2Threshold:
		slashType = SlashUnavailabilityTier2
		err = validators.ExecSlash(id, block+configs.JailDuration, uint256.NewInt(configs.SlashAmount), false)
	case configs.Tier1Threshold:
		slashType = SlashUnavailabilityTier1
		err = validators.ExecSlash(id, 0, new(uint256.Int), false)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	metricSlashes().AddWithLabel(1, map[string]string{"tier": slashType.String()})
	logger.Info("validator slashed", "id", id, "tier", slashType, "period", period, "count", count)
	s.env.Log(evSlashed, id, uint8(slashType), period)
	return nil
}

// CurrentUnavailabilityIndicator returns the missed blocks of the validator
// behind consensus in the current period.
func (s *Indicator) CurrentUnavailabilityIndicator(consensus ronin.Address) (uint64, error) {
	validators, err := s.linker.ValidatorSet(s.env, nil)
	if err != nil {
		return 0, err
	}
	period, err := validators.CurrentPeriod()
	if err != nil {
		return 0, err
	}
	return s.GetUnavailabilityIndicator(consensus, period)
}

func (s *Indicator) GetUnavailabilityIndicator(consensus ronin.Address, period uint64) (uint64, error) {
	profiles, err := s.linker.Profiles(s.env, nil)
	if err != nil {
		return 0, err
	}
	id, err := profiles.Resolve(consensus, dpos.ByConsensus)
	if err != nil {
		return 0, err
	}
	return s.indicators.Get(indicatorKey(id, period))
}

func (s *Indicator) GetUnavailabilitySlashingConfigs() (*Configs, error) {
	var (
		c   Configs
		err error
	)
	for _, f := range []struct {
		v   *solidity.ConfigVariable
		dst *uint64
	}{
		{Tier1Threshold, &c.Tier1Threshold},
		{Tier2Threshold, &c.Tier2Threshold},
		{SlashAmount, &c.SlashAmount},
		{JailDuration, &c.JailDuration},
	} {
		if *f.dst, err = f.v.Get(s.sctx); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (s *Indicator) SetUnavailabilitySlashingConfigs(configs Configs) error {
	if err := dpos.OnlyAdmin(s.env, s.linker, sig("setUnavailabilitySlashingConfigs")); err != nil {
		return err
	}
	return s.setConfigs(configs)
}

func (s *Indicator) setConfigs(c Configs) error {
	if c.Tier1Threshold == 0 || c.Tier1Threshold >= c.Tier2Threshold {
		return reverts.ErrInvalidThreshold.New(sig("setUnavailabilitySlashingConfigs"))
	}
	for _, f := range []struct {
		v     *solidity.ConfigVariable
		value uint64
	}{
		{Tier1Threshold, c.Tier1Threshold},
		{Tier2Threshold, c.Tier2Threshold},
		{SlashAmount, c.SlashAmount},
		{JailDuration, c.JailDuration},
	} {
		if err := f.v.Set(s.sctx, f.value); err != nil {
			return err
		}
	}
	s.env.Log(evUnavailabilitySlashingConfigsUpdated, c.Tier1Threshold, c.Tier2Threshold, c.SlashAmount, c.JailDuration)
	return nil
}
