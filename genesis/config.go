// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Config is the user customized genesis.
type Config struct {
	LaunchTime uint64    `yaml:"launchTime" toml:"launchTime"`
	Accounts   []Account `yaml:"accounts" toml:"accounts"`

	Profile      ProfileParams      `yaml:"profile" toml:"profile"`
	Staking      StakingParams      `yaml:"staking" toml:"staking"`
	ValidatorSet ValidatorSetParams `yaml:"validatorSet" toml:"validatorSet"`
	Vesting      VestingParams      `yaml:"vesting" toml:"vesting"`
	Slashing     SlashingParams     `yaml:"slashing" toml:"slashing"`

	TrustedOrganizations []TrustedOrganization `yaml:"trustedOrganizations" toml:"trustedOrganizations"`
	Candidates           []Candidate           `yaml:"candidates" toml:"candidates"`

	// Overrides replaces the defaults of named config variables, for devnets.
	Overrides map[string]uint64 `yaml:"overrides" toml:"overrides"`
}

// Account is the account will set to the genesis block
type Account struct {
	Address ronin.Address         `yaml:"address" toml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance" toml:"balance"`
}

type ProfileParams struct {
	Cooldown           uint64 `yaml:"cooldown" toml:"cooldown"`
	PubkeyVerification bool   `yaml:"pubkeyVerification" toml:"pubkeyVerification"`
}

type StakingParams struct {
	MinValidatorStakingAmount *math.HexOrDecimal256 `yaml:"minValidatorStakingAmount" toml:"minValidatorStakingAmount"`
	MinCommissionRate         uint64                `yaml:"minCommissionRate" toml:"minCommissionRate"`
	MaxCommissionRate         uint64                `yaml:"maxCommissionRate" toml:"maxCommissionRate"`
	CooldownSecsToUndelegate  uint64                `yaml:"cooldownSecsToUndelegate" toml:"cooldownSecsToUndelegate"`
	WaitingSecsToRevoke       uint64                `yaml:"waitingSecsToRevoke" toml:"waitingSecsToRevoke"`
	MinEffectiveDaysOnwards   uint64                `yaml:"minEffectiveDaysOnwards" toml:"minEffectiveDaysOnwards"`
}

type ValidatorSetParams struct {
	MaxValidatorNumber            uint64 `yaml:"maxValidatorNumber" toml:"maxValidatorNumber"`
	MaxValidatorCandidate         uint64 `yaml:"maxValidatorCandidate" toml:"maxValidatorCandidate"`
	MaxPrioritizedValidatorNumber uint64 `yaml:"maxPrioritizedValidatorNumber" toml:"maxPrioritizedValidatorNumber"`
	NumberOfBlocksInEpoch         uint64 `yaml:"numberOfBlocksInEpoch" toml:"numberOfBlocksInEpoch"`
}

type VestingParams struct {
	BlockProducerBonusPerBlock   *math.HexOrDecimal256 `yaml:"blockProducerBonusPerBlock" toml:"blockProducerBonusPerBlock"`
	FastFinalityRewardPercentage uint64                `yaml:"fastFinalityRewardPercentage" toml:"fastFinalityRewardPercentage"`
	// Balance is minted to the vesting contract.
	Balance *math.HexOrDecimal256 `yaml:"balance" toml:"balance"`
}

// SlashingParams left zero fall back to the slashing defaults.
type SlashingParams struct {
	Tier1Threshold uint64 `yaml:"tier1Threshold" toml:"tier1Threshold"`
	Tier2Threshold uint64 `yaml:"tier2Threshold" toml:"tier2Threshold"`
	SlashAmount    uint64 `yaml:"slashAmount" toml:"slashAmount"`
	JailDuration   uint64 `yaml:"jailDuration" toml:"jailDuration"`
}

type TrustedOrganization struct {
	Consensus ronin.Address `yaml:"consensus" toml:"consensus"`
	Governor  ronin.Address `yaml:"governor" toml:"governor"`
	Weight    uint64        `yaml:"weight" toml:"weight"`
}

// Candidate is a validator candidate applied at genesis. The admin must be funded
// with at least the stake.
type Candidate struct {
	Admin             ronin.Address         `yaml:"admin" toml:"admin"`
	Consensus         ronin.Address         `yaml:"consensus" toml:"consensus"`
	CommissionRate    uint64                `yaml:"commissionRate" toml:"commissionRate"`
	Stake             *math.HexOrDecimal256 `yaml:"stake" toml:"stake"`
	Pubkey            hexutil.Bytes         `yaml:"pubkey" toml:"pubkey"`
	ProofOfPossession hexutil.Bytes         `yaml:"proofOfPossession" toml:"proofOfPossession"`
}

func bigOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}

// LoadConfig reads a YAML or TOML genesis file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, errors.Wrap(err, "decode yaml genesis")
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Wrap(err, "decode toml genesis")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode toml genesis: unknown keys %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported genesis file extension %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks what the contracts would otherwise reject halfway through genesis.
func (c *Config) Validate() error {
	if c.ValidatorSet.NumberOfBlocksInEpoch == 0 {
		return errors.New("validatorSet.numberOfBlocksInEpoch must not be 0")
	}
	if c.ValidatorSet.MaxValidatorNumber == 0 {
		return errors.New("validatorSet.maxValidatorNumber must not be 0")
	}
	if c.ValidatorSet.MaxPrioritizedValidatorNumber > c.ValidatorSet.MaxValidatorNumber {
		return errors.New("validatorSet.maxPrioritizedValidatorNumber exceeds maxValidatorNumber")
	}
	if c.Staking.MinCommissionRate > c.Staking.MaxCommissionRate || c.Staking.MaxCommissionRate > ronin.MaxPercentage {
		return errors.New("staking commission rate range is invalid")
	}
	if c.Vesting.FastFinalityRewardPercentage > ronin.MaxPercentage {
		return errors.New("vesting.fastFinalityRewardPercentage exceeds 100%")
	}
	for _, a := range c.Accounts {
		if bigOf(a.Balance).Sign() < 1 {
			return fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
	}
	seen := make(map[ronin.Address]bool)
	for _, cand := range c.Candidates {
		if cand.Admin.IsZero() || cand.Consensus.IsZero() {
			return errors.New("candidate admin and consensus must be set")
		}
		if seen[cand.Consensus] {
			return fmt.Errorf("%s: duplicated candidate", cand.Consensus)
		}
		seen[cand.Consensus] = true
		if bigOf(cand.Stake).Sign() < 1 {
			return fmt.Errorf("%s: stake must be a non-zero integer", cand.Consensus)
		}
	}
	return nil
}
