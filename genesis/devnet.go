// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ronin-chain/dpos-contract/builtin/profile"
	"github.com/ronin-chain/dpos-contract/ronin"
)

// DevAccount account for development.
type DevAccount struct {
	Address    ronin.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the devnet.
// The first four administer the devnet candidates, the next four are their
// consensus addresses, then the governor and a delegator.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{ronin.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevCandidates is the number of candidates applied by the devnet.
const DevCandidates = 4

func ether(n int64) *math.HexOrDecimal256 {
	v := new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
	return (*math.HexOrDecimal256)(v)
}

// DevConfig returns the devnet genesis config. Blocks are one epoch per 200,
// every dev account is funded with 1M RON and each consensus key doubles as the
// candidate's vote key.
func DevConfig() *Config {
	accs := DevAccounts()
	cfg := &Config{
		LaunchTime: 1526400000,
		Profile:    ProfileParams{Cooldown: 86400, PubkeyVerification: true},
		Staking: StakingParams{
			MinValidatorStakingAmount: ether(100),
			MinCommissionRate:         0,
			MaxCommissionRate:         ronin.MaxPercentage,
			CooldownSecsToUndelegate:  3 * 86400,
			WaitingSecsToRevoke:       7 * 86400,
			MinEffectiveDaysOnwards:   7,
		},
		ValidatorSet: ValidatorSetParams{
			MaxValidatorNumber:            DevCandidates,
			MaxValidatorCandidate:         64,
			MaxPrioritizedValidatorNumber: 1,
			NumberOfBlocksInEpoch:         200,
		},
		Vesting: VestingParams{
			BlockProducerBonusPerBlock:   ether(1),
			FastFinalityRewardPercentage: 500,
			Balance:                      ether(1_000_000),
		},
		TrustedOrganizations: []TrustedOrganization{
			{Consensus: accs[4].Address, Governor: accs[8].Address, Weight: 100},
		},
	}
	for _, acc := range accs {
		cfg.Accounts = append(cfg.Accounts, Account{Address: acc.Address, Balance: ether(1_000_000)})
	}
	for i := range DevCandidates {
		admin, consensus := accs[i], accs[DevCandidates+i]
		key := secp256k1.PrivKeyFromBytes(crypto.FromECDSA(consensus.PrivateKey))
		pubkey := key.PubKey().SerializeCompressed()
		cfg.Candidates = append(cfg.Candidates, Candidate{
			Admin:             admin.Address,
			Consensus:         consensus.Address,
			CommissionRate:    2000,
			Stake:             ether(1000),
			Pubkey:            pubkey,
			ProofOfPossession: profile.SignProof(key, consensus.Address, pubkey),
		})
	}
	return cfg
}

// NewDevnet create genesis for the devnet.
func NewDevnet() *Genesis {
	gene, err := NewGenesis("devnet", DevConfig())
	if err != nil {
		panic(err)
	}
	return gene
}
