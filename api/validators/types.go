// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/ronin-chain/dpos-contract/ronin"
)

type PendingReward struct {
	Mining       *math.HexOrDecimal256 `json:"mining"`
	Delegating   *math.HexOrDecimal256 `json:"delegating"`
	FastFinality *math.HexOrDecimal256 `json:"fastFinality"`
}

// Candidate is a validator candidate as seen at the best block.
type Candidate struct {
	Consensus         ronin.Address         `json:"consensus"`
	Admin             ronin.Address         `json:"admin"`
	Treasury          ronin.Address         `json:"treasury"`
	CommissionRate    uint64                `json:"commissionRate"`
	RevokingTimestamp uint64                `json:"revokingTimestamp"`
	StakingTotal      *math.HexOrDecimal256 `json:"stakingTotal"`
	IsValidator       bool                  `json:"isValidator"`
	IsBlockProducer   bool                  `json:"isBlockProducer"`
	Jailed            bool                  `json:"jailed"`
	JailedBlockLeft   uint64                `json:"jailedBlockLeft"`
	RewardDeprecated  bool                  `json:"rewardDeprecated"`
	// Unavailability is the number of missed blocks in the current period.
	Unavailability uint64        `json:"unavailability"`
	FinalityVotes  uint64        `json:"finalityVotes"`
	PendingReward  PendingReward `json:"pendingReward"`
}

// Summary is the dpos state at the best block.
type Summary struct {
	BlockID               ronin.Bytes32         `json:"blockID"`
	BlockNumber           uint64                `json:"blockNumber"`
	Epoch                 uint64                `json:"epoch"`
	Period                uint64                `json:"period"`
	PeriodStartAtBlock    uint64                `json:"periodStartAtBlock"`
	TotalDeprecatedReward *math.HexOrDecimal256 `json:"totalDeprecatedReward"`
	Validators            []ronin.Address       `json:"validators"`
	BlockProducers        []ronin.Address       `json:"blockProducers"`
	Candidates            []*Candidate          `json:"candidates"`
}

// decode targets, field names follow the abi output names

type candidateInfo struct {
	Admin             common.Address
	Consensus         common.Address
	Treasury          common.Address
	CommissionRate    *big.Int
	RevokingTimestamp *big.Int
}

type jailedTimeLeft struct {
	IsJailed  bool
	BlockLeft *big.Int
	EpochLeft *big.Int
}

type pendingReward struct {
	Mining       *big.Int
	Delegating   *big.Int
	FastFinality *big.Int
}

func hexOrDecimal(b *big.Int) *math.HexOrDecimal256 {
	if b == nil {
		b = new(big.Int)
	}
	return (*math.HexOrDecimal256)(b)
}

func toAddresses(list []common.Address) []ronin.Address {
	addrs := make([]ronin.Address, 0, len(list))
	for _, a := range list {
		addrs = append(addrs, ronin.Address(a))
	}
	return addrs
}

func contains(list []ronin.Address, addr ronin.Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}
