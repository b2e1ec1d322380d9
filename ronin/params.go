// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ronin

import "github.com/holiman/uint256"

// Protocol constants shared by the builtin contracts.
const (
	// MaxPercentage is 100% expressed in basis points.
	MaxPercentage uint64 = 100_00

	// DefaultPeriodDuration is the length of a period in seconds.
	DefaultPeriodDuration uint64 = 86400

	// DefaultBlockInterval is the target block time in seconds.
	DefaultBlockInterval uint64 = 3
)

// RewardPrecision scales accumulated reward per share.
var RewardPrecision = uint256.NewInt(1e18)

// Role identifies which profile field an address plays.
type Role uint8

// Roles mirror the RoleAccess enum of the Ronin contracts.
const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleCoinbase
	RoleGovernor
	RoleCandidateAdmin
	RoleWithdrawalMigrator
	RoleDeprecatedBridgeOperator
	RoleBlockProducer
	RoleValidatorCandidate
	RoleConsensus
	RoleTreasury
)

func (r Role) String() string {
	switch r {
	case RoleConsensus:
		return "consensus"
	case RoleCandidateAdmin:
		return "candidate-admin"
	case RoleTreasury:
		return "treasury"
	case RoleGovernor:
		return "governor"
	default:
		return "unknown"
	}
}

// Gas charged by the native contracts for storage access.
const (
	SloadGas       uint64 = 200
	SstoreSetGas   uint64 = 20000
	SstoreResetGas uint64 = 5000
	GetBalanceGas  uint64 = 400
	LogGas         uint64 = 375
	LogTopicGas    uint64 = 375
	LogDataGas     uint64 = 8
	ClauseGas      uint64 = 16000
)
