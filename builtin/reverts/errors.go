// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// Access control.
var (
	ErrUnauthorized           = NewDef("ErrUnauthorized", "bytes4", "uint8")
	ErrUnexpectedInternalCall = NewDef("ErrUnexpectedInternalCall", "bytes4", "uint8", "address")
	ErrOnlyPoolAdminAllowed   = NewDef("ErrOnlyPoolAdminAllowed")
	ErrPoolAdminForbidden     = NewDef("ErrPoolAdminForbidden")
	ErrCallerMustBeCoinbase   = NewDef("ErrCallerMustBeCoinbase")
	ErrAlreadyInitialized     = NewDef("ErrAlreadyInitialized", "uint8")
	ErrInvalidArguments       = NewDef("ErrInvalidArguments", "bytes4")
	ErrZeroCodeContract       = NewDef("ErrZeroCodeContract", "address")
)

// Identity registry.
var (
	ErrLookUpIdFailed                = NewDef("ErrLookUpIdFailed", "address")
	ErrExistentProfile               = NewDef("ErrExistentProfile")
	ErrNonExistentProfile            = NewDef("ErrNonExistentProfile")
	ErrProfileChangeCooldownNotEnded = NewDef("ErrProfileChangeCooldownNotEnded")
	ErrDuplicatedInfo                = NewDef("ErrDuplicatedInfo", "uint8", "uint256")
	ErrDuplicatedPubkey              = NewDef("ErrDuplicatedPubkey", "bytes")
	ErrZeroPubkey                    = NewDef("ErrZeroPubkey")
	ErrInvalidProofOfPossession      = NewDef("ErrInvalidProofOfPossession", "bytes", "bytes")
)

// Staking.
var (
	ErrInsufficientStakingAmount          = NewDef("ErrInsufficientStakingAmount")
	ErrInsufficientDelegatingAmount       = NewDef("ErrInsufficientDelegatingAmount")
	ErrInactivePool                       = NewDef("ErrInactivePool", "address")
	ErrAdminOfAnyActivePoolForbidden      = NewDef("ErrAdminOfAnyActivePoolForbidden", "address")
	ErrInvalidCommissionRate              = NewDef("ErrInvalidCommissionRate")
	ErrStakingAmountLeft                  = NewDef("ErrStakingAmountLeft")
	ErrUnstakeZeroAmount                  = NewDef("ErrUnstakeZeroAmount")
	ErrUnstakeTooEarly                    = NewDef("ErrUnstakeTooEarly")
	ErrUndelegateZeroAmount               = NewDef("ErrUndelegateZeroAmount")
	ErrUndelegateTooEarly                 = NewDef("ErrUndelegateTooEarly")
	ErrCannotRedelegateToSamePool         = NewDef("ErrCannotRedelegateToSamePool")
	ErrInvalidArrays                      = NewDef("ErrInvalidArrays")
	ErrZeroValue                          = NewDef("ErrZeroValue")
	ErrRecipientRevert                    = NewDef("ErrRecipientRevert", "bytes4")
	ErrInsufficientBalance                = NewDef("ErrInsufficientBalance", "bytes4", "uint256", "uint256")
	ErrThreeInteractionAddrsNotEqual      = NewDef("ErrThreeInteractionAddrsNotEqual")
	ErrInvalidPoolShare                   = NewDef("ErrInvalidPoolShare")
	ErrAlreadyRequestedRenouncing         = NewDef("ErrAlreadyRequestedRenouncing")
	ErrAlreadyRequestedUpdatingCommission = NewDef("ErrAlreadyRequestedUpdatingCommissionRate")
	ErrInvalidEffectiveDaysOnwards        = NewDef("ErrInvalidEffectiveDaysOnwards")
	ErrInvalidMinEffectiveDaysOnwards     = NewDef("ErrInvalidMinEffectiveDaysOnwards")
)

// Validator set and epochs.
var (
	ErrExceedsMaxNumberOfCandidate = NewDef("ErrExceedsMaxNumberOfCandidate")
	ErrExistentCandidate           = NewDef("ErrExistentCandidate")
	ErrNonExistentCandidate        = NewDef("ErrNonExistentCandidate")
	ErrAtEndOfEpochOnly            = NewDef("ErrAtEndOfEpochOnly")
	ErrAlreadyWrappedEpoch         = NewDef("ErrAlreadyWrappedEpoch")
	ErrInvalidMaxPrioritizedNumber = NewDef("ErrInvalidMaxPrioritizedValidatorNumber")
)

// Vesting, finality and slashing.
var (
	ErrBonusAlreadySent = NewDef("ErrBonusAlreadySent")
	ErrOncePerBlock     = NewDef("ErrOncePerBlock")
	ErrInvalidThreshold = NewDef("ErrInvalidThreshold", "bytes4")
	ErrSlashTwice       = NewDef("ErrCannotSlashAValidatorTwiceOrSlashMoreThanOneValidatorInOneBlock")
	ErrInvalidRatios    = NewDef("ErrInvalidRatios", "bytes4")
)

// Trusted organizations and governance.
var (
	ErrInvalidVoteWeight                   = NewDef("ErrInvalidVoteWeight", "bytes4")
	ErrConsensusAddressIsAlreadyAdded      = NewDef("ErrConsensusAddressIsAlreadyAdded", "address")
	ErrGovernorAddressIsAlreadyAdded       = NewDef("ErrGovernorAddressIsAlreadyAdded", "address")
	ErrQueryForNonExistentConsensusAddress = NewDef("ErrQueryForNonExistentConsensusAddress")
	ErrEmptyArray                          = NewDef("ErrEmptyArray")
	ErrLengthMismatch                      = NewDef("ErrLengthMismatch", "bytes4")
	ErrInsufficientGas                     = NewDef("ErrInsufficientGas", "bytes32")
	ErrInvalidProposal                     = NewDef("ErrInvalidProposal", "bytes32", "bytes32")
)

// All lists every declared custom error, used to render contract ABIs.
var All = []*Def{
	ErrUnauthorized, ErrUnexpectedInternalCall, ErrOnlyPoolAdminAllowed, ErrPoolAdminForbidden,
	ErrCallerMustBeCoinbase, ErrAlreadyInitialized, ErrInvalidArguments, ErrZeroCodeContract,
	ErrLookUpIdFailed, ErrExistentProfile, ErrNonExistentProfile, ErrProfileChangeCooldownNotEnded,
	ErrDuplicatedInfo, ErrDuplicatedPubkey, ErrZeroPubkey, ErrInvalidProofOfPossession,
	ErrInsufficientStakingAmount, ErrInsufficientDelegatingAmount, ErrInactivePool,
	ErrAdminOfAnyActivePoolForbidden, ErrInvalidCommissionRate, ErrStakingAmountLeft,
	ErrUnstakeZeroAmount, ErrUnstakeTooEarly, ErrUndelegateZeroAmount, ErrUndelegateTooEarly,
	ErrCannotRedelegateToSamePool, ErrInvalidArrays, ErrZeroValue, ErrRecipientRevert, ErrInsufficientBalance,
	ErrThreeInteractionAddrsNotEqual, ErrInvalidPoolShare, ErrAlreadyRequestedRenouncing,
	ErrAlreadyRequestedUpdatingCommission, ErrInvalidEffectiveDaysOnwards, ErrInvalidMinEffectiveDaysOnwards,
	ErrExceedsMaxNumberOfCandidate, ErrExistentCandidate, ErrNonExistentCandidate, ErrAtEndOfEpochOnly,
	ErrAlreadyWrappedEpoch, ErrInvalidMaxPrioritizedNumber, ErrBonusAlreadySent, ErrOncePerBlock,
	ErrInvalidThreshold, ErrSlashTwice, ErrInvalidRatios, ErrInvalidVoteWeight,
	ErrConsensusAddressIsAlreadyAdded, ErrGovernorAddressIsAlreadyAdded,
	ErrQueryForNonExistentConsensusAddress, ErrEmptyArray, ErrLengthMismatch, ErrInsufficientGas,
	ErrInvalidProposal,
}
