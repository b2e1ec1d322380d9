// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package validators serves the validator set, candidates and their rewards.
package validators

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/api/utils"
	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/runtime"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/xenv"
)

type contract struct {
	Name    string
	ABI     *abi.ABI
	Address ronin.Address
}

var (
	validatorSet   = &contract{builtin.ValidatorSet.Name(), builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address}
	staking        = &contract{builtin.Staking.Name(), builtin.Staking.ABI, builtin.Staking.Address}
	fastFinality   = &contract{builtin.FastFinality.Name(), builtin.FastFinality.ABI, builtin.FastFinality.Address}
	slashIndicator = &contract{builtin.SlashIndicator.Name(), builtin.SlashIndicator.ABI, builtin.SlashIndicator.Address}
)

type Validators struct {
	repo   *chain.Repository
	stater *state.Stater
}

func New(repo *chain.Repository, stater *state.Stater) *Validators {
	return &Validators{
		repo,
		stater,
	}
}

// reader runs the views of one request on a single state.
type reader struct {
	rt  *runtime.Runtime
	err error
}

func (v *Validators) newReader(header *block.Header) *reader {
	return &reader{
		rt: runtime.New(v.stater.NewState(header.StateRoot()), &xenv.BlockContext{
			Number:   header.Number(),
			Time:     header.Timestamp(),
			Coinbase: header.Coinbase(),
		}),
	}
}

// view keeps the first error, later views are skipped.
func (r *reader) view(c *contract, method string, out any, args ...any) {
	if r.err != nil {
		return
	}
	if err := chain.View(r.rt, c.ABI, c.Address, method, out, args...); err != nil {
		r.err = errors.WithMessagef(err, "%v.%v", c.Name, method)
	}
}

func (r *reader) uint64(c *contract, method string, args ...any) uint64 {
	var n *big.Int
	r.view(c, method, &n, args...)
	if n == nil {
		return 0
	}
	return n.Uint64()
}

func (r *reader) addresses(c *contract, method string) []ronin.Address {
	var list []common.Address
	r.view(c, method, &list)
	return toAddresses(list)
}

func (r *reader) candidate(consensus ronin.Address, epoch uint64, validators, producers []ronin.Address) *Candidate {
	var (
		info    candidateInfo
		jail    jailedTimeLeft
		pending pendingReward
		total   *big.Int
		depr    bool
		votes   []*big.Int
	)
	r.view(validatorSet, "getCandidateInfo", &info, consensus)
	r.view(staking, "getStakingTotal", &total, consensus)
	r.view(validatorSet, "getJailedTimeLeft", &jail, consensus)
	r.view(validatorSet, "checkMiningRewardDeprecated", &depr, consensus)
	r.view(validatorSet, "pendingReward", &pending, consensus)
	r.view(fastFinality, "getManyFinalityVoteCounts", &votes, new(big.Int).SetUint64(epoch), []common.Address{common.Address(consensus)})
	unavailability := r.uint64(slashIndicator, "currentUnavailabilityIndicator", consensus)
	if r.err != nil {
		return nil
	}

	c := &Candidate{
		Consensus:         consensus,
		Admin:             ronin.Address(info.Admin),
		Treasury:          ronin.Address(info.Treasury),
		CommissionRate:    info.CommissionRate.Uint64(),
		RevokingTimestamp: info.RevokingTimestamp.Uint64(),
		StakingTotal:      hexOrDecimal(total),
		IsValidator:       contains(validators, consensus),
		IsBlockProducer:   contains(producers, consensus),
		Jailed:            jail.IsJailed,
		RewardDeprecated:  depr,
		Unavailability:    unavailability,
		PendingReward: PendingReward{
			Mining:       hexOrDecimal(pending.Mining),
			Delegating:   hexOrDecimal(pending.Delegating),
			FastFinality: hexOrDecimal(pending.FastFinality),
		},
	}
	if jail.BlockLeft != nil {
		c.JailedBlockLeft = jail.BlockLeft.Uint64()
	}
	if len(votes) == 1 {
		c.FinalityVotes = votes[0].Uint64()
	}
	return c
}

func (v *Validators) summary() (*Summary, error) {
	header := v.repo.BestBlockSummary().Header
	r := v.newReader(header)

	var deprecated *big.Int
	s := &Summary{
		BlockID:            header.ID(),
		BlockNumber:        header.Number(),
		Epoch:              r.uint64(validatorSet, "currentEpoch"),
		Period:             r.uint64(validatorSet, "currentPeriod"),
		PeriodStartAtBlock: r.uint64(validatorSet, "currentPeriodStartAtBlock"),
		Validators:         r.addresses(validatorSet, "getValidators"),
		BlockProducers:     r.addresses(validatorSet, "getBlockProducers"),
	}
	r.view(validatorSet, "totalDeprecatedReward", &deprecated)
	s.TotalDeprecatedReward = hexOrDecimal(deprecated)

	for _, consensus := range r.addresses(validatorSet, "getValidatorCandidates") {
		if c := r.candidate(consensus, s.Epoch, s.Validators, s.BlockProducers); c != nil {
			s.Candidates = append(s.Candidates, c)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

func (v *Validators) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	s, err := v.summary()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, s)
}

func (v *Validators) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	consensus, err := ronin.ParseAddress(mux.Vars(req)["consensus"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "consensus"))
	}
	r := v.newReader(v.repo.BestBlockSummary().Header)

	var isCandidate bool
	r.view(validatorSet, "isValidatorCandidate", &isCandidate, *consensus)
	if r.err != nil {
		return r.err
	}
	if !isCandidate {
		return utils.WriteJSON(w, nil)
	}
	var (
		epoch      = r.uint64(validatorSet, "currentEpoch")
		validators = r.addresses(validatorSet, "getValidators")
		producers  = r.addresses(validatorSet, "getBlockProducers")
		c          = r.candidate(*consensus, epoch, validators, producers)
	)
	if r.err != nil {
		return r.err
	}
	return utils.WriteJSON(w, c)
}

func (v *Validators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("validators_get_summary").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetSummary))
	sub.Path("/{consensus}").
		Methods(http.MethodGet).
		Name("validators_get_candidate").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetCandidate))
}
