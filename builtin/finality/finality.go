// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package finality counts fast finality votes per epoch and candidate id.
package finality

import (
	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/metrics"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// ContractName is the name of the embedded ABI.
const ContractName = "FastFinalityTracking"

var (
	logger = log.WithContext("pkg", "finality")

	metricVotes = metrics.LazyLoadCounter("finality_votes_count")

	slotLastRecordedBlock = solidity.Slot(ContractName, "ff-last-recorded-block", "uint256")
	slotVotes             = solidity.Slot(ContractName, "ff-votes", "mapping(bytes32 => uint256)")

	evFinalityRecorded = gen.MustEvent(ContractName, "FinalityRecorded")
)

func sig(method string) [4]byte {
	return gen.MustMethodID(ContractName, method)
}

// Tracker implements the native methods of the `FastFinalityTracking` contract.
type Tracker struct {
	env    *xenv.Environment
	linker dpos.Linker

	initializable     *solidity.Initializable
	lastRecordedBlock *solidity.Uint256
	// votes is keyed by (epoch, id)
	votes *solidity.Mapping[ronin.Bytes32, uint64]
}

func New(env *xenv.Environment, linker dpos.Linker) *Tracker {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &Tracker{
		env:               env,
		linker:            linker,
		initializable:     solidity.NewInitializable(sctx),
		lastRecordedBlock: solidity.NewUint256(sctx, slotLastRecordedBlock),
		votes:             solidity.NewMapping[ronin.Bytes32, uint64](sctx, slotVotes),
	}
}

var _ dpos.Finality = (*Tracker)(nil)

func (t *Tracker) Initialize() error {
	return t.initializable.Reinitialize(1)
}

func voteKey(epoch uint64, id ronin.Address) ronin.Bytes32 {
	return solidity.Pair(solidity.Uint64Key(epoch), id)
}

// RecordFinality adds one vote in the current epoch for every distinct id among
// the voters. Only the coinbase may record, at most once per block.
func (t *Tracker) RecordFinality(voters []ronin.Address) error {
	if err := dpos.OnlyCoinbase(t.env); err != nil {
		return err
	}
	block := t.env.BlockContext().Number
	last, err := t.lastRecordedBlock.Uint64()
	if err != nil {
		return err
	}
	if last == block {
		return reverts.ErrOncePerBlock
	}
	if err := t.lastRecordedBlock.SetUint64(block); err != nil {
		return err
	}

	profiles, err := t.linker.Profiles(t.env, nil)
	if err != nil {
		return err
	}
	ids, err := profiles.ResolveMany(voters, dpos.ByConsensus)
	if err != nil {
		return err
	}
	validators, err := t.linker.ValidatorSet(t.env, nil)
	if err != nil {
		return err
	}
	epoch, err := validators.EpochOf(block)
	if err != nil {
		return err
	}

	seen := make(map[ronin.Address]struct{}, len(ids))
	counted := make([]ronin.Address, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		key := voteKey(epoch, id)
		count, err := t.votes.Get(key)
		if err != nil {
			return err
		}
		if err := t.votes.Set(key, count+1); err != nil {
			return err
		}
		counted = append(counted, id)
	}
	metricVotes().Add(int64(len(counted)))
	logger.Trace("finality recorded", "epoch", epoch, "block", block, "voters", len(counted))
	t.env.Log(evFinalityRecorded, epoch, block, counted)
	return nil
}

// GetManyFinalityVoteCounts resolves the consensus addresses to ids first. The
// count of an id follows it across consensus address changes.
func (t *Tracker) GetManyFinalityVoteCounts(epoch uint64, consensus []ronin.Address) ([]uint64, error) {
	profiles, err := t.linker.Profiles(t.env, nil)
	if err != nil {
		return nil, err
	}
	ids, err := profiles.ResolveMany(consensus, dpos.ByConsensus)
	if err != nil {
		return nil, err
	}
	return t.GetManyFinalityVoteCountsById(epoch, ids)
}

func (t *Tracker) GetManyFinalityVoteCountsById(epoch uint64, ids []ronin.Address) ([]uint64, error) {
	counts := make([]uint64, len(ids))
	for i, id := range ids {
		c, err := t.VoteCount(epoch, id)
		if err != nil {
			return nil, err
		}
		counts[i] = c
	}
	return counts, nil
}

// VoteCount returns the votes of id in epoch.
func (t *Tracker) VoteCount(epoch uint64, id ronin.Address) (uint64, error) {
	return t.votes.Get(voteKey(epoch, id))
}

func (t *Tracker) LastRecordedBlock() (uint64, error) {
	return t.lastRecordedBlock.Uint64()
}
