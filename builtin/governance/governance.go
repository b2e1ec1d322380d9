// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governance implements proposal dispatch of the governance admin. The
// admin is the only account allowed to reconfigure the other contracts, it does
// so by executing batches of calls approved by a trusted governor.
package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/gen"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/metrics"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

const ContractName = "RoninGovernanceAdmin"

var (
	logger = log.WithContext("pkg", "governance")

	metricProposalCalls = metrics.LazyLoadHistogram("proposal_calls", []int64{1, 2, 4, 8, 16, 32})

	evProposalExecuted = gen.MustEvent(ContractName, "ProposalExecuted")
)

func sig(method string) [4]byte {
	return gen.MustMethodID(ContractName, method)
}

// Segment is one call of a proposal.
type Segment struct {
	Target    ronin.Address
	Value     *uint256.Int
	Data      []byte
	GasAmount uint64
}

// Hash identifies a proposal by its segments.
func Hash(segments []Segment) ronin.Bytes32 {
	type encoded struct {
		Target    ronin.Address
		Value     *big.Int
		Data      []byte
		GasAmount uint64
	}
	list := make([]encoded, len(segments))
	for i, s := range segments {
		v := new(big.Int)
		if s.Value != nil {
			v = s.Value.ToBig()
		}
		list[i] = encoded{s.Target, v, s.Data, s.GasAmount}
	}
	data, err := rlp.EncodeToBytes(list)
	if err != nil {
		panic(errors.WithMessage(err, "encode proposal"))
	}
	return ronin.Keccak256(data)
}

// Admin implements the native methods of the `RoninGovernanceAdmin` contract.
type Admin struct {
	env    *xenv.Environment
	linker dpos.Linker
}

func New(env *xenv.Environment, linker dpos.Linker) *Admin {
	return &Admin{env: env, linker: linker}
}

// IsGovernor reports whether addr is the governor of a trusted organization.
func (a *Admin) IsGovernor(addr ronin.Address) (bool, error) {
	trusted, err := a.linker.TrustedOrgs(a.env, nil)
	if err != nil {
		return false, err
	}
	weight, err := trusted.GetGovernorWeight(addr)
	if err != nil {
		return false, err
	}
	return weight > 0, nil
}

// Execute runs every segment with the admin as caller and returns their
// outputs. Segments run atomically: the first failure reverts all of them.
func (a *Admin) Execute(segments []Segment) ([][]byte, error) {
	governor, err := a.IsGovernor(a.env.Caller())
	if err != nil {
		return nil, err
	}
	if !governor {
		return nil, reverts.ErrUnauthorized.New(sig("execute"), ronin.RoleGovernor)
	}
	if len(segments) == 0 {
		return nil, reverts.ErrEmptyArray
	}

	hash := Hash(segments)
	outputs := make([][]byte, len(segments))
	err = a.env.Try(func() error {
		for i, s := range segments {
			if a.env.GasLeft() <= s.GasAmount {
				return reverts.ErrInsufficientGas.New(hash)
			}
			out, err := a.linker.Dispatch(a.env, s.Target, s.Value, s.Data)
			if err != nil {
				logger.Debug("proposal call failed", "proposal", hash, "index", i, "target", s.Target, "err", err)
				return err
			}
			outputs[i] = out
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metricProposalCalls().Observe(int64(len(segments)))
	logger.Info("proposal executed", "proposal", hash, "executor", a.env.Caller(), "calls", len(segments))
	a.env.Log(evProposalExecuted, hash, a.env.Caller(), uint64(len(segments)))
	return outputs, nil
}
