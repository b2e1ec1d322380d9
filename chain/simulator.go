// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"context"
	"math"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/block"
	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/runtime"
	"github.com/ronin-chain/dpos-contract/state"
	"github.com/ronin-chain/dpos-contract/tx"
	"github.com/ronin-chain/dpos-contract/xenv"
)

var logger = log.WithContext("pkg", "chain")

// ErrNoProducer is returned when neither a block producer nor a candidate exists.
var ErrNoProducer = errors.New("no block producer")

// Options tunes block production.
type Options struct {
	// seconds between two blocks
	BlockInterval uint64
	// minted to the coinbase and submitted as block reward
	BlockReward *uint256.Int
	// gas limit of each transaction issued by the simulator
	TxGas uint64
	// Voters picks the finality voters of a block, all producers vote when nil
	Voters func(number uint64, producers []ronin.Address) []ronin.Address
}

// DefaultOptions returns options of a 3 seconds block chain.
func DefaultOptions() Options {
	return Options{
		BlockInterval: 3,
		BlockReward:   uint256.NewInt(1e18),
		TxGas:         10_000_000,
	}
}

// Listener is notified of every block added by the simulator.
type Listener func(blk *block.Block, receipts tx.Receipts) error

// Simulator produces blocks on top of the best block of the repository. Block
// producers take turns in the order returned by the validator set, and each
// block carries the system transactions a Ronin miner would issue.
type Simulator struct {
	repo      *Repository
	stater    *state.Stater
	opts      Options
	listeners []Listener

	lock    sync.Mutex
	pending tx.Transactions
}

// NewSimulator creates a simulator.
func NewSimulator(repo *Repository, stater *state.Stater, opts Options) *Simulator {
	if opts.BlockReward == nil {
		opts.BlockReward = new(uint256.Int)
	}
	return &Simulator{repo: repo, stater: stater, opts: opts}
}

// Subscribe registers a listener. Listeners run in order after the block is stored.
func (s *Simulator) Subscribe(l Listener) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.listeners = append(s.listeners, l)
}

// AddTx queues a user transaction for the next block.
func (s *Simulator) AddTx(trx *tx.Transaction) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.pending = append(s.pending, trx)
}

func (s *Simulator) takePending() tx.Transactions {
	s.lock.Lock()
	defer s.lock.Unlock()
	txs := s.pending
	s.pending = nil
	return txs
}

// View runs a read only call of method on the contract at to and decodes the result into out.
func View(rt *runtime.Runtime, a *abi.ABI, to ronin.Address, method string, out any, args ...any) error {
	m, ok := a.MethodByName(method)
	if !ok {
		return errors.Errorf("method %v not found", method)
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		return err
	}
	res, err := rt.Call(tx.NewClause(to).WithData(data), math.MaxUint64, xenv.TransactionContext{})
	if err != nil {
		return err
	}
	if res.VMErr != nil {
		return errors.WithMessagef(res.VMErr, "call %v on %v", method, to)
	}
	return m.DecodeOutput(res.Data, out)
}

func toAddresses(list []common.Address) []ronin.Address {
	addrs := make([]ronin.Address, 0, len(list))
	for _, a := range list {
		addrs = append(addrs, ronin.Address(a))
	}
	return addrs
}

// producers returns the current block producers, the candidates before the
// first validator set is chosen.
func producers(rt *runtime.Runtime) ([]ronin.Address, error) {
	var list []common.Address
	if err := View(rt, builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address, "getBlockProducers", &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		if err := View(rt, builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address, "getValidatorCandidates", &list); err != nil {
			return nil, err
		}
	}
	if len(list) == 0 {
		return nil, ErrNoProducer
	}
	return toAddresses(list), nil
}

func mustEncode(a *abi.ABI, method string, args ...any) []byte {
	m, ok := a.MethodByName(method)
	if !ok {
		panic("method not found: " + method)
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		panic(err)
	}
	return data
}

// Produce builds, executes and stores the next block.
func (s *Simulator) Produce() (*block.Block, tx.Receipts, error) {
	var (
		parent = s.repo.BestBlockSummary().Header
		number = parent.Number() + 1
		st     = s.stater.NewState(parent.StateRoot())
		ctx    = xenv.BlockContext{Number: number, Time: parent.Timestamp() + s.opts.BlockInterval}
	)

	list, err := producers(runtime.New(st, &ctx))
	if err != nil {
		return nil, nil, err
	}
	ctx.Coinbase = list[number%uint64(len(list))]
	rt := runtime.New(st, &ctx)

	var ending bool
	if err := View(rt, builtin.ValidatorSet.ABI, builtin.ValidatorSet.Address, "epochEndingAt", &ending, number); err != nil {
		return nil, nil, err
	}

	voters := list
	if s.opts.Voters != nil {
		voters = s.opts.Voters(number, list)
	}

	if err := st.AddBalance(ctx.Coinbase, s.opts.BlockReward); err != nil {
		return nil, nil, err
	}
	system := []*tx.Clause{
		tx.NewClause(builtin.ValidatorSet.Address).
			WithValue(s.opts.BlockReward).
			WithData(mustEncode(builtin.ValidatorSet.ABI, "submitBlockReward")),
		tx.NewClause(builtin.FastFinality.Address).
			WithData(mustEncode(builtin.FastFinality.ABI, "recordFinality", voters)),
	}
	if ending {
		system = append(system,
			tx.NewClause(builtin.ValidatorSet.Address).WithData(mustEncode(builtin.ValidatorSet.ABI, "endEpoch")),
			tx.NewClause(builtin.ValidatorSet.Address).WithData(mustEncode(builtin.ValidatorSet.ABI, "wrapUpEpoch")),
		)
	}

	var (
		txs      tx.Transactions
		receipts tx.Receipts
		gasUsed  uint64
	)
	execute := func(trx *tx.Transaction) error {
		receipt, err := rt.ExecuteTransaction(trx)
		if err != nil {
			return err
		}
		txs = append(txs, trx)
		receipts = append(receipts, receipt)
		gasUsed += receipt.GasUsed
		return nil
	}

	// one clause per system tx, a failing reward must not undo the wrap-up
	for i, clause := range system {
		trx := tx.NewBuilder(ctx.Coinbase).
			Clause(clause).
			Gas(s.opts.TxGas).
			Nonce(number<<8 | uint64(i)).
			Build()
		if err := execute(trx); err != nil {
			return nil, nil, errors.Wrap(err, "execute system tx")
		}
		if r := receipts[len(receipts)-1]; r.Reverted {
			logger.Warn("system tx reverted", "block", number, "clause", i, "reason", builtin.RevertReason(r.RevertReason))
		}
	}

	for _, trx := range s.takePending() {
		if err := execute(trx); err != nil {
			var stateErr *state.Error
			if errors.As(err, &stateErr) {
				return nil, nil, err
			}
			logger.Debug("tx dropped", "id", trx.ID(), "err", err)
		}
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, nil, errors.Wrap(err, "stage state")
	}
	root, err := stage.Commit()
	if err != nil {
		return nil, nil, errors.Wrap(err, "commit state")
	}

	builder := new(block.Builder).
		ParentID(parent.ID()).
		Number(number).
		Timestamp(ctx.Time).
		Coinbase(ctx.Coinbase).
		GasUsed(gasUsed).
		StateRoot(root).
		ReceiptsRoot(receipts.RootHash())
	for _, trx := range txs {
		builder.Transaction(trx)
	}
	blk := builder.Build()

	if err := s.repo.AddBlock(blk, receipts); err != nil {
		return nil, nil, errors.Wrap(err, "add block")
	}
	metricBlocksProduced().Add(1)
	metricBlockTxs().Observe(int64(len(txs)))

	s.lock.Lock()
	listeners := s.listeners
	s.lock.Unlock()
	for _, l := range listeners {
		if err := l(blk, receipts); err != nil {
			return nil, nil, err
		}
	}
	if ending {
		logger.Debug("epoch wrapped up", "block", number, "coinbase", ctx.Coinbase)
	}
	return blk, receipts, nil
}

// Run produces n blocks, or until ctx is done when n is zero.
func (s *Simulator) Run(ctx context.Context, n uint64, progress func(*block.Block)) error {
	for i := uint64(0); n == 0 || i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		blk, _, err := s.Produce()
		if err != nil {
			return err
		}
		if progress != nil {
			progress(blk)
		}
	}
	return nil
}
