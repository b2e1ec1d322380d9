// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		id atomic.Pointer[ronin.Bytes32]
	}
}

// headerBody body of header
type headerBody struct {
	ParentID  ronin.Bytes32
	Number    uint64
	Timestamp uint64
	Coinbase  ronin.Address

	GasUsed uint64

	TxsRoot      ronin.Bytes32
	StateRoot    ronin.Bytes32
	ReceiptsRoot ronin.Bytes32
}

// ParentID returns id of parent block.
func (h *Header) ParentID() ronin.Bytes32 {
	return h.body.ParentID
}

// Number returns sequential number of this block.
func (h *Header) Number() uint64 {
	return h.body.Number
}

// Timestamp returns timestamp of this block.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// Coinbase returns the block producer.
func (h *Header) Coinbase() ronin.Address {
	return h.body.Coinbase
}

// GasUsed returns gas used by txs.
func (h *Header) GasUsed() uint64 {
	return h.body.GasUsed
}

// TxsRoot returns root hash of txs.
func (h *Header) TxsRoot() ronin.Bytes32 {
	return h.body.TxsRoot
}

// StateRoot returns account state merkle root just after this block being applied.
func (h *Header) StateRoot() ronin.Bytes32 {
	return h.body.StateRoot
}

// ReceiptsRoot returns merkle root of tx receipts.
func (h *Header) ReceiptsRoot() ronin.Bytes32 {
	return h.body.ReceiptsRoot
}

// ID computes id of block.
func (h *Header) ID() ronin.Bytes32 {
	if cached := h.cache.id.Load(); cached != nil {
		return *cached
	}
	data, err := rlp.EncodeToBytes(&h.body)
	if err != nil {
		panic(err)
	}
	id := ronin.Keccak256(data)
	h.cache.id.Store(&id)
	return id
}

// EncodeRLP implements rlp.Encoder
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v):
	Number:         %v
	ParentID:       %v
	Timestamp:      %v
	Coinbase:       %v
	GasUsed:        %v
	TxsRoot:        %v
	StateRoot:      %v
	ReceiptsRoot:   %v`, h.ID(), h.body.Number, h.body.ParentID, h.body.Timestamp, h.body.Coinbase,
		h.body.GasUsed, h.body.TxsRoot, h.body.StateRoot, h.body.ReceiptsRoot)
}
