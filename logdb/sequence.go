// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// sequence orders indexed events: the block number occupies the high bits and
// the position of the event inside the block the low indexBits.
type sequence int64

const (
	indexBits = 31
	maxIndex  = 1<<indexBits - 1
)

func newSequence(blockNum uint32, index uint32) sequence {
	if index > maxIndex {
		panic("logdb: event index out of range")
	}
	return sequence(blockNum)<<indexBits | sequence(index)
}

func (s sequence) BlockNumber() uint32 { return uint32(s >> indexBits) }

func (s sequence) Index() uint32 { return uint32(s & maxIndex) }
