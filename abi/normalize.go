// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// normalize converts the native value types into the ones go-ethereum packs.
func normalize(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = normalizeOne(arg)
	}
	return out
}

func normalizeOne(arg any) any {
	switch v := arg.(type) {
	case *uint256.Int:
		if v == nil {
			return new(big.Int)
		}
		return v.ToBig()
	case []*uint256.Int:
		list := make([]*big.Int, len(v))
		for i, n := range v {
			if n == nil {
				list[i] = new(big.Int)
			} else {
				list[i] = n.ToBig()
			}
		}
		return list
	case ronin.Address:
		return common.Address(v)
	case []ronin.Address:
		list := make([]common.Address, len(v))
		for i, a := range v {
			list[i] = common.Address(a)
		}
		return list
	case ronin.Bytes32:
		return [32]byte(v)
	case MethodID:
		return [4]byte(v)
	case ronin.Role:
		return uint8(v)
	case uint64:
		// all native contract numbers are declared uint256
		return new(big.Int).SetUint64(v)
	case []uint64:
		list := make([]*big.Int, len(v))
		for i, n := range v {
			list[i] = new(big.Int).SetUint64(n)
		}
		return list
	default:
		return arg
	}
}
