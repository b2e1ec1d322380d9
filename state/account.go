// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// Account is the persisted representation of an account.
type Account struct {
	Balance *uint256.Int
}

func emptyAccount() *Account {
	return &Account{Balance: new(uint256.Int)}
}

// IsEmpty returns if an account is empty.
func (a *Account) IsEmpty() bool {
	return a.Balance.IsZero()
}

func loadAccount(data []byte) (*Account, error) {
	if len(data) == 0 {
		return emptyAccount(), nil
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	if a.Balance == nil {
		a.Balance = new(uint256.Int)
	}
	return &a, nil
}

func encodeAccount(a *Account) ([]byte, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(a)
}
