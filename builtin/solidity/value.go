// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// Value stores a single rlp encoded value, typically a struct or a slice, in one slot.
type Value[V any] struct {
	context *Context
	pos     ronin.Bytes32
}

func NewValue[V any](context *Context, pos ronin.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

func (v *Value[V]) Get() (value V, err error) {
	return decodeAt[V](v.context, v.pos)
}

func (v *Value[V]) Set(value V) error {
	return encodeAt(v.context, v.pos, value)
}

func (v *Value[V]) Clear() error {
	return clearAt(v.context, v.pos)
}

func decodeAt[V any](ctx *Context, pos ronin.Bytes32) (value V, err error) {
	err = ctx.state.DecodeStorage(ctx.address, pos, func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		ctx.chargeLoad(raw)
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func encodeAt[V any](ctx *Context, pos ronin.Bytes32, value V) error {
	val, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	if err := ctx.chargeStore(pos, val); err != nil {
		return err
	}
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		return val, nil
	})
}

func clearAt(ctx *Context, pos ronin.Bytes32) error {
	if err := ctx.chargeStore(pos, nil); err != nil {
		return err
	}
	ctx.state.SetRawStorage(ctx.address, pos, nil)
	return nil
}
