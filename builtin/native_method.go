// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ronin-chain/dpos-contract/abi"
	"github.com/ronin-chain/dpos-contract/ronin"
	"github.com/ronin-chain/dpos-contract/xenv"
)

// nativeMethod describes a native call.
type nativeMethod struct {
	abi *abi.Method
	run func(env *xenv.Environment) []any
}

type methodKey struct {
	ronin.Address
	abi.MethodID
}

var methodMap = make(map[methodKey]*nativeMethod)

type define struct {
	name string
	run  func(env *xenv.Environment) []any
}

func register(c *contract, defines []define) {
	for _, def := range defines {
		m := c.method(def.name)
		key := methodKey{c.Address, m.ID()}
		if _, dup := methodMap[key]; dup {
			panic("duplicated native method: " + c.name + "." + def.name)
		}
		methodMap[key] = &nativeMethod{abi: m, run: def.run}
	}
}

// lookupMethod finds the native method an input addresses at 'to'.
func lookupMethod(to ronin.Address, input []byte) *nativeMethod {
	id, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil
	}
	return methodMap[methodKey{to, id}]
}
