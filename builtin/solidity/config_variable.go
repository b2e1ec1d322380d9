// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/ronin-chain/dpos-contract/log"
	"github.com/ronin-chain/dpos-contract/ronin"
)

var logger = log.WithContext("pkg", "solidity")

// ConfigVariable is a contract parameter with a default that storage may override.
// Governance setters write the slot, readers fall back to the default while it is zero.
type ConfigVariable struct {
	slot         ronin.Bytes32
	name         string
	defaultValue uint64
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:         ronin.BytesToBytes32([]byte(name)),
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() ronin.Bytes32 {
	return c.slot
}

func (c *ConfigVariable) Default() uint64 {
	return c.defaultValue
}

// Get reads the current value for the contract of ctx.
func (c *ConfigVariable) Get(ctx *Context) (uint64, error) {
	v, err := NewUint256(ctx, c.slot).Get()
	if err != nil {
		return 0, err
	}
	if v.IsZero() {
		return c.defaultValue, nil
	}
	return v.Uint64(), nil
}

// Override replaces the default, used by devnets to shorten protocol timings.
// A value already written to storage still wins.
func (c *ConfigVariable) Override(value uint64) {
	if value == 0 || value == c.defaultValue {
		return
	}
	logger.Debug("debug override found new config value", "name", c.name, "default", c.defaultValue, "value", value)
	c.defaultValue = value
}

// Set stores a new value. Zero restores the default.
func (c *ConfigVariable) Set(ctx *Context, value uint64) error {
	logger.Debug("config variable updated", "name", c.name, "value", value)
	return NewUint256(ctx, c.slot).Set(uint256.NewInt(value))
}
