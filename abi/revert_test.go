// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const errorsABI = `[
	{"type": "error", "name": "ErrLookUpIdFailed", "inputs": [{"name": "addr", "type": "address"}]},
	{"type": "error", "name": "ErrOncePerBlock", "inputs": []}
]`

func TestDecodeRevert(t *testing.T) {
	a, err := New([]byte(errorsABI))
	require.NoError(t, err)

	lookup, ok := a.ErrorByName("ErrLookUpIdFailed")
	require.True(t, ok)
	once, ok := a.ErrorByName("ErrOncePerBlock")
	require.True(t, ok)

	lookupID, onceID := lookup.ID(), once.ID()
	addr := common.HexToAddress("0x01")

	tests := []struct {
		name   string
		data   []byte
		want   string
		wantOK bool
	}{
		{"empty", nil, "", false},
		{"unknown selector", common.Hex2Bytes("08c379a1"), "", false},
		{
			"require",
			common.Hex2Bytes("08c379a00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000000d72657665727420726561736f6e00000000000000000000000000000000000000"),
			"revert reason", true,
		},
		{"panic", common.Hex2Bytes("4e487b710000000000000000000000000000000000000000000000000000000000000000"), "generic panic", true},
		{"custom", append(lookupID[:], common.LeftPadBytes(addr.Bytes(), 32)...), "ErrLookUpIdFailed(" + addr.Hex() + ")", true},
		{"custom without args", onceID[:], "ErrOncePerBlock", true},
		{"custom with bad args", lookupID[:], "ErrLookUpIdFailed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.DecodeRevert(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnpackRevert(t *testing.T) {
	_, err := UnpackRevert(nil)
	assert.EqualError(t, err, "invalid data for unpacking")

	got, err := UnpackRevert(common.Hex2Bytes("4e487b7100000000000000000000000000000000000000000000000000000000000000ff"))
	require.NoError(t, err)
	assert.Equal(t, "unknown panic code: 0xff", got)
}
