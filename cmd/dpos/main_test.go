// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/chain"
	"github.com/ronin-chain/dpos-contract/genesis"
)

func run(t *testing.T, args ...string) (string, error) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(append([]string{"dpos", "--verbosity", "1"}, args...))
	return buf.String(), err
}

func TestStorageLayoutNative(t *testing.T) {
	out, err := run(t, "storage-layout", "--native")
	require.NoError(t, err)
	assert.Contains(t, out, "builtin/Staking:staking-min-commission-rate (storage_slot: ")

	_, err = run(t, "storage-layout")
	assert.Error(t, err)
}

func TestStorageLayoutDiff(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "native.layout")

	_, err := run(t, "storage-layout", "--native", "--out", report)
	require.NoError(t, err)

	_, err = run(t, "storage-layout", "--native", "--diff", report)
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NoError(t, os.WriteFile(report, []byte(strings.Join(lines[1:], "\n")), 0600))

	out, err := run(t, "storage-layout", "--native", "--diff", report)
	assert.EqualError(t, err, "storage layout changed")
	assert.Contains(t, out, "+"+lines[0])
}

func TestStorageLayoutArtifact(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "Profile.json")
	require.NoError(t, os.WriteFile(artifact, []byte(`{
		"storageLayout": {
			"storage": [{"contract": "src/ronin/profile/Profile.sol:Profile", "label": "_id2Profile", "offset": 0, "slot": "1", "type": "t_mapping"}],
			"types": {"t_mapping": {"label": "mapping(address => struct IProfile.CandidateProfile)", "numberOfBytes": "32"}}
		}
	}`), 0600))

	out, err := run(t, "storage-layout", artifact)
	require.NoError(t, err)
	assert.Equal(t, "src/ronin/profile/Profile.sol:Profile:_id2Profile (storage_slot: 1) (offset: 0) "+
		"(type: mapping(address => struct IProfile.CandidateProfile)) (numberOfBytes: 32)\n", out)
}

func TestInitChainReopen(t *testing.T) {
	dataDir := t.TempDir()
	gene := genesis.NewDevnet()

	d, err := openDB(dataDir, gene, false)
	require.NoError(t, err)
	repo, stater, err := initChain(gene, d.main)
	require.NoError(t, err)
	sim := chain.NewSimulator(repo, stater, chain.DefaultOptions())
	sim.Subscribe(d.log.IndexBlock)
	for range 3 {
		_, _, err := sim.Produce()
		require.NoError(t, err)
	}
	best := repo.BestBlockSummary().Header.ID()
	d.Close()

	d, err = openDB(dataDir, gene, false)
	require.NoError(t, err)
	defer d.Close()
	repo, stater, err = initChain(gene, d.main)
	require.NoError(t, err)
	assert.Equal(t, best, repo.BestBlockSummary().Header.ID())

	blk, _, err := chain.NewSimulator(repo, stater, chain.DefaultOptions()).Produce()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), blk.Header().Number())
}

func TestSimulateAndInspect(t *testing.T) {
	dataDir := t.TempDir()

	_, err := run(t, "simulate", "--data-dir", dataDir, "--blocks", "3", "--api-addr", "")
	require.NoError(t, err)

	out, err := run(t, "inspect", "--data-dir", dataDir, "block", "best")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = run(t, "inspect", "--data-dir", dataDir, "block", "9")
	assert.Error(t, err)

	_, err = run(t, "inspect", "block", "best")
	assert.EqualError(t, err, "inspect requires --data-dir")

	out, err = run(t, "inspect", "genesis")
	require.NoError(t, err)
	assert.Contains(t, out, "NumberOfBlocksInEpoch")
}
