// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storagelayout prints flat storage layout reports, for solc artifacts and
// for the native contracts, and diffs them.
package storagelayout

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/ronin-chain/dpos-contract/builtin"
	"github.com/ronin-chain/dpos-contract/builtin/solidity"
	"github.com/ronin-chain/dpos-contract/log"
)

var logger = log.WithContext("pkg", "storagelayout")

// SourcePrefix selects the sources reported from an artifact.
const SourcePrefix = "src"

// Entry is a storage variable of a solc storageLayout.
type Entry struct {
	Contract string `json:"contract"`
	Label    string `json:"label"`
	Offset   uint64 `json:"offset"`
	Slot     string `json:"slot"`
	Type     string `json:"type"`
}

// TypeInfo is a type of a solc storageLayout.
type TypeInfo struct {
	Encoding      string `json:"encoding"`
	Label         string `json:"label"`
	NumberOfBytes string `json:"numberOfBytes"`
}

type Layout struct {
	Storage []Entry             `json:"storage"`
	Types   map[string]TypeInfo `json:"types"`
}

// Artifact is the part of a compiler output carrying the storage layout.
type Artifact struct {
	StorageLayout *Layout `json:"storageLayout"`
	AST           *struct {
		AbsolutePath *string `json:"absolutePath"`
	} `json:"ast"`
}

// Parse decodes a compiler artifact.
func Parse(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.Wrap(err, "decode artifact")
	}
	return &a, nil
}

// Line formats one report line.
func Line(contract, label string, slot any, offset uint64, typ string, numberOfBytes any) string {
	return fmt.Sprintf("%s:%s (storage_slot: %v) (offset: %d) (type: %s) (numberOfBytes: %v)",
		contract, label, slot, offset, typ, numberOfBytes)
}

// Report returns the report lines of the artifact. Artifacts whose source is outside
// src, and entries of such contracts, are left out.
func (a *Artifact) Report() ([]string, error) {
	if a.StorageLayout == nil || len(a.StorageLayout.Storage) == 0 {
		return nil, nil
	}
	storage := a.StorageLayout.Storage
	if a.AST != nil {
		if a.AST.AbsolutePath == nil || !strings.HasPrefix(*a.AST.AbsolutePath, SourcePrefix) {
			return nil, nil
		}
	} else {
		filtered := make([]Entry, 0, len(storage))
		for _, e := range storage {
			if strings.HasPrefix(e.Contract, SourcePrefix) {
				filtered = append(filtered, e)
			}
		}
		storage = filtered
	}

	lines := make([]string, 0, len(storage))
	for _, e := range storage {
		t, ok := a.StorageLayout.Types[e.Type]
		if !ok {
			return nil, errors.Errorf("%v:%v: unknown type %v", e.Contract, e.Label, e.Type)
		}
		lines = append(lines, Line(e.Contract, e.Label, e.Slot, e.Offset, t.Label, t.NumberOfBytes))
	}
	return lines, nil
}

// Native returns the report of the native contracts. Every named slot holds a full word.
func Native() []string {
	known := make(map[string]bool)
	for _, c := range builtin.Contracts() {
		known[c.Name()] = true
	}
	slots := solidity.Layout()
	lines := make([]string, 0, len(slots))
	for _, s := range slots {
		if !known[s.Contract] {
			logger.Debug("slot of unknown contract", "contract", s.Contract, "label", s.Label)
		}
		lines = append(lines, Line("builtin/"+s.Contract, s.Label, s.Slot, 0, s.Type, 32))
	}
	return lines
}

// Write writes one line per entry.
func Write(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// Diff returns the unified diff of two reports, empty when they are equal.
func Diff(fromName string, from []string, toName string, to []string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(from),
		B:        withNewlines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  1,
	})
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
