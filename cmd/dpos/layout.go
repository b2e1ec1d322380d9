// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ronin-chain/dpos-contract/storagelayout"
)

func storageLayoutAction(ctx *cli.Context) error {
	lines, err := storageLayoutReport(ctx)
	if err != nil {
		return err
	}

	if prev := ctx.String(diffFlag.Name); prev != "" {
		from, err := readLines(prev)
		if err != nil {
			return err
		}
		diff, err := storagelayout.Diff(prev, from, "current", lines)
		if err != nil {
			return err
		}
		if diff != "" {
			io.WriteString(ctx.App.Writer, diff)
			return errors.New("storage layout changed")
		}
	}

	w := ctx.App.Writer
	if out := ctx.String(outFlag.Name); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrap(err, "create report")
		}
		defer f.Close()
		w = f
	}
	return storagelayout.Write(w, lines)
}

func storageLayoutReport(ctx *cli.Context) ([]string, error) {
	if ctx.Bool(nativeFlag.Name) {
		return storagelayout.Native(), nil
	}
	if ctx.NArg() != 1 {
		return nil, errors.New("expect one artifact, or --native")
	}
	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return nil, errors.Wrap(err, "open artifact")
	}
	defer f.Close()

	artifact, err := storagelayout.Parse(f)
	if err != nil {
		return nil, err
	}
	return artifact.Report()
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open report")
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if line := s.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, errors.Wrap(s.Err(), "read report")
}
