// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/distributor/contract"
	"github.com/vechain/distributor/log"
	"github.com/vechain/distributor/reverts"
)

// Script is a list of operations applied in order.
type Script struct {
	// ContinueOnRevert keeps going when an op reverts, other failures
	// always abort.
	ContinueOnRevert bool `yaml:"continue_on_revert"`
	Ops              []Op `yaml:"ops"`
}

// ReplayResult summarizes a replay.
type ReplayResult struct {
	Applied   int
	Reverted  int
	Transfers int
}

func loadScript(r io.Reader) (*Script, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var script Script
	if err := decoder.Decode(&script); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	for i := range script.Ops {
		if _, err := script.Ops[i].Message(); err != nil {
			return nil, errors.Wrapf(err, "ops[%d]", i)
		}
	}
	return &script, nil
}

// replay applies the script on exec. The progress callback is invoked after
// each op.
func replay(ctx context.Context, exec *contract.Executor, script *Script, progress func()) (*ReplayResult, error) {
	var result ReplayResult
	for i, op := range script.Ops {
		if err := ctx.Err(); err != nil {
			return &result, err
		}
		msg, err := op.Message()
		if err != nil {
			return &result, errors.Wrapf(err, "ops[%d]", i)
		}
		env, info := op.Env()
		resp, err := exec.Execute(ctx, env, info, msg)
		switch {
		case err == nil:
			result.Applied++
			result.Transfers += len(resp.Transfers)
		case script.ContinueOnRevert && reverts.IsRevertErr(err):
			log.Debug("op reverted", "index", i, "action", op.Action, "height", op.Height, "error", err)
			result.Reverted++
		default:
			return &result, errors.Wrapf(err, "ops[%d] %s at %d", i, op.Action, op.Height)
		}
		if progress != nil {
			progress()
		}
	}
	return &result, nil
}

func replayAction(ctx *cli.Context) error {
	initLogger(ctx)

	path := ctx.Args().First()
	if path == "" {
		return errors.New("script path required")
	}
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open script")
	}
	defer file.Close()

	script, err := loadScript(file)
	if err != nil {
		return err
	}

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	fmt.Println(">> Replaying operations <<")
	bar := pb.New64(int64(len(script.Ops))).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	result, err := replay(handleExitSignal(), inst.exec, script, func() { bar.Add64(1) })
	if err != nil {
		return err
	}
	bar.Finish()

	fmt.Printf("applied %d, reverted %d, transfers %d\n", result.Applied, result.Reverted, result.Transfers)
	return nil
}
