// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/distributor/contract"
	"github.com/vechain/distributor/dist"
)

func execCommand() cli.Command {
	actions := []struct {
		name  string
		usage string
		flags []cli.Flag
	}{
		{contract.OpBond, "bond staking tokens, sent by the staking token contract", []cli.Flag{stakerFlag, amountFlag}},
		{contract.OpUnbond, "unbond staking tokens of the sender", []cli.Flag{amountFlag}},
		{contract.OpWithdraw, "withdraw the pending reward of the sender", nil},
		{contract.OpAddReward, "append an emission range", []cli.Flag{startFlag, endFlag, amountFlag}},
		{contract.OpChangeOwner, "hand the distributor over to a new owner", []cli.Flag{targetFlag}},
		{contract.OpMigrateStaking, "stop emission and move the remaining reward to a new staking contract", []cli.Flag{targetFlag}},
	}

	cmd := cli.Command{
		Name:  "exec",
		Usage: "execute a single operation",
	}
	for _, a := range actions {
		cmd.Subcommands = append(cmd.Subcommands, cli.Command{
			Name:   a.name,
			Usage:  a.usage,
			Flags:  append([]cli.Flag{heightFlag, senderFlag}, a.flags...),
			Action: execAction(a.name),
		})
	}
	return cmd
}

func execAction(action string) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		initLogger(ctx)

		op, err := opFromFlags(ctx, action)
		if err != nil {
			return err
		}
		msg, err := op.Message()
		if err != nil {
			return err
		}

		inst, err := openInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.Close()

		// without --height the operation runs at the last distributed height
		if !ctx.IsSet(heightFlag.Name) {
			state, err := inst.exec.QueryState(nil)
			if err != nil {
				return err
			}
			op.Height = state.LastDistributed
		}

		env, info := op.Env()
		resp, err := inst.exec.Execute(context.Background(), env, info, msg)
		if err != nil {
			return err
		}
		return printJSON(resp)
	}
}

func opFromFlags(ctx *cli.Context, action string) (*Op, error) {
	sender, err := parseAddressFlag(ctx, senderFlag.Name)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, errors.New("sender required")
	}
	op := &Op{
		Height: ctx.Uint64(heightFlag.Name),
		Sender: *sender,
		Action: action,
		Amount: ctx.String(amountFlag.Name),
		Start:  ctx.Uint64(startFlag.Name),
		End:    ctx.Uint64(endFlag.Name),
	}
	if op.Staker, err = parseAddressFlag(ctx, stakerFlag.Name); err != nil {
		return nil, err
	}
	if op.Target, err = parseAddressFlag(ctx, targetFlag.Name); err != nil {
		return nil, err
	}
	return op, nil
}

func parseAddressFlag(ctx *cli.Context, name string) (*dist.Address, error) {
	value := ctx.String(name)
	if value == "" {
		return nil, nil
	}
	addr, err := dist.ParseAddress(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", name)
	}
	return addr, nil
}

func queryCommand() cli.Command {
	withHeight := func(ctx *cli.Context) *uint64 {
		if !ctx.IsSet(heightFlag.Name) {
			return nil
		}
		h := ctx.Uint64(heightFlag.Name)
		return &h
	}
	query := func(fn func(*cli.Context, *contract.Executor) (any, error)) func(*cli.Context) error {
		return func(ctx *cli.Context) error {
			initLogger(ctx)
			inst, err := openInstance(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			result, err := fn(ctx, inst.exec)
			if err != nil {
				return err
			}
			return printJSON(result)
		}
	}

	return cli.Command{
		Name:  "query",
		Usage: "query the distributor",
		Subcommands: []cli.Command{
			{
				Name:  "config",
				Usage: "tokens and emission schedule",
				Action: query(func(_ *cli.Context, exec *contract.Executor) (any, error) {
					return exec.QueryConfig()
				}),
			},
			{
				Name:  "state",
				Usage: "global state, projected to --height when given",
				Flags: []cli.Flag{heightFlag},
				Action: query(func(ctx *cli.Context, exec *contract.Executor) (any, error) {
					return exec.QueryState(withHeight(ctx))
				}),
			},
			{
				Name:      "staker",
				Usage:     "staker record, projected to --height when given",
				ArgsUsage: "<address>",
				Flags:     []cli.Flag{heightFlag},
				Action: query(func(ctx *cli.Context, exec *contract.Executor) (any, error) {
					addr, err := dist.ParseAddress(ctx.Args().First())
					if err != nil {
						return nil, errors.Wrap(err, "invalid staker address")
					}
					return exec.QueryStakerInfo(*addr, withHeight(ctx))
				}),
			},
		},
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.Wrap(err, "encode result")
	}
	return nil
}
