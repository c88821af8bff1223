// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/distributor/log"
)

var (
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a genesis file, the dev genesis is used if omitted",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for distributor databases",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 128,
		Usage: "megabytes of ram allocated to the leveldb cache",
	}
	stakerCacheFlag = cli.IntFlag{
		Name:  "staker-cache",
		Value: 4096,
		Usage: "number of staker records kept in memory",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8679",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTransfersLimitFlag = cli.Uint64Flag{
		Name:  "api-transfers-limit",
		Value: 1000,
		Usage: "limit the number of transfers returned by /transfers API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "all queries with duration (ms) above the threshold will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log API requests answered with a server error",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection, served on /metrics",
	}
	disableJournalFlag = cli.BoolFlag{
		Name:  "disable-journal",
		Usage: "do not journal transfer instructions",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	// exec and query flags
	heightFlag = cli.Uint64Flag{
		Name:  "height",
		Usage: "block height the operation executes at (defaults to the last distributed height)",
	}
	senderFlag = cli.StringFlag{
		Name:  "sender",
		Usage: "address of the caller",
	}
	stakerFlag = cli.StringFlag{
		Name:  "staker",
		Usage: "address of the staker",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "amount in the smallest token unit",
	}
	startFlag = cli.Uint64Flag{
		Name:  "start",
		Usage: "first height of the emission range",
	}
	endFlag = cli.Uint64Flag{
		Name:  "end",
		Usage: "height the emission range ends at (exclusive)",
	}
	targetFlag = cli.StringFlag{
		Name:  "target",
		Usage: "new owner or new staking contract address",
	}
)
