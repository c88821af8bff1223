// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/distributor/api"
	"github.com/vechain/distributor/log"
	"github.com/vechain/distributor/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Distributor",
		Usage:     "Staking reward distributor of VeChain",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			cacheFlag,
			stakerCacheFlag,
			disableJournalFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTransfersLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableMetricsFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Action: serveAction,
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "instantiate the distributor from the genesis",
				Action: initAction,
			},
			execCommand(),
			queryCommand(),
			{
				Name:      "replay",
				Usage:     "apply the operations of a YAML script",
				ArgsUsage: "<script>",
				Action:    replayAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	if inst.initialized {
		fmt.Printf("Instantiated %v [ %v ] in %v\n", inst.gene.Name(), inst.gene.IDString(), inst.dir)
	} else {
		fmt.Printf("Already instantiated %v [ %v ] in %v\n", inst.gene.Name(), inst.gene.IDString(), inst.dir)
	}
	return nil
}

// serveAction instantiates the distributor when needed and serves the API
// until an exit signal arrives.
func serveAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	enableAPILogs := &atomic.Bool{}
	enableAPILogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler := api.New(inst.exec, inst.gene.IDString(), api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		TransfersLimit:       ctx.Uint64(apiTransfersLimitFlag.Name),
		EnableReqLogger:      enableAPILogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})

	srv, listener, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}

	printStartupMessage(inst, "http://"+listener.Addr().String()+"/")

	exitCtx := handleExitSignal()
	group, groupCtx := errgroup.WithContext(exitCtx)
	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve API")
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func printStartupMessage(inst *instance, apiURL string) {
	fmt.Printf(`Starting %v
    Genesis      [ %v %v ]
    Owner        [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		"Distributor "+fullVersion(),
		inst.gene.IDString(), inst.gene.Name(),
		inst.gene.Owner(),
		inst.dir,
		apiURL)
}
