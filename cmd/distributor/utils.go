// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/distributor/contract"
	"github.com/vechain/distributor/genesis"
	"github.com/vechain/distributor/log"
	"github.com/vechain/distributor/lvldb"
	"github.com/vechain/distributor/store"
	"github.com/vechain/distributor/transferdb"
)

func fatal(args ...any) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return lvl
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.GlobalString(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	return genesis.LoadFile(path)
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return "", err
	}
	id := gene.ID()
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, instanceDir string) (*lvldb.LevelDB, error) {
	cacheMB := max(ctx.GlobalInt(cacheFlag.Name), 16)
	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func openJournal(ctx *cli.Context, instanceDir string) (*transferdb.TransferDB, error) {
	if ctx.GlobalBool(disableJournalFlag.Name) {
		return nil, nil
	}
	dir := filepath.Join(instanceDir, "transfers.db")
	db, err := transferdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open transfer journal [%v]", dir)
	}
	return db, nil
}

// instance bundles the opened databases of a distributor instance.
type instance struct {
	gene        *genesis.Genesis
	dir         string
	mainDB      *lvldb.LevelDB
	journal     *transferdb.TransferDB
	store       *store.Store
	exec        *contract.Executor
	initialized bool
}

// openInstance opens the instance of the selected genesis and instantiates
// the distributor on first use.
func openInstance(ctx *cli.Context) (*instance, error) {
	gene, err := selectGenesis(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return nil, err
	}
	mainDB, err := openMainDB(ctx, dir)
	if err != nil {
		return nil, err
	}
	journal, err := openJournal(ctx, dir)
	if err != nil {
		mainDB.Close()
		return nil, err
	}
	inst := &instance{gene: gene, dir: dir, mainDB: mainDB, journal: journal}

	if inst.store, err = store.New(mainDB, ctx.GlobalInt(stakerCacheFlag.Name)); err != nil {
		inst.Close()
		return nil, err
	}
	inst.exec = contract.New(inst.store, journal)
	if err := inst.instantiate(); err != nil {
		inst.Close()
		return nil, err
	}
	return inst, nil
}

func (i *instance) instantiate() error {
	ok, err := i.store.Initialized()
	if err != nil {
		return err
	}
	if ok {
		id, err := i.store.GenesisID()
		if err != nil {
			return err
		}
		if id != i.gene.ID() {
			return errors.New("genesis mismatch, the data dir belongs to another genesis")
		}
		return nil
	}
	env, info, msg := i.gene.Instantiate()
	if _, err := i.exec.Instantiate(env, info, msg, i.gene.ID()); err != nil {
		return errors.Wrap(err, "instantiate")
	}
	i.initialized = true
	return nil
}

func (i *instance) Close() {
	if i.journal != nil {
		log.Info("closing transfer journal...")
		if err := i.journal.Close(); err != nil {
			log.Warn("failed to close transfer journal", "err", err)
		}
	}
	log.Info("closing main database...")
	if err := i.mainDB.Close(); err != nil {
		log.Warn("failed to close main database", "err", err)
	}
}

func startAPIServer(addr string, handler http.Handler) (*http.Server, net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       10 * time.Second,
	}
	return srv, listener, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.distributor")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.distributor")
		}
		return filepath.Join(home, ".org.vechain.distributor")
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
