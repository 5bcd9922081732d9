// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/cosmicsignature/engine/chain"
	"github.com/cosmicsignature/engine/genesis"
	"github.com/cosmicsignature/engine/log"
	"github.com/cosmicsignature/engine/logdb"
	"github.com/cosmicsignature/engine/lvldb"
)

const (
	devnetConfigFile = "devnet.yaml"
	minCacheSizeMB   = 16
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func useColor(f *os.File) bool {
	return (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
}

func initLogger(ctx *cli.Context) error {
	lvl, err := log.LvlFromString(ctx.String(verbosityFlag.Name))
	if err != nil {
		return errors.WithMessage(err, "verbosity")
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor(os.Stderr))))
	return nil
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

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.cosmicsignature.engine")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.cosmicsignature.engine")
		default:
			return filepath.Join(home, ".org.cosmicsignature.engine")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func makeInstanceDir(dataDir string, gene *genesis.Genesis) (string, error) {
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// loadGenesisConfig reads the --config document. Without one, the devnet document is used,
// pinned to the data dir on first start so that restarts open the same chain.
func loadGenesisConfig(ctx *cli.Context, dataDir string) (*genesis.Config, error) {
	if path := ctx.String(configFlag.Name); path != "" {
		return genesis.LoadConfig(path)
	}
	if dataDir == "" {
		return genesis.DevConfig(uint64(time.Now().Unix())), nil
	}

	path := filepath.Join(dataDir, devnetConfigFile)
	cfg, err := genesis.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}

	cfg = genesis.DevConfig(uint64(time.Now().Unix()))
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "encode devnet config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, errors.Wrap(err, "write devnet config")
	}
	return cfg, nil
}

// checkClockOffset warns when the local clock, which stamps mined blocks, drifts from the NTP server.
func checkClockOffset(server string, interval time.Duration) error {
	resp, err := ntp.Query(server)
	if err != nil {
		return errors.Wrap(err, "query ntp")
	}
	if offset := resp.ClockOffset.Abs(); offset > interval/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
	return nil
}

// normalizeCacheSize limits the database cache to half of the physical memory.
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < minCacheSizeMB {
		sizeMB = minCacheSizeMB
	}
	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
		return sizeMB
	}
	if limitMB := int(mem.Total / 1024 / 1024 / 2); sizeMB > limitMB {
		logger.Warn("cache size(MB) limited", "limit", limitMB)
		return max(limitMB, minCacheSizeMB)
	}
	return sizeMB
}

func openMainDB(dir string, cacheMB int) (*lvldb.LevelDB, error) {
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{CacheSize: normalizeCacheSize(cacheMB), OpenFilesCacheCapacity: 512})
	if err != nil {
		return nil, errors.Wrapf(err, "open chain database [%v]", path)
	}
	return db, nil
}

func openLogDB(dir string) (*logdb.LogDB, error) {
	path := filepath.Join(dir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", path)
	}
	return db, nil
}

type stores struct {
	mainDB *lvldb.LevelDB
	logDB  *logdb.LogDB
	dir    string
}

// openStores opens the databases of the genesis instance, or in-memory ones if dataDir is empty.
func openStores(dataDir string, gene *genesis.Genesis, cacheMB int) (*stores, error) {
	if dataDir == "" {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, err
		}
		logDB, err := logdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, err
		}
		return &stores{mainDB, logDB, "Memory"}, nil
	}

	instanceDir, err := makeInstanceDir(dataDir, gene)
	if err != nil {
		return nil, err
	}
	mainDB, err := openMainDB(instanceDir, cacheMB)
	if err != nil {
		return nil, err
	}
	logDB, err := openLogDB(instanceDir)
	if err != nil {
		mainDB.Close()
		return nil, err
	}
	return &stores{mainDB, logDB, instanceDir}, nil
}

func (s *stores) Close() {
	logger.Info("closing log database...")
	if err := s.logDB.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := s.mainDB.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

func initChain(gene *genesis.Genesis, s *stores) (*chain.Chain, error) {
	header, stage, err := gene.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}
	c, err := chain.New(s.mainDB, header, stage, s.logDB, genesis.DevProducer())
	if err != nil {
		return nil, errors.Wrap(err, "initialize chain")
	}
	return c, nil
}

func listenAPI(addr string, handler http.Handler) (*http.Server, net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}, listener, nil
}

// serveAPI serves until ctx is done, then shuts the server down.
func serveAPI(ctx context.Context, srv *http.Server, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve API")
	case <-ctx.Done():
	}

	logger.Info("stopping API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Close()
	}
	<-errCh
	return ctx.Err()
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(gene *genesis.Genesis, c *chain.Chain, dataDir, apiURL string) {
	best := c.BestHeader()
	fmt.Printf(`Starting Cosmic Signature solo node
    Genesis      [ %v ]
    Best block   [ %v #%v @%v ]
    Owner        [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		gene.ID(),
		best.ID(), best.Number(), time.Unix(int64(best.Timestamp()), 0),
		gene.Config().Owner,
		dataDir,
		apiURL)
}
