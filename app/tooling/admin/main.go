// This program performs administrative tasks against a node snapshot.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/conscoin/blockchain/app/tooling/admin/commands"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"github.com/conscoin/blockchain/foundation/blockchain/storage"
	"github.com/conscoin/blockchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("startup", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args        conf.Args
		DBPath      string `conf:"default:zblock/chain.json.zst"`
		GenesisPath string `conf:"default:zblock/genesis.json"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "ConsCoin snapshot administration",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	gen, err := genesis.Load(cfg.GenesisPath)
	if err != nil {
		return fmt.Errorf("loading genesis: %w", err)
	}

	strg, err := storage.NewFile(cfg.DBPath)
	if err != nil {
		return err
	}
	defer strg.Close()

	return processCommands(cfg.Args, log, gen, strg)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, log *zap.SugaredLogger, gen genesis.Genesis, strg *storage.File) error {
	switch args.Num(0) {
	case "validate":
		if err := commands.Validate(log, gen, strg); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}

	case "balances":
		if err := commands.Balances(args.Num(1), log, gen, strg); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}

	case "history":
		if err := commands.History(args.Num(1), log, gen, strg); err != nil {
			return fmt.Errorf("getting history: %w", err)
		}

	default:
		fmt.Println("validate:  replay the snapshot and report the first invalid block")
		fmt.Println("balances:  print balances, optionally for one address")
		fmt.Println("history:   print the transactions for an address")
		fmt.Println("provide a command to get more help.")
		return commands.ErrHelp
	}

	return nil
}
