package main

import (
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/radcoin/app/tooling/admin/commands"
	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"go.uber.org/zap"
)

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, log *zap.SugaredLogger, strg database.Storage) error {
	switch args.Num(0) {
	case "list":
		if err := commands.List(os.Stdout, strg); err != nil {
			return fmt.Errorf("listing blocks: %w", err)
		}

	case "verify":
		ev := func(v string, args ...any) {
			log.Infow(fmt.Sprintf(v, args...))
		}
		if err := commands.Verify(os.Stdout, strg, ev); err != nil {
			return fmt.Errorf("verifying chain: %w", err)
		}

	default:
		fmt.Println("list:    print a summary of every stored block")
		fmt.Println("verify:  validate every stored block from genesis")
		fmt.Println("provide a command to get more help.")
		return commands.ErrHelp
	}

	return nil
}
