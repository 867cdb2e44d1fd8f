// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// List prints one line per stored block without validating the chain.
func List(w io.Writer, strg database.Storage) error {
	iter := strg.ForEach()
	for !iter.Done() {
		blockData, err := iter.Next()
		if err != nil {
			if errors.Is(err, database.ErrBlockNotFound) {
				break
			}
			return err
		}

		blk := blockData.Block
		fmt.Fprintf(w, "Block: %d  Hash: %s  Time: %s  Difficulty: %d  Txs: %d\n",
			blk.Number, blockData.Hash, time.UnixMilli(blk.UnixMillis).UTC().Format(time.RFC3339), blk.Config.Difficulty, len(blk.Trans))
	}

	return nil
}

// Verify loads every stored block, checking hashes, linkage, difficulty,
// proof of work and signatures.
func Verify(w io.Writer, strg database.Storage, evHandler func(v string, args ...any)) error {
	blocks, err := database.ReadAllBlocks(strg, evHandler)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		fmt.Fprintln(w, "chain is empty")
		return nil
	}

	head := blocks[len(blocks)-1]
	fmt.Fprintf(w, "chain is valid: blocks[%d]: head[%s]\n", len(blocks), head.HashHex())

	return nil
}
