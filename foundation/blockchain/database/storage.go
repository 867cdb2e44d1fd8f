package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
)

// ErrBlockNotFound is returned by storage when a block number doesn't exist.
// Iterators return it once they walk past the last block.
var ErrBlockNotFound = errors.New("block not found")

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks, starting at genesis.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// BlockData represents what is written to storage for a block.
type BlockData struct {
	Hash  string `json:"hash"`
	Block Block  `json:"block"`
}

// NewBlockData constructs the value to serialize to storage.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Hash:  block.HashHex(),
		Block: block,
	}
}

// ToBlock converts a BlockData into a Block, checking the stored hash still
// matches the block contents.
func ToBlock(blockData BlockData) (Block, error) {
	h, err := blockData.Block.hash()
	if err != nil {
		return Block{}, fmt.Errorf("serializing block %d: %w", blockData.Block.Number, err)
	}

	if got := signature.HashHex(h); got != blockData.Hash {
		return Block{}, fmt.Errorf("block %d hash mismatch, got %s, exp %s", blockData.Block.Number, got, blockData.Hash)
	}

	return blockData.Block, nil
}

// ReadAllBlocks walks the storage from genesis and returns every block after
// validating each one links to the one before it.
func ReadAllBlocks(storage Storage, evHandler func(v string, args ...any)) ([]Block, error) {
	ev := safeEv(evHandler)

	var blocks []Block
	iter := storage.ForEach()
	for !iter.Done() {
		blockData, err := iter.Next()
		if err != nil {
			if errors.Is(err, ErrBlockNotFound) {
				break
			}
			return nil, err
		}

		block, err := ToBlock(blockData)
		if err != nil {
			return nil, err
		}

		n := len(blocks)
		switch n {
		case 0:
			err = block.ValidateGenesis(ev)
		case 1:
			err = block.ValidateBlock(blocks[0], nil, ev)
		default:
			err = block.ValidateBlock(blocks[n-1], &blocks[n-2], ev)
		}
		if err != nil {
			return nil, fmt.Errorf("stored block %d: %w", block.Number, err)
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}
