// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/miner"
)

// ErrTipChanged is returned when a block was mined on top of a head that is
// no longer the head of the chain.
var ErrTipChanged = errors.New("chain tip changed while mining")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Storage   database.Storage
	Miner     *miner.Miner
	EvHandler EventHandler
}

// State manages the blockchain database.
type State struct {
	mu        sync.RWMutex
	evHandler EventHandler

	miner   *miner.Miner
	storage database.Storage
	chain   *database.Chain
}

// New constructs a new blockchain for data management. Existing blocks are
// loaded from storage and validated. When storage is empty, a genesis block
// is mined and written.
func New(ctx context.Context, cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	if cfg.Miner == nil {
		return nil, errors.New("miner is required")
	}

	// Load all existing blocks from storage into memory for processing.
	blocks, err := database.ReadAllBlocks(cfg.Storage, ev)
	if err != nil {
		return nil, fmt.Errorf("reading blocks: %w", err)
	}

	if len(blocks) == 0 {
		ev("state: New: no blocks found: mining genesis")

		genesis, err := cfg.Miner.MakeGenesis(ctx)
		if err != nil {
			return nil, fmt.Errorf("mining genesis: %w", err)
		}

		if err := genesis.ValidateGenesis(ev); err != nil {
			return nil, fmt.Errorf("validating genesis: %w", err)
		}

		if err := cfg.Storage.Write(database.NewBlockData(genesis)); err != nil {
			return nil, fmt.Errorf("writing genesis: %w", err)
		}

		blocks = append(blocks, genesis)
	}

	chain, err := database.FromExisting(blocks)
	if err != nil {
		return nil, err
	}

	ev("state: New: chain loaded: blocks[%d]: head[%s]", chain.Len(), chain.Head().HashHex())

	s := State{
		evHandler: ev,
		miner:     cfg.Miner,
		storage:   cfg.Storage,
		chain:     chain,
	}

	return &s, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.storage.Close()
}

// =============================================================================

// MineNextBlock mines a block on top of the current head and appends it to
// the chain. The search runs without holding the state lock.
func (s *State) MineNextBlock(ctx context.Context) (database.Block, error) {
	s.mu.RLock()
	parent := s.chain.Head()
	gp, hasGP := s.chain.GrandparentOfHead()
	s.mu.RUnlock()

	var grandparent *database.Block
	if hasGP {
		grandparent = &gp
	}

	s.evHandler("state: MineNextBlock: MINING: perform POW: parent[%d]", parent.Number)

	block, err := s.miner.MineOn(ctx, parent, grandparent)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNextBlock: MINING: validate and update database")

	if err := s.AcceptBlock(block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// AcceptBlock validates the block against the current head and, if it
// passes, writes it to storage and appends it to the chain.
func (s *State) AcceptBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	head := s.chain.Head()
	if !bytes.Equal(block.ParentHash, head.Hash()) {
		return fmt.Errorf("%w: blk[%d]: head[%s]", ErrTipChanged, block.Number, head.HashHex())
	}

	var grandparent *database.Block
	if gp, ok := s.chain.GrandparentOfHead(); ok {
		grandparent = &gp
	}

	if err := block.ValidateBlock(head, grandparent, s.evHandler); err != nil {
		return fmt.Errorf("validating block %d: %w", block.Number, err)
	}

	s.evHandler("state: AcceptBlock: write to storage: blk[%d]", block.Number)

	// The block must be on storage before it's visible in memory.
	if err := s.storage.Write(database.NewBlockData(block)); err != nil {
		return fmt.Errorf("writing block %d: %w", block.Number, err)
	}
	s.chain.AddBlock(block)

	s.evHandler("viewer: block: blk[%d]: hash[%s]: difficulty[%d]", block.Number, block.HashHex(), block.Config.Difficulty)

	return nil
}
