// Package memory implements the ability to read and write blocks to memory
// using a slice.
package memory

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
)

// Memory represents the serialization implementation for reading and storing
// blocks in memory using a slice. Blocks are held in their JSON form so
// nothing is shared with the caller. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks [][]byte
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified block and stores it in memory. Blocks must be
// written in chain order.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if num := blockData.Block.Number; num != uint64(len(m.blocks)) {
		return fmt.Errorf("block is out of order, got %d, exp %d", num, len(m.blocks))
	}

	data, err := json.Marshal(blockData)
	if err != nil {
		return fmt.Errorf("marshal block %d: %w", blockData.Block.Number, err)
	}

	m.blocks = append(m.blocks, data)

	return nil
}

// GetBlock returns the block with the specified number.
func (m *Memory) GetBlock(num uint64) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num >= uint64(len(m.blocks)) {
		return database.BlockData{}, fmt.Errorf("block %d: %w", num, database.ErrBlockNotFound)
	}

	var blockData database.BlockData
	if err := json.Unmarshal(m.blocks[num], &blockData); err != nil {
		return database.BlockData{}, fmt.Errorf("unmarshal block %d: %w", num, err)
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with genesis.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the stored blocks.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the blocks in memory.
type memoryIterator struct {
	storage *Memory
	current uint64
	eoc     bool
}

// Next retrieves the next block.
func (mi *memoryIterator) Next() (database.BlockData, error) {
	if mi.eoc {
		return database.BlockData{}, database.ErrBlockNotFound
	}

	blockData, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
		return database.BlockData{}, err
	}
	mi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
