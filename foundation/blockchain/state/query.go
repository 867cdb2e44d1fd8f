package state

import (
	"errors"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// Head returns a copy of the latest block in the chain.
func (s *State) Head() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Head()
}

// Len returns the number of blocks in the chain.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Len()
}

// QueryBlock returns the block with the specified number.
func (s *State) QueryBlock(num uint64) (database.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if num == QueryLatest {
		return s.chain.Head(), true
	}

	return s.chain.Block(num)
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
// Either bound can be QueryLatest.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	head := s.chain.Head().Number
	if from == QueryLatest {
		from = head
	}
	if to == QueryLatest {
		to = head
	}

	return s.chain.Blocks(from, to)
}

// VerifyTransaction reports if the signed transaction carries a valid
// signature. Malformed keys or signatures are returned as errors.
func (s *State) VerifyTransaction(stx database.SignedTx) (bool, error) {
	err := stx.Validate()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrInvalidSignature):
		return false, nil
	}

	return false, err
}
