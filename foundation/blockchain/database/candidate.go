package database

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Candidate is a block being mined. The mining entropy is the only field that
// can change, and a candidate only becomes a Block once its hash is solved.
type Candidate struct {
	block Block
}

// NewCandidate constructs a block on top of the specified parent. A nil
// parent constructs a genesis block. The grandparent timestamp must be
// provided exactly when the parent exists and isn't the genesis block.
func NewCandidate(parent *Block, grandparentMillis *int64, unixMillis int64, trans []SignedTx, miningEntropy []byte) (*Candidate, error) {
	var gpMillis int64
	switch {
	case parent == nil || parent.Number == 0:
		if grandparentMillis != nil {
			return nil, ErrGrandparentUnexpected
		}

	default:
		if grandparentMillis == nil {
			return nil, ErrGrandparentMissing
		}
		gpMillis = *grandparentMillis
	}

	var config BlockConfig
	var number uint64
	var parentHash hexutil.Bytes

	switch parent {
	case nil:
		config = GenesisConfig()

	default:
		if unixMillis <= parent.UnixMillis {
			return nil, fmt.Errorf("%w: parent %d, block %d", ErrTimestampNotAfterParent, parent.UnixMillis, unixMillis)
		}

		config = DeriveConfig(gpMillis, parent.UnixMillis, parent.Config.Difficulty)
		number = parent.Number + 1
		parentHash = parent.Hash()
	}

	if len(trans) > int(config.MaxTransactionsPerBlock) {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyTransactions, len(trans), config.MaxTransactionsPerBlock)
	}

	if len(miningEntropy) > int(config.MaxMiningEntropySize) {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrEntropyTooLarge, len(miningEntropy), config.MaxMiningEntropySize)
	}

	b := Block{
		Number:        number,
		UnixMillis:    unixMillis,
		Config:        config,
		Trans:         append(make([]SignedTx, 0, len(trans)), trans...),
		ParentHash:    parentHash,
		MiningEntropy: append(hexutil.Bytes{}, miningEntropy...),
	}

	if _, err := b.hash(); err != nil {
		return nil, fmt.Errorf("serializing block: %w", err)
	}

	return &Candidate{block: b}, nil
}

// ResetMiningEntropy replaces the mining entropy of the candidate.
func (c *Candidate) ResetMiningEntropy(miningEntropy []byte) error {
	if len(miningEntropy) > int(c.block.Config.MaxMiningEntropySize) {
		return fmt.Errorf("%w: got %d, max %d", ErrEntropyTooLarge, len(miningEntropy), c.block.Config.MaxMiningEntropySize)
	}

	c.block.MiningEntropy = append(c.block.MiningEntropy[:0], miningEntropy...)
	return nil
}

// Hash returns the hash of the candidate with its current entropy.
func (c *Candidate) Hash() []byte {
	return c.block.Hash()
}

// HashMeetsDifficulty reports if the current entropy solves the candidate.
func (c *Candidate) HashMeetsDifficulty() bool {
	return c.block.HashMeetsDifficulty()
}

// Number returns the block number being mined.
func (c *Candidate) Number() uint64 {
	return c.block.Number
}

// Difficulty returns the difficulty the candidate must meet.
func (c *Candidate) Difficulty() uint8 {
	return c.block.Config.Difficulty
}

// Clone returns an independent copy so workers can search in parallel.
func (c *Candidate) Clone() *Candidate {
	return &Candidate{block: c.block.clone()}
}

// Seal returns the finished block. It fails if the hash isn't solved.
func (c *Candidate) Seal() (Block, error) {
	if !c.HashMeetsDifficulty() {
		return Block{}, fmt.Errorf("%w: blk[%d]", ErrHashNotSolved, c.block.Number)
	}

	return c.block.clone(), nil
}
