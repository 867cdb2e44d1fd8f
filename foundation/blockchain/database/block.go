package database

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block represents a group of transactions batched together and linked to
// its parent by hash. The field order is the canonical serialization order
// and must not change, the hash of a block is taken over its JSON form.
type Block struct {
	Number        uint64        `json:"block_num"`      // Block number in the chain, 0 for genesis.
	UnixMillis    int64         `json:"unix_millis"`    // Time the block was mined.
	Config        BlockConfig   `json:"config"`         // Protocol parameters derived for this block.
	Trans         []SignedTx    `json:"transactions"`   // Rewards and transfers included in the block.
	ParentHash    hexutil.Bytes `json:"parent_hash"`    // Hash of the parent block, empty for genesis.
	MiningEntropy hexutil.Bytes `json:"mining_entropy"` // Value varied to solve the hash puzzle.
}

// Hash returns the sha256 digest of the block's canonical serialization.
func (b Block) Hash() []byte {
	h, err := b.hash()
	if err != nil {

		// Blocks are only produced by NewCandidate or decoding, both of
		// which prove the block serializes.
		panic(fmt.Sprintf("block %d can't be serialized: %s", b.Number, err))
	}
	return h
}

// HashHex returns the 0x prefixed hex form of the block hash.
func (b Block) HashHex() string {
	return signature.HashHex(b.Hash())
}

// HashMeetsDifficulty reports if the block hash has the number of leading
// zero bits its config demands.
func (b Block) HashMeetsDifficulty() bool {
	solved, err := IsHashSolved(uint(b.Config.Difficulty), b.Hash())
	if err != nil {

		// A uint8 difficulty never needs more than 32 bytes, so this means
		// the hash function itself is broken.
		panic(err)
	}
	return solved
}

// IsGenesis reports if this is the first block of a chain.
func (b Block) IsGenesis() bool {
	return b.Config.IsGenesis
}

// ValidateBlock takes a block and validates it to be appended on top of the
// specified parent. The grandparent is required unless the parent is the
// genesis block.
func (b Block) ValidateBlock(parent Block, grandparent *Block, evHandler func(v string, args ...any)) error {
	ev := safeEv(evHandler)

	ev("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Number)

	if b.Number != parent.Number+1 {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Number, parent.Number+1)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Number)

	parentHash, err := parent.hash()
	if err != nil {
		return fmt.Errorf("serializing parent blk[%d]: %w", parent.Number, err)
	}

	if !bytes.Equal(b.ParentHash, parentHash) {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.ParentHash, signature.HashHex(parentHash))
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block's timestamp is greater than parent block's timestamp", b.Number)

	if b.UnixMillis <= parent.UnixMillis {
		return fmt.Errorf("%w: parent %d, block %d", ErrTimestampNotAfterParent, parent.UnixMillis, b.UnixMillis)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block config matches the derived config", b.Number)

	var gpMillis int64
	if !parent.IsGenesis() {
		if grandparent == nil {
			return ErrGrandparentMissing
		}
		if grandparent.Number+1 != parent.Number {
			return fmt.Errorf("grandparent is not the parent's parent, got %d, exp %d", grandparent.Number, parent.Number-1)
		}
		gpMillis = grandparent.UnixMillis
	}

	exp := DeriveConfig(gpMillis, parent.UnixMillis, parent.Config.Difficulty)
	if b.Config != exp {
		return fmt.Errorf("block config doesn't match, got difficulty %d, exp %d", b.Config.Difficulty, exp.Difficulty)
	}

	return b.validateBody(ev)
}

// ValidateGenesis validates the block can start a new chain.
func (b Block) ValidateGenesis(evHandler func(v string, args ...any)) error {
	ev := safeEv(evHandler)

	ev("database: ValidateGenesis: validate: blk[%d]: check: genesis shape", b.Number)

	if b.Number != 0 {
		return fmt.Errorf("genesis block number must be 0, got %d", b.Number)
	}

	if len(b.ParentHash) != 0 {
		return fmt.Errorf("genesis block can't have a parent hash, got %s", b.ParentHash)
	}

	if b.Config != GenesisConfig() {
		return fmt.Errorf("genesis block config doesn't match the genesis config")
	}

	return b.validateBody(ev)
}

// validateBody performs the checks shared by genesis and regular blocks.
func (b Block) validateBody(ev func(v string, args ...any)) error {
	ev("database: ValidateBlock: validate: blk[%d]: check: size limits", b.Number)

	if len(b.Trans) > int(b.Config.MaxTransactionsPerBlock) {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyTransactions, len(b.Trans), b.Config.MaxTransactionsPerBlock)
	}

	if len(b.MiningEntropy) > int(b.Config.MaxMiningEntropySize) {
		return fmt.Errorf("%w: got %d, max %d", ErrEntropyTooLarge, len(b.MiningEntropy), b.Config.MaxMiningEntropySize)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block hash has been solved", b.Number)

	hash, err := b.hash()
	if err != nil {
		return fmt.Errorf("serializing blk[%d]: %w", b.Number, err)
	}

	solved, err := IsHashSolved(uint(b.Config.Difficulty), hash)
	if err != nil {
		return err
	}

	if !solved {
		return fmt.Errorf("%w: %s", ErrHashNotSolved, signature.HashHex(hash))
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: transaction signatures", b.Number)

	rewards := make(map[Coin]bool)
	for i, stx := range b.Trans {
		if err := stx.Validate(); err != nil {
			return fmt.Errorf("tx[%d] %s: %w", i, stx.Tx, err)
		}

		if !stx.Tx.IsReward() {
			continue
		}

		if rewards[stx.Tx.Coin] {
			return fmt.Errorf("tx[%d]: more than one %s reward", i, stx.Tx.Coin)
		}
		rewards[stx.Tx.Coin] = true

		if exp := b.Config.RewardConfig.For(stx.Tx.Coin); stx.Tx.Amount != exp {
			return fmt.Errorf("tx[%d]: %s reward is %s, exp %s", i, stx.Tx.Coin, stx.Tx.Amount, exp)
		}
	}

	return nil
}

// clone returns a copy that shares no memory with the original.
func (b Block) clone() Block {
	nb := b
	nb.Trans = make([]SignedTx, len(b.Trans))
	for i, stx := range b.Trans {
		nb.Trans[i] = stx.clone()
	}
	nb.ParentHash = append(hexutil.Bytes{}, b.ParentHash...)
	nb.MiningEntropy = append(hexutil.Bytes{}, b.MiningEntropy...)

	return nb
}

func (b Block) hash() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}

	return signature.Hash(data), nil
}

// =============================================================================

// For returns the reward paid in the specified coin.
func (rc RewardConfig) For(coin Coin) Amount {
	switch coin {
	case CoinRadcoin:
		return rc.PrimaryCoinReward
	case CoinBWToken:
		return rc.SecondaryTokenReward
	}
	return Amount{}
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// The first difficulty bits of the hash must be zero.
func IsHashSolved(difficulty uint, hash []byte) (bool, error) {
	zeroBytes := int(difficulty / 8)
	remainderBits := difficulty % 8

	if zeroBytes+1 > len(hash) {
		return false, fmt.Errorf("%w: difficulty %d, hash length %d", ErrDifficultyTooHigh, difficulty, len(hash))
	}

	for _, b := range hash[:zeroBytes] {
		if b != 0 {
			return false, nil
		}
	}

	if remainderBits == 0 {
		return true, nil
	}

	// The top remainderBits bits of the next byte must be zero.
	limit := uint(1) << (8 - remainderBits)

	return uint(hash[zeroBytes]) < limit, nil
}

func safeEv(evHandler func(v string, args ...any)) func(v string, args ...any) {
	return func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}
}
