package database

import "errors"

// Set of errors returned when a block can't be constructed. These represent
// a malformed proposal and the block should be rejected.
var (
	ErrGrandparentUnexpected   = errors.New("grandparent timestamp specified for a block without a non-genesis parent")
	ErrGrandparentMissing      = errors.New("grandparent timestamp missing for a block with a non-genesis parent")
	ErrTooManyTransactions     = errors.New("too many transactions in the block")
	ErrEntropyTooLarge         = errors.New("too much mining entropy")
	ErrTimestampNotAfterParent = errors.New("block timestamp is not after the parent timestamp")
)

// ErrDifficultyTooHigh is returned when a difficulty needs more zero bytes
// than the hash has.
var ErrDifficultyTooHigh = errors.New("difficulty is too high for the hash length")

// ErrHashNotSolved is returned when a block is sealed or validated before its
// hash meets the difficulty.
var ErrHashNotSolved = errors.New("block hash does not meet the difficulty")

// ErrUnknownCoin is returned when a transaction names a coin outside the
// protocol's closed set.
var ErrUnknownCoin = errors.New("unknown coin")

// ErrEmptyChain is returned when a chain is constructed without blocks.
var ErrEmptyChain = errors.New("empty chain isn't allowed")
