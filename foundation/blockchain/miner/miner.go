// Package miner builds reward paying blocks and performs the proof of work
// search that solves them.
package miner

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// seedLength is the number of random bytes mixed into every entropy value.
const seedLength = 16

// attemptsReport is how often a worker reports progress.
const attemptsReport = 1_000_000

// errSolved is used by the winning worker to cancel the others.
var errSolved = errors.New("solved")

// EventHandler defines a function that is called when events occur in the
// processing of mining blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a miner.
type Config struct {
	KeyPair   signature.KeyPair // Key that is paid and signs the rewards.
	Workers   int               // Number of goroutines searching in parallel.
	Now       func() time.Time  // Clock used to stamp blocks, defaults to time.Now.
	EvHandler EventHandler
}

// Miner produces new blocks paying the rewards to its own key.
type Miner struct {
	keyPair   signature.KeyPair
	workers   int
	now       func() time.Time
	evHandler EventHandler
}

// New constructs a miner for use.
func New(cfg Config) *Miner {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Miner{
		keyPair:   cfg.KeyPair,
		workers:   workers,
		now:       now,
		evHandler: ev,
	}
}

// PublicKey returns the key the miner is paid to.
func (m *Miner) PublicKey() signature.PublicKey {
	return m.keyPair.PublicKey()
}

// MakeGenesis mines the first block of a new chain.
func (m *Miner) MakeGenesis(ctx context.Context) (database.Block, error) {
	t := m.now().UTC().UnixMilli()

	trans, err := m.makeRewards(t)
	if err != nil {
		return database.Block{}, err
	}

	candidate, err := database.NewCandidate(nil, nil, t, trans, nil)
	if err != nil {
		return database.Block{}, fmt.Errorf("constructing genesis: %w", err)
	}

	return m.search(ctx, candidate)
}

// MineOn mines a new block on top of the parent. The grandparent must be
// provided unless the parent is the genesis block. The search runs until a
// solution is found or the context is cancelled.
func (m *Miner) MineOn(ctx context.Context, parent database.Block, grandparent *database.Block) (database.Block, error) {

	// The timestamp must move forward even if the clock hasn't.
	t := m.now().UTC().UnixMilli()
	if t <= parent.UnixMillis {
		t = parent.UnixMillis + 1
	}

	var gpMillis *int64
	if grandparent != nil {
		v := grandparent.UnixMillis
		gpMillis = &v
	}

	trans, err := m.makeRewards(t)
	if err != nil {
		return database.Block{}, err
	}

	candidate, err := database.NewCandidate(&parent, gpMillis, t, trans, nil)
	if err != nil {
		return database.Block{}, fmt.Errorf("constructing block %d: %w", parent.Number+1, err)
	}

	return m.search(ctx, candidate)
}

// =============================================================================

// search does the work of mining to find a valid hash for the candidate.
// Every worker owns its own copy of the candidate and the first one to find
// a solution cancels the rest.
func (m *Miner) search(ctx context.Context, candidate *database.Candidate) (database.Block, error) {
	runID := uuid.NewString()

	m.evHandler("miner: search: MINING: started: run[%s]: blk[%d]: difficulty[%d]: workers[%d]", runID, candidate.Number(), candidate.Difficulty(), m.workers)
	defer m.evHandler("miner: search: MINING: completed: run[%s]", runID)

	// A fresh random seed per search plus a counter per worker means no two
	// attempts ever try the same entropy.
	seed := make([]byte, seedLength)
	if _, err := rand.Read(seed); err != nil {
		return database.Block{}, fmt.Errorf("reading seed: %w", err)
	}

	if m.workers == 1 {
		block, err := m.work(ctx, runID, 0, candidate, seed)
		if err != nil {
			m.evHandler("miner: search: MINING: CANCELLED: run[%s]", runID)
			return database.Block{}, err
		}
		return block, nil
	}

	var once sync.Once
	var found database.Block

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < m.workers; w++ {
		w := w
		c := candidate.Clone()
		g.Go(func() error {
			block, err := m.work(gctx, runID, uint32(w), c, seed)
			if err != nil {
				return err
			}

			once.Do(func() { found = block })
			return errSolved
		})
	}

	if err := g.Wait(); !errors.Is(err, errSolved) {
		m.evHandler("miner: search: MINING: CANCELLED: run[%s]", runID)
		if err == nil {
			err = ctx.Err()
		}
		return database.Block{}, err
	}

	return found, nil
}

// work keeps replacing the candidate's entropy until its hash is solved or
// the context is cancelled.
func (m *Miner) work(ctx context.Context, runID string, worker uint32, candidate *database.Candidate, seed []byte) (database.Block, error) {
	for attempt := uint64(0); ; attempt++ {
		if ctx.Err() != nil {
			return database.Block{}, ctx.Err()
		}

		if attempt > 0 && attempt%attemptsReport == 0 {
			m.evHandler("miner: work: MINING: run[%s]: worker[%d]: attempts[%d]", runID, worker, attempt)
		}

		if err := candidate.ResetMiningEntropy(makeEntropy(seed, worker, attempt)); err != nil {
			return database.Block{}, err
		}

		if !candidate.HashMeetsDifficulty() {
			continue
		}

		block, err := candidate.Seal()
		if err != nil {
			return database.Block{}, err
		}

		m.evHandler("miner: work: MINING: SOLVED: run[%s]: worker[%d]: blk[%d]: hash[%s]: attempts[%d]", runID, worker, block.Number, block.HashHex(), attempt+1)

		return block, nil
	}
}

// makeRewards constructs the signed reward transactions for a block.
func (m *Miner) makeRewards(timestampMillis int64) ([]database.SignedTx, error) {
	rewards := []struct {
		coin   database.Coin
		amount database.Amount
	}{
		{database.CoinRadcoin, database.PrimaryCoinReward},
		{database.CoinBWToken, database.SecondaryTokenReward},
	}

	var trans []database.SignedTx
	for _, r := range rewards {
		if r.amount.IsZero() {
			continue
		}

		tx := database.NewRewardTx(r.amount, r.coin, m.keyPair.PublicKey(), timestampMillis)

		signedTx, err := tx.Sign(m.keyPair)
		if err != nil {
			return nil, fmt.Errorf("signing %s reward: %w", r.coin, err)
		}

		trans = append(trans, signedTx)
	}

	return trans, nil
}

// makeEntropy derives the entropy for an attempt from the search seed, the
// worker id and the attempt counter.
func makeEntropy(seed []byte, worker uint32, attempt uint64) []byte {
	buf := make([]byte, 0, len(seed)+12)
	buf = append(buf, seed...)
	buf = binary.BigEndian.AppendUint32(buf, worker)
	buf = binary.BigEndian.AppendUint64(buf, attempt)

	return signature.Hash(buf)
}
