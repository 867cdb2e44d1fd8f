package database_test

import (
	"encoding/binary"
	"testing"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	minerHexKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	aliceHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	bobHexKey   = "aed31b6b5a7ba4e0e3bd3bf8c1ee633b1ff8e14dee9d8e0ce7dff3ab4c2c8ea1"
)

// =============================================================================

func keyPair(t *testing.T, hexKey string) signature.KeyPair {
	t.Helper()

	kp, err := signature.KeyPairFromHex(hexKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a key pair: %v", failed, err)
	}

	return kp
}

func reward(t *testing.T, kp signature.KeyPair, ts int64) database.SignedTx {
	t.Helper()

	tx := database.NewRewardTx(database.PrimaryCoinReward, database.CoinRadcoin, kp.PublicKey(), ts)
	stx, err := tx.Sign(kp)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the reward: %v", failed, err)
	}

	return stx
}

// solve searches entropy with a counter until the candidate is solved.
func solve(t *testing.T, c *database.Candidate) database.Block {
	t.Helper()

	entropy := make([]byte, 8)
	for i := uint64(0); ; i++ {
		binary.BigEndian.PutUint64(entropy, i)
		if err := c.ResetMiningEntropy(entropy); err != nil {
			t.Fatalf("\t%s\tShould be able to reset entropy: %v", failed, err)
		}

		if c.HashMeetsDifficulty() {
			b, err := c.Seal()
			if err != nil {
				t.Fatalf("\t%s\tShould be able to seal a solved block: %v", failed, err)
			}
			return b
		}
	}
}

// mineChain builds a chain whose blocks are stamped at the specified times.
func mineChain(t *testing.T, kp signature.KeyPair, times ...int64) []database.Block {
	t.Helper()

	var blocks []database.Block
	for i, ts := range times {
		var parent *database.Block
		var gp *int64

		if i > 0 {
			parent = &blocks[i-1]
		}
		if i > 1 {
			v := blocks[i-2].UnixMillis
			gp = &v
		}

		c, err := database.NewCandidate(parent, gp, ts, []database.SignedTx{reward(t, kp, ts)}, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct block %d: %v", failed, i, err)
		}

		blocks = append(blocks, solve(t, c))
	}

	return blocks
}
