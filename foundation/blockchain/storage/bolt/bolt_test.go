package bolt_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/miner"
	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
	"github.com/ardanlabs/radcoin/foundation/blockchain/storage/bolt"
)

func mine(t *testing.T, n int) []database.Block {
	t.Helper()

	kp, err := signature.KeyPairFromHex("8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0")
	if err != nil {
		t.Fatalf("Should be able to construct a key pair: %v", err)
	}

	now := time.UnixMilli(1_700_000_000_000)
	m := miner.New(miner.Config{
		KeyPair: kp,
		Now: func() time.Time {
			now = now.Add(10 * time.Minute)
			return now
		},
	})

	ctx := context.Background()

	genesis, err := m.MakeGenesis(ctx)
	if err != nil {
		t.Fatalf("Should be able to mine genesis: %v", err)
	}

	blocks := []database.Block{genesis}
	for i := 1; i < n; i++ {
		var gp *database.Block
		if i > 1 {
			gp = &blocks[i-2]
		}

		b, err := m.MineOn(ctx, blocks[i-1], gp)
		if err != nil {
			t.Fatalf("Should be able to mine block %d: %v", i, err)
		}
		blocks = append(blocks, b)
	}

	return blocks
}

func Test_Bolt(t *testing.T) {
	blocks := mine(t, 4)
	dbPath := filepath.Join(t.TempDir(), "chain.db")

	b, err := bolt.New(dbPath)
	if err != nil {
		t.Fatalf("Should be able to open the db: %v", err)
	}

	if err := b.Write(database.NewBlockData(blocks[1])); err == nil {
		t.Fatalf("Should reject a first block that isn't genesis.")
	}

	for _, blk := range blocks {
		if err := b.Write(database.NewBlockData(blk)); err != nil {
			t.Fatalf("Should be able to write block %d: %v", blk.Number, err)
		}
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Should be able to close the db: %v", err)
	}

	// Reopen to prove the blocks were persisted.
	b, err = bolt.New(dbPath)
	if err != nil {
		t.Fatalf("Should be able to reopen the db: %v", err)
	}
	defer b.Close()

	got, err := database.ReadAllBlocks(b, nil)
	if err != nil {
		t.Fatalf("Should be able to read all blocks: %v", err)
	}

	if len(got) != len(blocks) {
		t.Fatalf("Should read %d blocks, got %d", len(blocks), len(got))
	}

	for i := range got {
		if got[i].HashHex() != blocks[i].HashHex() {
			t.Fatalf("Should read back block %d unchanged.", i)
		}
	}

	if _, err := b.GetBlock(99); !errors.Is(err, database.ErrBlockNotFound) {
		t.Fatalf("Should get block not found, got %v", err)
	}

	if err := b.Reset(); err != nil {
		t.Fatalf("Should be able to reset: %v", err)
	}

	if err := b.Write(database.NewBlockData(blocks[0])); err != nil {
		t.Fatalf("Should be able to write genesis after a reset: %v", err)
	}
}
