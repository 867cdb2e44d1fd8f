package disk_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/miner"
	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
	"github.com/ardanlabs/radcoin/foundation/blockchain/storage/disk"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
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

// =============================================================================

func Test_Disk(t *testing.T) {
	blocks := mine(t, 3)
	dbPath := filepath.Join(t.TempDir(), "blocks")

	t.Log("Given the need to persist blocks as files.")
	{
		d, err := disk.New(dbPath)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open the storage: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen writing a chain of %d blocks.", len(blocks))
		{
			for _, b := range blocks {
				if err := d.Write(database.NewBlockData(b)); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to write block %d: %v", failed, b.Number, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould be able to write every block.", success)

			if err := d.Write(database.NewBlockData(blocks[0])); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould not be able to rewrite a block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not be able to rewrite a block.", success)
		}

		t.Logf("\tTest 1:\tWhen reading the chain back.")
		{
			got, err := database.ReadAllBlocks(d, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read all blocks: %v", failed, err)
			}

			if len(got) != len(blocks) || got[2].HashHex() != blocks[2].HashHex() {
				t.Fatalf("\t%s\tTest 1:\tShould read back the same chain.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould read back the same chain.", success)

			if _, err := d.GetBlock(10); !errors.Is(err, database.ErrBlockNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould get block not found, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get block not found for a missing block.", success)
		}

		t.Logf("\tTest 2:\tWhen a stored block is edited by hand.")
		{
			blockData, err := d.GetBlock(1)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to get the block: %v", failed, err)
			}

			// Keep the recorded hash but change the contents.
			blockData.Block.UnixMillis++

			data, err := json.Marshal(blockData)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to marshal the block: %v", failed, err)
			}

			if err := os.WriteFile(filepath.Join(dbPath, "1.json"), data, 0600); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to rewrite the file: %v", failed, err)
			}

			if _, err := database.ReadAllBlocks(d, nil); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould refuse to load the edited chain.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould refuse to load the edited chain.", success)
		}

		t.Logf("\tTest 3:\tWhen resetting the storage.")
		{
			if err := d.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to reset: %v", failed, err)
			}

			got, err := database.ReadAllBlocks(d, nil)
			if err != nil || len(got) != 0 {
				t.Fatalf("\t%s\tTest 3:\tShould read nothing after a reset, got %d blocks: %v", failed, len(got), err)
			}
			t.Logf("\t%s\tTest 3:\tShould read nothing after a reset.", success)
		}
	}
}
