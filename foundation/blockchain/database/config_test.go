package database_test

import (
	"testing"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
)

func Test_DeriveConfig(t *testing.T) {
	const minute = int64(60 * 1000)

	type table struct {
		name       string
		gp         int64
		parent     int64
		difficulty uint8
		exp        uint8
	}

	tt := []table{
		{name: "too fast raises", gp: 0, parent: minute, difficulty: 4, exp: 5},
		{name: "too fast capped", gp: 0, parent: minute, difficulty: 255, exp: 255},
		{name: "too slow lowers", gp: 0, parent: 20 * minute, difficulty: 4, exp: 3},
		{name: "too slow floored", gp: 0, parent: 20 * minute, difficulty: 0, exp: 0},
		{name: "in band unchanged", gp: 0, parent: 10 * minute, difficulty: 4, exp: 4},
		{name: "at double threshold unchanged", gp: 0, parent: 5 * minute, difficulty: 4, exp: 4},
		{name: "at halve threshold unchanged", gp: 0, parent: 15 * minute, difficulty: 4, exp: 4},
		{name: "negative delta raises", gp: minute, parent: 0, difficulty: 4, exp: 5},
	}

	t.Log("Given the need to adjust the difficulty from the last two blocks.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the parent arrives %dms after the grandparent.", testID, tst.parent-tst.gp)
				{
					cfg := database.DeriveConfig(tst.gp, tst.parent, tst.difficulty)

					if cfg.Difficulty != tst.exp {
						t.Fatalf("\t%s\tTest %d:\tShould get difficulty %d, got %d.", failed, testID, tst.exp, cfg.Difficulty)
					}
					t.Logf("\t%s\tTest %d:\tShould get difficulty %d.", success, testID, tst.exp)

					if cfg.IsGenesis {
						t.Fatalf("\t%s\tTest %d:\tShould not be a genesis config.", failed, testID)
					}
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_GenesisConfig(t *testing.T) {
	cfg := database.GenesisConfig()

	if !cfg.IsGenesis || cfg.Difficulty != 0 {
		t.Fatalf("Should get a genesis config at difficulty 0, got genesis[%v] difficulty[%d]", cfg.IsGenesis, cfg.Difficulty)
	}

	if cfg.VersionTag != database.VersionTag || cfg.MaxMiningEntropySize != 32 || cfg.MaxTransactionsPerBlock != 256 {
		t.Fatalf("Should carry the protocol constants, got %+v", cfg)
	}

	if cfg.RewardConfig.For(database.CoinRadcoin) != database.FromUnits(100) {
		t.Fatalf("Should pay 100 radcoin per block, got %s", cfg.RewardConfig.For(database.CoinRadcoin))
	}
}
