package database

import "math"

// Protocol constants carried by every block config.
const (
	VersionTag              = "radcoin-2017-12-24"
	MaxMiningEntropySize    = 32
	MaxTransactionsPerBlock = 256

	// Millisecond deltas between the grandparent and parent blocks that
	// trigger a difficulty change.
	HalveGTTimeDelta  int64 = 15 * 60 * 1000
	DoubleGTTimeDelta int64 = 5 * 60 * 1000
)

// Reward amounts paid to the miner of every block.
var (
	PrimaryCoinReward    = FromUnits(100)
	SecondaryTokenReward = FromUnits(100)
)

// =============================================================================

// DifficultyConfig holds the time deltas that drive difficulty adjustment.
type DifficultyConfig struct {
	HalveGTTimeDelta  int64 `json:"halve_gt_time_delta"`  // Slower than this lowers difficulty by one.
	DoubleGTTimeDelta int64 `json:"double_gt_time_delta"` // Faster than this raises difficulty by one.
}

// RewardConfig holds what the miner of a block is paid.
type RewardConfig struct {
	PrimaryCoinReward    Amount `json:"primary_coin_reward"`
	SecondaryTokenReward Amount `json:"secondary_token_reward"`
}

// BlockConfig represents the protocol parameters that apply to one block.
type BlockConfig struct {
	VersionTag              string           `json:"version_tag"`
	IsGenesis               bool             `json:"is_genesis"`
	Difficulty              uint8            `json:"difficulty"` // Number of leading hash bits that must be zero.
	MaxMiningEntropySize    uint16           `json:"max_mining_entropy_size"`
	MaxTransactionsPerBlock uint32           `json:"max_transactions_per_block"`
	DifficultyConfig        DifficultyConfig `json:"difficulty_config"`
	RewardConfig            RewardConfig     `json:"reward_config"`
}

// GenesisConfig returns the config for the first block in the chain.
func GenesisConfig() BlockConfig {
	cfg := protocolConfig()
	cfg.IsGenesis = true
	cfg.Difficulty = 0

	return cfg
}

// DeriveConfig returns the config for a block whose parent and grandparent
// were stamped at the specified times. Only the last two blocks are used to
// decide if the chain is running too fast or too slow.
func DeriveConfig(grandparentMillis int64, parentMillis int64, parentDifficulty uint8) BlockConfig {
	cfg := protocolConfig()
	cfg.Difficulty = adjustDifficulty(grandparentMillis, parentMillis, parentDifficulty, cfg.DifficultyConfig)

	return cfg
}

// protocolConfig returns the fixed parameters shared by every block.
func protocolConfig() BlockConfig {
	return BlockConfig{
		VersionTag:              VersionTag,
		MaxMiningEntropySize:    MaxMiningEntropySize,
		MaxTransactionsPerBlock: MaxTransactionsPerBlock,
		DifficultyConfig: DifficultyConfig{
			HalveGTTimeDelta:  HalveGTTimeDelta,
			DoubleGTTimeDelta: DoubleGTTimeDelta,
		},
		RewardConfig: RewardConfig{
			PrimaryCoinReward:    PrimaryCoinReward,
			SecondaryTokenReward: SecondaryTokenReward,
		},
	}
}

func adjustDifficulty(grandparentMillis int64, parentMillis int64, parentDifficulty uint8, dc DifficultyConfig) uint8 {
	delta := parentMillis - grandparentMillis

	switch {
	case delta > dc.HalveGTTimeDelta:
		if parentDifficulty == 0 {
			return 0
		}
		return parentDifficulty - 1

	case delta < dc.DoubleGTTimeDelta:
		if parentDifficulty == math.MaxUint8 {
			return math.MaxUint8
		}
		return parentDifficulty + 1
	}

	return parentDifficulty
}
