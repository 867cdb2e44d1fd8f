package public

import (
	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
)

type tx struct {
	Amount          string `json:"amount"`
	Coin            string `json:"coin"`
	From            string `json:"from_addr,omitempty"`
	To              string `json:"to_addr"`
	TimestampMillis int64  `json:"timestamp_millis"`
	Signature       string `json:"signature"`
	Reward          bool   `json:"reward"`
}

type block struct {
	Hash          string `json:"hash"`
	Number        uint64 `json:"block_num"`
	UnixMillis    int64  `json:"unix_millis"`
	Difficulty    uint8  `json:"difficulty"`
	VersionTag    string `json:"version_tag"`
	ParentHash    string `json:"parent_hash"`
	MiningEntropy string `json:"mining_entropy"`
	Transactions  []tx   `json:"transactions"`
}

type head struct {
	Length int   `json:"length"`
	Block  block `json:"block"`
}

func toBlock(blk database.Block) block {
	trans := make([]tx, len(blk.Trans))
	for i, stx := range blk.Trans {
		var from string
		if !stx.Tx.IsReward() {
			from = stx.Tx.From.String()
		}

		trans[i] = tx{
			Amount:          stx.Tx.Amount.String(),
			Coin:            stx.Tx.Coin.String(),
			From:            from,
			To:              stx.Tx.To.String(),
			TimestampMillis: stx.Tx.TimestampMillis,
			Signature:       stx.Signature.String(),
			Reward:          stx.Tx.IsReward(),
		}
	}

	return block{
		Hash:          blk.HashHex(),
		Number:        blk.Number,
		UnixMillis:    blk.UnixMillis,
		Difficulty:    blk.Config.Difficulty,
		VersionTag:    blk.Config.VersionTag,
		ParentHash:    blk.ParentHash.String(),
		MiningEntropy: blk.MiningEntropy.String(),
		Transactions:  trans,
	}
}

// =============================================================================

type verifyTx struct {
	Amount          database.Amount     `json:"amount"`
	Coin            database.Coin       `json:"coin" validate:"required"`
	From            signature.PublicKey `json:"from_addr"`
	To              signature.PublicKey `json:"to_addr" validate:"required"`
	TimestampMillis int64               `json:"timestamp_millis"`
}

type verifyRequest struct {
	Transaction verifyTx            `json:"transaction"`
	Signature   signature.Signature `json:"signature" validate:"required"`
}

func (vr verifyRequest) toSignedTx() database.SignedTx {
	return database.SignedTx{
		Tx: database.Tx{
			Amount:          vr.Transaction.Amount,
			Coin:            vr.Transaction.Coin,
			From:            vr.Transaction.From,
			To:              vr.Transaction.To,
			TimestampMillis: vr.Transaction.TimestampMillis,
		},
		Signature: vr.Signature,
	}
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}
