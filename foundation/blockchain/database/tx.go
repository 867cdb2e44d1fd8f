package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
)

// ErrInvalidSignature is returned by Validate when the signature doesn't
// belong to the transaction's signer.
var ErrInvalidSignature = errors.New("invalid signature")

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	Amount          Amount              `json:"amount"`           // Value being transferred.
	Coin            Coin                `json:"coin"`             // The asset the amount is denominated in.
	From            signature.PublicKey `json:"from_addr"`        // Sender, absent for a mining reward.
	To              signature.PublicKey `json:"to_addr"`          // Account receiving the value.
	TimestampMillis int64               `json:"timestamp_millis"` // Time the transaction was created.
}

// NewTx constructs a transfer of value between two accounts.
func NewTx(amount Amount, coin Coin, from signature.PublicKey, to signature.PublicKey, timestampMillis int64) (Tx, error) {
	if _, exists := coinNames[coin]; !exists {
		return Tx{}, fmt.Errorf("%w: %d", ErrUnknownCoin, uint8(coin))
	}

	if from.IsZero() {
		return Tx{}, errors.New("from account is required for a transfer")
	}

	if to.IsZero() {
		return Tx{}, errors.New("to account is required")
	}

	tx := Tx{
		Amount:          amount,
		Coin:            coin,
		From:            from,
		To:              to,
		TimestampMillis: timestampMillis,
	}

	return tx, nil
}

// NewRewardTx constructs a mining reward. A reward has no sender, the value
// is created by the protocol and paid to the miner.
func NewRewardTx(amount Amount, coin Coin, miner signature.PublicKey, timestampMillis int64) Tx {
	return Tx{
		Amount:          amount,
		Coin:            coin,
		To:              miner,
		TimestampMillis: timestampMillis,
	}
}

// IsReward reports if the transaction is a protocol generated reward.
func (tx Tx) IsReward() bool {
	return tx.From.IsZero()
}

// SigningPayload returns the canonical bytes that are signed and verified
// for this transaction.
func (tx Tx) SigningPayload() ([]byte, error) {
	return json.Marshal(tx)
}

// Sign uses the specified key pair to sign the transaction.
func (tx Tx) Sign(kp signature.KeyPair) (SignedTx, error) {
	data, err := tx.SigningPayload()
	if err != nil {
		return SignedTx{}, fmt.Errorf("serializing tx: %w", err)
	}

	sig, err := signature.Sign(kp, data)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx:        tx,
		Signature: sig,
	}

	return signedTx, nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	from := "reward"
	if !tx.IsReward() {
		from = tx.From.String()
	}
	return fmt.Sprintf("%s:%s:%s %s", from, tx.To, tx.Amount, tx.Coin)
}

// =============================================================================

// SignedTx is a signed version of the transaction. A signed transaction may
// exist with a signature that doesn't validate, validity is checked on demand.
type SignedTx struct {
	Tx        Tx                  `json:"transaction"`
	Signature signature.Signature `json:"signature"`
}

// Signer returns the key the signature must validate against. Transfers are
// signed by the sender. A reward has no sender so it is signed by the miner
// being paid, which means no source side verification is involved.
func (stx SignedTx) Signer() signature.PublicKey {
	if stx.Tx.IsReward() {
		return stx.Tx.To
	}
	return stx.Tx.From
}

// Validate checks the signature against the signer. It returns
// ErrInvalidSignature for a well formed signature that doesn't match and a
// malformed error from the signature package for bad encodings.
func (stx SignedTx) Validate() error {
	if _, exists := coinNames[stx.Tx.Coin]; !exists {
		return fmt.Errorf("%w: %d", ErrUnknownCoin, uint8(stx.Tx.Coin))
	}

	data, err := stx.Tx.SigningPayload()
	if err != nil {
		return fmt.Errorf("serializing tx: %w", err)
	}

	ok, err := signature.Verify(stx.Signer(), data, stx.Signature)
	if err != nil {
		return err
	}

	if !ok {
		return ErrInvalidSignature
	}

	return nil
}

// SignatureIsValid reports if the signature validates against the signer.
func (stx SignedTx) SignatureIsValid() bool {
	return stx.Validate() == nil
}

// clone returns a copy that shares no memory with the original.
func (stx SignedTx) clone() SignedTx {
	nstx := stx
	nstx.Tx.From = cloneKey(stx.Tx.From)
	nstx.Tx.To = cloneKey(stx.Tx.To)
	nstx.Signature = append(signature.Signature(nil), stx.Signature...)

	return nstx
}

func cloneKey(pk signature.PublicKey) signature.PublicKey {
	if pk == nil {
		return nil
	}
	return append(signature.PublicKey{}, pk...)
}
