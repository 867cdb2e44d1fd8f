package database_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
)

func Test_SignedTransfer(t *testing.T) {
	alice := keyPair(t, aliceHexKey)
	bob := keyPair(t, bobHexKey)
	mallory := keyPair(t, minerHexKey)

	t.Log("Given the need to authenticate a transfer between two accounts.")
	{
		tx, err := database.NewTx(database.FromUnits(1), database.CoinRadcoin, alice.PublicKey(), bob.PublicKey(), 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the transfer: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen the sender signs the transfer.")
		{
			stx, err := tx.Sign(alice)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign: %v", failed, err)
			}

			if !stx.SignatureIsValid() {
				t.Fatalf("\t%s\tTest 0:\tShould have a valid signature.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have a valid signature.", success)

			data, err := json.Marshal(stx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to marshal: %v", failed, err)
			}

			var decoded database.SignedTx
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to unmarshal: %v", failed, err)
			}

			if !decoded.SignatureIsValid() {
				t.Fatalf("\t%s\tTest 0:\tShould still be valid after decoding.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould still be valid after decoding.", success)
		}

		t.Logf("\tTest 1:\tWhen an unrelated key signs the same transfer.")
		{
			stx, err := tx.Sign(mallory)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to sign: %v", failed, err)
			}

			if stx.SignatureIsValid() {
				t.Fatalf("\t%s\tTest 1:\tShould not have a valid signature.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not have a valid signature.", success)

			if err := stx.Validate(); !errors.Is(err, database.ErrInvalidSignature) {
				t.Fatalf("\t%s\tTest 1:\tShould get an invalid signature error, got %v.", failed, err)
			}
		}

		t.Logf("\tTest 2:\tWhen the transfer is changed after signing.")
		{
			stx, err := tx.Sign(alice)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to sign: %v", failed, err)
			}

			stx.Tx.Amount = database.FromUnits(1_000)
			if stx.SignatureIsValid() {
				t.Fatalf("\t%s\tTest 2:\tShould not have a valid signature.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not have a valid signature.", success)
		}

		t.Logf("\tTest 3:\tWhen the signature is truncated.")
		{
			stx, err := tx.Sign(alice)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to sign: %v", failed, err)
			}

			stx.Signature = stx.Signature[:10]
			if err := stx.Validate(); !errors.Is(err, signature.ErrMalformedSignature) {
				t.Fatalf("\t%s\tTest 3:\tShould get a malformed signature error, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould get a malformed signature error.", success)
		}
	}
}

func Test_RewardTx(t *testing.T) {
	miner := keyPair(t, minerHexKey)
	other := keyPair(t, aliceHexKey)

	tx := database.NewRewardTx(database.PrimaryCoinReward, database.CoinRadcoin, miner.PublicKey(), 10)
	if !tx.IsReward() {
		t.Fatalf("Should be a reward transaction.")
	}

	stx, err := tx.Sign(miner)
	if err != nil {
		t.Fatalf("Should be able to sign the reward: %v", err)
	}

	if !stx.Signer().Equal(miner.PublicKey()) {
		t.Fatalf("Should be signed by the miner being paid.")
	}

	if !stx.SignatureIsValid() {
		t.Fatalf("Should have a valid reward signature.")
	}

	forged, err := tx.Sign(other)
	if err != nil {
		t.Fatalf("Should be able to sign the reward: %v", err)
	}

	if forged.SignatureIsValid() {
		t.Fatalf("Should not accept a reward signed by someone other than the miner.")
	}

	data, err := tx.SigningPayload()
	if err != nil {
		t.Fatalf("Should be able to serialize the reward: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Should be able to decode the payload: %v", err)
	}

	if v, exists := fields["from_addr"]; !exists || v != nil {
		t.Fatalf("Should encode the absent sender as null, got %v", v)
	}
}

func Test_NewTxErrors(t *testing.T) {
	alice := keyPair(t, aliceHexKey)

	if _, err := database.NewTx(database.FromUnits(1), database.CoinRadcoin, nil, alice.PublicKey(), 0); err == nil {
		t.Fatalf("Should require a sender for a transfer.")
	}

	if _, err := database.NewTx(database.FromUnits(1), database.CoinRadcoin, alice.PublicKey(), nil, 0); err == nil {
		t.Fatalf("Should require a receiver for a transfer.")
	}

	if _, err := database.NewTx(database.FromUnits(1), database.Coin(42), alice.PublicKey(), alice.PublicKey(), 0); err == nil {
		t.Fatalf("Should reject an unknown coin.")
	}
}
