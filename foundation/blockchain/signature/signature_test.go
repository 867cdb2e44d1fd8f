package signature_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
)

const (
	pkHexKey    = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	otherHexKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
)

// =============================================================================

func Test_Signing(t *testing.T) {
	kp, err := signature.KeyPairFromHex(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to construct a key pair: %s", err)
	}

	msg := []byte(`{"name":"Bill"}`)

	sig, err := signature.Sign(kp, msg)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if len(sig) != 65 {
		t.Fatalf("Should get back a 65 byte signature, got %d", len(sig))
	}

	ok, err := signature.Verify(kp.PublicKey(), msg, sig)
	if err != nil {
		t.Fatalf("Should be able to verify the signature: %s", err)
	}
	if !ok {
		t.Fatalf("Should be a valid signature.")
	}

	ok, err = signature.Verify(kp.PublicKey(), []byte(`{"name":"Jill"}`), sig)
	if err != nil {
		t.Fatalf("Should be able to verify the signature against other data: %s", err)
	}
	if ok {
		t.Fatalf("Should not be a valid signature for different data.")
	}
}

func Test_WrongKey(t *testing.T) {
	kp, err := signature.KeyPairFromHex(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to construct a key pair: %s", err)
	}

	other, err := signature.KeyPairFromHex(otherHexKey)
	if err != nil {
		t.Fatalf("Should be able to construct the other key pair: %s", err)
	}

	msg := []byte("transfer")

	sig, err := signature.Sign(other, msg)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	ok, err := signature.Verify(kp.PublicKey(), msg, sig)
	if err != nil {
		t.Fatalf("Should be able to verify the signature: %s", err)
	}
	if ok {
		t.Fatalf("Should not verify a signature made by another key.")
	}
}

func Test_Malformed(t *testing.T) {
	kp, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	msg := []byte("transfer")

	sig, err := signature.Sign(kp, msg)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if _, err := signature.Verify(kp.PublicKey()[:20], msg, sig); !errors.Is(err, signature.ErrMalformedPublicKey) {
		t.Fatalf("Should get a malformed public key error, got %v", err)
	}

	if _, err := signature.Verify(kp.PublicKey(), msg, sig[:64]); !errors.Is(err, signature.ErrMalformedSignature) {
		t.Fatalf("Should get a malformed signature error, got %v", err)
	}
}

func Test_PublicKeyEncoding(t *testing.T) {
	kp, err := signature.KeyPairFromHex(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to construct a key pair: %s", err)
	}

	pk := kp.PublicKey()
	if len(pk) != signature.PublicKeyLength {
		t.Fatalf("Should get a compressed public key, got %d bytes", len(pk))
	}

	parsed, err := signature.ParsePublicKey(pk.String())
	if err != nil {
		t.Fatalf("Should be able to parse the public key: %s", err)
	}
	if !parsed.Equal(pk) {
		t.Logf("got: %s", parsed)
		t.Logf("exp: %s", pk)
		t.Fatalf("Should get back the same public key.")
	}

	var absent signature.PublicKey
	data, err := json.Marshal(absent)
	if err != nil {
		t.Fatalf("Should be able to marshal an absent key: %s", err)
	}
	if string(data) != "null" {
		t.Fatalf("Should marshal an absent key as null, got %s", data)
	}
}

func Test_SaveLoad(t *testing.T) {
	kp, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	path := filepath.Join(t.TempDir(), "miner.ecdsa")
	if err := kp.Save(path); err != nil {
		t.Fatalf("Should be able to save the key pair: %s", err)
	}

	loaded, err := signature.LoadKeyPair(path)
	if err != nil {
		t.Fatalf("Should be able to load the key pair: %s", err)
	}

	if !loaded.PublicKey().Equal(kp.PublicKey()) {
		t.Fatalf("Should load the same key pair.")
	}
}

func Test_EmptyKeyPair(t *testing.T) {
	var kp signature.KeyPair

	if !kp.IsZero() {
		t.Fatalf("Should report an empty key pair.")
	}

	if pk := kp.PublicKey(); pk != nil {
		t.Fatalf("Should get no public key for an empty key pair, got %s", pk)
	}

	if _, err := signature.Sign(kp, []byte("message")); !errors.Is(err, signature.ErrEmptyKeyPair) {
		t.Fatalf("Should not sign with an empty key pair, got %v", err)
	}

	if err := kp.Save(filepath.Join(t.TempDir(), "empty.ecdsa")); !errors.Is(err, signature.ErrEmptyKeyPair) {
		t.Fatalf("Should not save an empty key pair, got %v", err)
	}
}

func Test_Hash(t *testing.T) {
	value := []byte(`{"Name":"Bill"}`)

	h1 := signature.Hash(value)
	h2 := signature.Hash(value)

	if len(h1) != signature.HashLength {
		t.Fatalf("Should get a 32 byte hash, got %d", len(h1))
	}

	if !bytes.Equal(h1, h2) {
		t.Logf("got: %s", signature.HashHex(h1))
		t.Logf("exp: %s", signature.HashHex(h2))
		t.Fatalf("Should get back the same hash twice.")
	}
}
