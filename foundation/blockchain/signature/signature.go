// Package signature provides helper functions for handling the blockchain
// key, signing and hashing needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKeyLength is the size of a compressed secp256k1 public key.
const PublicKeyLength = 33

// HashLength is the size of the digest produced by Hash.
const HashLength = sha256.Size

// Set of error variables for malformed verification inputs. A signature
// that simply doesn't match is not an error, it's a false result.
var (
	ErrMalformedPublicKey = errors.New("malformed public key")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrEmptyKeyPair       = errors.New("empty key pair")
)

// radcoinStamp is prefixed to every message before signing. This makes it
// clear that the signature comes from the radcoin chain and can't be replayed
// as a signature over some other kind of message.
const radcoinStamp = "\x19Radcoin Signed Message:\n32"

// =============================================================================

// PublicKey is the compressed encoding of a secp256k1 public key. It is the
// address used to send and receive value.
type PublicKey []byte

// ParsePublicKey decodes a 0x prefixed hex string into a public key and
// checks the point is on the curve.
func ParsePublicKey(s string) (PublicKey, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}

	pk := PublicKey(b)
	if err := pk.check(); err != nil {
		return nil, err
	}

	return pk, nil
}

// String returns the 0x prefixed hex form of the key.
func (pk PublicKey) String() string {
	return hexutil.Encode(pk)
}

// Equal reports if both keys have the same encoding.
func (pk PublicKey) Equal(other PublicKey) bool {
	return string(pk) == string(other)
}

// IsZero reports if the key is absent.
func (pk PublicKey) IsZero() bool {
	return len(pk) == 0
}

// MarshalJSON encodes the key as a hex string, or null when absent.
func (pk PublicKey) MarshalJSON() ([]byte, error) {
	if pk.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(hexutil.Bytes(pk))
}

// UnmarshalJSON decodes a hex string or null.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*pk = nil
		return nil
	}

	var b hexutil.Bytes
	if err := b.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("public key: %w", err)
	}

	*pk = PublicKey(b)
	return nil
}

func (pk PublicKey) check() error {
	if len(pk) != PublicKeyLength {
		return fmt.Errorf("%w: length %d, exp %d", ErrMalformedPublicKey, len(pk), PublicKeyLength)
	}

	if _, err := crypto.DecompressPubkey(pk); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedPublicKey, err)
	}

	return nil
}

// =============================================================================

// KeyPair owns the private signing material. It is never serialized as part
// of the chain.
type KeyPair struct {
	privateKey *ecdsa.PrivateKey
}

// GenerateKeyPair creates a new key pair from the system's secure random
// source. An error here means the entropy source has failed.
func GenerateKeyPair() (KeyPair, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return KeyPair{}, fmt.Errorf("generating key: %w", err)
	}

	return KeyPair{privateKey: pk}, nil
}

// KeyPairFromHex constructs a key pair from a hex encoded private key.
func KeyPairFromHex(hexKey string) (KeyPair, error) {
	pk, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return KeyPair{}, fmt.Errorf("parsing private key: %w", err)
	}

	return KeyPair{privateKey: pk}, nil
}

// LoadKeyPair reads a key file written by Save.
func LoadKeyPair(path string) (KeyPair, error) {
	pk, err := crypto.LoadECDSA(path)
	if err != nil {
		return KeyPair{}, fmt.Errorf("loading key %q: %w", path, err)
	}

	return KeyPair{privateKey: pk}, nil
}

// IsZero reports if the key pair holds no private key.
func (kp KeyPair) IsZero() bool {
	return kp.privateKey == nil
}

// Save writes the private key as hex to the specified file.
func (kp KeyPair) Save(path string) error {
	if kp.IsZero() {
		return ErrEmptyKeyPair
	}
	return crypto.SaveECDSA(path, kp.privateKey)
}

// PublicKey returns the shareable public half of the pair. An empty key pair
// has no public key.
func (kp KeyPair) PublicKey() PublicKey {
	if kp.IsZero() {
		return nil
	}
	return crypto.CompressPubkey(&kp.privateKey.PublicKey)
}

// =============================================================================

// Signature is the 65 byte [R|S|V] form produced by Sign.
type Signature []byte

// String returns the 0x prefixed hex form of the signature.
func (sig Signature) String() string {
	return hexutil.Encode(sig)
}

// MarshalText implements encoding.TextMarshaler.
func (sig Signature) MarshalText() ([]byte, error) {
	return hexutil.Bytes(sig).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (sig *Signature) UnmarshalText(input []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(input); err != nil {
		return fmt.Errorf("signature: %w", err)
	}

	*sig = Signature(b)
	return nil
}

// Sign uses the key pair's private key to sign the message.
func Sign(kp KeyPair, message []byte) (Signature, error) {
	if kp.IsZero() {
		return nil, fmt.Errorf("signing: %w", ErrEmptyKeyPair)
	}

	sig, err := crypto.Sign(stamp(message), kp.privateKey)
	if err != nil {
		return nil, fmt.Errorf("signing: %w", err)
	}

	return sig, nil
}

// Verify reports if the signature was produced over the message by the
// private key behind the public key. Only malformed inputs return an error.
func Verify(pk PublicKey, message []byte, sig Signature) (bool, error) {
	if err := pk.check(); err != nil {
		return false, err
	}

	if len(sig) != crypto.SignatureLength {
		return false, fmt.Errorf("%w: length %d, exp %d", ErrMalformedSignature, len(sig), crypto.SignatureLength)
	}

	// The recovery id isn't needed to verify against a known key.
	rs := sig[:crypto.RecoveryIDOffset]

	return crypto.VerifySignature(pk, stamp(message), rs), nil
}

// =============================================================================

// Hash returns the sha256 digest of the data.
func Hash(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// HashHex returns the 0x prefixed hex form of a hash.
func HashHex(hash []byte) string {
	return hexutil.Encode(hash)
}

// stamp returns a hash of 32 bytes that represents the message with the
// radcoin stamp embedded into the final hash.
func stamp(message []byte) []byte {

	// Hash the message into a 32 byte array. This will provide a data
	// length consistency with all messages.
	msgHash := crypto.Keccak256(message)

	// Hash the stamp and msgHash together in a final 32 byte array
	// that represents the message.
	return crypto.Keccak256([]byte(radcoinStamp), msgHash)
}
