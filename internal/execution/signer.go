// Package execution builds, signs, dry-runs, and submits the on-chain
// transactions that act on scanner-detected opportunities, plus the
// supporting gas-balance and coin-merge maintenance tasks.
package execution

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// ed25519Flag is the signature-scheme flag byte for Ed25519 in the wallet
// address and serialized-signature formats below.
const ed25519Flag = byte(0x00)

// Signer holds an Ed25519 keypair and produces addresses and transaction
// signatures in the wallet's wire format.
type Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewSigner builds a Signer from a private key string. Accepts either a
// hex-encoded 32-byte seed (with or without "0x" prefix) or a bech32-encoded
// key using the "suiprivkey" human-readable part.
func NewSigner(key string) (*Signer, error) {
	var seed []byte
	var err error

	if strings.HasPrefix(key, "suiprivkey") {
		seed, err = decodeBech32Key(key)
	} else {
		seed, err = decodeHexKey(key)
	}
	if err != nil {
		return nil, err
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &Signer{priv: priv, pub: priv.Public().(ed25519.PublicKey)}, nil
}

func decodeHexKey(key string) ([]byte, error) {
	clean := strings.TrimPrefix(key, "0x")
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("execution: invalid hex private key: %w", err)
	}
	if len(raw) != ed25519.SeedSize {
		return nil, fmt.Errorf("execution: private key must be %d bytes, got %d", ed25519.SeedSize, len(raw))
	}
	return raw, nil
}

// decodeBech32Key decodes a "suiprivkey1..." key: bech32(hrp="suiprivkey",
// data = flag_byte || 32_byte_key).
func decodeBech32Key(key string) ([]byte, error) {
	_, data, err := bech32.Decode(key)
	if err != nil {
		return nil, fmt.Errorf("execution: invalid bech32 private key: %w", err)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("execution: invalid bech32 private key data: %w", err)
	}
	if len(raw) != 1+ed25519.SeedSize {
		return nil, fmt.Errorf("execution: bech32 key data must be %d bytes (1 flag + %d key), got %d", 1+ed25519.SeedSize, ed25519.SeedSize, len(raw))
	}
	if raw[0] != ed25519Flag {
		return nil, fmt.Errorf("execution: expected Ed25519 flag (0x00), got 0x%02x", raw[0])
	}
	return raw[1:], nil
}

// Address derives the wallet's on-chain address: blake2b-256(flag ||
// public_key).
func (s *Signer) Address() string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{ed25519Flag})
	h.Write(s.pub)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// SignTransaction signs base64-encoded transaction bytes and returns the
// wallet's serialized signature: base64(flag || signature || public_key).
// The signed digest is blake2b-256 of the 3-byte TransactionData intent
// scope prefix concatenated with the raw transaction bytes.
func (s *Signer) SignTransaction(txBytesBase64 string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(txBytesBase64)
	if err != nil {
		return "", fmt.Errorf("execution: invalid base64 tx bytes: %w", err)
	}

	intentMessage := append([]byte{0, 0, 0}, txBytes...)
	digest := blake2b.Sum256(intentMessage)

	signature := ed25519.Sign(s.priv, digest[:])

	sig := make([]byte, 0, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	sig = append(sig, ed25519Flag)
	sig = append(sig, signature...)
	sig = append(sig, s.pub...)

	return base64.StdEncoding.EncodeToString(sig), nil
}

// PublicKeyBytes returns the raw 32-byte Ed25519 public key.
func (s *Signer) PublicKeyBytes() []byte {
	return []byte(s.pub)
}
