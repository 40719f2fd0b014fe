package hd

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/cosmos/go-bip39"
)

const (
	// Ed25519Type is the signature scheme of derived keys
	Ed25519Type = "ed25519"

	// CoinType is the SLIP-44 coin type of the ledger
	CoinType = 784

	// HardenedOffset is added to every path index, ed25519 only supports hardened derivation
	HardenedOffset = uint32(0x80000000)

	// MnemonicEntropySize yields 12 word mnemonics
	MnemonicEntropySize = 128
)

// DefaultFullBIP44Path is the path of the first account.
var DefaultFullBIP44Path = fmt.Sprintf("m/44'/%d'/0'/0'/0'", CoinType)

const masterSecret = "ed25519 seed"

// NewMnemonic returns a fresh 12 word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropySize)
	if err != nil {
		return "", err
	}

	return bip39.NewMnemonic(entropy)
}

// Derive derives the ed25519 private key of hdPath from the mnemonic.
func Derive(mnemonic, bip39Passphrase, hdPath string) (ed25519.PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, bip39Passphrase)
	if err != nil {
		return nil, err
	}

	key, _, err := DeriveForPath(seed, hdPath)
	if err != nil {
		return nil, err
	}

	return ed25519.NewKeyFromSeed(key[:]), nil
}

// ComputeMastersFromSeed returns the master secret key and chain code.
func ComputeMastersFromSeed(seed []byte) (secret [32]byte, chainCode [32]byte) {
	return split(hmacSHA512([]byte(masterSecret), seed))
}

// DeriveForPath derives the secret key and chain code of path (SLIP-0010).
// Every segment must be hardened.
func DeriveForPath(seed []byte, path string) (secret [32]byte, chainCode [32]byte, err error) {
	indices, err := ParsePath(path)
	if err != nil {
		return secret, chainCode, err
	}

	secret, chainCode = ComputeMastersFromSeed(seed)
	for _, index := range indices {
		secret, chainCode = deriveChild(secret, chainCode, index)
	}

	return secret, chainCode, nil
}

// ParsePath parses "m/44'/784'/0'/0'/0'" into hardened indices.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("path %q must start with m", path)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if !strings.HasSuffix(part, "'") {
			return nil, fmt.Errorf("path %q: segment %q is not hardened", path, part)
		}

		idx, err := strconv.ParseUint(strings.TrimSuffix(part, "'"), 10, 31)
		if err != nil {
			return nil, fmt.Errorf("path %q: invalid segment %q: %w", path, part, err)
		}

		indices = append(indices, uint32(idx)+HardenedOffset)
	}

	return indices, nil
}

func deriveChild(secret, chainCode [32]byte, index uint32) ([32]byte, [32]byte) {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x0)
	data = append(data, secret[:]...)
	data = binary.BigEndian.AppendUint32(data, index)

	return split(hmacSHA512(chainCode[:], data))
}

func hmacSHA512(key, data []byte) []byte {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func split(bz []byte) (left [32]byte, right [32]byte) {
	copy(left[:], bz[:32])
	copy(right[:], bz[32:])
	return left, right
}
