package keyring

import (
	"crypto/ed25519"
	"encoding/base64"

	"golang.org/x/crypto/blake2b"

	"github.com/initia-labs/counterd/x/counter/types"
)

// Ed25519Flag is the signature scheme flag prepended to ed25519 public keys
// and serialized signatures.
const Ed25519Flag = byte(0x00)

// intentTransactionData is the intent prefix of transaction data: scope
// TransactionData, version V0, app id Sui.
var intentTransactionData = []byte{0, 0, 0}

// Key is an ed25519 signing key.
type Key struct {
	Name string
	priv ed25519.PrivateKey
}

// NewKey wraps priv.
func NewKey(name string, priv ed25519.PrivateKey) *Key {
	return &Key{Name: name, priv: priv}
}

// PubKey returns the public key.
func (k *Key) PubKey() ed25519.PublicKey {
	return k.priv.Public().(ed25519.PublicKey)
}

// Address returns blake2b256(flag || pubkey) as a 0x prefixed hex string.
func (k *Key) Address() types.Address {
	return AddressFromPubKey(k.PubKey())
}

// SignTransaction signs the intent message of txBytes and returns the
// serialized signature: flag || signature || pubkey.
func (k *Key) SignTransaction(txBytes []byte) []byte {
	digest := IntentDigest(txBytes)
	sig := ed25519.Sign(k.priv, digest[:])

	out := make([]byte, 0, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	out = append(out, Ed25519Flag)
	out = append(out, sig...)
	out = append(out, k.PubKey()...)
	return out
}

// SignTransactionBase64 is SignTransaction encoded the way the node expects it.
func (k *Key) SignTransactionBase64(txBytes []byte) string {
	return base64.StdEncoding.EncodeToString(k.SignTransaction(txBytes))
}

// IntentDigest returns blake2b256(intent || txBytes).
func IntentDigest(txBytes []byte) [32]byte {
	msg := make([]byte, 0, len(intentTransactionData)+len(txBytes))
	msg = append(msg, intentTransactionData...)
	msg = append(msg, txBytes...)
	return blake2b.Sum256(msg)
}

// AddressFromPubKey derives the account address of an ed25519 public key.
func AddressFromPubKey(pub ed25519.PublicKey) types.Address {
	bz := make([]byte, 0, 1+len(pub))
	bz = append(bz, Ed25519Flag)
	bz = append(bz, pub...)
	sum := blake2b.Sum256(bz)
	return types.NewAddressFromBytes(sum[:])
}
