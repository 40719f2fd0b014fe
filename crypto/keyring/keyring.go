package keyring

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"path/filepath"
	"regexp"

	errorsmod "cosmossdk.io/errors"
	"github.com/99designs/keyring"

	"github.com/initia-labs/counterd/crypto/hd"
)

// Keyring backends.
const (
	// BackendOS stores keys in the secret store of the operating system and
	// falls back to the file backend when none is available.
	BackendOS = "os"
	// BackendFile stores keys in passphrase encrypted files under home.
	BackendFile = "file"
	// BackendTest is the file backend with a fixed passphrase. Testing only.
	BackendTest = "test"
)

// ServiceName is the service keys are stored under.
const ServiceName = "counterd"

const testPassphrase = "test"

const codespace = "keyring"

var (
	// ErrKeyNotFound is returned when no key is stored under a name
	ErrKeyNotFound = errorsmod.Register(codespace, 2, "key not found")

	// ErrKeyExists is returned when adding a key under a taken name
	ErrKeyExists = errorsmod.Register(codespace, 3, "key already exists")

	// ErrInvalidKeyName is returned for names outside [a-zA-Z0-9_.-]{1,64}
	ErrInvalidKeyName = errorsmod.Register(codespace, 4, "invalid key name")

	// ErrUnknownBackend is returned for an unsupported keyring backend
	ErrUnknownBackend = errorsmod.Register(codespace, 5, "unknown keyring backend")

	// ErrPassphraseRequired is returned when an encrypted backend has no passphrase
	ErrPassphraseRequired = errorsmod.Register(codespace, 6, "keyring passphrase required")

	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)
)

type record struct {
	Name     string `json:"name"`
	Mnemonic string `json:"mnemonic"`
	HDPath   string `json:"hd_path"`
	Address  string `json:"address"`
}

// Keyring keeps the mnemonic of every key as an item of the selected backend.
type Keyring struct {
	backend string
	kr      keyring.Keyring
}

// New opens the keyring backend kept under home. passphrase unlocks the
// file backend and is ignored by the test backend.
func New(backend, home, passphrase string) (*Keyring, error) {
	cfg, err := newConfig(backend, home, passphrase)
	if err != nil {
		return nil, err
	}

	kr, err := keyring.Open(cfg)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "open %s keyring", backend)
	}

	return &Keyring{backend: backend, kr: kr}, nil
}

func newConfig(backend, home, passphrase string) (keyring.Config, error) {
	switch backend {
	case BackendOS:
		return keyring.Config{
			ServiceName:              ServiceName,
			FileDir:                  filepath.Join(home, DirName(BackendFile)),
			KeychainTrustApplication: true,
			FilePasswordFunc:         passphrasePrompt(passphrase),
		}, nil
	case BackendFile:
		return keyring.Config{
			AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
			ServiceName:      ServiceName,
			FileDir:          filepath.Join(home, DirName(BackendFile)),
			FilePasswordFunc: passphrasePrompt(passphrase),
		}, nil
	case BackendTest:
		return keyring.Config{
			AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
			ServiceName:      ServiceName,
			FileDir:          filepath.Join(home, DirName(BackendTest)),
			FilePasswordFunc: keyring.FixedStringPrompt(testPassphrase),
		}, nil
	default:
		return keyring.Config{}, errorsmod.Wrapf(ErrUnknownBackend, "%q, expected one of %s|%s|%s", backend, BackendOS, BackendFile, BackendTest)
	}
}

// DirName returns the directory of backend relative to home.
func DirName(backend string) string {
	return "keyring-" + backend
}

func passphrasePrompt(passphrase string) keyring.PromptFunc {
	if passphrase == "" {
		return func(string) (string, error) {
			return "", ErrPassphraseRequired
		}
	}

	return keyring.FixedStringPrompt(passphrase)
}

// Backend returns the name of the backend in use.
func (kr *Keyring) Backend() string {
	return kr.backend
}

// Add creates a key with a fresh mnemonic and returns it with the mnemonic.
func (kr *Keyring) Add(name string) (*Key, string, error) {
	mnemonic, err := hd.NewMnemonic()
	if err != nil {
		return nil, "", err
	}

	key, err := kr.Import(name, mnemonic)
	if err != nil {
		return nil, "", err
	}

	return key, mnemonic, nil
}

// Import stores the key derived from mnemonic at the default path.
func (kr *Keyring) Import(name, mnemonic string) (*Key, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	_, err := kr.kr.Get(name)
	switch {
	case err == nil:
		return nil, errorsmod.Wrap(ErrKeyExists, name)
	case !errors.Is(err, keyring.ErrKeyNotFound):
		return nil, err
	}

	priv, err := hd.Derive(mnemonic, "", hd.DefaultFullBIP44Path)
	if err != nil {
		return nil, err
	}
	key := NewKey(name, priv)

	bz, err := json.Marshal(record{
		Name:     name,
		Mnemonic: mnemonic,
		HDPath:   hd.DefaultFullBIP44Path,
		Address:  key.Address().String(),
	})
	if err != nil {
		return nil, err
	}

	err = kr.kr.Set(keyring.Item{
		Key:         name,
		Data:        bz,
		Label:       name,
		Description: "ed25519 key " + key.Address().String(),
	})
	if err != nil {
		return nil, errorsmod.Wrapf(err, "store key %s", name)
	}

	return key, nil
}

// Key loads the key stored under name.
func (kr *Keyring) Key(name string) (*Key, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	item, err := kr.kr.Get(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, errorsmod.Wrap(ErrKeyNotFound, name)
	}
	if err != nil {
		return nil, errorsmod.Wrapf(err, "load key %s", name)
	}

	var rec record
	if err := json.Unmarshal(item.Data, &rec); err != nil {
		return nil, errorsmod.Wrapf(err, "decode key %s", name)
	}

	hdPath := rec.HDPath
	if hdPath == "" {
		hdPath = hd.DefaultFullBIP44Path
	}

	priv, err := hd.Derive(rec.Mnemonic, "", hdPath)
	if err != nil {
		return nil, err
	}

	return NewKey(name, priv), nil
}

// Ephemeral returns a key that is never stored.
func Ephemeral(name string) (*Key, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	return NewKey(name, priv), nil
}

func validateName(name string) error {
	if !nameRegex.MatchString(name) {
		return errorsmod.Wrapf(ErrInvalidKeyName, "%q", name)
	}

	return nil
}
