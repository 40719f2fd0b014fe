package types

import (
	"encoding/hex"
	"regexp"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// AddressBytesLength is the byte length of a package, object or account address.
const AddressBytesLength = 32

var addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// Address is a hex encoded identifier of an on-chain package, object or account.
type Address string

// IsValidAddress reports whether s is "0x" followed by 1 to 64 hex characters.
func IsValidAddress(s string) bool {
	return addressRegex.MatchString(s)
}

// ValidateAddress returns ErrInvalidAddress naming field when s is not a valid address.
func ValidateAddress(field, s string) error {
	if !IsValidAddress(s) {
		return errorsmod.Wrapf(ErrInvalidAddress, "%s format error (0x + hex): %q", field, s)
	}

	return nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return string(a)
}

// Empty reports whether the address is unset.
func (a Address) Empty() bool {
	return a == ""
}

// Bytes returns the address left padded with zeros to AddressBytesLength bytes.
func (a Address) Bytes() ([]byte, error) {
	if !IsValidAddress(string(a)) {
		return nil, errorsmod.Wrapf(ErrInvalidAddress, "%q", string(a))
	}

	addrStr := strings.TrimPrefix(string(a), "0x")
	if len(addrStr)%2 == 1 {
		addrStr = "0" + addrStr
	}

	bz, err := hex.DecodeString(addrStr)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidAddress, err.Error())
	}

	out := make([]byte, AddressBytesLength)
	copy(out[AddressBytesLength-len(bz):], bz)
	return out, nil
}

// NewAddressFromBytes returns the full length hex form of bz.
func NewAddressFromBytes(bz []byte) Address {
	return Address("0x" + hex.EncodeToString(bz))
}
