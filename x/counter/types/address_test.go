package types_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/initia-labs/counterd/x/counter/types"
)

func Test_IsValidAddress(t *testing.T) {
	testCases := []struct {
		name   string
		s      string
		expRes bool
	}{
		{"short lower hex", "0xabc", true},
		{"mixed case hex", "0xABC123", true},
		{"single digit", "0x1", true},
		{"64 hex digits", "0x" + strings.Repeat("a", 64), true},
		{"65 hex digits", "0x" + strings.Repeat("a", 65), false},
		{"missing prefix", "abc", false},
		{"prefix only", "0x", false},
		{"empty", "", false},
		{"upper prefix", "0XABC", false},
		{"non hex", "0xabg", false},
		{"trailing space", "0xabc ", false},
		{"leading space", " 0xabc", false},
		{"newline", "0xabc\n", false},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expRes, types.IsValidAddress(tc.s), tc.name)
	}
}

func Test_ValidateAddress(t *testing.T) {
	require.NoError(t, types.ValidateAddress("package id", "0xaaaa"))

	err := types.ValidateAddress("counter id", "bad")
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrInvalidAddress))
	require.Contains(t, err.Error(), "counter id")
}

func Test_AddressBytes(t *testing.T) {
	bz, err := types.Address("0x1").Bytes()
	require.NoError(t, err)
	require.Len(t, bz, types.AddressBytesLength)
	require.Equal(t, byte(1), bz[31])
	require.Equal(t, make([]byte, 31), bz[:31])

	bz, err = types.Address("0xabc").Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0xbc}, bz[30:])

	_, err = types.Address("abc").Bytes()
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	full := types.NewAddressFromBytes(bz)
	require.Equal(t, "0x"+strings.Repeat("0", 60)+"0abc", full.String())
}
