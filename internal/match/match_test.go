package match_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txpect/txpect/internal/match"
)

func uintArg(t *testing.T) abi.Argument {
	typ, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)

	return abi.Argument{Name: "u", Type: typ}
}

func indexedStringArg(t *testing.T) abi.Argument {
	typ, err := abi.NewType("string", "", nil)
	require.NoError(t, err)

	return abi.Argument{Name: "s", Type: typ, Indexed: true}
}

func Test_Value(t *testing.T) {
	var tests = []struct {
		name     string
		expected interface{}
		actual   interface{}
		errMsg   string
	}{
		{
			name:     "Int Widens To Big Int",
			expected: 1,
			actual:   big.NewInt(1),
		},
		{
			name:     "Big Int Mismatch",
			expected: 1,
			actual:   big.NewInt(2),
			errMsg:   "expected 1 to equal 2",
		},
		{
			name:     "Address By Value",
			expected: common.HexToAddress("0x42"),
			actual:   common.HexToAddress("0x42"),
		},
		{
			name:     "Address By Hex String",
			expected: "0x0000000000000000000000000000000000000042",
			actual:   common.HexToAddress("0x42"),
		},
		{
			name:     "String Mismatch",
			expected: "a",
			actual:   "s",
			errMsg:   `expected "a" to equal "s"`,
		},
		{
			name:     "Bytes By Hex String",
			expected: "0xdeadbeef",
			actual:   []byte{0xde, 0xad, 0xbe, 0xef},
		},
		{
			name:     "Bool Match",
			expected: true,
			actual:   true,
		},
		{
			name:     "Slice Element Wise",
			expected: []interface{}{1, 2},
			actual:   []*big.Int{big.NewInt(1), big.NewInt(2)},
		},
		{
			name:     "Array Element Wise",
			expected: []interface{}{1, 2},
			actual:   [2]*big.Int{big.NewInt(1), big.NewInt(2)},
		},
		{
			name:     "Array Element Mismatch",
			expected: []interface{}{1, 3},
			actual:   [2]*big.Int{big.NewInt(1), big.NewInt(2)},
			errMsg:   "expected 3 to equal 2",
		},
		{
			name:     "Nested Slice",
			expected: [][]interface{}{{1}, {2, 3}},
			actual:   [][]*big.Int{{big.NewInt(1)}, {big.NewInt(2), big.NewInt(3)}},
		},
		{
			name: "Tuple Field Wise",
			expected: struct {
				U *big.Int
				V *big.Int
			}{big.NewInt(1), big.NewInt(2)},
			actual: struct {
				U *big.Int
				V *big.Int
			}{big.NewInt(1), big.NewInt(2)},
		},
		{
			name:     "Tuple Positional",
			expected: []interface{}{1, 2},
			actual: struct {
				U *big.Int
				V *big.Int
			}{big.NewInt(1), big.NewInt(2)},
		},
		{
			name:     "Fixed Bytes",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000001",
			actual:   [32]byte{31: 0x01},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := match.Value(tc.expected, tc.actual)

			if tc.errMsg == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.EqualError(t, err, tc.errMsg)
		})
	}
}

func Test_Argument_IndexedDynamic(t *testing.T) {
	arg := indexedStringArg(t)
	hash := crypto.Keccak256Hash([]byte("Hello World"))

	// Raw value hashes before comparison
	assert.NoError(t, match.Argument("Hello World", hash, arg))

	// Precomputed hash compares directly
	assert.NoError(t, match.Argument(hash, hash, arg))
	assert.NoError(t, match.Argument([32]byte(hash), hash, arg))

	err := match.Argument("Goodbye World", hash, arg)
	require.Error(t, err)

	// Wildcard still applies to hashed parameters
	assert.NoError(t, match.Argument(match.Anything, hash, arg))
}

func Test_Argument_Wildcard(t *testing.T) {
	assert.NoError(t, match.Argument(match.Anything, big.NewInt(42), uintArg(t)))
}
