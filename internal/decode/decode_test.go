package decode_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txpect/txpect/internal/decode"
	"github.com/txpect/txpect/internal/fixtures"
)

var contractAddr = common.HexToAddress("0x0000000000000000000000000000000000000420")

func Test_EventByName(t *testing.T) {
	event, found := decode.EventByName(fixtures.EmitterABI, "WithUintArg")
	assert.True(t, found)
	assert.Equal(t, "WithUintArg", event.Name)

	_, found = decode.EventByName(fixtures.EmitterABI, "Missing")
	assert.False(t, found)
}

func Test_EmittedBy(t *testing.T) {
	event := fixtures.EmitterABI.Events["WithoutArgs"]
	other := fixtures.EmitterABI.Events["WithUintArg"]

	logs := []*types.Log{
		{Address: contractAddr, Topics: []common.Hash{event.ID}},
		{Address: common.HexToAddress("0x69"), Topics: []common.Hash{event.ID}},
		{Address: contractAddr, Topics: []common.Hash{other.ID}},
		{Address: contractAddr},
	}

	matched := decode.EmittedBy(logs, contractAddr, event)
	require.Len(t, matched, 1)
	assert.Equal(t, logs[0], matched[0])
}

func Test_Log_NonIndexed(t *testing.T) {
	event := fixtures.EmitterABI.Events["WithTwoUintArgs"]

	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)

	decoded, err := decode.Log(event, &types.Log{
		Address: contractAddr,
		Topics:  []common.Hash{event.ID},
		Data:    data,
	})
	require.NoError(t, err)

	assert.Equal(t, "WithTwoUintArgs", decoded.Name)
	require.Len(t, decoded.Args, 2)
	assert.Equal(t, big.NewInt(1), decoded.Args[0])
	assert.Equal(t, big.NewInt(2), decoded.Args[1])
}

func Test_Log_IndexedDynamic(t *testing.T) {
	event := fixtures.EmitterABI.Events["WithIndexedStringArg"]
	hash := crypto.Keccak256Hash([]byte("Hello World"))

	decoded, err := decode.Log(event, &types.Log{
		Address: contractAddr,
		Topics:  []common.Hash{event.ID, hash},
	})
	require.NoError(t, err)

	// Only the keccak hash of an indexed string is recoverable
	require.Len(t, decoded.Args, 1)
	assert.Equal(t, hash, decoded.Args[0])
}

func Test_Log_Tuple(t *testing.T) {
	event := fixtures.EmitterABI.Events["WithStructArg"]

	data, err := event.Inputs.NonIndexed().Pack(fixtures.Pair{
		U: big.NewInt(1),
		V: big.NewInt(2),
	})
	require.NoError(t, err)

	decoded, err := decode.Log(event, &types.Log{
		Address: contractAddr,
		Topics:  []common.Hash{event.ID},
		Data:    data,
	})
	require.NoError(t, err)
	require.Len(t, decoded.Args, 1)
}

func Test_Log_Faults(t *testing.T) {
	event := fixtures.EmitterABI.Events["WithUintArg"]

	_, err := decode.Log(event, &types.Log{Address: contractAddr})
	assert.Error(t, err)

	other := fixtures.EmitterABI.Events["WithoutArgs"]
	_, err = decode.Log(event, &types.Log{
		Address: contractAddr,
		Topics:  []common.Hash{other.ID},
	})
	assert.Error(t, err)

	// Indexed topic count must line up with the definition
	indexed := fixtures.EmitterABI.Events["WithIndexedStringArg"]
	_, err = decode.Log(indexed, &types.Log{
		Address: contractAddr,
		Topics:  []common.Hash{indexed.ID},
	})
	assert.Error(t, err)
}
