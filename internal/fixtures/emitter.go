// Package fixtures hand assembles the event emitting contracts the end to end
// suites deploy. Selectors and topics are derived from the fixture ABIs, so
// the assembled programs and the interface descriptions cannot drift apart.
package fixtures

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const emitterABIJSON = `[
	{"type":"event","name":"WithoutArgs","anonymous":false,"inputs":[]},
	{"type":"event","name":"WithUintArg","anonymous":false,"inputs":[
		{"name":"u","type":"uint256","indexed":false}]},
	{"type":"event","name":"WithTwoUintArgs","anonymous":false,"inputs":[
		{"name":"u","type":"uint256","indexed":false},
		{"name":"v","type":"uint256","indexed":false}]},
	{"type":"event","name":"WithStringArg","anonymous":false,"inputs":[
		{"name":"s","type":"string","indexed":false}]},
	{"type":"event","name":"WithIndexedStringArg","anonymous":false,"inputs":[
		{"name":"s","type":"string","indexed":true}]},
	{"type":"event","name":"WithBytesArg","anonymous":false,"inputs":[
		{"name":"b","type":"bytes","indexed":false}]},
	{"type":"event","name":"WithIndexedBytesArg","anonymous":false,"inputs":[
		{"name":"b","type":"bytes","indexed":true}]},
	{"type":"event","name":"WithStructArg","anonymous":false,"inputs":[
		{"name":"t","type":"tuple","indexed":false,"components":[
			{"name":"u","type":"uint256"},
			{"name":"v","type":"uint256"}]}]},
	{"type":"event","name":"WithUintArrayArg","anonymous":false,"inputs":[
		{"name":"a","type":"uint256[2]","indexed":false}]},
	{"type":"function","name":"emitWithoutArgs","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"doNotEmit","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"emitUint","stateMutability":"nonpayable","inputs":[
		{"name":"u","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"emitUintTwice","stateMutability":"nonpayable","inputs":[
		{"name":"u","type":"uint256"},
		{"name":"v","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"emitTwoUints","stateMutability":"nonpayable","inputs":[
		{"name":"u","type":"uint256"},
		{"name":"v","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"emitString","stateMutability":"nonpayable","inputs":[
		{"name":"s","type":"string"}],"outputs":[]},
	{"type":"function","name":"emitIndexedString","stateMutability":"nonpayable","inputs":[
		{"name":"s","type":"string"}],"outputs":[]},
	{"type":"function","name":"emitBytes","stateMutability":"nonpayable","inputs":[
		{"name":"b","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"emitIndexedBytes","stateMutability":"nonpayable","inputs":[
		{"name":"b","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"emitStruct","stateMutability":"nonpayable","inputs":[
		{"name":"t","type":"tuple","components":[
			{"name":"u","type":"uint256"},
			{"name":"v","type":"uint256"}]}],"outputs":[]},
	{"type":"function","name":"emitUintArray","stateMutability":"nonpayable","inputs":[
		{"name":"a","type":"uint256[2]"}],"outputs":[]},
	{"type":"function","name":"emitUintAndString","stateMutability":"nonpayable","inputs":[
		{"name":"u","type":"uint256"},
		{"name":"s","type":"string"}],"outputs":[]},
	{"type":"function","name":"emitNested","stateMutability":"nonpayable","inputs":[
		{"name":"target","type":"address"},
		{"name":"u","type":"uint256"}],"outputs":[]}
]`

const nestedABIJSON = `[
	{"type":"event","name":"AnotherEvent","anonymous":false,"inputs":[
		{"name":"u","type":"uint256","indexed":false}]},
	{"type":"function","name":"emitUint","stateMutability":"nonpayable","inputs":[
		{"name":"u","type":"uint256"}],"outputs":[]}
]`

var (
	// EmitterABI ... Interface description of the Emitter fixture
	EmitterABI = mustABI(emitterABIJSON)

	// NestedABI ... Interface description of the Nested fixture
	NestedABI = mustABI(nestedABIJSON)
)

// Pair ... Go shape of the WithStructArg tuple
type Pair struct {
	U *big.Int
	V *big.Int
}

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}

	return parsed
}

// EmitterBytecode ... Deployable creation code for the Emitter fixture
func EmitterBytecode() []byte {
	return deployable(emitterRuntime())
}

// NestedBytecode ... Deployable creation code for the Nested fixture
func NestedBytecode() []byte {
	return deployable(nestedRuntime())
}

// emitterRuntime ... Selector dispatched runtime covering every Emitter method
func emitterRuntime() []byte {
	p := newProgram()

	methods := []string{
		"emitWithoutArgs",
		"doNotEmit",
		"emitUint",
		"emitUintTwice",
		"emitTwoUints",
		"emitString",
		"emitIndexedString",
		"emitBytes",
		"emitIndexedBytes",
		"emitStruct",
		"emitUintArray",
		"emitUintAndString",
		"emitNested",
	}

	dispatch(p, EmitterABI, methods)

	p.label("emitWithoutArgs")
	p.pushHash(EmitterABI.Events["WithoutArgs"].ID)
	p.pushByte(0x00)
	p.pushByte(0x00)
	p.op(opLog1, opStop)

	p.label("doNotEmit")
	p.op(opStop)

	p.label("emitUint")
	logWord(p, 0x04, "WithUintArg")
	p.op(opStop)

	p.label("emitUintTwice")
	logWord(p, 0x04, "WithUintArg")
	logWord(p, 0x24, "WithUintArg")
	p.op(opStop)

	p.label("emitTwoUints")
	mirror(p, "WithTwoUintArgs")
	p.op(opStop)

	p.label("emitString")
	mirror(p, "WithStringArg")
	p.op(opStop)

	p.label("emitIndexedString")
	logHashedTail(p, "WithIndexedStringArg")
	p.op(opStop)

	p.label("emitBytes")
	mirror(p, "WithBytesArg")
	p.op(opStop)

	p.label("emitIndexedBytes")
	logHashedTail(p, "WithIndexedBytesArg")
	p.op(opStop)

	p.label("emitStruct")
	mirror(p, "WithStructArg")
	p.op(opStop)

	p.label("emitUintArray")
	mirror(p, "WithUintArrayArg")
	p.op(opStop)

	p.label("emitUintAndString")
	logWord(p, 0x04, "WithUintArg")
	logStringAfterWord(p, "WithStringArg")
	p.op(opStop)

	p.label("emitNested")
	logWord(p, 0x24, "WithUintArg")
	callNested(p)
	p.op(opStop)

	return p.bytecode()
}

// nestedRuntime ... Single method runtime for the Nested fixture
func nestedRuntime() []byte {
	p := newProgram()

	dispatch(p, NestedABI, []string{"emitUint"})

	p.label("emitUint")
	p.pushByte(0x04)
	p.op(opCalldataload)
	p.pushByte(0x00)
	p.op(opMstore)
	p.pushHash(NestedABI.Events["AnotherEvent"].ID)
	p.pushByte(0x20)
	p.pushByte(0x00)
	p.op(opLog1, opStop)

	return p.bytecode()
}

// dispatch ... Emits the selector comparison chain; each method jumps to a
// label of the same name
func dispatch(p *program, cabi abi.ABI, methods []string) {
	// selector = calldata[0:32] >> 224
	p.pushByte(0x00)
	p.op(opCalldataload)
	p.pushByte(0xe0)
	p.op(opShr)

	for _, method := range methods {
		p.op(opDup1)
		p.push(cabi.Methods[method].ID)
		p.op(opEq)
		p.jumpi(method)
	}

	p.op(opStop)
}

// logWord ... LOG1 with one calldata word as the event data
func logWord(p *program, calldataOffset byte, event string) {
	p.pushByte(calldataOffset)
	p.op(opCalldataload)
	p.pushByte(0x00)
	p.op(opMstore)

	p.pushHash(EmitterABI.Events[event].ID)
	p.pushByte(0x20)
	p.pushByte(0x00)
	p.op(opLog1)
}

// mirror ... LOG1 with the full calldata tail as the event data. Works for any
// method whose arguments encode exactly like the event's non indexed data
// section (static words, tuples of static fields, and a lone dynamic value).
func mirror(p *program, event string) {
	// size = CALLDATASIZE - 4
	p.pushByte(0x04)
	p.op(opCalldatasize)
	p.op(opSub)

	p.op(opDup1)
	p.pushByte(0x04)
	p.pushByte(0x00)
	p.op(opCalldatacopy)

	p.pushHash(EmitterABI.Events[event].ID)
	p.op(opSwap1)
	p.pushByte(0x00)
	p.op(opLog1)
}

// logHashedTail ... LOG2 with the keccak of a lone dynamic argument's payload
// as the indexed topic. Assumes canonical encoding: length word at 0x24,
// payload from 0x44.
func logHashedTail(p *program, event string) {
	p.pushByte(0x24)
	p.op(opCalldataload)

	p.op(opDup1)
	p.pushByte(0x44)
	p.pushByte(0x00)
	p.op(opCalldatacopy)

	p.pushByte(0x00)
	p.op(opSha3)

	p.pushHash(EmitterABI.Events[event].ID)
	p.pushByte(0x00)
	p.pushByte(0x00)
	p.op(opLog2)
}

// logStringAfterWord ... LOG1 re-encoding the trailing string of a
// (uint256,string) calldata pair as a standalone string data section
func logStringAfterWord(p *program, event string) {
	// mem[0] = 0x20 (offset word of the re-encoded string)
	p.pushByte(0x20)
	p.pushByte(0x00)
	p.op(opMstore)

	// tail = CALLDATASIZE - 0x44 (length word plus payload)
	p.pushByte(0x44)
	p.op(opCalldatasize)
	p.op(opSub)

	p.op(opDup1)
	p.pushByte(0x44)
	p.pushByte(0x20)
	p.op(opCalldatacopy)

	p.pushByte(0x20)
	p.op(opAdd)

	p.pushHash(EmitterABI.Events[event].ID)
	p.op(opSwap1)
	p.pushByte(0x00)
	p.op(opLog1)
}

// callNested ... CALL target.emitUint(u) for emitNested(address,uint256)
func callNested(p *program) {
	// mem[0:4] = selector, mem[4:36] = u
	p.push(NestedABI.Methods["emitUint"].ID)
	p.pushByte(0xe0)
	p.op(opShl)
	p.pushByte(0x00)
	p.op(opMstore)

	p.pushByte(0x24)
	p.op(opCalldataload)
	p.pushByte(0x04)
	p.op(opMstore)

	// CALL(gas, target, 0, 0, 0x24, 0, 0)
	p.pushByte(0x00)
	p.pushByte(0x00)
	p.pushByte(0x24)
	p.pushByte(0x00)
	p.pushByte(0x00)
	p.pushByte(0x04)
	p.op(opCalldataload)
	p.op(opGas)
	p.op(opCall, opPop)
}
