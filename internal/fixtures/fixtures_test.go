package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Program_LabelResolution(t *testing.T) {
	p := newProgram()

	p.pushByte(0x01)
	p.jumpi("target")
	p.op(opStop)
	p.label("target")
	p.op(opStop)

	code := p.bytecode()

	// PUSH1 0x01 | PUSH2 t t | JUMPI | STOP | JUMPDEST | STOP
	require.Len(t, code, 9)
	assert.Equal(t, byte(opJumpdest), code[7])
	assert.Equal(t, []byte{0x00, 0x07}, code[3:5])
}

func Test_Program_UndefinedLabelPanics(t *testing.T) {
	p := newProgram()
	p.jumpi("nowhere")

	assert.Panics(t, func() {
		p.bytecode()
	})
}

func Test_Deployable(t *testing.T) {
	runtime := []byte{opStop, opStop, opStop}
	creation := deployable(runtime)

	// Constructor prefix is a fixed 14 bytes; runtime follows verbatim
	require.Len(t, creation, 14+len(runtime))
	assert.Equal(t, runtime, creation[14:])
	assert.Equal(t, byte(opReturn), creation[13])
	assert.Equal(t, []byte{0x00, 0x03}, creation[1:3])
}

func Test_Runtimes_Assemble(t *testing.T) {
	emitter := emitterRuntime()
	nested := nestedRuntime()

	assert.NotEmpty(t, emitter)
	assert.NotEmpty(t, nested)

	// Every dispatched method resolves to a JUMPDEST
	for _, name := range []string{"emitWithoutArgs", "emitUint", "emitNested", "doNotEmit"} {
		p := newProgram()
		dispatch(p, EmitterABI, []string{name})
		p.label(name)
		p.op(opStop)

		code := p.bytecode()
		target := p.labels[name]
		assert.Equal(t, byte(opJumpdest), code[target])
	}
}

func Test_ABI_Surface(t *testing.T) {
	for _, name := range []string{
		"WithoutArgs", "WithUintArg", "WithTwoUintArgs", "WithStringArg",
		"WithIndexedStringArg", "WithBytesArg", "WithIndexedBytesArg",
		"WithStructArg", "WithUintArrayArg",
	} {
		_, found := EmitterABI.Events[name]
		assert.True(t, found, "missing event %s", name)
	}

	for _, name := range []string{
		"emitWithoutArgs", "doNotEmit", "emitUint", "emitUintTwice",
		"emitTwoUints", "emitString", "emitIndexedString", "emitBytes",
		"emitIndexedBytes", "emitStruct", "emitUintArray",
		"emitUintAndString", "emitNested",
	} {
		method, found := EmitterABI.Methods[name]
		require.True(t, found, "missing method %s", name)
		assert.Len(t, method.ID, 4)
	}

	_, found := NestedABI.Events["AnotherEvent"]
	assert.True(t, found)
}
