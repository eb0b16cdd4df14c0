package fixtures

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EVM opcodes used by the fixture programs
const (
	opStop         = 0x00
	opAdd          = 0x01
	opSub          = 0x03
	opEq           = 0x14
	opShl          = 0x1b
	opShr          = 0x1c
	opSha3         = 0x20
	opCalldataload = 0x35
	opCalldatasize = 0x36
	opCalldatacopy = 0x37
	opCodecopy     = 0x39
	opPop          = 0x50
	opMstore       = 0x52
	opJumpi        = 0x57
	opGas          = 0x5a
	opJumpdest     = 0x5b
	opPush1        = 0x60
	opPush2        = 0x61
	opDup1         = 0x80
	opSwap1        = 0x90
	opLog1         = 0xa1
	opLog2         = 0xa2
	opCall         = 0xf1
	opReturn       = 0xf3
)

// program ... A tiny EVM assembler with two pass label resolution, just enough
// to hand assemble the event emitting fixture contracts
type program struct {
	code   []byte
	labels map[string]int
	fixups map[int]string
}

func newProgram() *program {
	return &program{
		labels: make(map[string]int),
		fixups: make(map[int]string),
	}
}

// op ... Appends raw opcodes
func (p *program) op(codes ...byte) {
	p.code = append(p.code, codes...)
}

// push ... Emits PUSH1..PUSH32 sized to the immediate
func (p *program) push(data []byte) {
	if len(data) == 0 || len(data) > 32 {
		panic(fmt.Sprintf("invalid push width: %d", len(data)))
	}

	p.code = append(p.code, byte(opPush1+len(data)-1))
	p.code = append(p.code, data...)
}

// pushByte ... Emits PUSH1 with a single byte immediate
func (p *program) pushByte(v byte) {
	p.push([]byte{v})
}

// pushHash ... Emits PUSH32 with a topic or word immediate
func (p *program) pushHash(h common.Hash) {
	p.push(h[:])
}

// label ... Records a jump destination and emits JUMPDEST
func (p *program) label(name string) {
	if _, dup := p.labels[name]; dup {
		panic(fmt.Sprintf("duplicate label: %s", name))
	}

	p.labels[name] = len(p.code)
	p.op(opJumpdest)
}

// jumpi ... Emits a conditional jump to a label resolved at bytecode time
func (p *program) jumpi(name string) {
	p.op(opPush2)
	p.fixups[len(p.code)] = name
	p.op(0x00, 0x00)
	p.op(opJumpi)
}

// bytecode ... Resolves label fixups and returns the assembled runtime
func (p *program) bytecode() []byte {
	out := make([]byte, len(p.code))
	copy(out, p.code)

	for offset, name := range p.fixups {
		target, found := p.labels[name]
		if !found {
			panic(fmt.Sprintf("undefined label: %s", name))
		}

		binary.BigEndian.PutUint16(out[offset:], uint16(target))
	}

	return out
}

// deployable ... Wraps runtime bytecode in a minimal constructor that copies
// the runtime into memory and returns it
func deployable(runtime []byte) []byte {
	const prefixLen = 14

	size := make([]byte, 2)
	binary.BigEndian.PutUint16(size, uint16(len(runtime)))

	creation := []byte{
		opPush2, size[0], size[1],
		opPush1, prefixLen,
		opPush1, 0x00,
		opCodecopy,
		opPush2, size[0], size[1],
		opPush1, 0x00,
		opReturn,
	}

	return append(creation, runtime...)
}
