package yas6502

import "fmt"

// OpcodeMode enumerates the opcode-level addressing-mode variants that the
// opcode table distinguishes. It is finer-grained than AddrMode: Address,
// AddressX and AddressY each collapse into one of several OpcodeMode values
// (ZeroPage/Absolute, ZeroPageX/AbsoluteX, ZeroPageY/AbsoluteY) depending on
// the operand-size decision made by Pass 1 and Pass 2.
type OpcodeMode int

// Opcode-table addressing modes.
const (
	ModeImplied OpcodeMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeRelative
)

func (m OpcodeMode) String() string {
	switch m {
	case ModeImplied:
		return "implied"
	case ModeAccumulator:
		return "accumulator"
	case ModeImmediate:
		return "immediate"
	case ModeZeroPage:
		return "zero-page"
	case ModeZeroPageX:
		return "zero-page,X"
	case ModeZeroPageY:
		return "zero-page,Y"
	case ModeAbsolute:
		return "absolute"
	case ModeAbsoluteX:
		return "absolute,X"
	case ModeAbsoluteY:
		return "absolute,Y"
	case ModeIndirect:
		return "indirect"
	case ModeIndirectX:
		return "(indirect,X)"
	case ModeIndirectY:
		return "(indirect),Y"
	case ModeRelative:
		return "relative"
	default:
		return "OpcodeMode(?)"
	}
}

// Encoding is a single opcode byte plus its timing and classification
// flags.
type Encoding struct {
	Opcode byte

	// Clocks is the base clock count. ExtraClocks marks encodings whose
	// true cost is a lower bound: indexed/indirect-Y reads may cost one
	// more cycle on a page crossing (stores and read-modify-write forms
	// have a fixed cost and are not flagged), and branches cost one or two
	// more when taken/crossing a page, but the real cost depends on
	// runtime behavior this assembler does not simulate.
	Clocks      int
	ExtraClocks bool

	// Undocumented marks one of the 6502's unofficial opcodes.
	Undocumented bool

	// Unstable marks an undocumented opcode known to behave erratically
	// across physical chips (e.g. LAX #imm, XAA, AHX, SHX, SHY, TAS).
	Unstable bool
}

// Instruction is a mnemonic plus every addressing-mode encoding it
// supports. A mode absent from Encodings means the mnemonic has no such
// form.
type Instruction struct {
	Mnemonic  string
	Encodings map[OpcodeMode]Encoding
}

// Encoding looks up the encoding for mode, reporting ok=false if the
// instruction has no such addressing mode.
func (i *Instruction) Encoding(mode OpcodeMode) (Encoding, bool) {
	enc, ok := i.Encodings[mode]
	return enc, ok
}

// HasMode reports whether the instruction supports mode.
func (i *Instruction) HasMode(mode OpcodeMode) bool {
	_, ok := i.Encodings[mode]
	return ok
}

// OpcodeTable is the static mapping from mnemonic to its supported
// addressing-mode encodings, built once at assembler construction.
type OpcodeTable struct {
	byMnemonic map[string]*Instruction
}

type opcodeEntry struct {
	mnemonic     string
	mode         OpcodeMode
	opcode       byte
	clocks       int
	extraClocks  bool
	undocumented bool
	unstable     bool
}

// opcodeEntries enumerates every supported (mnemonic, mode) -> encoding
// pair: the full documented 6502 instruction set plus the well-known
// undocumented opcodes. Cycle counts and extra-clock flags are taken from
// the standard 6502 timing tables; undocumented-opcode addressing modes and
// cycle counts follow the widely published NMOS unofficial-opcode
// reference (e.g. the table at nesdev.org/wiki/Programming_with_unofficial_opcodes).
//
// Where more than one opcode byte implements the same (mnemonic, mode) pair
// on real silicon (e.g. ANC has both $0B and $2B, and several undocumented
// NOP forms share a mode with other undocumented NOP opcodes), only one
// canonical opcode byte is kept: this table exists to encode source into
// bytes, not to decode every byte pattern back to a mnemonic, so a single
// representative opcode per (mnemonic, mode) is sufficient.
var opcodeEntries = []opcodeEntry{
	// ADC
	{"ADC", ModeImmediate, 0x69, 2, false, false, false},
	{"ADC", ModeZeroPage, 0x65, 3, false, false, false},
	{"ADC", ModeZeroPageX, 0x75, 4, false, false, false},
	{"ADC", ModeAbsolute, 0x6D, 4, false, false, false},
	{"ADC", ModeAbsoluteX, 0x7D, 4, true, false, false},
	{"ADC", ModeAbsoluteY, 0x79, 4, true, false, false},
	{"ADC", ModeIndirectX, 0x61, 6, false, false, false},
	{"ADC", ModeIndirectY, 0x71, 5, true, false, false},

	// AND
	{"AND", ModeImmediate, 0x29, 2, false, false, false},
	{"AND", ModeZeroPage, 0x25, 3, false, false, false},
	{"AND", ModeZeroPageX, 0x35, 4, false, false, false},
	{"AND", ModeAbsolute, 0x2D, 4, false, false, false},
	{"AND", ModeAbsoluteX, 0x3D, 4, true, false, false},
	{"AND", ModeAbsoluteY, 0x39, 4, true, false, false},
	{"AND", ModeIndirectX, 0x21, 6, false, false, false},
	{"AND", ModeIndirectY, 0x31, 5, true, false, false},

	// ASL
	{"ASL", ModeAccumulator, 0x0A, 2, false, false, false},
	{"ASL", ModeZeroPage, 0x06, 5, false, false, false},
	{"ASL", ModeZeroPageX, 0x16, 6, false, false, false},
	{"ASL", ModeAbsolute, 0x0E, 6, false, false, false},
	{"ASL", ModeAbsoluteX, 0x1E, 7, false, false, false},

	// Branches - all relative, 2 bytes, base 2 clocks, extra clocks on
	// branch taken / page crossing.
	{"BCC", ModeRelative, 0x90, 2, true, false, false},
	{"BCS", ModeRelative, 0xB0, 2, true, false, false},
	{"BEQ", ModeRelative, 0xF0, 2, true, false, false},
	{"BMI", ModeRelative, 0x30, 2, true, false, false},
	{"BNE", ModeRelative, 0xD0, 2, true, false, false},
	{"BPL", ModeRelative, 0x10, 2, true, false, false},
	{"BVC", ModeRelative, 0x50, 2, true, false, false},
	{"BVS", ModeRelative, 0x70, 2, true, false, false},

	// BIT
	{"BIT", ModeZeroPage, 0x24, 3, false, false, false},
	{"BIT", ModeAbsolute, 0x2C, 4, false, false, false},

	// BRK
	{"BRK", ModeImplied, 0x00, 7, false, false, false},

	// Flag instructions
	{"CLC", ModeImplied, 0x18, 2, false, false, false},
	{"CLD", ModeImplied, 0xD8, 2, false, false, false},
	{"CLI", ModeImplied, 0x58, 2, false, false, false},
	{"CLV", ModeImplied, 0xB8, 2, false, false, false},
	{"SEC", ModeImplied, 0x38, 2, false, false, false},
	{"SED", ModeImplied, 0xF8, 2, false, false, false},
	{"SEI", ModeImplied, 0x78, 2, false, false, false},

	// CMP
	{"CMP", ModeImmediate, 0xC9, 2, false, false, false},
	{"CMP", ModeZeroPage, 0xC5, 3, false, false, false},
	{"CMP", ModeZeroPageX, 0xD5, 4, false, false, false},
	{"CMP", ModeAbsolute, 0xCD, 4, false, false, false},
	{"CMP", ModeAbsoluteX, 0xDD, 4, true, false, false},
	{"CMP", ModeAbsoluteY, 0xD9, 4, true, false, false},
	{"CMP", ModeIndirectX, 0xC1, 6, false, false, false},
	{"CMP", ModeIndirectY, 0xD1, 5, true, false, false},

	// CPX, CPY
	{"CPX", ModeImmediate, 0xE0, 2, false, false, false},
	{"CPX", ModeZeroPage, 0xE4, 3, false, false, false},
	{"CPX", ModeAbsolute, 0xEC, 4, false, false, false},
	{"CPY", ModeImmediate, 0xC0, 2, false, false, false},
	{"CPY", ModeZeroPage, 0xC4, 3, false, false, false},
	{"CPY", ModeAbsolute, 0xCC, 4, false, false, false},

	// DEC, DEX, DEY
	{"DEC", ModeZeroPage, 0xC6, 5, false, false, false},
	{"DEC", ModeZeroPageX, 0xD6, 6, false, false, false},
	{"DEC", ModeAbsolute, 0xCE, 6, false, false, false},
	{"DEC", ModeAbsoluteX, 0xDE, 7, false, false, false},
	{"DEX", ModeImplied, 0xCA, 2, false, false, false},
	{"DEY", ModeImplied, 0x88, 2, false, false, false},

	// EOR
	{"EOR", ModeImmediate, 0x49, 2, false, false, false},
	{"EOR", ModeZeroPage, 0x45, 3, false, false, false},
	{"EOR", ModeZeroPageX, 0x55, 4, false, false, false},
	{"EOR", ModeAbsolute, 0x4D, 4, false, false, false},
	{"EOR", ModeAbsoluteX, 0x5D, 4, true, false, false},
	{"EOR", ModeAbsoluteY, 0x59, 4, true, false, false},
	{"EOR", ModeIndirectX, 0x41, 6, false, false, false},
	{"EOR", ModeIndirectY, 0x51, 5, true, false, false},

	// INC, INX, INY
	{"INC", ModeZeroPage, 0xE6, 5, false, false, false},
	{"INC", ModeZeroPageX, 0xF6, 6, false, false, false},
	{"INC", ModeAbsolute, 0xEE, 6, false, false, false},
	{"INC", ModeAbsoluteX, 0xFE, 7, false, false, false},
	{"INX", ModeImplied, 0xE8, 2, false, false, false},
	{"INY", ModeImplied, 0xC8, 2, false, false, false},

	// JMP, JSR
	{"JMP", ModeAbsolute, 0x4C, 3, false, false, false},
	{"JMP", ModeIndirect, 0x6C, 5, false, false, false},
	{"JSR", ModeAbsolute, 0x20, 6, false, false, false},

	// LDA
	{"LDA", ModeImmediate, 0xA9, 2, false, false, false},
	{"LDA", ModeZeroPage, 0xA5, 3, false, false, false},
	{"LDA", ModeZeroPageX, 0xB5, 4, false, false, false},
	{"LDA", ModeAbsolute, 0xAD, 4, false, false, false},
	{"LDA", ModeAbsoluteX, 0xBD, 4, true, false, false},
	{"LDA", ModeAbsoluteY, 0xB9, 4, true, false, false},
	{"LDA", ModeIndirectX, 0xA1, 6, false, false, false},
	{"LDA", ModeIndirectY, 0xB1, 5, true, false, false},

	// LDX
	{"LDX", ModeImmediate, 0xA2, 2, false, false, false},
	{"LDX", ModeZeroPage, 0xA6, 3, false, false, false},
	{"LDX", ModeZeroPageY, 0xB6, 4, false, false, false},
	{"LDX", ModeAbsolute, 0xAE, 4, false, false, false},
	{"LDX", ModeAbsoluteY, 0xBE, 4, true, false, false},

	// LDY
	{"LDY", ModeImmediate, 0xA0, 2, false, false, false},
	{"LDY", ModeZeroPage, 0xA4, 3, false, false, false},
	{"LDY", ModeZeroPageX, 0xB4, 4, false, false, false},
	{"LDY", ModeAbsolute, 0xAC, 4, false, false, false},
	{"LDY", ModeAbsoluteX, 0xBC, 4, true, false, false},

	// LSR
	{"LSR", ModeAccumulator, 0x4A, 2, false, false, false},
	{"LSR", ModeZeroPage, 0x46, 5, false, false, false},
	{"LSR", ModeZeroPageX, 0x56, 6, false, false, false},
	{"LSR", ModeAbsolute, 0x4E, 6, false, false, false},
	{"LSR", ModeAbsoluteX, 0x5E, 7, false, false, false},

	// NOP
	{"NOP", ModeImplied, 0xEA, 2, false, false, false},

	// ORA
	{"ORA", ModeImmediate, 0x09, 2, false, false, false},
	{"ORA", ModeZeroPage, 0x05, 3, false, false, false},
	{"ORA", ModeZeroPageX, 0x15, 4, false, false, false},
	{"ORA", ModeAbsolute, 0x0D, 4, false, false, false},
	{"ORA", ModeAbsoluteX, 0x1D, 4, true, false, false},
	{"ORA", ModeAbsoluteY, 0x19, 4, true, false, false},
	{"ORA", ModeIndirectX, 0x01, 6, false, false, false},
	{"ORA", ModeIndirectY, 0x11, 5, true, false, false},

	// Stack and register transfer instructions
	{"PHA", ModeImplied, 0x48, 3, false, false, false},
	{"PHP", ModeImplied, 0x08, 3, false, false, false},
	{"PLA", ModeImplied, 0x68, 4, false, false, false},
	{"PLP", ModeImplied, 0x28, 4, false, false, false},
	{"TAX", ModeImplied, 0xAA, 2, false, false, false},
	{"TAY", ModeImplied, 0xA8, 2, false, false, false},
	{"TSX", ModeImplied, 0xBA, 2, false, false, false},
	{"TXA", ModeImplied, 0x8A, 2, false, false, false},
	{"TXS", ModeImplied, 0x9A, 2, false, false, false},
	{"TYA", ModeImplied, 0x98, 2, false, false, false},

	// ROL, ROR
	{"ROL", ModeAccumulator, 0x2A, 2, false, false, false},
	{"ROL", ModeZeroPage, 0x26, 5, false, false, false},
	{"ROL", ModeZeroPageX, 0x36, 6, false, false, false},
	{"ROL", ModeAbsolute, 0x2E, 6, false, false, false},
	{"ROL", ModeAbsoluteX, 0x3E, 7, false, false, false},
	{"ROR", ModeAccumulator, 0x6A, 2, false, false, false},
	{"ROR", ModeZeroPage, 0x66, 5, false, false, false},
	{"ROR", ModeZeroPageX, 0x76, 6, false, false, false},
	{"ROR", ModeAbsolute, 0x6E, 6, false, false, false},
	{"ROR", ModeAbsoluteX, 0x7E, 7, false, false, false},

	// RTI, RTS
	{"RTI", ModeImplied, 0x40, 6, false, false, false},
	{"RTS", ModeImplied, 0x60, 6, false, false, false},

	// SBC
	{"SBC", ModeImmediate, 0xE9, 2, false, false, false},
	{"SBC", ModeZeroPage, 0xE5, 3, false, false, false},
	{"SBC", ModeZeroPageX, 0xF5, 4, false, false, false},
	{"SBC", ModeAbsolute, 0xED, 4, false, false, false},
	{"SBC", ModeAbsoluteX, 0xFD, 4, true, false, false},
	{"SBC", ModeAbsoluteY, 0xF9, 4, true, false, false},
	{"SBC", ModeIndirectX, 0xE1, 6, false, false, false},
	{"SBC", ModeIndirectY, 0xF1, 5, true, false, false},

	// STA, STX, STY
	{"STA", ModeZeroPage, 0x85, 3, false, false, false},
	{"STA", ModeZeroPageX, 0x95, 4, false, false, false},
	{"STA", ModeAbsolute, 0x8D, 4, false, false, false},
	{"STA", ModeAbsoluteX, 0x9D, 5, false, false, false},
	{"STA", ModeAbsoluteY, 0x99, 5, false, false, false},
	{"STA", ModeIndirectX, 0x81, 6, false, false, false},
	{"STA", ModeIndirectY, 0x91, 6, false, false, false},
	{"STX", ModeZeroPage, 0x86, 3, false, false, false},
	{"STX", ModeZeroPageY, 0x96, 4, false, false, false},
	{"STX", ModeAbsolute, 0x8E, 4, false, false, false},
	{"STY", ModeZeroPage, 0x84, 3, false, false, false},
	{"STY", ModeZeroPageX, 0x94, 4, false, false, false},
	{"STY", ModeAbsolute, 0x8C, 4, false, false, false},

	// --- Undocumented opcodes ---

	// SLO = ASL + ORA
	{"SLO", ModeZeroPage, 0x07, 5, false, true, false},
	{"SLO", ModeZeroPageX, 0x17, 6, false, true, false},
	{"SLO", ModeAbsolute, 0x0F, 6, false, true, false},
	{"SLO", ModeAbsoluteX, 0x1F, 7, false, true, false},
	{"SLO", ModeAbsoluteY, 0x1B, 7, false, true, false},
	{"SLO", ModeIndirectX, 0x03, 8, false, true, false},
	{"SLO", ModeIndirectY, 0x13, 8, false, true, false},

	// RLA = ROL + AND
	{"RLA", ModeZeroPage, 0x27, 5, false, true, false},
	{"RLA", ModeZeroPageX, 0x37, 6, false, true, false},
	{"RLA", ModeAbsolute, 0x2F, 6, false, true, false},
	{"RLA", ModeAbsoluteX, 0x3F, 7, false, true, false},
	{"RLA", ModeAbsoluteY, 0x3B, 7, false, true, false},
	{"RLA", ModeIndirectX, 0x23, 8, false, true, false},
	{"RLA", ModeIndirectY, 0x33, 8, false, true, false},

	// SRE = LSR + EOR
	{"SRE", ModeZeroPage, 0x47, 5, false, true, false},
	{"SRE", ModeZeroPageX, 0x57, 6, false, true, false},
	{"SRE", ModeAbsolute, 0x4F, 6, false, true, false},
	{"SRE", ModeAbsoluteX, 0x5F, 7, false, true, false},
	{"SRE", ModeAbsoluteY, 0x5B, 7, false, true, false},
	{"SRE", ModeIndirectX, 0x43, 8, false, true, false},
	{"SRE", ModeIndirectY, 0x53, 8, false, true, false},

	// RRA = ROR + ADC
	{"RRA", ModeZeroPage, 0x67, 5, false, true, false},
	{"RRA", ModeZeroPageX, 0x77, 6, false, true, false},
	{"RRA", ModeAbsolute, 0x6F, 6, false, true, false},
	{"RRA", ModeAbsoluteX, 0x7F, 7, false, true, false},
	{"RRA", ModeAbsoluteY, 0x7B, 7, false, true, false},
	{"RRA", ModeIndirectX, 0x63, 8, false, true, false},
	{"RRA", ModeIndirectY, 0x73, 8, false, true, false},

	// SAX = store A & X
	{"SAX", ModeZeroPage, 0x87, 3, false, true, false},
	{"SAX", ModeZeroPageY, 0x97, 4, false, true, false},
	{"SAX", ModeAbsolute, 0x8F, 4, false, true, false},
	{"SAX", ModeIndirectX, 0x83, 6, false, true, false},

	// LAX = load A & X. Immediate form is unstable on real silicon.
	{"LAX", ModeImmediate, 0xAB, 2, false, true, true},
	{"LAX", ModeZeroPage, 0xA7, 3, false, true, false},
	{"LAX", ModeZeroPageY, 0xB7, 4, false, true, false},
	{"LAX", ModeAbsolute, 0xAF, 4, false, true, false},
	{"LAX", ModeAbsoluteY, 0xBF, 4, true, true, false},
	{"LAX", ModeIndirectX, 0xA3, 6, false, true, false},
	{"LAX", ModeIndirectY, 0xB3, 5, true, true, false},

	// DCP = DEC + CMP
	{"DCP", ModeZeroPage, 0xC7, 5, false, true, false},
	{"DCP", ModeZeroPageX, 0xD7, 6, false, true, false},
	{"DCP", ModeAbsolute, 0xCF, 6, false, true, false},
	{"DCP", ModeAbsoluteX, 0xDF, 7, false, true, false},
	{"DCP", ModeAbsoluteY, 0xDB, 7, false, true, false},
	{"DCP", ModeIndirectX, 0xC3, 8, false, true, false},
	{"DCP", ModeIndirectY, 0xD3, 8, false, true, false},

	// ISC (a.k.a. ISB) = INC + SBC
	{"ISC", ModeZeroPage, 0xE7, 5, false, true, false},
	{"ISC", ModeZeroPageX, 0xF7, 6, false, true, false},
	{"ISC", ModeAbsolute, 0xEF, 6, false, true, false},
	{"ISC", ModeAbsoluteX, 0xFF, 7, false, true, false},
	{"ISC", ModeAbsoluteY, 0xFB, 7, false, true, false},
	{"ISC", ModeIndirectX, 0xE3, 8, false, true, false},
	{"ISC", ModeIndirectY, 0xF3, 8, false, true, false},

	// Single-byte undocumented immediate opcodes.
	{"ANC", ModeImmediate, 0x0B, 2, false, true, false},
	{"ALR", ModeImmediate, 0x4B, 2, false, true, false},
	{"ARR", ModeImmediate, 0x6B, 2, false, true, false},
	{"XAA", ModeImmediate, 0x8B, 2, false, true, true},
	{"AXS", ModeImmediate, 0xCB, 2, false, true, false},

	// Unstable store opcodes.
	{"AHX", ModeAbsoluteY, 0x9F, 5, false, true, true},
	{"AHX", ModeIndirectY, 0x93, 6, false, true, true},
	{"SHX", ModeAbsoluteY, 0x9E, 5, false, true, true},
	{"SHY", ModeAbsoluteX, 0x9C, 5, false, true, true},
	{"TAS", ModeAbsoluteY, 0x9B, 5, false, true, true},
	{"LAS", ModeAbsoluteY, 0xBB, 4, true, true, false},

	// Undocumented NOP variants: multi-byte forms that read and discard an
	// operand, and the single-byte implied form.
	{"NOP", ModeZeroPage, 0x04, 3, false, true, false},
	{"NOP", ModeZeroPageX, 0x14, 4, false, true, false},
	{"NOP", ModeAbsolute, 0x0C, 4, false, true, false},
	{"NOP", ModeAbsoluteX, 0x1C, 4, true, true, false},
	{"NOP", ModeImmediate, 0x80, 2, false, true, false},
}

// UndocumentedMnemonics lists every mnemonic that is entirely undocumented
// (every encoding it has is an unofficial opcode). NOP is documented but
// also has undocumented encodings, so it is intentionally excluded here;
// Encoding.Undocumented is the authoritative per-encoding flag.
var UndocumentedMnemonics = []string{
	"SLO", "RLA", "SRE", "RRA", "SAX", "LAX", "DCP", "ISC",
	"ANC", "ALR", "ARR", "XAA", "AXS", "AHX", "SHX", "SHY", "TAS", "LAS",
}

// NewOpcodeTable builds the opcode table from the static instruction
// description, asserting invariant I3: any opcode with a zero-page form
// also has an absolute form.
func NewOpcodeTable() *OpcodeTable {
	t := &OpcodeTable{byMnemonic: make(map[string]*Instruction)}

	for _, e := range opcodeEntries {
		inst, ok := t.byMnemonic[e.mnemonic]
		if !ok {
			inst = &Instruction{Mnemonic: e.mnemonic, Encodings: make(map[OpcodeMode]Encoding)}
			t.byMnemonic[e.mnemonic] = inst
		}
		inst.Encodings[e.mode] = Encoding{
			Opcode:       e.opcode,
			Clocks:       e.clocks,
			ExtraClocks:  e.extraClocks,
			Undocumented: e.undocumented,
			Unstable:     e.unstable,
		}
	}

	for _, inst := range t.byMnemonic {
		if inst.HasMode(ModeZeroPage) && !inst.HasMode(ModeAbsolute) {
			panic(fmt.Sprintf("opcode table invariant I3 violated: %s has a zero-page form but no absolute form",
				inst.Mnemonic))
		}
	}

	return t
}

// Lookup returns the instruction named mnemonic (case-insensitive), or
// ErrUnknownOpcode if no such mnemonic exists.
func (t *OpcodeTable) Lookup(mnemonic string) (*Instruction, error) {
	inst, ok := t.byMnemonic[canonicalize(mnemonic)]
	if !ok {
		return nil, &AssemblerError{Code: ErrUnknownOpcode, Message: "unknown opcode '" + mnemonic + "'"}
	}
	return inst, nil
}
