package yas6502

import "fmt"

// pass2State carries the location counter and output image across Pass 2's
// single walk of the statement list.
type pass2State struct {
	opcodes *OpcodeTable
	symbols *SymbolTable
	diags   *Diagnostics
	img     *Image
	loc     int
}

// RunPass2 resets img and walks stmts once, requiring every expression to be
// fully defined, selecting a concrete encoding for each instruction,
// emitting bytes into img, and recording per-instruction timing/classification
// attributes for the listing. Per-statement failures become diagnostics;
// iteration always continues to the next statement.
func RunPass2(stmts []Statement, opcodes *OpcodeTable, symbols *SymbolTable, diags *Diagnostics, img *Image) {
	diags.BeginPass2()
	img.Reset()
	p := &pass2State{opcodes: opcodes, symbols: symbols, diags: diags, img: img}
	for _, stmt := range stmts {
		p.step(stmt)
	}
}

func (p *pass2State) step(stmt Statement) {
	base := stmt.Base()
	base.Loc = p.loc

	if base.Label != "" {
		if err := p.symbols.SetValue(base.Label, base.Loc); err != nil {
			p.diags.AddError(base.Line, err)
		}
	}

	switch s := stmt.(type) {
	case *OrgStmt:
		p.doOrg(s)
	case *SetStmt:
		p.doSet(s)
	case *InstrStmt:
		p.doInstr(s)
	case *DataStmt:
		p.doData(s)
	case *SpaceStmt:
		p.doSpace(s)
	case *NoopStmt:
		s.NextLoc = p.loc
	}
}

// emit writes b at the current location and advances it, recording
// AddressOverflow if the location has run off the end of the address space.
func (p *pass2State) emit(line int, b byte) {
	if p.loc < 0 || p.loc > 0xFFFF {
		p.diags.AddError(line, &AssemblerError{
			Code:    ErrAddressOverflow,
			Message: fmt.Sprintf("location %d is outside the addressable range", p.loc),
		})
		p.loc++
		return
	}
	p.img.Set(p.loc, int(b))
	p.loc++
}

func (p *pass2State) doOrg(s *OrgStmt) {
	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	val, err := EvalDefined(s.Expr, ctx)
	if err != nil {
		p.diags.AddError(s.Line, &AssemblerError{Code: ErrOrgUndefined, Message: err.Error()})
		s.NextLoc = p.loc
		return
	}
	if val != s.Resolved {
		// I4: a label's (and here, the origin's) value must not change
		// between the two passes. A defined symbol keeps its Pass 1 value,
		// so this happens when the expression uses the location counter and
		// an earlier statement advanced it differently in Pass 2.
		p.diags.AddError(s.Line, &AssemblerError{
			Code: ErrOrgChanged,
			Message: fmt.Sprintf("ORG value changed between passes: pass 1 computed %d, pass 2 computed %d",
				s.Resolved, val),
		})
	}
	p.loc = val
	s.NextLoc = p.loc
}

func (p *pass2State) doSet(s *SetStmt) {
	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	val, err := EvalDefined(s.Expr, ctx)
	if err != nil {
		p.diags.AddError(s.Line, err)
		s.NextLoc = p.loc
		return
	}
	if err := p.symbols.SetValue(s.Name, val); err != nil {
		p.diags.AddError(s.Line, err)
	}
	s.NextLoc = p.loc
}

func (p *pass2State) evalOperand(s *InstrStmt, ctx EvalContext) (int, error) {
	if s.Operand.Expr == nil {
		return 0, nil
	}
	val, err := EvalDefined(s.Operand.Expr, ctx)
	if err != nil {
		p.diags.AddError(s.Line, err)
		return 0, err
	}
	return val, nil
}

func (p *pass2State) applyEncoding(s *InstrStmt, enc Encoding) {
	s.Encoded = true
	s.Clocks = enc.Clocks
	s.ExtraClocks = enc.ExtraClocks
	s.Undocumented = enc.Undocumented
	s.Unstable = enc.Unstable
}

// skip advances the location counter by s's Pass-1-predicted length without
// writing anything to the image, used whenever Pass 2 cannot resolve a
// concrete encoding for an instruction (unknown opcode, missing addressing
// mode). Without this, a statement that fails differently in Pass 2 than in
// Pass 1 would leave every later statement's Loc out of sync between the two
// passes (the cross-pass invariant flagged in spec's design notes).
func (p *pass2State) skip(s *InstrStmt) {
	p.loc += s.PredictedLen
}

func (p *pass2State) doInstr(s *InstrStmt) {
	inst, err := p.opcodes.Lookup(s.Mnemonic)
	if err != nil {
		p.diags.AddError(s.Line, err)
		p.skip(s)
		s.NextLoc = p.loc
		return
	}

	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}

	switch s.Operand.Mode {
	case Implied:
		p.emitFixed(s, inst, ModeImplied)
	case Accumulator:
		p.emitFixed(s, inst, ModeAccumulator)
	case Immediate:
		p.emitImmediateOperand(s, inst, ModeImmediate, ctx)
	case IndirectX:
		p.emitIndirectIndexedOperand(s, inst, ModeIndirectX, ctx)
	case IndirectY:
		p.emitIndirectIndexedOperand(s, inst, ModeIndirectY, ctx)
	case Indirect:
		p.emitWordOperand(s, inst, ModeIndirect, ctx)
	case Address, AddressX, AddressY:
		p.doAddress(s, inst, ctx)
	}

	s.NextLoc = p.loc
}

// emitFixed handles the zero-operand forms: Implied and Accumulator.
func (p *pass2State) emitFixed(s *InstrStmt, inst *Instruction, mode OpcodeMode) {
	enc, ok := inst.Encoding(mode)
	if !ok {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrNoSuchAddressingMode,
			Message: fmt.Sprintf("%s has no %s addressing mode", s.Mnemonic, mode),
		})
		p.skip(s)
		return
	}
	p.applyEncoding(s, enc)
	p.emit(s.Line, enc.Opcode)
}

// emitImmediateOperand handles `#expr`. An out-of-range value is only a
// warning: the low byte is still emitted, per the OperandDoesNotFitInByte
// taxonomy entry.
func (p *pass2State) emitImmediateOperand(s *InstrStmt, inst *Instruction, mode OpcodeMode, ctx EvalContext) {
	enc, ok := inst.Encoding(mode)
	if !ok {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrNoSuchAddressingMode,
			Message: fmt.Sprintf("%s has no %s addressing mode", s.Mnemonic, mode),
		})
		p.skip(s)
		return
	}
	val, err := p.evalOperand(s, ctx)
	p.applyEncoding(s, enc)
	p.emit(s.Line, enc.Opcode)
	if err != nil {
		p.emit(s.Line, 0)
		return
	}
	if val < -128 || val > 0xFF {
		p.diags.Add(Warning, s.Line, (&AssemblerError{
			Code:    ErrOperandDoesNotFitInByte,
			Message: fmt.Sprintf("operand %d does not fit in a byte", val),
		}).Error())
	}
	p.emit(s.Line, byte(val&0xFF))
}

// emitIndirectIndexedOperand handles `[expr,X]` and `[expr],Y`. These forms
// are inherently zero-page only; an out-of-range value is an error
// (AddressNotZeroPage), not merely a warning.
func (p *pass2State) emitIndirectIndexedOperand(s *InstrStmt, inst *Instruction, mode OpcodeMode, ctx EvalContext) {
	enc, ok := inst.Encoding(mode)
	if !ok {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrNoSuchAddressingMode,
			Message: fmt.Sprintf("%s has no %s addressing mode", s.Mnemonic, mode),
		})
		p.skip(s)
		return
	}
	val, err := p.evalOperand(s, ctx)
	p.applyEncoding(s, enc)
	p.emit(s.Line, enc.Opcode)
	if err != nil {
		p.emit(s.Line, 0)
		return
	}
	if val < 0 || val > 0xFF {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrAddressNotZeroPage,
			Message: fmt.Sprintf("operand %d is not a zero-page address", val),
		})
	}
	p.emit(s.Line, byte(val&0xFF))
}

func (p *pass2State) emitWordOperand(s *InstrStmt, inst *Instruction, mode OpcodeMode, ctx EvalContext) {
	enc, ok := inst.Encoding(mode)
	if !ok {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrNoSuchAddressingMode,
			Message: fmt.Sprintf("%s has no %s addressing mode", s.Mnemonic, mode),
		})
		p.skip(s)
		return
	}
	val, err := p.evalOperand(s, ctx)
	p.applyEncoding(s, enc)
	p.emit(s.Line, enc.Opcode)
	if err != nil {
		p.emit(s.Line, 0)
		p.emit(s.Line, 0)
		return
	}
	p.emit(s.Line, byte(val&0xFF))
	p.emit(s.Line, byte((val>>8)&0xFF))
}

// emitRelative handles a branch instruction's PC-relative operand.
func (p *pass2State) emitRelative(s *InstrStmt, inst *Instruction, ctx EvalContext) {
	enc, ok := inst.Encoding(ModeRelative)
	if !ok {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrNoSuchAddressingMode,
			Message: s.Mnemonic + " has no relative addressing mode",
		})
		p.skip(s)
		return
	}
	target, err := p.evalOperand(s, ctx)
	if err != nil {
		p.applyEncoding(s, enc)
		p.emit(s.Line, enc.Opcode)
		p.emit(s.Line, 0)
		return
	}
	delta := target - (p.loc + 2)
	if delta < -128 || delta > 127 {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrRelativeBranchOutOfRange,
			Message: fmt.Sprintf("branch target %d is out of range (offset %d)", target, delta),
		})
		p.applyEncoding(s, enc)
		p.emit(s.Line, enc.Opcode)
		p.emit(s.Line, 0)
		return
	}
	p.applyEncoding(s, enc)
	p.emit(s.Line, enc.Opcode)
	p.emit(s.Line, byte(int8(delta)))
}

// absoluteModeFor returns the opcode-mode corresponding to addr's absolute
// form.
func absoluteModeFor(mode AddrMode) OpcodeMode {
	switch mode {
	case AddressX:
		return ModeAbsoluteX
	case AddressY:
		return ModeAbsoluteY
	default:
		return ModeAbsolute
	}
}

// doAddress emits an Address/AddressX/AddressY operand, honoring the
// operand size Pass 1 already decided (OperandSize). A branch mnemonic
// always takes the relative path regardless of the recorded size, since
// Pass 1 forces SizeByte for any instruction with a relative encoding.
func (p *pass2State) doAddress(s *InstrStmt, inst *Instruction, ctx EvalContext) {
	if inst.HasMode(ModeRelative) {
		p.emitRelative(s, inst, ctx)
		return
	}

	if s.OperandSize == SizeByte {
		p.emitZeroPageForm(s, inst, ctx)
		return
	}
	p.emitAbsoluteForm(s, inst, ctx)
}

func (p *pass2State) emitZeroPageForm(s *InstrStmt, inst *Instruction, ctx EvalContext) {
	zp := zeroPageModeFor(s.Operand.Mode)
	enc, ok := inst.Encoding(zp)
	if !ok {
		p.diags.AddError(s.Line, NoAbsoluteIndexedMode(s.Mnemonic))
		p.skip(s)
		return
	}
	val, err := p.evalOperand(s, ctx)
	p.applyEncoding(s, enc)
	p.emit(s.Line, enc.Opcode)
	if err != nil {
		p.emit(s.Line, 0)
		return
	}
	if val < 0 || val > 0xFF {
		// Pass 1 only chose the zero-page form because the value fit at
		// the time; reaching here out of range means the operand uses the
		// location counter and an earlier statement advanced it
		// differently in Pass 2 (see OrgChanged for the analogous ORG
		// case).
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrAddressNotZeroPage,
			Message: fmt.Sprintf("operand %d is not a zero-page address", val),
		})
	}
	p.emit(s.Line, byte(val&0xFF))
}

// emitAbsoluteForm handles the AddressX/AddressY Word-size case. It prefers
// the absolute-indexed encoding; if the opcode has none (e.g. STX has
// zero-page,Y but no absolute,Y) it downgrades to the zero-page-indexed
// encoding when the evaluated value actually fits, per spec's corrected
// redesign of this fallback (the original's AbsoluteY-missing branch fell
// back to ZeroPageX, apparently a typo for ZeroPageY; this does not
// reproduce that bug). Only when neither encoding exists, or the value
// doesn't fit the zero-page fallback either, is NoAbsoluteIndexedMode
// reported.
func (p *pass2State) emitAbsoluteForm(s *InstrStmt, inst *Instruction, ctx EvalContext) {
	abs := absoluteModeFor(s.Operand.Mode)
	enc, ok := inst.Encoding(abs)
	if ok {
		val, err := p.evalOperand(s, ctx)
		p.applyEncoding(s, enc)
		p.emit(s.Line, enc.Opcode)
		if err != nil {
			p.emit(s.Line, 0)
			p.emit(s.Line, 0)
			return
		}
		if val < 0 || val > 0xFFFF {
			p.diags.AddError(s.Line, &AssemblerError{
				Code:    ErrAddressOverflow,
				Message: fmt.Sprintf("address %d does not fit in a word", val),
			})
		}
		p.emit(s.Line, byte(val&0xFF))
		p.emit(s.Line, byte((val>>8)&0xFF))
		return
	}

	zp := zeroPageModeFor(s.Operand.Mode)
	zpEnc, zpOk := inst.Encoding(zp)
	if !zpOk {
		p.diags.AddError(s.Line, NoAbsoluteIndexedMode(s.Mnemonic))
		p.skip(s)
		return
	}
	val, err := p.evalOperand(s, ctx)
	if err != nil {
		// Pass 1 sized this operand as a word (the symbol was undefined
		// there too), so emitting the 2-byte fallback here would advance the
		// location counter by one less than Pass 1 did and shift every later
		// statement's Loc.
		p.skip(s)
		return
	}
	if val < -127 || val > 0xFF {
		p.diags.AddError(s.Line, NoAbsoluteIndexedMode(s.Mnemonic))
		p.skip(s)
		return
	}
	p.applyEncoding(s, zpEnc)
	p.emit(s.Line, zpEnc.Opcode)
	p.emit(s.Line, byte(val&0xFF))
}

func (p *pass2State) doData(s *DataStmt) {
	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	for i := range s.Elements {
		el := &s.Elements[i]

		count := 1
		if el.IsRep {
			n, err := EvalDefined(el.Count, ctx)
			if err != nil {
				p.diags.AddError(s.Line, err)
				continue
			}
			if n < 1 {
				p.diags.AddError(s.Line, &AssemblerError{
					Code:    ErrRepCountNonPositive,
					Message: fmt.Sprintf("REP count %d must be positive", n),
				})
				continue
			}
			count = n
		}

		val, err := EvalDefined(el.Value, ctx)
		if err != nil {
			p.diags.AddError(s.Line, err)
			val = 0
		} else if s.Size == Byte && (val < -128 || val > 0xFF) {
			p.diags.Add(Warning, s.Line, (&AssemblerError{
				Code:    ErrOperandDoesNotFitInByte,
				Message: fmt.Sprintf("value %d does not fit in a byte", val),
			}).Error())
		}

		for j := 0; j < count; j++ {
			if s.Size == Word {
				p.emit(s.Line, byte(val&0xFF))
				p.emit(s.Line, byte((val>>8)&0xFF))
			} else {
				p.emit(s.Line, byte(val&0xFF))
			}
		}
	}
	s.NextLoc = p.loc
}

func (p *pass2State) doSpace(s *SpaceStmt) {
	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	n, err := EvalDefined(s.Count, ctx)
	if err != nil {
		p.diags.AddError(s.Line, err)
		s.NextLoc = p.loc
		return
	}
	if n < 0 {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrSpaceUndefined,
			Message: fmt.Sprintf("space count %d must be non-negative", n),
		})
		s.NextLoc = p.loc
		return
	}
	p.loc += n * int(s.Size)
	s.NextLoc = p.loc
}
