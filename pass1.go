package yas6502

import (
	"fmt"
	"strings"
)

// pass1State carries the location counter across Pass 1's single walk of
// the statement list.
type pass1State struct {
	opcodes *OpcodeTable
	symbols *SymbolTable
	diags   *Diagnostics
	loc     int
}

// RunPass1 walks stmts once, assigning each statement its Loc, defining
// labels, choosing instruction operand sizes, and advancing the location
// counter. It emits no bytes. Per-statement failures become diagnostics;
// iteration always continues to the next statement.
func RunPass1(stmts []Statement, opcodes *OpcodeTable, symbols *SymbolTable, diags *Diagnostics) {
	diags.BeginPass1()
	p := &pass1State{opcodes: opcodes, symbols: symbols, diags: diags}
	for _, stmt := range stmts {
		p.step(stmt)
	}
}

func (p *pass1State) step(stmt Statement) {
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
		// No-op: location counter does not move.
	}
}

func (p *pass1State) doOrg(s *OrgStmt) {
	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	res, err := Eval(s.Expr, ctx)
	if err != nil {
		p.diags.AddError(s.Line, err)
		return
	}
	if !res.Defined {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrOrgUndefined,
			Message: "ORG expression must be fully defined; undefined symbol(s): " + strings.Join(res.SortedNames(), ", "),
		})
		return
	}
	if res.Value < 0 || res.Value > ImageSize {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrAddressOverflow,
			Message: fmt.Sprintf("ORG value %d is out of range", res.Value),
		})
		return
	}
	s.Resolved = res.Value
	p.loc = res.Value
}

func (p *pass1State) doSet(s *SetStmt) {
	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	res, err := Eval(s.Expr, ctx)
	if err != nil {
		p.diags.AddError(s.Line, err)
		return
	}
	if res.Defined {
		if err := p.symbols.SetValue(s.Name, res.Value); err != nil {
			p.diags.AddError(s.Line, err)
		}
	}
	// An undefined SET expression is permitted in Pass 1: the symbol may
	// become defined by the time Pass 2 runs.
}

// zeroPageModeFor returns the opcode-mode that corresponds to addr's
// zero-page form.
func zeroPageModeFor(mode AddrMode) OpcodeMode {
	switch mode {
	case AddressX:
		return ModeZeroPageX
	case AddressY:
		return ModeZeroPageY
	default:
		return ModeZeroPage
	}
}

func (p *pass1State) doInstr(s *InstrStmt) {
	if s.Operand.Expr != nil && s.Operand.Expr.Parenthesized {
		p.diags.Add(Warning, s.Line,
			(&AssemblerError{
				Code:    ErrTopLevelParenthesizedOperand,
				Message: "top-level expression is parenthesized; did you mean brackets for indirect addressing?",
			}).Error())
	}

	inst, err := p.opcodes.Lookup(s.Mnemonic)
	if err != nil {
		p.diags.AddError(s.Line, err)
	}

	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	length := 1

	switch s.Operand.Mode {
	case Implied, Accumulator:
		length = 1

	case Immediate:
		length = 2

	case Indirect:
		length = 3

	case IndirectX, IndirectY:
		length = 2

	case Address, AddressX, AddressY:
		// Default to the 2-byte absolute operand. A branch opcode always
		// forces the 1-byte relative form; otherwise a defined operand
		// that fits in a zero-page byte, for an opcode with a matching
		// zero-page encoding, downgrades to the 1-byte form. A forward
		// reference therefore gets the absolute form even when its
		// eventual value will fit in zero page (documented suboptimality,
		// spec §4.4).
		size := SizeWord
		switch {
		case inst != nil && inst.HasMode(ModeRelative):
			size = SizeByte
		case inst != nil:
			zp := zeroPageModeFor(s.Operand.Mode)
			if inst.HasMode(zp) && s.Operand.Expr != nil {
				res, evalErr := Eval(s.Operand.Expr, ctx)
				if evalErr != nil {
					p.diags.AddError(s.Line, evalErr)
				} else if res.Defined && res.Value >= 0 && res.Value <= 0xFF {
					size = SizeByte
				}
			}
		}
		s.OperandSize = size
		if size == SizeByte {
			length = 2
		} else {
			length = 3
		}
	}

	s.PredictedLen = length
	p.loc += length
}

func (p *pass1State) doData(s *DataStmt) {
	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	count := 0
	for i := range s.Elements {
		el := &s.Elements[i]
		if !el.IsRep {
			count++
			continue
		}
		res, err := Eval(el.Count, ctx)
		if err != nil {
			p.diags.AddError(s.Line, err)
			continue
		}
		if !res.Defined {
			p.diags.AddError(s.Line, &AssemblerError{
				Code:    ErrRepCountUndefined,
				Message: "REP count must be fully defined in pass 1",
			})
			continue
		}
		if res.Value < 1 {
			p.diags.AddError(s.Line, &AssemblerError{
				Code:    ErrRepCountNonPositive,
				Message: fmt.Sprintf("REP count %d must be positive", res.Value),
			})
			continue
		}
		count += res.Value
	}
	p.loc += count * int(s.Size)
}

func (p *pass1State) doSpace(s *SpaceStmt) {
	ctx := EvalContext{Symbols: p.symbols, Loc: p.loc}
	res, err := Eval(s.Count, ctx)
	if err != nil {
		p.diags.AddError(s.Line, err)
		return
	}
	if !res.Defined {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrSpaceUndefined,
			Message: "space count must be fully defined in pass 1",
		})
		return
	}
	if res.Value < 0 {
		p.diags.AddError(s.Line, &AssemblerError{
			Code:    ErrSpaceUndefined,
			Message: fmt.Sprintf("space count %d must be non-negative", res.Value),
		})
		return
	}
	p.loc += res.Value * int(s.Size)
}
