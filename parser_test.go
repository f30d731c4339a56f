package yas6502

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) Statement {
	t.Helper()
	diags := NewDiagnostics()
	diags.BeginPass1()
	stmts := Parse(src, diags)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func TestParseLabelAndInstruction(t *testing.T) {
	stmt := parseOne(t, "LOOP: NOP\n")
	instr, ok := stmt.(*InstrStmt)
	require.True(t, ok)
	assert.Equal(t, "LOOP", instr.Label)
	assert.Equal(t, "NOP", instr.Mnemonic)
	assert.Equal(t, Implied, instr.Operand.Mode)
}

func TestParseImmediateOperand(t *testing.T) {
	stmt := parseOne(t, "LDA #$05\n")
	instr := stmt.(*InstrStmt)
	assert.Equal(t, Immediate, instr.Operand.Mode)
	assert.Equal(t, 5, instr.Operand.Expr.Value)
}

func TestParseIndirectForms(t *testing.T) {
	x := parseOne(t, "LDA [$10,X]\n").(*InstrStmt)
	assert.Equal(t, IndirectX, x.Operand.Mode)

	y := parseOne(t, "LDA [$10],Y\n").(*InstrStmt)
	assert.Equal(t, IndirectY, y.Operand.Mode)

	ind := parseOne(t, "JMP [$1234]\n").(*InstrStmt)
	assert.Equal(t, Indirect, ind.Operand.Mode)
}

func TestParseAccumulatorMode(t *testing.T) {
	stmt := parseOne(t, "ASL A\n").(*InstrStmt)
	assert.Equal(t, Accumulator, stmt.Operand.Mode)
}

func TestParseAddressXY(t *testing.T) {
	x := parseOne(t, "LDA $10,X\n").(*InstrStmt)
	assert.Equal(t, AddressX, x.Operand.Mode)
	y := parseOne(t, "LDA $10,Y\n").(*InstrStmt)
	assert.Equal(t, AddressY, y.Operand.Mode)
}

func TestParseTopLevelParenthesizedOperandFlag(t *testing.T) {
	paren := parseOne(t, "LDA ($10)\n").(*InstrStmt)
	assert.True(t, paren.Operand.Expr.Parenthesized)

	bare := parseOne(t, "LDA $10\n").(*InstrStmt)
	assert.False(t, bare.Operand.Expr.Parenthesized)

	// Parenthesized only marks the OUTER form; an inner group followed by
	// more operators is not "top-level parenthesized".
	mixed := parseOne(t, "LDA ($10)+1\n").(*InstrStmt)
	assert.False(t, mixed.Operand.Expr.Parenthesized)
}

func TestParseSetDirective(t *testing.T) {
	stmt := parseOne(t, "SET FOO = $42\n").(*SetStmt)
	assert.Equal(t, "FOO", stmt.Name)
	assert.Equal(t, 0x42, stmt.Expr.Value)
}

func TestParseBareEqualsSetForm(t *testing.T) {
	stmt := parseOne(t, "FOO = $42\n").(*SetStmt)
	assert.Equal(t, "FOO", stmt.Name)
}

func TestParseByteWithRep(t *testing.T) {
	stmt := parseOne(t, "BYTE $01, REP(3) $FF, $02\n").(*DataStmt)
	require.Len(t, stmt.Elements, 3)
	assert.False(t, stmt.Elements[0].IsRep)
	assert.True(t, stmt.Elements[1].IsRep)
	assert.Equal(t, 3, stmt.Elements[1].Count.Value)
	assert.False(t, stmt.Elements[2].IsRep)
}

func TestParseStringDataElementExpandsToBytes(t *testing.T) {
	stmt := parseOne(t, `BYTE "AB"`+"\n").(*DataStmt)
	require.Len(t, stmt.Elements, 2)
	assert.Equal(t, int('A'), stmt.Elements[0].Value.Value)
	assert.Equal(t, int('B'), stmt.Elements[1].Value.Value)
}

func TestParseSpaceDirectives(t *testing.T) {
	b := parseOne(t, "BYTES 10\n").(*SpaceStmt)
	assert.Equal(t, Byte, b.Size)
	w := parseOne(t, "WORDS 10\n").(*SpaceStmt)
	assert.Equal(t, Word, w.Size)
}

func TestParseExpressionPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3), not (1 + 2) * 3.
	stmt := parseOne(t, "SET FOO = 1 + 2 * 3\n").(*SetStmt)
	st := NewSymbolTable()
	res, err := Eval(stmt.Expr, EvalContext{Symbols: st})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Value)
}

func TestParseOrgAndEnd(t *testing.T) {
	org := parseOne(t, "ORG $8000\n").(*OrgStmt)
	assert.Equal(t, 0x8000, org.Expr.Value)

	_, ok := parseOne(t, "END\n").(*NoopStmt)
	assert.True(t, ok)
}

func TestParseBlankLineIsNoop(t *testing.T) {
	_, ok := parseOne(t, "\n").(*NoopStmt)
	assert.True(t, ok)
}

func TestParseBinaryAndCharLiterals(t *testing.T) {
	bin := parseOne(t, "SET FOO = 0b1010\n").(*SetStmt)
	assert.Equal(t, 0b1010, bin.Expr.Value)

	ch := parseOne(t, `SET FOO = 'A'`+"\n").(*SetStmt)
	assert.Equal(t, int('A'), ch.Expr.Value)

	esc := parseOne(t, `SET FOO = '\n'`+"\n").(*SetStmt)
	assert.Equal(t, int('\n'), esc.Expr.Value)
}

func TestParseMalformedLineRecordsDiagnosticAndRecovers(t *testing.T) {
	diags := NewDiagnostics()
	diags.BeginPass1()
	stmts := Parse("@@@\nNOP\n", diags)
	require.Len(t, stmts, 2)
	assert.Greater(t, diags.ErrorCount(), 0)
	instr, ok := stmts[1].(*InstrStmt)
	require.True(t, ok)
	assert.Equal(t, "NOP", instr.Mnemonic)
}
