package yas6502

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalConst(v int) *Expr { return &Expr{Kind: ExprConstant, Value: v} }

func TestEvalConstant(t *testing.T) {
	st := NewSymbolTable()
	res, err := Eval(evalConst(5), EvalContext{Symbols: st})
	require.NoError(t, err)
	assert.True(t, res.Defined)
	assert.Equal(t, 5, res.Value)
}

func TestEvalUndefinedSymbol(t *testing.T) {
	st := NewSymbolTable()
	res, err := Eval(&Expr{Kind: ExprSymbol, Name: "FOO"}, EvalContext{Symbols: st})
	require.NoError(t, err)
	assert.False(t, res.Defined)
	assert.Equal(t, []string{"FOO"}, res.SortedNames())
}

func TestEvalLocation(t *testing.T) {
	st := NewSymbolTable()
	res, err := Eval(&Expr{Kind: ExprLocation}, EvalContext{Symbols: st, Loc: 0x1234})
	require.NoError(t, err)
	assert.True(t, res.Defined)
	assert.Equal(t, 0x1234, res.Value)
}

func TestEvalUnary(t *testing.T) {
	st := NewSymbolTable()
	neg, err := Eval(&Expr{Kind: ExprUnary, Op: "-", X: evalConst(5)}, EvalContext{Symbols: st})
	require.NoError(t, err)
	assert.Equal(t, -5, neg.Value)

	not, err := Eval(&Expr{Kind: ExprUnary, Op: "~", X: evalConst(0)}, EvalContext{Symbols: st})
	require.NoError(t, err)
	assert.Equal(t, -1, not.Value)
}

func TestEvalBinaryOperators(t *testing.T) {
	st := NewSymbolTable()
	cases := []struct {
		op   string
		l, r int
		want int
	}{
		{"+", 2, 3, 5},
		{"-", 5, 3, 2},
		{"*", 4, 3, 12},
		{"/", 7, 2, 3},
		{"%", 7, 2, 1},
		{"<<", 1, 4, 16},
		{">>", 16, 4, 1},
		{"&", 0b1100, 0b1010, 0b1000},
		{"|", 0b1100, 0b1010, 0b1110},
		{"^", 0b1100, 0b1010, 0b0110},
	}
	for _, c := range cases {
		res, err := Eval(&Expr{Kind: ExprBinary, Op: c.op, X: evalConst(c.l), Y: evalConst(c.r)}, EvalContext{Symbols: st})
		require.NoError(t, err)
		assert.Equalf(t, c.want, res.Value, "%d %s %d", c.l, c.op, c.r)
	}
}

func TestEvalDivideByZero(t *testing.T) {
	st := NewSymbolTable()
	_, err := Eval(&Expr{Kind: ExprBinary, Op: "/", X: evalConst(1), Y: evalConst(0)}, EvalContext{Symbols: st})
	require.Error(t, err)
	ae, ok := err.(*AssemblerError)
	require.True(t, ok)
	assert.Equal(t, ErrDivideByZero, ae.Code)
}

// Per spec's design note: an undefined operand must propagate as Undefined
// rather than crash arithmetic that would otherwise divide by zero.
func TestEvalUndefinedDoesNotCrashOnDivide(t *testing.T) {
	st := NewSymbolTable()
	res, err := Eval(&Expr{
		Kind: ExprBinary, Op: "/",
		X: &Expr{Kind: ExprSymbol, Name: "FOO"},
		Y: evalConst(0),
	}, EvalContext{Symbols: st})
	require.NoError(t, err)
	assert.False(t, res.Defined)
	assert.Equal(t, []string{"FOO"}, res.SortedNames())
}

func TestEvalUndefinedUnionsAcrossBothSides(t *testing.T) {
	st := NewSymbolTable()
	res, err := Eval(&Expr{
		Kind: ExprBinary, Op: "+",
		X: &Expr{Kind: ExprSymbol, Name: "FOO"},
		Y: &Expr{Kind: ExprSymbol, Name: "BAR"},
	}, EvalContext{Symbols: st})
	require.NoError(t, err)
	assert.False(t, res.Defined)
	assert.Equal(t, []string{"BAR", "FOO"}, res.SortedNames())
}

func TestEvalDefinedConvertsUndefinedToError(t *testing.T) {
	st := NewSymbolTable()
	_, err := EvalDefined(&Expr{Kind: ExprSymbol, Name: "FOO"}, EvalContext{Symbols: st})
	require.Error(t, err)
	ae, ok := err.(*AssemblerError)
	require.True(t, ok)
	assert.Equal(t, ErrUndefinedSymbolsInOperand, ae.Code)
}
