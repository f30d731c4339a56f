package yas6502

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingContainsBytesAndSymbolTable(t *testing.T) {
	asm := NewAssembler()
	asm.Assemble(`
      ORG $F000
START: SEI
      CLD
`)
	require.False(t, asm.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, asm.Statements, asm.Diags, asm.Symbols, asm.Image))
	out := buf.String()

	assert.Contains(t, out, "F000")
	assert.Contains(t, out, "78")
	assert.Contains(t, out, "D8")
	assert.Contains(t, out, "START")
	assert.Contains(t, out, "Symbol table (by name)")
	assert.Contains(t, out, "Symbol table (by value)")
}

func TestListingReportsErrorsAndWarnings(t *testing.T) {
	asm := NewAssembler()
	asm.Assemble(`
      ORG $0000
      LDA NOPE
`)
	require.True(t, asm.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, asm.Statements, asm.Diags, asm.Symbols, asm.Image))
	assert.Contains(t, buf.String(), "Errors and Warnings")
}

// R2: the listing's byte column, concatenated by statement, equals the
// image bytes from Loc for Length bytes.
func TestListingBytesMatchImage(t *testing.T) {
	asm := NewAssembler()
	asm.Assemble("      ORG $1000\n      LDA $42\n      LDA $1234\n")
	require.False(t, asm.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, asm.Statements, asm.Diags, asm.Symbols, asm.Image))
	lines := strings.Split(buf.String(), "\n")

	// Line 0 is the ORG (no bytes); the next two are the instructions.
	assert.Contains(t, lines[1], "A5 42")
	assert.Contains(t, lines[2], "AD 34 12")
}
