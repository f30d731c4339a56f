package yas6502

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpcodeTableLookupCaseInsensitive(t *testing.T) {
	table := NewOpcodeTable()
	lda, err := table.Lookup("lda")
	require.NoError(t, err)
	assert.Equal(t, "LDA", lda.Mnemonic)

	ldaUpper, err := table.Lookup("LDA")
	require.NoError(t, err)
	assert.Same(t, lda, ldaUpper)
}

func TestOpcodeTableUnknownMnemonic(t *testing.T) {
	table := NewOpcodeTable()
	_, err := table.Lookup("ZZZ")
	require.Error(t, err)
	ae, ok := err.(*AssemblerError)
	require.True(t, ok)
	assert.Equal(t, ErrUnknownOpcode, ae.Code)
}

func TestOpcodeTableEveryZeroPageHasAbsolute(t *testing.T) {
	// Invariant I3, re-checked at the test level independent of the panic
	// NewOpcodeTable already asserts at construction.
	table := NewOpcodeTable()
	for _, e := range opcodeEntries {
		inst := table.byMnemonic[e.mnemonic]
		if inst.HasMode(ModeZeroPage) {
			assert.Truef(t, inst.HasMode(ModeAbsolute), "%s has zero-page but no absolute", e.mnemonic)
		}
	}
}

func TestLAXImmediateIsUnstable(t *testing.T) {
	table := NewOpcodeTable()
	lax, err := table.Lookup("LAX")
	require.NoError(t, err)
	enc, ok := lax.Encoding(ModeImmediate)
	require.True(t, ok)
	assert.True(t, enc.Unstable)
	assert.True(t, enc.Undocumented)
	assert.Equal(t, byte(0xAB), enc.Opcode)
}

func TestBranchesHaveExtraClocks(t *testing.T) {
	table := NewOpcodeTable()
	bne, err := table.Lookup("BNE")
	require.NoError(t, err)
	enc, ok := bne.Encoding(ModeRelative)
	require.True(t, ok)
	assert.True(t, enc.ExtraClocks)
	assert.Equal(t, byte(0xD0), enc.Opcode)
}

func TestUndocumentedOpcodesFlagged(t *testing.T) {
	table := NewOpcodeTable()
	for _, name := range UndocumentedMnemonics {
		inst, err := table.Lookup(name)
		require.NoError(t, err)
		for mode, enc := range inst.Encodings {
			assert.Truef(t, enc.Undocumented, "%s %s should be flagged undocumented", name, mode)
		}
	}
}
