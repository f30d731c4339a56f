package yas6502

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1 object file, verbatim from spec §8.
func TestWriteObjectFileStartupStub(t *testing.T) {
	asm := NewAssembler()
	asm.Assemble(`
      ORG $F000
      SEI
      CLD
`)
	require.False(t, asm.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, WriteObjectFile(&buf, asm.Image))
	assert.Equal(t, "@F000\n78 D8\n", buf.String())
}

func TestObjectFileSkipsUnwrittenCells(t *testing.T) {
	asm := NewAssembler()
	asm.Assemble(`
      ORG $0000
      NOP
      ORG $0010
      NOP
`)
	require.False(t, asm.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, WriteObjectFile(&buf, asm.Image))
	assert.Contains(t, buf.String(), "@0000")
	assert.Contains(t, buf.String(), "@0010")
}

func TestObjectFileAtMost16BytesPerLine(t *testing.T) {
	asm := NewAssembler()
	asm.Assemble(`
      ORG $0000
      BYTE REP(20) $AA
`)
	require.False(t, asm.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, WriteObjectFile(&buf, asm.Image))

	lines := splitNonEmptyLines(buf.String())
	// @0000 line, a 16-byte line, then a 4-byte line.
	require.Len(t, lines, 3)
	assert.Equal(t, "@0000", lines[0])
	assert.Len(t, splitFields(lines[1]), 16)
	assert.Len(t, splitFields(lines[2]), 4)
}

// R1: object file read back reproduces the image's defined cells exactly.
func TestObjectFileRoundTrip(t *testing.T) {
	asm := NewAssembler()
	asm.Assemble(`
      ORG $2000
      LDA  FOO
      SET  FOO = $42
      ORG  $2100
      BYTE $01, REP(3) $FF, $02
`)
	require.False(t, asm.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, WriteObjectFile(&buf, asm.Image))

	got, err := ReadObjectFile(&buf)
	require.NoError(t, err)
	for addr := 0; addr < ImageSize; addr++ {
		assert.Equalf(t, asm.Image.At(addr), got.At(addr), "addr %#04x", addr)
	}
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, l := range bytesSplit(s, '\n') {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func bytesSplit(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func splitFields(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == ' ' {
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}
