package yas6502

// Assembler owns the tables and state shared by a single assembly run:
// the static opcode table, the symbol table, the diagnostics sink, the
// output image, and the parsed statement list. Per spec §5, one instance
// must not be driven by two concurrent runs, but is safe to reuse
// sequentially via Reset.
type Assembler struct {
	Opcodes    *OpcodeTable
	Symbols    *SymbolTable
	Diags      *Diagnostics
	Image      *Image
	Statements []Statement
}

// NewAssembler returns a ready-to-use Assembler, building the opcode table
// once.
func NewAssembler() *Assembler {
	return &Assembler{
		Opcodes: NewOpcodeTable(),
		Symbols: NewSymbolTable(),
		Diags:   NewDiagnostics(),
		Image:   NewImage(),
	}
}

// Reset clears all per-run state so the Assembler can be reused for a new
// source file.
func (a *Assembler) Reset() {
	a.Symbols.Clear()
	a.Image.Reset()
	a.Diags.Reset()
	a.Statements = nil
}

// Assemble parses src and runs Pass 1 and Pass 2 against it. Per-line parse
// failures and per-statement pass failures are recorded as diagnostics
// rather than aborting; callers check HasErrors (or Diags.ErrorCount)
// afterward to decide whether to emit output.
func (a *Assembler) Assemble(src string) {
	a.Reset()
	a.Statements = Parse(src, a.Diags)
	RunPass1(a.Statements, a.Opcodes, a.Symbols, a.Diags)
	RunPass2(a.Statements, a.Opcodes, a.Symbols, a.Diags, a.Image)
}

// HasErrors reports whether any Error-severity diagnostic was recorded
// during the last Assemble call. Warnings alone do not block output.
func (a *Assembler) HasErrors() bool {
	return a.Diags.ErrorCount() > 0
}
