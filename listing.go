package yas6502

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteListing renders the full listing file: the program listing, an
// Errors and Warnings block (if any diagnostics were recorded), and the
// symbol table dumped twice, by name and then by value. It only reads
// already-finished state (stmts, diags, symbols, img); it performs no
// assembly of its own.
func WriteListing(w io.Writer, stmts []Statement, diags *Diagnostics, symbols *SymbolTable, img *Image) error {
	lw := &listingWriter{w: w, img: img}
	for _, stmt := range stmts {
		if err := lw.writeStatement(stmt); err != nil {
			return err
		}
	}

	view := diags.View()
	if len(view) > 0 {
		if _, err := fmt.Fprintln(w, "\nErrors and Warnings"); err != nil {
			return err
		}
		for _, d := range view {
			if _, err := fmt.Fprintf(w, "line %5d: %-7s %s\n", d.Line, d.Severity, d.Message); err != nil {
				return err
			}
		}
	}

	entries := symbols.All()

	byName := append([]SymbolEntry(nil), entries...)
	sort.Slice(byName, func(i, j int) bool { return byName[i].Name < byName[j].Name })
	if _, err := fmt.Fprintln(w, "\nSymbol table (by name)"); err != nil {
		return err
	}
	for _, e := range byName {
		if _, err := fmt.Fprintf(w, "%-24s %04X\n", e.Name, e.Value&0xFFFF); err != nil {
			return err
		}
	}

	byValue := append([]SymbolEntry(nil), entries...)
	sort.Slice(byValue, func(i, j int) bool {
		if byValue[i].Value != byValue[j].Value {
			return byValue[i].Value < byValue[j].Value
		}
		return byValue[i].Name < byValue[j].Name
	})
	if _, err := fmt.Fprintln(w, "\nSymbol table (by value)"); err != nil {
		return err
	}
	for _, e := range byValue {
		if _, err := fmt.Fprintf(w, "%04X %s\n", e.Value&0xFFFF, e.Name); err != nil {
			return err
		}
	}

	return nil
}

const listingBytesPerLine = 5

type listingWriter struct {
	w   io.Writer
	img *Image
}

func (lw *listingWriter) writeStatement(stmt Statement) error {
	base := stmt.Base()
	length := base.Length()
	if _, ok := stmt.(*OrgStmt); ok {
		// An ORG's Length is the jump it makes in the location counter, not
		// bytes it emits.
		length = 0
	}

	if _, ok := stmt.(*NoopStmt); ok && length == 0 && base.Label == "" && base.Comment == "" {
		_, err := fmt.Fprintf(lw.w, "%5d\n", base.Line)
		return err
	}

	text := statementText(stmt)

	allBytes := make([]int, length)
	for i := 0; i < length; i++ {
		allBytes[i] = lw.img.At(base.Loc + i)
	}

	first := allBytes
	if len(first) > listingBytesPerLine {
		first = first[:listingBytesPerLine]
	}

	attr := "     "
	if ins, ok := stmt.(*InstrStmt); ok && ins.Encoded {
		extra := ' '
		if ins.ExtraClocks {
			extra = '+'
		}
		undoc := ' '
		if ins.Undocumented {
			undoc = 'U'
		}
		unstable := ' '
		if ins.Unstable {
			unstable = 'S'
		}
		attr = fmt.Sprintf("%2d%c%c%c", ins.Clocks, extra, undoc, unstable)
	}

	label := base.Label
	if label != "" {
		label += ":"
	}

	comment := ""
	if base.Comment != "" {
		comment = "; " + base.Comment
	}

	if _, err := fmt.Fprintf(lw.w, "%5d %04X  %-15s  %-5s  %-8s%-24s%s\n",
		base.Line, base.Loc, byteColumn(first), attr, label, text, comment); err != nil {
		return err
	}

	rest := allBytes[len(first):]
	addr := base.Loc + len(first)
	for len(rest) > 0 {
		chunk := rest
		if len(chunk) > listingBytesPerLine {
			chunk = chunk[:listingBytesPerLine]
		}
		if _, err := fmt.Fprintf(lw.w, "%5d %04X  %-15s\n", base.Line, addr, byteColumn(chunk)); err != nil {
			return err
		}
		addr += len(chunk)
		rest = rest[len(chunk):]
	}
	return nil
}

func byteColumn(cells []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		if c == Unwritten {
			parts[i] = "--"
		} else {
			parts[i] = fmt.Sprintf("%02X", c&0xFF)
		}
	}
	return strings.Join(parts, " ")
}

// statementText reconstructs a source-like rendering of a statement for the
// listing's instruction column. It is a display aid, not a guarantee of
// reproducing the original source text verbatim.
func statementText(stmt Statement) string {
	switch s := stmt.(type) {
	case *OrgStmt:
		return "ORG " + exprString(s.Expr)
	case *SetStmt:
		return "SET " + s.Name + " = " + exprString(s.Expr)
	case *InstrStmt:
		operand := operandString(s.Operand)
		if operand == "" {
			return s.Mnemonic
		}
		return s.Mnemonic + " " + operand
	case *DataStmt:
		kw := "BYTE"
		if s.Size == Word {
			kw = "WORD"
		}
		parts := make([]string, len(s.Elements))
		for i, el := range s.Elements {
			if el.IsRep {
				parts[i] = fmt.Sprintf("REP(%s) %s", exprString(el.Count), exprString(el.Value))
			} else {
				parts[i] = exprString(el.Value)
			}
		}
		return kw + " " + strings.Join(parts, ", ")
	case *SpaceStmt:
		kw := "BYTES"
		if s.Size == Word {
			kw = "WORDS"
		}
		return kw + " " + exprString(s.Count)
	default:
		return ""
	}
}

func operandString(a Addr) string {
	switch a.Mode {
	case Implied:
		return ""
	case Accumulator:
		return "A"
	case Immediate:
		return "#" + exprString(a.Expr)
	case Indirect:
		return "[" + exprString(a.Expr) + "]"
	case IndirectX:
		return "[" + exprString(a.Expr) + ",X]"
	case IndirectY:
		return "[" + exprString(a.Expr) + "],Y"
	case AddressX:
		return exprString(a.Expr) + ",X"
	case AddressY:
		return exprString(a.Expr) + ",Y"
	default:
		return exprString(a.Expr)
	}
}

func exprString(e *Expr) string {
	if e == nil {
		return ""
	}
	var s string
	switch e.Kind {
	case ExprConstant:
		s = fmt.Sprintf("$%X", e.Value)
	case ExprSymbol:
		s = e.Name
	case ExprLocation:
		s = "."
	case ExprUnary:
		s = e.Op + exprString(e.X)
	case ExprBinary:
		s = exprString(e.X) + " " + e.Op + " " + exprString(e.Y)
	}
	if e.Parenthesized {
		return "(" + s + ")"
	}
	return s
}
