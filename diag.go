package yas6502

import "sort"

// Severity classifies a Diagnostic as blocking assembly (Error) or merely
// informational (Warning). Errors gate object-file output; warnings do not.
type Severity int

// Diagnostic severities.
const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one (severity, source-line, message) tuple.
type Diagnostic struct {
	Severity Severity
	Line     int
	Message  string
}

// Diagnostics is an ordered collection of Diagnostic entries, accumulated
// across Pass 1 and Pass 2. Order is preserved within a pass (diagnostics
// from a given statement precede those of later statements in the same
// pass); the public View is the concatenation of Pass 1 then Pass 2,
// re-sorted stably by source line for human display.
type Diagnostics struct {
	pass1 []Diagnostic
	pass2 []Diagnostic
	phase int // 0 before passes run, 1 during/after pass 1, 2 during/after pass 2
}

// NewDiagnostics returns an empty sink ready for Pass 1.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Reset wipes the sink for a fresh run, before the scanner/parser produces
// its statement list. Parse-time diagnostics (recorded before either pass
// begins) and Pass 1's own diagnostics share the same bucket, since both
// precede Pass 2 in the pipeline and View's final stable sort by line is
// what actually orders them for display.
func (d *Diagnostics) Reset() {
	d.pass1 = nil
	d.pass2 = nil
	d.phase = 0
}

// BeginPass1 marks the sink as receiving Pass 1 (and, transitively,
// parse-time) diagnostics. It deliberately does not clear prior entries:
// Parse runs before RunPass1 and reports into the same bucket, and those
// diagnostics must survive into Pass 1's run. Callers that want a clean
// sink for a new source file use Reset.
func (d *Diagnostics) BeginPass1() {
	d.phase = 1
}

// BeginPass2 marks the sink as receiving Pass 2 diagnostics.
func (d *Diagnostics) BeginPass2() {
	d.phase = 2
}

// Add appends a diagnostic to the current pass's list.
func (d *Diagnostics) Add(sev Severity, line int, message string) {
	entry := Diagnostic{Severity: sev, Line: line, Message: message}
	if d.phase == 2 {
		d.pass2 = append(d.pass2, entry)
	} else {
		d.pass1 = append(d.pass1, entry)
	}
}

// AddError records err (tagged with its ErrCode's severity) against line.
func (d *Diagnostics) AddError(line int, err error) {
	if ae, ok := err.(*AssemblerError); ok {
		d.Add(ae.Code.Severity(), line, ae.Error())
		return
	}
	d.Add(Error, line, err.Error())
}

// ErrorCount returns the number of Error-severity diagnostics across both
// passes.
func (d *Diagnostics) ErrorCount() int {
	n := 0
	for _, e := range d.pass1 {
		if e.Severity == Error {
			n++
		}
	}
	for _, e := range d.pass2 {
		if e.Severity == Error {
			n++
		}
	}
	return n
}

// View returns Pass 1's diagnostics followed by Pass 2's, stably sorted by
// source line for display in the listing or on the console.
func (d *Diagnostics) View() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.pass1)+len(d.pass2))
	all = append(all, d.pass1...)
	all = append(all, d.pass2...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Line < all[j].Line })
	return all
}
