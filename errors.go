package yas6502

import "fmt"

// ErrCode identifies one member of the error taxonomy from the assembler's
// design (severity is fixed per code; see Severity).
type ErrCode int

// Error codes produced by the assembler. Each carries a fixed severity
// (Severity reports it); AssemblerError additionally carries the
// human-readable message and (via the caller) the source line.
const (
	ErrInternal ErrCode = iota
	ErrUnknownOpcode
	ErrUndefinedSymbolsInOperand
	ErrOrgUndefined
	ErrOrgChanged
	ErrSpaceUndefined
	ErrRepCountUndefined
	ErrRepCountNonPositive
	ErrSymbolRedefinition
	ErrDivideByZero
	ErrNoSuchAddressingMode
	ErrRelativeBranchOutOfRange
	ErrAddressNotZeroPage
	ErrAddressOverflow
	ErrOperandDoesNotFitInByte
	ErrTopLevelParenthesizedOperand
)

// Severity reports whether a code is an Error or a Warning, per spec §7.
func (c ErrCode) Severity() Severity {
	switch c {
	case ErrOperandDoesNotFitInByte, ErrTopLevelParenthesizedOperand:
		return Warning
	default:
		return Error
	}
}

func (c ErrCode) String() string {
	switch c {
	case ErrInternal:
		return "Internal"
	case ErrUnknownOpcode:
		return "UnknownOpcode"
	case ErrUndefinedSymbolsInOperand:
		return "UndefinedSymbolsInOperand"
	case ErrOrgUndefined:
		return "OrgUndefined"
	case ErrOrgChanged:
		return "OrgChanged"
	case ErrSpaceUndefined:
		return "SpaceUndefined"
	case ErrRepCountUndefined:
		return "RepCountUndefined"
	case ErrRepCountNonPositive:
		return "RepCountNonPositive"
	case ErrSymbolRedefinition:
		return "SymbolRedefinition"
	case ErrDivideByZero:
		return "DivideByZero"
	case ErrNoSuchAddressingMode:
		return "NoSuchAddressingMode"
	case ErrRelativeBranchOutOfRange:
		return "RelativeBranchOutOfRange"
	case ErrAddressNotZeroPage:
		return "AddressNotZeroPage"
	case ErrAddressOverflow:
		return "AddressOverflow"
	case ErrOperandDoesNotFitInByte:
		return "OperandDoesNotFitInByte"
	case ErrTopLevelParenthesizedOperand:
		return "TopLevelParenthesizedOperand"
	default:
		return "Unknown"
	}
}

// AssemblerError is the error type produced by every fallible operation
// inside a pass. The per-statement loop in Pass 1 and Pass 2 catches these
// and converts them into Diagnostics entries; it never panics on them.
type AssemblerError struct {
	Code    ErrCode
	Message string
}

func (e *AssemblerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NoAbsoluteIndexedMode is a distinguished AssemblerError used by Pass 2's
// AddressX/AddressY selection (§4.5): the opcode has neither an
// absolute-indexed nor a usable zero-page-indexed encoding for the operand.
func NoAbsoluteIndexedMode(mnemonic string) error {
	return &AssemblerError{
		Code:    ErrNoSuchAddressingMode,
		Message: fmt.Sprintf("%s has no absolute or zero-page indexed encoding for this operand", mnemonic),
	}
}
