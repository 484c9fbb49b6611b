// Package faults defines the tagged runtime failure values produced by the
// validator, optimizer, and evaluator. A Fault unwinds exactly like a return
// signal, but all the way to the program boundary.
package faults

import (
	"fmt"
	"strings"
)

// Tag identifies the class of fault, per the taxonomy of the error model.
type Tag string

const (
	Structural       Tag = "Structural"
	UndefinedName    Tag = "UndefinedName"
	TypeMismatch     Tag = "TypeMismatch"
	Arity            Tag = "Arity"
	IndexOutOfRange  Tag = "IndexOutOfRange"
	MissingField     Tag = "MissingField"
	DivisionByZero   Tag = "DivisionByZero"
	ImportNotFound   Tag = "ImportNotFound"
	ImportCycle      Tag = "ImportCycle"
	FFIType          Tag = "FFIType"
	FFIField         Tag = "FFIField"
	NativeError      Tag = "NativeError"
	IOError          Tag = "IOError"
)

// Fault is a tagged runtime failure carrying a breadcrumb path from the
// document root to the offending node. It implements error so it can be
// wrapped and compared with errors.As/errors.Is from calling code.
type Fault struct {
	Tag     Tag
	Message string
	Path    []string
	Cause   error
}

// New creates a Fault with no path; callers typically attach one via
// WithPath as the fault unwinds through the evaluator's call stack.
func New(tag Tag, format string, args ...any) *Fault {
	return &Fault{Tag: tag, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error (e.g. host I/O failure) with a Fault tag.
func Wrap(tag Tag, cause error, format string, args ...any) *Fault {
	return &Fault{Tag: tag, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithPath returns a copy of f with the given breadcrumb segment prepended,
// building the root-to-node path as the fault unwinds.
func (f *Fault) WithPath(segment string) *Fault {
	path := make([]string, 0, len(f.Path)+1)
	path = append(path, segment)
	path = append(path, f.Path...)
	return &Fault{Tag: f.Tag, Message: f.Message, Path: path, Cause: f.Cause}
}

// Error implements the error interface with "tag: message".
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Tag, f.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (f *Fault) Unwrap() error {
	return f.Cause
}

// Format renders the tag, message, and node path the way the top-level
// handler reports an unhandled fault.
func (f *Fault) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", f.Tag, f.Message)
	if len(f.Path) > 0 {
		sb.WriteString("  at ")
		sb.WriteString(strings.Join(f.Path, " -> "))
	}
	return sb.String()
}

// ExitCode maps a fault's tag to the process exit code described by the
// command surface: validation faults exit 1, IOError exits 3, and every
// other runtime fault exits 2.
// Structural, ImportCycle, and ImportNotFound are all faults the Validator
// raises before evaluation ever starts, so all three share exit code 1.
func (f *Fault) ExitCode() int {
	if f.Tag == Structural || f.Tag == ImportCycle || f.Tag == ImportNotFound {
		return 1
	}
	if f.Tag == IOError {
		return 3
	}
	return 2
}
