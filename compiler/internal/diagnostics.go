package internal

import (
	"errors"
	"fmt"
	"sort"
)

// Position is a source location. Line and Column both start at 1.
type Position struct {
	Line   int
	Column int
}

func (pos Position) String() string {
	return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
}

// Before reports whether pos comes strictly before other in the source.
func (pos Position) Before(other Position) bool {
	if pos.Line != other.Line {
		return pos.Line < other.Line
	}
	return pos.Column < other.Column
}

// ErrorKind tags every diagnostic with the stage-level category it belongs to.
type ErrorKind string

const (
	// Parser
	KindSyntax ErrorKind = "SyntaxError"

	// Class hierarchy
	KindUnknownParent     ErrorKind = "UnknownParentError"
	KindCyclicInheritance ErrorKind = "CyclicInheritanceError"

	// Scopes
	KindDuplicateDeclare ErrorKind = "DuplicateDeclarationError"
	KindUndefinedName    ErrorKind = "UndefinedNameError"

	// Type checker
	KindTypeMismatch       ErrorKind = "TypeMismatchError"
	KindArgumentCount      ErrorKind = "ArgumentCountError"
	KindArgumentType       ErrorKind = "ArgumentTypeError"
	KindAmbiguousCall      ErrorKind = "AmbiguousCallError"
	KindNoMatchingOverload ErrorKind = "NoMatchingOverloadError"
	KindSuperCall          ErrorKind = "SuperCallError"
	KindBreakOutsideLoop   ErrorKind = "BreakOutsideLoopError"
	KindReturnOutsideFunc  ErrorKind = "ReturnOutsideFunctionError"

	// Dataflow
	KindUninitializedRead ErrorKind = "UninitializedReadError"
	KindMissingReturn     ErrorKind = "MissingReturnError"
)

// Diagnostic is a single user-facing error. It implements error so the parser can
// return its fatal syntax error through the usual error path.
type Diagnostic struct {
	Kind ErrorKind
	Msg  string
	Pos  Position
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s at %s: %s", d.Kind, d.Pos, d.Msg)
}

func newDiagnostic(kind ErrorKind, pos Position, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Diagnostics accumulates errors in report order and drops exact duplicates.
// The zero value is ready to use.
type Diagnostics struct {
	list []*Diagnostic
	seen map[Diagnostic]bool
}

func (diags *Diagnostics) add(kind ErrorKind, pos Position, format string, args ...interface{}) {
	diags.Add(newDiagnostic(kind, pos, format, args...))
}

// Add records d unless an identical diagnostic was already recorded.
func (diags *Diagnostics) Add(d *Diagnostic) {
	if diags.seen == nil {
		diags.seen = make(map[Diagnostic]bool)
	}
	if diags.seen[*d] {
		return
	}
	diags.seen[*d] = true
	diags.list = append(diags.list, d)
}

// List returns the diagnostics in the order they were reported.
func (diags *Diagnostics) List() []*Diagnostic {
	if diags == nil {
		return nil
	}
	return diags.list
}

func (diags *Diagnostics) Len() int {
	if diags == nil {
		return 0
	}
	return len(diags.list)
}

func (diags *Diagnostics) Empty() bool {
	return diags.Len() == 0
}

// Sorted returns the diagnostics ordered by position. Diagnostics at the same position keep
// their report order.
func (diags *Diagnostics) Sorted() []*Diagnostic {
	sorted := append([]*Diagnostic(nil), diags.List()...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos.Before(sorted[j].Pos)
	})
	return sorted
}

// Kinds returns the kind of every diagnostic, in report order.
func (diags *Diagnostics) Kinds() []ErrorKind {
	var kinds []ErrorKind
	for _, d := range diags.List() {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func (diags *Diagnostics) HasKind(kind ErrorKind) bool {
	for _, d := range diags.List() {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Err folds the list into a single error, or nil when nothing was reported.
func (diags *Diagnostics) Err() error {
	if diags.Empty() {
		return nil
	}
	errs := make([]error, 0, diags.Len())
	for _, d := range diags.list {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}
