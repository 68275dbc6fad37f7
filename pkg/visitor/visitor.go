// Package visitor defines the structured parse-event interface the
// parser core drives (spec §3, §6.3). The teacher repo has no
// equivalent — paserati walks its own AST directly rather than
// streaming events to an external consumer — so this package is
// grounded instead on original_source's parse-visitor.h /
// null-visitor.h / buffering-visitor.h semantics, expressed the way
// the teacher expresses other small single-purpose interfaces (one
// Go interface, no subclass hierarchy, per SPEC_FULL.md's design
// notes).
package visitor

import "github.com/adrperez5/lintparse/pkg/source"

// VariableKind is the closed enumeration of declaration flavors from
// spec §3.
type VariableKind int

const (
	KindVar VariableKind = iota
	KindLet
	KindConst
	KindFunction
	KindClass
	KindParameter
	KindCatch
	KindImport
	KindImportType
	KindEnum
	KindGenericParameter
	KindTypeAlias
	KindInterface
	KindNamespace
)

// InitKind distinguishes an uninitialized binding from one written
// with `= expr`.
type InitKind int

const (
	Normal InitKind = iota
	InitializedWithEquals
)

// ScopeKind tags which visit_enter_*_scope/visit_exit_*_scope pair a
// call belongs to.
type ScopeKind int

const (
	ScopeBlock ScopeKind = iota
	ScopeFunction
	ScopeFor
	ScopeClass
	ScopeEnum
	ScopeTypeAlias
	ScopeWith
	ScopeInterface
	ScopeNamedFunction
	ScopeIndexSignature
)

// Visitor is the event interface the parser drives while walking
// statements and (via the expression sub-parser) expressions. Every
// visit_enter_*_scope call must be matched by exactly one
// visit_exit_*_scope call at the same nesting depth (spec §3
// invariants).
type Visitor interface {
	VisitVariableDeclaration(name string, span source.Span, kind VariableKind, init InitKind)
	VisitVariableUse(name string, span source.Span)
	VisitVariableExportUse(name string, span source.Span)
	VisitVariableTypeUse(name string, span source.Span)
	VisitVariableAssignment(name string, span source.Span)

	VisitEnterScope(kind ScopeKind)
	VisitExitScope(kind ScopeKind)
	VisitEnterFunctionScopeBody()

	VisitEndOfModule()
}

// NullVisitor discards every event. It satisfies Visitor, for callers
// that need to walk a construct without caring about its events.
type NullVisitor struct{}

func (NullVisitor) VisitVariableDeclaration(string, source.Span, VariableKind, InitKind) {}
func (NullVisitor) VisitVariableUse(string, source.Span)                                 {}
func (NullVisitor) VisitVariableExportUse(string, source.Span)                           {}
func (NullVisitor) VisitVariableTypeUse(string, source.Span)                             {}
func (NullVisitor) VisitVariableAssignment(string, source.Span)                          {}
func (NullVisitor) VisitEnterScope(ScopeKind)                                            {}
func (NullVisitor) VisitExitScope(ScopeKind)                                             {}
func (NullVisitor) VisitEnterFunctionScopeBody()                                         {}
func (NullVisitor) VisitEndOfModule()                                                    {}

// event is a recorded (tag, payload) tuple, per SPEC_FULL.md's design
// notes: a buffering visitor records tuples rather than subclassing.
type eventTag int

const (
	tagDeclaration eventTag = iota
	tagUse
	tagExportUse
	tagTypeUse
	tagAssignment
	tagEnterScope
	tagExitScope
	tagEnterFunctionScopeBody
	tagEndOfModule
)

type event struct {
	tag  eventTag
	name string
	span source.Span
	kind VariableKind
	init InitKind
	sk   ScopeKind
}

// Buffering is a visitor that records events for later replay. The
// parser's buffering-visitor stack (spec §5, §9) uses this to record a
// function expression's body for replay once the enclosing expression
// walk reaches it, and the export parser uses one to hold a named
// export list's export-uses until it knows whether a `from` clause
// follows.
type Buffering struct {
	events []event
}

func NewBuffering() *Buffering { return &Buffering{} }

func (b *Buffering) VisitVariableDeclaration(name string, span source.Span, kind VariableKind, init InitKind) {
	b.events = append(b.events, event{tag: tagDeclaration, name: name, span: span, kind: kind, init: init})
}
func (b *Buffering) VisitVariableUse(name string, span source.Span) {
	b.events = append(b.events, event{tag: tagUse, name: name, span: span})
}
func (b *Buffering) VisitVariableExportUse(name string, span source.Span) {
	b.events = append(b.events, event{tag: tagExportUse, name: name, span: span})
}
func (b *Buffering) VisitVariableTypeUse(name string, span source.Span) {
	b.events = append(b.events, event{tag: tagTypeUse, name: name, span: span})
}
func (b *Buffering) VisitVariableAssignment(name string, span source.Span) {
	b.events = append(b.events, event{tag: tagAssignment, name: name, span: span})
}
func (b *Buffering) VisitEnterScope(kind ScopeKind) {
	b.events = append(b.events, event{tag: tagEnterScope, sk: kind})
}
func (b *Buffering) VisitExitScope(kind ScopeKind) {
	b.events = append(b.events, event{tag: tagExitScope, sk: kind})
}
func (b *Buffering) VisitEnterFunctionScopeBody() {
	b.events = append(b.events, event{tag: tagEnterFunctionScopeBody})
}
func (b *Buffering) VisitEndOfModule() {
	b.events = append(b.events, event{tag: tagEndOfModule})
}

// Empty reports whether no events have been recorded.
func (b *Buffering) Empty() bool { return len(b.events) == 0 }

// MoveInto replays every recorded event into v, in order, exactly
// once, then clears the buffer. The buffering-visitor stack invariant
// (spec §3) requires every entry to be moved exactly once before the
// stack becomes empty at end_of_module.
func (b *Buffering) MoveInto(v Visitor) {
	for _, e := range b.events {
		switch e.tag {
		case tagDeclaration:
			v.VisitVariableDeclaration(e.name, e.span, e.kind, e.init)
		case tagUse:
			v.VisitVariableUse(e.name, e.span)
		case tagExportUse:
			v.VisitVariableExportUse(e.name, e.span)
		case tagTypeUse:
			v.VisitVariableTypeUse(e.name, e.span)
		case tagAssignment:
			v.VisitVariableAssignment(e.name, e.span)
		case tagEnterScope:
			v.VisitEnterScope(e.sk)
		case tagExitScope:
			v.VisitExitScope(e.sk)
		case tagEnterFunctionScopeBody:
			v.VisitEnterFunctionScopeBody()
		case tagEndOfModule:
			v.VisitEndOfModule()
		}
	}
	b.events = nil
}
