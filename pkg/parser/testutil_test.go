package parser

import (
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/lexer"
	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// recordingVisitor flattens every event into a slice of short tags for
// easy comparison in table-driven tests, the way the teacher's own
// tests compare flattened token slices rather than deep struct diffs.
type recordingVisitor struct {
	events []string
}

func (r *recordingVisitor) VisitVariableDeclaration(name string, span source.Span, kind visitor.VariableKind, init visitor.InitKind) {
	r.events = append(r.events, "decl:"+name)
}
func (r *recordingVisitor) VisitVariableUse(name string, span source.Span) {
	r.events = append(r.events, "use:"+name)
}
func (r *recordingVisitor) VisitVariableExportUse(name string, span source.Span) {
	r.events = append(r.events, "export-use:"+name)
}
func (r *recordingVisitor) VisitVariableTypeUse(name string, span source.Span) {
	r.events = append(r.events, "type-use:"+name)
}
func (r *recordingVisitor) VisitVariableAssignment(name string, span source.Span) {
	r.events = append(r.events, "assign:"+name)
}
func (r *recordingVisitor) VisitEnterScope(kind visitor.ScopeKind) {
	r.events = append(r.events, "enter-scope:"+scopeKindTag(kind))
}
func (r *recordingVisitor) VisitExitScope(kind visitor.ScopeKind) {
	r.events = append(r.events, "exit-scope:"+scopeKindTag(kind))
}

func scopeKindTag(kind visitor.ScopeKind) string {
	switch kind {
	case visitor.ScopeBlock:
		return "block"
	case visitor.ScopeFunction:
		return "function"
	case visitor.ScopeFor:
		return "for"
	case visitor.ScopeClass:
		return "class"
	case visitor.ScopeEnum:
		return "enum"
	case visitor.ScopeTypeAlias:
		return "type-alias"
	case visitor.ScopeWith:
		return "with"
	case visitor.ScopeInterface:
		return "interface"
	case visitor.ScopeNamedFunction:
		return "named-function"
	case visitor.ScopeIndexSignature:
		return "index-signature"
	default:
		return "unknown"
	}
}
func (r *recordingVisitor) VisitEnterFunctionScopeBody() {
	r.events = append(r.events, "enter-function-body")
}
func (r *recordingVisitor) VisitEndOfModule() {
	r.events = append(r.events, "end-of-module")
}

func parseModule(t interface{ Fatalf(string, ...any) }, src string, opts Options) (*recordingVisitor, *diag.CollectingReporter) {
	sf := source.NewSourceFile("<test>", "", src)
	reporter := &diag.CollectingReporter{}
	l := lexer.New(sf, reporter)
	p := New(l, reporter, sf, opts)
	v := &recordingVisitor{}
	p.ParseModule(v)
	return v, reporter
}

func contains(events []string, want string) bool {
	for _, e := range events {
		if e == want {
			return true
		}
	}
	return false
}

func indexOf(events []string, want string) int {
	for i, e := range events {
		if e == want {
			return i
		}
	}
	return -1
}

func countOf(events []string, want string) int {
	n := 0
	for _, e := range events {
		if e == want {
			n++
		}
	}
	return n
}

func hasCode(reporter *diag.CollectingReporter, code diag.Code) bool {
	for _, d := range reporter.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}
