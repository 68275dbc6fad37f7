package main

import (
	"log"

	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// logEventVisitor is the diagnostic stand-in SPEC_FULL.md's CLI driver
// calls for: a real implementation would feed these events to a scope
// analyzer and rule engine, which is explicitly out of scope here, so
// this just counts and (optionally) logs them.
type logEventVisitor struct {
	enabled      bool
	declarations int
	uses         int
	depth        int
}

func (v *logEventVisitor) logf(format string, args ...any) {
	if !v.enabled {
		return
	}
	log.Printf(indent(v.depth)+format, args...)
}

func indent(depth int) string {
	s := ""
	for i := 0; i < depth; i++ {
		s += "  "
	}
	return s
}

func (v *logEventVisitor) VisitVariableDeclaration(name string, span source.Span, kind visitor.VariableKind, init visitor.InitKind) {
	v.declarations++
	v.logf("declare %s (kind=%d init=%d) @ %d", name, kind, init, span.Begin)
}

func (v *logEventVisitor) VisitVariableUse(name string, span source.Span) {
	v.uses++
	v.logf("use %s @ %d", name, span.Begin)
}

func (v *logEventVisitor) VisitVariableExportUse(name string, span source.Span) {
	v.uses++
	v.logf("export-use %s @ %d", name, span.Begin)
}

func (v *logEventVisitor) VisitVariableTypeUse(name string, span source.Span) {
	v.uses++
	v.logf("type-use %s @ %d", name, span.Begin)
}

func (v *logEventVisitor) VisitVariableAssignment(name string, span source.Span) {
	v.logf("assign %s @ %d", name, span.Begin)
}

func (v *logEventVisitor) VisitEnterScope(kind visitor.ScopeKind) {
	v.logf("enter scope kind=%d", kind)
	v.depth++
}

func (v *logEventVisitor) VisitExitScope(kind visitor.ScopeKind) {
	v.depth--
	v.logf("exit scope kind=%d", kind)
}

func (v *logEventVisitor) VisitEnterFunctionScopeBody() {
	v.logf("enter function body")
}

func (v *logEventVisitor) VisitEndOfModule() {
	v.logf("end of module")
}
