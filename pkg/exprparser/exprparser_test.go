package exprparser

import (
	"testing"

	"github.com/adrperez5/lintparse/pkg/ast"
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/lexer"
	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/token"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// recordingVisitor mirrors the parser package's test helper: flatten
// events to short tags instead of asserting on deep struct equality.
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
	r.events = append(r.events, "enter-scope")
}
func (r *recordingVisitor) VisitExitScope(kind visitor.ScopeKind) {
	r.events = append(r.events, "exit-scope")
}
func (r *recordingVisitor) VisitEnterFunctionScopeBody() {
	r.events = append(r.events, "enter-function-body")
}
func (r *recordingVisitor) VisitEndOfModule() {
	r.events = append(r.events, "end-of-module")
}

func contains(events []string, want string) bool {
	for _, e := range events {
		if e == want {
			return true
		}
	}
	return false
}

func parseOneExpr(src string, ctx Context) (*ast.Expression, *diag.CollectingReporter) {
	sf := source.NewSourceFile("<test>", "", src)
	reporter := &diag.CollectingReporter{}
	l := lexer.New(sf, reporter)
	arena := ast.NewASTArena()
	p := New(l, arena, reporter, sf, true)
	return p.Parse(ctx), reporter
}

func TestBinaryOperatorPrecedenceBuildsMultiplyInsideAdd(t *testing.T) {
	e, reporter := parseOneExpr("a + b * c", Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.BinaryOperator {
		t.Fatalf("expected top-level BinaryOperator, got %v", e.Kind)
	}
	rhs := e.Children[1]
	if rhs.Kind != ast.BinaryOperator {
		t.Errorf("expected the multiplication to nest under the addition, got %v", rhs.Kind)
	}
}

func TestConditionalExpression(t *testing.T) {
	e, reporter := parseOneExpr("cond ? a : b", Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.Conditional || len(e.Children) != 3 {
		t.Fatalf("expected a 3-child Conditional, got %v with %d children", e.Kind, len(e.Children))
	}
}

func TestVisitExpressionReportsUseForBareIdentifier(t *testing.T) {
	e, _ := parseOneExpr("total", Context{AllowIn: true})
	v := &recordingVisitor{}
	VisitExpression(e, v)
	if !contains(v.events, "use:total") {
		t.Errorf("expected use:total, got %v", v.events)
	}
}

func TestVisitExpressionAssignmentReportsAssignThenUse(t *testing.T) {
	e, _ := parseOneExpr("x = y", Context{AllowIn: true})
	v := &recordingVisitor{}
	VisitExpression(e, v)
	if !contains(v.events, "assign:x") {
		t.Errorf("expected assign:x, got %v", v.events)
	}
	if !contains(v.events, "use:y") {
		t.Errorf("expected use:y, got %v", v.events)
	}
}

func TestVisitExpressionCompoundAssignmentUsesLhsAndAssigns(t *testing.T) {
	e, _ := parseOneExpr("x += 1", Context{AllowIn: true})
	v := &recordingVisitor{}
	VisitExpression(e, v)
	if !contains(v.events, "use:x") {
		t.Errorf("expected use:x (compound assignment reads its target first), got %v", v.events)
	}
	if !contains(v.events, "assign:x") {
		t.Errorf("expected assign:x, got %v", v.events)
	}
}

func TestArrayDestructuringAssignmentVisitsEachTarget(t *testing.T) {
	e, _ := parseOneExpr("[a, b] = pair", Context{AllowIn: true})
	v := &recordingVisitor{}
	VisitExpression(e, v)
	for _, want := range []string{"assign:a", "assign:b", "use:pair"} {
		if !contains(v.events, want) {
			t.Errorf("expected %q, got %v", want, v.events)
		}
	}
}

func TestBareInTerminatesExpressionWhenAllowInIsFalse(t *testing.T) {
	e, _ := parseOneExpr("x in y", Context{AllowIn: false})
	if e.Kind != ast.Variable || e.Name != "x" {
		t.Fatalf("expected the parse to stop at 'x', leaving 'in y' for the caller, got %v", e.Kind)
	}
}

func TestInIsARelationalOperatorWhenAllowInIsTrue(t *testing.T) {
	e, reporter := parseOneExpr("x in y", Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.BinaryOperator {
		t.Fatalf("expected 'in' to parse as a BinaryOperator, got %v", e.Kind)
	}
}

func TestConciseArrowFunctionBody(t *testing.T) {
	e, reporter := parseOneExpr("(x) => x + 1", Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.ArrowFunction {
		t.Fatalf("expected ArrowFunction, got %v", e.Kind)
	}
	if e.ConciseBody == nil {
		t.Fatalf("expected a concise body for a brace-less arrow function")
	}
}

func TestTypedArrowFunctionParameter(t *testing.T) {
	e, reporter := parseOneExpr("(x: number) => x + 1", Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.ArrowFunction {
		t.Fatalf("expected ArrowFunction, got %v", e.Kind)
	}
	v := &recordingVisitor{}
	VisitExpression(e, v)
	if !contains(v.events, "decl:x") {
		t.Errorf("expected decl:x for the typed parameter, got %v", v.events)
	}
}

func TestTypedArrowFunctionParameterWithDefault(t *testing.T) {
	e, reporter := parseOneExpr(`(name: string = "world") => name`, Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.ArrowFunction {
		t.Fatalf("expected ArrowFunction, got %v", e.Kind)
	}
	v := &recordingVisitor{}
	VisitExpression(e, v)
	if !contains(v.events, "decl:name") {
		t.Errorf("expected decl:name, got %v", v.events)
	}
}

func TestArrowFunctionParameterIsDeclaredNotUsed(t *testing.T) {
	e, _ := parseOneExpr("(x) => x + 1", Context{AllowIn: true})
	v := &recordingVisitor{}
	VisitExpression(e, v)
	if !contains(v.events, "decl:x") {
		t.Errorf("expected decl:x for the parameter, got %v", v.events)
	}
}

func TestDynamicImportCallExpression(t *testing.T) {
	e, reporter := parseOneExpr(`import("module-name")`, Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.Call {
		t.Fatalf("expected dynamic import to parse as a Call, got %v", e.Kind)
	}
}

func TestImportMetaIsADotExpression(t *testing.T) {
	e, reporter := parseOneExpr("import.meta", Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.Dot || e.Name != "meta" {
		t.Fatalf("expected import.meta to parse as Dot{Name: \"meta\"}, got %v/%q", e.Kind, e.Name)
	}
}

func TestOptionalChainingDot(t *testing.T) {
	e, reporter := parseOneExpr("a?.b", Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.Dot {
		t.Fatalf("expected optional chaining to parse as Dot, got %v", e.Kind)
	}
}

func TestAsyncAsPlainIdentifierLeavesFollowingIdentifierUnconsumed(t *testing.T) {
	sf := source.NewSourceFile("<test>", "", "async of")
	reporter := &diag.CollectingReporter{}
	l := lexer.New(sf, reporter)
	arena := ast.NewASTArena()
	p := New(l, arena, reporter, sf, true)
	e := p.Parse(Context{AllowIn: true})
	if e.Kind != ast.Variable || e.Name != "async" {
		t.Fatalf("expected 'async' to parse as a plain identifier, got %v/%q", e.Kind, e.Name)
	}
	if l.Peek().Type != token.KwOf {
		t.Fatalf("expected 'of' to remain unconsumed for the caller, got %v", l.Peek().Type)
	}
}

func TestAsyncIdentifierArrowStillWorksAfterLookaheadFix(t *testing.T) {
	e, reporter := parseOneExpr("async of => of + 1", Context{AllowIn: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if e.Kind != ast.ArrowFunction {
		t.Fatalf("expected ArrowFunction, got %v", e.Kind)
	}
}
