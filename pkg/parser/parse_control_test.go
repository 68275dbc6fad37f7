package parser

import (
	"testing"

	"github.com/adrperez5/lintparse/pkg/diag"
)

func TestIfStatementVisitsConditionAndBranches(t *testing.T) {
	v, reporter := parseModule(t, "if (a) { b; } else { c; }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	for _, want := range []string{"use:a", "use:b", "use:c"} {
		if !contains(v.events, want) {
			t.Errorf("expected event %q, got %v", want, v.events)
		}
	}
}

func TestElseWithoutIfTypoIsReported(t *testing.T) {
	_, reporter := parseModule(t, "if (a) {} else (b) {}", Options{})
	if !hasCode(reporter, diag.MissingIfAfterElse) {
		t.Errorf("expected missing_if_after_else, got %v", reporter.Diagnostics)
	}
}

func TestBreakOutsideLoopIsReported(t *testing.T) {
	_, reporter := parseModule(t, "break;", Options{})
	if !hasCode(reporter, diag.InvalidBreak) {
		t.Errorf("expected invalid_break, got %v", reporter.Diagnostics)
	}
}

func TestBreakInsideWhileIsFine(t *testing.T) {
	_, reporter := parseModule(t, "while (true) { break; }", Options{})
	if hasCode(reporter, diag.InvalidBreak) {
		t.Errorf("did not expect invalid_break inside a loop: %v", reporter.Diagnostics)
	}
}

func TestForOfDeclaresLoopVariable(t *testing.T) {
	v, reporter := parseModule(t, "for (const item of items) { use(item); }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:item") {
		t.Errorf("expected decl:item, got %v", v.events)
	}
	if !contains(v.events, "use:items") {
		t.Errorf("expected use:items, got %v", v.events)
	}
}

func TestForOfCannotAssignToLoopVariable(t *testing.T) {
	_, reporter := parseModule(t, "for (x = 1 of xs) {}", Options{})
	if !hasCode(reporter, diag.CannotAssignToLoopVariableInForOfOrInLoop) {
		t.Errorf("expected cannot_assign_to_loop_variable_in_for_of_or_in_loop, got %v", reporter.Diagnostics)
	}
}

func TestCStyleForLoopVisitsAllThreeClauses(t *testing.T) {
	v, reporter := parseModule(t, "for (let i = 0; i < n; i++) { body(i); }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	for _, want := range []string{"decl:i", "use:n", "assign:i", "use:body"} {
		if !contains(v.events, want) {
			t.Errorf("expected event %q, got %v", want, v.events)
		}
	}
}

func TestCStyleForLoopWithLetOpensAndClosesForScope(t *testing.T) {
	v, reporter := parseModule(t, "for (let i = 0; i < n; i++) { body(i); }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	enter := indexOf(v.events, "enter-scope:for")
	decl := indexOf(v.events, "decl:i")
	exit := indexOf(v.events, "exit-scope:for")
	if enter == -1 || decl == -1 || exit == -1 {
		t.Fatalf("expected enter-scope:for, decl:i and exit-scope:for, got %v", v.events)
	}
	if !(enter < decl && decl < exit) {
		t.Errorf("expected enter-scope:for before decl:i before exit-scope:for, got %v", v.events)
	}
}

func TestCStyleForLoopWithVarDoesNotOpenForScope(t *testing.T) {
	v, reporter := parseModule(t, "for (var i = 0; i < n; i++) { body(i); }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if countOf(v.events, "enter-scope:for") != 0 {
		t.Errorf("did not expect a for-scope for a var-declared C-style loop, got %v", v.events)
	}
}

func TestForOfWithVarDoesNotOpenForScope(t *testing.T) {
	v, reporter := parseModule(t, "for (var x of xs) { use(x); }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if countOf(v.events, "enter-scope:for") != 0 {
		t.Errorf("did not expect a for-scope for a var-declared for-of loop, got %v", v.events)
	}
}

func TestForOfWithBareExpressionDoesNotOpenForScope(t *testing.T) {
	v, reporter := parseModule(t, "for (x of xs) { use(x); }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if countOf(v.events, "enter-scope:for") != 0 {
		t.Errorf("did not expect a for-scope for a bare-expression for-of loop, got %v", v.events)
	}
}

func TestForOfWithLetOpensForScope(t *testing.T) {
	v, reporter := parseModule(t, "for (let x of xs) { use(x); }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if countOf(v.events, "enter-scope:for") != 1 || countOf(v.events, "exit-scope:for") != 1 {
		t.Errorf("expected exactly one for-scope pair, got %v", v.events)
	}
}

func TestAsyncOfWithoutArrowIsInvalidForOfVariable(t *testing.T) {
	_, reporter := parseModule(t, "for (async of things) {}", Options{})
	if !hasCode(reporter, diag.CannotAssignToVariableNamedAsyncInForOfLoop) {
		t.Errorf("expected cannot_assign_to_variable_named_async_in_for_of_loop, got %v", reporter.Diagnostics)
	}
}

func TestAsyncOfArrowInForLoopHeadIsNotTheInvalidSequence(t *testing.T) {
	_, reporter := parseModule(t, "for (async of => 1; i < n; i++) {}", Options{})
	if hasCode(reporter, diag.CannotAssignToVariableNamedAsyncInForOfLoop) {
		t.Errorf("did not expect cannot_assign_to_variable_named_async_in_for_of_loop when '=>' follows, got %v", reporter.Diagnostics)
	}
}

func TestLexicalDeclarationInForBodyIsRejected(t *testing.T) {
	_, reporter := parseModule(t, "for (;;) let x = 1;", Options{})
	if !hasCode(reporter, diag.LexicalDeclarationNotAllowedInBodyOfForLoop) {
		t.Errorf("expected lexical_declaration_not_allowed_in_body_of_for_loop, got %v", reporter.Diagnostics)
	}
}

func TestTryWithoutCatchOrFinallyIsReported(t *testing.T) {
	_, reporter := parseModule(t, "try { a; }", Options{})
	if !hasCode(reporter, diag.MissingCatchOrFinallyForTryStatement) {
		t.Errorf("expected missing_catch_or_finally_for_try_statement, got %v", reporter.Diagnostics)
	}
}

func TestTryCatchDeclaresBinding(t *testing.T) {
	v, reporter := parseModule(t, "try { risky(); } catch (e) { handle(e); }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:e") {
		t.Errorf("expected decl:e, got %v", v.events)
	}
	if !contains(v.events, "use:e") {
		t.Errorf("expected use:e, got %v", v.events)
	}
}

func TestSwitchStatementBeforeFirstCaseIsReported(t *testing.T) {
	_, reporter := parseModule(t, "switch (x) { doThing(); case 1: break; }", Options{})
	if !hasCode(reporter, diag.StatementBeforeFirstSwitchCase) {
		t.Errorf("expected statement_before_first_switch_case, got %v", reporter.Diagnostics)
	}
}
