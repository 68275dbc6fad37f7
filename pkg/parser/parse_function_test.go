package parser

import (
	"testing"

	"github.com/adrperez5/lintparse/pkg/diag"
)

func TestFunctionDeclarationEvents(t *testing.T) {
	v, reporter := parseModule(t, "function add(a, b) { return a + b; }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	for _, want := range []string{"decl:add", "decl:a", "decl:b", "use:a", "use:b", "enter-function-body"} {
		if !contains(v.events, want) {
			t.Errorf("expected event %q, got %v", want, v.events)
		}
	}
}

func TestAnonymousFunctionStatementIsReported(t *testing.T) {
	_, reporter := parseModule(t, "function (x) { return x; }", Options{})
	if !hasCode(reporter, diag.MissingNameInFunctionStatement) {
		t.Errorf("expected missing_name_in_function_statement, got %v", reporter.Diagnostics)
	}
}

func TestMisplacedGeneratorStarIsReported(t *testing.T) {
	_, reporter := parseModule(t, "function gen*() {}", Options{})
	if !hasCode(reporter, diag.GeneratorFunctionStarBelongsBeforeName) {
		t.Errorf("expected generator_function_star_belongs_before_name, got %v", reporter.Diagnostics)
	}
}

func TestCommaAfterSpreadParameterIsReported(t *testing.T) {
	_, reporter := parseModule(t, "function f(...rest, extra) {}", Options{})
	if !hasCode(reporter, diag.CommaNotAllowedAfterSpreadParameter) {
		t.Errorf("expected comma_not_allowed_after_spread_parameter, got %v", reporter.Diagnostics)
	}
}

func TestGenericParameterDeclaredInTypeScriptMode(t *testing.T) {
	v, reporter := parseModule(t, "function identity<T>(x) { return x; }", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:T") {
		t.Errorf("expected decl:T, got %v", v.events)
	}
}

func TestTypedParameterDoesNotSwallowFunctionBody(t *testing.T) {
	v, reporter := parseModule(t, "function add(a: number, b: number) { return a + b; }", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	for _, want := range []string{"decl:add", "decl:a", "decl:b", "use:a", "use:b", "enter-function-body"} {
		if !contains(v.events, want) {
			t.Errorf("expected event %q, got %v", want, v.events)
		}
	}
}

func TestTypedParameterWithDefaultValue(t *testing.T) {
	v, reporter := parseModule(t, "function greet(name: string = \"world\") { use(name); }", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:name") {
		t.Errorf("expected decl:name, got %v", v.events)
	}
}

func TestTypedDestructuredParameter(t *testing.T) {
	v, reporter := parseModule(t, "function f({ a, b }: Point) { use(a); use(b); }", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	for _, want := range []string{"decl:a", "decl:b"} {
		if !contains(v.events, want) {
			t.Errorf("expected event %q, got %v", want, v.events)
		}
	}
}
