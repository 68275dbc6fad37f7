package parser

import (
	"testing"

	"github.com/adrperez5/lintparse/pkg/diag"
)

func TestVarDeclarationEvents(t *testing.T) {
	v, reporter := parseModule(t, "var x = 1;", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:x") {
		t.Errorf("expected a declaration event for x, got %v", v.events)
	}
}

func TestLetDestructuringDeclaresEachName(t *testing.T) {
	v, reporter := parseModule(t, "let { a, b: c, ...rest } = obj;", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	for _, want := range []string{"decl:a", "decl:c", "decl:rest", "use:obj"} {
		if !contains(v.events, want) {
			t.Errorf("expected event %q, got %v", want, v.events)
		}
	}
}

func TestConstWithoutInitializerReported(t *testing.T) {
	_, reporter := parseModule(t, "const x;", Options{})
	if !hasCode(reporter, diag.MissingInitializerInConstDeclaration) {
		t.Errorf("expected missing_initializer_in_const_declaration, got %v", reporter.Diagnostics)
	}
}

func TestCannotDeclareLetNamedLet(t *testing.T) {
	_, reporter := parseModule(t, "let let = 1;", Options{})
	if !hasCode(reporter, diag.CannotDeclareVariableNamedLetWithLet) {
		t.Errorf("expected cannot_declare_variable_named_let_with_let, got %v", reporter.Diagnostics)
	}
}
