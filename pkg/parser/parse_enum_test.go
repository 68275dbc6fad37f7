package parser

import (
	"testing"

	"github.com/adrperez5/lintparse/pkg/diag"
)

func TestEnumRejectedOutsideTypeScript(t *testing.T) {
	_, reporter := parseModule(t, "enum Color { Red, Green, Blue }", Options{})
	if !hasCode(reporter, diag.TypeScriptEnumNotAllowedInJavaScript) {
		t.Errorf("expected typescript_enum_not_allowed_in_javascript, got %v", reporter.Diagnostics)
	}
}

func TestEnumDeclaresItsName(t *testing.T) {
	v, _ := parseModule(t, "enum Color { Red, Green, Blue }", Options{TypeScript: true})
	if !contains(v.events, "decl:Color") {
		t.Errorf("expected decl:Color, got %v", v.events)
	}
}

func TestConstEnumRejectsNonConstantValue(t *testing.T) {
	_, reporter := parseModule(t, "const enum E { A = compute() }", Options{TypeScript: true})
	if !hasCode(reporter, diag.TypeScriptEnumValueMustBeConstant) {
		t.Errorf("expected typescript_enum_value_must_be_constant, got %v", reporter.Diagnostics)
	}
}

func TestConstEnumAllowsArithmeticOfLiterals(t *testing.T) {
	_, reporter := parseModule(t, "const enum E { A = 1 + 2 }", Options{TypeScript: true})
	if hasCode(reporter, diag.TypeScriptEnumValueMustBeConstant) {
		t.Errorf("did not expect typescript_enum_value_must_be_constant for a literal expression: %v", reporter.Diagnostics)
	}
}

func TestPlainEnumAutoMemberAfterComputedValueNeedsInitializer(t *testing.T) {
	_, reporter := parseModule(t, "enum E { A = compute(), B }", Options{TypeScript: true})
	if !hasCode(reporter, diag.TypeScriptEnumAutoMemberNeedsInitializerAfterComputed) {
		t.Errorf("expected typescript_enum_auto_member_needs_initializer_after_computed, got %v", reporter.Diagnostics)
	}
}

func TestInterfaceDeclaresItsNameAndParsesMembers(t *testing.T) {
	v, reporter := parseModule(t, "interface Shape { area(): number; }", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:Shape") {
		t.Errorf("expected decl:Shape, got %v", v.events)
	}
}

func TestInterfaceMethodBodyIsRejected(t *testing.T) {
	_, reporter := parseModule(t, "interface Shape { area(): number { return 0; } }", Options{TypeScript: true})
	if !hasCode(reporter, diag.InterfaceMethodsCannotContainBodies) {
		t.Errorf("expected interface_methods_cannot_contain_bodies, got %v", reporter.Diagnostics)
	}
}

func TestInterfaceMethodWithTypedParameterIsNotSwallowed(t *testing.T) {
	v, reporter := parseModule(t, "interface Shape { scale(factor: number): void; area(): number; }", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:Shape") {
		t.Errorf("expected decl:Shape, got %v", v.events)
	}
	if !contains(v.events, "decl:factor") {
		t.Errorf("expected decl:factor for the typed parameter, got %v", v.events)
	}
}

func TestTypeAliasDeclaresItsName(t *testing.T) {
	v, reporter := parseModule(t, "type Pair = [number, number];", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:Pair") {
		t.Errorf("expected decl:Pair, got %v", v.events)
	}
}

func TestNamespaceDeclaresItsNameAndBody(t *testing.T) {
	v, reporter := parseModule(t, "namespace Outer { use(x); }", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:Outer") {
		t.Errorf("expected decl:Outer, got %v", v.events)
	}
	if !contains(v.events, "use:x") {
		t.Errorf("expected use:x from the namespace body, got %v", v.events)
	}
}
