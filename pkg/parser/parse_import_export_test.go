package parser

import (
	"testing"

	"github.com/adrperez5/lintparse/pkg/diag"
)

func TestImportDefaultAndNamedBindings(t *testing.T) {
	v, reporter := parseModule(t, `import Default, { a, b as c } from "mod";`, Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	for _, want := range []string{"decl:Default", "decl:a", "decl:c"} {
		if !contains(v.events, want) {
			t.Errorf("expected event %q, got %v", want, v.events)
		}
	}
}

func TestImportNamespaceBinding(t *testing.T) {
	v, reporter := parseModule(t, `import * as ns from "mod";`, Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:ns") {
		t.Errorf("expected decl:ns, got %v", v.events)
	}
}

func TestCannotImportLet(t *testing.T) {
	_, reporter := parseModule(t, `import { let } from "mod";`, Options{})
	if !hasCode(reporter, diag.CannotImportLet) {
		t.Errorf("expected cannot_import_let, got %v", reporter.Diagnostics)
	}
}

func TestDynamicImportIsAnExpressionNotADeclaration(t *testing.T) {
	v, reporter := parseModule(t, `const mod = import("mod");`, Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:mod") {
		t.Errorf("expected decl:mod, got %v", v.events)
	}
}

func TestExportBareIdentifierRequiresCurlies(t *testing.T) {
	_, reporter := parseModule(t, "let x = 1; export x;", Options{})
	if !hasCode(reporter, diag.ExportingRequiresCurlies) {
		t.Errorf("expected exporting_requires_curlies, got %v", reporter.Diagnostics)
	}
}

func TestExportBareLiteralRequiresDefault(t *testing.T) {
	_, reporter := parseModule(t, "export 1;", Options{})
	if !hasCode(reporter, diag.ExportingRequiresDefault) {
		t.Errorf("expected exporting_requires_default, got %v", reporter.Diagnostics)
	}
}

func TestExportDefaultVariableIsRejected(t *testing.T) {
	_, reporter := parseModule(t, "export default let x = 1;", Options{})
	if !hasCode(reporter, diag.CannotExportDefaultVariable) {
		t.Errorf("expected cannot_export_default_variable, got %v", reporter.Diagnostics)
	}
}

func TestExportNamedListLocalFlushesExportUse(t *testing.T) {
	v, reporter := parseModule(t, "let a = 1; export { a };", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "export-use:a") {
		t.Errorf("expected export-use:a, got %v", v.events)
	}
}

func TestExportNamedListReExportDiscardsExportUse(t *testing.T) {
	v, reporter := parseModule(t, `export { a, b } from "other";`, Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if contains(v.events, "export-use:a") || contains(v.events, "export-use:b") {
		t.Errorf("did not expect export-use events for a re-export, got %v", v.events)
	}
}

func TestExportStarFrom(t *testing.T) {
	_, reporter := parseModule(t, `export * from "other";`, Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
}
