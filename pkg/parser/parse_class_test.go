package parser

import "testing"

func TestClassDeclarationEvents(t *testing.T) {
	v, reporter := parseModule(t, "class Dog extends Animal { bark() { return this; } }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:Dog") {
		t.Errorf("expected decl:Dog, got %v", v.events)
	}
	if !contains(v.events, "use:Animal") {
		t.Errorf("expected use:Animal (heritage clause), got %v", v.events)
	}
}

func TestClassFieldWithInitializer(t *testing.T) {
	v, reporter := parseModule(t, "class Point { x = origin; }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "use:origin") {
		t.Errorf("expected use:origin from the field initializer, got %v", v.events)
	}
}

func TestStaticModifierIsNotTreatedAsMemberName(t *testing.T) {
	v, reporter := parseModule(t, "class C { static go() {} }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	if !contains(v.events, "decl:C") {
		t.Errorf("expected decl:C, got %v", v.events)
	}
}

func TestStaticUsedAsMemberNameItself(t *testing.T) {
	_, reporter := parseModule(t, "class C { static() {} }", Options{})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics parsing 'static' as a method name: %v", reporter.Diagnostics)
	}
}

func TestTypedClassMethodParameterDoesNotSwallowBody(t *testing.T) {
	v, reporter := parseModule(t, "class Point { move(dx: number, dy: number) { use(dx); use(dy); } }", Options{TypeScript: true})
	if len(reporter.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.Diagnostics)
	}
	for _, want := range []string{"decl:dx", "decl:dy", "use:dx", "use:dy"} {
		if !contains(v.events, want) {
			t.Errorf("expected event %q, got %v", want, v.events)
		}
	}
}
