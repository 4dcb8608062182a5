package jshell

import (
	"testing"

	"github.com/dhamidi/jnb/snippet"
)

func TestParseFeedbackStatus(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  snippet.Status
	}{
		{"no feedback", nil, snippet.Valid},
		{"created", []string{"|  created variable x : int"}, snippet.Valid},
		{"error", []string{"|  Error:", "|  ';' expected"}, snippet.Rejected},
		{"warning", []string{"|  Warning:", "|  unchecked call"}, snippet.Valid},
		{"not invokable", []string{"|  created method m(), however, it cannot be invoked until class B is declared"}, snippet.RecoverableDefined},
		{"not referenceable", []string{"|  created class A, however, it cannot be referenced until class B is declared"}, snippet.RecoverableNotDefined},
		{"exception", []string{"|  Exception java.lang.ArithmeticException: / by zero", "|        at (#1:1)"}, snippet.Valid},
		{"bare bar", []string{"|"}, snippet.Valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseFeedback("src;", tt.lines)
			if len(events) != 1 {
				t.Fatalf("len(events) = %d, want 1", len(events))
			}
			if events[0].Status != tt.want {
				t.Errorf("Status = %v, want %v", events[0].Status, tt.want)
			}
			if len(events[0].Diagnostics) != len(tt.lines) {
				t.Errorf("Diagnostics = %q, want %q", events[0].Diagnostics, tt.lines)
			}
		})
	}
}

func TestParseFeedbackUpdates(t *testing.T) {
	events := parseFeedback("class B {}", []string{
		"|  created class B",
		"|    update modified method m(), however, it cannot be invoked until variable q is declared",
		"|    update dropped variable old",
		"|    update replaced class A",
	})

	want := []struct {
		status snippet.Status
		source string
		update bool
	}{
		{snippet.Valid, "class B {}", false},
		{snippet.RecoverableDefined, "method m()", true},
		{snippet.Dropped, "variable old", true},
		{snippet.Overwritten, "class A", true},
	}

	if len(events) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(events), len(want))
	}
	for i, w := range want {
		got := events[i]
		if got.Status != w.status || got.Source != w.source || got.Update != w.update {
			t.Errorf("events[%d] = {%v %q %v}, want {%v %q %v}", i, got.Status, got.Source, got.Update, w.status, w.source, w.update)
		}
	}
}

func TestParseFeedbackErrorAfterUpdate(t *testing.T) {
	events := parseFeedback("int f() { return g(); }", []string{
		"|    update overwrote method f()",
		"|  Error:",
		"|  cannot find symbol",
	})

	if events[0].Status != snippet.Rejected {
		t.Errorf("Status = %v, want %v", events[0].Status, snippet.Rejected)
	}
	if len(events[0].Diagnostics) != 2 {
		t.Errorf("Diagnostics = %q, want 2 lines", events[0].Diagnostics)
	}
}
