package snippet

import "testing"

func TestEventString(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "valid",
			event: Event{Status: Valid, Source: "int x = 1;"},
			want:  `SnippetEvent(status=VALID, snippet="int x = 1;")`,
		},
		{
			name: "rejected with diagnostics",
			event: Event{
				Status:      Rejected,
				Source:      "int x = \"a\";\n",
				Diagnostics: []string{"|  Error:", "|  incompatible types"},
			},
			want: "SnippetEvent(status=REJECTED, snippet=\"int x = \\\"a\\\";\")\n|  Error:\n|  incompatible types",
		},
		{
			name:  "update",
			event: Event{Status: RecoverableDefined, Source: "method m()", Update: true},
			want:  `SnippetEvent(status=RECOVERABLE_DEFINED, update="method m()")`,
		},
		{
			name:  "exception",
			event: Event{Status: Valid, Source: "boom();", Exception: "java.lang.IllegalStateException: no"},
			want:  `SnippetEvent(status=VALID, snippet="boom();", exception=java.lang.IllegalStateException: no)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{RecoverableDefined, RecoverableNotDefined, Rejected, Dropped, Overwritten, Nonexistent} {
		if s.IsValid() {
			t.Errorf("%v.IsValid() = true, want false", s)
		}
	}
	if !Valid.IsValid() {
		t.Errorf("Valid.IsValid() = false, want true")
	}
	if got := Status(99).String(); got != "Status(99)" {
		t.Errorf("String() = %q, want %q", got, "Status(99)")
	}
}
