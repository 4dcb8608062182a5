package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRunCheck(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "statements and trailing expression",
			input: "int x = 1; int y = 2;\nvoid hi() {\n  System.out.println(x);\n}\nx + y\n",
			want: []string{
				`COMPLETE	"int x = 1;"`,
				`COMPLETE	"int y = 2;"`,
				`COMPLETE	"void hi() {\n  System.out.println(x);\n}"`,
				`COMPLETE_WITH_SEMI	"x + y"`,
			},
		},
		{
			name:  "stops at unclosed block",
			input: "int x = 1;\nif (x > 0) {\nint z = 3;\n",
			want: []string{
				`COMPLETE	"int x = 1;"`,
				`DEFINITELY_INCOMPLETE	"if (x > 0) {\nint z = 3;\n"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := runCheck(strings.NewReader(tt.input), &out); err != nil {
				t.Fatalf("runCheck: %v", err)
			}
			var got []string
			if s := strings.TrimSuffix(out.String(), "\n"); s != "" {
				got = strings.Split(s, "\n")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
