package jshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dhamidi/jnb/jshell/jshelltest"
	"github.com/dhamidi/jnb/snippet"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

// TestHelperProcess is not a real test. It turns the test binary into the
// fake jshell the session tests talk to.
func TestHelperProcess(t *testing.T) {
	jshelltest.Main()
}

// syncBuffer lets the test read output written by the session.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startFake(t *testing.T, timeout time.Duration) (*Session, *syncBuffer) {
	t.Helper()
	output := &syncBuffer{}
	s, err := Start(context.Background(), Options{
		Path:    os.Args[0],
		Args:    jshelltest.Args,
		Env:     append(os.Environ(), jshelltest.EnvVar+"=1"),
		Output:  output,
		Timeout: timeout,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s, output
}

func TestSessionEval(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, output := startFake(t, 0)
	defer s.Close()

	tests := []struct {
		source string
		want   []snippet.Event
	}{
		{
			source: "int x = 1;",
			want: []snippet.Event{{
				Status:      snippet.Valid,
				Source:      "int x = 1;",
				Diagnostics: []string{`|  created "int x = 1;"`},
			}},
		},
		{
			source: "int y = BAD;",
			want: []snippet.Event{{
				Status:      snippet.Rejected,
				Source:      "int y = BAD;",
				Diagnostics: []string{"|  Error:", "|  cannot find symbol", "|    symbol:   variable BAD"},
			}},
		},
		{
			source: "void recover() {\n  y++;\n}",
			want: []snippet.Event{{
				Status:      snippet.RecoverableDefined,
				Source:      "void recover() {\n  y++;\n}",
				Diagnostics: []string{"|  created method recover(), however, it cannot be invoked until variable y is declared"},
			}},
		},
		{
			source: "String x = \"redefine\";",
			want: []snippet.Event{
				{
					Status:      snippet.Valid,
					Source:      "String x = \"redefine\";",
					Diagnostics: []string{"|  replaced variable x : String"},
				},
				{
					Status:      snippet.Overwritten,
					Source:      "variable x : int",
					Update:      true,
					Diagnostics: []string{"|    update overwrote variable x : int"},
				},
			},
		},
		{
			source: "throw new RuntimeException(\"boom\");",
			want: []snippet.Event{{
				Status:      snippet.Valid,
				Source:      "throw new RuntimeException(\"boom\");",
				Exception:   "java.lang.RuntimeException: boom",
				Diagnostics: []string{"|  Exception java.lang.RuntimeException: boom", "|        at (#3:1)"},
			}},
		},
	}

	for _, tt := range tests {
		got, err := s.Eval(context.Background(), tt.source)
		if err != nil {
			t.Fatalf("Eval(%q): %v", tt.source, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Eval(%q) mismatch (-want +got):\n%s", tt.source, diff)
		}
	}

	if _, err := s.Eval(context.Background(), "System.out.println(\"hello\");"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := output.String(); got != "hello\n" {
		t.Errorf("output = %q, want %q", got, "hello\n")
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if _, err := s.Eval(context.Background(), "int z = 3;"); !errors.Is(err, ErrClosed) {
		t.Errorf("Eval after Close err = %v, want %v", err, ErrClosed)
	}
}

func TestSessionEvalMultiLineUnits(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _ := startFake(t, 0)
	defer s.Close()

	textBlock := "String s = \"\"\"\n  hi\n  \"\"\";"
	tests := []struct {
		source string
		want   []snippet.Event
	}{
		{
			source: "int x = 1\n  + 2;",
			want: []snippet.Event{{
				Status:      snippet.Valid,
				Source:      "int x = 1\n  + 2;",
				Diagnostics: []string{`|  created "int x = 1 + 2;"`},
			}},
		},
		{
			source: "int y = BAD;",
			want: []snippet.Event{{
				Status:      snippet.Rejected,
				Source:      "int y = BAD;",
				Diagnostics: []string{"|  Error:", "|  cannot find symbol", "|    symbol:   variable BAD"},
			}},
		},
		{
			source: "long n = list.stream() // all\n    .count();",
			want: []snippet.Event{{
				Status:      snippet.Valid,
				Source:      "long n = list.stream() // all\n    .count();",
				Diagnostics: []string{`|  created "long n = list.stream()   .count();"`},
			}},
		},
		{
			source: textBlock,
			want: []snippet.Event{{
				Status:      snippet.Valid,
				Source:      textBlock,
				Diagnostics: []string{fmt.Sprintf("|  created %q", textBlock)},
			}},
		},
		{
			source: "int z = 4;",
			want: []snippet.Event{{
				Status:      snippet.Valid,
				Source:      "int z = 4;",
				Diagnostics: []string{`|  created "int z = 4;"`},
			}},
		},
	}

	for _, tt := range tests {
		got, err := s.Eval(context.Background(), tt.source)
		if err != nil {
			t.Fatalf("Eval(%q): %v", tt.source, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Eval(%q) mismatch (-want +got):\n%s", tt.source, diff)
		}
	}
}

func TestSessionTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _ := startFake(t, 200*time.Millisecond)

	_, err := s.Eval(context.Background(), "HANG();")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want %v", err, context.DeadlineExceeded)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestSessionProcessExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _ := startFake(t, 0)

	_, err := s.Eval(context.Background(), "DIE();")
	if !errors.Is(err, ErrExited) {
		t.Errorf("err = %v, want %v", err, ErrExited)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start(context.Background(), Options{Path: "/nonexistent/jshell"})
	if err == nil {
		t.Fatal("Start succeeded, want error")
	}
}

func TestOptionsArguments(t *testing.T) {
	opts := Options{
		Args:          []string{"-J-Xmx512m"},
		ClassPath:     []string{"lib/a.jar", "out/classes"},
		Startup:       []string{"DEFAULT", "PRINTING"},
		RemoteOptions: []string{"-ea"},
	}
	sep := string(os.PathListSeparator)
	want := []string{
		"-J-Xmx512m",
		"--class-path", "lib/a.jar" + sep + "out/classes",
		"--startup", "DEFAULT",
		"--startup", "PRINTING",
		"-R-ea",
	}
	if diff := cmp.Diff(want, opts.Arguments()); diff != "" {
		t.Errorf("Arguments mismatch (-want +got):\n%s", diff)
	}
}
