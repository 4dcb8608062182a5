// Package jshelltest provides a stand-in for the jshell executable so that
// sessions can be tested without a JDK.
//
// A test binary becomes the fake when it is started with Args and with
// EnvVar set to "1", and calls Main from a test named TestHelperProcess:
//
//	func TestHelperProcess(t *testing.T) { jshelltest.Main() }
//
// Like jshell, the fake decides after every input line whether the text so
// far is complete and evaluates each complete unit at once. Its feedback
// depends on the unit's text:
//
//	contains DIE        the process exits with status 3
//	contains HANG       no answer for a minute
//	contains BAD        rejected with "cannot find symbol"
//	contains println    prints "hello" and a scratch variable
//	contains CLASSPATH  prints the --class-path argument it was started with
//	contains recover    created, recoverable until y is declared
//	contains redefine   replaces variable x and overwrites the old one
//	contains throw      an exception
//
// Anything else is reported as `|  created "<unit>"`.
package jshelltest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dhamidi/jnb/java/completion"
)

// EnvVar must be "1" in the environment of the fake.
const EnvVar = "JNB_FAKE_JSHELL"

// Args make a test binary run only TestHelperProcess. Arguments after them
// are the jshell arguments.
var Args = []string{"-test.run=TestHelperProcess", "--"}

// Main runs the fake on the standard streams and exits, if the environment
// asks for it. Otherwise it returns at once.
func Main() {
	if os.Getenv(EnvVar) != "1" {
		return
	}
	os.Exit(Run(os.Stdin, os.Stdout, os.Args))
}

type fake struct {
	out     *bufio.Writer
	args    []string
	prompt  string
	more    string
	prompts map[string][2]string
}

// Run serves one fake jshell session on in and out and returns the exit
// status. args is the full command line.
func Run(in io.Reader, out io.Writer, args []string) int {
	f := &fake{
		out:     bufio.NewWriter(out),
		args:    args,
		prompt:  "jshell> ",
		more:    "   ...> ",
		prompts: make(map[string][2]string),
	}
	defer f.out.Flush()

	fmt.Fprintln(f.out, "|  Welcome to JShell -- Version 21")
	f.show(f.prompt)

	pending := ""
	lines := bufio.NewScanner(in)
	lines.Buffer(nil, 1<<24)
	for lines.Scan() {
		line := lines.Text()
		if pending == "" && strings.HasPrefix(line, "/") {
			if line == "/exit" {
				fmt.Fprintln(f.out, "|  Goodbye")
				return 0
			}
			f.command(line)
			f.show(f.prompt)
			continue
		}

		pending += line + "\n"
		next := f.prompt
	units:
		for {
			info := completion.Analyze(pending)
			switch info.Completeness {
			case completion.Complete, completion.CompleteWithSemi:
				if code, exit := f.eval(info.Source); exit {
					return code
				}
				pending = info.Remaining
			case completion.Empty:
				pending = ""
				break units
			case completion.DefinitelyIncomplete, completion.ConsideredIncomplete:
				next = f.more
				break units
			default:
				fmt.Fprintln(f.out, "|  Error:")
				fmt.Fprintln(f.out, "|  illegal character")
				pending = ""
				break units
			}
		}
		f.show(next)
	}
	return 0
}

func (f *fake) show(prompt string) {
	fmt.Fprint(f.out, prompt)
	f.out.Flush()
}

// command handles the /set commands a session sends while starting.
func (f *fake) command(line string) {
	fields := strings.Fields(line)
	switch {
	case len(fields) >= 3 && fields[0] == "/set" && fields[1] == "prompt":
		rest := strings.TrimSpace(strings.TrimPrefix(line, "/set prompt "+fields[2]))
		ready, err := strconv.QuotedPrefix(rest)
		if err != nil {
			fmt.Fprintln(f.out, "|  Error: bad prompt")
			return
		}
		more, err := strconv.QuotedPrefix(strings.TrimSpace(rest[len(ready):]))
		if err != nil {
			fmt.Fprintln(f.out, "|  Error: bad prompt")
			return
		}
		ready, _ = strconv.Unquote(ready)
		more, _ = strconv.Unquote(more)
		f.prompts[fields[2]] = [2]string{ready, more}
	case len(fields) == 3 && fields[0] == "/set" && fields[1] == "feedback":
		if p, ok := f.prompts[fields[2]]; ok {
			f.prompt, f.more = p[0], p[1]
		}
		fmt.Fprintf(f.out, "|  Feedback mode: %s\n", fields[2])
	default:
		fmt.Fprintf(f.out, "|  ok %s\n", line)
	}
}

func (f *fake) eval(src string) (int, bool) {
	out := f.out
	switch {
	case strings.Contains(src, "DIE"):
		out.Flush()
		return 3, true
	case strings.Contains(src, "HANG"):
		out.Flush()
		time.Sleep(time.Minute)
	case strings.Contains(src, "BAD"):
		fmt.Fprintln(out, "|  Error:")
		fmt.Fprintln(out, "|  cannot find symbol")
		fmt.Fprintln(out, "|    symbol:   variable BAD")
	case strings.Contains(src, "println"):
		fmt.Fprintln(out, "hello")
		fmt.Fprintln(out, "|  created scratch variable $1 : void")
	case strings.Contains(src, "CLASSPATH"):
		fmt.Fprintln(out, f.arg("--class-path"))
	case strings.Contains(src, "recover"):
		fmt.Fprintln(out, "|  created method recover(), however, it cannot be invoked until variable y is declared")
	case strings.Contains(src, "redefine"):
		fmt.Fprintln(out, "|  replaced variable x : String")
		fmt.Fprintln(out, "|    update overwrote variable x : int")
	case strings.Contains(src, "throw"):
		fmt.Fprintln(out, "|  Exception java.lang.RuntimeException: boom")
		fmt.Fprintln(out, "|        at (#3:1)")
	default:
		fmt.Fprintf(out, "|  created %q\n", src)
	}
	return 0, false
}

// arg returns the value following name on the command line.
func (f *fake) arg(name string) string {
	for i, a := range f.args {
		if a == name && i+1 < len(f.args) {
			return f.args[i+1]
		}
	}
	return ""
}
