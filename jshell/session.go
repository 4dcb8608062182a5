// Package jshell evaluates Java snippets in a long-lived jshell process.
//
// The session talks to jshell over its standard streams. On start it defines
// a feedback mode whose prompts are sentinel lines, so the end of every
// evaluation can be recognized in the output. Lines starting with jshell's
// feedback prefix are parsed into snippet events; everything else is output
// of the evaluated code and is copied to Options.Output.
package jshell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhamidi/jnb/snippet"
	"github.com/tliron/commonlog"
)

const (
	readyMarker = "@@jnb-ready@@"
	moreMarker  = "@@jnb-more@@"
	modeName    = "jnb"
)

// setupCommands switch the session to a feedback mode based on "verbose",
// so every declaration reports its status, with sentinel prompts.
var setupCommands = []string{
	"/set mode " + modeName + " verbose -command",
	`/set prompt ` + modeName + ` "\n` + readyMarker + `\n" "\n` + moreMarker + `\n"`,
	"/set feedback " + modeName,
}

var (
	// ErrClosed is returned by Eval after Close.
	ErrClosed = errors.New("jshell session closed")
	// ErrExited is returned when the jshell process ends unexpectedly.
	ErrExited = errors.New("jshell exited")
)

// DefaultStartTimeout bounds how long Start waits for jshell to become ready.
const DefaultStartTimeout = 30 * time.Second

const exitGrace = 5 * time.Second

func log() commonlog.Logger {
	return commonlog.GetLogger("jnb.jshell")
}

type Options struct {
	// Path is the jshell executable, "jshell" when empty.
	Path string
	// Args are passed before the arguments derived from the other options.
	Args []string
	// Env is the process environment; nil inherits the current one.
	Env []string

	ClassPath     []string
	Startup       []string
	RemoteOptions []string

	// Output receives everything the evaluated code prints.
	Output io.Writer
	// Timeout bounds a single evaluation; zero means no limit.
	Timeout time.Duration
	// StartTimeout bounds the handshake; zero means DefaultStartTimeout.
	StartTimeout time.Duration
}

// Arguments returns the command line arguments for jshell.
func (o Options) Arguments() []string {
	args := append([]string(nil), o.Args...)
	if len(o.ClassPath) > 0 {
		args = append(args, "--class-path", strings.Join(o.ClassPath, string(filepath.ListSeparator)))
	}
	for _, s := range o.Startup {
		args = append(args, "--startup", s)
	}
	for _, r := range o.RemoteOptions {
		args = append(args, "-R"+r)
	}
	return args
}

// Session is one running jshell process. It is not safe for concurrent use.
type Session struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan string
	readErr error
	output  io.Writer
	timeout time.Duration
	closed  bool
}

// Start launches jshell and waits until it is ready to evaluate snippets.
func Start(ctx context.Context, opts Options) (*Session, error) {
	path := opts.Path
	if path == "" {
		path = "jshell"
	}
	output := opts.Output
	if output == nil {
		output = io.Discard
	}

	cmd := exec.Command(path, opts.Arguments()...)
	cmd.Env = opts.Env

	// stdout and stderr share one pipe so output keeps its order
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create pipe: %w", err)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	stdin, err := cmd.StdinPipe()
	if err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	log().Infof("starting %s %s", path, strings.Join(cmd.Args[1:], " "))
	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("start jshell: %w", err)
	}
	w.Close()

	s := &Session{
		cmd:     cmd,
		stdin:   stdin,
		lines:   make(chan string, 64),
		output:  output,
		timeout: opts.Timeout,
	}
	go s.readLines(r)

	startTimeout := opts.StartTimeout
	if startTimeout == 0 {
		startTimeout = DefaultStartTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := s.send(strings.Join(setupCommands, "\n")); err != nil {
		s.Close()
		return nil, err
	}
	if _, err := s.await(ctx, io.Discard); err != nil {
		s.Close()
		return nil, fmt.Errorf("jshell handshake: %w", err)
	}
	log().Debugf("jshell ready, pid %d", cmd.Process.Pid)
	return s, nil
}

func (s *Session) readLines(r *os.File) {
	defer close(s.lines)
	defer r.Close()

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			s.lines <- strings.TrimRight(line, "\r\n")
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.readErr = err
			}
			return
		}
	}
}

func (s *Session) send(text string) error {
	if _, err := io.WriteString(s.stdin, text+"\n"); err != nil {
		return fmt.Errorf("write to jshell: %w", err)
	}
	return nil
}

// Eval submits one compilable unit as a single input line and returns the
// events jshell reported for it. The first event is about source itself.
func (s *Session) Eval(ctx context.Context, source string) ([]snippet.Event, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.send(oneLine(source)); err != nil {
		return nil, err
	}
	feedback, err := s.await(ctx, s.output)
	if err != nil {
		return nil, err
	}
	events := parseFeedback(source, feedback)
	log().Debugf("%d events for %q", len(events), source)
	return events, nil
}

// await collects feedback lines until the next ready prompt, copying other
// lines to out. The prompt's leading newline shows up as an empty line right
// before the marker and is dropped.
func (s *Session) await(ctx context.Context, out io.Writer) ([]string, error) {
	var feedback []string
	pendingBlank := false

	for {
		select {
		case <-ctx.Done():
			log().Errorf("jshell did not respond: %s", ctx.Err())
			s.kill()
			return nil, fmt.Errorf("await jshell: %w", ctx.Err())

		case line, ok := <-s.lines:
			if !ok {
				if s.readErr != nil {
					return nil, fmt.Errorf("%w: %w", ErrExited, s.readErr)
				}
				return nil, ErrExited
			}

			switch {
			case line == readyMarker:
				return feedback, nil
			case line == moreMarker:
				pendingBlank = false
			case isFeedback(line):
				pendingBlank = false
				feedback = append(feedback, line)
			case line == "":
				if pendingBlank {
					fmt.Fprintln(out)
				}
				pendingBlank = true
			default:
				if pendingBlank {
					fmt.Fprintln(out)
					pendingBlank = false
				}
				fmt.Fprintln(out, line)
			}
		}
	}
}

func (s *Session) kill() {
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
}

// Close ends the jshell process: it asks jshell to exit, and kills it if it
// has not done so within a grace period. Output still pending is copied to
// Options.Output. Close is idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for line := range s.lines {
			if line != readyMarker && line != moreMarker && !isFeedback(line) && line != "" {
				fmt.Fprintln(s.output, line)
			}
		}
	}()

	// the process may already be gone; a failed write is expected then
	s.send("/exit")
	s.stdin.Close()

	waited := make(chan error, 1)
	go func() {
		waited <- s.cmd.Wait()
	}()

	var err error
	select {
	case err = <-waited:
	case <-time.After(exitGrace):
		log().Warningf("jshell did not exit within %s, killing it", exitGrace)
		s.kill()
		err = <-waited
	}
	<-drained

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log().Infof("jshell exited: %s", exitErr)
		return nil
	}
	if err != nil {
		return fmt.Errorf("wait for jshell: %w", err)
	}
	return nil
}
