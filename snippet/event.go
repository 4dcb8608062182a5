// Package snippet describes the outcome of evaluating one unit of source in
// an interpreter session.
package snippet

import (
	"fmt"
	"strings"
)

// Status is the state of a snippet after an evaluation.
type Status int

const (
	// Valid snippets compiled and, for statements and expressions, ran.
	// A snippet that threw an exception at run time is still Valid.
	Valid Status = iota
	// RecoverableDefined snippets are declared but reference something not
	// yet defined; they cannot be used until that is declared.
	RecoverableDefined
	// RecoverableNotDefined snippets could not be defined because of
	// unresolved references that a later declaration may fix.
	RecoverableNotDefined
	// Rejected snippets failed to compile.
	Rejected
	// Dropped snippets were removed from the session.
	Dropped
	// Overwritten snippets were replaced by a later declaration.
	Overwritten
	// Nonexistent is the previous status of a snippet that was just created.
	Nonexistent
)

var statusNames = [...]string{
	Valid:                 "VALID",
	RecoverableDefined:    "RECOVERABLE_DEFINED",
	RecoverableNotDefined: "RECOVERABLE_NOT_DEFINED",
	Rejected:              "REJECTED",
	Dropped:               "DROPPED",
	Overwritten:           "OVERWRITTEN",
	Nonexistent:           "NONEXISTENT",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// IsValid reports whether the status is Valid.
func (s Status) IsValid() bool {
	return s == Valid
}

// Event is one outcome record of an evaluation. A single evaluation can
// produce several events: one for the submitted snippet, and one for every
// existing snippet whose status changed as a consequence (Update).
type Event struct {
	Status Status
	// Source is the snippet text the event refers to. For update events it
	// is the engine's description of the affected snippet.
	Source string
	// Update is set on events about snippets other than the submitted one.
	Update bool
	// Diagnostics holds the engine's messages about the snippet, one per line.
	Diagnostics []string
	// Exception is the exception summary when running the snippet threw.
	Exception string
}

// String renders the event for a human reader. The first line names the
// status and the snippet; diagnostics follow on their own lines.
func (e Event) String() string {
	var sb strings.Builder
	kind := "snippet"
	if e.Update {
		kind = "update"
	}
	fmt.Fprintf(&sb, "SnippetEvent(status=%s, %s=%s", e.Status, kind, quoteSource(e.Source))
	if e.Exception != "" {
		fmt.Fprintf(&sb, ", exception=%s", e.Exception)
	}
	sb.WriteString(")")
	for _, d := range e.Diagnostics {
		sb.WriteString("\n")
		sb.WriteString(d)
	}
	return sb.String()
}

func quoteSource(s string) string {
	return fmt.Sprintf("%q", strings.TrimSpace(s))
}
