package completion

import "fmt"

// Completeness classifies the leading portion of a source buffer.
type Completeness int

const (
	// Complete means the unit ends with its own terminator (';' or '}').
	Complete Completeness = iota
	// CompleteWithSemi means the unit is complete once a ';' is appended.
	CompleteWithSemi
	// DefinitelyIncomplete means more input is required.
	DefinitelyIncomplete
	// ConsideredIncomplete means the unit could be completed with a ';' but
	// that is almost never what was meant (a method header without a body).
	ConsideredIncomplete
	// Empty means the buffer holds only whitespace and comments.
	Empty
	// Unknown means the buffer is malformed in a way more input cannot fix.
	Unknown
)

var completenessNames = [...]string{
	Complete:             "COMPLETE",
	CompleteWithSemi:     "COMPLETE_WITH_SEMI",
	DefinitelyIncomplete: "DEFINITELY_INCOMPLETE",
	ConsideredIncomplete: "CONSIDERED_INCOMPLETE",
	Empty:                "EMPTY",
	Unknown:              "UNKNOWN",
}

func (c Completeness) String() string {
	if c >= 0 && int(c) < len(completenessNames) {
		return completenessNames[c]
	}
	return fmt.Sprintf("Completeness(%d)", int(c))
}

// IsComplete reports whether a unit of this category can be evaluated.
func (c Completeness) IsComplete() bool {
	return c == Complete || c == CompleteWithSemi
}

// Info is the result of analyzing a buffer.
type Info struct {
	Completeness Completeness
	// Source is the extracted unit; only set when Completeness.IsComplete().
	Source string
	// Remaining is the unconsumed text after Source.
	Remaining string
}
