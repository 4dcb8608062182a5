package jshell

import (
	"strings"

	"github.com/dhamidi/jnb/snippet"
)

// feedbackPrefix starts every line jshell prints about a snippet, as opposed
// to output printed by the snippet itself.
const feedbackPrefix = "|  "

func isFeedback(line string) bool {
	return strings.HasPrefix(line, feedbackPrefix) || line == "|"
}

// parseFeedback turns the feedback block printed after evaluating source
// into events. The first event is always about source itself; every
// "update" line adds an event about another snippet the evaluation affected.
func parseFeedback(source string, lines []string) []snippet.Event {
	events := []snippet.Event{{Status: snippet.Valid, Source: source}}
	current := &events[0]

	for _, line := range lines {
		content := strings.TrimPrefix(strings.TrimPrefix(line, "|"), "  ")

		if rest, ok := strings.CutPrefix(content, "  update "); ok {
			events = append(events, snippet.Event{
				Status: updateStatus(rest),
				Source: describedSnippet(rest),
				Update: true,
			})
			current = &events[len(events)-1]
			current.Diagnostics = append(current.Diagnostics, line)
			continue
		}

		switch {
		case strings.HasPrefix(content, "Error:"):
			current = &events[0]
			current.Status = snippet.Rejected
		case strings.HasPrefix(content, "Exception "):
			current.Exception = strings.TrimPrefix(content, "Exception ")
		default:
			if status, ok := recoverableStatus(content); ok {
				current.Status = status
			}
		}
		current.Diagnostics = append(current.Diagnostics, line)
	}
	return events
}

// recoverableStatus recognizes the messages jshell appends to a declaration
// that refers to something not declared yet.
func recoverableStatus(content string) (snippet.Status, bool) {
	switch {
	case strings.Contains(content, "however, it cannot be referenced until"):
		return snippet.RecoverableNotDefined, true
	case strings.Contains(content, "however, it cannot be"):
		return snippet.RecoverableDefined, true
	}
	return snippet.Valid, false
}

func updateStatus(rest string) snippet.Status {
	switch {
	case strings.HasPrefix(rest, "overwrote "), strings.HasPrefix(rest, "replaced "):
		return snippet.Overwritten
	case strings.HasPrefix(rest, "dropped "):
		return snippet.Dropped
	}
	if status, ok := recoverableStatus(rest); ok {
		return status
	}
	return snippet.Valid
}

// describedSnippet drops the action word from an update line:
// "overwrote variable x : int" -> "variable x : int".
func describedSnippet(rest string) string {
	if _, after, ok := strings.Cut(rest, " "); ok {
		if before, _, ok := strings.Cut(after, ", however"); ok {
			return before
		}
		return after
	}
	return rest
}
