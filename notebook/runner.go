// Package notebook turns a buffer of Java source into a sequence of
// evaluations against one interpreter session.
//
// The Runner alternates between two collaborators: a Classifier that finds
// the next compilable unit in the remaining text, and a Session that
// evaluates it. Failed evaluations are reported and skipped; an input that
// cannot be split any further ends the run.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/jnb/java/completion"
	"github.com/dhamidi/jnb/snippet"
	"github.com/tliron/commonlog"
)

func log() commonlog.Logger {
	return commonlog.GetLogger("jnb.notebook")
}

// ErrNoProgress is returned when a classifier reports a complete unit but
// does not consume any input, which would otherwise loop forever.
var ErrNoProgress = errors.New("classifier made no progress")

// ErrUnknownCompleteness is returned for a category outside the known set.
var ErrUnknownCompleteness = errors.New("unknown completeness category")

// Classifier finds the leading compilable unit of a buffer.
type Classifier interface {
	Analyze(source string) completion.Info
}

// Session evaluates one compilable unit and reports the resulting events.
type Session interface {
	Eval(ctx context.Context, source string) ([]snippet.Event, error)
}

// Runner drives the classify-evaluate loop.
type Runner struct {
	Classifier Classifier
	Session    Session
	// Errors receives one line per anomaly and one rendering per failed event.
	Errors io.Writer
}

// Result summarizes a run.
type Result struct {
	// Evaluated counts units submitted to the session.
	Evaluated int
	// Failed counts events whose status was not valid.
	Failed int
	// Final is the category that ended the run: Empty, or the anomaly
	// that stopped it.
	Final completion.Completeness
}

// Anomaly reports whether the run stopped on input it could not split.
func (r Result) Anomaly() bool {
	return r.Final != completion.Empty
}

// Run evaluates every unit of input in order. It returns an error only for
// faults of the session or the error stream; failed evaluations and
// anomalies are reported to r.Errors and reflected in the Result.
func (r *Runner) Run(ctx context.Context, input string) (Result, error) {
	var res Result
	remaining := input

	for {
		info := r.Classifier.Analyze(remaining)

		var unit string
		switch info.Completeness {
		case completion.Complete:
			unit = info.Source
		case completion.CompleteWithSemi:
			unit = info.Source + ";"
		case completion.Empty:
			res.Final = completion.Empty
			log().Debugf("input exhausted after %d units", res.Evaluated)
			return res, nil
		case completion.DefinitelyIncomplete, completion.ConsideredIncomplete, completion.Unknown:
			return r.stop(res, info)
		default:
			return res, fmt.Errorf("%w: %s", ErrUnknownCompleteness, info.Completeness)
		}

		if len(info.Remaining) >= len(remaining) {
			return res, fmt.Errorf("%w: %s unit %q", ErrNoProgress, info.Completeness, unit)
		}

		log().Debugf("evaluating %s unit %q", info.Completeness, unit)
		events, err := r.Session.Eval(ctx, unit)
		res.Evaluated++
		if err != nil {
			return res, fmt.Errorf("evaluate %q: %w", unit, err)
		}

		for _, event := range events {
			if event.Status.IsValid() {
				continue
			}
			res.Failed++
			if _, err := fmt.Fprintln(r.Errors, event); err != nil {
				return res, fmt.Errorf("report event: %w", err)
			}
		}

		remaining = info.Remaining
	}
}

// stop reports the category that ended the run. Whatever input is left is
// discarded, even if well-formed units follow the malformed one.
func (r *Runner) stop(res Result, info completion.Info) (Result, error) {
	res.Final = info.Completeness
	log().Infof("stopping on %s with %d bytes unprocessed", info.Completeness, len(info.Remaining))
	if _, err := fmt.Fprintln(r.Errors, info.Completeness); err != nil {
		return res, fmt.Errorf("report completeness: %w", err)
	}
	return res, nil
}
