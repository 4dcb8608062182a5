package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/jnb/java/completion"
	"github.com/dhamidi/jnb/notebook"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Show how input is split into units without evaluating it",
		Long: `Split a file, or stdin when no file is given, into compilable units and
print one line per unit: its completeness category, a tab, and its source.
Checking stops at the first unit that is not complete.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runCheck(in, cmd.OutOrStdout())
		},
	}
}

func runCheck(in io.Reader, out io.Writer) error {
	input, err := notebook.ReadInput(in)
	if err != nil {
		return err
	}

	remaining := input
	for {
		info := completion.Analyze(remaining)
		switch info.Completeness {
		case completion.Empty:
			return nil
		case completion.Complete, completion.CompleteWithSemi:
			if _, err := fmt.Fprintf(out, "%s\t%q\n", info.Completeness, info.Source); err != nil {
				return err
			}
			if len(info.Remaining) >= len(remaining) {
				return notebook.ErrNoProgress
			}
			remaining = info.Remaining
		default:
			_, err := fmt.Fprintf(out, "%s\t%q\n", info.Completeness, info.Remaining)
			return err
		}
	}
}
