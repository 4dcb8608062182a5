package main

import (
	"github.com/dhamidi/jnb/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server that reports incomplete notebook cells",
		RunE: func(cmd *cobra.Command, args []string) error {
			return lsp.NewServer(version).RunStdio()
		},
	}
}
