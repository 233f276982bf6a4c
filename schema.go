package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/phobologic/wordstat/internal/config"
)

// newSchemaCmd implements `wordstat schema`, printing the JSON schema of the
// config file for editor completion.
func newSchemaCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return config.WriteSchema(stdout)
		},
	}
}
