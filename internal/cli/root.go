// Package cli wires configuration, storage and the HTTP API into the
// portal command.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds flags that override configuration for any command.
type RootOptions struct {
	Port  int
	Store string
	// DotenvFiles are read before the environment is parsed.
	DotenvFiles []string
}

// NewRootCommand creates the root command. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{DotenvFiles: []string{".env"}}

	cmd := &cobra.Command{
		Use:   "portal",
		Short: "GameZone catalog API",
		Long: `Serves the GameZone game catalog, comments and contact form as a JSON API.

Settings come from the environment (PORT, STORE_DRIVER, DATABASE_PATH, ...)
and an optional .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().IntVar(&opts.Port, "port", 0, "listen port (overrides PORT)")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "store driver, memory or sqlite (overrides STORE_DRIVER)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}
