// Package cli wires the trailbeacon binary's subcommands: serve, version,
// and update.
package cli

import (
	"github.com/spf13/cobra"
)

const appName = "trailbeacon"

// Version is set at build time via -ldflags.
var Version = "dev"

// Root builds the root cobra command.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "trailbeacon is a self-hosted web-analytics ingestion core",
	}

	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(updateCmd())

	return root
}
