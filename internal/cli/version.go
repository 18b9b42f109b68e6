package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the trailbeacon version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("trailbeacon %s\n", Version)
			return nil
		},
	}
}
