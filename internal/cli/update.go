package cli

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/spf13/cobra"

	"github.com/trailbeacon/core/internal/selfupdate"
)

const (
	updateOwner = "trailbeacon"
	updateRepo  = "core"
)

func updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check GitHub releases and replace the running binary",
		RunE:  runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := semver.Parse(Version)
	if err != nil {
		current = semver.Version{}
	}

	client := selfupdate.NewClient(updateOwner, updateRepo)
	release, err := client.DetectLatest()
	if err != nil {
		return fmt.Errorf("update: failed to check latest release: %w", err)
	}

	if !release.Version.GT(current) {
		fmt.Printf("already up to date (%s)\n", Version)
		return nil
	}

	asset, err := release.FindAsset()
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("update: failed to locate running binary: %w", err)
	}

	if err := selfupdate.UpdateTo(asset.BrowserDownloadURL, exe); err != nil {
		return fmt.Errorf("update: failed to apply: %w", err)
	}

	fmt.Printf("updated to %s\n", release.Version.String())
	return nil
}
