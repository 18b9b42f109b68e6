// Command trailbeacon runs the web-analytics ingestion and aggregation
// core.
package main

import (
	"os"

	"github.com/trailbeacon/core/internal/cli"
	"github.com/trailbeacon/core/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cli.Root().Execute(); err != nil {
		logging.L().Sugar().Error(err)
		os.Exit(1)
	}
}
