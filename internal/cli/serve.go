package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/trailbeacon/core/internal/config"
	"github.com/trailbeacon/core/internal/database"
	"github.com/trailbeacon/core/internal/geo"
	"github.com/trailbeacon/core/internal/goals"
	"github.com/trailbeacon/core/internal/ingest"
	"github.com/trailbeacon/core/internal/logging"
	"github.com/trailbeacon/core/internal/queue"
	"github.com/trailbeacon/core/internal/server"
	"github.com/trailbeacon/core/internal/stats"
	"github.com/trailbeacon/core/internal/statshandler"
	"github.com/trailbeacon/core/internal/store"
)

var ipOverride string

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestion and aggregation server",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&ipOverride, "ip", "", "force the resolved client IP (local development only)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("serve: failed to load configuration", zap.Error(err))
	}
	cfg.ApplyIPOverride(ipOverride)

	if err := database.ConnectMetadata(cfg); err != nil {
		logging.Fatal("serve: metadata database unreachable", zap.Error(err))
	}

	analyticsStore, err := store.Open(store.Config{
		Host:     cfg.AnalyticsHost,
		Port:     cfg.AnalyticsPort,
		User:     cfg.AnalyticsUser,
		Password: cfg.AnalyticsPass,
		Database: cfg.AnalyticsName,
	})
	if err != nil {
		logging.Fatal("serve: analytics database unavailable", zap.Error(err))
	}

	q := queue.New(cfg.QueueFlushSize, cfg.QueueFlushInterval, analyticsStore.WriteBatch)
	q.Run(context.Background())

	ih := &ingest.Handler{
		Queue:      q,
		GeoClient:  geo.NewClient(cfg.GeoEndpoint, cfg.GeoTimeout),
		Goals:      goals.NewCache(database.Metadata),
		IPOverride: cfg.AdminIPOverride,
		GeoTimeout: cfg.GeoTimeout,
	}
	sh := &statshandler.Handler{Reader: stats.NewReader(analyticsStore.DB())}

	srv := server.New(ih, sh, cfg.ShutdownGrace, func() {
		q.Stop()
		_ = analyticsStore.Close()
		_ = database.CloseMetadata()
	})

	logging.L().Info("trailbeacon starting", zap.String("addr", cfg.APIHost+":"+cfg.APIPort))
	return srv.Run(cfg.APIHost + ":" + cfg.APIPort)
}
