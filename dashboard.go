package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"rf2dash/pkg/chart"
	"rf2dash/pkg/config"
	"rf2dash/pkg/connection"
	"rf2dash/pkg/dashboard"
	"rf2dash/pkg/export"
	"rf2dash/pkg/metrics"
	"rf2dash/pkg/notification"
	"rf2dash/pkg/pubsub"
	"rf2dash/pkg/view"
	"rf2dash/pkg/webserver"
)

const pubsubBuffer = 16

func newDashboardCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Connect to the telemetry server and serve the live dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd, map[string]string{
				"telemetry_url": "telemetry-url",
				"export_url":    "export-url",
				"listen_addr":   "listen",
			})
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return runDashboard(ctx, cfg)
		},
	}
	cmd.Flags().String("telemetry-url", "ws://localhost:8080/ws", "telemetry websocket endpoint")
	cmd.Flags().String("export-url", "http://localhost:8000/export-csv", "CSV export endpoint")
	cmd.Flags().String("listen", ":8090", "dashboard listen address")
	return cmd
}

func runDashboard(ctx context.Context, cfg *config.Config) error {
	ps := pubsub.NewPubSub[string](pubsubBuffer)
	m := metrics.NewCollector()

	notifier := notification.NewManager(notification.NewAlertService(ps))
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notification.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.WithField("err", err).Warn("telegram notifications disabled")
		} else {
			notifier.Add(tg)
		}
	}

	app := dashboard.NewApp(
		view.NewState(ps),
		chart.NewFeed(cfg.ChartWindow),
		export.NewClient(cfg.ExportURL, cfg.ExportTimeout),
		notifier,
		m,
	)
	conn := connection.NewManager(cfg.TelemetryURL, cfg.ReconnectDelay, app)
	web := webserver.NewManager(cfg.ListenAddr, app, ps, m.Handler())
	web.Debug()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := conn.Run(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return web.Serve(ctx)
	})
	log.WithFields(log.Fields{"telemetry": cfg.TelemetryURL, "export": cfg.ExportURL}).Info("dashboard started")
	return g.Wait()
}
