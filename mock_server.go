package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rf2dash/pkg/mockserver"
)

func newMockServerCmd(v *viper.Viper) *cobra.Command {
	var noPlayer bool
	cmd := &cobra.Command{
		Use:   "mockserver",
		Short: "Serve simulated player telemetry on /ws",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd, map[string]string{
				"mock_listen":   "listen",
				"mock_interval": "interval",
				"mock_phase":    "phase",
			})
			if err != nil {
				return err
			}

			var player *mockserver.Player
			if !noPlayer {
				player = &mockserver.Player{
					Driver:  cfg.MockDriver,
					Vehicle: cfg.MockVehicle,
					Track:   cfg.MockTrack,
					Place:   1,
				}
			}
			sim := mockserver.NewSimulator(player, nil, cfg.MockPhase, time.Now())

			ctx, cancel := signalContext()
			defer cancel()
			return mockserver.NewServer(cfg.MockListen, cfg.MockInterval, sim).Serve(ctx)
		},
	}
	cmd.Flags().String("listen", ":8080", "listen address")
	cmd.Flags().Duration("interval", 100*time.Millisecond, "time between samples")
	cmd.Flags().Duration("phase", 30*time.Second, "duration of each session phase")
	cmd.Flags().BoolVar(&noPlayer, "no-player", false, "report that no player vehicle exists")
	return cmd
}
