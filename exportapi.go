package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rf2dash/pkg/exportapi"
	"rf2dash/pkg/history"
)

func newExportAPICmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportapi",
		Short: "Serve the CSV export endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd, map[string]string{
				"export_listen": "listen",
				"export_dir":    "dir",
				"db_path":       "db",
			})
			if err != nil {
				return err
			}
			h, err := history.NewManager(cfg.DBPath)
			if err != nil {
				return err
			}
			defer h.Close()

			ctx, cancel := signalContext()
			defer cancel()
			return exportapi.NewServer(cfg.ExportListen, cfg.ExportDir, h).Serve(ctx)
		},
	}
	cmd.Flags().String("listen", ":8000", "export API listen address")
	cmd.Flags().String("dir", "export", "directory CSV files are written to")
	cmd.Flags().String("db", "./rf2dash.db", "export history database")
	return cmd
}

func newExportsCmd(v *viper.Viper) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Print the export history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd, map[string]string{"db_path": "db"})
			if err != nil {
				return err
			}
			h, err := history.NewManager(cfg.DBPath)
			if err != nil {
				return err
			}
			defer h.Close()

			records, err := h.List(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aucun export")
				return nil
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), exportapi.RenderTable(records))
			return nil
		},
	}
	cmd.Flags().String("db", "./rf2dash.db", "export history database")
	cmd.Flags().IntVar(&limit, "limit", history.DefaultLimit, "number of exports to show")
	return cmd
}
