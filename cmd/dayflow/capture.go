package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dayflow/internal/capture"
	appLog "dayflow/internal/log"
)

var (
	captureURL    string
	captureOutput string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Screenshot a running dashboard to PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()

		opts := capture.OptionsFromConfig(a.cfg)
		if captureURL != "" {
			opts.URL = captureURL
		}
		if captureOutput != "" {
			opts.OutputPath = captureOutput
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := capture.CaptureDashboardPNG(ctx, opts); err != nil {
			return err
		}
		appLog.Info("dashboard captured", "url", opts.URL, "output", opts.OutputPath)
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureURL, "url", "", "Dashboard URL (default from config)")
	captureCmd.Flags().StringVarP(&captureOutput, "output", "o", "", "PNG path (default from config)")
}
