package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dayflow/internal/capture"
	appLog "dayflow/internal/log"
	"dayflow/internal/refresh"
	"dayflow/internal/timeline"
	"dayflow/internal/web"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()

		if serveListen != "" {
			a.cfg.Listen = serveListen
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r := refresh.New(a.engine, refresh.WithLocation(a.loc))
		r.OnTick(blockChangeLogger(r.State()))

		srv, err := web.NewServer(a.cfg, a.sched, a.engine, r)
		if err != nil {
			return err
		}

		if a.cfg.Capture.Enabled {
			opts := capture.OptionsFromConfig(a.cfg)
			if err := r.Schedule(a.cfg.Capture.Cron, func() {
				if err := capture.CaptureDashboardPNG(ctx, opts); err != nil {
					appLog.Error("dashboard capture failed", err, "url", opts.URL)
					return
				}
				appLog.Info("dashboard captured", "output", opts.OutputPath)
			}); err != nil {
				return err
			}
		}

		appLog.Info("dayflow starting",
			"version", version,
			"listen", "http://"+a.cfg.Listen,
			"refresh", a.cfg.Refresh,
			"capture", a.cfg.Capture.Enabled,
		)
		if err := r.Start(a.cfg.Refresh); err != nil {
			return err
		}

		serveErr := srv.Serve(ctx)

		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.Stop(stopCtx); err != nil {
			appLog.Error("refresh did not stop in time", err)
		}
		appLog.Info("dayflow exiting")
		return serveErr
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "HTTP listen address (overrides config if set)")
}

// blockChangeLogger logs whenever the active block changes between ticks.
func blockChangeLogger(initial timeline.CycleState) refresh.Hook {
	last := initial.Active.Index
	return func(st timeline.CycleState) {
		if st.Active.Index == last {
			return
		}
		last = st.Active.Index
		appLog.Info("block started",
			"title", st.Active.Title,
			"category", st.Active.Category.String(),
			"start", st.Active.Start.String(),
			"end", st.Active.End.String(),
		)
	}
}
