package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	appLog "dayflow/internal/log"
	"dayflow/internal/refresh"
	"dayflow/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show the dashboard in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()

		// Log lines would tear the full-screen view.
		if a.cfg.Log.File == "" {
			appLog.SetOutput(io.Discard)
			defer appLog.SetOutput(os.Stderr)
		}

		m := tui.New(a.sched, a.engine, a.format,
			tui.WithLocation(a.loc),
			tui.WithInterval(refresh.Interval(a.cfg.Refresh)),
		)
		return tui.Run(m, os.Stdout)
	},
}
