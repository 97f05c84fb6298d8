package main

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"dayflow/internal/ics"
	appLog "dayflow/internal/log"
)

var (
	exportOutput string
	exportAnchor string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the schedule as an iCalendar feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()

		anchor := time.Now().In(a.loc)
		if exportAnchor != "" {
			anchor, err = time.ParseInLocation(time.DateOnly, exportAnchor, a.loc)
			if err != nil {
				return fmt.Errorf("--anchor: %w", err)
			}
		}

		body, err := ics.Export(a.sched, anchor)
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		}
		if err := afero.WriteFile(afero.NewOsFs(), exportOutput, []byte(body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		appLog.Info("schedule exported", "output", exportOutput, "entries", len(a.sched.Entries))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&exportAnchor, "anchor", "", "Date of the first occurrence, YYYY-MM-DD (default today)")
}
