package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dayflow/internal/view"
)

var statusUpcoming bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a one-line summary of the running block",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.engine.State(time.Now().In(a.loc))
		printStatus(cmd.OutOrStdout(), view.Build(a.sched, st, a.format), statusUpcoming)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&statusUpcoming, "upcoming", "u", false, "Also list the next few blocks")
}

func printStatus(w io.Writer, d view.Dashboard, upcoming bool) {
	fmt.Fprintf(w, "%s %s %s %s · %s · %s: %s %s · %s\n",
		color.HiBlackString("%s", d.Now),
		d.Active.Icon,
		color.New(color.FgHiWhite, color.Bold).Sprint(d.Active.Title),
		color.CyanString("(%s)", d.Active.Range),
		color.YellowString("%s", d.Remaining),
		d.Heading.Next,
		d.Next.Icon,
		d.Next.Title,
		color.GreenString("%s", d.ProgressLabel),
	)
	if !upcoming {
		return
	}
	if d.AllDone {
		fmt.Fprintln(w, "  "+color.GreenString("%s", d.Heading.AllDone))
		return
	}
	for _, u := range d.Upcoming {
		fmt.Fprintf(w, "  %s %s %s\n", color.CyanString("%s", u.Start), u.Icon, u.Title)
	}
}
