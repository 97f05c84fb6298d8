package main

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"dayflow/internal/web"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current cycle state as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.engine.State(time.Now().In(a.loc))
		out, err := jsoniter.MarshalIndent(web.NewStateResponse(st), "", "  ")
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(out, '\n'))
		return err
	},
}
