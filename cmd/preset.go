package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/smazurov/sensorctl/internal/config"
	"github.com/smazurov/sensorctl/internal/control"
	"github.com/smazurov/sensorctl/internal/logging"
	"github.com/smazurov/sensorctl/pkg/sensor/mira220"
	"github.com/spf13/cobra"
)

// CreatePresetCmd creates the preset command.
func CreatePresetCmd() *cobra.Command {
	var bus busFlags
	var format string
	var check bool

	cmd := &cobra.Command{
		Use:   "preset FILE",
		Short: "Apply a parameter preset",
		Long: `Attaches the sensor, applies the chosen format and latches every value of the preset ` +
			`in one group-hold transaction. With --check the file is only parsed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.LoadPreset(args[0])
			if err != nil {
				return err
			}
			changes := p.Changes()
			if check {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d changes, hold delay %d\n",
					args[0], len(changes), p.HoldDelay(mira220.DefaultHoldDelayFrames))
				return nil
			}

			svc := control.NewService(control.Options{
				Transport:     bus.config(),
				DefaultFormat: format,
				Logger:        logging.GetLogger("control"),
			})
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := svc.Attach(ctx); err != nil {
				return err
			}
			defer svc.Detach()

			if err := svc.ApplyPreset(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d changes\n", len(changes))
			return nil
		},
	}
	bus.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "", "Format name to apply before the preset")
	cmd.Flags().BoolVar(&check, "check", false, "Only validate the preset file")
	return cmd
}
