package cmd

import (
	"fmt"

	"github.com/smazurov/sensorctl/internal/logging"
	"github.com/smazurov/sensorctl/pkg/sensor/mira220"
	"github.com/spf13/cobra"
)

// CreateDetectCmd creates the detect command.
func CreateDetectCmd() *cobra.Command {
	var bus busFlags

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Read the sensor part id",
		Long:  `Reads the identity registers over the selected bus and checks them against the MIRA220 part id. The sensor is not powered or configured.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.GetLogger("detect")

			tr, err := bus.open()
			if err != nil {
				return err
			}
			defer tr.Close()

			pid, err := mira220.ReadPartID(tr)
			if err != nil {
				return fmt.Errorf("read part id: %w", err)
			}
			logger.Debug("Read sensor id", "pid", fmt.Sprintf("0x%04X", pid))

			if pid != mira220.PartID {
				return fmt.Errorf("part id 0x%04X is not %s (want 0x%04X)", pid, mira220.Name, mira220.PartID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s detected on %s (part id 0x%04X)\n", mira220.Name, bus.kind, pid)
			return nil
		},
	}
	bus.bind(cmd)
	return cmd
}
