package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// CreateRegCmd creates the reg command with its read and write
// subcommands.
func CreateRegCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reg",
		Short: "Read or write raw sensor registers",
	}
	cmd.AddCommand(createRegReadCmd(), createRegWriteCmd())
	return cmd
}

func createRegReadCmd() *cobra.Command {
	var bus busFlags

	cmd := &cobra.Command{
		Use:   "read ADDR",
		Short: "Read one register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseUint(args[0], 16)
			if err != nil {
				return fmt.Errorf("address: %w", err)
			}

			tr, err := bus.open()
			if err != nil {
				return err
			}
			defer tr.Close()

			v, err := tr.ReadReg(uint16(addr))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%04X = 0x%02X\n", addr, v)
			return nil
		},
	}
	bus.bind(cmd)
	return cmd
}

func createRegWriteCmd() *cobra.Command {
	var bus busFlags

	cmd := &cobra.Command{
		Use:   "write ADDR VALUE",
		Short: "Write one register",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseUint(args[0], 16)
			if err != nil {
				return fmt.Errorf("address: %w", err)
			}
			val, err := parseUint(args[1], 8)
			if err != nil {
				return fmt.Errorf("value: %w", err)
			}

			tr, err := bus.open()
			if err != nil {
				return err
			}
			defer tr.Close()

			if err := tr.WriteReg(uint16(addr), uint8(val)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%04X <- 0x%02X\n", addr, val)
			return nil
		},
	}
	bus.bind(cmd)
	return cmd
}

// parseUint accepts decimal or 0x-prefixed hex.
func parseUint(s string, bits int) (uint64, error) {
	return strconv.ParseUint(s, 0, bits)
}
