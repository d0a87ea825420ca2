package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/smazurov/sensorctl/pkg/sensor"
	"github.com/smazurov/sensorctl/pkg/sensor/mira220"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type formatEntry struct {
	ID        int    `json:"id" yaml:"id"`
	Default   bool   `json:"default" yaml:"default"`
	Program   string `json:"program,omitempty" yaml:"program,omitempty"`
	Registers int    `json:"registers" yaml:"registers"`

	sensor.FormatDescriptor `yaml:",inline"`
}

// CreateFormatsCmd creates the formats command.
func CreateFormatsCmd() *cobra.Command {
	var output string
	var withProgram bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the supported output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := mira220.Catalog()
			entries := make([]formatEntry, len(cat.Formats))
			for i, f := range cat.Formats {
				entries[i] = formatEntry{
					ID:               i,
					Default:          i == cat.Default,
					Registers:        f.Program.Len(),
					FormatDescriptor: f,
				}
				if withProgram {
					entries[i].Program = f.Program.String()
				}
			}
			return writeFormats(cmd.OutOrStdout(), output, entries)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&withProgram, "program", false, "Include the register program")
	return cmd
}

func writeFormats(w io.Writer, output string, entries []formatEntry) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		for _, e := range entries {
			mark := " "
			if e.Default {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %d  %-34s %4dx%-4d %3d fps  %s  %d registers\n",
				mark, e.ID, e.Name, e.Width, e.Height, e.FPS, e.PixelFormat, e.Registers)
			if e.Program != "" {
				fmt.Fprintf(w, "     %s\n", e.Program)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
