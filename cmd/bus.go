// Package cmd holds the sensorctl subcommands that talk to the sensor
// directly, without the daemon.
package cmd

import (
	"fmt"
	"time"

	"github.com/smazurov/sensorctl/pkg/sccb"
	"github.com/smazurov/sensorctl/pkg/sensor/mira220"
	"github.com/spf13/cobra"
)

// busFlags selects the register transport of a one-shot command.
type busFlags struct {
	kind    string
	device  string
	address uint16
	baud    int
	timeout time.Duration
}

func (b *busFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&b.kind, "bus", sccb.KindI2C, "Register transport (i2c, serial, modbus, sim)")
	f.StringVar(&b.device, "device", "/dev/i2c-1", "i2c-dev node, serial port or modbus host:port")
	f.Uint16Var(&b.address, "address", mira220.SCCBAddr, "7-bit bus address or modbus unit id")
	f.IntVar(&b.baud, "baud", 115200, "Serial bridge baud rate")
	f.DurationVar(&b.timeout, "timeout", time.Second, "Serial and modbus transaction timeout")
}

func (b *busFlags) config() sccb.Config {
	cfg := sccb.Config{
		Kind:     b.kind,
		Device:   b.device,
		Address:  b.address,
		BaudRate: b.baud,
		Timeout:  b.timeout,
	}
	if b.kind == sccb.KindSim {
		cfg.Sim = mira220.SimRegisters()
	}
	return cfg
}

func (b *busFlags) open() (sccb.Bus, error) {
	bus, err := sccb.Open(b.config())
	if err != nil {
		return nil, fmt.Errorf("open %s bus: %w", b.kind, err)
	}
	return bus, nil
}
