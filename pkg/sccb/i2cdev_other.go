//go:build !linux

package sccb

import "errors"

// I2CDev is only available on Linux.
type I2CDev struct{}

// OpenI2C always fails on non-Linux systems.
func OpenI2C(path string, addr uint16) (*I2CDev, error) {
	return nil, errors.New("i2c-dev transport requires linux")
}

func (d *I2CDev) ReadReg(addr uint16) (uint8, error) {
	return 0, readErr(addr, errors.ErrUnsupported)
}

func (d *I2CDev) WriteReg(addr uint16, val uint8) error {
	return writeErr(addr, errors.ErrUnsupported)
}

func (d *I2CDev) Close() error { return nil }
