//go:build linux

package sccb

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/sys/unix"
)

// I2CDev talks to a sensor through a Linux i2c-dev node. Reads are issued
// as an address write followed by a separate read, the way SCCB devices
// expect them.
type I2CDev struct {
	mu   sync.Mutex
	fd   int
	path string
	addr uint16
}

// I2C_SLAVE from linux/i2c-dev.h
const i2cSlave = 0x0703

// OpenI2C opens the i2c-dev node and binds it to the device address.
func OpenI2C(path string, addr uint16) (*I2CDev, error) {
	if path == "" {
		return nil, fmt.Errorf("i2c device path required")
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to select i2c address 0x%02X on %s: %w", addr, path, err)
	}
	return &I2CDev{fd: fd, path: path, addr: addr}, nil
}

// ReadReg reads one register.
func (d *I2CDev) ReadReg(addr uint16) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.xfer([]byte{byte(addr >> 8), byte(addr)}); err != nil {
		return 0, readErr(addr, err)
	}
	buf := make([]byte, 1)
	n, err := unix.Read(d.fd, buf)
	if err != nil {
		return 0, readErr(addr, err)
	}
	if n != 1 {
		return 0, readErr(addr, io.ErrUnexpectedEOF)
	}
	return buf[0], nil
}

// WriteReg writes one register.
func (d *I2CDev) WriteReg(addr uint16, val uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.xfer([]byte{byte(addr >> 8), byte(addr), val}); err != nil {
		return writeErr(addr, err)
	}
	return nil
}

func (d *I2CDev) xfer(buf []byte) error {
	n, err := unix.Write(d.fd, buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	return nil
}

// Close releases the device node.
func (d *I2CDev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

func (d *I2CDev) String() string {
	return fmt.Sprintf("%s@0x%02X", d.path, d.addr)
}
