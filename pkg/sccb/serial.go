package sccb

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	frameSync      = "   #"
	crcPlaceholder = "XXXX"
	maxSkipPackets = 16
)

var errReadTimeout = errors.New("serial read timeout")

// SerialBridge drives a USB-CDC register bridge. Commands and responses
// are ASCII frames: a sync marker, a four digit hex length, a four letter
// command type, the payload and a four digit checksum.
type SerialBridge struct {
	mu     sync.Mutex
	port   io.ReadWriter
	closer io.Closer
}

// OpenSerialBridge opens the serial port backing the bridge.
func OpenSerialBridge(name string, baudRate int, timeout time.Duration) (*SerialBridge, error) {
	if name == "" {
		return nil, fmt.Errorf("serial port name required")
	}
	if baudRate == 0 {
		baudRate = 115200
	}
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial bridge %s: %w", name, err)
	}
	if timeout > 0 {
		if err := p.SetReadTimeout(timeout); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	return newSerialBridge(p, p), nil
}

func newSerialBridge(port io.ReadWriter, closer io.Closer) *SerialBridge {
	return &SerialBridge{port: port, closer: closer}
}

// ReadReg reads one register through the bridge.
func (b *SerialBridge) ReadReg(addr uint16) (uint8, error) {
	data, err := b.command("RREG", fmt.Sprintf("%04X", addr))
	if err != nil {
		return 0, readErr(addr, err)
	}
	if len(data) != 2 {
		return 0, readErr(addr, fmt.Errorf("invalid response length (%d)", len(data)))
	}
	value, err := hex.DecodeString(string(data))
	if err != nil {
		return 0, readErr(addr, fmt.Errorf("failed to decode register value: %w", err))
	}
	return value[0], nil
}

// WriteReg writes one register through the bridge.
func (b *SerialBridge) WriteReg(addr uint16, val uint8) error {
	if _, err := b.command("WREG", fmt.Sprintf("%04X%02X", addr, val)); err != nil {
		return writeErr(addr, err)
	}
	return nil
}

// Close closes the serial port.
func (b *SerialBridge) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func (b *SerialBridge) command(cmdType, args string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	body := cmdType + args + crcPlaceholder
	if _, err := io.WriteString(b.port, fmt.Sprintf("%s%04X%s", frameSync, len(body), body)); err != nil {
		return nil, fmt.Errorf("failed to write to serial port: %w", err)
	}

	// The bridge may interleave unsolicited packets; skip until the echo of our command type.
	for i := 0; i < maxSkipPackets; i++ {
		packetType, data, err := b.readPacket()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if packetType == cmdType {
			return data, nil
		}
	}
	return nil, fmt.Errorf("no %s response after %d packets", cmdType, maxSkipPackets)
}

func (b *SerialBridge) readPacket() (string, []byte, error) {
	if err := b.syncFrame(); err != nil {
		return "", nil, err
	}

	header := make([]byte, 8)
	if err := readFull(b.port, header); err != nil {
		return "", nil, fmt.Errorf("failed to read header: %w", err)
	}
	length, err := strconv.ParseUint(string(header[:4]), 16, 16)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode packet length: %w", err)
	}
	if length < 8 {
		return "", nil, fmt.Errorf("invalid packet length %d", length)
	}
	packetType := string(header[4:])

	data := make([]byte, length-8)
	if err := readFull(b.port, data); err != nil {
		return "", nil, fmt.Errorf("failed to read payload: %w", err)
	}
	crc := make([]byte, 4)
	if err := readFull(b.port, crc); err != nil {
		return "", nil, fmt.Errorf("failed to read checksum: %w", err)
	}
	if want := checksum(header, data); string(crc) != want {
		return "", nil, fmt.Errorf("checksum mismatch: got %s, want %s", crc, want)
	}
	return packetType, data, nil
}

func (b *SerialBridge) syncFrame() error {
	window := make([]byte, 0, len(frameSync))
	one := make([]byte, 1)
	for {
		if err := readFull(b.port, one); err != nil {
			return fmt.Errorf("failed to find frame start: %w", err)
		}
		window = append(window, one[0])
		if len(window) > len(frameSync) {
			window = window[1:]
		}
		if string(window) == frameSync {
			return nil
		}
	}
}

// checksum is the 16-bit byte sum over length, type and payload.
func checksum(parts ...[]byte) string {
	var sum uint16
	for _, p := range parts {
		for _, c := range p {
			sum += uint16(c)
		}
	}
	return fmt.Sprintf("%04X", sum)
}

// readFull treats a zero-length read as a timeout, which is how serial
// ports with a read deadline report expiry.
func readFull(r io.Reader, buf []byte) error {
	for off := 0; off < len(buf); {
		n, err := r.Read(buf[off:])
		off += n
		if err != nil {
			if errors.Is(err, io.EOF) && off == len(buf) {
				return nil
			}
			return err
		}
		if n == 0 {
			return errReadTimeout
		}
	}
	return nil
}
