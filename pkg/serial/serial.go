// Package serial provides the channel to the serial device
package serial

import (
	"fmt"
	"strconv"
	"sync"

	"go.bug.st/serial"
)

// Config defines the parameters for opening a serial channel.
// The line is always framed as 8 data bits, no parity, 1 stop bit.
type Config struct {
	Device   string
	BaudRate int
}

// supportedBaudRates lists the baud rate tokens accepted on the command line
var supportedBaudRates = []int{9600, 19200, 38400, 57600, 115200}

// ParseBaudRate maps a textual baud rate token to its numeric value.
// Unsupported tokens are a usage error.
func ParseBaudRate(token string) (int, error) {
	rate, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("unsupported baud rate: %s", token)
	}

	for _, supported := range supportedBaudRates {
		if rate == supported {
			return rate, nil
		}
	}

	return 0, fmt.Errorf("unsupported baud rate: %s", token)
}

// Validate checks if the channel configuration is valid
func (c Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device cannot be empty")
	}

	valid := false
	for _, rate := range supportedBaudRates {
		if c.BaudRate == rate {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported baud rate: %d", c.BaudRate)
	}

	return nil
}

// Channel is the contract both session activities hold on the serial line.
// Write is safe for concurrent callers; Read has exactly one caller (the
// receiver activity) and needs no guard.
type Channel interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// PortChannel implements Channel on top of go.bug.st/serial.
// A mutex scopes each Write call so concurrent writers (plain transmit and
// chunked file transmit) cannot interleave mid-message. A second mutex
// guards the open/closed state: during shutdown Close races with the
// activities' in-flight Read and Write calls, which must come back as
// plain errors, never a crash.
type PortChannel struct {
	port    serial.Port
	config  Config
	writeMu sync.Mutex

	mu     sync.Mutex
	closed bool
}

// Open opens and configures the serial device described by cfg.
func Open(cfg Config) (*PortChannel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial device %s: %w", cfg.Device, err)
	}

	return &PortChannel{port: port, config: cfg}, nil
}

// activePort returns the port when the channel is still open. The port is
// called outside the state lock so a blocked Read never holds up Close; a
// call racing with Close gets the driver's closed-port error instead.
func (c *PortChannel) activePort() (serial.Port, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.port == nil {
		return nil, fmt.Errorf("serial channel is not open")
	}
	return c.port, nil
}

// Read blocks until at least one byte arrives from the device.
func (c *PortChannel) Read(p []byte) (int, error) {
	port, err := c.activePort()
	if err != nil {
		return 0, err
	}

	n, err := port.Read(p)
	if err != nil {
		return n, fmt.Errorf("failed to read from serial device: %w", err)
	}
	return n, nil
}

// Write sends data to the device under the channel's write lock.
func (c *PortChannel) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	port, err := c.activePort()
	if err != nil {
		return 0, err
	}

	n, err := port.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write to serial device: %w", err)
	}
	return n, nil
}

// Close closes the underlying port. A blocked Read returns with an error
// once the port is closed, which is how the receiver activity is unparked
// during shutdown. Close is idempotent; later Read and Write calls return
// an error rather than reaching the closed port.
func (c *PortChannel) Close() error {
	c.mu.Lock()
	if c.closed || c.port == nil {
		c.closed = true
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	port := c.port
	c.mu.Unlock()

	if err := port.Close(); err != nil {
		return fmt.Errorf("failed to close serial device: %w", err)
	}
	return nil
}

// GetConfig returns the configuration the channel was opened with
func (c *PortChannel) GetConfig() Config {
	return c.config
}

// ListPorts returns the serial devices present on the system
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to get available ports: %w", err)
	}
	return ports, nil
}
