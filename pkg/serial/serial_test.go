package serial

import (
	"testing"

	"go.bug.st/serial"
)

// fakePort stubs the driver port for lifecycle tests. Only the methods the
// channel touches are implemented; the embedded interface covers the rest.
type fakePort struct {
	serial.Port
	closes int
}

func (p *fakePort) Read(b []byte) (int, error)  { return 0, nil }
func (p *fakePort) Write(b []byte) (int, error) { return len(b), nil }
func (p *fakePort) Close() error {
	p.closes++
	return nil
}

func TestParseBaudRate(t *testing.T) {
	tests := []struct {
		token     string
		want      int
		shouldErr bool
	}{
		{"9600", 9600, false},
		{"19200", 19200, false},
		{"38400", 38400, false},
		{"57600", 57600, false},
		{"115200", 115200, false},
		{"0", 0, true},
		{"12345", 0, true},
		{"230400", 0, true},
		{"9600x", 0, true},
		{"-9600", 0, true},
		{"", 0, true},
		{"fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rate, err := ParseBaudRate(tt.token)

			if tt.shouldErr {
				if err == nil {
					t.Errorf("ParseBaudRate(%q) = %d, want error", tt.token, rate)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseBaudRate(%q) failed: %v", tt.token, err)
			}
			if rate != tt.want {
				t.Errorf("ParseBaudRate(%q) = %d, want %d", tt.token, rate, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		shouldErr bool
	}{
		{"valid", Config{Device: "/dev/ttyUSB0", BaudRate: 115200}, false},
		{"valid slow", Config{Device: "/dev/ttyS0", BaudRate: 9600}, false},
		{"empty device", Config{Device: "", BaudRate: 9600}, true},
		{"zero baud", Config{Device: "/dev/ttyUSB0", BaudRate: 0}, true},
		{"unsupported baud", Config{Device: "/dev/ttyUSB0", BaudRate: 230400}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.shouldErr && err == nil {
				t.Error("expected validation error but got none")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("expected no validation error but got: %v", err)
			}
		})
	}
}

func TestClosedChannelReturnsErrors(t *testing.T) {
	port := &fakePort{}
	c := &PortChannel{port: port}

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Shutdown races a late Read/Write against Close; both must come back
	// as errors, not a crash.
	buf := make([]byte, 8)
	if _, err := c.Read(buf); err == nil {
		t.Error("Read after Close should fail")
	}
	if _, err := c.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}

	// Close is idempotent and closes the port exactly once
	if err := c.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if port.closes != 1 {
		t.Errorf("port closed %d times, want 1", port.closes)
	}
}

func TestChannelReadWriteBeforeClose(t *testing.T) {
	c := &PortChannel{port: &fakePort{}}

	if _, err := c.Read(make([]byte, 8)); err != nil {
		t.Errorf("Read on open channel failed: %v", err)
	}

	n, err := c.Write([]byte("data"))
	if err != nil {
		t.Errorf("Write on open channel failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Write returned %d, want 4", n)
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(Config{Device: "", BaudRate: 115200})
	if err == nil {
		t.Error("Open with empty device should fail")
	}

	_, err = Open(Config{Device: "/dev/ttyUSB0", BaudRate: 1200})
	if err == nil {
		t.Error("Open with unsupported baud rate should fail")
	}
}
