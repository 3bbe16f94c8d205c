package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"uart-shell/pkg/history"
	"uart-shell/pkg/serial"
	"uart-shell/pkg/terminal"
)

// Runner ties a session to the process environment: the real serial
// device, stdin/stdout, the controlling terminal mode and the interrupt
// signal.
type Runner struct {
	serialConfig   serial.Config
	transcriptPath string
	app            *Application
}

// NewRunner creates a runner for the given device configuration. When
// transcriptPath is non-empty the session transcript is saved there on
// shutdown.
func NewRunner(serialConfig serial.Config, transcriptPath string) *Runner {
	return &Runner{
		serialConfig:   serialConfig,
		transcriptPath: transcriptPath,
	}
}

// Run opens the device and blocks until the session ends, either because
// an interrupt arrived or because both activities returned. The serial
// open failure is the only fatal error after argument parsing; everything
// later is reported inline and the session keeps running.
func (r *Runner) Run() error {
	channel, err := serial.Open(r.serialConfig)
	if err != nil {
		return err
	}

	fmt.Printf("Opened %s at %d baud.\n", r.serialConfig.Device, r.serialConfig.BaudRate)

	recorder := history.NewMemoryRecorder(0)
	display := terminal.NewDisplay(os.Stdout)

	r.app = NewApplication(Config{
		Channel:    channel,
		Display:    display,
		Input:      os.Stdin,
		Transcript: recorder,
	})

	// The handler itself only delivers to the channel; teardown happens
	// here on the normal control path once the signal is observed.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Character-at-a-time input without local echo; the line editor echoes
	// explicitly. Skipped when stdin is not a terminal.
	var saved *terminal.State
	fd := int(os.Stdin.Fd())
	if terminal.IsTerminal(fd) {
		saved, err = terminal.MakeCbreak(fd)
		if err != nil {
			channel.Close()
			return fmt.Errorf("failed to prepare terminal: %w", err)
		}
	}

	if err := r.app.Start(); err != nil {
		if saved != nil {
			terminal.Restore(fd, saved)
		}
		channel.Close()
		return err
	}

	select {
	case <-sigChan:
		display.Printf("\nInterrupted, shutting down...\n")
	case <-r.app.Done():
	}

	// Ordered teardown: canonical terminal first, then handles and
	// activities via Stop.
	if saved != nil {
		terminal.Restore(fd, saved)
	}

	stopErr := r.app.Stop()

	if r.transcriptPath != "" {
		if err := recorder.SaveToFile(r.transcriptPath, history.FormatTimestamped); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			fmt.Printf("Transcript saved to %s\n", r.transcriptPath)
		}
	}

	stats := recorder.GetStats()
	fmt.Printf("successfully terminated (sent %d bytes, received %d bytes)\n",
		stats.BytesSent, stats.BytesReceived)

	return stopErr
}

// Stop stops the running session, if any
func (r *Runner) Stop() error {
	if r.app != nil {
		return r.app.Stop()
	}
	return nil
}
