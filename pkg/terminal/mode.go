//go:build linux || darwin

// Package terminal controls the operator-facing terminal: switching the
// controlling tty between canonical and character-at-a-time input, and
// rendering the shared prompt/output surface.
//
// The mode switch is a termios operation, so this package (and the session
// built on it) is deliberately POSIX-only: linux and darwin. Porting to
// another platform means supplying MakeCbreak, Restore and State for it.
package terminal

import (
	"fmt"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// State holds the terminal settings captured before a mode switch so the
// original mode can be restored on shutdown.
type State struct {
	termios unix.Termios
}

// IsTerminal reports whether the file descriptor is attached to a terminal.
// When stdin is a pipe (tests, scripts) no mode switch is attempted.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// MakeCbreak switches the terminal to character-at-a-time input without
// local echo: canonical line buffering and echo are disabled, reads return
// after a single byte with no timeout. Unlike full raw mode, output
// post-processing and CR/NL translation are left untouched so normal
// printing still works on the shared surface. Echoing is performed
// explicitly by the line editor instead.
func MakeCbreak(fd int) (*State, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("failed to get terminal attributes: %w", err)
	}

	saved := State{termios: *termios}

	termios.Lflag &^= unix.ICANON | unix.ECHO
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return nil, fmt.Errorf("failed to set terminal attributes: %w", err)
	}

	return &saved, nil
}

// Restore puts the terminal back into the mode captured by MakeCbreak.
func Restore(fd int, state *State) error {
	if state == nil {
		return nil
	}

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &state.termios); err != nil {
		return fmt.Errorf("failed to restore terminal attributes: %w", err)
	}
	return nil
}
