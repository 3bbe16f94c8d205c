// Package app coordinates the two session activities: the receiver, which
// routes inbound serial bytes to the display or the sink file, and the
// sender, which runs the line editor and dispatches completed lines.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"uart-shell/pkg/editor"
	"uart-shell/pkg/history"
	"uart-shell/pkg/relay"
	"uart-shell/pkg/serial"
	"uart-shell/pkg/terminal"
)

// Command prefixes recognized by the dispatcher
const (
	redirectPrefix      = "R>"
	transmitPrefix      = "T<"
	redirectShellTarget = "shell"
)

// readPause bounds the receiver's busy-polling between serial reads
const readPause = time.Millisecond

// stopTimeout bounds the shutdown join. The sender may be parked in a
// stdin read that cannot be interrupted; after this long it is abandoned.
const stopTimeout = 2 * time.Second

// Config wires an Application together
type Config struct {
	Channel    serial.Channel
	Display    *terminal.Display
	Input      io.Reader
	Transcript history.Recorder
}

// Application runs one serial terminal session
type Application struct {
	channel    serial.Channel
	display    *terminal.Display
	editor     *editor.LineEditor
	session    *Session
	transcript history.Recorder
	input      io.Reader

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	finished chan struct{}

	mu        sync.Mutex
	isRunning bool

	// editMu serializes the sender's editor mutations against the
	// receiver's redraw reads of the same buffer. The original design left
	// this unsynchronized as a best-effort redraw; see DESIGN.md for the
	// interleaving consequences of adding the lock.
	editMu sync.Mutex
}

// NewApplication creates a session application from its wired components
func NewApplication(cfg Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		channel:    cfg.Channel,
		display:    cfg.Display,
		session:    NewSession(),
		transcript: cfg.Transcript,
		input:      cfg.Input,
		ctx:        ctx,
		cancel:     cancel,
		finished:   make(chan struct{}),
	}
	app.editor = editor.NewLineEditor(cfg.Display)
	return app
}

// Start launches the receiver and sender activities
func (app *Application) Start() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.isRunning {
		return fmt.Errorf("session is already running")
	}
	app.isRunning = true

	app.wg.Add(2)
	go app.receiveLoop()
	go app.sendLoop()

	go func() {
		app.wg.Wait()
		close(app.finished)
	}()

	return nil
}

// Stop performs the ordered teardown: request cancellation, close the
// serial channel to unpark the receiver's blocking read, join both
// activities within a bounded wait, then release the sink. Stop is
// idempotent and safe to invoke from the signal path and the normal
// control path alike.
func (app *Application) Stop() error {
	app.mu.Lock()
	if !app.isRunning {
		app.mu.Unlock()
		return nil
	}
	app.isRunning = false
	app.mu.Unlock()

	app.cancel()

	err := app.channel.Close()

	select {
	case <-app.finished:
	case <-time.After(stopTimeout):
	}

	if cerr := app.session.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Done returns a channel closed once both activities have returned
func (app *Application) Done() <-chan struct{} {
	return app.finished
}

// IsRunning reports whether the session is active
func (app *Application) IsRunning() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.isRunning
}

// Session returns the shared redirect state
func (app *Application) Session() *Session {
	return app.session
}

// receiveLoop is the receiver activity: it blocks on the serial read and
// routes each inbound chunk. Read failures are reported inline and the
// loop continues; only cancellation ends it. A short pause after each read
// attempt bounds CPU usage, not correctness.
func (app *Application) receiveLoop() {
	defer app.wg.Done()

	buf := make([]byte, editor.BufferSize-1)
	for {
		select {
		case <-app.ctx.Done():
			return
		default:
		}

		n, err := app.channel.Read(buf)
		if err != nil {
			if app.ctx.Err() != nil {
				return
			}
			app.display.Errorf("%v", err)
		}
		if n > 0 {
			app.handleInbound(buf[:n])
		}

		time.Sleep(readPause)
	}
}

// handleInbound routes one chunk of serial input according to the current
// redirect mode.
func (app *Application) handleInbound(chunk []byte) {
	if app.transcript != nil {
		app.transcript.Record(chunk, history.DirectionReceived)
	}

	mode, sink := app.session.Route()
	if mode == ToFile {
		n, err := relay.CopyToSink(sink, chunk)
		if err != nil {
			// The sink stays open and the mode unchanged; the next
			// chunk is attempted normally.
			app.display.Errorf("%v", err)
			return
		}
		app.redraw(func() { app.display.AnnounceSaved(n) })
		return
	}

	app.redraw(func() { app.display.AnnounceReceived(chunk) })
}

// redraw replaces the visible prompt region with an announcement and then
// reprints the prompt with whatever partial input is buffered. It runs
// under the edit lock so the erase width matches the buffer it reads.
func (app *Application) redraw(announce func()) {
	app.editMu.Lock()
	defer app.editMu.Unlock()

	app.display.Erase(terminal.PromptWidth + app.editor.Len())
	announce()
	app.display.ShowPrompt(app.editor.Partial())
}

// sendLoop is the sender activity: it feeds keyboard bytes through the
// line editor and hands completed lines to the dispatcher. It ends when
// the input source is exhausted or the session is cancelled.
func (app *Application) sendLoop() {
	defer app.wg.Done()

	reader := bufio.NewReader(app.input)

	app.editMu.Lock()
	app.display.ShowPrompt(nil)
	app.editMu.Unlock()

	for {
		if app.ctx.Err() != nil {
			return
		}

		ch, err := reader.ReadByte()
		if err != nil {
			return
		}

		app.editMu.Lock()
		line, submitted := app.editor.Handle(ch)
		if !submitted {
			app.editMu.Unlock()
			continue
		}

		// Clear the visible prompt region before dispatching, and reset
		// the editor first so a concurrent receiver redraw during a long
		// file transmit shows an empty prompt rather than a stale line.
		app.display.Erase(terminal.PromptWidth + app.editor.Len())
		app.editor.Reset()
		app.editMu.Unlock()

		app.dispatch(line)

		app.editMu.Lock()
		app.display.ShowPrompt(app.editor.Partial())
		app.editMu.Unlock()
	}
}

// dispatch classifies a completed line and executes the matching action
func (app *Application) dispatch(line string) {
	switch {
	case strings.HasPrefix(line, redirectPrefix):
		app.redirect(line[len(redirectPrefix):])
	case strings.HasPrefix(line, transmitPrefix):
		app.transmitFile(line[len(transmitPrefix):])
	default:
		app.display.AnnounceSent(line)
		if _, err := app.writeSerial([]byte(line)); err != nil {
			app.display.Errorf("%v", err)
		}
	}
}

// redirect switches the inbound routing target. Failures leave the current
// mode and sink untouched.
func (app *Application) redirect(target string) {
	if target == redirectShellTarget {
		app.session.RedirectToShell()
		app.display.AnnounceRedirect(redirectShellTarget)
		return
	}

	if err := app.session.RedirectToFile(target); err != nil {
		app.display.Errorf("%v", err)
		return
	}
	app.display.AnnounceRedirect(target)
}

// transmitFile streams a file to the serial channel chunk by chunk
func (app *Application) transmitFile(path string) {
	dst := writerFunc(app.writeSerial)
	if err := relay.TransmitFile(dst, path, &transmitProgress{display: app.display}); err != nil {
		app.display.Errorf("%v", err)
	}
}

// writeSerial writes through the channel's locked write path and records
// the traffic in the transcript.
func (app *Application) writeSerial(p []byte) (int, error) {
	n, err := app.channel.Write(p)
	if err == nil && n > 0 && app.transcript != nil {
		app.transcript.Record(p[:n], history.DirectionSent)
	}
	return n, err
}

// writerFunc adapts a write function to io.Writer
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

// transmitProgress reports file transfer progress on the display
type transmitProgress struct {
	display *terminal.Display
}

func (p *transmitProgress) ChunkSent(n int, path string) {
	p.display.AnnounceChunk(n, path)
}

func (p *transmitProgress) TransmitError(err error) {
	p.display.Errorf("%v", err)
}
