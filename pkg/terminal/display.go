package terminal

import (
	"fmt"
	"io"
	"sync"
)

// Prompt is the fixed string shown whenever the session is waiting for
// keyboard input. Erase calls are sized against its width.
const Prompt = "Enter text to send: "

// PromptWidth is the number of visible columns the prompt occupies
const PromptWidth = len(Prompt)

// ANSI color sequences used for inbound/outbound announcements
const (
	colorGreen = "\033[0;32m"
	colorRed   = "\033[0;31m"
	colorReset = "\033[0m"
)

// Display owns the single output surface shared by both session activities.
// A mutex serializes individual writes so an announcement from the receiver
// cannot split an escape sequence being emitted by the sender. Higher-level
// ordering between the two activities is still best-effort; the session's
// edit lock covers the full erase/announce/re-prompt redraw sequence.
type Display struct {
	out io.Writer
	mu  sync.Mutex
}

// NewDisplay creates a display renderer writing to out
func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

// Erase removes the last n visible columns by emitting backspace-erase
// sequences. Erasing zero columns is a no-op.
func (d *Display) Erase(n int) {
	if n <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < n; i++ {
		fmt.Fprint(d.out, "\b \b")
	}
}

// ShowPrompt prints the input prompt followed by any in-progress partial
// input, keeping the visible state consistent with the editor buffer.
func (d *Display) ShowPrompt(partial []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprint(d.out, Prompt)
	if len(partial) > 0 {
		d.out.Write(partial)
	}
}

// Echo prints a single just-typed character. Local echo is disabled on the
// controlling terminal, so this is the only way typed input becomes visible.
func (d *Display) Echo(ch byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out.Write([]byte{ch})
}

// AnnounceReceived prints inbound serial data on the shared surface
func (d *Display) AnnounceReceived(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintf(d.out, "%sReceived:%s ", colorGreen, colorReset)
	d.out.Write(data)
	fmt.Fprintln(d.out)
}

// AnnounceSaved reports inbound bytes diverted to the sink file
func (d *Display) AnnounceSaved(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "%sReceived:%s saved %d bytes to file\n", colorGreen, colorReset, n)
}

// AnnounceSent reports a plain line handed to the serial channel
func (d *Display) AnnounceSent(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "%ssent->%s%s\n", colorRed, colorReset, line)
}

// AnnounceChunk reports one file chunk transmitted over the serial channel
func (d *Display) AnnounceChunk(n int, path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "%ssent->%s%d bytes transmitted from %s\n", colorRed, colorReset, n, path)
}

// AnnounceRedirect reports a redirect mode switch
func (d *Display) AnnounceRedirect(target string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "Redirection: to %s\n", target)
}

// Errorf reports an inline, non-fatal error on the shared surface
func (d *Display) Errorf(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "Error: "+format+"\n", args...)
}

// Printf prints a free-form message on the shared surface
func (d *Display) Printf(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, format, args...)
}
