// Package editor implements the line editing state machine for keyboard input
package editor

// BufferSize is the capacity of the input buffer. It doubles as the chunk
// size used by the file relay so line input and file transfer move the same
// fixed unit of data.
const BufferSize = 256

// MaxLineLength is the longest line the editor accepts. One slot is reserved
// for the terminator and one for the pending byte, so printable input is
// rejected once this bound is reached.
const MaxLineLength = BufferSize - 2

// Control bytes the editor reacts to
const (
	byteBackspace = 0x08
	byteDelete    = 0x7f
)

// Renderer is the slice of the display the editor drives: echoing accepted
// characters and erasing removed ones.
type Renderer interface {
	Echo(ch byte)
	Erase(n int)
}

// LineEditor accumulates keystrokes into a bounded buffer and yields one
// completed line at a time. It is not safe for concurrent use; the session
// serializes access between the sender's mutations and the receiver's
// redraw reads.
type LineEditor struct {
	buf      [BufferSize]byte
	length   int
	renderer Renderer
}

// NewLineEditor creates a line editor rendering through r
func NewLineEditor(r Renderer) *LineEditor {
	return &LineEditor{renderer: r}
}

// Handle processes one input byte. When the byte completes a non-empty line
// it returns the line and submitted=true; the editor still reports the full
// line length until Reset is called, so the caller can erase the visible
// prompt region before dispatching.
//
// CR and LF both terminate a line: with canonical input translation off,
// Enter arrives as CR on some platforms and LF on others. An empty Enter is
// discarded. Backspace and DEL erase one character when there is one to
// erase. Any other byte is appended and echoed while the buffer has room.
func (e *LineEditor) Handle(ch byte) (line string, submitted bool) {
	switch {
	case ch == '\n' || ch == '\r':
		if e.length == 0 {
			return "", false
		}
		return string(e.buf[:e.length]), true

	case ch == byteBackspace || ch == byteDelete:
		if e.length > 0 {
			e.length--
			e.buf[e.length] = 0
			e.renderer.Erase(1)
		}
		return "", false

	default:
		if e.length < MaxLineLength {
			e.buf[e.length] = ch
			e.length++
			e.renderer.Echo(ch)
		}
		return "", false
	}
}

// Len returns the number of characters currently buffered
func (e *LineEditor) Len() int {
	return e.length
}

// Partial returns the in-progress input for redraws. The returned slice
// aliases the editor buffer and is only valid until the next Handle call.
func (e *LineEditor) Partial() []byte {
	return e.buf[:e.length]
}

// Reset discards the buffered line after dispatch
func (e *LineEditor) Reset() {
	e.length = 0
}
