// Package relay streams file data to and from the serial channel in
// fixed-size chunks
package relay

import (
	"fmt"
	"io"
	"os"

	"uart-shell/pkg/editor"
)

// ChunkSize is the fixed unit of data moved per read/write call, matching
// the line input buffer size.
const ChunkSize = editor.BufferSize

// Progress receives per-chunk reports during a file transmit
type Progress interface {
	ChunkSent(n int, path string)
	TransmitError(err error)
}

// TransmitFile streams the file at path to dst in ChunkSize chunks. The
// returned error is non-nil only when the file cannot be opened or read;
// write failures and short writes are reported through progress and the
// remaining chunks are still attempted. dst is the serial channel, whose
// own lock makes each chunk write atomic against other writers.
func TransmitFile(dst io.Writer, path string, progress Progress) error {
	source, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer source.Close()

	buf := make([]byte, ChunkSize)
	for {
		n, err := source.Read(buf)
		if n > 0 {
			written, werr := dst.Write(buf[:n])
			switch {
			case werr != nil:
				progress.TransmitError(fmt.Errorf("failed to write chunk from %s: %w", path, werr))
			case written != n:
				progress.TransmitError(fmt.Errorf("short write from %s: %d of %d bytes", path, written, n))
			default:
				progress.ChunkSent(written, path)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read source file %s: %w", path, err)
		}
	}
}

// CopyToSink writes one inbound chunk to the sink file. A short write is an
// error, but the caller keeps the sink open and the redirect mode unchanged
// regardless.
func CopyToSink(sink io.Writer, chunk []byte) (int, error) {
	n, err := sink.Write(chunk)
	if err != nil {
		return n, fmt.Errorf("failed to write to sink file: %w", err)
	}
	if n != len(chunk) {
		return n, fmt.Errorf("short write to sink file: %d of %d bytes", n, len(chunk))
	}
	return n, nil
}
