// Package streamer implements C2, the buffered random-access byte reader
// that phase-1/2 lexing runs on top of. It is grounded on yecc's
// base/streamer.h and streamer.c: a sliding 8192-byte window over a file
// whose length is known up front, a single-byte pushback stack of depth 8
// (each slot carrying the line/column snapshot at the time it was ungotten),
// and a 5-byte lookahead blob used for `\\\n`, `??x` and string-prefix
// detection.
package streamer

import (
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
)

const (
	bufferSize    = 8192
	pushbackDepth = 8
)

type pushed struct {
	b      byte
	line   uint32
	column uint32
}

// Streamer is a buffered, seekable byte reader with 1-based line/column
// tracking and a bounded pushback stack. Not safe for concurrent use.
type Streamer struct {
	filename string
	r        io.ReaderAt
	closer   io.Closer

	buffer      [bufferSize]byte
	bufferStart uint64
	bufferLen   int
	bufferPos   int

	length uint64
	pos    uint64
	line   uint32
	column uint32

	pushback []pushed

	lastChar            byte
	prevLine, prevColumn uint32
}

// Open opens path read-only, determines its length, and loads the first
// window. Mirrors streamer_open: line/column start at 1.
func Open(path string) (*Streamer, error) {
	f, err := os.Open(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	s := &Streamer{
		filename: path,
		r:        f,
		closer:   f,
		length:   uint64(info.Size()),
		line:     1,
		column:   1,
	}
	if err := s.refill(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// OpenBytes builds a Streamer directly over in-memory content, for virtual
// files and tests (no backing *os.File to seek). Used the same way a real
// file-backed Streamer would be.
func OpenBytes(name string, content []byte) *Streamer {
	s := &Streamer{
		filename: name,
		r:        bytesReaderAt(content),
		length:   uint64(len(content)),
		line:     1,
		column:   1,
	}
	_ = s.refill()
	return s
}

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the backing file handle, if any.
func (s *Streamer) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// refill reloads the window starting at bufferStart, per streamer.c's
// refill_buffer: re-seek then read up to bufferSize bytes.
func (s *Streamer) refill() error {
	n, err := s.r.ReadAt(s.buffer[:], int64(s.bufferStart))
	if err != nil && err != io.EOF {
		// I/O errors during refill are reported as EOF (§4.1 failure model);
		// the caller observes Eof() == true and the lexer raises a diagnostic.
		s.bufferLen = 0
		s.bufferPos = 0
		return nil
	}
	s.bufferLen = n
	bp, err := safecast.Conv[int](s.pos - s.bufferStart)
	if err != nil {
		return fmt.Errorf("streamer: buffer position out of range: %w", err)
	}
	s.bufferPos = bp
	if s.bufferPos > s.bufferLen {
		s.bufferPos = s.bufferLen
	}
	return nil
}

// Eof reports whether the absolute position has reached the file length.
func (s *Streamer) Eof() bool {
	return s.pos >= s.length
}

// Seek performs an absolute seek, clearing pushback and recomputing
// line/column by walking forward from byte 0 (the reference implementation's
// policy: "the reference implementation re-walks forward", §9 Open Questions).
func (s *Streamer) Seek(offset uint64) bool {
	if offset > s.length {
		return false
	}
	s.pos = 0
	s.bufferStart = 0
	s.bufferLen = 0
	s.bufferPos = 0
	s.line = 1
	s.column = 1
	s.pushback = s.pushback[:0]

	if err := s.refill(); err != nil {
		return false
	}

	for s.pos < offset {
		if s.Next() < 0 {
			return false
		}
	}
	return true
}

// Peek returns the byte at the current position without advancing, or -1
// at EOF. Consults the pushback stack first.
func (s *Streamer) Peek() int {
	if n := len(s.pushback); n > 0 {
		return int(s.pushback[n-1].b)
	}
	if s.pos >= s.length {
		return -1
	}
	if s.bufferPos >= s.bufferLen {
		s.bufferStart = s.pos - s.pos%bufferSize
		if err := s.refill(); err != nil || s.bufferLen == 0 {
			return -1
		}
	}
	return int(s.buffer[s.bufferPos])
}

// Next consumes and returns the byte Peek would have returned, advancing
// absolute position and updating line/column (line++/column=1 on '\n',
// column++ otherwise). When replaying a pushed-back byte, restores its
// snapshotted line/column instead of recomputing.
func (s *Streamer) Next() int {
	if n := len(s.pushback); n > 0 {
		top := s.pushback[n-1]
		s.pushback = s.pushback[:n-1]
		s.line = top.line
		s.column = top.column

		s.pos++
		s.bufferPos++
		s.lastChar = top.b
		return int(top.b)
	}

	ci := s.Peek()
	if ci < 0 {
		return -1
	}
	c := byte(ci)

	s.prevLine = s.line
	s.prevColumn = s.column

	s.pos++
	s.bufferPos++
	s.lastChar = c

	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return ci
}

// Unget pushes the last-read byte back, restoring it to be re-read by the
// next Peek/Next. Fails at the start of the file or once the pushback
// stack reaches its depth limit.
func (s *Streamer) Unget() bool {
	if s.pos == 0 || len(s.pushback) >= pushbackDepth {
		return false
	}
	s.pos--
	if s.bufferPos > 0 {
		s.bufferPos--
	} else {
		s.bufferStart = s.pos - s.pos%bufferSize
		if err := s.refill(); err != nil {
			return false
		}
		bp, err := safecast.Conv[int](s.pos - s.bufferStart)
		if err != nil {
			return false
		}
		s.bufferPos = bp
	}

	c := s.buffer[s.bufferPos]
	s.pushback = append(s.pushback, pushed{b: c, line: s.line, column: s.column})
	if len(s.pushback) == 1 {
		s.line, s.column = s.prevLine, s.prevColumn
	} else if c != '\n' && s.column > 1 {
		s.column--
	}
	s.lastChar = c
	return true
}

// Position reports the current filename/line/column/offset.
type Position struct {
	Filename string
	Line     uint32
	Column   uint32
	Offset   uint64
}

// Position returns the streamer's current source position.
func (s *Streamer) Position() Position {
	return Position{Filename: s.filename, Line: s.line, Column: s.column, Offset: s.pos}
}

// ResetColumn sets the current column back to 1 without touching the
// absolute position. Used once, by the lexer's UTF-8 BOM handling (P4):
// the BOM is consumed as ordinary bytes but must not count towards column.
func (s *Streamer) ResetColumn() {
	s.column = 1
}

// Blob is a 5-byte lookahead window: Blob[2] is the byte at the current
// position, Blob[0:2] the two bytes before it, Blob[3:5] the two after.
// Bytes outside [0, length) read as zero.
type Blob [5]byte

// GetBlob returns the 5-byte window around the current position, fast-path
// reading straight from the buffer when the whole window is resident and
// falling back to a direct ReaderAt read otherwise.
func (s *Streamer) GetBlob() Blob {
	var b Blob

	start := int64(s.pos) - 2
	leftPad := 0
	if start < 0 {
		leftPad = int(-start)
		if leftPad > 5 {
			leftPad = 5
		}
		start = 0
	}
	need := 5 - leftPad
	if need <= 0 {
		return b
	}
	ustart := uint64(start)

	if ustart >= s.bufferStart && ustart+uint64(need) <= s.bufferStart+uint64(s.bufferLen) {
		off := ustart - s.bufferStart
		copy(b[leftPad:leftPad+need], s.buffer[off:off+uint64(need)])
		return b
	}

	tmp := make([]byte, need)
	n, err := s.r.ReadAt(tmp, start)
	if err != nil && err != io.EOF {
		return b
	}
	copy(b[leftPad:], tmp[:n])
	return b
}
