// Package chunked implements the envelope's framed streaming format: a
// single header line, a two-byte separator, and then a sequence of
// length-prefixed ciphertext frames.
package chunked

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/allisson/dataguardian/internal/dgerrors"
)

// Separator is the two bytes following the header line.
var Separator = []byte("\n\n")

// FrameHeaderSize is the size, in bytes, of the {length, index} prefix
// that precedes every frame's ciphertext.
const FrameHeaderSize = 8

// Writer emits the envelope's on-disk stream: the header line, the
// separator, and then one frame per call to WriteFrame.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes headerJSON followed by the separator. Callers call
// this exactly once, before any WriteFrame call.
func (w *Writer) WriteHeader(headerJSON []byte) error {
	if _, err := w.w.Write(headerJSON); err != nil {
		return dgerrors.IoError("write header", err)
	}
	if _, err := w.w.Write(Separator); err != nil {
		return dgerrors.IoError("write header separator", err)
	}
	return nil
}

// WriteFrame writes one frame: an 8-byte big-endian {length, index}
// header followed by ciphertext.
func (w *Writer) WriteFrame(index uint32, ciphertext []byte) error {
	var hdr [FrameHeaderSize]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(ciphertext)))
	binary.BigEndian.PutUint32(hdr[4:8], index)

	if _, err := w.w.Write(hdr[:]); err != nil {
		return dgerrors.IoError("write frame header", err)
	}
	if _, err := w.w.Write(ciphertext); err != nil {
		return dgerrors.IoError("write frame body", err)
	}
	return nil
}

// Reader parses the envelope's on-disk stream: ReadHeaderLine once, then
// ReadFrame repeatedly until io.EOF.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadHeaderLine reads the header JSON line and consumes the separator
// that follows it, leaving the reader positioned at the first frame.
// A missing or misaligned separator is a fatal InvalidHeader("truncated").
func (r *Reader) ReadHeaderLine() ([]byte, error) {
	line, err := r.r.ReadBytes('\n')
	if err == io.EOF {
		return nil, dgerrors.InvalidHeader("truncated: missing header separator")
	}
	if err != nil {
		return nil, dgerrors.IoError("read header line", err)
	}

	second, err := r.r.ReadByte()
	if err != nil || second != '\n' {
		return nil, dgerrors.InvalidHeader("truncated: misaligned header separator")
	}

	header := line[:len(line)-1] // drop the trailing '\n' consumed by ReadBytes
	return header, nil
}

// ReadFrame reads one frame. It returns io.EOF (unwrapped) exactly when
// the stream ends cleanly on a frame boundary. A short frame header or a
// short payload is a fatal InvalidHeader("truncated").
func (r *Reader) ReadFrame() (index uint32, ciphertext []byte, err error) {
	var hdr [FrameHeaderSize]byte
	n, err := io.ReadFull(r.r, hdr[:])
	if n == 0 && err == io.EOF {
		return 0, nil, io.EOF
	}
	if err != nil {
		return 0, nil, dgerrors.InvalidHeader("truncated: frame header")
	}

	length := binary.BigEndian.Uint32(hdr[0:4])
	index = binary.BigEndian.Uint32(hdr[4:8])

	ciphertext = make([]byte, length)
	if _, err := io.ReadFull(r.r, ciphertext); err != nil {
		return 0, nil, dgerrors.InvalidHeader("truncated: frame body")
	}

	return index, ciphertext, nil
}
