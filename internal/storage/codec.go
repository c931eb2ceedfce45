package storage

import (
	"bufio"
	"io"
	"strconv"

	"github.com/galaxygarden/nbody-datagen/pkg/core"
)

// AppendBody appends one dataset line: mass radius x y vx vy, newline terminated.
// Floats use the shortest representation that round-trips.
func AppendBody(dst []byte, b core.Body) []byte {
	fields := [6]float64{b.Mass, b.Radius, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y}
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = strconv.AppendFloat(dst, f, 'g', -1, 64)
	}
	return append(dst, '\n')
}

// Encoder writes dataset lines through a buffer.
type Encoder struct {
	w     *bufio.Writer
	buf   []byte
	bytes int64
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriterSize(w, 64*1024), buf: make([]byte, 0, 128)}
}

// Encode writes a single body.
func (e *Encoder) Encode(b core.Body) error {
	e.buf = AppendBody(e.buf[:0], b)
	n, err := e.w.Write(e.buf)
	e.bytes += int64(n)
	return err
}

// Flush writes any buffered lines to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// Bytes is the number of encoded bytes accepted so far.
func (e *Encoder) Bytes() int64 {
	return e.bytes
}
