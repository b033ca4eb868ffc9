package sse

import "bytes"

var frameDelimiter = []byte("\n\n")

// Decoder splits an unbounded sequence of text fragments into complete frames.
// A frame is a block of lines terminated by a blank line. Incomplete trailing
// data is buffered across calls to Feed; at most one partial frame is held.
//
// CRLF line endings are normalized to LF, including a CR/LF pair split across
// two fragments. A lone CR is treated as a line ending.
//
// The zero value is ready to use. A Decoder is not safe for concurrent use.
type Decoder struct {
	buf []byte
	cr  bool
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends fragment to the internal buffer and returns every frame that
// is now complete, in arrival order. Frames that contain only blank lines are
// not returned.
func (d *Decoder) Feed(fragment []byte) []string {
	for _, b := range fragment {
		if d.cr {
			d.cr = false
			d.buf = append(d.buf, '\n')
			if b == '\n' {
				continue
			}
		}
		if b == '\r' {
			d.cr = true
			continue
		}
		d.buf = append(d.buf, b)
	}

	var frames []string
	off := 0
	for {
		i := bytes.Index(d.buf[off:], frameDelimiter)
		if i < 0 {
			break
		}

		frame := d.buf[off : off+i]
		off += i + len(frameDelimiter)

		if len(bytes.TrimSpace(frame)) == 0 {
			continue
		}
		frames = append(frames, string(frame))
	}

	if off > 0 {
		d.buf = append(d.buf[:0], d.buf[off:]...)
	}

	return frames
}

// Remainder returns the buffered, unterminated trailing data. At end of input
// the remainder is dropped by callers; it never forms a frame.
func (d *Decoder) Remainder() []byte {
	if d.cr {
		return append(bytes.Clone(d.buf), '\n')
	}
	return bytes.Clone(d.buf)
}

// Reset discards any buffered data.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.cr = false
}
