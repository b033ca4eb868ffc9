package sse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer encodes events as SSE frames. Every frame is flushed to the
// underlying writer as soon as it is complete.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer encoding frames onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteEvent writes one frame. An empty name omits the "event:" line.
// Multi-line data is split across several "data:" lines.
func (w *Writer) WriteEvent(name string, data []byte) error {
	if name != "" {
		fmt.Fprintf(w.w, "event: %s\n", name)
	}
	for line := range strings.SplitSeq(string(data), "\n") {
		fmt.Fprintf(w.w, "data: %s\n", line)
	}
	w.w.WriteByte('\n')
	return w.w.Flush()
}

// WriteComment writes a comment frame, typically used as a keep-alive.
func (w *Writer) WriteComment(text string) error {
	fmt.Fprintf(w.w, ": %s\n\n", text)
	return w.w.Flush()
}

// WriteDone writes the terminal "[DONE]" sentinel.
func (w *Writer) WriteDone() error {
	return w.WriteEvent("", []byte(DoneSentinel))
}
