// Package stream replays a complete backend answer as a paced sequence of
// server-sent completion chunks.
package stream

import "bufio"

// Sink receives framed server-sent events. A write or flush failure is
// reported on the first call that observes it; the emitter treats that as a
// client disconnect and stops.
type Sink interface {
	// WriteEvent frames one JSON payload as an SSE data event.
	WriteEvent(data []byte) error

	// WriteDone emits the literal [DONE] termination marker.
	WriteDone() error
}

// SSEWriter frames events as "data: <json>\n\n" over a buffered writer,
// flushing after every event so slices reach the client as they are
// produced.
type SSEWriter struct {
	w *bufio.Writer
}

// NewSSEWriter wraps the response body writer of a streaming request.
func NewSSEWriter(w *bufio.Writer) *SSEWriter {
	return &SSEWriter{w: w}
}

func (s *SSEWriter) WriteEvent(data []byte) error {
	if _, err := s.w.WriteString("data: "); err != nil {
		return err
	}
	if _, err := s.w.Write(data); err != nil {
		return err
	}
	if _, err := s.w.WriteString("\n\n"); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *SSEWriter) WriteDone() error {
	if _, err := s.w.WriteString("data: [DONE]\n\n"); err != nil {
		return err
	}
	return s.w.Flush()
}
