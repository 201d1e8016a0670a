package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hung319/askaiquestions2api/pkg/openai"
)

// Emitter slices a complete answer into delta chunks so that clients
// expecting token-by-token output see familiar behavior. The pacing is an
// illusion: the full text exists before the first chunk goes out.
//
// One Emitter is shared by all requests; it holds only immutable tuning, so
// concurrent emissions never interfere.
type Emitter struct {
	chunkSize int
	delay     time.Duration
}

// New validates the emission tuning. A chunk size below one would never
// advance the cursor, so it is rejected here instead of looping forever at
// request time.
func New(chunkSize int, delay time.Duration) (*Emitter, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("stream chunk size must be >= 1, got %d", chunkSize)
	}
	if delay < 0 {
		delay = 0
	}
	return &Emitter{chunkSize: chunkSize, delay: delay}, nil
}

// Emit writes the whole event sequence for one request: content chunks in
// text order, one stop chunk, then the [DONE] marker. Slicing is by rune so
// a multi-byte character is never split across events.
//
// A sink failure means the client went away: the loop stops without further
// writes. An internal fault is reported in-band as a final delta and the
// stream still terminates cleanly.
func (e *Emitter) Emit(ctx context.Context, sink Sink, text, requestID, model string) error {
	created := time.Now().Unix()

	runes := []rune(text)
	for off := 0; off < len(runes); off += e.chunkSize {
		end := off + e.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunk := openai.NewContentChunk(string(runes[off:end]), requestID, model, created)
		payload, err := json.Marshal(chunk)
		if err != nil {
			return e.abort(sink, requestID, model, created, err)
		}
		if err := sink.WriteEvent(payload); err != nil {
			return err
		}

		if end < len(runes) {
			if err := e.pause(ctx); err != nil {
				return err
			}
		}
	}

	return e.finish(sink, requestID, model, created)
}

// pause suspends between slices without holding a thread. Cancellation
// releases the wait immediately.
func (e *Emitter) pause(ctx context.Context) error {
	if e.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(e.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// abort reports a mid-emission fault to the client. Headers are long
// committed at this point, so the failure travels as one best-effort delta
// before the usual termination events.
func (e *Emitter) abort(sink Sink, requestID, model string, created int64, cause error) error {
	chunk := openai.NewContentChunk(fmt.Sprintf("\n[stream error: %v]", cause), requestID, model, created)
	if payload, err := json.Marshal(chunk); err == nil {
		if err := sink.WriteEvent(payload); err != nil {
			return cause
		}
	}
	if err := e.finish(sink, requestID, model, created); err != nil {
		return cause
	}
	return cause
}

// finish emits the stop chunk and the [DONE] marker. Every emission ends
// here exactly once, including for empty answers.
func (e *Emitter) finish(sink Sink, requestID, model string, created int64) error {
	payload, err := json.Marshal(openai.NewStopChunk(requestID, model, created))
	if err != nil {
		return err
	}
	if err := sink.WriteEvent(payload); err != nil {
		return err
	}
	return sink.WriteDone()
}
