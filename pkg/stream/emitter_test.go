package stream_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hung319/askaiquestions2api/pkg/openai"
	"github.com/hung319/askaiquestions2api/pkg/stream"
)

// recordingSink captures emitted events in order. When failAfter > 0,
// WriteEvent fails once that many events have been accepted, simulating a
// client disconnect.
type recordingSink struct {
	events    []openai.Chunk
	raw       []string
	done      int
	failAfter int
}

func (s *recordingSink) WriteEvent(data []byte) error {
	if s.failAfter > 0 && len(s.raw) >= s.failAfter {
		return errors.New("connection reset")
	}

	var chunk openai.Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return err
	}
	s.raw = append(s.raw, string(data))
	s.events = append(s.events, chunk)
	return nil
}

func (s *recordingSink) WriteDone() error {
	s.done++
	return nil
}

// contentOf reassembles all delta contents in emission order.
func contentOf(chunks []openai.Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		for _, choice := range c.Choices {
			b.WriteString(choice.Delta.Content)
		}
	}
	return b.String()
}

var _ = Describe("Emitter", func() {
	emit := func(chunkSize int, delay time.Duration, text string) (*recordingSink, error) {
		e, err := stream.New(chunkSize, delay)
		Expect(err).NotTo(HaveOccurred())
		sink := &recordingSink{}
		return sink, e.Emit(context.Background(), sink, text, "req-1", "ask-ai-v1")
	}

	Describe("construction", func() {
		It("rejects a zero chunk size", func() {
			_, err := stream.New(0, 0)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a negative chunk size", func() {
			_, err := stream.New(-3, 0)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("slicing", func() {
		DescribeTable("reassembles the original text losslessly",
			func(text string, chunkSize, wantChunks int) {
				sink, err := emit(chunkSize, 0, text)
				Expect(err).NotTo(HaveOccurred())

				// All events but the terminal one carry content.
				content := sink.events[:len(sink.events)-1]
				Expect(content).To(HaveLen(wantChunks))
				Expect(contentOf(content)).To(Equal(text))
			},
			Entry("even split", "abcd", 2, 2),
			Entry("short final slice", "abcde", 2, 3),
			Entry("chunk larger than text", "hi", 10, 1),
			Entry("single characters", "hello", 1, 5),
			Entry("whole text at once", "whole", 5, 1),
		)

		It("emits the documented sequence for chunk size 2 over \"abcd\"", func() {
			sink, err := emit(2, 0, "abcd")
			Expect(err).NotTo(HaveOccurred())

			Expect(sink.events).To(HaveLen(3))
			Expect(sink.events[0].Choices[0].Delta.Content).To(Equal("ab"))
			Expect(sink.events[1].Choices[0].Delta.Content).To(Equal("cd"))
			Expect(sink.events[2].Choices[0].FinishReason).To(HaveValue(Equal("stop")))
			Expect(sink.done).To(Equal(1))
		})

		It("slices by rune, never splitting a multi-byte character", func() {
			text := "héllo → 日本語のテキスト"
			sink, err := emit(2, 0, text)
			Expect(err).NotTo(HaveOccurred())

			content := sink.events[:len(sink.events)-1]
			for _, c := range content {
				Expect(utf8.ValidString(c.Choices[0].Delta.Content)).To(BeTrue())
			}
			Expect(contentOf(content)).To(Equal(text))
		})
	})

	Describe("termination", func() {
		It("always ends with one stop chunk and one done marker", func() {
			sink, err := emit(3, 0, "some answer text")
			Expect(err).NotTo(HaveOccurred())

			last := sink.events[len(sink.events)-1]
			Expect(last.Choices[0].FinishReason).To(HaveValue(Equal("stop")))
			Expect(last.Choices[0].Delta.Content).To(BeEmpty())
			Expect(sink.done).To(Equal(1))

			for _, c := range sink.events[:len(sink.events)-1] {
				Expect(c.Choices[0].FinishReason).To(BeNil())
			}
		})

		It("emits only the terminal events for an empty answer", func() {
			sink, err := emit(4, 0, "")
			Expect(err).NotTo(HaveOccurred())

			Expect(sink.events).To(HaveLen(1))
			Expect(sink.events[0].Choices[0].FinishReason).To(HaveValue(Equal("stop")))
			Expect(sink.done).To(Equal(1))
		})

		It("keeps finish_reason explicitly null on content chunks", func() {
			sink, err := emit(2, 0, "abcd")
			Expect(err).NotTo(HaveOccurred())

			var decoded map[string]any
			Expect(json.Unmarshal([]byte(sink.raw[0]), &decoded)).To(Succeed())
			choices := decoded["choices"].([]any)
			choice := choices[0].(map[string]any)
			Expect(choice).To(HaveKey("finish_reason"))
			Expect(choice["finish_reason"]).To(BeNil())
			Expect(decoded["object"]).To(Equal("chat.completion.chunk"))
			Expect(decoded["id"]).To(Equal("chatcmpl-req-1"))
		})
	})

	Describe("pacing", func() {
		It("pauses between slices", func() {
			start := time.Now()
			_, err := emit(1, 5*time.Millisecond, "abc")
			Expect(err).NotTo(HaveOccurred())

			// Two inter-slice pauses for three slices.
			Expect(time.Since(start)).To(BeNumerically(">=", 10*time.Millisecond))
		})

		It("releases a pending pause on cancellation", func() {
			e, err := stream.New(1, time.Hour)
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			sink := &recordingSink{}
			err = e.Emit(ctx, sink, "ab", "req-1", "ask-ai-v1")
			Expect(err).To(MatchError(context.Canceled))

			// The first slice was already out; nothing follows the
			// cancelled pause, not even the terminal events.
			Expect(sink.events).To(HaveLen(1))
			Expect(sink.done).To(BeZero())
		})
	})

	Describe("disconnection", func() {
		It("stops writing after the sink fails", func() {
			e, err := stream.New(1, 0)
			Expect(err).NotTo(HaveOccurred())

			sink := &recordingSink{failAfter: 2}
			err = e.Emit(context.Background(), sink, "abcdef", "req-1", "ask-ai-v1")
			Expect(err).To(HaveOccurred())

			Expect(sink.events).To(HaveLen(2))
			Expect(sink.done).To(BeZero())
		})
	})
})
