package api

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

// ChatStreamWriter renders decode emissions as server-sent events. The
// decoder emits the full generated-so-far text each step; the writer keeps
// the previous emission and sends the delta alongside the cumulative text.
type ChatStreamWriter struct {
	w     io.Writer
	flush func()
	id    string
	last  string
	begun bool
}

func NewChatStreamWriter(c *echo.Context, id string) (*ChatStreamWriter, error) {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")

	flusher, ok := res.(interface{ Flush() })
	if !ok {
		return nil, fmt.Errorf("streaming unsupported")
	}

	return &ChatStreamWriter{
		w:     res,
		flush: flusher.Flush,
		id:    id,
	}, nil
}

// Started reports whether any event went out; after that point HTTP error
// responses are no longer possible.
func (s *ChatStreamWriter) Started() bool {
	return s.begun
}

// Emit sends one delta event for the cumulative text. Emissions are prefix
// extensions of each other, so the delta is the suffix beyond the previous
// one; if an emission ever shrinks the full text is resent.
func (s *ChatStreamWriter) Emit(text string) error {
	delta := text
	if len(text) >= len(s.last) && text[:len(s.last)] == s.last {
		delta = text[len(s.last):]
	}
	s.last = text
	if delta == "" {
		return nil
	}
	return s.send(ChatStreamEvent{
		ID:     s.id,
		Object: "chat.delta",
		Delta:  delta,
		Text:   text,
	})
}

// Done terminates the stream with the final text and usage.
func (s *ChatStreamWriter) Done(text string, usage ChatUsage) error {
	return s.send(ChatStreamEvent{
		ID:     s.id,
		Object: "chat.done",
		Text:   text,
		Usage:  &usage,
	})
}

// Failed terminates the stream with an error event. Text already emitted
// stays valid; nothing follows this event.
func (s *ChatStreamWriter) Failed(err error) error {
	return s.send(ChatStreamEvent{
		ID:     s.id,
		Object: "chat.error",
		Error: &ErrorBody{
			Message: err.Error(),
			Type:    "server_error",
		},
	})
}

func (s *ChatStreamWriter) send(event ChatStreamEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", b); err != nil {
		return err
	}
	s.begun = true
	s.flush()
	return nil
}
