package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventMetadata EventType = "metadata"
	EventContent  EventType = "content"
	EventDone     EventType = "done"
	EventError    EventType = "error"
)

// Event is one unit of an ordered, incrementally-delivered response. A
// stream is at most one metadata event, any number of content events, then
// exactly one done or error event.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// Emitter carries events from a single producer goroutine to one consumer.
// It enforces the stream ordering invariants: out-of-order or post-terminal
// events are dropped and logged instead of sent. Not safe for concurrent
// producers.
type Emitter struct {
	ch          chan Event
	metaSent    bool
	contentSent bool
	closed      bool
}

func NewEmitter(buffer int) *Emitter {
	return &Emitter{ch: make(chan Event, buffer)}
}

// Events is the consumer side. The channel is closed after the terminal
// event (or on cancellation), so consumers can simply range over it.
func (e *Emitter) Events() <-chan Event {
	return e.ch
}

// Metadata emits the stream's single leading metadata event. Returns false
// when the producer should stop (consumer gone).
func (e *Emitter) Metadata(ctx context.Context, data any) bool {
	if e.closed {
		return false
	}
	if e.metaSent || e.contentSent {
		log.Error().Msg("Dropping out-of-order metadata event")
		return true
	}
	e.metaSent = true
	return e.send(ctx, Event{Type: EventMetadata, Data: data})
}

// Content emits one incremental text fragment. Concatenating all content
// payloads in emission order reconstructs the full answer.
func (e *Emitter) Content(ctx context.Context, text string) bool {
	if e.closed {
		return false
	}
	if text == "" {
		return true
	}
	e.contentSent = true
	return e.send(ctx, Event{Type: EventContent, Data: text})
}

// Done terminates the stream successfully.
func (e *Emitter) Done(ctx context.Context) {
	e.terminate(ctx, Event{Type: EventDone})
}

// Error terminates the stream with a human-readable message.
func (e *Emitter) Error(ctx context.Context, msg string) {
	e.terminate(ctx, Event{Type: EventError, Data: msg})
}

func (e *Emitter) terminate(ctx context.Context, ev Event) {
	if e.closed {
		log.Error().Str("type", string(ev.Type)).Msg("Dropping duplicate terminal event")
		return
	}
	e.send(ctx, ev)
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}

// send blocks until the consumer takes the event, giving natural
// backpressure. A cancelled context closes the stream instead of blocking
// forever on a consumer that went away.
func (e *Emitter) send(ctx context.Context, ev Event) bool {
	select {
	case e.ch <- ev:
		return true
	case <-ctx.Done():
		e.closed = true
		close(e.ch)
		return false
	}
}

// WriteSSE frames one event as a text-event-stream line:
// "data: {json}" followed by a blank line.
func WriteSSE(w io.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
