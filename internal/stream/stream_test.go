package stream

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(e *Emitter) []Event {
	var events []Event
	for ev := range e.Events() {
		events = append(events, ev)
	}
	return events
}

func TestStreamOrderAndTerminal(t *testing.T) {
	e := NewEmitter(16)
	ctx := context.Background()

	go func() {
		e.Metadata(ctx, map[string]string{"candidate_id": "a"})
		e.Content(ctx, "Hello ")
		e.Content(ctx, "world")
		e.Done(ctx)
	}()

	events := collect(e)
	require.Len(t, events, 4)
	assert.Equal(t, EventMetadata, events[0].Type)
	assert.Equal(t, EventContent, events[1].Type)
	assert.Equal(t, EventContent, events[2].Type)
	assert.Equal(t, EventDone, events[3].Type)
}

func TestContentConcatenationReconstructsAnswer(t *testing.T) {
	e := NewEmitter(16)
	ctx := context.Background()
	deltas := []string{"The ", "best ", "candidate ", "is ", "Alice."}

	go func() {
		for _, d := range deltas {
			e.Content(ctx, d)
		}
		e.Done(ctx)
	}()

	var full strings.Builder
	var terminals int
	for ev := range e.Events() {
		switch ev.Type {
		case EventContent:
			full.WriteString(ev.Data.(string))
		case EventDone, EventError:
			terminals++
		}
	}
	assert.Equal(t, "The best candidate is Alice.", full.String())
	assert.Equal(t, 1, terminals)
}

func TestErrorIsTerminal(t *testing.T) {
	e := NewEmitter(16)
	ctx := context.Background()

	go func() {
		e.Content(ctx, "partial")
		e.Error(ctx, "index unavailable")
		e.Done(ctx) // must be dropped
		e.Content(ctx, "after terminal")
	}()

	events := collect(e)
	require.Len(t, events, 2)
	assert.Equal(t, EventContent, events[0].Type)
	assert.Equal(t, EventError, events[1].Type)
	assert.Equal(t, "index unavailable", events[1].Data)
}

func TestMetadataAfterContentDropped(t *testing.T) {
	e := NewEmitter(16)
	ctx := context.Background()

	go func() {
		e.Content(ctx, "text")
		e.Metadata(ctx, "late")
		e.Done(ctx)
	}()

	events := collect(e)
	require.Len(t, events, 2)
	assert.Equal(t, EventContent, events[0].Type)
	assert.Equal(t, EventDone, events[1].Type)
}

func TestDuplicateMetadataDropped(t *testing.T) {
	e := NewEmitter(16)
	ctx := context.Background()

	go func() {
		e.Metadata(ctx, "first")
		e.Metadata(ctx, "second")
		e.Done(ctx)
	}()

	events := collect(e)
	require.Len(t, events, 2)
	assert.Equal(t, "first", events[0].Data)
}

func TestCancelledConsumerStopsProducer(t *testing.T) {
	e := NewEmitter(0) // unbuffered so the producer blocks
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nobody is consuming; the cancelled context must unblock the send.
	ok := e.Content(ctx, "never delivered")
	assert.False(t, ok)

	// Stream is closed; later emissions are no-ops.
	assert.False(t, e.Content(context.Background(), "more"))
	_, open := <-e.Events()
	assert.False(t, open)
}

func TestWriteSSEFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSSE(&buf, Event{Type: EventContent, Data: "hi"}))
	assert.Equal(t, "data: {\"type\":\"content\",\"data\":\"hi\"}\n\n", buf.String())
}
