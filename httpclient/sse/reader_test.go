package sse

import (
	"io"
	"strings"
	"testing"
)

func TestReader_Events(t *testing.T) {
	stream := ": comment\n" +
		"event: greeting\n" +
		"id: 1\n" +
		"data: hello\n" +
		"\n" +
		"data: line one\n" +
		"data: line two\n" +
		"retry: 1500\n" +
		"\n"

	r := NewReader(strings.NewReader(stream))

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Event != "greeting" || ev.ID != "1" || ev.Data != "hello" {
		t.Errorf("unexpected first event: %+v", ev)
	}

	ev, err = r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Data != "line one\nline two" {
		t.Errorf("expected joined data, got %q", ev.Data)
	}
	if ev.Retry != 1500 {
		t.Errorf("expected retry 1500, got %d", ev.Retry)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReader_TrailingEventWithoutBlankLine(t *testing.T) {
	r := NewReader(strings.NewReader("data: last"))
	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Data != "last" {
		t.Errorf("expected last, got %q", ev.Data)
	}
}

func TestReader_FieldWithoutValue(t *testing.T) {
	r := NewReader(strings.NewReader("data\n\n"))
	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Data != "" {
		t.Errorf("expected empty data, got %q", ev.Data)
	}
}

func TestReadAll(t *testing.T) {
	events, err := ReadAll(strings.NewReader("data: a\n\ndata: b\n\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Data != "a" || events[1].Data != "b" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestReadAll_Empty(t *testing.T) {
	events, err := ReadAll(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
