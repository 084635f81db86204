package notice

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryDeliversInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewInMemory(4)
	first := New(LevelSuccess, "registration", "Face registered", time.Now())
	second := New(LevelWarning, "marking", "Face not recognized", time.Now())
	for _, n := range []Notice{first, second} {
		if err := bus.Publish(ctx, n); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	ch, err := bus.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	for _, want := range []Notice{first, second} {
		select {
		case got := <-ch:
			if got.ID != want.ID || got.Text != want.Text {
				t.Fatalf("expected %+v, got %+v", want, got)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for notice")
		}
	}
}

func TestInMemoryPublishDoesNotBlockWhenFull(t *testing.T) {
	bus := NewInMemory(1)
	ctx := context.Background()
	if err := bus.Publish(ctx, New(LevelInfo, "video", "one", time.Now())); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	err := bus.Publish(ctx, New(LevelInfo, "video", "two", time.Now()))
	if !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
}

func TestConsumeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewInMemory(1).Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestEncodeDecodeKeepsFields(t *testing.T) {
	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	n := New(LevelError, "records", "Failed to load attendance records: boom", at)
	s, err := encode(n)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decode(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != n.ID || got.Level != n.Level || got.Workflow != n.Workflow || got.Text != n.Text || !got.At.Equal(n.At) {
		t.Fatalf("expected %+v, got %+v", n, got)
	}
	if _, err := decode("Type|Body"); err == nil {
		t.Fatal("expected decode error for non-JSON payload")
	}
}
