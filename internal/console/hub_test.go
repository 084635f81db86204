package console

import (
	"context"
	"testing"
	"time"

	"faceattend/internal/notice"
)

func TestHubFansOutAndClosesListeners(t *testing.T) {
	hub := NewHub()
	a, b := hub.AddListener(), hub.AddListener()

	src := make(chan notice.Notice)
	done := make(chan struct{})
	go func() {
		hub.Run(context.Background(), src)
		close(done)
	}()

	n := notice.New(notice.LevelInfo, "records", "hello", time.Now())
	src <- n
	for _, ch := range []chan notice.Notice{a, b} {
		select {
		case got := <-ch:
			if got.ID != n.ID {
				t.Fatalf("unexpected notice %+v", got)
			}
		case <-time.After(time.Second):
			t.Fatal("listener did not receive notice")
		}
	}

	hub.RemoveListener(a)
	if hub.Listeners() != 1 {
		t.Fatalf("expected 1 listener, got %d", hub.Listeners())
	}

	close(src)
	<-done
	if _, ok := <-b; ok {
		t.Fatal("expected listener closed when source ends")
	}
	if _, ok := <-hub.AddListener(); ok {
		t.Fatal("listeners added after shutdown must be closed")
	}
	hub.RemoveListener(b)
}

func TestHubDropsForSlowListener(t *testing.T) {
	hub := NewHub()
	ch := hub.AddListener()
	for i := 0; i < listenerBuffer+5; i++ {
		hub.Send(notice.New(notice.LevelInfo, "faces", "x", time.Now()))
	}
	if len(ch) != listenerBuffer {
		t.Fatalf("expected buffer full at %d, got %d", listenerBuffer, len(ch))
	}
}
