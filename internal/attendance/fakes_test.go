package attendance

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"faceattend/internal/faceclient"
	"faceattend/internal/notice"
)

const testVideoURL = "http://backend.test/video_feed"

type fakeGateway struct {
	mu sync.Mutex

	registerReply faceclient.Reply
	registerErr   error
	markReply     faceclient.Reply
	markErr       error
	records       []faceclient.Record
	recordsErr    error
	faces         []string
	facesErr      error

	// when set, the matching call blocks until the channel is closed
	registerGate chan struct{}
	markGate     chan struct{}
	recordsGate  chan struct{}

	registerStarted chan struct{}
	markStarted     chan struct{}
	recordsStarted  chan struct{}

	registerCalls int
	markCalls     int
	recordsCalls  int
	facesCalls    int
	lastName      string
	lastImage     faceclient.Image
}

func (g *fakeGateway) RegisterFace(ctx context.Context, name string, image faceclient.Image) (faceclient.Reply, error) {
	g.mu.Lock()
	g.registerCalls++
	g.lastName = name
	g.lastImage = image
	gate, started := g.registerGate, g.registerStarted
	reply, err := g.registerReply, g.registerErr
	g.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return reply, err
}

func (g *fakeGateway) MarkAttendance(ctx context.Context, name string) (faceclient.Reply, error) {
	g.mu.Lock()
	g.markCalls++
	g.lastName = name
	gate, started := g.markGate, g.markStarted
	reply, err := g.markReply, g.markErr
	g.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return reply, err
}

func (g *fakeGateway) AttendanceRecords(ctx context.Context) ([]faceclient.Record, error) {
	g.mu.Lock()
	g.recordsCalls++
	gate, started := g.recordsGate, g.recordsStarted
	records, err := append([]faceclient.Record(nil), g.records...), g.recordsErr
	g.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return records, err
}

func (g *fakeGateway) RegisteredFaces(ctx context.Context) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.facesCalls++
	return append([]string(nil), g.faces...), g.facesErr
}

func (g *fakeGateway) VideoFeedURL() string { return testVideoURL }

func (g *fakeGateway) calls() (register, mark, records, faces int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registerCalls, g.markCalls, g.recordsCalls, g.facesCalls
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice.Notice
}

func (r *recordingNotifier) Publish(ctx context.Context, n notice.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

func (r *recordingNotifier) all() []notice.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notice.Notice(nil), r.notices...)
}

func (r *recordingNotifier) last(t *testing.T) notice.Notice {
	t.Helper()
	all := r.all()
	if len(all) == 0 {
		t.Fatal("expected a notice")
	}
	return all[len(all)-1]
}

func newTestController(t *testing.T, gw *fakeGateway) (*Controller, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	clock := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	c := NewController(gw, n,
		WithLogger(log.New(io.Discard, "", 0)),
		WithClock(func() time.Time { return clock }),
	)
	return c, n
}

func pngFile() *ImageFile {
	return &ImageFile{Name: "alice.png", ContentType: "image/png", Data: []byte("png")}
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for gateway call")
	}
}
