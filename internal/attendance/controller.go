package attendance

import (
	"context"
	"errors"
	"log"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"faceattend/internal/faceclient"
	"faceattend/internal/notice"
)

// Gateway is the backend surface the controller drives. *faceclient.Client implements it.
type Gateway interface {
	RegisterFace(ctx context.Context, name string, image faceclient.Image) (faceclient.Reply, error)
	MarkAttendance(ctx context.Context, name string) (faceclient.Reply, error)
	AttendanceRecords(ctx context.Context) ([]faceclient.Record, error)
	RegisteredFaces(ctx context.Context) ([]string, error)
	VideoFeedURL() string
}

// Notifier receives operator feedback. notice.Bus implementations satisfy it.
type Notifier interface {
	Publish(ctx context.Context, n notice.Notice) error
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, used for notice stamps and video cache-busting.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns the console state and coordinates the registration,
// marking and refresh workflows against the backend.
type Controller struct {
	gw       Gateway
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time

	mu             sync.Mutex
	registration   RegistrationForm
	file           *ImageFile
	attendance     AttendanceForm
	records        []faceclient.Record
	faces          []string
	ops            Operations
	recordsPending bool
	facesPending   bool
	videoBase      string
	video          VideoFeed
	lastBust       int64
	lastNotice     *notice.Notice
}

// NewController creates a controller. The video feed URL is resolved once here.
func NewController(gw Gateway, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		gw:       gw,
		notifier: notifier,
		logger:   log.Default(),
		now:      time.Now,
		records:  []faceclient.Record{},
		faces:    []string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.videoBase = gw.VideoFeedURL()
	c.video = VideoFeed{URL: c.videoBase}
	return c
}

// Mount performs the initial load of both lists.
func (c *Controller) Mount(ctx context.Context) error {
	var wg sync.WaitGroup
	var recordsErr, facesErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		recordsErr = c.RefreshRecords(ctx)
	}()
	go func() {
		defer wg.Done()
		facesErr = c.RefreshFaces(ctx)
	}()
	wg.Wait()
	return errors.Join(recordsErr, facesErr)
}

// SetRegistrationName records an edit of the registration name field.
func (c *Controller) SetRegistrationName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registration.Name = name
}

// SetAttendanceName records an edit of the mark-attendance name field.
func (c *Controller) SetAttendanceName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attendance.Name = name
}

// SelectFile stores f as the registration image if its declared type is an
// image type. Otherwise the current selection is left untouched.
func (c *Controller) SelectFile(ctx context.Context, f *ImageFile) error {
	if f == nil || !IsImageType(f.ContentType) {
		c.notify(ctx, notice.LevelWarning, WorkflowRegistration, msgInvalidFile)
		return ErrInvalidFile
	}
	selected := *f
	c.mu.Lock()
	c.file = &selected
	c.mu.Unlock()
	return nil
}

// ClearFile drops the selected registration image.
func (c *Controller) ClearFile() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = nil
}

// VideoFailed records that the viewer could not render the feed.
func (c *Controller) VideoFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.video.Errored = true
}

// RetryVideoFeed clears the error flag and points the feed at a fresh
// cache-busting URL. Every call yields a different URL.
func (c *Controller) RetryVideoFeed() VideoFeed {
	c.mu.Lock()
	defer c.mu.Unlock()

	bust := c.now().UnixMilli()
	if bust <= c.lastBust {
		bust = c.lastBust + 1
	}
	c.lastBust = bust
	c.video = VideoFeed{URL: withCacheBuster(c.videoBase, bust)}
	return c.video
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Registration: RegistrationView{
			Name:  c.registration.Name,
			Valid: c.registration.Valid(),
		},
		Attendance: AttendanceView{
			Name:  c.attendance.Name,
			Valid: c.attendance.Valid(),
		},
		Records:    slices.Clone(c.records),
		Faces:      slices.Clone(c.faces),
		Operations: c.ops,
		Video:      c.video,
	}
	if c.file != nil {
		s.Registration.File = &FileInfo{Name: c.file.Name, ContentType: c.file.ContentType, Size: len(c.file.Data)}
	}
	if c.lastNotice != nil {
		n := *c.lastNotice
		s.LastNotice = &n
	}
	return s
}

func (c *Controller) notify(ctx context.Context, level notice.Level, w Workflow, text string) {
	n := notice.New(level, string(w), text, c.now())
	c.mu.Lock()
	c.lastNotice = &n
	c.mu.Unlock()

	if c.notifier == nil {
		return
	}
	if err := c.notifier.Publish(context.WithoutCancel(ctx), n); err != nil {
		c.logger.Printf("notice publish failed (%s %q): %v", w, text, err)
	}
}

func withCacheBuster(base string, ms int64) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?t=" + strconv.FormatInt(ms, 10)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(ms, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
