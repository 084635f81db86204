package faceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reply is the acknowledgement returned by the mutating endpoints.
// Success=false is a normal outcome ("face not recognized", "already marked today").
type Reply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Record is a single attendance log entry as reported by the backend.
type Record struct {
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date"`
}

// Image is the face photo uploaded on registration.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Client calls the face attendance backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client. A zero timeout leaves requests unbounded.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

// RegisterFace uploads a face image under name.
func (c *Client) RegisterFace(ctx context.Context, name string, image Image) (Reply, error) {
	var out Reply
	start := time.Now()
	err := c.postForm(ctx, opRegisterFace, "/register_face", name, &image, &out)
	observe(opRegisterFace, start, replyOutcome(out, err))
	return out, err
}

// MarkAttendance asks the backend to recognise and record name.
func (c *Client) MarkAttendance(ctx context.Context, name string) (Reply, error) {
	var out Reply
	start := time.Now()
	err := c.postForm(ctx, opMarkAttendance, "/mark_attendance", name, nil, &out)
	observe(opMarkAttendance, start, replyOutcome(out, err))
	return out, err
}

func (c *Client) postForm(ctx context.Context, op, path, name string, image *Image, out any) error {
	var buf bytes.Buffer
	contentType, err := writeForm(&buf, name, image)
	if err != nil {
		return fmt.Errorf("face service %s: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, &buf, contentType, out)
}

// writeForm encodes the name field and, when image is set, the image part.
func writeForm(dst io.Writer, name string, image *Image) (string, error) {
	w := multipart.NewWriter(dst)
	if err := w.WriteField("name", name); err != nil {
		return "", fmt.Errorf("%w: write name: %w", ErrRequest, err)
	}
	if image != nil {
		part, err := w.CreatePart(imagePartHeader(*image))
		if err != nil {
			return "", fmt.Errorf("%w: create image part: %w", ErrRequest, err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return "", fmt.Errorf("%w: write image: %w", ErrRequest, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: close form: %w", ErrRequest, err)
	}
	return w.FormDataContentType(), nil
}

// AttendanceRecords lists every attendance record in backend order.
func (c *Client) AttendanceRecords(ctx context.Context) ([]Record, error) {
	var out struct {
		Records []Record `json:"records"`
	}
	start := time.Now()
	err := c.do(ctx, opAttendanceRecords, http.MethodGet, "/attendance_records", nil, "", &out)
	observe(opAttendanceRecords, start, outcomeOf(err))
	if err != nil {
		return nil, err
	}
	if out.Records == nil {
		out.Records = []Record{}
	}
	return out.Records, nil
}

// RegisteredFaces lists the names known to the backend.
func (c *Client) RegisteredFaces(ctx context.Context) ([]string, error) {
	var out struct {
		Faces []string `json:"faces"`
	}
	start := time.Now()
	err := c.do(ctx, opRegisteredFaces, http.MethodGet, "/registered_faces", nil, "", &out)
	observe(opRegisteredFaces, start, outcomeOf(err))
	if err != nil {
		return nil, err
	}
	if out.Faces == nil {
		out.Faces = []string{}
	}
	return out.Faces, nil
}

// VideoFeedURL returns the MJPEG stream endpoint. No request is made.
func (c *Client) VideoFeedURL() string {
	return c.BaseURL + "/video_feed"
}

// Health checks if the backend answers at its root.
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	err := c.do(ctx, opHealth, http.MethodGet, "/", nil, "", nil)
	observe(opHealth, start, outcomeOf(err))
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("face service %s: %w: %w", op, ErrRequest, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("face service %s: %w: %w", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("face service %s: %w", op, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(bodyBytes)),
		})
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("face service %s: %w: %w", op, ErrDecode, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// imagePartHeader keeps the file's own content type on the part, the way a
// browser FormData upload does; multipart.CreateFormFile would force octet-stream.
func imagePartHeader(image Image) textproto.MIMEHeader {
	filename := image.Filename
	if filename == "" {
		filename = "image"
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	return h
}
