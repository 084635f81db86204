package console

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"faceattend/internal/attendance"
	"faceattend/internal/faceclient"
)

const maxUpload = 16 << 20

// result is the body of every mutating call: the outcome plus the state after it.
type result struct {
	State    attendance.Snapshot `json:"state"`
	Rejected bool                `json:"rejected,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *handler) respond(c *gin.Context, err error) {
	body := result{}
	status := http.StatusOK

	var rejected *attendance.RejectedError
	switch {
	case err == nil:
	case errors.As(err, &rejected):
		body.Rejected = true
		body.Error = rejected.Message
	case errors.Is(err, attendance.ErrInvalidForm):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, attendance.ErrInvalidFile):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, attendance.ErrBusy):
		status = http.StatusConflict
	case faceclient.IsFailure(err):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	if err != nil && body.Error == "" {
		body.Error = err.Error()
	}
	body.State = h.ctrl.Snapshot()
	c.JSON(status, body)
}

func (h *handler) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

func (h *handler) setRegistrationName(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.ctrl.SetRegistrationName(req.Name)
	h.respond(c, nil)
}

func (h *handler) setAttendanceName(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.ctrl.SetAttendanceName(req.Name)
	h.respond(c, nil)
}

func (h *handler) selectFile(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image field required"})
		return
	}
	if header.Size > maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("image larger than %d bytes", maxUpload)})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read image failed"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read image failed"})
		return
	}

	h.respond(c, h.ctrl.SelectFile(c.Request.Context(), &attendance.ImageFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}))
}

func (h *handler) clearFile(c *gin.Context) {
	h.ctrl.ClearFile()
	h.respond(c, nil)
}

func (h *handler) submitRegistration(c *gin.Context) {
	h.respond(c, h.ctrl.SubmitRegistration(c.Request.Context()))
}

func (h *handler) submitAttendance(c *gin.Context) {
	h.respond(c, h.ctrl.SubmitAttendance(c.Request.Context()))
}

func (h *handler) refreshRecords(c *gin.Context) {
	h.respond(c, h.ctrl.RefreshRecords(c.Request.Context()))
}

func (h *handler) refreshFaces(c *gin.Context) {
	h.respond(c, h.ctrl.RefreshFaces(c.Request.Context()))
}

func (h *handler) videoFailed(c *gin.Context) {
	h.ctrl.VideoFailed()
	h.respond(c, nil)
}

func (h *handler) retryVideo(c *gin.Context) {
	h.ctrl.RetryVideoFeed()
	h.respond(c, nil)
}

// notices streams bus notices as server-sent events until the client leaves.
func (h *handler) notices(c *gin.Context) {
	ch := h.hub.AddListener()
	defer h.hub.RemoveListener(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("notice", n)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
