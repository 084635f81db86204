package attendance

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"faceattend/internal/faceclient"
	"faceattend/internal/notice"
)

// Workflow names one independently scheduled operation.
type Workflow string

const (
	WorkflowRegistration Workflow = "registration"
	WorkflowMarking      Workflow = "marking"
	WorkflowRecords      Workflow = "records"
	WorkflowFaces        Workflow = "faces"
)

// OperationState is the Idle/InFlight flag owned by a single workflow.
type OperationState int

const (
	Idle OperationState = iota
	InFlight
)

func (s OperationState) String() string {
	if s == InFlight {
		return "in_flight"
	}
	return "idle"
}

// MarshalText renders the state as "idle" or "in_flight".
func (s OperationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the forms produced by MarshalText.
func (s *OperationState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "in_flight":
		*s = InFlight
	default:
		return fmt.Errorf("unknown operation state %q", b)
	}
	return nil
}

// Operations holds one flag per workflow.
type Operations struct {
	Registration OperationState `json:"registration"`
	Marking      OperationState `json:"marking"`
	Records      OperationState `json:"records"`
	Faces        OperationState `json:"faces"`
}

const minRegistrationName = 2

// RegistrationForm is the register-face form.
type RegistrationForm struct {
	Name string
}

// Valid reports whether the name is filled in and at least two characters long.
func (f RegistrationForm) Valid() bool {
	return utf8.RuneCountInString(strings.TrimSpace(f.Name)) >= minRegistrationName
}

// AttendanceForm is the mark-attendance form.
type AttendanceForm struct {
	Name string
}

// Valid reports whether a name was entered.
func (f AttendanceForm) Valid() bool {
	return strings.TrimSpace(f.Name) != ""
}

// ImageFile is a file picked by the operator. ContentType is what the picker
// declared, not what the bytes contain.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsImageType reports whether a declared content type is an image type.
func IsImageType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "image/") && len(ct) > len("image/")
}

func (f *ImageFile) upload() faceclient.Image {
	return faceclient.Image{Filename: f.Name, ContentType: f.ContentType, Data: f.Data}
}

// FileInfo describes the selected file without its bytes.
type FileInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// VideoFeed is the live stream endpoint and whether the viewer reported it broken.
type VideoFeed struct {
	URL     string `json:"url"`
	Errored bool   `json:"errored"`
}

// RegistrationView is the registration form as the presentation sees it.
type RegistrationView struct {
	Name  string    `json:"name"`
	Valid bool      `json:"valid"`
	File  *FileInfo `json:"file"`
}

// AttendanceView is the mark-attendance form as the presentation sees it.
type AttendanceView struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Registration RegistrationView    `json:"registration"`
	Attendance   AttendanceView      `json:"attendance"`
	Records      []faceclient.Record `json:"records"`
	Faces        []string            `json:"faces"`
	Operations   Operations          `json:"operations"`
	Video        VideoFeed           `json:"video"`
	LastNotice   *notice.Notice      `json:"last_notice,omitempty"`
}
