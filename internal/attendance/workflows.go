package attendance

import (
	"context"
	"strings"

	"faceattend/internal/notice"
)

const (
	msgInvalidFile            = "Please select a valid image file"
	msgRegistrationIncomplete = "Please fill in the name and select an image file"
	msgAttendanceIncomplete   = "Please enter a name"
	msgRegistrationBusy       = "Registration is already in progress"
	msgAttendanceBusy         = "Attendance marking is already in progress"
	msgUnreachable            = "backend unreachable"
)

// SubmitRegistration registers the selected image under the form name.
//
// It returns ErrBusy or ErrInvalidForm without contacting the backend, a
// *RejectedError when the backend answers success=false, or the gateway error.
// On success the form and file are cleared and the faces list is refreshed.
func (c *Controller) SubmitRegistration(ctx context.Context) error {
	c.mu.Lock()
	if c.ops.Registration == InFlight {
		c.mu.Unlock()
		countOutcome(WorkflowRegistration, outcomeBusy)
		c.notify(ctx, notice.LevelInfo, WorkflowRegistration, msgRegistrationBusy)
		return ErrBusy
	}
	form, file := c.registration, c.file
	if !form.Valid() || file == nil {
		c.mu.Unlock()
		countOutcome(WorkflowRegistration, outcomeInvalid)
		c.notify(ctx, notice.LevelWarning, WorkflowRegistration, msgRegistrationIncomplete)
		return ErrInvalidForm
	}
	c.ops.Registration = InFlight
	c.mu.Unlock()

	name := strings.TrimSpace(form.Name)
	reply, err := c.gw.RegisterFace(ctx, name, file.upload())

	c.mu.Lock()
	c.ops.Registration = Idle
	if err == nil && reply.Success {
		c.registration = RegistrationForm{}
		c.file = nil
	}
	c.mu.Unlock()

	switch {
	case err != nil:
		countOutcome(WorkflowRegistration, outcomeFailed)
		c.logger.Printf("register face %q failed: %v", name, err)
		c.notify(ctx, notice.LevelError, WorkflowRegistration, "Registration failed: "+describe(err))
		return err
	case !reply.Success:
		countOutcome(WorkflowRegistration, outcomeRejected)
		c.notify(ctx, notice.LevelError, WorkflowRegistration, "Registration failed: "+reply.Message)
		return &RejectedError{Workflow: WorkflowRegistration, Message: reply.Message}
	}

	countOutcome(WorkflowRegistration, outcomeSuccess)
	c.notify(ctx, notice.LevelSuccess, WorkflowRegistration, reply.Message)
	// Refresh failures surface through their own notice.
	_ = c.RefreshFaces(ctx)
	return nil
}

// SubmitAttendance marks attendance for the form name.
//
// A success=false reply ("no face detected", "already marked today") is
// surfaced as a warning rather than an error and leaves the form as it was.
func (c *Controller) SubmitAttendance(ctx context.Context) error {
	c.mu.Lock()
	if c.ops.Marking == InFlight {
		c.mu.Unlock()
		countOutcome(WorkflowMarking, outcomeBusy)
		c.notify(ctx, notice.LevelInfo, WorkflowMarking, msgAttendanceBusy)
		return ErrBusy
	}
	form := c.attendance
	if !form.Valid() {
		c.mu.Unlock()
		countOutcome(WorkflowMarking, outcomeInvalid)
		c.notify(ctx, notice.LevelWarning, WorkflowMarking, msgAttendanceIncomplete)
		return ErrInvalidForm
	}
	c.ops.Marking = InFlight
	c.mu.Unlock()

	name := strings.TrimSpace(form.Name)
	reply, err := c.gw.MarkAttendance(ctx, name)

	c.mu.Lock()
	c.ops.Marking = Idle
	if err == nil && reply.Success {
		c.attendance = AttendanceForm{}
	}
	c.mu.Unlock()

	switch {
	case err != nil:
		countOutcome(WorkflowMarking, outcomeFailed)
		c.logger.Printf("mark attendance %q failed: %v", name, err)
		c.notify(ctx, notice.LevelError, WorkflowMarking, "Failed to mark attendance: "+describe(err))
		return err
	case !reply.Success:
		countOutcome(WorkflowMarking, outcomeRejected)
		c.notify(ctx, notice.LevelWarning, WorkflowMarking, reply.Message)
		return &RejectedError{Workflow: WorkflowMarking, Message: reply.Message}
	}

	countOutcome(WorkflowMarking, outcomeSuccess)
	c.notify(ctx, notice.LevelSuccess, WorkflowMarking, reply.Message)
	_ = c.RefreshRecords(ctx)
	return nil
}

func describe(err error) string {
	if err == nil {
		return msgUnreachable
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return msgUnreachable
}
