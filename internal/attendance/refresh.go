package attendance

import (
	"context"
	"fmt"

	"faceattend/internal/faceclient"
	"faceattend/internal/notice"
)

// RefreshRecords reloads the attendance log and stores it newest first.
// A call made while a reload is in flight is folded into that reload, which
// then fetches once more before going idle.
func (c *Controller) RefreshRecords(ctx context.Context) error {
	return refresh(ctx, c, WorkflowRecords, &c.ops.Records, &c.recordsPending,
		c.gw.AttendanceRecords,
		func(records []faceclient.Record) { c.records = SortNewestFirst(records) },
		"Failed to load attendance records: ")
}

// RefreshFaces reloads the registered faces, kept in backend order.
func (c *Controller) RefreshFaces(ctx context.Context) error {
	return refresh(ctx, c, WorkflowFaces, &c.ops.Faces, &c.facesPending,
		c.gw.RegisteredFaces,
		func(faces []string) {
			if faces == nil {
				faces = []string{}
			}
			c.faces = faces
		},
		"Failed to load registered faces: ")
}

// refresh runs fetch under the workflow's own flag. apply is called with the
// controller lock held and must replace the stored list in one assignment.
func refresh[T any](
	ctx context.Context,
	c *Controller,
	w Workflow,
	state *OperationState,
	pending *bool,
	fetch func(context.Context) (T, error),
	apply func(T),
	failurePrefix string,
) error {
	c.mu.Lock()
	if *state == InFlight {
		*pending = true
		c.mu.Unlock()
		countOutcome(w, outcomeMerged)
		return nil
	}
	*state = InFlight
	c.mu.Unlock()

	for {
		result, err := fetch(ctx)

		c.mu.Lock()
		if err == nil {
			apply(result)
		}
		again := *pending
		*pending = false
		if !again {
			*state = Idle
		}
		c.mu.Unlock()

		if err != nil {
			countOutcome(w, outcomeFailed)
			c.logger.Printf("%s refresh failed: %v", w, err)
			c.notify(ctx, notice.LevelError, w, failurePrefix+describe(err))
		} else {
			countOutcome(w, outcomeSuccess)
		}
		if !again {
			if err != nil {
				return fmt.Errorf("%s refresh: %w", w, err)
			}
			return nil
		}
	}
}
