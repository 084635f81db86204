package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"faceattend/internal/attendance"
)

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var name, image string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a face image under a name",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := attendance.LoadImageFile(image)
			if err != nil {
				return err
			}
			ctrl := ctx.controller(cmd.ErrOrStderr())
			ctrl.SetRegistrationName(name)
			if err := ctrl.SelectFile(cmd.Context(), file); err != nil {
				return fmt.Errorf("%s: %w", image, err)
			}
			if err := ctrl.SubmitRegistration(cmd.Context()); err != nil {
				return err
			}
			snap := ctrl.Snapshot()
			if ctx.json() {
				return writeJSON(cmd, snap)
			}
			writeLine(cmd, fmt.Sprintf("%d registered faces", len(snap.Faces)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Person name (at least 2 characters)")
	cmd.Flags().StringVar(&image, "image", "", "Path to the face image")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newMarkCommand(ctx *commandContext) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark attendance for a name",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := ctx.controller(cmd.ErrOrStderr())
			ctrl.SetAttendanceName(name)
			if err := ctrl.SubmitAttendance(cmd.Context()); err != nil {
				return err
			}
			if ctx.json() {
				return writeJSON(cmd, ctrl.Snapshot())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Person name")
	return cmd
}

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List attendance records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := ctx.controller(cmd.ErrOrStderr())
			if err := ctrl.RefreshRecords(cmd.Context()); err != nil {
				return err
			}
			records := ctrl.Snapshot().Records
			if ctx.json() {
				return writeJSON(cmd, records)
			}
			if len(records) == 0 {
				writeLine(cmd, "No attendance records")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for i, r := range records {
				rows = append(rows, []string{fmt.Sprint(i + 1), r.Name, r.Date, displayTime(r.Timestamp)})
			}
			writeLine(cmd, renderTable([]string{"#", "Name", "Date", "Time"}, rows, 0))
			return nil
		},
	}
}

func newFacesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "faces",
		Short: "List registered faces",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := ctx.controller(cmd.ErrOrStderr())
			if err := ctrl.RefreshFaces(cmd.Context()); err != nil {
				return err
			}
			faces := ctrl.Snapshot().Faces
			if ctx.json() {
				return writeJSON(cmd, faces)
			}
			if len(faces) == 0 {
				writeLine(cmd, "No registered faces")
				return nil
			}
			rows := make([][]string, 0, len(faces))
			for i, f := range faces {
				rows = append(rows, []string{fmt.Sprint(i + 1), f})
			}
			writeLine(cmd, renderTable([]string{"#", "Name"}, rows, 0))
			return nil
		},
	}
}

func newVideoURLCommand(ctx *commandContext) *cobra.Command {
	var retry bool
	cmd := &cobra.Command{
		Use:   "video-url",
		Short: "Print the live video feed URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := ctx.controller(cmd.ErrOrStderr())
			feed := ctrl.Snapshot().Video
			if retry {
				feed = ctrl.RetryVideoFeed()
			}
			if ctx.json() {
				return writeJSON(cmd, feed)
			}
			writeLine(cmd, feed.URL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&retry, "retry", false, "Print a cache-busting URL")
	return cmd
}

func newPingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the recognition backend answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ctx.client()
			if err := client.Health(cmd.Context()); err != nil {
				return err
			}
			writeLine(cmd, client.BaseURL+" ok")
			return nil
		},
	}
}

// displayTime renders a record timestamp the way the console shows it,
// falling back to the raw value.
func displayTime(raw string) string {
	t, ok := attendance.ParseTimestamp(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.Format("15:04:05")
}
