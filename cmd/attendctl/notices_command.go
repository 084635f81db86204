package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"faceattend/internal/notice"
)

func newNoticesCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var follow bool
	cmd := &cobra.Command{
		Use:   "notices",
		Short: "Show operator notices shared over Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			bus := ctx.redisBus()
			recent, err := bus.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if err := printNotices(cmd, ctx.json(), recent); err != nil {
				return err
			}
			if !follow {
				return nil
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			live, err := bus.Consume(runCtx)
			if err != nil {
				return err
			}
			for n := range live {
				if ctx.json() {
					if err := writeJSON(cmd, n); err != nil {
						return err
					}
					continue
				}
				writeLine(cmd, formatNotice(n))
			}
			if err := runCtx.Err(); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of stored notices to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new notices")
	return cmd
}

func printNotices(cmd *cobra.Command, asJSON bool, notices []notice.Notice) error {
	if asJSON {
		return writeJSON(cmd, notices)
	}
	if len(notices) == 0 {
		writeLine(cmd, "No notices")
		return nil
	}
	rows := make([][]string, 0, len(notices))
	for _, n := range notices {
		rows = append(rows, []string{n.At.Local().Format(time.DateTime), string(n.Level), n.Workflow, n.Text})
	}
	writeLine(cmd, renderTable([]string{"When", "Level", "Workflow", "Message"}, rows))
	return nil
}

func formatNotice(n notice.Notice) string {
	return fmt.Sprintf("%s [%s] %s: %s", n.At.Local().Format(time.TimeOnly), n.Level, n.Workflow, n.Text)
}
