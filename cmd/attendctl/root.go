package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var backendFlag string
	var timeoutFlag time.Duration
	var jsonFlag bool

	ctx := newCommandContext(&backendFlag, &timeoutFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "attendctl",
		Short:         "Face attendance operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Recognition backend base URL (overrides BACKEND_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Per-request timeout (overrides BACKEND_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(newRegisterCommand(ctx))
	rootCmd.AddCommand(newMarkCommand(ctx))
	rootCmd.AddCommand(newRecordsCommand(ctx))
	rootCmd.AddCommand(newFacesCommand(ctx))
	rootCmd.AddCommand(newVideoURLCommand(ctx))
	rootCmd.AddCommand(newPingCommand(ctx))
	rootCmd.AddCommand(newNoticesCommand(ctx))

	return rootCmd
}
