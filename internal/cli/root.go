// Package cli implements the geocam command-line interface: local key
// management, the two-phase signing flow against an in-process session
// manager, and verification/inspection of sealed images.
package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "geocam",
		Short: "Sign and verify geotagged camera images",
		Long: `geocam embeds a metadata record and a digital signature invisibly into the
alpha channel of a PNG image, and verifies that a sealed image's pixels and
metadata are unchanged since signing.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	logger := func() zerolog.Logger { return newLogger(verbose) }

	cmd.AddCommand(
		newKeygenCmd(),
		newKeysListCmd(),
		newSignCmd(logger),
		newVerifyCmd(),
		newInspectCmd(),
		newCIDCmd(),
	)
	return cmd
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
