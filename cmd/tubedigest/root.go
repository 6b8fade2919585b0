package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"TubeDigest/internal/app"
	"TubeDigest/internal/config"
	"TubeDigest/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// NewRootCommand returns the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tubedigest",
		Short:         "Summarize new YouTube videos into a Telegram chat.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to the YAML configuration (defaults to $TUBEDIGEST_CONFIG or configs/config.yml)")

	build := func(ctx context.Context) (*app.Application, *slog.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
		application, err := app.New(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return application, logger, nil
	}

	rootCmd.AddCommand(newRunCommand(build))
	rootCmd.AddCommand(newResumeCommand(build))
	rootCmd.AddCommand(newWatchCommand(build))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

type buildFunc func(ctx context.Context) (*app.Application, *slog.Logger, error)

func newRunCommand(build buildFunc) *cobra.Command {
	var opts app.RunOptions

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Poll every channel once and deliver new summaries",
		Example: "$ tubedigest run --channel veritasium --digest",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, logger, err := build(cmd.Context())
			if err != nil {
				return err
			}

			reports, err := application.Run(cmd.Context(), opts)
			for _, r := range reports {
				logger.Info("source finished",
					"source", r.Source,
					"run_id", r.RunID,
					"processed", len(r.Videos),
					"summarized", len(r.Summarized()))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Channel, "channel", "", "run a single configured channel")
	cmd.Flags().BoolVar(&opts.Digest, "digest", false, "send a combined digest after the run")
	return cmd
}

func newResumeCommand(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "resume <channel> <videoID>",
		Short:   "Continue processing one cached video",
		Example: "$ tubedigest resume veritasium dQw4w9WgXcQ",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _, err := build(cmd.Context())
			if err != nil {
				return err
			}

			video, err := application.Resume(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s delivered=%t\n", video.VideoID, video.Status, video.Delivered)
			return nil
		},
	}
}

func newWatchCommand(build buildFunc) *cobra.Command {
	var digest bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run every channel on the configured interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, _, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return application.Watch(cmd.Context(), digest)
		},
	}
	cmd.Flags().BoolVar(&digest, "digest", false, "send a combined digest after every run")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tubedigest", version)
		},
	}
}
