package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"mediabrowse/internal/config"
	"mediabrowse/internal/convert"
	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/files"
	"mediabrowse/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available color themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListThemes() {
				theme := config.GetTheme(name)
				swatch := ""
				for _, key := range []string{"primary", "success", "warning", "error", "info", "emphasis"} {
					swatch += lipgloss.NewStyle().Foreground(lipgloss.Color(theme[key])).Render("██")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, swatch)
			}
		},
	}
}

func newConvertCmd(opts *options) *cobra.Command {
	var keepAudio bool

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert an image to .webp or a video to .mp4",
		Long: `Convert an image to .webp or a video to .mp4 with ffmpeg, without
starting the browser. With --target, references to the file are rewritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := openLogger(cfg, os.Stderr)
			defer logger.Close()
			styles.Apply(cfg)

			input, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			var plan convert.Plan
			switch {
			case files.ExtSet(cfg.Media.ImageExtensions).Has(input):
				plan = convert.PlanImageConversion(input)
			case files.ExtSet(cfg.Media.VideoExtensions).Has(input):
				plan = convert.PlanVideoConversion(input, keepAudio)
			default:
				return serr.Newf("%s is neither an image nor a video", args[0])
			}

			svc := newServices(cfg, logger)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.Theme.Muted.Render(plan.CommandLine(svc.orchestrator.Executable())))

			res := svc.orchestrator.Run(ctx, plan, cfg.Browser.TargetFile)
			if res.Err != nil {
				return serr.Wrapf(res.Err, "failed to convert %s", filepath.Base(input))
			}
			fmt.Fprintln(out, styles.Theme.Success.Render("Converted "+filepath.Base(input)+" to "+filepath.Base(plan.Output)))
			if res.RewriteErr != nil {
				return serr.New(res.Message())
			}
			if msg := res.Message(); msg != "" {
				fmt.Fprintln(out, styles.Theme.Info.Render(msg))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepAudio, "keep-audio", false, "re-encode the audio track instead of dropping it")
	cmd.Flags().StringVar(&opts.target, "target", "", "rewrite references in this .html or .md file")
	return cmd
}

func newRefsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs <file>",
		Short: "Count references to a media file in the target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.target == "" {
				return serr.New("--target is required")
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := openLogger(cfg, os.Stderr)
			defer logger.Close()

			name := filepath.Base(args[0])
			exts := files.ExtSet(cfg.Media.ImageExtensions)
			if files.ExtSet(cfg.Media.VideoExtensions).Has(name) {
				exts = cfg.Media.VideoExtensions
			}

			svc := newServices(cfg, logger)
			n := svc.rewriter.CountOccurrences(cfg.Browser.TargetFile, files.BaseName(name), exts)
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.target, "target", "", "the .html or .md file to search")
	return cmd
}
