package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mediabrowse/internal/config"
	"mediabrowse/internal/convert"
	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/files"
	"mediabrowse/internal/launcher"
	"mediabrowse/internal/log"
	"mediabrowse/internal/media"
	"mediabrowse/internal/rewrite"
	"mediabrowse/internal/tui"
	"mediabrowse/internal/tui/styles"
	"mediabrowse/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// options are the flags shared by every command.
type options struct {
	cfgFile string
	dir     string
	target  string
	theme   string
	logFile string
	debug   bool
	noWatch bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "mediabrowse [directory]",
		Short: "Browse directories and convert media for the web",
		Long: `mediabrowse is a terminal file browser for web projects.

Images are converted to .webp and videos to .mp4 with ffmpeg. When an .html or
.md file is set as target, references to a converted file are rewritten to
the new extension.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.dir = args[0]
			}
			return runBrowser(opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.config/mediabrowse/config.yaml)")
	flags.StringVar(&opts.theme, "theme", "", "color theme")
	flags.StringVar(&opts.logFile, "log-file", "", "append diagnostic log lines to this file")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug log lines")
	rootCmd.Flags().StringVar(&opts.dir, "dir", "", "directory to open")
	rootCmd.Flags().StringVar(&opts.target, "target", "", "bind an .html or .md file as reference target")
	rootCmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not refresh when the directory changes")

	rootCmd.AddCommand(newThemesCmd())
	rootCmd.AddCommand(newConvertCmd(opts))
	rootCmd.AddCommand(newRefsCmd(opts))

	return rootCmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.cfgFile != "" {
		cfg, err = config.LoadConfigFile(opts.cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	if opts.dir != "" {
		cfg.Browser.StartDir = opts.dir
	}
	if opts.target != "" {
		if !files.TargetExtensions.Has(opts.target) {
			return nil, serr.NewConfigError("target must be an .html or .md file", opts.target, serr.InvalidConfig, nil)
		}
		cfg.Browser.TargetFile = opts.target
	}
	if opts.theme != "" {
		cfg.ApplyTheme(opts.theme)
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.debug {
		cfg.Log.Debug = true
	}
	if opts.noWatch {
		cfg.Browser.Watch = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, serr.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// openLogger configures the package logger from cfg. Without a log file the
// output goes to fallback.
func openLogger(cfg *config.Config, fallback io.Writer) *log.Logger {
	logOpts := []log.Option{log.WithOutput(fallback), log.WithDebug(cfg.Log.Debug)}
	if cfg.Log.File != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755)
		logOpts = append(logOpts, log.WithFile(cfg.Log.File))
	}
	if cfg.Log.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	return log.Configure(logOpts...)
}

// services wires the collaborators shared by the browser and the headless
// commands.
type services struct {
	fs           *files.OS
	rewriter     *rewrite.Rewriter
	probe        *media.Probe
	describer    *media.Describer
	orchestrator *convert.Orchestrator
}

func newServices(cfg *config.Config, logger *log.Logger) *services {
	fs := files.NewOS()
	rw := rewrite.New(fs, logger)
	probe := media.NewProbe(cfg.Tools.FFmpeg, cfg.Tools.FFprobe, logger)

	describer := media.NewDescriber(fs, probe, probe, rw, logger)
	describer.ImageExts = cfg.Media.ImageExtensions
	describer.VideoExts = cfg.Media.VideoExtensions

	orch := convert.NewOrchestrator(cfg.Tools.FFmpeg, convert.NewExecRunner(logger), rw, logger)
	orch.ImageExts = cfg.Media.ImageExtensions
	orch.VideoExts = cfg.Media.VideoExtensions

	return &services{fs: fs, rewriter: rw, probe: probe, describer: describer, orchestrator: orch}
}

func runBrowser(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := openLogger(cfg, io.Discard)
	defer logger.Close()
	logger.With(log.F("version", version)).Info("starting")

	styles.Apply(cfg)
	svc := newServices(cfg, logger)

	deps := tui.Deps{
		FS:           svc.fs,
		Describer:    svc.describer,
		Images:       svc.probe,
		Orchestrator: svc.orchestrator,
		Launcher:     launcher.NewSystem(logger),
		Logger:       logger,
	}

	if cfg.Browser.Watch {
		w, err := watch.New(logger)
		if err != nil {
			logger.WithError(err).Warn("directory watching disabled")
		} else if err := w.Start(); err != nil {
			logger.WithError(err).Warn("directory watching disabled")
		} else {
			defer w.Stop()
			w.Ignore(cfg.Log.File)
			deps.Watcher = w
		}
	}

	p := tea.NewProgram(tui.New(cfg, deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}
