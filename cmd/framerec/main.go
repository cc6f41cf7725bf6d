// Package main provides the CLI entry point for framerec.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faiface/mainthread"
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framerec/pkg/adapters/chromesource"
	"github.com/user/framerec/pkg/adapters/dirlock"
	"github.com/user/framerec/pkg/adapters/executor"
	"github.com/user/framerec/pkg/adapters/ffmpeg"
	"github.com/user/framerec/pkg/adapters/imagecodec"
	"github.com/user/framerec/pkg/adapters/logger"
	"github.com/user/framerec/pkg/adapters/mp4probe"
	"github.com/user/framerec/pkg/adapters/osfilesystem"
	"github.com/user/framerec/pkg/adapters/patternsource"
	"github.com/user/framerec/pkg/adapters/promstats"
	"github.com/user/framerec/pkg/adapters/screensource"
	"github.com/user/framerec/pkg/config"
	"github.com/user/framerec/pkg/ports"
	"github.com/user/framerec/pkg/recorder"
	"github.com/user/framerec/pkg/summarizer"
)

var version = "dev"

func main() {
	var err error
	// Pixel reads may be marshalled to the main OS thread, so the CLI runs
	// on a secondary goroutine.
	mainthread.Run(func() {
		err = newApp().Run(os.Args)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "framerec",
		Usage:   l10n.T("Record rendered frames to a video file"),
		Version: version,
		Commands: []*cli.Command{
			recordCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("framerec version %s", version))
					return nil
				},
			},
		},
	}
}

func recordCommand() *cli.Command {
	const (
		catCapture = "Capture"
		catSource  = "Source"
		catEncode  = "Encoding"
		catOutput  = "Output"
		catLog     = "Logging"
	)
	return &cli.Command{
		Name:      "record",
		Usage:     l10n.T("Record frames from a source and encode them"),
		ArgsUsage: "[output.mp4]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: l10n.T("YAML configuration file")},

			&cli.IntFlag{Name: "capture-fps", Category: l10n.T(catCapture), Usage: l10n.T("Maximum captured frames per second (0 = unlimited)")},
			&cli.IntFlag{Name: "render-fps", Category: l10n.T(catCapture), Usage: l10n.T("Render loop ticks per second")},
			&cli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Category: l10n.T(catCapture), Usage: l10n.T("Recording length (0 = until interrupted)")},
			&cli.StringFlag{Name: "region", Category: l10n.T(catCapture), Usage: l10n.T("Capture region as left,top,width,height")},
			&cli.StringFlag{Name: "executor", Category: l10n.T(catCapture), Usage: l10n.T("Pixel read executor (inline, loop, main)")},
			&cli.StringFlag{Name: "image-format", Category: l10n.T(catCapture), Usage: l10n.T("Frame file format (bmp, png, jpg)")},
			&cli.StringFlag{Name: "temp-dir", Category: l10n.T(catCapture), Usage: l10n.T("Directory for frame files")},

			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Category: l10n.T(catSource), Usage: l10n.T("Frame source (pattern, screen, chrome)")},
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Category: l10n.T(catSource), Usage: l10n.T("Source width")},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Category: l10n.T(catSource), Usage: l10n.T("Source height")},
			&cli.StringFlag{Name: "url", Category: l10n.T(catSource), Usage: l10n.T("Page URL for the chrome source")},
			&cli.StringFlag{Name: "chrome-path", Category: l10n.T(catSource), Usage: l10n.T("Path to Chrome executable (falls back to CHROME_PATH env, then system default)")},
			&cli.BoolFlag{Name: "no-headless", Category: l10n.T(catSource), Usage: l10n.T("Run browser in non-headless mode")},

			&cli.IntFlag{Name: "frame-rate", Aliases: []string{"r"}, Category: l10n.T(catEncode), Usage: l10n.T("Frame rate of the encoded video")},
			&cli.StringFlag{Name: "encoder", Category: l10n.T(catEncode), Usage: l10n.T("Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)")},
			&cli.StringFlag{Name: "encoder-params", Category: l10n.T(catEncode), Usage: l10n.T("Extra encoder arguments")},

			&cli.StringFlag{Name: "output-dir", Category: l10n.T(catOutput), Usage: l10n.T("Directory for auto-named videos")},
			&cli.StringFlag{Name: "summary", Category: l10n.T(catOutput), Usage: l10n.T("Write a Markdown session summary to this path")},
			&cli.StringFlag{Name: "metrics-addr", Category: l10n.T(catOutput), Usage: l10n.T("Serve Prometheus metrics on this address")},

			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T(catLog), Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.StringFlag{Name: "log-format", Category: l10n.T(catLog), Usage: l10n.T("Log format (console, json)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: l10n.T(catLog), Usage: l10n.T("Suppress all log output")},
		},
		Action: runRecord,
	}
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("capture-fps") {
		cfg.CaptureFPS = c.Int("capture-fps")
	}
	if c.IsSet("render-fps") {
		cfg.RenderFPS = c.Int("render-fps")
	}
	if c.IsSet("duration") {
		cfg.DurationMs = int(c.Duration("duration").Milliseconds())
	}
	if c.IsSet("region") {
		cfg.Region = c.String("region")
	}
	if c.IsSet("executor") {
		cfg.Executor = c.String("executor")
	}
	if c.IsSet("image-format") {
		cfg.ImageFormat = c.String("image-format")
	}
	if c.IsSet("temp-dir") {
		cfg.TempDir = c.String("temp-dir")
	}
	if c.IsSet("source") {
		cfg.Source.Type = c.String("source")
	}
	if c.IsSet("width") {
		cfg.Source.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Source.Height = c.Int("height")
	}
	if c.IsSet("url") {
		cfg.Source.URL = c.String("url")
	}
	if c.IsSet("chrome-path") {
		cfg.Source.ChromePath = c.String("chrome-path")
	}
	if c.Bool("no-headless") {
		cfg.Source.Headless = false
	}
	if c.IsSet("frame-rate") {
		cfg.FrameRate = c.Int("frame-rate")
	}
	if c.IsSet("encoder") {
		cfg.EncoderPath = c.String("encoder")
	}
	if c.IsSet("encoder-params") {
		cfg.EncoderParams = c.String("encoder-params")
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("summary") {
		cfg.SummaryPath = c.String("summary")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	if c.Bool("quiet") {
		cfg.LogLevel = "quiet"
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) ports.Logger {
	level := ports.ParseLogLevel(cfg.LogLevel)
	if level == ports.LevelQuiet {
		return logger.NewNoop()
	}
	if cfg.LogFormat == "json" {
		return logger.NewJSON(level)
	}
	return logger.NewConsole(level)
}

// openSource creates the configured source and a function releasing it.
func openSource(ctx context.Context, cfg config.Config) (ports.FrameSource, func(), error) {
	switch cfg.Source.Type {
	case config.SourceScreen:
		src, err := screensource.New()
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	case config.SourceChrome:
		src := chromesource.New()
		err := src.Launch(ctx, chromesource.Options{
			URL:        cfg.Source.URL,
			Width:      cfg.Source.Width,
			Height:     cfg.Source.Height,
			ChromePath: cfg.Source.ChromePath,
			Headless:   cfg.Source.Headless,
		})
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return patternsource.New(cfg.Source.Width, cfg.Source.Height), func() {}, nil
	}
}

// newReadExecutor returns the pixel read executor and its shutdown.
func newReadExecutor(cfg config.Config) (ports.Executor, func()) {
	switch cfg.Executor {
	case config.ExecutorInline:
		return executor.Inline{}, func() {}
	case config.ExecutorMain:
		return executor.NewMainThread(cfg.QueueSize), func() {}
	default:
		l := executor.NewLoop(cfg.QueueSize)
		return l, l.Close
	}
}

func runRecord(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, stopping recording...")
			cancel()
		case <-ctx.Done():
		}
	}()

	encoderPath, err := ffmpeg.Find(cfg.EncoderPath)
	if err != nil {
		return err
	}
	images, err := imagecodec.New(cfg.ImageFormat, cfg.JPEGQuality)
	if err != nil {
		return err
	}
	lock, err := dirlock.New(cfg.TempDir)
	if err != nil {
		return err
	}

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	reads, closeReads := newReadExecutor(cfg)
	defer closeReads()

	fs := osfilesystem.New()
	rec := recorder.New(cfg.ToRecorderConfig(encoderPath), recorder.Deps{
		FileSystem: fs,
		Images:     images,
		Runner:     ffmpeg.NewRunner(log),
		Logger:     log,
		Source:     src,
		Reads:      reads,
		Probe:      mp4probe.New(),
		Lock:       lock,
	})

	if cfg.MetricsAddr != "" {
		srv, err := promstats.NewServer(cfg.MetricsAddr, rec)
		if err != nil {
			return err
		}
		go func() {
			if err := srv.Run(); err != nil {
				log.Error("Metrics server failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("Serving metrics on %s", cfg.MetricsAddr)
	}

	if err := rec.StartSession(cfg.CaptureFPS); err != nil {
		return err
	}
	startedAt := time.Now()

	renderLoop(ctx, src, rec, cfg)

	res := <-rec.StopAndEncode(cfg.EncodeRequest(c.Args().First(), nil))
	elapsed := time.Since(startedAt)

	stats := rec.Stats()
	log.Info("Captured %d frames, dropped %d", stats.Captures.Accepted, stats.Captures.Dropped())

	if cfg.SummaryPath != "" {
		w, h := src.Extent()
		summary := summarizer.NewBuilder().
			WithSession(res.SessionID, startedAt, elapsed).
			WithCounters(stats.Captures).
			WithSettings(summarizer.Settings{
				Source:        cfg.Source.Type,
				SourceWidth:   w,
				SourceHeight:  h,
				CaptureFPS:    cfg.CaptureFPS,
				ImageFormat:   images.Extension(),
				FrameRate:     cfg.FrameRate,
				EncoderParams: cfg.EncoderParams,
			}).
			WithResult(res).
			Build()
		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		if err := summarizer.NewWriter(formatter, fs).Write(cfg.SummaryPath, summary); err != nil {
			log.Warn("Failed to write summary: %v", err)
		} else {
			log.Info("Summary written to %s", cfg.SummaryPath)
		}
	}

	if !res.OK() {
		return res.Err
	}
	log.Info("Output saved to %s", res.OutputPath)
	return nil
}

// renderLoop drives the source at the render rate and requests a capture
// every tick until the duration elapses or ctx is cancelled.
func renderLoop(ctx context.Context, src ports.FrameSource, rec *recorder.Recorder, cfg config.Config) {
	stepper, _ := src.(interface{ Step() int })
	region := cfg.CaptureRegion()

	var deadline <-chan time.Time
	if d := cfg.Duration(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.RenderFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-ticker.C:
			if stepper != nil {
				stepper.Step()
			}
			rec.Capture(region)
		}
	}
}
