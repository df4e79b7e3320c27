// Package main provides the CLI entry point for stillcam.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/stillcam/pkg/adapters/av1sink"
	"github.com/user/stillcam/pkg/adapters/fyneviewer"
	"github.com/user/stillcam/pkg/adapters/ggrenderer"
	"github.com/user/stillcam/pkg/adapters/httpsource"
	"github.com/user/stillcam/pkg/adapters/logger"
	"github.com/user/stillcam/pkg/adapters/mjpegsink"
	"github.com/user/stillcam/pkg/adapters/osfilesystem"
	"github.com/user/stillcam/pkg/config"
	"github.com/user/stillcam/pkg/live"
	"github.com/user/stillcam/pkg/ports"
	"github.com/user/stillcam/pkg/record"
	"github.com/user/stillcam/pkg/summarizer"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	View    ViewCmd    `cmd:"" help:"Show a live view of the camera."`
	Record  RecordCmd  `cmd:"" help:"Record the camera to a video file."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// ViewCmd defines the view subcommand.
type ViewCmd struct {
	URL string `arg:"" optional:"" help:"Camera capture URL (default: http://192.168.4.1/capture.jpg)."`

	// Display options
	FPS         *float64 `short:"f" help:"Target poll rate in frames per second (default: 20)."`
	Title       *string  `short:"t" help:"Window title."`
	ShowFPS     bool     `help:"Overlay the display rate on each frame."`
	ResizeWidth *int     `help:"Downscale frames to this width before display."`

	// HTTP options
	ConnectTimeout *float64 `help:"Connection timeout in seconds (default: 0.5)."`
	ReadTimeout    *float64 `help:"Read timeout in seconds (default: 1.0)."`
	Header         []string `short:"H" help:"Extra request header as key=value (repeatable)."`

	// Config file
	Config string `short:"C" help:"YAML configuration file." type:"existingfile"`

	// Logging options
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// RecordCmd defines the record subcommand.
type RecordCmd struct {
	URL    string `arg:"" optional:"" help:"Camera capture URL (default: http://192.168.4.1/capture.jpg)."`
	Output string `short:"o" help:"Output video file path (default: capture.avi)."`

	// Capture options
	FPS     *float64 `short:"f" help:"Output frame rate (default: 10)."`
	Seconds *float64 `short:"s" help:"Capture duration in seconds (default: 30)."`
	Codec   *string  `enum:"mjpeg,av1" help:"Video codec (mjpeg or av1, default: mjpeg)."`
	Resize  *string  `help:"Force output size as WxH, e.g. 1280x720."`

	// Encoding options
	Quality *int `short:"q" help:"MJPEG quality 1-100 or AV1 CQ 0-63."`
	Bitrate *int `help:"AV1 target bitrate in kbps (0 = derived from resolution)."`

	// HTTP options
	Timeout *float64 `help:"Per-fetch timeout in seconds (default: 1.5)."`
	Header  []string `short:"H" help:"Extra request header as key=value (repeatable)."`

	// Summary output
	Summary string `help:"Output capture summary to file (Markdown format)."`

	// Config file
	Config string `short:"C" help:"YAML configuration file." type:"existingfile"`

	// Logging options
	Verbose  bool   `short:"v" help:"Log per-frame status (same as --log-level debug)."`
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("stillcam"),
		kong.Description("View and record IP cameras that serve still JPEG snapshots."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// newLogger builds the logger shared by both subcommands.
func newLogger(quiet bool, level string) ports.Logger {
	if quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(level))
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()
	return ctx, cancel
}

// Run executes the view command.
func (cmd *ViewCmd) Run() error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}
	vc := cfg.View
	if cmd.URL != "" {
		vc.URL = cmd.URL
	}
	if cmd.FPS != nil {
		vc.TargetFPS = *cmd.FPS
	}
	if cmd.Title != nil {
		vc.Title = *cmd.Title
	}
	if cmd.ShowFPS {
		vc.ShowFPS = true
	}
	if cmd.ResizeWidth != nil {
		vc.ResizeWidth = *cmd.ResizeWidth
	}
	if cmd.ConnectTimeout != nil {
		vc.ConnectTimeoutSec = *cmd.ConnectTimeout
	}
	if cmd.ReadTimeout != nil {
		vc.ReadTimeoutSec = *cmd.ReadTimeout
	}
	headers, err := config.ParseHeaders(cmd.Header)
	if err != nil {
		return err
	}
	for k, v := range headers {
		if vc.Headers == nil {
			vc.Headers = map[string]string{}
		}
		vc.Headers[k] = v
	}
	if vc.TargetFPS <= 0 {
		return fmt.Errorf("target fps must be positive, got %.3f", vc.TargetFPS)
	}

	log := newLogger(cmd.Quiet, cmd.LogLevel)
	ctx, cancel := signalContext(log)
	defer cancel()

	source := httpsource.New(vc.URL, httpsource.Options{
		ConnectTimeout: secondsToDuration(vc.ConnectTimeoutSec),
		ReadTimeout:    secondsToDuration(vc.ReadTimeoutSec),
		Headers:        vc.Headers,
	})

	log.Info(l10n.F("Connecting to %s", vc.URL))
	log.Info(l10n.F("Polling at %.1f fps target", vc.TargetFPS))

	poller := live.NewPoller(source, vc.TargetFPS, log)
	poller.Start(ctx)

	viewer := fyneviewer.New(vc.Title, 800, 600)
	session := live.NewSession(poller, viewer, ggrenderer.New(), log, live.SessionOptions{
		ResizeWidth: vc.ResizeWidth,
		ShowFPS:     vc.ShowFPS,
	})

	// The window event loop must own the main goroutine; the session
	// drains frames beside it and tears the window down when it exits.
	go func() {
		session.Run(ctx)
		viewer.Close()
	}()

	viewer.Run()

	cancel()
	<-poller.Done()
	log.Info(l10n.T("Viewer closed"))
	if drops := poller.Drops(); drops > 0 {
		log.Debug(l10n.F("Dropped %d stale frames", drops))
	}
	return nil
}

// Run executes the record command.
func (cmd *RecordCmd) Run() error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}
	rc := cfg.Record
	if cmd.URL != "" {
		rc.URL = cmd.URL
	}
	if cmd.Output != "" {
		rc.OutputPath = cmd.Output
	}
	if cmd.FPS != nil {
		rc.FPS = *cmd.FPS
	}
	if cmd.Seconds != nil {
		rc.Seconds = *cmd.Seconds
	}
	if cmd.Codec != nil {
		rc.Codec = *cmd.Codec
	}
	if cmd.Resize != nil {
		rc.Resize = *cmd.Resize
	}
	if cmd.Quality != nil {
		rc.Quality = *cmd.Quality
	}
	if cmd.Bitrate != nil {
		rc.Bitrate = *cmd.Bitrate
	}
	if cmd.Timeout != nil {
		rc.TimeoutSec = *cmd.Timeout
	}
	if cmd.Summary != "" {
		rc.Summary = cmd.Summary
	}
	headers, err := config.ParseHeaders(cmd.Header)
	if err != nil {
		return err
	}
	for k, v := range headers {
		if rc.Headers == nil {
			rc.Headers = map[string]string{}
		}
		rc.Headers[k] = v
	}

	codec, err := config.ParseCodec(rc.Codec)
	if err != nil {
		return err
	}

	var width, height int
	if rc.Resize != "" {
		width, height, err = config.ParseSize(rc.Resize)
		if err != nil {
			return err
		}
	}

	level := cmd.LogLevel
	if cmd.Verbose {
		level = "debug"
	}
	log := newLogger(cmd.Quiet, level)
	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	source := httpsource.New(rc.URL, httpsource.Options{
		ReadTimeout: secondsToDuration(rc.TimeoutSec),
		Headers:     rc.Headers,
	})

	var sink ports.VideoSink
	switch codec {
	case config.CodecAV1:
		sink = av1sink.New(fs, av1sink.Options{Quality: rc.Quality, Bitrate: rc.Bitrate})
	default:
		sink = mjpegsink.New(rc.Quality)
	}

	rec := record.New(source, sink, renderer, log)
	log.Info(l10n.F("Recording %d frames at %.1f fps",
		int(rc.FPS*rc.Seconds+0.5), rc.FPS))

	res, err := rec.Run(ctx, record.Input{
		OutputPath: rc.OutputPath,
		FPS:        rc.FPS,
		Duration:   secondsToDuration(rc.Seconds),
		Width:      width,
		Height:     height,
	})
	if err != nil {
		return err
	}

	log.Info(l10n.F("Output saved to %s", rc.OutputPath))

	if rc.Summary != "" {
		if err := writeSummary(rc.Summary, rc, res, fs); err != nil {
			log.Error(l10n.F("Failed to write output: %s", err))
			return err
		}
		log.Info(l10n.F("Summary written to %s", rc.Summary))
	}
	return nil
}

// writeSummary builds and writes the Markdown capture summary.
func writeSummary(path string, rc config.RecordConfig, res record.Result, fs ports.FileSystem) error {
	var fileSize int64
	if info, err := os.Stat(rc.OutputPath); err == nil {
		fileSize = info.Size()
	}

	summary := summarizer.NewBuilder().
		WithSource(rc.URL).
		WithSettings(summarizer.Settings{
			FPS:        rc.FPS,
			Seconds:    rc.Seconds,
			Codec:      rc.Codec,
			TimeoutSec: rc.TimeoutSec,
			Resize:     rc.Resize,
		}).
		WithCapture(summarizer.CaptureInfo{
			FramesWritten: res.FramesWritten,
			FetchFailures: res.FetchFailures,
			FrozenFrames:  res.FrozenFrames,
			ElapsedMs:     int(res.Elapsed.Milliseconds()),
		}).
		WithVideo(summarizer.VideoInfo{
			Path:     rc.OutputPath,
			Width:    res.Width,
			Height:   res.Height,
			FileSize: fileSize,
		}).
		Build()

	writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs)
	return writer.Write(path, summary)
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("stillcam version %s", version))
	return nil
}

// loadConfig loads the YAML config file or falls back to defaults.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.LoadFromFile(path)
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
