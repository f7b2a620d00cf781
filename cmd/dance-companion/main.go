// Dance Companion - mirrors a dancer's pose next to them in real time.
// Reads a video file or webcam, detects body keypoints, and overlays a
// horizontally mirrored skeleton on each frame.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/dance-companion/internal/config"
	"github.com/teslashibe/dance-companion/internal/log"
	"github.com/teslashibe/dance-companion/pkg/companion"
	"github.com/teslashibe/dance-companion/pkg/display"
	"github.com/teslashibe/dance-companion/pkg/pose"
	"github.com/teslashibe/dance-companion/pkg/video"
	"github.com/teslashibe/dance-companion/pkg/web"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer fmt.Println("Dance Companion closed.")

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n\n", err)
		flag.CommandLine.Usage()
		return 2
	}

	log.Init(cfg.LogLevel)

	src, err := video.Open(cfg.ToSource())
	if err != nil {
		log.Error("could not open source", "error", err)
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	fmt.Println("💃 Dance Companion")
	fmt.Printf("   Source:  %s\n", src.Source())
	fmt.Printf("   Model:   %s\n", cfg.Pose.Model)
	fmt.Printf("   Offset:  %dpx\n", cfg.Style.Offset)

	det, err := pose.NewYOLOPose(cfg.ToPose())
	if err != nil {
		src.Close()
		if errors.Is(err, pose.ErrModelNotFound) {
			fmt.Fprintln(os.Stderr, "❌ Pose model not found. Download yolov8n-pose.onnx into models/ or pass --model")
		}
		log.Error("could not load pose model", "error", err)
		return 1
	}

	var (
		disp   display.Display
		server *web.Server
	)
	switch cfg.Display {
	case config.DisplayWeb:
		server = web.NewServer(fmt.Sprintf(":%d", cfg.Web.Port))
		if err := server.StartAsync(); err != nil {
			src.Close()
			det.Close()
			log.Error("could not start preview server", "error", err)
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return 1
		}
		disp = display.NewWeb(server, cfg.Web.JPEGQuality)
		fmt.Printf("🌐 Preview at http://localhost:%d\n", cfg.Web.Port)
	default:
		disp = display.NewWindow(display.DefaultWindowName)
		fmt.Printf("🪟 Press '%c' in the window to quit\n", display.KeyQuit)
	}

	app, err := companion.New(cfg.ToApp(), src, det, disp)
	if err != nil {
		src.Close()
		det.Close()
		disp.Close()
		log.Error("configuration error", "error", err)
		return 1
	}
	defer app.Shutdown()

	if server != nil {
		server.SetStatus(func() any { return app.Stats() })
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Error("runtime error", "error", err)
		return 1
	}

	stats := app.Stats()
	fmt.Printf("✅ %d frames, %d with a pose (%.1f fps)\n", stats.FramesRead, stats.FramesWithPose, stats.FPS)
	return 0
}

// parseFlags loads the optional config file, then applies flags that were set
// explicitly in args. A single source flag replaces any source selected by the
// file or environment; passing both is a conflict.
func parseFlags(fs *flag.FlagSet, args []string) (config.Config, error) {
	def := config.DefaultConfig()

	input := fs.String("input", "", "Path to a video file")
	webcam := fs.Int("webcam", video.NoDevice, "Webcam index (e.g. 0)")
	offset := fs.Int("offset", def.Style.Offset, "Horizontal offset of the mirrored skeleton in pixels")
	radius := fs.Int("radius", def.Style.Radius, "Keypoint circle radius")
	thickness := fs.Int("thickness", def.Style.Thickness, "Skeleton line thickness")
	model := fs.String("model", def.Pose.Model, "Path to the YOLOv8-pose ONNX model")
	mode := fs.String("display", def.Display, "Display mode: window, web")
	port := fs.Int("port", def.Web.Port, "Port for the web preview")
	configPath := fs.String("config", "", "Optional JSON config file")
	logLevel := fs.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")
	debug := fs.Bool("debug", false, "Enable verbose debug logging")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s (--input <video> | --webcam <index>) [options]\n\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return cfg, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "webcam":
			cfg.Webcam = *webcam
		case "offset":
			cfg.Style.Offset = *offset
		case "radius":
			cfg.Style.Radius = *radius
		case "thickness":
			cfg.Style.Thickness = *thickness
		case "model":
			cfg.Pose.Model = *model
		case "display":
			cfg.Display = *mode
		case "port":
			cfg.Web.Port = *port
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	switch {
	case set["input"] && !set["webcam"]:
		cfg.Webcam = video.NoDevice
	case set["webcam"] && !set["input"]:
		cfg.Input = ""
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	return cfg, cfg.Validate()
}
