package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ironsheep/array-tools-mcp/internal/batch"
	"github.com/ironsheep/array-tools-mcp/internal/config"
	"github.com/ironsheep/array-tools-mcp/internal/detection"
	"github.com/ironsheep/array-tools-mcp/internal/display"
	"github.com/ironsheep/array-tools-mcp/internal/imaging"
	"github.com/ironsheep/array-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	args := os.Args[1:]

	// A leading --config applies to every mode.
	configPath := ""
	if len(args) > 0 && strings.HasPrefix(args[0], "--config=") {
		configPath = strings.TrimPrefix(args[0], "--config=")
		args = args[1:]
	} else if len(args) > 1 && (args[0] == "--config" || args[0] == "-c") {
		configPath = args[1]
		args = args[2:]
	}

	// Handle --version and -v flags
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("array-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Array MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Display backend: %s", cfg.Display.Backend)
	}

	// Ctrl-C cancels the running work so open windows are released instead
	// of dying with the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) > 0 {
		switch args[0] {
		case "count":
			err = runCount(ctx, cfg, args[1:])
		case "show":
			err = runShow(ctx, cfg, args[1:])
		default:
			err = fmt.Errorf("unknown command %q (see --help)", args[0])
		}
		if err != nil {
			stop()
			log.Fatalf("%v", err)
		}
		return
	}

	server.Version = Version
	srv, err := server.NewWithConfig(cfg)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	err = srv.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Printf("Interrupted, shutting down")
		return
	}
	if err != nil {
		stop()
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage() {
	fmt.Println("array-tools-mcp - MCP server for intensity array analysis")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  array-tools-mcp [--config FILE]                     Run the MCP server on stdio")
	fmt.Println("  array-tools-mcp [--config FILE] count [flags] FILE...")
	fmt.Println("                                                      Count significant contours per file")
	fmt.Println("  array-tools-mcp [--config FILE] show [flags] IMAGE  Draw contours and display them")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c FILE   YAML configuration file")
	fmt.Println("  --version, -v       Print version information")
	fmt.Println("  --help, -h          Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  ARRAY_MCP_CONFIG=FILE        Configuration file (if --config is not given)")
	fmt.Println("  ARRAY_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  ARRAY_MCP_DISPLAY=NAME       Display backend: " + strings.Join(display.BackendNames(), ", "))
	fmt.Println("  ARRAY_MCP_OUTPUT_DIR=DIR     Output directory for the png backend")
	fmt.Println()
	fmt.Println("In server mode the program communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// runCount prints "path<TAB>count" for every file, or the error for files
// that failed.
func runCount(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	threshold := fs.Float64("threshold", cfg.Defaults.Threshold, "binarization threshold")
	minArea := fs.Float64("min-area", cfg.Defaults.MinArea, "minimum contour area in pixels")
	otsu := fs.Bool("otsu", false, "pick each file's threshold with Otsu's method")
	adaptive := adaptiveFlags(fs, cfg)
	workers := fs.Int("workers", cfg.Defaults.Workers, "files processed at once")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("count: no files given")
	}
	params, err := adaptive()
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	if *otsu && params != nil {
		return fmt.Errorf("count: -otsu and -adaptive are mutually exclusive")
	}

	results, err := batch.CountFiles(ctx, imaging.NewImageCache(), fs.Args(), batch.Options{
		Threshold: *threshold,
		MinArea:   *minArea,
		Otsu:      *otsu,
		Adaptive:  params,
		Workers:   *workers,
	})
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != "" {
			failed++
			fmt.Printf("%s\terror: %s\n", r.Path, r.Err)
			continue
		}
		fmt.Printf("%s\t%d\n", r.Path, r.Count)
	}
	if failed > 0 {
		return fmt.Errorf("count: %d of %d files failed", failed, len(results))
	}
	return nil
}

// runShow draws the significant contours of one image and shows the result
// on the configured backend, blocking until the window is dismissed.
func runShow(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	threshold := fs.Float64("threshold", cfg.Defaults.Threshold, "binarization threshold")
	minArea := fs.Float64("min-area", cfg.Defaults.MinArea, "minimum contour area in pixels")
	arrayPath := fs.String("array", "", "image to threshold (defaults to the displayed image)")
	hex := fs.String("color", cfg.Defaults.ContourColor, "contour color as hex")
	thickness := fs.Int("thickness", 1, "line width in pixels")
	backendName := fs.String("backend", cfg.Display.Backend, "display backend: "+strings.Join(display.BackendNames(), ", "))
	adaptive := adaptiveFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("show: expected exactly one image")
	}
	path := fs.Arg(0)
	params, err := adaptive()
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	backend, err := display.NewBackend(*backendName, cfg.Display.OutputDir)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	c, err := detection.ParseColor(*hex)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	cache := imaging.NewImageCache()
	img, err := cache.Load(path)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	adapter := cfg.Adapter()

	var arr *imaging.Array
	if *arrayPath != "" {
		arr, err = cache.LoadArray(*arrayPath)
		if err != nil {
			return fmt.Errorf("show: %w", err)
		}
	} else {
		arr = imaging.FromImage(adapter.Align(img))
	}

	res, err := display.DrawContours(ctx, backend, img, arr, *threshold, *minArea, display.DrawOptions{
		Color:     c,
		Thickness: *thickness,
		Title:     path,
		Adapter:   adapter,
		Adaptive:  params,
	})
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	fmt.Printf("%s\t%d contours\n", path, len(res.Contours))
	if p, ok := backend.(*display.PNGBackend); ok {
		fmt.Printf("wrote %s\n", p.PathFor(path))
	}
	return nil
}

// adaptiveFlags registers the adaptive threshold flags on fs. The returned
// function, called after parsing, yields nil unless -adaptive was given.
func adaptiveFlags(fs *flag.FlagSet, cfg *config.Config) func() (*detection.Adaptive, error) {
	def := cfg.Adaptive()
	enabled := fs.Bool("adaptive", false, "threshold each pixel against its neighbourhood (Sauvola)")
	window := fs.Int("adaptive-window", def.Window, "adaptive neighbourhood side (odd, >= 3)")
	k := fs.Float64("adaptive-k", def.K, "adaptive deviation weight in (0, 1)")

	return func() (*detection.Adaptive, error) {
		if !*enabled {
			return nil, nil
		}
		p := detection.Adaptive{Window: *window, K: *k}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return &p, nil
	}
}
