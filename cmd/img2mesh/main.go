package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/unixpickle/essentials"

	"img2mesh/internal/batch"
	"img2mesh/internal/config"
	"img2mesh/internal/convert"
	"img2mesh/internal/imageio"
	"img2mesh/internal/meshio"
)

const generator = "img2mesh"

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	input := flag.String("input", "", "Image file or directory of images")
	outputDir := flag.String("output", "", "Output directory (default: next to input)")
	workers := flag.Int("workers", 0, "Number of images converted at once (default: NumCPU/2)")
	backend := flag.String("device", "", "Compute backend: cpu or none (default: cpu)")
	textured := flag.Bool("textured", false, "Write per-vertex colors and a material file")
	maskFlag := flag.String("mask", "", "Subject mask: ellipse or a mask image path")
	preview := flag.Int("preview", 0, "Render a shaded preview of this size (0 disables)")
	format := flag.String("format", "", "Mesh format: obj or stl (default: obj)")
	depthFormat := flag.String("depth-format", "", "Depth map format: png or webp (default: png)")
	strict := flag.Bool("strict", false, "Fail instead of falling back to the serial path")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()
	if *input == "" && flag.NArg() > 0 {
		*input = flag.Arg(0)
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: img2mesh [flags] <image|dir>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:   *outputDir,
		Mask:        *maskFlag,
		Backend:     *backend,
		MeshFormat:  *format,
		DepthFormat: *depthFormat,
		Textured:    *textured,
		Strict:      *strict,
		Workers:     *workers,
		PreviewSize: *preview,
	}, *input)

	inputs, err := batch.CollectInputs(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Println("No images to convert.")
		os.Exit(0)
	}

	conv, err := convert.New(
		convert.WithBackend(cfg.Backend),
		convert.WithWorkers(cfg.ComputeWorkers),
		convert.WithTextured(cfg.Textured),
		convert.WithStrict(cfg.Strict),
		convert.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	batchCfg := batch.Config{
		OutputDir:    cfg.OutputDir,
		Converter:    conv,
		Mask:         cfg.Mask,
		MeshFormat:   meshio.Format(cfg.MeshFormat),
		DepthFormat:  cfg.DepthFormat,
		MaxDimension: cfg.MaxDimension,
		PreviewSize:  cfg.PreviewSize,
		Supersample:  cfg.Supersample,
		Workers:      cfg.Workers,
		Generator:    generator,
		Logger:       log,
	}
	if cfg.Mask != "" && cfg.Mask != batch.MaskEllipse {
		batchCfg.MaskImage, err = imageio.Load(cfg.Mask)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading mask: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Images: %d, Workers: %d, Mode: %s\n", len(inputs), cfg.Workers, conv.Mode())
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batchCfg, inputs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Converted: %d/%d\n", success, len(inputs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors[:min(20, len(errors))] {
			fmt.Printf("  %s: %s\n", filepath.Base(e.Source), e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	essentials.Must(os.MkdirAll(cfg.OutputDir, 0755))
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
