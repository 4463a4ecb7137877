package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"scanline-rasterizer/internal/batch"
	"scanline-rasterizer/internal/config"
	"scanline-rasterizer/internal/logging"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Directory for relative png paths (default: working directory)")
	manifest := flag.Bool("manifest", false, "Write manifest.json next to the outputs")
	verbose := flag.Bool("v", false, "Log skipped lines and primitives")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] scene.txt ...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	scenes := flag.Args()
	if len(scenes) == 0 {
		flag.Usage()
		os.Exit(2)
	}

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
		OutputDir: *outputDir,
		Workers:   *workers,
	})

	if len(scenes) > 1 {
		fmt.Printf("Scenes: %d, Workers: %d\n", len(scenes), cfg.Workers)
		if cfg.OutputDir != "" {
			fmt.Printf("Output: %s\n", cfg.OutputDir)
		}
		fmt.Println("------------------------------------------------------------")
	}

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
	}, scenes)

	elapsed := time.Since(start)

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

	if len(scenes) > 1 {
		fmt.Println("------------------------------------------------------------")
		fmt.Printf("Done in %.1fs\n", elapsed.Seconds())
		fmt.Printf("Rendered: %d/%d\n", success, len(scenes))
	}

	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "Failed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", e.Scene, e.Error)
		}
	}

	if *manifest {
		dir := cfg.OutputDir
		if dir == "" {
			dir = "."
		}
		manifestPath := filepath.Join(dir, "manifest.json")
		if err := batch.WriteManifest(manifestPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", manifestPath)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
