// Command shape-report extracts features from image files and writes a text
// report, one section per image.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ironsheep/shape-features-mcp/internal/config"
	"github.com/ironsheep/shape-features-mcp/internal/imaging"
	"github.com/ironsheep/shape-features-mcp/internal/shape"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	output := flag.String("o", cfg.ReportPath, "report output file (- for stdout)")
	workers := flag.Int("workers", cfg.Workers, "parallel extractions")
	invert := flag.Bool("invert", cfg.Invert, "invert images before thresholding")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: shape-report [-o output.txt] [-workers N] [-invert] image...\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flag.Args(), *output, *workers, *invert); err != nil {
		log.Fatalf("shape-report: %v", err)
	}
}

func run(ctx context.Context, paths []string, output string, workers int, invert bool) error {
	cache := imaging.NewImageCache()
	jobs := imaging.BatchJobs(cache, paths, imaging.BinarizeOptions{Invert: invert})

	// a cancelled batch still reports what it has; unstarted jobs show the
	// cancellation as their error
	results, batchErr := shape.ExtractBatch(ctx, jobs, workers)

	if output == "-" {
		if err := shape.WriteReport(os.Stdout, results); err != nil {
			return err
		}
		return batchErr
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := shape.WriteReport(f, results); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Printf("Wrote %d sections to %s (%d failed)", len(results), output, failed)
	return batchErr
}
