package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/shape-features-mcp/internal/config"
	"github.com/ironsheep/shape-features-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("shape-features-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("shape-features-mcp - MCP server for binary shape features")
			fmt.Println()
			fmt.Println("Usage: shape-features-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Printf("  %s=debug    Enable debug logging\n", config.EnvLogLevel)
			fmt.Printf("  %s=N              Parallel extractions in shape_report\n", config.EnvWorkers)
			fmt.Printf("  %s=true            Invert images before thresholding by default\n", config.EnvInvert)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if Version != "dev" {
		server.Version = Version
	}
	if cfg.Debug() {
		log.Printf("Shape Features MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
