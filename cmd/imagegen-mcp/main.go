package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bananaforge/imagegen-mcp/internal/config"
	"github.com/bananaforge/imagegen-mcp/internal/gemini"
	"github.com/bananaforge/imagegen-mcp/internal/generate"
	"github.com/bananaforge/imagegen-mcp/internal/preview"
	"github.com/bananaforge/imagegen-mcp/internal/server"
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
			fmt.Printf("imagegen-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imagegen-mcp: %v\n", err)
		os.Exit(1)
	}

	// Log to stderr: stdout carries the MCP protocol.
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	log.Info("starting imagegen-mcp",
		"version", Version,
		"model", cfg.PrimaryModel,
		"fallbacks", cfg.FallbackModels,
		"output_dir", cfg.OutputDir,
		"key_type", cfg.KeyType,
	)

	client := gemini.NewClient(cfg.APIKey)
	svc := generate.NewService(cfg, client, preview.NewLauncher(log), log)
	srv := server.New(svc, Version, log)

	if err := srv.Run(context.Background()); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("imagegen-mcp - MCP server for Gemini image generation")
	fmt.Println()
	fmt.Println("Usage: imagegen-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGEGEN_GEMINI_API_KEY   API key (also IMAGEGEN_GOOGLE_API_KEY,")
	fmt.Println("                            GEMINI_API_KEY, GOOGLE_API_KEY)")
	fmt.Println("  IMAGEGEN_MODEL            Primary model identifier")
	fmt.Println("  IMAGEGEN_FALLBACK_MODELS  Comma-separated fallback models")
	fmt.Println("  IMAGEGEN_TIMEOUT          Per-call timeout in seconds")
	fmt.Println("  IMAGEGEN_OUTPUT_DIR       Where generated images are written")
	fmt.Println("  IMAGEGEN_NO_PREVIEW       Disable viewer launching")
	fmt.Println("  IMAGEGEN_DEBUG            Enable debug logging")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
