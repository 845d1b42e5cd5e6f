package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ironsheep/palette-dither-mcp/internal/config"
	"github.com/ironsheep/palette-dither-mcp/internal/logging"
	"github.com/ironsheep/palette-dither-mcp/internal/palette"
	"github.com/ironsheep/palette-dither-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("palette-dither-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("palette-dither-mcp - MCP server for palette mapping and dithering")
			fmt.Println()
			fmt.Println("Usage: palette-dither-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from .env):")
			fmt.Println("  PALETTE_MCP_LOG_LEVEL=debug           debug, info, warn or error")
			fmt.Println("  PALETTE_MCP_PALETTE_FILE=path         YAML or Paint.NET palette file")
			fmt.Println("  PALETTE_MCP_DEFAULT_AMOUNT=0.3        Default dithering amount")
			fmt.Println("  PALETTE_MCP_STRIP_HEIGHT=0            Default strip height (0 = one strip)")
			fmt.Println("  PALETTE_MCP_PARALLEL=false            Render strips concurrently")
			fmt.Println("  PALETTE_MCP_SHARE_CACHE=false         Share the colour-match cache between strips")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	cfg, cfgErr := config.Load()

	logger, err := logging.Setup(cfg.LogLevel)
	if err != nil {
		logger.Warn("falling back to info logging", "error", err)
	}
	startup := logging.WithComponent(logger, logging.ComponentStartup)
	if cfgErr != nil {
		startup.Error("invalid configuration", "error", cfgErr)
		os.Exit(1)
	}
	startup.Debug("starting palette-dither-mcp", "version", Version, "built", BuildTime, "commit", GitCommit)

	library, err := loadLibrary(cfg.PaletteFile, logging.WithComponent(logger, logging.ComponentPalette))
	if err != nil {
		startup.Error("failed to load palette file", "path", cfg.PaletteFile, "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, library, logger)
	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
		startup.Error("server error", "error", err)
		os.Exit(1)
	}
}

func loadLibrary(path string, logger *slog.Logger) (palette.Library, error) {
	if path == "" {
		return nil, nil
	}
	library, err := palette.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Info("palette file loaded", "path", path, "palettes", library.Names())
	return library, nil
}
