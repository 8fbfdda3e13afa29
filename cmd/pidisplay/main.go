// Package main is the entry point for the device-side display server. It is
// the stand-in for a Raspberry Pi with a Sense HAT: patterns land on an
// in-memory frame shown as ASCII art and sensor readings are simulated.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/jwulff/picolor-go/internal/domain"
	"github.com/jwulff/picolor-go/internal/server"
)

func main() {
	fmt.Println("PI Color Picker - Display Server")
	fmt.Println("Version: 0.1.0-dev")
	fmt.Println()

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		showUsage()
		return
	}

	switch os.Args[1] {
	case "serve":
		serve()
	default:
		showUsage()
	}
}

func showUsage() {
	fmt.Println("Usage:")
	fmt.Println("  pidisplay serve     - Serve the pattern and sensor API")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PIDISPLAY_ADDR      - Listen address (default :5000)")
	fmt.Println("  LOG_LEVEL           - zerolog level (default info)")
	fmt.Println()
	fmt.Println("Endpoints: PUT /pattern, GET /sensors, GET /ws")
}

func serve() {
	addr := os.Getenv("PIDISPLAY_ADDR")
	if addr == "" {
		addr = ":5000"
	}

	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()

	display := server.NewFrameDisplay(func(config domain.MatrixConfig, frame *domain.Frame) {
		fmt.Printf("\nPattern %q (%d pixel(s)):\n", config.Name, config.Matrix.PixelCount())
		fmt.Println(frame.ASCII())
	})

	srv := server.NewServer(display, server.SimProvider{}, logger)

	fmt.Printf("Listening on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	if err := srv.Run(addr); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
