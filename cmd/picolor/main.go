// Package main is the entry point for the picolor CLI. It drives the matrix
// picker, device registry and sensor log against a local SQLite database and
// talks to Pi devices over HTTP and websocket.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/jwulff/picolor-go/internal/altitude"
	"github.com/jwulff/picolor-go/internal/domain"
	"github.com/jwulff/picolor-go/internal/export"
	"github.com/jwulff/picolor-go/internal/history"
	"github.com/jwulff/picolor-go/internal/pi"
	"github.com/jwulff/picolor-go/internal/sense"
	"github.com/jwulff/picolor-go/internal/service"
	"github.com/jwulff/picolor-go/internal/storage"
	"github.com/jwulff/picolor-go/internal/storage/sqlite"
)

func main() {
	fmt.Println("PI Color Picker")
	fmt.Println("Version: 0.1.0-dev")
	fmt.Println()

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		showUsage()
		return
	}

	app, err := newApp()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer app.close()

	switch os.Args[1] {
	case "matrix":
		app.matrixCommand(os.Args[2:])
	case "device":
		app.deviceCommand(os.Args[2:])
	case "log":
		app.logCommand(os.Args[2:])
	case "calibrate":
		app.calibrateCommand(os.Args[2:])
	case "entries":
		app.entriesCommand(os.Args[2:])
	case "watch":
		app.watchCommand(os.Args[2:])
	case "settings":
		app.settingsCommand(os.Args[2:])
	default:
		showUsage()
	}
}

func showUsage() {
	fmt.Println("Usage:")
	fmt.Println("  picolor matrix list                     - List saved matrixes")
	fmt.Println("  picolor matrix new <name>               - Create an empty 8x8 matrix")
	fmt.Println("  picolor matrix show <id>                - ASCII preview of a matrix")
	fmt.Println("  picolor matrix edit <id>                - Interactive pixel editor with undo")
	fmt.Println("  picolor matrix copy <id>                - Duplicate a matrix")
	fmt.Println("  picolor matrix fill <id> <r> <g> <b>    - Paint every pixel")
	fmt.Println("  picolor matrix clear <id>               - Unset every pixel")
	fmt.Println("  picolor matrix delete <id>              - Delete a matrix")
	fmt.Println("  picolor matrix export <id> [python|json]- Print the matrix as code")
	fmt.Println("  picolor matrix paste <id> [python|json] - Replace pixels from stdin")
	fmt.Println("  picolor device add <name> <url>         - Register a sensor device")
	fmt.Println("  picolor device list                     - List registered devices")
	fmt.Println("  picolor device delete <id>              - Delete a device and its data")
	fmt.Println("  picolor log <deviceId> <name>           - Record a named sensor reading")
	fmt.Println("  picolor calibrate <deviceId> <name>     - Record a calibration reference")
	fmt.Println("  picolor entries <deviceId> [json|csv]   - Export recorded readings")
	fmt.Println("  picolor watch <deviceId>                - Live sensor feed with height")
	fmt.Println("  picolor settings [url <url>|on|off|theme <light|dark>]")
	fmt.Println("                                          - Show or change settings")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PICOLOR_DB            - SQLite database path (default picolor.db)")
	fmt.Println("  PICOLOR_FLOOR_HEIGHT  - Floor height in meters for the watch view (default 2.7)")
	fmt.Println("  LOG_LEVEL             - zerolog level for background sync (default warn)")
	fmt.Println()
	fmt.Println("Use the device URL \"test\" to work with simulated readings.")
}

type app struct {
	store    *sqlite.Store
	syncer   *pi.Syncer
	matrixes *service.MatrixService
	sensors  *service.SensorService
	theme    *storage.Slot[domain.Theme]
	logger   zerolog.Logger
}

func newApp() (*app, error) {
	path := os.Getenv("PICOLOR_DB")
	if path == "" {
		path = "picolor.db"
	}
	store, err := sqlite.NewFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	logger := newLogger()
	syncer := pi.NewSyncer(pi.NewClient(), pi.DefaultWindow, logger)
	return &app{
		store:    store,
		syncer:   syncer,
		matrixes: service.NewMatrixService(store, syncer, logger),
		sensors:  service.NewSensorService(store, logger),
		theme: storage.NewSlot(store, storage.KeyTheme, func() domain.Theme {
			return domain.ThemeLight
		}),
		logger: logger,
	}, nil
}

func (a *app) close() {
	a.syncer.Close()
	a.store.Close()
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func (a *app) matrixCommand(args []string) {
	if len(args) < 1 {
		showUsage()
		os.Exit(1)
	}
	ctx := context.Background()

	switch args[0] {
	case "list":
		configs := a.matrixes.List(ctx)
		if len(configs) == 0 {
			fmt.Println("No matrixes saved yet. Create one with: picolor matrix new <name>")
			return
		}
		for _, config := range configs {
			fmt.Printf("  %s  %-20s %dx%d  %d pixel(s)\n",
				config.ID, config.Name, config.Width, config.Height, config.Matrix.PixelCount())
		}
	case "new":
		requireArgs(args, 2, "picolor matrix new <name>")
		config, err := a.matrixes.Create(ctx, args[1])
		exitOnError(err)
		fmt.Printf("Created %s (%s)\n", config.Name, config.ID)
	case "show":
		requireArgs(args, 2, "picolor matrix show <id>")
		config, err := a.matrixes.Get(ctx, args[1])
		exitOnError(err)
		printMatrix(config)
	case "edit":
		requireArgs(args, 2, "picolor matrix edit <id>")
		config, err := a.matrixes.Get(ctx, args[1])
		exitOnError(err)
		a.editMatrix(ctx, config)
	case "copy":
		requireArgs(args, 2, "picolor matrix copy <id>")
		dup, err := a.matrixes.Copy(ctx, args[1])
		exitOnError(err)
		fmt.Printf("Copied to %s\n", dup.ID)
	case "fill":
		requireArgs(args, 5, "picolor matrix fill <id> <r> <g> <b>")
		color, err := parseColor(args[2], args[3], args[4])
		exitOnError(err)
		config, err := a.matrixes.Fill(ctx, args[1], color)
		exitOnError(err)
		printMatrix(config)
	case "clear":
		requireArgs(args, 2, "picolor matrix clear <id>")
		_, err := a.matrixes.Clear(ctx, args[1])
		exitOnError(err)
		fmt.Println("Cleared.")
	case "delete":
		requireArgs(args, 2, "picolor matrix delete <id>")
		exitOnError(a.matrixes.Delete(ctx, args[1]))
		fmt.Println("Deleted.")
	case "export":
		requireArgs(args, 2, "picolor matrix export <id> [python|json]")
		config, err := a.matrixes.Get(ctx, args[1])
		exitOnError(err)
		format := "python"
		if len(args) > 2 {
			format = args[2]
		}
		switch format {
		case "python":
			fmt.Println(export.PythonFrom(config))
		case "json":
			text, err := export.JSONFrom(config)
			exitOnError(err)
			fmt.Println(text)
		default:
			fmt.Printf("Error: unknown format %q (python or json)\n", format)
			os.Exit(1)
		}
	case "paste":
		requireArgs(args, 2, "picolor matrix paste <id> [python|json]")
		config, err := a.matrixes.Get(ctx, args[1])
		exitOnError(err)
		format := "python"
		if len(args) > 2 {
			format = args[2]
		}
		a.pasteMatrix(ctx, config, format)
	default:
		showUsage()
		os.Exit(1)
	}
}

// pasteMatrix replaces the matrix pixels from stdin. Input that yields no
// pixels leaves the matrix untouched without complaint, matching the paste
// field's forgiving behavior.
func (a *app) pasteMatrix(ctx context.Context, config domain.MatrixConfig, format string) {
	text, err := readAll(os.Stdin)
	exitOnError(err)

	var next domain.MatrixConfig
	switch format {
	case "python":
		next, err = export.FromPython(config, text)
		if errors.Is(err, export.ErrNoPixels) {
			return
		}
	case "json":
		next, err = export.FromJSON(config, text)
		if err != nil {
			return
		}
	default:
		fmt.Printf("Error: unknown format %q (python or json)\n", format)
		os.Exit(1)
	}
	exitOnError(err)

	exitOnError(a.matrixes.Update(ctx, next))
	printMatrix(next)
}

// editMatrix runs the interactive pixel editor. Every change is recorded so
// undo and redo walk the session's edit history.
func (a *app) editMatrix(ctx context.Context, config domain.MatrixConfig) {
	fmt.Printf("Editing %s. Commands: set x y r g b | unset x y | fill r g b | clear | undo | redo | show | save | quit\n", config.Name)
	printMatrix(config)

	equal := func(prev, next domain.MatrixConfig) bool {
		return prev.Matrix.Equals(next.Matrix)
	}
	tracker := history.NewTracker(config, history.WithEqual(equal))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		current := tracker.Current()
		switch fields[0] {
		case "set":
			if len(fields) != 6 {
				fmt.Println("Usage: set x y r g b")
				continue
			}
			x, y, err := parsePoint(fields[1], fields[2])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			color, err := parseColor(fields[3], fields[4], fields[5])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			next := withMatrix(current, current.Matrix.Clone())
			next.Matrix.Set(x, y, color)
			tracker.Observe(next)
			printMatrix(next)
		case "unset":
			if len(fields) != 3 {
				fmt.Println("Usage: unset x y")
				continue
			}
			x, y, err := parsePoint(fields[1], fields[2])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			next := withMatrix(current, current.Matrix.Clone())
			next.Matrix.Clear(x, y)
			tracker.Observe(next)
			printMatrix(next)
		case "fill":
			if len(fields) != 4 {
				fmt.Println("Usage: fill r g b")
				continue
			}
			color, err := parseColor(fields[1], fields[2], fields[3])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			next := current.Fill(color)
			tracker.Observe(next)
			printMatrix(next)
		case "clear":
			next := current.Cleared()
			tracker.Observe(next)
			printMatrix(next)
		case "undo":
			if !tracker.CanBack() {
				fmt.Println("Nothing to undo.")
				continue
			}
			printMatrix(tracker.Back())
		case "redo":
			if !tracker.CanForward() {
				fmt.Println("Nothing to redo.")
				continue
			}
			printMatrix(tracker.Forward())
		case "show":
			printMatrix(current)
		case "save":
			if err := a.matrixes.Update(ctx, current); err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Println("Saved.")
		case "quit":
			return
		default:
			fmt.Printf("Unknown command %q\n", fields[0])
		}
	}
}

func (a *app) deviceCommand(args []string) {
	if len(args) < 1 {
		showUsage()
		os.Exit(1)
	}
	ctx := context.Background()

	switch args[0] {
	case "add":
		requireArgs(args, 3, "picolor device add <name> <url>")
		device, err := a.sensors.AddDevice(ctx, args[1], args[2])
		exitOnError(err)
		fmt.Printf("Added %s (%s)\n", device.Name, device.ID)
	case "list":
		devices := a.sensors.Devices(ctx)
		if len(devices) == 0 {
			fmt.Println("No devices registered yet. Add one with: picolor device add <name> <url>")
			return
		}
		for _, device := range devices {
			fmt.Printf("  %s  %-20s %s\n", device.ID, device.Name, device.URL)
		}
	case "delete":
		requireArgs(args, 2, "picolor device delete <id>")
		exitOnError(a.sensors.DeleteDevice(ctx, args[1]))
		fmt.Println("Deleted device and its recorded data.")
	default:
		showUsage()
		os.Exit(1)
	}
}

func (a *app) logCommand(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: picolor log <deviceId> <name>")
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry, err := a.sensors.Capture(ctx, args[0], strings.Join(args[1:], " "), nil)
	exitOnError(err)
	fmt.Printf("Recorded %q at %s\n", entry.Name, entry.Timestamp.Format(time.RFC3339))
	printReading(entry.SensorData)
}

func (a *app) calibrateCommand(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: picolor calibrate <deviceId> <name>")
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry, err := a.sensors.Calibrate(ctx, args[0], strings.Join(args[1:], " "), nil)
	exitOnError(err)
	fmt.Printf("Calibrated against %q (pressure %.2f)\n", entry.Name, entry.SensorData.Environmental.Pressure)
}

func (a *app) entriesCommand(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: picolor entries <deviceId> [json|csv]")
		os.Exit(1)
	}
	ctx := context.Background()
	deviceID := args[0]
	format := "json"
	if len(args) > 1 {
		format = args[1]
	}

	entries := a.sensors.History(ctx, deviceID)
	var reference *domain.SensorEntry
	if selected, ok := a.sensors.SelectedCalibration(ctx, deviceID); ok {
		reference = &selected
	}

	switch format {
	case "json":
		text, err := export.EntriesJSON(entries, reference)
		exitOnError(err)
		fmt.Println(text)
	case "csv":
		text, err := export.EntriesCSV(entries, reference)
		exitOnError(err)
		fmt.Print(text)
	default:
		fmt.Printf("Error: unknown format %q (json or csv)\n", format)
		os.Exit(1)
	}
}

func (a *app) watchCommand(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: picolor watch <deviceId>")
		os.Exit(1)
	}
	ctx := context.Background()

	device, err := a.sensors.Device(ctx, args[0])
	exitOnError(err)

	var reference *domain.SensorEntry
	if selected, ok := a.sensors.SelectedCalibration(ctx, device.ID); ok {
		reference = &selected
		fmt.Printf("Calibrated against %q\n", selected.Name)
	} else {
		fmt.Println("No calibration reference selected; heights are not shown.")
	}

	floorHeight := altitude.DefaultFloorHeight
	if raw := os.Getenv("PICOLOR_FLOOR_HEIGHT"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			floorHeight = parsed
		}
	}

	fmt.Printf("Watching %s. Press Ctrl+C to stop.\n\n", device.Name)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	showReading := func(data domain.SensorData) {
		line := fmt.Sprintf("[%s] %.1f°C  %.1f%%  %.2f hPa",
			data.Timestamp.Format("15:04:05"),
			data.Environmental.Temperature.Temperature,
			data.Environmental.Humidity,
			data.Environmental.Pressure)
		if reference != nil {
			height := altitude.HeightFrom(data, *reference)
			line += fmt.Sprintf("  height %.2f m (floor %d)", height, altitude.FloorFor(height, floorHeight))
		}
		fmt.Println(line)
	}

	if device.URL == sense.TestURL {
		// Simulated devices have no socket; generate readings locally.
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				showReading(sense.Simulated())
			case <-sigChan:
				fmt.Println("\nStopping...")
				return
			}
		}
	}

	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	feed, err := sense.Connect(dialCtx, device.URL, a.logger)
	cancel()
	exitOnError(err)
	defer feed.Close()

	remove := feed.OnSensorData(showReading)
	defer remove()
	exitOnError(feed.Subscribe())

	select {
	case <-sigChan:
		fmt.Println("\nStopping...")
		if err := feed.Unsubscribe(); err == nil {
			time.Sleep(100 * time.Millisecond)
		}
	case <-feed.Done():
		fmt.Println("Connection closed by device.")
	}
}

func (a *app) settingsCommand(args []string) {
	ctx := context.Background()

	if len(args) == 0 {
		settings := a.matrixes.Settings(ctx)
		state := "disabled"
		if settings.EnableUpdatePi {
			state = "enabled"
		}
		url := settings.URL
		if url == "" {
			url = "(not set)"
		}
		fmt.Printf("Pi updates: %s\n", state)
		fmt.Printf("Pattern URL: %s\n", url)
		fmt.Printf("Theme: %s\n", a.theme.Get(ctx))
		return
	}

	settings := a.matrixes.Settings(ctx)
	switch args[0] {
	case "url":
		requireArgs(args, 2, "picolor settings url <url>")
		settings.URL = args[1]
	case "on":
		settings.EnableUpdatePi = true
	case "off":
		settings.EnableUpdatePi = false
	case "theme":
		requireArgs(args, 2, "picolor settings theme <light|dark>")
		theme := domain.Theme(args[1])
		if theme != domain.ThemeLight && theme != domain.ThemeDark {
			fmt.Println("Usage: picolor settings theme <light|dark>")
			os.Exit(1)
		}
		exitOnError(a.theme.Set(ctx, theme))
		fmt.Println("Settings saved.")
		return
	default:
		fmt.Println("Usage: picolor settings [url <url>|on|off|theme <light|dark>]")
		os.Exit(1)
	}
	exitOnError(a.matrixes.SetSettings(ctx, settings))
	fmt.Println("Settings saved.")
}

func printMatrix(config domain.MatrixConfig) {
	frame := domain.NewFrame(config.Width, config.Height)
	frame.ApplyConfig(config)
	fmt.Printf("%s (%dx%d, %d pixel(s))\n", config.Name, config.Width, config.Height, config.Matrix.PixelCount())
	fmt.Println(frame.ASCII())
}

func printReading(data domain.SensorData) {
	fmt.Printf("  Temperature: %.1f°C\n", data.Environmental.Temperature.Temperature)
	fmt.Printf("  Humidity:    %.1f%%\n", data.Environmental.Humidity)
	fmt.Printf("  Pressure:    %.2f hPa\n", data.Environmental.Pressure)
}

func withMatrix(config domain.MatrixConfig, matrix domain.SparseMatrix) domain.MatrixConfig {
	config.Matrix = matrix
	return config
}

func parsePoint(xs, ys string) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", ys)
	}
	return x, y, nil
}

func parseColor(rs, gs, bs string) (domain.RGB, error) {
	parse := func(s string) (uint8, error) {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 255 {
			return 0, fmt.Errorf("invalid channel %q (0-255)", s)
		}
		return uint8(v), nil
	}
	r, err := parse(rs)
	if err != nil {
		return domain.RGB{}, err
	}
	g, err := parse(gs)
	if err != nil {
		return domain.RGB{}, err
	}
	b, err := parse(bs)
	if err != nil {
		return domain.RGB{}, err
	}
	return domain.RGB{R: r, G: g, B: b}, nil
}

func readAll(f *os.File) (string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String(), scanner.Err()
}

func requireArgs(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Printf("Usage: %s\n", usage)
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
