// Package main implements the gones NES emulator executable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"gones/internal/app"
	"gones/internal/version"
)

// framesPerSecond approximates NTSC's ~60.0988 Hz for -s second counts.
const framesPerSecond = 60.0988

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gones:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		frames  = flag.Int("f", 0, "with -nogui, run for N frames, then exit (mutually exclusive with -s)")
		seconds = flag.Float64("s", 0, "with -nogui, run for SECS emulated seconds, then exit (mutually exclusive with -f)")
		scale   = flag.Int("scale", 3, "initial window scale")
		nogui   = flag.Bool("nogui", false, "drive the core headless: no window, no audio device")
		showVer = flag.Bool("version", false, "print build information and exit")
	)
	flag.Usage = printUsage
	flag.Parse()

	if *showVer {
		version.PrintBuildInfo()
		return nil
	}

	if *frames > 0 && *seconds > 0 {
		return fmt.Errorf("-f and -s are mutually exclusive")
	}

	if flag.NArg() < 1 {
		flag.Usage()
		return fmt.Errorf("rom.nes is required")
	}
	romPath := flag.Arg(0)

	application, err := app.NewApplicationWithMode(app.GetDefaultConfigPath(), *nogui)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if cerr := application.Cleanup(); cerr != nil {
			fmt.Fprintln(os.Stderr, "gones: cleanup:", cerr)
		}
	}()

	config := application.GetConfig()
	config.Window.Scale = *scale
	if *nogui {
		config.Video.Backend = "headless"
	}

	if err := application.LoadROM(romPath); err != nil {
		return fmt.Errorf("load %s: %w", romPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	// A dedicated goroutine turns SIGINT/SIGTERM into a cooperative stop
	// request, whichever run mode is active below.
	group.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case <-sig:
			application.Stop()
		case <-groupCtx.Done():
		}
		return nil
	})

	if *nogui {
		targetFrames := *frames
		if targetFrames == 0 && *seconds > 0 {
			targetFrames = int(*seconds * framesPerSecond)
		}
		if targetFrames <= 0 {
			targetFrames = 60
		}
		group.Go(func() error {
			defer cancel()
			return runHeadless(application, targetFrames)
		})
	} else {
		group.Go(func() error {
			defer cancel()
			return application.Run()
		})
	}

	return group.Wait()
}

// runHeadless drives the core for exactly targetFrames frames with no
// window and no audio device, the CI/automation entry point the GUI run
// loop's host contract describes.
func runHeadless(application *app.Application, targetFrames int) error {
	bus := application.GetBus()
	if bus == nil {
		return fmt.Errorf("bus not initialized")
	}
	bus.Run(targetFrames)
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "gones - Go NES Emulator")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "USAGE:")
	fmt.Fprintln(os.Stderr, "  gones [options] <rom.nes>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "OPTIONS:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "EXAMPLES:")
	fmt.Fprintln(os.Stderr, "  gones game.nes                  # GUI mode")
	fmt.Fprintln(os.Stderr, "  gones -nogui -f 120 game.nes     # headless, 120 frames")
	fmt.Fprintln(os.Stderr, "  gones -nogui -s 2 game.nes        # headless, ~2 emulated seconds")
	fmt.Fprintln(os.Stderr, "  gones -version                  # print build info")
}
