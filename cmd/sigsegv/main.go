package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/hailam/sigsegv/internal/board"
	"github.com/hailam/sigsegv/internal/engine"
	"github.com/hailam/sigsegv/internal/render"
	"github.com/hailam/sigsegv/internal/storage"
	"github.com/hailam/sigsegv/internal/xboard"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	dbDir      = flag.String("db", "", "game archive directory (\"off\" disables the archive)")
	renderDir  = flag.String("render-dir", "", "write a PNG diagram after every engine move (\"auto\" for the data directory)")
	depth      = flag.Int("depth", 0, "search depth in plies (default from preferences)")
	threads    = flag.Int("threads", 0, "goroutines for the root split (default from preferences)")
)

func main() {
	flag.Parse()

	// xboard owns stdout.
	logger := log.New(os.Stderr, "sigsegv: ", log.LstdFlags)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := envOr(*cpuprofile, "CPUPROFILE")
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			logger.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		logger.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	prefs := storage.DefaultPreferences()
	var store *storage.Storage
	if dir := envOr(*dbDir, "SIGSEGV_DB"); dir != "off" {
		var err error
		store, err = storage.Open(dir)
		if err != nil {
			logger.Printf("Warning: archive disabled: %v", err)
		} else {
			defer store.Close()
			if prefs, err = store.LoadPreferences(); err != nil {
				logger.Printf("Warning: preferences not loaded: %v", err)
			}
		}
	}

	opts := engine.Options{Depth: prefs.Depth, Threads: prefs.Threads}
	if *depth > 0 {
		opts.Depth = *depth
	}
	if *threads > 0 {
		opts.Threads = *threads
	}

	protocol := xboard.New(opts, os.Stdin, os.Stdout, logger)
	if store != nil {
		protocol.SetArchive(store)
	}

	dir, err := resolveRenderDir(envOr(*renderDir, "SIGSEGV_RENDER_DIR"), prefs.RenderDir)
	if err != nil {
		logger.Printf("Warning: rendering disabled: %v", err)
	} else if dir != "" {
		protocol.OnEngineMove = diagramWriter(dir, logger)
		logger.Printf("writing diagrams to %s", dir)
	}

	if err := protocol.Run(); err != nil {
		logger.Printf("protocol: %v", err)
	}

	if store != nil {
		prefs.Depth = opts.Depth
		prefs.Threads = opts.Threads
		prefs.RenderDir = dir
		if err := store.SavePreferences(prefs); err != nil {
			logger.Printf("Warning: preferences not saved: %v", err)
		}
	}
}

// envOr returns flagValue, or the environment variable when the flag is
// unset.
func envOr(flagValue, env string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(env)
}

func resolveRenderDir(dir, saved string) (string, error) {
	if dir == "" {
		dir = saved
	}
	switch dir {
	case "", "off":
		return "", nil
	case "auto":
		return storage.GetRenderDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// diagramWriter saves one PNG per engine move, numbered by ply.
func diagramWriter(dir string, logger *log.Logger) func(*board.Position, board.Move) {
	ply := 0
	return func(pos *board.Position, m board.Move) {
		ply++
		path := filepath.Join(dir, fmt.Sprintf("move-%03d-%s.png", ply, m))
		f, err := os.Create(path)
		if err != nil {
			logger.Printf("render: %v", err)
			return
		}
		defer f.Close()

		opts := render.DefaultOptions()
		opts.Flip = pos.SideToMove == board.White
		if err := render.WritePNG(f, pos, opts); err != nil {
			logger.Printf("render %s: %v", path, err)
		}
	}
}
