package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/averre/globeflow/app"
	"github.com/averre/globeflow/config"
	"github.com/averre/globeflow/field"
	"github.com/averre/globeflow/geodata"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	dataDir := flag.String("data", "", "Grid data directory (empty = use config)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	windLevels, tempLevels, borders := loadData(cfg)

	opts := app.Options{
		Seed:       rngSeed,
		Headless:   *headless,
		LogStats:   *logStats,
		OutputDir:  *outputDir,
		WindLevels: windLevels,
		TempLevels: tempLevels,
		Borders:    borders,
	}

	if *headless {
		a, err := app.New(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer a.Unload()

		slog.Info("starting headless animation",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
		)

		for {
			a.Update()

			if *maxTicks > 0 && int(a.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", a.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	a, err := app.New(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Unload()

	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()

		if *maxTicks > 0 && int(a.Tick()) >= *maxTicks {
			break
		}
	}
}

// loadData reads the grid files and border polylines named by the
// config. Missing data is non-fatal: the globe runs with whatever
// loaded, logging what it skipped.
func loadData(cfg *config.Config) ([]field.WindLevel, []field.TemperatureLevel, []geodata.Polyline) {
	windLevels, err := geodata.LoadWindLevels(cfg.Data.Dir, cfg.Data.WindGlob)
	if err != nil {
		slog.Warn("loading wind levels", "dir", cfg.Data.Dir, "err", err)
	}
	tempLevels, err := geodata.LoadTemperatureLevels(cfg.Data.Dir, cfg.Data.TempGlob)
	if err != nil {
		slog.Warn("loading temperature levels", "dir", cfg.Data.Dir, "err", err)
	}

	var borders []geodata.Polyline
	if cfg.Data.Borders != "" {
		borders, err = geodata.LoadBorders(cfg.Data.Borders)
		if err != nil {
			slog.Warn("loading borders", "path", cfg.Data.Borders, "err", err)
		}
	}
	return windLevels, tempLevels, borders
}
