// Command train evolves placement weights with the genetic trainer and
// writes the best individual as a JSON model.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"lukechampine.com/frand"

	"github.com/brensch/tetrisga/evaluator"
	"github.com/brensch/tetrisga/genetic"
	"github.com/brensch/tetrisga/logging"
	"github.com/brensch/tetrisga/model"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "train:", err)
		os.Exit(1)
	}
}

func run() error {
	fitnessName := flag.String("fitness", "aggro", "Fitness function: aggro or defensive")
	out := flag.String("out", "", "Model output path (default models/<fitness>.json)")
	dataDir := flag.String("data-dir", "data/generations", "Directory for per-generation parquet files; empty disables them")
	featuresPath := flag.String("features", "", "Optional YAML feature config replacing the built-in one")
	generations := flag.Int("generations", genetic.DefaultMaxGenerations, "Number of generations")
	population := flag.Int("population", genetic.DefaultPopulationSize, "Individuals per generation")
	games := flag.Int("games", genetic.DefaultGamesPerIndividual, "Games per individual per generation")
	turnLimit := flag.Int("turn-limit", genetic.DefaultTurnLimit, "Maximum pieces per game")
	seed := flag.Uint64("seed", 0, "RNG seed; 0 picks a random one")
	tui := flag.Bool("tui", false, "Show a live progress view; logs go to -log-file")
	logFile := flag.String("log-file", "train.log", "Log destination when -tui is set")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", logging.FormatText, "Log format: text, json or pretty")
	flag.Parse()

	fitness, err := evaluator.ParseFitness(*fitnessName)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = filepath.Join("models", fitness.String()+".json")
	}

	var logOut io.Writer = os.Stderr
	if *tui {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log, err := logging.New(logOut, *logLevel, *logFormat)
	if err != nil {
		return err
	}

	features := evaluator.DefaultFeatures()
	if *featuresPath != "" {
		if features, err = evaluator.LoadFeatureSet(*featuresPath); err != nil {
			return err
		}
	}

	if *seed == 0 {
		*seed = frand.Uint64n(math.MaxUint64) + 1
	}
	cfg := trainConfig{
		RunID:              uuid.NewString(),
		Features:           features,
		Fitness:            fitness,
		Schedule:           genetic.DefaultSchedule(),
		PopulationSize:     *population,
		GamesPerIndividual: *games,
		TurnLimit:          *turnLimit,
		Generations:        *generations,
		Seed:               *seed,
		DataDir:            *dataDir,
	}
	log = log.With("run_id", cfg.RunID)
	log.Info("training started",
		"fitness", fitness.String(),
		"seed", cfg.Seed,
		"features", len(features),
		"population", cfg.PopulationSize,
		"generations", cfg.Generations,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pop *genetic.Population
	if *tui {
		pop, err = trainWithProgress(ctx, cancel, cfg, log)
	} else {
		pop, err = train(ctx, cfg, log, nil)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if pop == nil {
		return errors.New("no generation was evaluated")
	}

	best := pop.Best()
	m := model.FromIndividual(fitness.String(), features, best)
	if err := m.Save(*out); err != nil {
		return err
	}
	log.Info("model saved",
		"path", *out,
		"name", m.Name,
		"trained_at", m.TrainedAt,
		"final_fitness", m.FinalFitness,
		"weights", len(m.PlacementWeights),
		"interrupted", err != nil,
	)
	return nil
}

// trainWithProgress runs train on a goroutine behind the progress view.
// Quitting the view cancels training after the current generation.
func trainWithProgress(ctx context.Context, cancel context.CancelFunc, cfg trainConfig, log *slog.Logger) (*genetic.Population, error) {
	updates := make(chan generationUpdate, 1)
	p := tea.NewProgram(newProgressModel(cfg.RunID, cfg.Fitness.String(), cfg.Generations, updates))

	type result struct {
		pop *genetic.Population
		err error
	}
	done := make(chan result, 1)
	go func() {
		pop, err := train(ctx, cfg, log, updates)
		done <- result{pop, err}
		p.Send(trainingDone{err: err})
	}()

	if _, err := p.Run(); err != nil {
		log.Error("progress view failed", "err", err)
	}
	cancel()
	r := <-done
	return r.pop, r.err
}
