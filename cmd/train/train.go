package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/brensch/tetrisga/evaluator"
	"github.com/brensch/tetrisga/game"
	"github.com/brensch/tetrisga/genetic"
	"github.com/brensch/tetrisga/store"
)

type trainConfig struct {
	RunID              string
	Features           evaluator.FeatureSet
	Fitness            evaluator.Fitness
	Schedule           genetic.Schedule
	PopulationSize     int
	GamesPerIndividual int
	TurnLimit          int
	Generations        int
	Seed               uint64
	// DataDir receives one parquet file per generation; empty disables it.
	DataDir string
}

// generationUpdate is sent once per evaluated generation.
type generationUpdate struct {
	Generation int
	Phase      genetic.Phase
	Fitness    genetic.Stats
	Diversity  float32
	Best       genetic.Individual
	Elapsed    time.Duration
	Path       string
}

// train runs the generation loop. Cancellation is checked between
// generations; an evaluation in progress always completes. The returned
// population is the last evaluated one, sorted best first.
func train(ctx context.Context, cfg trainConfig, log *slog.Logger, updates chan<- generationUpdate) (*genetic.Population, error) {
	if cfg.PopulationSize < 1 || cfg.GamesPerIndividual < 1 || cfg.Generations < 1 {
		return nil, fmt.Errorf("population, games and generations must be positive")
	}
	if cfg.TurnLimit < 1 {
		return nil, fmt.Errorf("turn limit must be positive, got %d", cfg.TurnLimit)
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	se := evaluator.SessionEvaluator{TurnLimit: cfg.TurnLimit, Fitness: cfg.Fitness}
	pop := genetic.RandomPopulation(cfg.Features, cfg.PopulationSize, rng, cfg.Schedule.InitialMaxWeight())

	for gen := 0; gen < cfg.Generations; gen++ {
		start := time.Now()
		phase := cfg.Schedule.PhaseOf(gen)

		fields := make([]*game.Field, cfg.GamesPerIndividual)
		for i := range fields {
			fields[i] = game.NewField(rand.NewPCG(rng.Uint64(), rng.Uint64()))
		}
		pop.EvaluateFitness(fields, se)

		weightStats := pop.WeightStats()
		u := generationUpdate{
			Generation: gen,
			Phase:      phase,
			Fitness:    pop.FitnessStats(),
			Diversity:  genetic.MeanNormalizedStdDev(weightStats),
			Best:       pop.Best(),
			Elapsed:    time.Since(start),
		}

		if cfg.DataDir != "" {
			path, err := store.WriteGenerationParquet(cfg.DataDir, cfg.RunID, gen, cfg.Features.IDs(), generationRows(cfg, gen, phase, pop))
			if err != nil {
				return pop, fmt.Errorf("generation %d: %w", gen, err)
			}
			u.Path = path
		}

		log.Info("generation evaluated",
			"generation", gen,
			"phase", phase.String(),
			"elapsed", u.Elapsed,
			slog.Group("fitness",
				"min", u.Fitness.Min,
				"max", u.Fitness.Max,
				"mean", u.Fitness.Mean,
			),
			"weight_norm_stddev", u.Diversity,
			"best_weights", u.Best.Weights,
		)
		for i, ws := range weightStats {
			log.Debug("weight stats",
				"generation", gen,
				"feature", cfg.Features[i].ID,
				"min", ws.Min,
				"max", ws.Max,
				"mean", ws.Mean,
				"norm_stddev", ws.NormalizedStdDev,
			)
		}

		if updates != nil {
			select {
			case updates <- u:
			case <-ctx.Done():
			}
		}

		if gen+1 == cfg.Generations {
			break
		}
		if err := ctx.Err(); err != nil {
			log.Warn("training interrupted", "generation", gen)
			return pop, err
		}
		pop = cfg.Schedule.EvolverForGeneration(gen).Evolve(pop, rng)
	}
	return pop, nil
}

func generationRows(cfg trainConfig, gen int, phase genetic.Phase, pop *genetic.Population) []store.GenerationRow {
	rows := make([]store.GenerationRow, len(pop.Individuals))
	for i, ind := range pop.Individuals {
		rows[i] = store.GenerationRow{
			RunID:      cfg.RunID,
			Generation: int32(gen),
			Phase:      phase.String(),
			Fitness:    cfg.Fitness.String(),
			Rank:       int32(i),
			Score:      ind.Fitness,
			Weights:    ind.Weights,
		}
	}
	return rows
}
