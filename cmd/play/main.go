// Command play runs a trained model. By default it plays many games in
// parallel and records them as parquet; -watch plays one game in the
// terminal and explains each placement.
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
	"syscall"
	"time"

	"github.com/google/uuid"
	"lukechampine.com/frand"

	"github.com/brensch/tetrisga/evaluator"
	"github.com/brensch/tetrisga/game"
	"github.com/brensch/tetrisga/logging"
	"github.com/brensch/tetrisga/model"
	"github.com/brensch/tetrisga/selfplay"
	"github.com/brensch/tetrisga/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "play:", err)
		os.Exit(1)
	}
}

func run() error {
	modelPath := flag.String("model", "models/aggro.json", "Path to a trained JSON model")
	featuresPath := flag.String("features", "", "Optional YAML feature config the model was trained with")
	outDir := flag.String("out-dir", "data/games", "Output directory for recorded games")
	workers := flag.Int("workers", 8, "Number of play workers")
	games := flag.Int("games", 100, "Games to play; 0 plays until interrupted")
	gamesPerFlush := flag.Int("games-per-flush", 50, "Games buffered per parquet flush")
	turnLimit := flag.Int("turn-limit", 10000, "Maximum pieces per game")
	seed := flag.Uint64("seed", 0, "Seed of the first game; 0 picks a random one")
	watch := flag.Bool("watch", false, "Play a single game and print every placement")
	delay := flag.Duration("delay", 0, "Pause between placements with -watch")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", logging.FormatText, "Log format: text, json or pretty")
	flag.Parse()

	log, err := logging.New(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		return err
	}

	features := evaluator.DefaultFeatures()
	if *featuresPath != "" {
		if features, err = evaluator.LoadFeatureSet(*featuresPath); err != nil {
			return err
		}
	}
	m, err := model.Load(*modelPath)
	if err != nil {
		return err
	}
	te, err := m.TurnEvaluator(features)
	if err != nil {
		return fmt.Errorf("model %s: %w", *modelPath, err)
	}
	if *seed == 0 {
		*seed = frand.Uint64n(math.MaxUint64) + 1
	}
	log.Info("model loaded", "name", m.Name, "trained_at", m.TrainedAt, "final_fitness", m.FinalFitness, "seed", *seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		return watchGame(ctx, os.Stdout, te, *seed, *turnLimit, *delay)
	}

	rec := newRecorder(*outDir, uuid.NewString(), m.Name, *gamesPerFlush, log)
	p := selfplay.Pool{
		Workers:   *workers,
		Games:     *games,
		TurnLimit: *turnLimit,
		BaseSeed:  *seed,
		Evaluator: te,
	}
	start := time.Now()
	err = p.Run(ctx, rec.add)
	if ferr := rec.flush(); ferr != nil && err == nil {
		err = ferr
	}
	log.Info("play finished", "games", rec.total, "elapsed", time.Since(start).Round(time.Millisecond))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// recorder buffers finished games and flushes them as one games file plus
// one turns file. It runs on the pool's sink goroutine only.
type recorder struct {
	outDir   string
	runID    string
	model    string
	perFlush int
	log      *slog.Logger

	turns   *store.BatchWriter[store.TurnRow]
	pending []store.GameRow
	total   int
}

func newRecorder(outDir, runID, model string, perFlush int, log *slog.Logger) *recorder {
	return &recorder{
		outDir:   outDir,
		runID:    runID,
		model:    model,
		perFlush: max(perFlush, 1),
		log:      log,
	}
}

func (r *recorder) add(rec selfplay.Record) error {
	if r.turns == nil {
		w, err := store.NewTurnWriter(r.outDir)
		if err != nil {
			return err
		}
		r.turns = w
	}
	if err := r.turns.WriteGame(rec.Turns); err != nil {
		return fmt.Errorf("write turns: %w", err)
	}
	g := rec.Game
	g.RunID = r.runID
	g.Model = r.model
	r.pending = append(r.pending, g)
	r.total++

	r.log.Info("game finished",
		"game_id", g.GameID,
		"seed", uint64(g.Seed),
		"pieces", g.Pieces,
		"lines", g.Lines,
		"tetrises", rec.Stats.LineClears[4],
		"worst_height", g.WorstMaxHeight,
		"topped_out", g.ToppedOut,
		"score", g.Score,
		"buffered_games", r.turns.BufferedGames(),
		"buffered_rows", r.turns.BufferedRows(),
	)

	if len(r.pending) >= r.perFlush {
		return r.flush()
	}
	return nil
}

func (r *recorder) flush() error {
	if r.turns == nil {
		return nil
	}
	turnsPath, rows, games, err := r.turns.Finalize()
	r.turns = nil
	if err != nil {
		return fmt.Errorf("flush turns: %w", err)
	}
	gamesPath, err := store.WriteGamesParquet(r.outDir, fmt.Sprintf("games_%d.parquet", time.Now().UnixNano()), r.pending)
	if err != nil {
		return fmt.Errorf("flush games: %w", err)
	}
	r.log.Info("parquet flush ok", "games_path", gamesPath, "turns_path", turnsPath, "games", games, "rows", rows)
	r.pending = r.pending[:0]
	return nil
}

// watchGame plays one game and prints the board before each placement with
// the chosen landing spot as ghost cells.
func watchGame(ctx context.Context, w io.Writer, te evaluator.TurnEvaluator, seed uint64, turnLimit int, delay time.Duration) error {
	f := selfplay.NewGameField(seed)
	for turn := 0; turn < turnLimit; turn++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		res, ok := te.SelectBestTurn(f)
		if !ok {
			break
		}

		view := *f.Blocks()
		view.FillGhost(res.Turn.Placement)
		held := "-"
		if k, ok := f.Held(); ok {
			held = k.String()
		}
		fmt.Fprintf(w, "turn %d  piece %s  hold %s  next %v\n", turn, f.Falling().Kind, held, f.NextPieces(5))
		fmt.Fprint(w, view.String())
		for _, c := range te.Analyze(f, res.Turn) {
			if c.Score != 0 {
				fmt.Fprintf(w, "  %-28s %6.3f x %6.3f = %7.4f\n", c.FeatureID, c.Value.Normalized, c.Weight, c.Score)
			}
		}

		f = res.Field
		st := f.Stats()
		fmt.Fprintf(w, "lines %d  score %d  level %d\n\n", st.TotalClearedLines, st.Score, st.Level())
		if res.ToppedOut {
			fmt.Fprintf(w, "game over: %v\n", game.ErrTopOut)
			return nil
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil
}
