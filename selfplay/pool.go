package selfplay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/brensch/tetrisga/evaluator"
)

// Pool plays games on Workers goroutines. Game i uses seed BaseSeed+i.
type Pool struct {
	Workers   int
	Games     int // 0 plays until ctx is cancelled
	TurnLimit int
	BaseSeed  uint64
	Evaluator evaluator.TurnEvaluator

	// OnTurn is called from worker goroutines after every placement.
	OnTurn func()
}

// Run plays the pool's games and hands each finished game to sink. sink runs
// on a single goroutine, in completion order. Games cut short by
// cancellation are dropped and Run returns ctx's error; an error from sink
// stops all workers and is returned.
func (p Pool) Run(ctx context.Context, sink func(Record) error) error {
	if p.Workers < 1 {
		return fmt.Errorf("selfplay: %d workers", p.Workers)
	}
	if p.TurnLimit < 1 {
		return fmt.Errorf("selfplay: turn limit %d", p.TurnLimit)
	}

	g, ctx := errgroup.WithContext(ctx)
	records := make(chan Record, p.Workers)
	var next atomic.Int64
	var workers sync.WaitGroup

	for range p.Workers {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for {
				i := next.Add(1) - 1
				if p.Games > 0 && i >= int64(p.Games) {
					return nil
				}
				rec, err := PlayGame(ctx, p.Evaluator, p.BaseSeed+uint64(i), p.TurnLimit, p.OnTurn)
				if err != nil {
					return err
				}
				select {
				case records <- rec:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}
	g.Go(func() error {
		workers.Wait()
		close(records)
		return nil
	})
	g.Go(func() error {
		for rec := range records {
			if err := sink(rec); err != nil {
				return err
			}
		}
		return nil
	})
	return g.Wait()
}
