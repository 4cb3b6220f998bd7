package genetic

import "fmt"

// Phase is a stage of the training schedule.
type Phase uint8

const (
	PhaseExploration Phase = iota
	PhaseTransition
	PhaseConvergence
)

func (ph Phase) String() string {
	switch ph {
	case PhaseExploration:
		return "exploration"
	case PhaseTransition:
		return "transition"
	case PhaseConvergence:
		return "convergence"
	}
	return fmt.Sprintf("Phase(%d)", uint8(ph))
}

// Training defaults.
const (
	DefaultPopulationSize     = 30
	DefaultGamesPerIndividual = 3
	DefaultTurnLimit          = 3000
	DefaultMaxGenerations     = 200
)

// Schedule maps a generation number to evolver parameters. The zero value is
// not useful; start from DefaultSchedule.
type Schedule struct {
	// TransitionAt and ConvergenceAt are the first generations of those phases.
	TransitionAt  int
	ConvergenceAt int

	MaxWeight     [3]float32
	MutationSigma [3]float32

	MutationRate   float32
	BLXAlpha       float32
	EliteCount     int
	TournamentSize int
}

// DefaultSchedule widens the search early and narrows mutation as training
// settles.
func DefaultSchedule() Schedule {
	return Schedule{
		TransitionAt:   30,
		ConvergenceAt:  80,
		MaxWeight:      [3]float32{0.5, 0.8, 1.0},
		MutationSigma:  [3]float32{0.05, 0.02, 0.01},
		MutationRate:   0.3,
		BLXAlpha:       0.2,
		EliteCount:     2,
		TournamentSize: 2,
	}
}

func (s Schedule) PhaseOf(generation int) Phase {
	switch {
	case generation >= s.ConvergenceAt:
		return PhaseConvergence
	case generation >= s.TransitionAt:
		return PhaseTransition
	}
	return PhaseExploration
}

// EvolverForGeneration returns the evolver used to produce generation+1 from
// generation.
func (s Schedule) EvolverForGeneration(generation int) Evolver {
	ph := s.PhaseOf(generation)
	return Evolver{
		EliteCount:     s.EliteCount,
		MaxWeight:      s.MaxWeight[ph],
		TournamentSize: s.TournamentSize,
		MutationSigma:  s.MutationSigma[ph],
		BLXAlpha:       s.BLXAlpha,
		MutationRate:   s.MutationRate,
	}
}

// InitialMaxWeight bounds the weights of the first random population.
func (s Schedule) InitialMaxWeight() float32 {
	return s.MaxWeight[PhaseExploration]
}
