package evaluator

import (
	"fmt"
	"math"
)

// Signal orients a feature so that after normalization higher is better.
type Signal uint8

const (
	SignalPositive Signal = iota
	SignalNegative
)

func (s Signal) String() string {
	if s == SignalNegative {
		return "negative"
	}
	return "positive"
}

// ProcessingKind selects how a raw value is transformed.
type ProcessingKind uint8

const (
	// ProcessingLinear uses the raw value as is and normalizes it over
	// [NormalizeMin, NormalizeMax].
	ProcessingLinear ProcessingKind = iota
	// ProcessingLineClearBonus maps 0..4 cleared lines to 0,0,1,2,6.
	ProcessingLineClearBonus
	// ProcessingIWellReward is a triangle peaking at a well depth of 4.
	ProcessingIWellReward
)

func (k ProcessingKind) String() string {
	switch k {
	case ProcessingLinear:
		return "linear"
	case ProcessingLineClearBonus:
		return "line_clear_bonus"
	case ProcessingIWellReward:
		return "i_well_reward"
	}
	return fmt.Sprintf("ProcessingKind(%d)", uint8(k))
}

// Processing is the transform and normalization applied to a source.
// Signal and the bounds are only read for ProcessingLinear.
type Processing struct {
	Kind         ProcessingKind
	Signal       Signal
	NormalizeMin float32
	NormalizeMax float32
}

var lineClearBonus = [5]float32{0, 0, 1, 2, 6}

const (
	iWellPeak  = 4
	iWellWidth = 2
)

func (p Processing) Transform(raw uint32) float32 {
	switch p.Kind {
	case ProcessingLineClearBonus:
		return lineClearBonus[min(raw, uint32(len(lineClearBonus)-1))]
	case ProcessingIWellReward:
		d := math.Abs(float64(raw)-iWellPeak) / (iWellPeak / iWellWidth)
		return clamp01(float32(1 - d))
	}
	return float32(raw)
}

func (p Processing) Normalize(transformed float32) float32 {
	switch p.Kind {
	case ProcessingLineClearBonus:
		return linearNormalize(transformed, SignalPositive, 0, lineClearBonus[4])
	case ProcessingIWellReward:
		return linearNormalize(transformed, SignalPositive, 0, 1)
	}
	return linearNormalize(transformed, p.Signal, p.NormalizeMin, p.NormalizeMax)
}

func (p Processing) validate() error {
	switch p.Kind {
	case ProcessingLinear:
		if !(p.NormalizeMax > p.NormalizeMin) {
			return fmt.Errorf("normalize_max %v must exceed normalize_min %v", p.NormalizeMax, p.NormalizeMin)
		}
	case ProcessingLineClearBonus, ProcessingIWellReward:
	default:
		return fmt.Errorf("unknown processing %d", p.Kind)
	}
	return nil
}

func linearNormalize(v float32, signal Signal, lo, hi float32) float32 {
	norm := clamp01((v - lo) / (hi - lo))
	if signal == SignalNegative {
		return 1 - norm
	}
	return norm
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// Value is one feature evaluated on one placement.
type Value struct {
	Raw         uint32
	Transformed float32
	Normalized  float32
}

// Feature is a named, processed source. ID is the key models store weights by.
type Feature struct {
	ID         string
	Name       string
	Source     Source
	Processing Processing
}

func (f Feature) Compute(a *PlacementAnalysis) Value {
	raw := f.Source.Extract(a)
	t := f.Processing.Transform(raw)
	return Value{Raw: raw, Transformed: t, Normalized: f.Processing.Normalize(t)}
}

// Normalized is Compute without the intermediate values.
func (f Feature) Normalized(a *PlacementAnalysis) float32 {
	return f.Processing.Normalize(f.Processing.Transform(f.Source.Extract(a)))
}

// FeatureSet is the ordered list of features a weight vector refers to.
type FeatureSet []Feature

// IDs returns the feature ids in order.
func (fs FeatureSet) IDs() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID
	}
	return out
}

// Index returns the position of the feature with the given id.
func (fs FeatureSet) Index(id string) (int, bool) {
	for i, f := range fs {
		if f.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Validate checks ids are unique and every processing is well formed.
func (fs FeatureSet) Validate() error {
	if len(fs) == 0 {
		return fmt.Errorf("feature set is empty")
	}
	seen := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		if f.ID == "" {
			return fmt.Errorf("feature with source %s has no id", f.Source)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("duplicate feature id %q", f.ID)
		}
		seen[f.ID] = struct{}{}
		if f.Source >= numSources {
			return fmt.Errorf("feature %q: unknown source %d", f.ID, f.Source)
		}
		if err := f.Processing.validate(); err != nil {
			return fmt.Errorf("feature %q: %w", f.ID, err)
		}
	}
	return nil
}
