package evaluator

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed features.yaml
var defaultFeaturesYAML []byte

type featureFileConfig struct {
	Features []featureConfig `yaml:"features"`
}

type featureConfig struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Source       string   `yaml:"source"`
	Processing   string   `yaml:"processing"`
	Signal       string   `yaml:"signal,omitempty"`
	NormalizeMin *float32 `yaml:"normalize_min,omitempty"`
	NormalizeMax *float32 `yaml:"normalize_max,omitempty"`
}

// ParseFeatureSet decodes a YAML feature list and validates it.
func ParseFeatureSet(data []byte) (FeatureSet, error) {
	var cfg featureFileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode feature config: %w", err)
	}

	fs := make(FeatureSet, 0, len(cfg.Features))
	for i, fc := range cfg.Features {
		f, err := fc.feature()
		if err != nil {
			return nil, fmt.Errorf("feature #%d (%q): %w", i, fc.ID, err)
		}
		fs = append(fs, f)
	}
	if err := fs.Validate(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fc featureConfig) feature() (Feature, error) {
	src, ok := SourceByID(fc.Source)
	if !ok {
		return Feature{}, fmt.Errorf("unknown source %q", fc.Source)
	}
	f := Feature{ID: fc.ID, Name: fc.Name, Source: src}
	if f.Name == "" {
		f.Name = src.Name()
	}

	switch fc.Processing {
	case "linear", "":
		f.Processing.Kind = ProcessingLinear
		switch fc.Signal {
		case "positive":
			f.Processing.Signal = SignalPositive
		case "negative":
			f.Processing.Signal = SignalNegative
		default:
			return Feature{}, fmt.Errorf("signal must be positive or negative, got %q", fc.Signal)
		}
		if fc.NormalizeMin == nil || fc.NormalizeMax == nil {
			return Feature{}, fmt.Errorf("linear processing needs normalize_min and normalize_max")
		}
		f.Processing.NormalizeMin = *fc.NormalizeMin
		f.Processing.NormalizeMax = *fc.NormalizeMax
	case "line_clear_bonus":
		f.Processing.Kind = ProcessingLineClearBonus
	case "i_well_reward":
		f.Processing.Kind = ProcessingIWellReward
	default:
		return Feature{}, fmt.Errorf("unknown processing %q", fc.Processing)
	}
	return f, nil
}

// LoadFeatureSet reads a YAML feature config from disk.
func LoadFeatureSet(path string) (FeatureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature config: %w", err)
	}
	return ParseFeatureSet(data)
}

// DefaultFeatures returns the built-in feature set. It panics if the embedded
// config is malformed.
func DefaultFeatures() FeatureSet {
	fs, err := ParseFeatureSet(defaultFeaturesYAML)
	if err != nil {
		panic(fmt.Sprintf("evaluator: embedded feature config: %v", err))
	}
	return fs
}
