// Package store writes training and play records as zstd-compressed parquet.
// Every file is written under a tmp name and renamed into place, so readers
// never see a partial file.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// GenerationRow is one evaluated individual of one generation.
//
// Weights is indexed like the feature_ids file metadata.
type GenerationRow struct {
	RunID      string    `parquet:"run_id,dict"`
	Generation int32     `parquet:"generation"`
	Phase      string    `parquet:"phase,dict"`
	Fitness    string    `parquet:"fitness_kind,dict"`
	Rank       int32     `parquet:"rank"`
	Score      float32   `parquet:"score"`
	Weights    []float32 `parquet:"weights"`
}

// GameRow summarizes one automated game.
type GameRow struct {
	RunID          string  `parquet:"run_id,dict"`
	GameID         string  `parquet:"game_id"`
	Model          string  `parquet:"model,dict"`
	// Seed holds the uint64 game seed reinterpreted as two's complement, so
	// seeds above MaxInt64 are negative here. Recover it with uint64(Seed).
	Seed           int64   `parquet:"seed"`
	Pieces         int32   `parquet:"pieces"`
	Lines          int32   `parquet:"lines"`
	LineClears     []int32 `parquet:"line_clears"`
	WorstMaxHeight int32   `parquet:"worst_max_height"`
	ToppedOut      bool    `parquet:"topped_out"`
	Score          int32   `parquet:"score"`
}

// TurnRow is one placement of an automated game.
//
// Board holds the 20 playable rows after the turn, top first, two bytes per
// row little endian with bit x set for an occupied playable column x.
type TurnRow struct {
	GameID    string  `parquet:"game_id,dict"`
	Turn      int32   `parquet:"turn"`
	Kind      string  `parquet:"kind,dict"`
	Rotation  int32   `parquet:"rotation"`
	X         int32   `parquet:"x"`
	Y         int32   `parquet:"y"`
	UseHold   bool    `parquet:"use_hold"`
	Cleared   int32   `parquet:"cleared"`
	MaxHeight int32   `parquet:"max_height"`
	Score     float32 `parquet:"score"`
	Board     []byte  `parquet:"board"`
}

const (
	generationSchema = "generation_row_v1"
	gameSchema       = "game_row_v1"
	turnSchema       = "turn_row_v1"
)

func compression() parquet.WriterOption {
	return parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression})
}

// WriteGenerationParquet writes outDir/<runID>/gen_<generation>.parquet and
// returns its path. featureIDs label the Weights columns.
func WriteGenerationParquet(outDir, runID string, generation int, featureIDs []string, rows []GenerationRow) (string, error) {
	dir := filepath.Join(outDir, runID)
	name := fmt.Sprintf("gen_%04d.parquet", generation)
	return writeAtomic(dir, name, rows,
		compression(),
		parquet.KeyValueMetadata("schema", generationSchema),
		parquet.KeyValueMetadata("run_id", runID),
		parquet.KeyValueMetadata("feature_ids", strings.Join(featureIDs, ",")),
	)
}

// WriteGamesParquet writes one file of game summaries into outDir.
func WriteGamesParquet(outDir, name string, rows []GameRow) (string, error) {
	return writeAtomic(outDir, name, rows,
		compression(),
		parquet.KeyValueMetadata("schema", gameSchema),
	)
}

func writeAtomic[T any](outDir, name string, rows []T, opts ...parquet.WriterOption) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, opts...); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadGenerationParquet loads a file written by WriteGenerationParquet.
func ReadGenerationParquet(path string) ([]GenerationRow, error) {
	rows, err := parquet.ReadFile[GenerationRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}

// EncodeBoardRows packs playable rows (bit x = column x) into TurnRow.Board.
func EncodeBoardRows(rows []uint16) []byte {
	b := make([]byte, 0, 2*len(rows))
	for _, r := range rows {
		b = append(b, byte(r), byte(r>>8))
	}
	return b
}

func DecodeBoardRows(b []byte) ([]uint16, error) {
	if len(b)%2 != 0 {
		return nil, fmt.Errorf("board blob has odd length %d", len(b))
	}
	rows := make([]uint16, len(b)/2)
	for i := range rows {
		rows[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return rows, nil
}
