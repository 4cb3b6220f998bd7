package evaluator

import "fmt"

// Source is a raw board measurement.
type Source uint8

const (
	// survival
	SourceNumHoles Source = iota
	SourceSumOfHoleDepth
	SourceMaxHeight
	SourceCenterColumnMaxHeight
	SourceTotalHeight
	// structure
	SourceSurfaceBumpiness
	SourceSurfaceRoughness
	SourceRowTransitions
	SourceColumnTransitions
	SourceSumOfWellDepth
	// score
	SourceNumClearedLines
	SourceEdgeIWellDepth

	numSources
)

type sourceMeta struct{ id, name string }

var sourceInfo = [numSources]sourceMeta{
	SourceNumHoles:              {"num_holes", "Number of Holes"},
	SourceSumOfHoleDepth:        {"sum_of_hole_depth", "Sum of Hole Depth"},
	SourceMaxHeight:             {"max_height", "Max Height"},
	SourceCenterColumnMaxHeight: {"center_column_max_height", "Center Column Max Height"},
	SourceTotalHeight:           {"total_height", "Total Height"},
	SourceSurfaceBumpiness:      {"surface_bumpiness", "Surface Bumpiness"},
	SourceSurfaceRoughness:      {"surface_roughness", "Surface Roughness"},
	SourceRowTransitions:        {"row_transitions", "Row Transitions"},
	SourceColumnTransitions:     {"column_transitions", "Column Transitions"},
	SourceSumOfWellDepth:        {"sum_of_well_depth", "Sum of Well Depth"},
	SourceNumClearedLines:       {"num_cleared_lines", "Number of Cleared Lines"},
	SourceEdgeIWellDepth:        {"edge_i_well_depth", "Edge I-Well Depth"},
}

// AllSources lists every source in registration order.
func AllSources() []Source {
	out := make([]Source, numSources)
	for i := range out {
		out[i] = Source(i)
	}
	return out
}

// SourceByID looks a source up by its stable identifier.
func SourceByID(id string) (Source, bool) {
	for i, info := range sourceInfo {
		if info.id == id {
			return Source(i), true
		}
	}
	return 0, false
}

func (s Source) ID() string   { return s.info().id }
func (s Source) Name() string { return s.info().name }

func (s Source) String() string { return s.ID() }

func (s Source) info() sourceMeta {
	if s >= numSources {
		return sourceMeta{fmt.Sprintf("source_%d", s), fmt.Sprintf("Source(%d)", s)}
	}
	return sourceInfo[s]
}

// Extract returns the raw measurement for a.
func (s Source) Extract(a *PlacementAnalysis) uint32 {
	switch s {
	case SourceNumHoles:
		return a.NumHoles()
	case SourceSumOfHoleDepth:
		return a.SumOfHoleDepth()
	case SourceMaxHeight:
		return uint32(a.MaxHeight())
	case SourceCenterColumnMaxHeight:
		return uint32(a.CenterColumnMaxHeight())
	case SourceTotalHeight:
		return a.TotalHeight()
	case SourceSurfaceBumpiness:
		return a.SurfaceBumpiness()
	case SourceSurfaceRoughness:
		return a.SurfaceRoughness()
	case SourceRowTransitions:
		return a.RowTransitions()
	case SourceColumnTransitions:
		return a.ColumnTransitions()
	case SourceSumOfWellDepth:
		return a.SumOfDeepWellDepth()
	case SourceNumClearedLines:
		return uint32(a.ClearedLines)
	case SourceEdgeIWellDepth:
		return uint32(a.EdgeIWellDepth())
	}
	panic(fmt.Sprintf("evaluator: unknown source %d", s))
}
