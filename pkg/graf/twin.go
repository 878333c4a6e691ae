package graf

import (
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// TwinResolver answers twin-axis questions about native axes.
type TwinResolver interface {
	// HasTwin reports whether ax shares its X range with another axis of
	// the same figure.
	HasTwin(ax AxisSource) bool
	// SharedFrom returns the axis ax was twinned from. It returns false for
	// the primary member of a pair.
	SharedFrom(ax AxisSource) (AxisSource, bool)
}

// TwinPair is two native axes sharing one X range.
type TwinPair struct {
	Primary   AxisSource // supplies X and Y-left
	Secondary AxisSource // supplies Y-right
}

// Pairing partitions the axes of a figure.
type Pairing struct {
	Sole    []AxisSource
	Pairs   []TwinPair
	Dropped [][]AxisSource // twin groups without exactly two members
}

// PairAxes splits axes into sole axes and twin pairs. Each secondary axis
// joins the group of the primary it was twinned from, regardless of input
// order. Groups that do not end up with exactly two members are dropped
// with a warning, as are secondaries whose primary is not in axes.
func PairAxes(axes []AxisSource, r TwinResolver) Pairing {
	var p Pairing
	var groups [][]AxisSource
	var secondaries []AxisSource

	for _, ax := range axes {
		if !r.HasTwin(ax) {
			p.Sole = append(p.Sole, ax)
			continue
		}
		if _, ok := r.SharedFrom(ax); ok {
			secondaries = append(secondaries, ax)
			continue
		}
		groups = append(groups, []AxisSource{ax})
	}

	for _, ax := range secondaries {
		parent, _ := r.SharedFrom(ax)
		joined := false
		for i, g := range groups {
			if g[0] == parent {
				groups[i] = append(g, ax)
				joined = true
				break
			}
		}
		if !joined {
			pack.Logger().Warn("twin axis has no primary, dropping", "grid", gridOf(ax))
			p.Dropped = append(p.Dropped, []AxisSource{ax})
		}
	}

	for _, g := range groups {
		if len(g) != 2 {
			pack.Logger().Warn("twin group does not resolve to a pair, dropping", "members", len(g), "grid", gridOf(g[0]))
			p.Dropped = append(p.Dropped, g)
			continue
		}
		p.Pairs = append(p.Pairs, TwinPair{Primary: g[0], Secondary: g[1]})
	}
	return p
}

func gridOf(ax AxisSource) Cell {
	pos, _ := ax.Grid()
	return pos
}
