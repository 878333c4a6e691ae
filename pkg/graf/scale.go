package graf

import (
	"fmt"

	"github.com/aclements/go-moremath/scale"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// Scale is one coordinate axis of an Axis. Unused scales (Z on 2-D content,
// Y-right without a twin) are kept but marked invalid.
type Scale struct {
	Valid      bool
	Min        float64
	Max        float64
	Ticks      []float64
	MinorTicks []float64 // always empty; kept for format compatibility
	TickLabels []string
	Label      string
}

// NewScale returns a valid [0, 1] scale with no ticks.
func NewScale() *Scale {
	return &Scale{Valid: true, Min: 0, Max: 1, Ticks: []float64{}, MinorTicks: []float64{}, TickLabels: []string{}}
}

// InvalidScale returns a placeholder for a scale the axis does not use.
func InvalidScale() *Scale {
	s := NewScale()
	s.Valid = false
	return s
}

var scaleSchema = pack.NewSchema("Scale",
	pack.Bool("is_valid", func(s *Scale) *bool { return &s.Valid }),
	pack.Float("val_min", func(s *Scale) *float64 { return &s.Min }),
	pack.Float("val_max", func(s *Scale) *float64 { return &s.Max }),
	pack.Floats("tick_list", func(s *Scale) *[]float64 { return &s.Ticks }),
	pack.Floats("minor_tick_list", func(s *Scale) *[]float64 { return &s.MinorTicks }),
	pack.Strings("tick_label_list", func(s *Scale) *[]string { return &s.TickLabels }),
	pack.String("label", func(s *Scale) *string { return &s.Label }),
)

func (s *Scale) Pack() document.Document          { return scaleSchema.Pack(s) }
func (s *Scale) Unpack(d document.Document) error { return scaleSchema.Unpack(s, d) }

// Validate checks that tick labels parallel the major ticks.
func (s *Scale) Validate() error {
	if len(s.Ticks) > 0 && len(s.TickLabels) > 0 && len(s.Ticks) != len(s.TickLabels) {
		return errors.New(errors.ErrCodeInvalidDocument,
			"%d tick labels for %d ticks", len(s.TickLabels), len(s.Ticks))
	}
	return nil
}

// AutoTicks replaces the major ticks and labels with at most max evenly
// spaced round values inside [Min, Max]. Minor ticks are left empty.
func (s *Scale) AutoTicks(max int) {
	lo, hi := s.Min, s.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	ls := scale.Linear{Min: lo, Max: hi}
	major, _ := ls.Ticks(scale.TickOptions{Max: max})

	s.Ticks = append([]float64{}, major...)
	s.TickLabels = make([]string, len(major))
	for i, x := range major {
		s.TickLabels[i] = fmt.Sprintf("%.6g", x)
	}
	s.MinorTicks = []float64{}
}
