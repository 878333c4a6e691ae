package graf

import (
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// Region is one destination plot area created by a [Renderer].
type Region interface {
	SetScale(id ScaleID, s *Scale, style *GraphStyle)
	SetGrid(on bool)
	SetTitle(title string, font *Font)
	DrawTrace(t *Trace, style *GraphStyle)
	DrawSurface(s *Surface, style *GraphStyle)
}

// Renderer creates live regions for a reconstructed figure.
type Renderer interface {
	SetSupertitle(text string, font *Font)
	// NewRegion allocates a region covering slot of the layout grid.
	NewRegion(slot Placement, threeD bool) (Region, error)
	// NewTwinRegion allocates a region sharing the X range of primary.
	NewTwinRegion(primary Region) (Region, error)
}

// Apply walks the layout of g and hands every axis to r. An axis whose
// region cannot be created is skipped; the failures are returned joined.
func Apply(g *Graf, r Renderer) error {
	style := g.Style
	if style == nil {
		style = NewGraphStyle()
	}
	r.SetSupertitle(g.Supertitle, style.Supertitle)

	var errs []error
	for _, p := range g.Layout().Placements {
		ax, _ := g.Axes.Get(p.Key)
		if err := applyAxis(ax, p, r, style); err != nil {
			pack.Logger().Warn("axis not applied", "axis", p.Key, "err", err)
			errs = append(errs, errors.Wrap(errors.ErrCodeInternal, err, "apply %s", p.Key))
		}
	}
	return joinErrors(errs)
}

func applyAxis(ax *Axis, slot Placement, r Renderer, style *GraphStyle) error {
	threeD := ax.Z != nil && ax.Z.Valid
	region, err := r.NewRegion(slot, threeD)
	if err != nil {
		return err
	}

	if ax.Kind.IsLine() {
		var twin Region
		if ax.IsTwin() {
			if twin, err = r.NewTwinRegion(region); err != nil {
				return err
			}
		}
		for _, t := range pack.Values(ax.Traces) {
			if t.UseYAxisRight && twin != nil {
				twin.DrawTrace(t, style)
			} else {
				region.DrawTrace(t, style)
			}
		}
		setScale(region, ScaleX, ax.X, style)
		setScale(region, ScaleY, ax.YLeft, style)
		if twin != nil {
			setScale(twin, ScaleY, ax.YRight, style)
		}
		if threeD {
			setScale(region, ScaleZ, ax.Z, style)
		}
	} else {
		for _, s := range pack.Values(ax.Surfaces) {
			region.DrawSurface(s, style)
		}
		setScale(region, ScaleX, ax.X, style)
		setScale(region, ScaleY, ax.YLeft, style)
	}

	region.SetGrid(ax.GridOn)
	region.SetTitle(ax.Title, style.Title)
	return nil
}

func setScale(r Region, id ScaleID, s *Scale, style *GraphStyle) {
	if s == nil || !s.Valid {
		return
	}
	r.SetScale(id, s, style)
}
