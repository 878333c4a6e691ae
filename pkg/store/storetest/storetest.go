// Package storetest checks that a [store.Store] implementation honours the
// contract every backend shares.
package storetest

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/graf"
	"github.com/Grant-Giesbrecht/graf/pkg/store"
)

// Figure returns a small figure touching every kind of packed value: nested
// entities, keyed collections, tuples and floats that only survive an exact
// encoding.
func Figure() *graf.Graf {
	g := graf.New()
	g.Supertitle = "Amplifier sweep"
	g.Info = graf.NewMetaInfo("bench run", map[string]string{"temp": "4K"})

	a := graf.NewAxis()
	a.Title = "gain"
	a.X.Min, a.X.Max = 0.1+0.2, math.Pi
	a.X.Ticks = []float64{0.3, 1, math.Pi}
	a.X.TickLabels = []string{"0.3", "1", "pi"}

	t := graf.NewTrace()
	t.X = []float64{1e-300, 1.0 / 3, 2}
	t.Y = []float64{math.SmallestNonzeroFloat64, -0.1, 1e300}
	t.DisplayName = "gain"
	a.AddTrace(t)
	g.AddAxis(a)

	b := graf.NewAxis()
	b.Kind = graf.AxisImage
	b.Position = graf.Cell{0, 1}
	b.AddSurface(graf.NewSurfaceFromImage(graf.ImageSeries{
		Extent: [4]float64{0, 1, 0, 1},
		Z:      [][]float64{{0.1, 0.2}, {0.3, 0.4}},
	}))
	g.AddAxis(b)
	return g
}

// Run exercises the shared contract against stores returned by open. Each
// subtest calls open for a fresh, empty store; open registers whatever
// cleanup the store needs, closing it included.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()
	ctx := context.Background()
	fresh := open

	t.Run("RoundTrip", func(t *testing.T) {
		s := fresh(t)
		want := Figure()
		require.NoError(t, s.Put(ctx, "sweep", want.Pack()))

		d, err := s.Get(ctx, "sweep")
		require.NoError(t, err)
		got, err := graf.Decode(d)
		require.NoError(t, err)

		if diff := cmp.Diff(want.Pack().Generic(), got.Pack().Generic()); diff != "" {
			t.Errorf("stored figure mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Replace", func(t *testing.T) {
		s := fresh(t)
		first := Figure()
		require.NoError(t, s.Put(ctx, "sweep", first.Pack()))

		second := Figure()
		second.Supertitle = "replaced"
		require.NoError(t, s.Put(ctx, "sweep", second.Pack()))

		d, err := s.Get(ctx, "sweep")
		require.NoError(t, err)
		got, err := graf.Decode(d)
		require.NoError(t, err)
		assert.Equal(t, "replaced", got.Supertitle)

		entries, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Missing", func(t *testing.T) {
		s := fresh(t)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

		assert.ErrorIs(t, s.Delete(ctx, "nope"), store.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		s := fresh(t)
		require.NoError(t, s.Put(ctx, "sweep", Figure().Pack()))
		require.NoError(t, s.Delete(ctx, "sweep"))

		_, err := s.Get(ctx, "sweep")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("InvalidName", func(t *testing.T) {
		s := fresh(t)
		for _, name := range []string{"", "../escape", "a/b"} {
			err := s.Put(ctx, name, Figure().Pack())
			assert.Error(t, err, "name %q", name)
		}
	})

	t.Run("ListNaturalOrder", func(t *testing.T) {
		s := fresh(t)
		for _, name := range []string{"run10", "run2", "run1"} {
			require.NoError(t, s.Put(ctx, name, Figure().Pack()))
		}

		entries, err := s.List(ctx)
		require.NoError(t, err)

		var names []string
		for _, e := range entries {
			names = append(names, e.Name)
			assert.Positive(t, e.Size, e.Name)
			assert.False(t, e.Modified.IsZero(), e.Name)
		}
		assert.Equal(t, []string{"run1", "run2", "run10"}, names)
	})

	t.Run("Concurrent", func(t *testing.T) {
		s := fresh(t)
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.Put(ctx, fmt.Sprintf("fig%d", i), Figure().Pack())
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			require.NoError(t, err)
		}

		entries, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, len(errs))
	})
}
