package vision

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-diff/internal/domain/entity"
)

func c(q, t int, d float64) entity.Correspondence {
	return entity.Correspondence{QueryIdx: q, TrainIdx: t, Distance: d}
}

func TestRatioFilter(t *testing.T) {
	knn := [][]entity.Correspondence{
		{c(0, 5, 10), c(0, 6, 100)}, // однозначное
		{c(1, 2, 80), c(1, 3, 100)}, // неоднозначное: 80 >= 75
		{c(2, 7, 1)},                // один кандидат
		{},
		{c(4, 1, 0), c(4, 2, 0)}, // 0 < 0 ложно
	}
	got := ratioFilter(knn, 0.75)
	require.Equal(t, []entity.Correspondence{c(0, 5, 10)}, got)
}

func TestSortByDistance(t *testing.T) {
	got := sortByDistance([]entity.Correspondence{c(0, 0, 3), c(1, 1, 1), c(2, 2, 2), c(3, 3, 1)})
	require.Equal(t, []entity.Correspondence{c(1, 1, 1), c(3, 3, 1), c(2, 2, 2), c(0, 0, 3)}, got)
}

func matchSet(n int) []entity.Correspondence {
	out := make([]entity.Correspondence, n)
	for i := range out {
		out[i] = c(i, i, float64(i))
	}
	return out
}

func TestAligner_SampleOrderFollowsSeed(t *testing.T) {
	matches := matchSet(50)

	a1 := NewAligner(DefaultAlignerParams(), rand.NewSource(42))
	a2 := NewAligner(DefaultAlignerParams(), rand.NewSource(42))
	first := a1.sampleOrder(matches)
	require.Equal(t, first, a2.sampleOrder(matches))
	require.ElementsMatch(t, matches, first)

	// Следующая попытка того же выравнивателя берёт другую выборку.
	require.NotEqual(t, first, a1.sampleOrder(matches))

	other := NewAligner(DefaultAlignerParams(), rand.NewSource(43))
	require.NotEqual(t, first, other.sampleOrder(matches))

	// Вход не меняется.
	require.Equal(t, matchSet(50), matches)
}

func TestAligner_SeedFromParams(t *testing.T) {
	p := DefaultAlignerParams()
	p.Seed = 7
	matches := matchSet(20)
	require.Equal(t, NewAligner(p, nil).sampleOrder(matches), NewAligner(p, nil).sampleOrder(matches))
}

func TestDefaults(t *testing.T) {
	require.Equal(t, 4, DefaultLocatorParams().DilateIterations)
	require.Equal(t, 4, DefaultAlignerParams().MinMatches)
	require.Equal(t, 5.0, DefaultAlignerParams().RansacThreshold)
	require.Equal(t, 100.0, DefaultDifferParams().MaskThreshold)
	require.Equal(t, 150.0, DefaultDifferParams().ContourThreshold)
}
