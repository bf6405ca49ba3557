package scratch

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	return img
}

func roundTrip(t *testing.T, area port.ScratchArea) string {
	t.Helper()
	p, err := area.WriteImage("page_1.png", testImage())
	require.NoError(t, err)

	rc, err := area.Open(p)
	require.NoError(t, err)
	defer rc.Close()

	img, err := png.Decode(rc)
	require.NoError(t, err)
	r, g, b, _ := img.At(1, 1).RGBA()
	require.Equal(t, []uint32{9, 8, 7}, []uint32{r >> 8, g >> 8, b >> 8})
	return p
}

func TestDirStorage_UniqueAreasAndRelease(t *testing.T) {
	base := t.TempDir()
	s := NewDirStorage(filepath.Join(base, "scratch"))

	a1, err := s.Acquire("cmp")
	require.NoError(t, err)
	a2, err := s.Acquire("cmp")
	require.NoError(t, err)

	p1 := roundTrip(t, a1)
	p2 := roundTrip(t, a2)
	require.NotEqual(t, filepath.Dir(p1), filepath.Dir(p2))

	require.NoError(t, a1.Release())
	require.NoError(t, a1.Release())
	_, err = os.Stat(filepath.Dir(p1))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(p2)
	require.NoError(t, err)

	_, err = a1.WriteImage("late.png", testImage())
	require.ErrorIs(t, err, ErrReleased)
	require.Equal(t, entity.KindIO, entity.KindOf(err))

	require.NoError(t, a2.Release())
}

func TestMemoryStorage_TracksLiveAreas(t *testing.T) {
	s := NewMemoryStorage()

	a, err := s.Acquire("cmp")
	require.NoError(t, err)
	require.Equal(t, 1, s.Live())

	roundTrip(t, a)

	_, err = a.Open("cmp-1/missing.png")
	require.Error(t, err)

	require.NoError(t, a.Release())
	require.NoError(t, a.Release())
	require.Equal(t, 0, s.Live())

	_, err = a.Open("cmp-1/page_1.png")
	require.ErrorIs(t, err, ErrReleased)
}
