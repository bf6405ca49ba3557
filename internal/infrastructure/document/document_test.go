package document

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
	"vision-diff/internal/infrastructure/scratch"
)

func pageImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func assembleTwoPages(t *testing.T) *entity.Artifact {
	t.Helper()
	storage := scratch.NewMemoryStorage()
	area, err := storage.Acquire("doc")
	require.NoError(t, err)
	defer area.Release()

	var pages []port.AssemblyPage
	for i, c := range []color.RGBA{{R: 255, A: 255}, {B: 255, A: 255}} {
		img := pageImage(60, 90, c)
		p, err := area.WriteImage([]string{"p1.png", "p2.png"}[i], img)
		require.NoError(t, err)
		pages = append(pages, port.AssemblyPage{Path: p, Width: 60, Height: 90})
	}

	artifact, err := NewAssembler(3).Assemble(area, pages)
	require.NoError(t, err)
	return artifact
}

func TestAssembler_BuildsOnePagePerImage(t *testing.T) {
	artifact := assembleTwoPages(t)

	require.Equal(t, ContentTypePDF, artifact.ContentType)
	require.Equal(t, 2, artifact.Pages)
	require.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF-")))
}

func TestAssembler_NoPages(t *testing.T) {
	_, err := NewAssembler(3).Assemble(nil, nil)
	require.Error(t, err)
}

func TestAssembler_MissingPage(t *testing.T) {
	area, err := scratch.NewMemoryStorage().Acquire("doc")
	require.NoError(t, err)
	defer area.Release()

	_, err = NewAssembler(3).Assemble(area, []port.AssemblyPage{{Path: "nope.png", Width: 10, Height: 10}})
	require.Equal(t, entity.KindIO, entity.KindOf(err))
}

func TestRasterizer_RoundTripAssembledDocument(t *testing.T) {
	artifact := assembleTwoPages(t)

	doc, err := NewRasterizer(3).Open(artifact.Data)
	require.NoError(t, err)
	defer doc.Close()

	require.Equal(t, 2, doc.PageCount())

	img, err := doc.RenderPage(1)
	require.NoError(t, err)
	require.InDelta(t, 60, img.Bounds().Dx(), 1)
	require.InDelta(t, 90, img.Bounds().Dy(), 1)

	r, _, b, _ := img.At(img.Bounds().Dx()/2, img.Bounds().Dy()/2).RGBA()
	require.Less(t, r>>8, uint32(40))
	require.Greater(t, b>>8, uint32(200))

	_, err = doc.RenderPage(5)
	require.Equal(t, entity.KindInput, entity.KindOf(err))
}

func TestRasterizer_OpenErrors(t *testing.T) {
	r := NewRasterizer(0)
	require.Equal(t, DefaultMagnification, r.Magnification)

	_, err := r.Open(nil)
	require.Equal(t, entity.KindInput, entity.KindOf(err))

	_, err = r.Open([]byte("not a pdf at all"))
	require.Equal(t, entity.KindDecode, entity.KindOf(err))
}
