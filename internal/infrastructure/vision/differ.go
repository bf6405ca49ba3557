//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// Diff сравнивает эталон и выровненное изображение одного размера.
func (d *Differ) Diff(ref, aligned image.Image, mode entity.DiffMode) (*entity.DiffOutput, error) {
	refMat, err := imageToMat(ref)
	if err != nil {
		return nil, err
	}
	defer refMat.Close()

	alignedMat, err := imageToMat(aligned)
	if err != nil {
		return nil, err
	}
	defer alignedMat.Close()

	if refMat.Cols() != alignedMat.Cols() || refMat.Rows() != alignedMat.Rows() {
		return nil, entity.NewError(entity.KindInput, "diff", fmt.Errorf("size mismatch: %dx%d vs %dx%d",
			refMat.Cols(), refMat.Rows(), alignedMat.Cols(), alignedMat.Rows()))
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(refMat, alignedMat, &diff)

	if mode == entity.DiffContourHighlight {
		return d.contourHighlight(refMat, alignedMat, diff)
	}
	return d.maskFill(alignedMat, diff)
}

// maskFill заливает цветом пиксели, где хотя бы один канал отличается сильнее порога.
func (d *Differ) maskFill(aligned, diff gocv.Mat) (*entity.DiffOutput, error) {
	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, float32(d.Params.MaskThreshold), 255, gocv.ThresholdBinary)

	channels := gocv.Split(thresh)
	for i := range channels {
		defer channels[i].Close()
	}

	mask := channels[0].Clone()
	defer mask.Close()
	for _, ch := range channels[1:] {
		gocv.BitwiseOr(mask, ch, &mask)
	}

	highlighted := aligned.Clone()
	defer highlighted.Close()

	changed := gocv.CountNonZero(mask)
	var regions []entity.BoundingBox
	if changed > 0 {
		c := d.Params.FillColor
		fill := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0),
			aligned.Rows(), aligned.Cols(), gocv.MatTypeCV8UC3)
		fill.CopyToWithMask(&highlighted, mask)
		fill.Close()

		contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
		regions = boundingBoxes(contours, 0)
		contours.Close()
	}

	out, err := matToImage(highlighted)
	if err != nil {
		return nil, entity.NewError(entity.KindIO, "diff", err)
	}
	return &entity.DiffOutput{
		Highlighted:    out,
		Regions:        regions,
		ChangedPixels:  changed,
		HasDifferences: changed > 0,
	}, nil
}

// contourHighlight обводит изменённые области на копии эталона.
// Цвет обводки показывает, стала ли область светлее или темнее.
func (d *Differ) contourHighlight(ref, aligned, diff gocv.Mat) (*entity.DiffOutput, error) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(diff, &gray, gocv.ColorBGRToGray)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, float32(d.Params.ContourThreshold), 255, gocv.ThresholdBinary)

	highlighted := ref.Clone()
	defer highlighted.Close()

	changed := gocv.CountNonZero(thresh)
	var regions []entity.BoundingBox
	if changed > 0 {
		contours := gocv.FindContours(thresh, gocv.RetrievalCComp, gocv.ChainApproxSimple)
		defer contours.Close()

		bounds := image.Rect(0, 0, ref.Cols(), ref.Rows())
		for i := 0; i < contours.Size(); i++ {
			rect := gocv.BoundingRect(contours.At(i)).Intersect(bounds)
			if rect.Empty() {
				continue
			}

			refRegion := ref.Region(rect)
			alignedRegion := aligned.Region(rect)
			lighter := meanIntensity(refRegion) < meanIntensity(alignedRegion)
			refRegion.Close()
			alignedRegion.Close()

			c := d.Params.DarkerColor
			if lighter {
				c = d.Params.LighterColor
			}
			gocv.DrawContours(&highlighted, contours, i, c, d.Params.LineWidth)
			regions = append(regions, entity.BoxFromRect(rect))
		}
	}

	out, err := matToImage(highlighted)
	if err != nil {
		return nil, entity.NewError(entity.KindIO, "diff", err)
	}
	return &entity.DiffOutput{
		Highlighted:    out,
		Regions:        regions,
		ChangedPixels:  changed,
		HasDifferences: changed > 0,
	}, nil
}

var _ port.DiffRenderer = (*Differ)(nil)
