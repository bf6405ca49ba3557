//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// Locate находит рамки содержимого: адаптивный порог, дилатация, внешние контуры.
func (l *Locator) Locate(img image.Image) ([]entity.BoundingBox, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	// Инвертированный порог: содержимое становится белым на чёрном фоне.
	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(gray, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv,
		l.Params.BlockSize, float32(l.Params.C))

	kernelSide := l.Params.DilateKernel
	if kernelSide < 1 {
		kernelSide = 1
	}
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernelSide, kernelSide))
	defer kernel.Close()

	dilated := thresh.Clone()
	defer dilated.Close()
	for i := 0; i < l.Params.DilateIterations; i++ {
		gocv.Dilate(dilated, &dilated, kernel)
	}

	contours := gocv.FindContours(dilated, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	return boundingBoxes(contours, l.Params.MinSide), nil
}

var _ port.RegionLocator = (*Locator)(nil)
