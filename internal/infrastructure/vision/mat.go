//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-diff/internal/domain/entity"
)

// imageToMat превращает image.Image в трёхканальный BGR gocv.Mat.
func imageToMat(img image.Image) (gocv.Mat, error) {
	if img == nil || img.Bounds().Empty() {
		return gocv.Mat{}, entity.NewError(entity.KindInput, "to mat", errors.New("empty image"))
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, entity.NewError(entity.KindDecode, "to mat", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, entity.NewError(entity.KindDecode, "to mat", errors.New("empty mat"))
	}
	return mat, nil
}

// matToImage копирует gocv.Mat обратно в image.Image.
func matToImage(mat gocv.Mat) (image.Image, error) {
	if mat.Empty() {
		return nil, errors.New("empty mat")
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("mat to image: %w", err)
	}
	return img, nil
}

// meanIntensity возвращает среднее по всем каналам области.
func meanIntensity(region gocv.Mat) float64 {
	s := region.Mean()
	switch region.Channels() {
	case 1:
		return s.Val1
	case 4:
		return (s.Val1 + s.Val2 + s.Val3 + s.Val4) / 4
	default:
		return (s.Val1 + s.Val2 + s.Val3) / 3
	}
}

// boundingBoxes переводит контуры в рамки, отбрасывая слишком узкие.
func boundingBoxes(contours gocv.PointsVector, minSide int) []entity.BoundingBox {
	boxes := make([]entity.BoundingBox, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		if rect.Dx() <= minSide || rect.Dy() <= minSide {
			continue
		}
		boxes = append(boxes, entity.BoxFromRect(rect))
	}
	return boxes
}
