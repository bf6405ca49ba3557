//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// featureSet ключевые точки и дескрипторы одного изображения.
type featureSet struct {
	keypoints   []gocv.KeyPoint
	descriptors gocv.Mat
}

func (f featureSet) Close() {
	f.descriptors.Close()
}

// Align выравнивает cmp в системе координат ref выбранной стратегией дескрипторов.
func (a *Aligner) Align(ctx context.Context, ref, cmp image.Image, strategy entity.DescriptorStrategy) (*entity.Alignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	refMat, err := imageToMat(ref)
	if err != nil {
		return nil, err
	}
	defer refMat.Close()

	cmpMat, err := imageToMat(cmp)
	if err != nil {
		return nil, err
	}
	defer cmpMat.Close()

	refSet, cmpSet := a.detect(strategy, refMat), a.detect(strategy, cmpMat)
	defer refSet.Close()
	defer cmpSet.Close()

	matches := a.match(strategy, refSet, cmpSet)
	if len(matches) < a.Params.MinMatches {
		return nil, entity.NewError(entity.KindInsufficientMatches, "align "+strategy.String(),
			fmt.Errorf("%w: %d < %d", entity.ErrInsufficientMatches, len(matches), a.Params.MinMatches))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, inliers, err := a.estimate(refSet, cmpSet, matches)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	transform := entity.Transform{}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			transform[r*3+c] = h.GetDoubleAt(r, c)
		}
	}
	if !transform.Invertible() {
		return nil, entity.NewError(entity.KindTransform, "align "+strategy.String(),
			fmt.Errorf("%w: singular matrix (det=%g)", entity.ErrTransform, transform.Det()))
	}

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(cmpMat, &warped, h, image.Pt(refMat.Cols(), refMat.Rows()))

	out, err := matToImage(warped)
	if err != nil {
		return nil, entity.NewError(entity.KindTransform, "warp", err)
	}

	return &entity.Alignment{
		Image:     out,
		Transform: transform,
		Matches:   len(matches),
		Inliers:   inliers,
	}, nil
}

// detect ищет ключевые точки на полутоновой версии изображения.
func (a *Aligner) detect(strategy entity.DescriptorStrategy, mat gocv.Mat) featureSet {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	noMask := gocv.NewMat()
	defer noMask.Close()

	if strategy == entity.DescriptorBinary {
		p := a.Params.ORB
		orb := gocv.NewORBWithParams(p.Features, float32(p.ScaleFactor), p.Levels, p.EdgeThreshold,
			p.FirstLevel, p.WTAK, gocv.ORBScoreTypeHarris, p.PatchSize, p.FastThreshold)
		defer orb.Close()
		kp, desc := orb.DetectAndCompute(gray, noMask)
		return featureSet{keypoints: kp, descriptors: desc}
	}

	sift := gocv.NewSIFT()
	defer sift.Close()
	kp, desc := sift.DetectAndCompute(gray, noMask)
	return featureSet{keypoints: kp, descriptors: desc}
}

// match сопоставляет дескрипторы эталона (query) и сравниваемого изображения (train).
func (a *Aligner) match(strategy entity.DescriptorStrategy, ref, cmp featureSet) []entity.Correspondence {
	if ref.descriptors.Empty() || cmp.descriptors.Empty() {
		return nil
	}

	if strategy == entity.DescriptorBinary {
		// crossCheck оставляет только пары, лучшие друг для друга в обе стороны.
		bf := gocv.NewBFMatcherWithParams(gocv.NormHamming, true)
		defer bf.Close()
		return sortByDistance(toCorrespondences(bf.Match(ref.descriptors, cmp.descriptors)))
	}

	bf := gocv.NewBFMatcher()
	defer bf.Close()
	knn := bf.KnnMatch(ref.descriptors, cmp.descriptors, 2)
	candidates := make([][]entity.Correspondence, len(knn))
	for i, m := range knn {
		candidates[i] = toCorrespondences(m)
	}
	return ratioFilter(candidates, a.Params.RatioTest)
}

// estimate оценивает гомографию cmp -> ref методом RANSAC.
// Генератор выборок RANSAC в OpenCV имеет фиксированное зерно, поэтому выборку задаёт
// порядок точек: он перемешивается источником случайности выравнивателя.
func (a *Aligner) estimate(ref, cmp featureSet, matches []entity.Correspondence) (gocv.Mat, int, error) {
	src := gocv.NewMatWithSize(len(matches), 2, gocv.MatTypeCV64F)
	defer src.Close()
	dst := gocv.NewMatWithSize(len(matches), 2, gocv.MatTypeCV64F)
	defer dst.Close()

	for i, m := range a.sampleOrder(matches) {
		from := cmp.keypoints[m.TrainIdx]
		to := ref.keypoints[m.QueryIdx]
		src.SetDoubleAt(i, 0, from.X)
		src.SetDoubleAt(i, 1, from.Y)
		dst.SetDoubleAt(i, 0, to.X)
		dst.SetDoubleAt(i, 1, to.Y)
	}

	mask := gocv.NewMat()
	defer mask.Close()

	h := gocv.FindHomography(src, &dst, gocv.HomograpyMethodRANSAC, a.Params.RansacThreshold,
		&mask, a.Params.MaxIters, a.Params.Confidence)

	if h.Empty() {
		h.Close()
		return gocv.Mat{}, 0, entity.NewError(entity.KindTransform, "ransac",
			fmt.Errorf("%w: no consensus among %d matches", entity.ErrTransform, len(matches)))
	}
	return h, gocv.CountNonZero(mask), nil
}

func toCorrespondences(ms []gocv.DMatch) []entity.Correspondence {
	out := make([]entity.Correspondence, 0, len(ms))
	for _, m := range ms {
		out = append(out, entity.Correspondence{QueryIdx: m.QueryIdx, TrainIdx: m.TrainIdx, Distance: m.Distance})
	}
	return out
}

var _ port.FeatureAligner = (*Aligner)(nil)
