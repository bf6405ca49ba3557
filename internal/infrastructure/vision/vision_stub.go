//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"vision-diff/internal/domain/entity"
)

var errGoCVDisabled = errors.New("gocv build tag is not enabled")

// Locate возвращает ошибку, если сборка без тега gocv.
func (l *Locator) Locate(img image.Image) ([]entity.BoundingBox, error) {
	_ = img
	return nil, errGoCVDisabled
}

// Align возвращает ошибку, если сборка без тега gocv.
func (a *Aligner) Align(ctx context.Context, ref, cmp image.Image, strategy entity.DescriptorStrategy) (*entity.Alignment, error) {
	_ = ctx
	_ = ref
	_ = cmp
	_ = strategy
	return nil, errGoCVDisabled
}

// Diff возвращает ошибку, если сборка без тега gocv.
func (d *Differ) Diff(ref, aligned image.Image, mode entity.DiffMode) (*entity.DiffOutput, error) {
	_ = ref
	_ = aligned
	_ = mode
	return nil, errGoCVDisabled
}
