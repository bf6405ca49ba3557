package entity

import (
	"image"
	"sort"
)

// DefaultOverlapFraction доля ширины/высоты, в пределах которой соседние рамки сливаются.
const DefaultOverlapFraction = 0.3

// BoundingBox представляет прямоугольную область интереса в координатах изображения
type BoundingBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// BoxFromRect переводит image.Rectangle в BoundingBox.
func BoxFromRect(r image.Rectangle) BoundingBox {
	r = r.Canon()
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect возвращает рамку как image.Rectangle
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Area возвращает площадь рамки
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Valid сообщает, что рамка имеет неотрицательное начало и ненулевой размер.
func (b BoundingBox) Valid() bool {
	return b.X >= 0 && b.Y >= 0 && b.Width > 0 && b.Height > 0
}

// Union возвращает минимальную рамку, содержащую обе.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	x := minInt(b.X, o.X)
	y := minInt(b.Y, o.Y)
	return BoundingBox{
		X:      x,
		Y:      y,
		Width:  maxInt(b.X+b.Width, o.X+o.Width) - x,
		Height: maxInt(b.Y+b.Height, o.Y+o.Height) - y,
	}
}

// Pad расширяет рамку на padding пикселей с каждой стороны, не выходя за bounds.
func (b BoundingBox) Pad(padding int, bounds image.Rectangle) BoundingBox {
	r := image.Rect(b.X-padding, b.Y-padding, b.X+b.Width+padding, b.Y+b.Height+padding)
	return BoxFromRect(r.Intersect(bounds))
}

// touches проверяет условие слияния next с накопителем acc.
func (b BoundingBox) touches(next BoundingBox, t float64) bool {
	xLimit := float64(b.X+b.Width) + t*float64(b.Width)
	yLimit := float64(b.Y+b.Height) + t*float64(b.Height)
	return float64(next.X) < xLimit && float64(next.Y) < yLimit
}

// MergeBoxes сливает пересекающиеся и близкие рамки за один жадный проход слева направо.
// Рамки нулевого размера или с отрицательным началом пропускаются.
// Результат не обязательно попарно не пересекается: поздняя рамка может задеть уже выпущенную.
func MergeBoxes(boxes []BoundingBox, overlap float64) []BoundingBox {
	sorted := make([]BoundingBox, 0, len(boxes))
	for _, b := range boxes {
		if b.Valid() {
			sorted = append(sorted, b)
		}
	}
	if len(sorted) == 0 {
		return []BoundingBox{}
	}

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	merged := make([]BoundingBox, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if current.touches(next, overlap) {
			current = current.Union(next)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// LargestBox возвращает рамку с наибольшей площадью. При равенстве побеждает первая.
func LargestBox(boxes []BoundingBox) (BoundingBox, bool) {
	if len(boxes) == 0 {
		return BoundingBox{}, false
	}
	best := boxes[0]
	for _, b := range boxes[1:] {
		if b.Area() > best.Area() {
			best = b
		}
	}
	return best, true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
