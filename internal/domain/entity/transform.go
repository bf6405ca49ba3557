package entity

import (
	"image"
	"math"
)

// singularEpsilon порог определителя, ниже которого преобразование считается вырожденным.
const singularEpsilon = 1e-9

// Transform проективная матрица 3x3 (гомография) в построчном порядке.
type Transform [9]float64

// Det возвращает определитель матрицы
func (t Transform) Det() float64 {
	return t[0]*(t[4]*t[8]-t[5]*t[7]) -
		t[1]*(t[3]*t[8]-t[5]*t[6]) +
		t[2]*(t[3]*t[7]-t[4]*t[6])
}

// Invertible сообщает, пригодна ли матрица для перспективного преобразования.
func (t Transform) Invertible() bool {
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return math.Abs(t.Det()) > singularEpsilon
}

// Apply переводит точку (x, y) через гомографию.
func (t Transform) Apply(x, y float64) (float64, float64, bool) {
	w := t[6]*x + t[7]*y + t[8]
	if math.Abs(w) < singularEpsilon {
		return 0, 0, false
	}
	return (t[0]*x + t[1]*y + t[2]) / w, (t[3]*x + t[4]*y + t[5]) / w, true
}

// MaxCornerShift возвращает наибольшее смещение углов прямоугольника после преобразования.
// Для почти тождественной гомографии значение близко к нулю.
func (t Transform) MaxCornerShift(bounds image.Rectangle) float64 {
	corners := [4][2]float64{
		{float64(bounds.Min.X), float64(bounds.Min.Y)},
		{float64(bounds.Max.X), float64(bounds.Min.Y)},
		{float64(bounds.Min.X), float64(bounds.Max.Y)},
		{float64(bounds.Max.X), float64(bounds.Max.Y)},
	}
	worst := 0.0
	for _, c := range corners {
		x, y, ok := t.Apply(c[0], c[1])
		if !ok {
			return math.Inf(1)
		}
		worst = math.Max(worst, math.Hypot(x-c[0], y-c[1]))
	}
	return worst
}
