package vision

import (
	"image/color"
	"math/rand"
	"sync"
	"time"

	"vision-diff/internal/domain/entity"
)

// LocatorParams параметры поиска областей содержимого.
type LocatorParams struct {
	BlockSize        int     // окно адаптивного порога, нечётное
	C                float64 // константа, вычитаемая из локального среднего
	DilateKernel     int     // сторона прямоугольного ядра дилатации
	DilateIterations int
	MinSide          int // рамки со стороной <= MinSide отбрасываются
}

// DefaultLocatorParams значения, подобранные на сканах и фотографиях документов.
func DefaultLocatorParams() LocatorParams {
	return LocatorParams{
		BlockSize:        21,
		C:                15,
		DilateKernel:     1,
		DilateIterations: 4,
		MinSide:          1,
	}
}

// ORBParams параметры бинарного дескриптора. Настроены на полноту, а не на скорость.
type ORBParams struct {
	Features      int
	ScaleFactor   float64
	Levels        int
	EdgeThreshold int
	FirstLevel    int
	WTAK          int
	PatchSize     int
	FastThreshold int
}

// AlignerParams параметры выравнивания.
type AlignerParams struct {
	MinMatches      int     // минимум соответствий для оценки гомографии
	RatioTest       float64 // порог теста отношения для инвариантного дескриптора
	RansacThreshold float64 // допустимая ошибка репроекции, пиксели
	MaxIters        int
	Confidence      float64
	Seed            int64 // 0 — случайное зерно при создании
	ORB             ORBParams
}

// DefaultAlignerParams параметры выравнивания по умолчанию
func DefaultAlignerParams() AlignerParams {
	return AlignerParams{
		MinMatches:      4,
		RatioTest:       0.75,
		RansacThreshold: 5.0,
		MaxIters:        2000,
		Confidence:      0.995,
		ORB: ORBParams{
			Features:      10000,
			ScaleFactor:   1.1,
			Levels:        32,
			EdgeThreshold: 31,
			FirstLevel:    0,
			WTAK:          2,
			PatchSize:     31,
			FastThreshold: 1,
		},
	}
}

// DifferParams параметры движка разницы.
type DifferParams struct {
	MaskThreshold    float64 // порог поканальной разницы для заливки
	ContourThreshold float64 // порог разницы в градациях серого для контуров
	FillColor        color.RGBA
	LighterColor     color.RGBA // область сравнения светлее эталона
	DarkerColor      color.RGBA // область сравнения темнее эталона (или равна)
	LineWidth        int
}

// DefaultDifferParams параметры разницы по умолчанию
func DefaultDifferParams() DifferParams {
	return DifferParams{
		MaskThreshold:    100,
		ContourThreshold: 150,
		FillColor:        color.RGBA{R: 255, B: 255, A: 255},
		LighterColor:     color.RGBA{B: 255, A: 255},
		DarkerColor:      color.RGBA{G: 255, A: 255},
		LineWidth:        2,
	}
}

// Locator ищет рамки значимого содержимого.
type Locator struct {
	Params LocatorParams
}

// NewLocator создаёт локатор областей
func NewLocator(params LocatorParams) *Locator {
	return &Locator{Params: params}
}

// Aligner выравнивает изображения по ключевым точкам.
type Aligner struct {
	Params AlignerParams

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAligner создаёт выравниватель. src задаёт порядок выборок RANSAC;
// при nil используется Params.Seed, а если он нулевой — текущее время.
func NewAligner(params AlignerParams, src rand.Source) *Aligner {
	if src == nil {
		seed := params.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		src = rand.NewSource(seed)
	}
	return &Aligner{Params: params, rng: rand.New(src)}
}

// sampleOrder возвращает соответствия в порядке, в котором их увидит RANSAC.
// Каждый вызов берёт новую перестановку, так что повторное выравнивание пробует другие выборки.
func (a *Aligner) sampleOrder(matches []entity.Correspondence) []entity.Correspondence {
	a.mu.Lock()
	perm := a.rng.Perm(len(matches))
	a.mu.Unlock()

	out := make([]entity.Correspondence, len(matches))
	for i, j := range perm {
		out[i] = matches[j]
	}
	return out
}

// Differ считает и рисует разницу изображений.
type Differ struct {
	Params DifferParams
}

// NewDiffer создаёт движок разницы
func NewDiffer(params DifferParams) *Differ {
	return &Differ{Params: params}
}
