package entity

import "image"

// ComparisonKind заявленный вид входных файлов.
type ComparisonKind string

const (
	KindImage    ComparisonKind = "image"    // одиночное растровое изображение
	KindDocument ComparisonKind = "document" // многостраничный документ (PDF)
)

// Valid проверяет, что вид сравнения известен
func (k ComparisonKind) Valid() bool {
	return k == KindImage || k == KindDocument
}

// DescriptorStrategy способ поиска и сопоставления ключевых точек.
type DescriptorStrategy int

const (
	// DescriptorInvariant масштабо- и поворотно-инвариантный дескриптор с тестом отношения.
	DescriptorInvariant DescriptorStrategy = iota
	// DescriptorBinary быстрый бинарный дескриптор со взаимным сопоставлением.
	DescriptorBinary
)

func (s DescriptorStrategy) String() string {
	if s == DescriptorBinary {
		return "binary"
	}
	return "invariant"
}

// DiffMode режим отрисовки разницы.
type DiffMode int

const (
	DiffMaskFill         DiffMode = iota // заливка маски одним цветом
	DiffContourHighlight                 // контуры с цветом по направлению изменения
)

// Correspondence пара индексов ключевых точек двух изображений и расстояние между дескрипторами.
type Correspondence struct {
	QueryIdx int // индекс в наборе эталона
	TrainIdx int // индекс в наборе сравниваемого изображения
	Distance float64
}

// Alignment результат выравнивания второго изображения в системе координат первого.
type Alignment struct {
	Image     image.Image // второе изображение, приведённое к кадру первого
	Transform Transform   // гомография второго кадра в первый
	Matches   int         // число соответствий, прошедших фильтр
	Inliers   int         // число inlier-соответствий RANSAC
}

// DiffOutput результат работы движка разницы.
type DiffOutput struct {
	Highlighted    image.Image   // изображение с подсветкой
	Regions        []BoundingBox // рамки изменённых областей
	ChangedPixels  int           // число пикселей в маске
	HasDifferences bool
}

// PageStatus итог обработки одной страницы документа.
type PageStatus string

const (
	PageCollected     PageStatus = "collected"      // страница с отличиями попала в артефакт
	PageNoDifferences PageStatus = "no_differences" // отличий нет
	PageSkipped       PageStatus = "skipped"        // ошибка обработки, страница пропущена
)

// PageOutcome итог по странице с причиной пропуска.
type PageOutcome struct {
	Index   int // номер страницы с нуля
	Status  PageStatus
	Kind    ErrorKind // вид ошибки для PageSkipped
	Reason  string
	Regions int     // число подсвеченных областей
	Shift   float64 // наибольшее смещение углов страницы при выравнивании, пиксели
}

// Artifact байты результата и их MIME-тип.
type Artifact struct {
	Data        []byte
	ContentType string
	Pages       int
}

// ComparisonResult итог сравнения.
type ComparisonResult struct {
	Kind             ComparisonKind
	Artifact         *Artifact // nil, если отличий нет
	DifferencesFound bool
	Pages            []PageOutcome // только для документов
	PagesCompared    int
}

// SkippedPages возвращает страницы, пропущенные из-за ошибок.
func (r *ComparisonResult) SkippedPages() []PageOutcome {
	var skipped []PageOutcome
	for _, p := range r.Pages {
		if p.Status == PageSkipped {
			skipped = append(skipped, p)
		}
	}
	return skipped
}
