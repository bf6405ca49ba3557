package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// ContentTypePNG MIME-тип артефакта сравнения изображений
const ContentTypePNG = "image/png"

// ComparisonConfig настраиваемые параметры конвейеров.
type ComparisonConfig struct {
	OverlapFraction float64       // доля для слияния рамок
	CropPadding     int           // отступ вокруг выбранной рамки
	AlignAttempts   int           // попыток выравнивания с новым зерном
	PageTimeout     time.Duration // бюджет времени на страницу, 0 — без ограничения
	MaxInputBytes   int           // 0 — без ограничения
}

// DefaultComparisonConfig параметры по умолчанию
func DefaultComparisonConfig() ComparisonConfig {
	return ComparisonConfig{
		OverlapFraction: entity.DefaultOverlapFraction,
		CropPadding:     0,
		AlignAttempts:   1,
		MaxInputBytes:   20 << 20,
	}
}

// Engines реализации шагов конвейера.
type Engines struct {
	Raster     port.ImageProcessor
	Locator    port.RegionLocator
	Aligner    port.FeatureAligner
	Differ     port.DiffRenderer
	Rasterizer port.DocumentRasterizer
	Assembler  port.DocumentAssembler
	Scratch    port.ScratchStorage
}

// ComparisonService собирает конвейеры сравнения изображений и документов.
type ComparisonService struct {
	cfg     ComparisonConfig
	engines Engines
}

// NewComparisonService создаёт сервис сравнения
func NewComparisonService(cfg ComparisonConfig, engines Engines) *ComparisonService {
	if cfg.AlignAttempts < 1 {
		cfg.AlignAttempts = 1
	}
	return &ComparisonService{cfg: cfg, engines: engines}
}

// Compare выбирает конвейер по заявленному виду.
func (s *ComparisonService) Compare(ctx context.Context, kind entity.ComparisonKind, first, second []byte) (*entity.ComparisonResult, error) {
	switch kind {
	case entity.KindImage:
		return s.CompareImages(ctx, first, second)
	case entity.KindDocument:
		return s.CompareDocuments(ctx, first, second)
	default:
		return nil, entity.NewError(entity.KindInput, "compare", fmt.Errorf("unsupported kind %q", kind))
	}
}

// CompareImages сравнивает два изображения: поиск объекта, обрезка, выравнивание, заливка разницы.
// Любая ошибка прерывает запрос целиком.
func (s *ComparisonService) CompareImages(ctx context.Context, first, second []byte) (*entity.ComparisonResult, error) {
	if err := s.checkInputs(first, second); err != nil {
		return nil, err
	}

	img1, err := s.engines.Raster.Decode(first)
	if err != nil {
		return nil, fmt.Errorf("first image: %w", err)
	}
	img2, err := s.engines.Raster.Decode(second)
	if err != nil {
		return nil, fmt.Errorf("second image: %w", err)
	}

	box1, err := s.subjectBox(img1)
	if err != nil {
		return nil, fmt.Errorf("first image: %w", err)
	}
	box2, err := s.subjectBox(img2)
	if err != nil {
		return nil, fmt.Errorf("second image: %w", err)
	}

	crop1, err := s.engines.Raster.Crop(img1, box1, s.cfg.CropPadding)
	if err != nil {
		return nil, entity.NewError(entity.KindDecode, "crop first", err)
	}
	crop2, err := s.engines.Raster.Crop(img2, box2, s.cfg.CropPadding)
	if err != nil {
		return nil, entity.NewError(entity.KindDecode, "crop second", err)
	}

	// Приводим оба кадра к одному размеру (минимальный из двух).
	w := minInt(crop1.Bounds().Dx(), crop2.Bounds().Dx())
	h := minInt(crop1.Bounds().Dy(), crop2.Bounds().Dy())
	ref, err := s.engines.Raster.Resize(crop1, w, h)
	if err != nil {
		return nil, entity.NewError(entity.KindDecode, "resize first", err)
	}
	cmp, err := s.engines.Raster.Resize(crop2, w, h)
	if err != nil {
		return nil, entity.NewError(entity.KindDecode, "resize second", err)
	}

	alignment, err := s.align(ctx, ref, cmp, entity.DescriptorInvariant)
	if err != nil {
		return nil, err
	}

	diff, err := s.engines.Differ.Diff(ref, alignment.Image, entity.DiffMaskFill)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}

	result := &entity.ComparisonResult{Kind: entity.KindImage, DifferencesFound: diff.HasDifferences}
	if !diff.HasDifferences {
		return result, nil
	}

	data, err := s.engines.Raster.EncodePNG(diff.Highlighted)
	if err != nil {
		return nil, err
	}
	result.Artifact = &entity.Artifact{Data: data, ContentType: ContentTypePNG, Pages: 1}
	return result, nil
}

// subjectBox возвращает самую крупную рамку после слияния.
func (s *ComparisonService) subjectBox(img image.Image) (entity.BoundingBox, error) {
	boxes, err := s.engines.Locator.Locate(img)
	if err != nil {
		return entity.BoundingBox{}, fmt.Errorf("locate: %w", err)
	}
	merged := entity.MergeBoxes(boxes, s.cfg.OverlapFraction)
	box, ok := entity.LargestBox(merged)
	if !ok {
		return entity.BoundingBox{}, entity.NewError(entity.KindNoRegion, "locate", entity.ErrNoRegion)
	}
	return box, nil
}

// CompareDocuments сравнивает документы постранично. Ошибка страницы записывается
// в её итог и не прерывает сравнение; фатальны только ошибки открытия документов и хранилища.
func (s *ComparisonService) CompareDocuments(ctx context.Context, first, second []byte) (result *entity.ComparisonResult, err error) {
	if err := s.checkInputs(first, second); err != nil {
		return nil, err
	}

	doc1, err := s.engines.Rasterizer.Open(first)
	if err != nil {
		return nil, fmt.Errorf("first document: %w", err)
	}
	defer doc1.Close()

	doc2, err := s.engines.Rasterizer.Open(second)
	if err != nil {
		return nil, fmt.Errorf("second document: %w", err)
	}
	defer doc2.Close()

	area, err := s.engines.Scratch.Acquire("compare")
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := area.Release(); releaseErr != nil {
			log.Printf("scratch release: %v", releaseErr)
			if err == nil {
				result, err = nil, releaseErr
			}
		}
	}()

	pages := minInt(doc1.PageCount(), doc2.PageCount())
	result = &entity.ComparisonResult{
		Kind:          entity.KindDocument,
		Pages:         make([]entity.PageOutcome, 0, pages),
		PagesCompared: pages,
	}

	var collected []port.AssemblyPage
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, page, err := s.comparePage(ctx, doc1, doc2, i, area)
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, outcome)
		if page != nil {
			collected = append(collected, *page)
		}
	}

	if skipped := result.SkippedPages(); len(skipped) > 0 {
		log.Printf("document comparison: %d of %d pages skipped", len(skipped), pages)
	}
	if len(collected) == 0 {
		return result, nil
	}

	artifact, err := s.engines.Assembler.Assemble(area, collected)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Artifact = artifact
	result.DifferencesFound = true
	return result, nil
}

// comparePage обрабатывает одну пару страниц. Ошибка возвращается только для сбоя
// временного хранилища; всё остальное становится итогом PageSkipped.
func (s *ComparisonService) comparePage(ctx context.Context, doc1, doc2 port.Document, index int, area port.ScratchArea) (entity.PageOutcome, *port.AssemblyPage, error) {
	if s.cfg.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PageTimeout)
		defer cancel()
	}

	skip := func(err error) (entity.PageOutcome, *port.AssemblyPage, error) {
		log.Printf("page %d skipped: %v", index+1, err)
		return entity.PageOutcome{Index: index, Status: entity.PageSkipped, Kind: entity.KindOf(err), Reason: err.Error()}, nil, nil
	}

	ref, err := doc1.RenderPage(index)
	if err != nil {
		return skip(fmt.Errorf("render first: %w", err))
	}
	cmp, err := doc2.RenderPage(index)
	if err != nil {
		return skip(fmt.Errorf("render second: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return skip(err)
	}

	alignment, err := s.align(ctx, ref, cmp, entity.DescriptorBinary)
	if err != nil {
		return skip(err)
	}
	if err := ctx.Err(); err != nil {
		return skip(err)
	}

	diff, err := s.engines.Differ.Diff(ref, alignment.Image, entity.DiffContourHighlight)
	if err != nil {
		return skip(fmt.Errorf("diff: %w", err))
	}
	shift := alignment.Transform.MaxCornerShift(ref.Bounds())
	if !diff.HasDifferences {
		return entity.PageOutcome{Index: index, Status: entity.PageNoDifferences, Shift: shift}, nil, nil
	}

	path, err := area.WriteImage(fmt.Sprintf("highlighted_page_%d.png", index+1), diff.Highlighted)
	if err != nil {
		return entity.PageOutcome{}, nil, err
	}
	b := diff.Highlighted.Bounds()
	return entity.PageOutcome{Index: index, Status: entity.PageCollected, Regions: len(diff.Regions), Shift: shift},
		&port.AssemblyPage{Path: path, Width: b.Dx(), Height: b.Dy()}, nil
}

// align выравнивает cmp по ref, повторяя попытку с новым зерном при нехватке соответствий
// или неудачной оценке гомографии.
func (s *ComparisonService) align(ctx context.Context, ref, cmp image.Image, strategy entity.DescriptorStrategy) (*entity.Alignment, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.AlignAttempts; attempt++ {
		alignment, err := s.engines.Aligner.Align(ctx, ref, cmp, strategy)
		if err == nil {
			return alignment, nil
		}
		lastErr = err
		if !entity.Retryable(err) || ctx.Err() != nil {
			break
		}
		if attempt < s.cfg.AlignAttempts {
			log.Printf("align %s attempt %d failed, reseeding: %v", strategy, attempt, err)
		}
	}
	return nil, lastErr
}

func (s *ComparisonService) checkInputs(first, second []byte) error {
	for i, data := range [][]byte{first, second} {
		if len(data) == 0 {
			return entity.NewError(entity.KindInput, fmt.Sprintf("input %d", i+1), entity.ErrEmptyInput)
		}
		if s.cfg.MaxInputBytes > 0 && len(data) > s.cfg.MaxInputBytes {
			return entity.NewError(entity.KindInput, fmt.Sprintf("input %d", i+1),
				fmt.Errorf("%d bytes exceeds limit of %d", len(data), s.cfg.MaxInputBytes))
		}
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

var _ port.Comparer = (*ComparisonService)(nil)
