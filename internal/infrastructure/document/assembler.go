package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// ContentTypePDF MIME-тип собранного документа
const ContentTypePDF = "application/pdf"

// Assembler собирает PNG-страницы в PDF, по одной картинке на страницу.
type Assembler struct {
	Magnification float64 // увеличение, с которым растеризовались страницы
	Creator       string
}

// NewAssembler создаёт сборщик. Размер страницы восстанавливается делением на magnification.
func NewAssembler(magnification float64) *Assembler {
	if magnification <= 0 {
		magnification = DefaultMagnification
	}
	return &Assembler{Magnification: magnification, Creator: "vision-diff"}
}

// Assemble собирает страницы в порядке pages.
func (a *Assembler) Assemble(area port.ScratchArea, pages []port.AssemblyPage) (*entity.Artifact, error) {
	if len(pages) == 0 {
		return nil, errors.New("no pages to assemble")
	}

	first := a.pageSize(pages[0])
	pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", Size: first})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(a.Creator, true)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, page := range pages {
		if err := a.registerPage(pdf, area, i, page, opts); err != nil {
			return nil, err
		}
		size := a.pageSize(page)
		pdf.AddPageFormat("P", size)
		pdf.ImageOptions(imageName(i), 0, 0, size.Wd, size.Ht, false, opts, 0, "")
		if pdf.Err() {
			return nil, entity.NewError(entity.KindIO, "assemble", fmt.Errorf("page %d: %w", i, pdf.Error()))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, entity.NewError(entity.KindIO, "assemble", err)
	}
	return &entity.Artifact{Data: buf.Bytes(), ContentType: ContentTypePDF, Pages: len(pages)}, nil
}

func (a *Assembler) registerPage(pdf *fpdf.Fpdf, area port.ScratchArea, i int, page port.AssemblyPage, opts fpdf.ImageOptions) error {
	rc, err := area.Open(page.Path)
	if err != nil {
		return err
	}
	defer rc.Close()

	pdf.RegisterImageOptionsReader(imageName(i), opts, rc)
	if pdf.Err() {
		return entity.NewError(entity.KindIO, "assemble", fmt.Errorf("register page %d: %w", i, pdf.Error()))
	}
	return nil
}

func (a *Assembler) pageSize(p port.AssemblyPage) fpdf.SizeType {
	return fpdf.SizeType{
		Wd: float64(p.Width) / a.Magnification,
		Ht: float64(p.Height) / a.Magnification,
	}
}

func imageName(i int) string {
	return fmt.Sprintf("page-%d", i)
}

var _ port.DocumentAssembler = (*Assembler)(nil)
