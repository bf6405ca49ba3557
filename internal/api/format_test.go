package telegram

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	app "vision-diff/internal/application"
	"vision-diff/internal/domain/entity"
)

func TestKindFromMIME(t *testing.T) {
	tests := []struct {
		name string
		mime string
		file string
		want entity.ComparisonKind
		ok   bool
	}{
		{name: "pdf по MIME", mime: "application/pdf", file: "a.bin", want: entity.KindDocument, ok: true},
		{name: "изображение по MIME", mime: "image/png", file: "", want: entity.KindImage, ok: true},
		{name: "pdf по расширению", mime: "", file: "Report.PDF", want: entity.KindDocument, ok: true},
		{name: "изображение по расширению", mime: "application/octet-stream", file: "scan.tiff", want: entity.KindImage, ok: true},
		{name: "неподдерживаемый файл", mime: "text/plain", file: "notes.txt", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := kindFromMIME(tt.mime, tt.file)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, kind)
		})
	}
}

func TestFileFromMessage(t *testing.T) {
	photo := &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{
		{FileID: "small", FileSize: 10},
		{FileID: "large", FileSize: 100},
	}}
	ref, ok := fileFromMessage(photo)
	require.True(t, ok)
	require.Equal(t, "large", ref.FileID)
	require.Equal(t, entity.KindImage, ref.Kind)
	require.Equal(t, 100, ref.Size)

	doc := &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "d", FileName: "a.pdf", MimeType: "application/pdf", FileSize: 5}}
	ref, ok = fileFromMessage(doc)
	require.True(t, ok)
	require.Equal(t, entity.KindDocument, ref.Kind)
	require.Equal(t, "a.pdf", ref.Name)

	_, ok = fileFromMessage(&tgbotapi.Message{Document: &tgbotapi.Document{FileName: "a.zip", MimeType: "application/zip"}})
	require.False(t, ok)

	_, ok = fileFromMessage(&tgbotapi.Message{Text: "hi"})
	require.False(t, ok)
}

func TestErrorMessage(t *testing.T) {
	require.Equal(t, msgKindMismatch, errorMessage(fmt.Errorf("%w: image vs document", app.ErrKindMismatch)))
	require.Equal(t, msgBusy, errorMessage(app.ErrBusy))
	require.Equal(t, msgBusy, errorMessage(fmt.Errorf("%w: processing -> awaiting_first_file", app.ErrInvalidTransition)))
	require.Equal(t, msgNoRegion, errorMessage(entity.NewError(entity.KindNoRegion, "locate", entity.ErrNoRegion)))
	require.Equal(t, msgNoMatches, errorMessage(entity.NewError(entity.KindTransform, "align", entity.ErrTransform)))
	require.Equal(t, msgBadInput, errorMessage(fmt.Errorf("first image: %w", entity.NewError(entity.KindDecode, "decode", errors.New("bad")))))
	require.Equal(t, msgProcessingError, errorMessage(errors.New("boom")))
}

func TestFormatSummary(t *testing.T) {
	image := &entity.Comparison{Kind: entity.KindImage}
	require.Equal(t, msgNoDifferences, formatSummary(image))

	doc := &entity.Comparison{
		Kind:             entity.KindDocument,
		DifferencesFound: true,
		Pages: []entity.PageOutcome{
			{Index: 0, Status: entity.PageCollected},
			{Index: 1, Status: entity.PageSkipped, Kind: entity.KindInsufficientMatches},
			{Index: 2, Status: entity.PageNoDifferences},
		},
	}
	summary := formatSummary(doc)
	require.Contains(t, summary, msgDifferences)
	require.Contains(t, summary, "Страниц сравнено: 3, с отличиями: 1")
	require.Contains(t, summary, "2 (insufficient_matches)")
}

func TestFormatHistory(t *testing.T) {
	require.Equal(t, msgNoHistory, formatHistory(nil))

	at := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	text := formatHistory([]*entity.Comparison{
		{ID: 2, Kind: entity.KindDocument, DifferencesFound: true, CreatedAt: at,
			File1: entity.StoredFile{Name: "a.pdf"}, File2: entity.StoredFile{Fingerprint: "0123456789abcdef"}},
		{ID: 1, Kind: entity.KindImage, CreatedAt: at, File1: entity.StoredFile{Name: "x.png"}, File2: entity.StoredFile{Name: "y.png"}},
	})
	require.Contains(t, text, "#2 04.03 10:30 document: a.pdf ↔ 01234567, есть отличия")
	require.Contains(t, text, "#1 04.03 10:30 image: x.png ↔ y.png, без отличий")
}

func TestArtifactName(t *testing.T) {
	require.Equal(t, "diff_7.pdf", artifactName(&entity.Comparison{ID: 7, Kind: entity.KindDocument}))
	require.Equal(t, "diff_7.png", artifactName(&entity.Comparison{ID: 7, Kind: entity.KindImage}))
}

func TestParseComparisonID(t *testing.T) {
	id, ok, err := parseComparisonID("")
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, id)

	id, ok, err = parseComparisonID(" #12 ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(12), id)

	_, _, err = parseComparisonID("abc")
	require.Error(t, err)

	_, _, err = parseComparisonID("0")
	require.Error(t, err)
}

func TestErrorMessage_History(t *testing.T) {
	require.Equal(t, msgNotFound, errorMessage(fmt.Errorf("%w: #3", entity.ErrComparisonNotFound)))
	require.Equal(t, msgNoHistory, errorMessage(app.ErrNoComparisons))
}
