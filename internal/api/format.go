package telegram

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "vision-diff/internal/application"
	"vision-diff/internal/domain/entity"
)

// fileRef файл из сообщения, который можно скачать
type fileRef struct {
	FileID string
	Name   string
	Kind   entity.ComparisonKind
	Size   int
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// kindFromMIME определяет вид сравнения по MIME-типу, а при его отсутствии по расширению.
func kindFromMIME(mime, name string) (entity.ComparisonKind, bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case mime == "application/pdf":
		return entity.KindDocument, true
	case strings.HasPrefix(mime, "image/"):
		return entity.KindImage, true
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".pdf" {
		return entity.KindDocument, true
	}
	if imageExtensions[ext] {
		return entity.KindImage, true
	}
	return "", false
}

// fileFromMessage достаёт фото (наибольший размер) или поддерживаемый документ.
func fileFromMessage(msg *tgbotapi.Message) (fileRef, bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		return fileRef{FileID: photo.FileID, Name: "photo.jpg", Kind: entity.KindImage, Size: photo.FileSize}, true
	}
	if msg.Document != nil {
		kind, ok := kindFromMIME(msg.Document.MimeType, msg.Document.FileName)
		if !ok {
			return fileRef{}, false
		}
		return fileRef{
			FileID: msg.Document.FileID,
			Name:   msg.Document.FileName,
			Kind:   kind,
			Size:   msg.Document.FileSize,
		}, true
	}
	return fileRef{}, false
}

// errorMessage переводит ошибку сравнения в сообщение пользователю.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrKindMismatch):
		return msgKindMismatch
	case errors.Is(err, app.ErrBusy), errors.Is(err, app.ErrInvalidTransition):
		return msgBusy
	case errors.Is(err, app.ErrNoComparisons):
		return msgNoHistory
	case errors.Is(err, entity.ErrComparisonNotFound):
		return msgNotFound
	}

	switch entity.KindOf(err) {
	case entity.KindNoRegion:
		return msgNoRegion
	case entity.KindInsufficientMatches, entity.KindTransform:
		return msgNoMatches
	case entity.KindInput, entity.KindDecode:
		return msgBadInput
	default:
		return msgProcessingError
	}
}

func artifactName(rec *entity.Comparison) string {
	if rec.Kind == entity.KindDocument {
		return fmt.Sprintf("diff_%d.pdf", rec.ID)
	}
	return fmt.Sprintf("diff_%d.png", rec.ID)
}

// formatSummary подпись к результату: итог и пропущенные страницы.
func formatSummary(rec *entity.Comparison) string {
	var sb strings.Builder
	if rec.DifferencesFound {
		sb.WriteString(msgDifferences)
	} else {
		sb.WriteString(msgNoDifferences)
	}

	if rec.Kind != entity.KindDocument {
		return sb.String()
	}

	collected, skipped := 0, make([]string, 0)
	for _, p := range rec.Pages {
		switch p.Status {
		case entity.PageCollected:
			collected++
		case entity.PageSkipped:
			skipped = append(skipped, fmt.Sprintf("%d (%s)", p.Index+1, p.Kind))
		}
	}
	fmt.Fprintf(&sb, "\nСтраниц сравнено: %d, с отличиями: %d", len(rec.Pages), collected)
	if len(skipped) > 0 {
		fmt.Fprintf(&sb, "\nПропущены страницы: %s", strings.Join(skipped, ", "))
	}
	return sb.String()
}

// formatHistory список сравнений, новые первыми.
func formatHistory(list []*entity.Comparison) string {
	if len(list) == 0 {
		return msgNoHistory
	}

	var sb strings.Builder
	sb.WriteString("🗂 Последние сравнения:")
	for _, rec := range list {
		status := "без отличий"
		if rec.DifferencesFound {
			status = "есть отличия"
		}
		fmt.Fprintf(&sb, "\n#%d %s %s: %s ↔ %s, %s",
			rec.ID, rec.CreatedAt.Format("02.01 15:04"), rec.Kind, displayName(rec.File1), displayName(rec.File2), status)
	}
	return sb.String()
}

func displayName(f entity.StoredFile) string {
	if f.Name != "" {
		return f.Name
	}
	if len(f.Fingerprint) >= 8 {
		return f.Fingerprint[:8]
	}
	return "?"
}

// parseComparisonID разбирает номер сравнения из аргументов /last. Пустая строка означает последнее.
func parseComparisonID(args string) (int64, bool, error) {
	args = strings.TrimPrefix(strings.TrimSpace(args), "#")
	if args == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("comparison id %q: %w", args, err)
	}
	if id <= 0 {
		return 0, false, fmt.Errorf("comparison id %d must be positive", id)
	}
	return id, true, nil
}
