package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "vision-diff/internal/application"
	"vision-diff/internal/container"
	"vision-diff/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для поиска отличий между двумя изображениями или PDF-документами.

📎 Отправьте /compare, затем эталон и файл для сравнения. Я пришлю копию с подсвеченными отличиями.

📋 Команды:
/compare — начать сравнение
/history — последние сравнения
/last [номер] — повторить результат сравнения
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /compare
2️⃣ Пришлите эталон: фото, изображение файлом или PDF
3️⃣ Пришлите второй файл того же вида
4️⃣ Получите изображение или PDF с подсвеченными отличиями

💡 Для PDF сравниваются страницы с одинаковыми номерами. Синим обведены места, где второй документ светлее, зелёным где темнее.

📋 Команды:
/compare — начать сравнение
/history — последние сравнения
/last [номер] — повторить результат сравнения
/cancel — отменить операцию`

	msgAwaitingFirst   = "📎 Отправьте эталон: фото, изображение или PDF."
	msgAwaitingSecond  = "📎 Эталон получен. Теперь отправьте файл для сравнения."
	msgCancelled       = "❌ Операция отменена. Отправьте /compare для нового сравнения."
	msgSendCompare     = "📎 Отправьте /compare, чтобы начать сравнение."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgUnsupportedFile = "⚠️ Поддерживаются только изображения и PDF."
	msgTooLarge        = "⚠️ Файл слишком большой."
	msgProcessing      = "⏳ Сравниваю файлы..."
	msgNoDifferences   = "✅ Отличий не обнаружено."
	msgDifferences     = "🔍 Найдены отличия."
	msgKindMismatch    = "⚠️ Второй файл должен быть того же вида, что и эталон. Отправьте другой файл."
	msgBusy            = "⏳ Предыдущее сравнение ещё выполняется."
	msgNoHistory       = "📭 Сравнений пока нет."
	msgNotFound        = "⚠️ Сравнение с таким номером не найдено."
	msgBadNumber       = "⚠️ Номер сравнения должен быть положительным числом, например /last 3."
	msgNoRegion        = "⚠️ На одном из изображений не найдено содержимое."
	msgNoMatches       = "⚠️ Не удалось сопоставить изображения: слишком мало общих точек."
	msgBadInput        = "⚠️ Не удалось прочитать файл. Проверьте, что он не повреждён."
	msgProcessingError = "⚠️ Не удалось выполнить сравнение. Попробуйте ещё раз."

	historyLimit = 10
)

// Bot представляет Telegram-бота
type Bot struct {
	api          *tgbotapi.BotAPI
	container    *container.Container
	maxFileBytes int
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, maxFileBytes int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:          api,
		container:    c,
		maxFileBytes: maxFileBytes,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Фото или документ
	if ref, ok := fileFromMessage(msg); ok {
		b.handleFile(ctx, msg, user, ref)
		return
	}
	if msg.Document != nil {
		b.sendMessage(msg.Chat.ID, msgUnsupportedFile)
		return
	}

	// Текстовое сообщение (не команда)
	if user.AwaitingFile() {
		b.sendMessage(msg.Chat.ID, msgAwaitingFirst)
		return
	}
	b.sendMessage(msg.Chat.ID, msgSendCompare)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	sessions := b.container.SessionService
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := sessions.Cancel(ctx, userID, chatID); err != nil {
			log.Printf("Error resetting user: %v", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "compare":
		if _, err := sessions.Begin(ctx, userID, chatID); err != nil {
			log.Printf("Error starting comparison: %v", err)
			b.sendMessage(chatID, errorMessage(err))
			return
		}
		b.sendMessage(chatID, msgAwaitingFirst)

	case "cancel":
		if _, err := sessions.Cancel(ctx, userID, chatID); err != nil {
			log.Printf("Error cancelling: %v", err)
		}
		b.sendMessage(chatID, msgCancelled)

	case "history":
		list, err := sessions.History(ctx, userID, historyLimit)
		if err != nil {
			log.Printf("Error listing history: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, formatHistory(list))

	case "last":
		id, ok, err := parseComparisonID(msg.CommandArguments())
		if err != nil {
			b.sendMessage(chatID, msgBadNumber)
			return
		}
		var rec *entity.Comparison
		if ok {
			rec, err = sessions.Find(ctx, userID, id)
		} else {
			rec, err = sessions.Last(ctx, userID)
		}
		if err != nil {
			if !errors.Is(err, app.ErrNoComparisons) && !errors.Is(err, entity.ErrComparisonNotFound) {
				log.Printf("Error getting comparison: %v", err)
			}
			b.sendMessage(chatID, errorMessage(err))
			return
		}
		b.sendResult(chatID, rec)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleFile принимает эталон или файл для сравнения
func (b *Bot) handleFile(ctx context.Context, msg *tgbotapi.Message, user *entity.User, ref fileRef) {
	if !user.AwaitingFile() && user.State != entity.StateProcessing {
		b.sendMessage(msg.Chat.ID, msgSendCompare)
		return
	}
	if b.maxFileBytes > 0 && ref.Size > b.maxFileBytes {
		b.sendMessage(msg.Chat.ID, msgTooLarge)
		return
	}

	data, err := b.downloadFile(ref.FileID)
	if err != nil {
		log.Printf("Error downloading file: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	if user.State == entity.StateAwaitingSecondFile {
		b.sendMessage(msg.Chat.ID, msgProcessing)
	}

	out, err := b.container.SessionService.AcceptFile(ctx, msg.From.ID, msg.Chat.ID, app.IncomingFile{
		Name: ref.Name,
		Kind: ref.Kind,
		Data: data,
	})
	if err != nil {
		log.Printf("Error comparing files for user %d: %v", msg.From.ID, err)
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}

	if out.Comparison == nil {
		b.sendMessage(msg.Chat.ID, msgAwaitingSecond)
		return
	}
	b.sendResult(msg.Chat.ID, out.Comparison)
}

// sendResult отправляет артефакт сравнения или сообщение об отсутствии отличий
func (b *Bot) sendResult(chatID int64, rec *entity.Comparison) {
	caption := formatSummary(rec)
	if !rec.DifferencesFound || rec.Artifact == nil {
		b.sendMessage(chatID, caption)
		return
	}

	file := tgbotapi.FileBytes{Name: artifactName(rec), Bytes: rec.Artifact.Data}
	var send tgbotapi.Chattable
	if rec.Kind == entity.KindImage {
		photo := tgbotapi.NewPhoto(chatID, file)
		photo.Caption = caption
		send = photo
	} else {
		doc := tgbotapi.NewDocument(chatID, file)
		doc.Caption = caption
		send = doc
	}

	if _, err := b.api.Send(send); err != nil {
		log.Printf("Error sending result: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if b.maxFileBytes > 0 {
		body = io.LimitReader(resp.Body, int64(b.maxFileBytes)+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
