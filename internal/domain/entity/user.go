package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu           UserState = "main_menu"            // В главном меню
	StateAwaitingFirstFile  UserState = "awaiting_first_file"  // Ожидание эталонного файла
	StateAwaitingSecondFile UserState = "awaiting_second_file" // Ожидание файла для сравнения
	StateProcessing         UserState = "processing"           // Идёт сравнение
)

// transitions допустимые переходы диалога. В главное меню можно вернуться из любого состояния.
var transitions = map[UserState][]UserState{
	StateMainMenu:           {StateAwaitingFirstFile, StateAwaitingSecondFile},
	StateAwaitingFirstFile:  {StateAwaitingFirstFile, StateAwaitingSecondFile},
	StateAwaitingSecondFile: {StateAwaitingFirstFile, StateAwaitingSecondFile, StateProcessing},
	StateProcessing:         {},
}

// User представляет пользователя бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
}

// NewUser создаёт нового пользователя в главном меню
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя без проверки перехода
func (u *User) SetState(state UserState) {
	u.State = state
}

// CanMoveTo сообщает, допустим ли переход из текущего состояния в next.
func (u *User) CanMoveTo(next UserState) bool {
	if next == StateMainMenu {
		return true
	}
	for _, s := range transitions[u.State] {
		if s == next {
			return true
		}
	}
	return false
}

// AwaitingFile сообщает, ждёт ли бот от пользователя файл.
func (u *User) AwaitingFile() bool {
	return u.State == StateAwaitingFirstFile || u.State == StateAwaitingSecondFile
}
