package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Студент выбрал предмет и задаёт вопросы ассистенту
	StateChatting UserState = "chatting"
)

// Ключи временных данных
const (
	KeySubjectID   = "subject_id"
	KeySubjectName = "subject_name"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]any
}
