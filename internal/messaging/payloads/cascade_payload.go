package payloads

// Виды задач каскадной очистки
const (
	// CascadeLookDeleted — образ удален: вычистить его id
	// из favorites/hidden_looks всех пользователей.
	CascadeLookDeleted = "look_deleted"

	// CascadePieceDeleted — вещь удалена: удалить все образы,
	// в состав которых она входила.
	CascadePieceDeleted = "piece_deleted"
)

// CascadePayload представляет задачу каскадной очистки, передаваемую через RabbitMQ
type CascadePayload struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}
