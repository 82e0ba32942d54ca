package ports

import (
	"context"

	"github.com/GoArmGo/WardrobeApp/internal/messaging/payloads"
)

// CascadePublisher определяет методы для публикации задач каскадной очистки.
// Используется обработчиками удаления образов и вещей: сама запись удаляется
// синхронно, а очистка зависимых данных уходит в очередь.
type CascadePublisher interface {
	PublishCascadeTask(ctx context.Context, payload payloads.CascadePayload) error
}

// CascadeConsumer определяет методы для потребления задач каскадной очистки.
// Используется воркером для получения задач из очереди.
type CascadeConsumer interface {
	// StartConsumingCascadeTasks начинает прослушивание очереди;
	// handler вызывается для каждой полученной задачи, ошибка возвращает задачу в очередь.
	StartConsumingCascadeTasks(ctx context.Context, handler func(context.Context, payloads.CascadePayload) error) error
}
