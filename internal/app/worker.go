package app

import (
	"context"
	"fmt"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/messaging/payloads"
)

// runWorker запускает потребителя очереди каскадных задач и блокируется
// до отмены контекста
func (a *App) runWorker(ctx context.Context) error {
	a.logger.Info("worker started, waiting for cascade tasks")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	taskHandler := func(ctx context.Context, payload payloads.CascadePayload) error {
		a.logger.Info("processing cascade task", "kind", payload.Kind, "id", payload.ID)

		if err := a.lookUseCase.ProcessCascadeTask(ctx, payload); err != nil {
			a.logger.Error("cascade task failed", "kind", payload.Kind, "id", payload.ID, "error", err)
			return err
		}

		a.logger.Info("cascade task done", "kind", payload.Kind, "id", payload.ID)
		return nil
	}

	if err := a.cascadeConsumer.StartConsumingCascadeTasks(workerCtx, taskHandler); err != nil {
		return fmt.Errorf("ошибка запуска потребителя очереди: %w", err)
	}

	<-ctx.Done()

	a.logger.Info("worker stopping")
	cancelWorker()

	// даем обработке текущего сообщения завершиться
	time.Sleep(2 * time.Second)

	a.logger.Info("worker stopped")
	return nil
}
