package progress

import (
	"context"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Интерфейс определяет контракт для работы с хранилищем прогресса.
// Реализация находится в infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над записями прогресса.
type Repository interface {
	// GetByUserID возвращает запись прогресса участника.
	// Возвращает shared.ErrUserNotFound, если записи нет.
	GetByUserID(ctx context.Context, userID shared.UserID) (*UserProgress, error)

	// ApplyCompletion атомарно записывает засчитанное выполнение: XP
	// добавляется как дельта xpDelta, а запись защищена ранее прочитанным
	// моментом выполнения prev. Если prev уже не совпадает с хранимым
	// значением, возвращается shared.ErrAlreadyCompleted и состояние не
	// меняется. Параллельные начисления XP при этом не теряются.
	// Возвращает прогресс после обновления.
	ApplyCompletion(ctx context.Context, p *UserProgress, xpDelta int64, prev *time.Time) (*UserProgress, error)

	// AddXP атомарно добавляет XP, создавая запись при отсутствии.
	// Возвращает прогресс после обновления.
	AddXP(ctx context.Context, userID shared.UserID, amount int64) (*UserProgress, error)

	// Top возвращает до limit записей, отсортированных по XP по убыванию.
	// Равные XP упорядочиваются по user_id по возрастанию.
	Top(ctx context.Context, limit int) ([]*UserProgress, error)

	// Count возвращает общее количество записей прогресса.
	Count(ctx context.Context) (int, error)
}

// LeaderboardCache кеширует выборку рейтинга (обычно реализуется через Redis).
type LeaderboardCache interface {
	// Get возвращает закешированный рейтинг или shared.ErrNotFound.
	Get(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// Set сохраняет рейтинг в кеш.
	Set(ctx context.Context, limit int, entries []LeaderboardEntry) error

	// Invalidate сбрасывает кеш рейтинга.
	Invalidate(ctx context.Context) error
}
