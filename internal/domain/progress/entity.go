// Package progress содержит доменную модель прогресса участника:
// XP, серия выполнений (streak) и счётчик выполненных челленджей.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package progress

import (
	"fmt"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
	"github.com/challenge-hub/challenge-hub-bot/pkg/timeutil"
)

// CompletionBonusXP - фиксированный бонус XP за выполнение дневного челленджа.
const CompletionBonusXP int64 = 10

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

// UserProgress - запись прогресса одного участника.
// Создаётся при первом событии XP или выполнении; никогда не удаляется.
type UserProgress struct {
	// UserID - идентификатор участника в чат-платформе.
	UserID shared.UserID

	// XP - накопленные очки опыта. Монотонно не убывают.
	XP shared.XP

	// Streak - текущая серия: количество подряд идущих календарных дней
	// с хотя бы одним выполнением.
	Streak int

	// BestStreak - максимальная серия за всё время.
	BestStreak int

	// LastCompletion - дата последнего засчитанного выполнения.
	// nil, если участник ещё ни разу не выполнял челлендж.
	LastCompletion *time.Time

	// TotalCompletions - суммарное количество засчитанных выполнений.
	TotalCompletions int

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewUserProgress создаёт пустую запись прогресса для нового участника.
func NewUserProgress(userID shared.UserID) (*UserProgress, error) {
	if !userID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	now := time.Now().UTC()
	return &UserProgress{
		UserID:    userID,
		XP:        0,
		Streak:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// AddXP добавляет XP. Нулевое значение допустимо, отрицательное - нет.
func (p *UserProgress) AddXP(amount int64) error {
	if amount < 0 {
		return shared.ErrNegativeXP
	}

	p.XP = p.XP.Add(amount)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// CompletionResult описывает итог засчитанного выполнения.
type CompletionResult struct {
	// XPAwarded - начисленный бонус.
	XPAwarded int64

	// Streak - серия после выполнения.
	Streak int

	// StreakBroken - true, если выполнение сбросило предыдущую серию.
	StreakBroken bool

	// PreviousStreak - серия до сброса (заполняется при StreakBroken).
	PreviousStreak int

	// DaysMissed - сколько дней пропущено (заполняется при StreakBroken).
	DaysMissed int
}

// RecordCompletion засчитывает выполнение дневного челленджа на момент now.
// Календарный день определяется в loc. Повторное выполнение в тот же день
// возвращает ErrAlreadyCompleted и не меняет состояние.
func (p *UserProgress) RecordCompletion(now time.Time, loc *time.Location) (*CompletionResult, error) {
	result := &CompletionResult{XPAwarded: CompletionBonusXP}

	if p.LastCompletion == nil {
		// Самое первое выполнение: серия начинается с 1.
		p.Streak = 1
	} else {
		gap := timeutil.DaysBetween(*p.LastCompletion, now, loc)
		switch {
		case gap == 0:
			return nil, shared.ErrAlreadyCompleted
		case gap == 1:
			p.Streak++
		default:
			result.StreakBroken = true
			result.PreviousStreak = p.Streak
			result.DaysMissed = gap - 1
			p.Streak = 1
		}
	}

	p.XP = p.XP.Add(CompletionBonusXP)
	p.TotalCompletions++
	if p.Streak > p.BestStreak {
		p.BestStreak = p.Streak
	}

	completedAt := now
	p.LastCompletion = &completedAt
	p.UpdatedAt = time.Now().UTC()

	result.Streak = p.Streak
	return result, nil
}

// CompletedToday проверяет, засчитано ли выполнение за сегодняшний день.
func (p *UserProgress) CompletedToday(now time.Time, loc *time.Location) bool {
	if p.LastCompletion == nil {
		return false
	}
	return timeutil.SameDay(*p.LastCompletion, now, loc)
}

// String возвращает строковое представление для логирования.
func (p *UserProgress) String() string {
	return fmt.Sprintf(
		"UserProgress{UserID: %d, XP: %d, Streak: %d, Completions: %d}",
		p.UserID, p.XP, p.Streak, p.TotalCompletions,
	)
}

// Clone создаёт копию записи прогресса.
func (p *UserProgress) Clone() *UserProgress {
	if p == nil {
		return nil
	}

	clone := *p
	if p.LastCompletion != nil {
		last := *p.LastCompletion
		clone.LastCompletion = &last
	}
	return &clone
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardEntry - строка рейтинга: позиция плюс снимок прогресса.
type LeaderboardEntry struct {
	// Rank - позиция в рейтинге (начиная с 1).
	Rank shared.Rank

	// UserID - идентификатор участника.
	UserID shared.UserID

	// XP - очки опыта на момент выборки.
	XP shared.XP

	// Streak - текущая серия.
	Streak int

	// TotalCompletions - количество выполнений.
	TotalCompletions int
}
