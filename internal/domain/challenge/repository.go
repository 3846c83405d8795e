package challenge

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Интерфейс определяет контракт для работы с хранилищем предложений.
// Реализация находится в infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над предложениями челленджей.
type Repository interface {
	// Create сохраняет новое предложение и заполняет его ID.
	Create(ctx context.Context, s *Suggestion) error

	// GetByID возвращает предложение по идентификатору.
	// Возвращает shared.ErrSuggestionNotFound, если предложения нет.
	GetByID(ctx context.Context, id int64) (*Suggestion, error)

	// Approve помечает предложение одобренным.
	// Возвращает shared.ErrSuggestionNotFound, если предложения нет.
	Approve(ctx context.Context, id int64) error

	// PickAndConsumeApproved выбирает одно одобренное предложение равновероятно,
	// удаляет его из хранилища и возвращает. Деструктивное чтение: потреблённые
	// предложения не используются повторно.
	// Возвращает shared.ErrNoApprovedSuggestions, если одобренных нет.
	PickAndConsumeApproved(ctx context.Context) (*Suggestion, error)

	// ListPending возвращает до limit неодобренных предложений,
	// отсортированных от старых к новым.
	ListPending(ctx context.Context, limit int) ([]*Suggestion, error)

	// CountApproved возвращает количество одобренных предложений.
	CountApproved(ctx context.Context) (int, error)
}

// Generator запрашивает челлендж у внешнего генеративного API.
// Реализация находится в infrastructure/external/genai.
type Generator interface {
	// Generate возвращает сгенерированный челлендж для категории.
	// Пустая категория означает выбор на стороне вызывающего.
	// Любая транспортная ошибка или нарушение схемы ответа возвращается
	// как shared.ErrGenerationFailed.
	Generate(ctx context.Context, category string) (Challenge, error)
}
