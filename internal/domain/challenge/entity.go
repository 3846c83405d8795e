// Package challenge содержит доменную модель жизненного цикла челленджей:
// предложения участников (suggest → approve → consume) и дневной челлендж.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package challenge

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATEGORIES
// ══════════════════════════════════════════════════════════════════════════════

// Categories - фиксированный набор категорий для сгенерированных челленджей.
var Categories = []string{
	"Fitness",
	"Art",
	"Photography",
	"Creativity",
	"Design",
	"Adventure",
	"Travel",
	"Sports",
	"Gaming",
	"Innovation",
	"DIY",
}

// RandomCategory возвращает случайную категорию из фиксированного набора.
func RandomCategory() string {
	return Categories[rand.Intn(len(Categories))]
}

// IsKnownCategory проверяет, входит ли категория в фиксированный набор.
func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// SUGGESTION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Suggestion - предложение челленджа от участника.
// Жизненный цикл: Submitted → Approved → Consumed (строка удаляется).
// Из состояния Consumed переходов нет; Approved может храниться бессрочно.
type Suggestion struct {
	// ID - последовательный идентификатор, присваивается хранилищем.
	ID int64

	// Text - текст челленджа.
	Text string

	// Category - категория в свободной форме.
	Category string

	// SubmittedBy - идентификатор автора предложения.
	SubmittedBy shared.UserID

	// Approved - одобрено ли предложение администратором.
	Approved bool

	// CreatedAt - время подачи предложения.
	CreatedAt time.Time
}

// NewSuggestion создаёт новое предложение. Текст обязателен, категория
// в свободной форме (пустая заменяется на "General" - дальше не валидируем).
func NewSuggestion(text, category string, submittedBy shared.UserID) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.ErrEmptyChallengeText
	}
	if !submittedBy.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = "General"
	}

	return &Suggestion{
		Text:        text,
		Category:    category,
		SubmittedBy: submittedBy,
		Approved:    false,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// String возвращает строковое представление для логирования.
func (s *Suggestion) String() string {
	return fmt.Sprintf(
		"Suggestion{ID: %d, Category: %s, Approved: %t}",
		s.ID, s.Category, s.Approved,
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE VALUE OBJECT
// ══════════════════════════════════════════════════════════════════════════════

// Source указывает происхождение дневного челленджа.
type Source string

const (
	// SourceSuggestion - челлендж взят из одобренного предложения.
	SourceSuggestion Source = "suggestion"

	// SourceGenerated - челлендж сгенерирован внешним API.
	SourceGenerated Source = "generated"
)

// Challenge - готовый к публикации челлендж.
type Challenge struct {
	// Text - текст челленджа.
	Text string

	// Category - категория.
	Category string

	// Source - происхождение.
	Source Source

	// SubmittedBy - автор, если Source == SourceSuggestion.
	SubmittedBy shared.UserID
}

// FromSuggestion превращает потреблённое предложение в челлендж.
func FromSuggestion(s *Suggestion) Challenge {
	return Challenge{
		Text:        s.Text,
		Category:    s.Category,
		Source:      SourceSuggestion,
		SubmittedBy: s.SubmittedBy,
	}
}

// Generated создаёт челлендж из ответа генеративного API.
func Generated(text, category string) Challenge {
	return Challenge{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
		Source:   SourceGenerated,
	}
}

// IsValid проверяет, что у челленджа есть текст и категория.
func (c Challenge) IsValid() bool {
	return c.Text != "" && c.Category != ""
}
