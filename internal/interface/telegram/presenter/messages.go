// Package presenter formats bot responses as Telegram HTML.
package presenter

import (
	"fmt"
	"html"
	"strings"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/query"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATIC TEXTS
// ══════════════════════════════════════════════════════════════════════════════

// WelcomeText greets a new user and lists the available commands.
const WelcomeText = `👋 <b>Привет! Я бот ежедневных челленджей.</b>

Каждый день я публикую новый челлендж в канале сообщества.
Выполнил - отправь /complete и получи бонус XP. Серия подряд
идущих дней растит твой стрик.

<b>Команды:</b>
/complete - засчитать выполнение сегодняшнего челленджа
/profile - твой прогресс: XP, стрик, выполнения
/leaderboard - рейтинг участников
/challenge категория - сгенерировать случайный челлендж
/suggest текст | категория - предложить свой челлендж

<b>Для администраторов:</b>
/setup - настроить каналы бота
/approve id - одобрить предложение
/pending - предложения на модерации`

// ErrInternal is the generic failure reply.
const ErrInternal = "❌ Что-то пошло не так. Попробуй позже."

// ErrUnknownCommand is the reply to unrecognized commands.
const ErrUnknownCommand = "🤔 Не знаю такую команду. Список команд: /help"

// ErrAdminOnly is the reply to unauthorized admin commands.
const ErrAdminOnly = "🔒 Эта команда доступна только администраторам."

// ErrChannelsNotConfigured asks the admin to run setup first.
const ErrChannelsNotConfigured = "⚙️ Бот ещё не настроен. Администратор должен выполнить /setup."

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

// CompletionCredited formats the reply to a credited /complete.
func CompletionCredited(xpAwarded, totalXP int64, streak int, streakBroken bool, previousStreak int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✅ <b>Засчитано!</b> +%d XP\n\n", xpAwarded)
	fmt.Fprintf(&b, "⚡ Всего XP: <b>%d</b>\n", totalXP)
	fmt.Fprintf(&b, "🔥 Стрик: <b>%d</b>", streak)

	if streakBroken {
		fmt.Fprintf(&b, "\n\n💔 Прошлая серия из %d дн. прервалась. Начинаем заново!", previousStreak)
	} else if streak > 1 {
		b.WriteString("\nТак держать!")
	}

	return b.String()
}

// AlreadyCompleted formats the reply to a repeated /complete.
func AlreadyCompleted(streak int) string {
	return fmt.Sprintf("👌 Сегодняшний челлендж уже засчитан. Стрик: <b>%d</b>\nВозвращайся завтра!", streak)
}

// ProfileCard formats the /profile reply.
func ProfileCard(p *query.GetProfileResult) string {
	var b strings.Builder

	b.WriteString("📊 <b>Твой прогресс</b>\n\n")
	fmt.Fprintf(&b, "⚡ XP: <b>%d</b>\n", p.XP)
	fmt.Fprintf(&b, "🔥 Стрик: <b>%d</b> (рекорд: %d)\n", p.Streak, p.BestStreak)
	fmt.Fprintf(&b, "🏁 Выполнено челленджей: <b>%d</b>\n", p.TotalCompletions)

	if p.CompletedToday {
		b.WriteString("\n✅ Сегодняшний челлендж выполнен")
	} else {
		b.WriteString("\n⏳ Сегодняшний челлендж ещё не засчитан")
	}

	return b.String()
}

// ProfileEmpty is shown to users without a progress record.
const ProfileEmpty = "🌱 У тебя пока нет прогресса. Выполни сегодняшний челлендж и отправь /complete!"

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

// Leaderboard formats the /leaderboard reply. names maps user IDs to
// resolved display names; users missing from the map are shown by ID.
func Leaderboard(res *query.GetLeaderboardResult, names map[int64]string) string {
	if len(res.Entries) == 0 {
		return "🏆 Рейтинг пока пуст. Стань первым - выполни челлендж!"
	}

	var b strings.Builder
	b.WriteString("🏆 <b>Рейтинг участников</b>\n\n")

	for _, entry := range res.Entries {
		medal := entry.Rank.Medal()
		if medal == "" {
			medal = fmt.Sprintf("%d.", entry.Rank.Int())
		}

		name := names[entry.UserID.Int64()]
		if name == "" {
			name = fmt.Sprintf("Участник %d", entry.UserID.Int64())
		}
		fmt.Fprintf(&b, "%s %s\n", medal, html.EscapeString(name))
		fmt.Fprintf(&b, "   ⚡ %d XP • 🔥 %d • 🏁 %d\n", entry.XP.Int64(), entry.Streak, entry.TotalCompletions)
	}

	if res.TotalUsers > len(res.Entries) {
		fmt.Fprintf(&b, "\n<i>Показано %d из %d участников</i>", len(res.Entries), res.TotalUsers)
	}

	return b.String()
}

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGES
// ══════════════════════════════════════════════════════════════════════════════

// GenerationFailed is the reply when the generation API is unavailable.
const GenerationFailed = "🤖 Не получилось придумать челлендж. Попробуй ещё раз чуть позже."

// ChallengePreview formats an on-demand generated challenge.
func ChallengePreview(ch challenge.Challenge) string {
	return fmt.Sprintf(
		"🎲 <b>Случайный челлендж</b>\n\n%s\n\n🏷 Категория: %s",
		html.EscapeString(ch.Text), html.EscapeString(ch.Category),
	)
}

// UnknownCategory lists the accepted categories.
func UnknownCategory() string {
	return fmt.Sprintf(
		"🏷 Не знаю такую категорию. Доступные: %s",
		strings.Join(challenge.Categories, ", "),
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// SUGGESTIONS
// ══════════════════════════════════════════════════════════════════════════════

// SuggestionAccepted confirms a stored suggestion to its author.
func SuggestionAccepted(id int64, category string) string {
	return fmt.Sprintf(
		"💡 Спасибо! Предложение #%d (категория: %s) отправлено на модерацию.",
		id, html.EscapeString(category),
	)
}

// SuggestUsage explains the /suggest syntax.
const SuggestUsage = "✍️ Формат: /suggest текст челленджа | категория\nКатегорию можно не указывать."

// SuggestionApproved confirms an approval to the admin.
func SuggestionApproved(id int64, alreadyApproved bool) string {
	if alreadyApproved {
		return fmt.Sprintf("👌 Предложение #%d уже было одобрено.", id)
	}
	return fmt.Sprintf("✅ Предложение #%d одобрено и попало в пул публикации.", id)
}

// SuggestionNotFound reports an unknown suggestion ID.
func SuggestionNotFound(id int64) string {
	return fmt.Sprintf("🔍 Предложение #%d не найдено.", id)
}

// ApproveUsage explains the /approve syntax.
const ApproveUsage = "✍️ Формат: /approve id\nСписок ожидающих: /pending"

// PendingList formats the /pending reply.
func PendingList(suggestions []*challenge.Suggestion) string {
	if len(suggestions) == 0 {
		return "📭 Нет предложений на модерации."
	}

	var b strings.Builder
	b.WriteString("📬 <b>Предложения на модерации</b>\n\n")
	for _, s := range suggestions {
		fmt.Fprintf(&b, "#%d [%s] %s\n   от участника %d • /approve %d\n",
			s.ID,
			html.EscapeString(s.Category),
			html.EscapeString(s.Text),
			s.SubmittedBy.Int64(),
			s.ID,
		)
	}
	return b.String()
}

// ══════════════════════════════════════════════════════════════════════════════
// SETUP
// ══════════════════════════════════════════════════════════════════════════════

// SetupUsage explains the /setup syntax.
const SetupUsage = `✍️ Формат: /setup канал_челленджей канал_ответов канал_предложений
Передай три числовых ID каналов через пробел.`

// SetupDone confirms the stored channel configuration.
func SetupDone(challengeCh, responseCh, suggestionCh int64) string {
	return fmt.Sprintf(
		"⚙️ <b>Каналы настроены</b>\n\n🔥 Челленджи: %d\n💬 Ответы: %d\n💡 Предложения: %d",
		challengeCh, responseCh, suggestionCh,
	)
}
