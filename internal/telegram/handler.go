package telegram

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PoluyanbIch/MathQuizBot/internal/config"
	"github.com/PoluyanbIch/MathQuizBot/internal/logger"
	"github.com/PoluyanbIch/MathQuizBot/internal/quiz"
	"github.com/PoluyanbIch/MathQuizBot/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// sender - часть tgbotapi.BotAPI, через которую бот отправляет сообщения
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// chatQuiz - активная викторина в одном чате
type chatQuiz struct {
	id        uuid.UUID
	chatID    int64
	messageID int
	session   *quiz.Session
	view      *View
	log       *logger.Logger
}

type Bot struct {
	api                *tgbotapi.BotAPI
	out                sender
	log                *logger.Logger
	leaderboardService service.LeaderboardService
	leaderboardSize    int
	updateTimeout      int

	quizzes map[int64]*chatQuiz
	events  chan func()
	done    chan struct{}

	// after откладывает fn так, чтобы она выполнилась в цикле событий бота
	after   func(d time.Duration, fn func()) quiz.Timer
	newRand func() *rand.Rand
}

func NewBot(cfg *config.Config, leaderboardService service.LeaderboardService, log *logger.Logger) (*Bot, error) {
	if err := tgbotapi.SetLogger(log.StdLog()); err != nil {
		return nil, fmt.Errorf("set telegram logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	api.Debug = cfg.Debug

	b := newBot(api, leaderboardService, log, cfg.LeaderboardSize)
	b.api = api
	b.updateTimeout = int(cfg.UpdateTimeout / time.Second)
	return b, nil
}

func newBot(out sender, leaderboardService service.LeaderboardService, log *logger.Logger, leaderboardSize int) *Bot {
	b := &Bot{
		out:                out,
		log:                log,
		leaderboardService: leaderboardService,
		leaderboardSize:    leaderboardSize,
		updateTimeout:      60,
		quizzes:            make(map[int64]*chatQuiz),
		events:             make(chan func()),
		done:               make(chan struct{}),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	b.after = b.postAfter
	return b
}

// Run читает обновления и выполняет отложенные продолжения викторин в одном
// цикле, поэтому сессии никогда не обрабатываются параллельно.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("authorised", "account", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.updateTimeout

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	return b.loop(ctx, updates)
}

// loop - единственное место, где обрабатываются обновления и продолжения сессий
func (b *Bot) loop(ctx context.Context, updates <-chan tgbotapi.Update) error {
	defer close(b.done)
	defer b.closeAll()

	for {
		select {
		case <-ctx.Done():
			b.log.Info("bot is stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram updates channel closed")
			}
			b.handleUpdate(update)
		case fn := <-b.events:
			fn()
		}
	}
}

// postAfter ставит таймер, срабатывание которого только передаёт fn в цикл Run
func (b *Bot) postAfter(d time.Duration, fn func()) quiz.Timer {
	return time.AfterFunc(d, func() {
		b.post(fn)
	})
}

// post ждёт, пока цикл примет fn. Возвращает false, если бот уже остановлен.
func (b *Bot) post(fn func()) bool {
	select {
	case b.events <- fn:
		return true
	case <-b.done:
		return false
	}
}

// chatScheduler - quiz.Scheduler одного чата: после продолжения сессии
// перерисовывает сообщение викторины
type chatScheduler struct {
	bot *Bot
	q   *chatQuiz
}

func (s chatScheduler) AfterFunc(d time.Duration, f func()) quiz.Timer {
	return s.bot.after(d, func() {
		f()
		s.bot.flush(s.q)
	})
}

func (b *Bot) closeAll() {
	for chatID, q := range b.quizzes {
		q.session.Close()
		delete(b.quizzes, chatID)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
	}
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		b.sendMainMenu(chatID)
	case "quiz":
		b.startQuiz(chatID)
	case "stop":
		b.finishQuiz(chatID, message.From)
	case "leaderboard":
		b.handleLeaderboard(chatID, message.From)
	case "info":
		b.handleInfo(chatID)
	default:
		b.sendMessage(chatID, "Неизвестная команда")
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.out.Request(callbackConfig); err != nil {
		b.log.Warn("error answering callback", "error", err)
	}

	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case data == "start_quiz":
		b.startQuiz(chatID)
	case strings.HasPrefix(data, choicePrefix):
		b.handleChoice(callback)
	case data == "exit_quiz":
		b.finishQuiz(chatID, callback.From)
	case data == "back_to_menu":
		b.sendMainMenu(chatID)
	case data == "info":
		b.handleInfo(chatID)
	case data == "leaderboard":
		b.handleLeaderboard(chatID, callback.From)
	default:
		b.sendMessage(chatID, "Неизвестная команда")
	}
}

func (b *Bot) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "📋 *Главное меню*\n\nРешай примеры на сложение и умножение, выбирая один из четырёх ответов.")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = mainMenuKeyboard()

	if _, err := b.out.Send(msg); err != nil {
		b.log.Error("error sending main menu", "chat_id", chatID, "error", err)
	}
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧮 Начать викторину", "start_quiz"),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Лидерборд", "leaderboard"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️Обо мнеℹ️", "info"),
		),
	)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		b.log.Error("error sending message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) startQuiz(chatID int64) {
	id := uuid.New()
	if old, exists := b.quizzes[chatID]; exists {
		old.session.Close()
		old.log.Info("quiz replaced", "new_session_id", id.String())
	}

	q := &chatQuiz{
		id:     id,
		chatID: chatID,
		view:   NewView(),
		log:    b.log.With("chat_id", chatID, "session_id", id.String()),
	}
	q.session = quiz.NewSession(q.view, chatScheduler{bot: b, q: q}, b.newRand())
	b.quizzes[chatID] = q

	q.session.Start()

	msg := tgbotapi.NewMessage(chatID, q.view.Text())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = q.view.Keyboard()

	sent, err := b.out.Send(msg)
	if err != nil {
		q.log.Error("error sending quiz", "error", err)
		q.session.Close()
		delete(b.quizzes, chatID)
		return
	}
	q.messageID = sent.MessageID
	q.view.MarkClean()

	q.log.Info("quiz started", "problem", q.session.Problem().Text())
}

func (b *Bot) handleChoice(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	q, exists := b.quizzes[chatID]
	if !exists || callback.Message.MessageID != q.messageID {
		b.log.Debug("stale quiz callback", "chat_id", chatID, "data", callback.Data)
		return
	}

	value, ok := parseChoice(callback.Data)
	if !ok {
		q.log.Warn("malformed choice", "data", callback.Data)
		return
	}

	outcome, err := q.session.Select(value)
	if err != nil {
		q.log.Debug("selection ignored", "value", value, "reason", err)
		return
	}

	q.log.Info("selection judged",
		"value", value,
		"answer", q.session.Problem().Answer,
		"outcome", outcome.String(),
		"question", q.session.Index())

	if callback.From != nil {
		b.leaderboardService.Record(playerFrom(callback.From), outcome == quiz.OutcomeCorrect)
	}

	b.flush(q)
}

// flush перерисовывает сообщение викторины, если вид поменялся
func (b *Bot) flush(q *chatQuiz) {
	if q.messageID == 0 || !q.view.Dirty() {
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(q.chatID, q.messageID, q.view.Text(), q.view.Keyboard())
	edit.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.out.Send(edit); err != nil {
		if !strings.Contains(err.Error(), "message is not modified") {
			// вид остаётся грязным, следующий flush повторит отправку
			q.log.Error("error updating quiz", "error", err)
			return
		}
		q.log.Debug("quiz message unchanged")
	}
	q.view.MarkClean()
}

func (b *Bot) finishQuiz(chatID int64, user *tgbotapi.User) {
	q, exists := b.quizzes[chatID]
	if !exists {
		b.sendMessage(chatID, "Викторина не запущена. Начни новую командой /quiz")
		return
	}

	q.session.Close()
	delete(b.quizzes, chatID)
	q.log.Info("quiz finished", "question", q.session.Index())

	resultText := "🚪 *Викторина остановлена.*\n\n"
	if user != nil {
		if position, entry := b.leaderboardService.GetUserPosition(user.ID); entry != nil {
			resultText += fmt.Sprintf(
				"📊 Верных ответов: %d/%d\n"+
					"📈 Точность: %d%%\n"+
					"🔥 Лучшая серия: %d\n"+
					"🏆 Место в лидерборде: %d\n",
				entry.Correct, entry.Answered, entry.Accuracy, entry.BestStreak, position)
		}
	}

	resultText += fmt.Sprintf("\n🆔 Сессия: `%s`", shortID(q.id))

	finalMsg := tgbotapi.NewMessage(chatID, resultText)
	finalMsg.ParseMode = tgbotapi.ModeMarkdown
	finalMsg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Начать заново", "start_quiz"),
			tgbotapi.NewInlineKeyboardButtonData("🔙 В меню", "back_to_menu"),
		),
	)

	if _, err := b.out.Send(finalMsg); err != nil {
		b.log.Error("error sending final message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleLeaderboard(chatID int64, user *tgbotapi.User) {
	top := b.leaderboardService.GetTop(b.leaderboardSize)

	if len(top) == 0 {
		b.sendMessage(chatID, "🏆 Лидерборд\n\nПока нет результатов. Будьте первым! 🎯")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 <b>Топ %d игроков</b>\n\n", b.leaderboardSize)

	for i, entry := range top {
		medal := "🔸"
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}

		fmt.Fprintf(&sb, "%s %d. %s - серия %d, %d%% (%d/%d)\n   📅 %s\n\n",
			medal, i+1, escapeHTML(entry.DisplayName()), entry.BestStreak,
			entry.Accuracy, entry.Correct, entry.Answered, entry.Date)
	}

	if user != nil {
		if position, _ := b.leaderboardService.GetUserPosition(user.ID); position > len(top) {
			fmt.Fprintf(&sb, "Ваше место: %d", position)
		}
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Начать викторину", "start_quiz"),
			tgbotapi.NewInlineKeyboardButtonData("📋 Главное меню", "back_to_menu"),
		),
	)

	if _, err := b.out.Send(msg); err != nil {
		b.log.Error("error sending leaderboard", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleInfo(chatID int64) {
	text := "Тренажёр устного счёта.\n\n" +
		"Каждый пример - сложение или умножение, из четырёх вариантов верный только один. " +
		"Ошибся - подсказка покажет правильный ответ, и пример можно решить ещё раз. " +
		"Вопросы идут по кругу, по 10 в раунде.\n\n" +
		"/quiz - начать, /stop - остановить, /leaderboard - лидерборд"

	infoMsg := tgbotapi.NewMessage(chatID, text)
	infoMsg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("👤 Автор", "https://github.com/PoluyanbIch"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", "back_to_menu"),
		),
	)

	if _, err := b.out.Send(infoMsg); err != nil {
		b.log.Error("error sending info", "chat_id", chatID, "error", err)
	}
}

// shortID - первые 8 символов id сессии, их же видно в логах
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func playerFrom(user *tgbotapi.User) service.Player {
	return service.Player{
		UserID:    user.ID,
		Username:  user.UserName,
		FirstName: user.FirstName,
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
