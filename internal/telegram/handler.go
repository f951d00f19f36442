package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/annagav/essaycoach/internal/domain"
)

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
	} else {
		h.handleSubmission(ctx, msg)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "level":
		h.handleLevel(ctx, msg)
	case "task":
		h.handleTask(ctx, msg)
	case "history":
		h.handleHistory(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.logger.Error("failed to create user", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	response := fmt.Sprintf(
		"Добро пожаловать! Я проверяю письменные работы для кембриджских экзаменов.\n\n"+
			"Текущие настройки: <b>%s</b>, задание <b>%s</b>.\n\n"+
			"Просто пришлите текст вашей работы, и я оценю её по четырём критериям. "+
			"Используйте /help для списка команд.",
		user.Level.FullName(), user.Task)

	h.bot.Send(msg.Chat.ID, response)
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>Доступные команды:</b>

/start - Регистрация и текущие настройки
/help - Показать эту справку
/level CAE|CPE - Выбрать уровень экзамена
/task тип - Выбрать тип задания
/history - Последние проверенные работы

<b>Типы заданий:</b>
essay, proposal, report, review, letter

<b>Как использовать:</b>
Отправьте текст работы (от 20 до 1000 слов) обычным сообщением. Я оценю Content, Communicative Achievement, Organisation и Language по шкале 0-5 и отмечу ошибки прямо в тексте.

<b>Примеры:</b>
• /level CPE
• /task review`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleLevel(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName); err != nil {
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	level, ok := ParseLevelArg(msg.CommandArguments())
	if !ok {
		h.bot.Send(msg.Chat.ID, "Использование: /level CAE или /level CPE")
		return
	}

	user, err := h.bot.userService.SetLevel(ctx, msg.From.ID, level)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.Send(msg.Chat.ID, fmt.Sprintf("Уровень экзамена: <b>%s</b>.", user.Level.FullName()))
}

func (h *Handler) handleTask(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName); err != nil {
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	task, ok := ParseTaskArg(msg.CommandArguments())
	if !ok {
		h.bot.Send(msg.Chat.ID, "Использование: /task essay|proposal|report|review|letter")
		return
	}

	user, err := h.bot.userService.SetTask(ctx, msg.From.ID, task)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.Send(msg.Chat.ID, fmt.Sprintf("Тип задания: <b>%s</b>.", user.Task))
}

func (h *Handler) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	history, err := h.bot.assessService.History(ctx, user.ID)
	if err != nil {
		h.bot.logger.Error("failed to load history", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(history) == 0 {
		h.bot.Send(msg.Chat.ID, "Вы ещё не присылали работ на проверку.")
		return
	}

	h.bot.Send(msg.Chat.ID, FormatHistory(history))
}

func (h *Handler) handleSubmission(ctx context.Context, msg *tgbotapi.Message) {
	if !h.bot.rateLimiter.Allow(rateLimitKey(msg.From.ID)) {
		resetTime := h.bot.rateLimiter.ResetTime(rateLimitKey(msg.From.ID))
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", msg.From.ID),
			zap.Time("reset_at", resetTime),
		)
		h.bot.RecordRateLimitHit()
		h.bot.Send(msg.Chat.ID, "Слишком много запросов. Пожалуйста, подождите минуту.")
		return
	}

	user, err := h.bot.userService.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	h.bot.SendTyping(msg.Chat.ID)

	sub := &domain.Submission{
		UserID: user.ID,
		Level:  user.Level,
		Task:   user.Task,
		Text:   msg.Text,
	}

	assessment, err := h.bot.assessService.Assess(ctx, sub)
	if err != nil {
		h.bot.logger.Error("assessment failed",
			zap.Error(err),
			zap.Int64("user_id", user.ID),
		)
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	formatted := FormatAssessment(assessment)

	messages := SplitMessage(formatted, 4096) // лимит телеграма
	for _, m := range messages {
		if err := h.bot.Send(msg.Chat.ID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func rateLimitKey(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		return "Пустое сообщение. Пришлите текст работы."
	case errors.Is(err, domain.ErrTextTooShort):
		return fmt.Sprintf("Текст слишком короткий. Минимум %d слов.", domain.MinWords)
	case errors.Is(err, domain.ErrTextTooLong):
		return fmt.Sprintf("Текст слишком длинный. Максимум %d слов.", domain.MaxWords)
	case errors.Is(err, domain.ErrNotEnglish):
		return "Похоже, текст написан не на английском. Пришлите работу на английском языке."
	case errors.Is(err, domain.ErrNotMeaningful):
		return "Не удалось распознать связный текст. Пришлите текст работы."
	case errors.Is(err, domain.ErrInvalidLevel):
		return "Некорректный уровень. Доступны: CAE, CPE."
	case errors.Is(err, domain.ErrInvalidTask):
		return "Некорректный тип задания. Доступны: essay, proposal, report, review, letter."
	case errors.Is(err, domain.ErrLLMFailed):
		return "Не удалось проверить работу. Попробуйте позже."
	default:
		return "Произошла ошибка. Попробуйте позже."
	}
}
