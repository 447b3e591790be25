package telegram

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/graevsky/todo-notify-tg-bot/internal/settings"
	"github.com/graevsky/todo-notify-tg-bot/internal/store"
)

// Pending steps for the conversational flows. Which fields of pending are
// meaningful depends on the step.
const (
	stepTaskName    = "await_task_name"
	stepTaskDesc    = "await_task_description"
	stepTaskRename  = "await_task_rename"
	stepRemindTime  = "await_reminder_time"
	stepNtfName     = "await_ntf_name"
	stepNtfTime     = "await_ntf_time"
	stepNtfDate     = "await_ntf_date"
	stepNtfEditDate = "await_ntf_edit_date"
	stepNtfEditTime = "await_ntf_edit_time"
)

// pending carries the partial input of a multi-step flow for one chat.
// It lives in memory only; a restart drops half-finished dialogs.
type pending struct {
	step     string
	taskID   int64
	taskName string
	ntfID    int64
	ntfName  string
	ntfTime  string
	ntfDate  string
}

// Router wires Telegram updates to handlers and holds the per-chat dialog
// state. It also implements scheduler.Sender.
type Router struct {
	bot      *tgbotapi.BotAPI
	log      *zap.Logger
	repo     store.Repo
	settings *settings.Service
	loc      *time.Location

	// Telegram caps bots around 30 messages/sec overall; the schedulers and
	// the handlers share this limiter so bursts of due notifications queue
	// instead of erroring.
	limiter *rate.Limiter

	mu    sync.Mutex
	state map[int64]*pending
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, st *settings.Service, loc *time.Location) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		repo:     repo,
		settings: st,
		loc:      loc,
		limiter:  rate.NewLimiter(rate.Limit(25), 5),
		state:    make(map[int64]*pending),
	}
}

func (r *Router) setPending(chatID int64, p *pending) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = p
}

func (r *Router) getPending(chatID int64) *pending {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, chatID)
		case strings.HasPrefix(text, "/settings"), text == btnSettings:
			r.handleSettings(ctx, chatID)
		case strings.HasPrefix(text, "/add_task"), text == btnAddTask:
			r.handleAddTask(ctx, chatID)
		case strings.HasPrefix(text, "/show_tasks"), text == btnShowTasks:
			r.handleShowTasks(ctx, chatID)
		case strings.HasPrefix(text, "/add_notification"), text == btnAddNtf:
			r.handleAddNotification(ctx, chatID)
		case strings.HasPrefix(text, "/show_notifications"), text == btnShowNtfs:
			r.handleShowNotifications(ctx, chatID)
		case strings.HasPrefix(text, "/complete"):
			r.handleCompleteCommand(ctx, chatID, text)
		case text == btnCancel:
			r.handleCancel(chatID)
		default:
			r.handleFreeForm(ctx, chatID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		data := cb.Data
		chatID := cb.Message.Chat.ID

		switch {
		case data == "cancel_action":
			_ = r.answerCallback(cb.ID, "")
			r.handleCancel(chatID)

		case data == "toggle_desc":
			r.handleToggleDescription(ctx, chatID, cb.ID)
		case data == "toggle_reminder":
			r.handleToggleReminder(ctx, chatID, cb.ID)
		case data == "set_reminder_time":
			_ = r.answerCallback(cb.ID, "")
			r.setPending(chatID, &pending{step: stepRemindTime})
			r.sendText(chatID, askReminderTime)

		case strings.HasPrefix(data, "task:"):
			r.handleTaskCallback(ctx, chatID, data, cb.ID)
		case strings.HasPrefix(data, "ntf:"):
			r.handleNtfCallback(ctx, chatID, data, cb.ID)

		default:
			// Unknown callback, ignore silently.
		}
		return
	}
}

// splitCallback parses "kind:action:id" callback data.
func splitCallback(data string) (action string, id int64, ok bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return parts[1], id, true
}

// SendMessage sends a plain text message to the given chat, respecting the
// shared rate limit. This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	if err := r.limiter.Wait(context.Background()); err != nil {
		return err
	}
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (r *Router) sendText(chatID int64, text string) {
	if err := r.SendMessage(chatID, text); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) sendWithMarkup(chatID int64, text string, markup any) {
	if err := r.limiter.Wait(context.Background()); err != nil {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}
