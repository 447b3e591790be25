package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
	"github.com/graevsky/todo-notify-tg-bot/internal/store"
)

// --- Top-level commands ---

func (r *Router) handleStart(ctx context.Context, chatID int64) {
	// Materialize the settings row up front so later toggles always find it.
	if _, err := r.settings.Get(ctx, chatID); err != nil {
		r.log.Error("settings init failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
	r.clearPending(chatID)
	r.sendWithMarkup(chatID, menuTitle, mainMenuKeyboard())
}

func (r *Router) handleCancel(chatID int64) {
	r.clearPending(chatID)
	r.sendWithMarkup(chatID, msgCancelled, mainMenuKeyboard())
}

// --- Settings menu ---

func (r *Router) handleSettings(ctx context.Context, chatID int64) {
	s, err := r.settings.Get(ctx, chatID)
	if err != nil {
		r.log.Error("read settings failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, msgStorageTrouble)
		return
	}
	r.sendWithMarkup(chatID, msgSettingsTitle, settingsInlineKeyboard(s))
}

func (r *Router) handleToggleDescription(ctx context.Context, chatID int64, cbID string) {
	v, err := r.settings.ToggleDescription(ctx, chatID)
	if err != nil {
		r.log.Error("toggle description failed", zap.Error(err), zap.Int64("chatID", chatID))
		_ = r.answerCallback(cbID, msgStorageTrouble)
		return
	}
	status := "descriptions are asked again"
	if v {
		status = "tasks are created without a description"
	}
	_ = r.answerCallback(cbID, "Saved: "+status)
	r.handleSettings(ctx, chatID)
}

func (r *Router) handleToggleReminder(ctx context.Context, chatID int64, cbID string) {
	v, err := r.settings.ToggleReminder(ctx, chatID)
	if err != nil {
		r.log.Error("toggle reminder failed", zap.Error(err), zap.Int64("chatID", chatID))
		_ = r.answerCallback(cbID, msgStorageTrouble)
		return
	}
	if v {
		_ = r.answerCallback(cbID, "Daily reminder enabled")
		// An enabled reminder without a time never fires, so ask right away.
		r.setPending(chatID, &pending{step: stepRemindTime})
		r.sendText(chatID, askReminderTime)
		return
	}
	_ = r.answerCallback(cbID, "Daily reminder disabled")
	r.handleSettings(ctx, chatID)
}

// --- Task flows ---

func (r *Router) handleAddTask(ctx context.Context, chatID int64) {
	r.setPending(chatID, &pending{step: stepTaskName})
	r.sendWithMarkup(chatID, askTaskName, cancelInlineKeyboard())
}

func (r *Router) handleShowTasks(ctx context.Context, chatID int64) {
	tasks, err := r.repo.ListTasks(ctx, chatID, true)
	if err != nil {
		r.log.Error("list tasks failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, msgStorageTrouble)
		return
	}
	if len(tasks) == 0 {
		r.sendText(chatID, msgNoTasks)
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range tasks {
		id := strconv.FormatInt(t.ID, 10)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(t.Title, "task:view:"+id),
			tgbotapi.NewInlineKeyboardButtonData("✏️", "task:edit:"+id),
			tgbotapi.NewInlineKeyboardButtonData("✔️", "task:done:"+id),
		))
	}
	r.sendWithMarkup(chatID, msgYourTasks, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (r *Router) handleTaskCallback(ctx context.Context, chatID int64, data, cbID string) {
	action, id, ok := splitCallback(data)
	if !ok {
		_ = r.answerCallback(cbID, "")
		return
	}

	task, err := r.repo.GetTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		_ = r.answerCallback(cbID, "")
		r.sendText(chatID, msgTaskNotFound)
		return
	}
	if err != nil {
		r.log.Error("get task failed", zap.Error(err), zap.Int64("id", id))
		_ = r.answerCallback(cbID, msgStorageTrouble)
		return
	}
	_ = r.answerCallback(cbID, "")

	switch action {
	case "view":
		desc := task.Description
		if desc == "" {
			desc = msgNoDescription
		}
		r.sendText(chatID, task.Title+"\n"+desc)

	case "edit":
		r.setPending(chatID, &pending{step: stepTaskRename, taskID: id})
		r.sendText(chatID, fmt.Sprintf("Current name: %s\n%s", task.Title, askTaskNewName))

	case "done":
		r.toggleTaskStatus(ctx, chatID, task)
	}
}

// handleCompleteCommand supports "/complete <id>" as a keyboard-free path to
// the same toggle the inline button does.
func (r *Router) handleCompleteCommand(ctx context.Context, chatID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		r.sendText(chatID, msgTaskNotFound)
		return
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		r.sendText(chatID, msgTaskNotFound)
		return
	}

	task, err := r.repo.GetTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(chatID, msgTaskNotFound)
		return
	}
	if err != nil {
		r.log.Error("get task failed", zap.Error(err), zap.Int64("id", id))
		r.sendText(chatID, msgStorageTrouble)
		return
	}
	r.toggleTaskStatus(ctx, chatID, task)
}

func (r *Router) toggleTaskStatus(ctx context.Context, chatID int64, task *domain.Task) {
	next := task.Status.Toggle()
	if err := r.repo.SetTaskStatus(ctx, task.ID, next); err != nil {
		r.log.Error("set task status failed", zap.Error(err), zap.Int64("id", task.ID))
		r.sendText(chatID, msgStorageTrouble)
		return
	}
	state := "incomplete ❌"
	if next == domain.StatusDone {
		state = "completed ✅"
	}
	r.sendText(chatID, fmt.Sprintf("Task %q marked as %s", task.Title, state))
}

func (r *Router) createTask(ctx context.Context, chatID int64, title, description string) {
	task := domain.Task{Owner: chatID, Title: title, Description: description, Status: domain.StatusOpen}
	if err := r.repo.CreateTask(ctx, &task); err != nil {
		r.log.Error("create task failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, msgStorageTrouble)
		return
	}
	r.sendWithMarkup(chatID, msgTaskAdded, mainMenuKeyboard())
}

// --- Notification flows ---

func (r *Router) handleAddNotification(ctx context.Context, chatID int64) {
	r.setPending(chatID, &pending{step: stepNtfName})
	r.sendWithMarkup(chatID, askNtfName, cancelInlineKeyboard())
}

func (r *Router) handleShowNotifications(ctx context.Context, chatID int64) {
	ntfs, err := r.repo.ListNotifications(ctx, chatID)
	if err != nil {
		r.log.Error("list notifications failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, msgStorageTrouble)
		return
	}
	if len(ntfs) == 0 {
		r.sendText(chatID, msgNoNtfs)
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, n := range ntfs {
		id := strconv.FormatInt(n.ID, 10)
		label := fmt.Sprintf("%s | %s %s", n.Name, n.FireDate, n.FireTime)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "ntf:view:"+id),
			tgbotapi.NewInlineKeyboardButtonData("✏️", "ntf:edit:"+id),
			tgbotapi.NewInlineKeyboardButtonData("✖️", "ntf:cancel:"+id),
		))
	}
	r.sendWithMarkup(chatID, msgYourNtfs, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (r *Router) handleNtfCallback(ctx context.Context, chatID int64, data, cbID string) {
	action, id, ok := splitCallback(data)
	if !ok {
		_ = r.answerCallback(cbID, "")
		return
	}

	ntf, err := r.repo.GetNotification(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		_ = r.answerCallback(cbID, "")
		r.sendText(chatID, msgNtfNotFound)
		return
	}
	if err != nil {
		r.log.Error("get notification failed", zap.Error(err), zap.Int64("id", id))
		_ = r.answerCallback(cbID, msgStorageTrouble)
		return
	}
	_ = r.answerCallback(cbID, "")

	switch action {
	case "view":
		r.sendText(chatID, fmt.Sprintf("%s\n%s at %s", ntf.Name, ntf.FireDate, ntf.FireTime))

	case "edit":
		r.setPending(chatID, &pending{step: stepNtfEditDate, ntfID: id})
		r.sendWithMarkup(chatID, askNtfDate, ntfDateKeyboard())

	case "cancel":
		// The user-cancellation path of the active->inactive transition;
		// the sweeper removes the row later.
		if err := r.repo.DeactivateNotification(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			r.log.Error("cancel notification failed", zap.Error(err), zap.Int64("id", id))
			r.sendText(chatID, msgStorageTrouble)
			return
		}
		r.sendText(chatID, msgNtfCancelled)
	}
}

func (r *Router) createNotification(ctx context.Context, chatID int64, name, date, clock string) {
	n := domain.Notification{Owner: chatID, Name: name, FireDate: date, FireTime: clock}
	if err := r.repo.CreateNotification(ctx, &n); err != nil {
		r.log.Error("create notification failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, msgStorageTrouble)
		return
	}
	r.sendWithMarkup(chatID,
		fmt.Sprintf("Notification %q set for %s at %s", name, date, clock),
		mainMenuKeyboard())
}

// --- Free-form dispatcher for the multi-step flows ---

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	p := r.getPending(chatID)
	if p == nil {
		// No pending flow: ignore free-form input.
		return
	}
	now := time.Now().In(r.loc)

	switch p.step {
	case stepTaskName:
		s, err := r.settings.Get(ctx, chatID)
		if err != nil {
			r.log.Error("read settings failed", zap.Error(err), zap.Int64("chatID", chatID))
			r.sendText(chatID, msgStorageTrouble)
			return
		}
		if s.DescriptionOptional {
			r.clearPending(chatID)
			r.createTask(ctx, chatID, text, "")
			return
		}
		p.taskName = text
		p.step = stepTaskDesc
		r.sendWithMarkup(chatID, askTaskDescription, cancelInlineKeyboard())

	case stepTaskDesc:
		r.clearPending(chatID)
		r.createTask(ctx, chatID, p.taskName, text)

	case stepTaskRename:
		r.clearPending(chatID)
		err := r.repo.RenameTask(ctx, p.taskID, text)
		if errors.Is(err, store.ErrNotFound) {
			r.sendText(chatID, msgTaskNotFound)
			return
		}
		if err != nil {
			r.log.Error("rename task failed", zap.Error(err), zap.Int64("id", p.taskID))
			r.sendText(chatID, msgStorageTrouble)
			return
		}
		r.sendWithMarkup(chatID, fmt.Sprintf("Task renamed to %q", text), mainMenuKeyboard())

	case stepRemindTime:
		clock, err := domain.ParseClock(text)
		if err != nil {
			r.sendText(chatID, msgInvalidTime)
			return
		}
		r.clearPending(chatID)
		if err := r.settings.SetReminderTime(ctx, chatID, clock); err != nil {
			r.log.Error("set reminder time failed", zap.Error(err), zap.Int64("chatID", chatID))
			r.sendText(chatID, msgStorageTrouble)
			return
		}
		r.sendWithMarkup(chatID, "Daily reminder set for "+clock, mainMenuKeyboard())

	case stepNtfName:
		p.ntfName = text
		p.step = stepNtfTime
		r.sendWithMarkup(chatID, askNtfTime, ntfTimeKeyboard())

	case stepNtfTime:
		if strings.EqualFold(text, presetInOneHour) {
			r.clearPending(chatID)
			date, clock := domain.InOneHour(now)
			r.createNotification(ctx, chatID, p.ntfName, date, clock)
			return
		}
		clock, err := domain.ParseClock(text)
		if err != nil {
			r.sendText(chatID, msgInvalidTime)
			return
		}
		p.ntfTime = clock
		p.step = stepNtfDate
		r.sendWithMarkup(chatID, askNtfDate, ntfDateKeyboard())

	case stepNtfDate:
		date, ok := r.resolveDate(chatID, text, p.ntfTime, now)
		if !ok {
			return
		}
		r.clearPending(chatID)
		r.createNotification(ctx, chatID, p.ntfName, date, p.ntfTime)

	case stepNtfEditDate:
		// The new time is not known yet; use end-of-day as the roll anchor so
		// a year-less "today" does not jump to next year.
		date, ok := r.resolveDate(chatID, text, "23:59", now)
		if !ok {
			return
		}
		p.ntfDate = date
		p.step = stepNtfEditTime
		r.sendWithMarkup(chatID, askNtfTime, editTimeKeyboard())

	case stepNtfEditTime:
		clock, err := domain.ParseClock(text)
		if err != nil {
			r.sendText(chatID, msgInvalidTime)
			return
		}
		r.clearPending(chatID)
		err = r.repo.RescheduleNotification(ctx, p.ntfID, p.ntfDate, clock)
		if errors.Is(err, store.ErrNotFound) {
			r.sendText(chatID, msgNtfNotFound)
			return
		}
		if err != nil {
			r.log.Error("reschedule failed", zap.Error(err), zap.Int64("id", p.ntfID))
			r.sendText(chatID, msgStorageTrouble)
			return
		}
		r.sendWithMarkup(chatID,
			fmt.Sprintf("Notification moved to %s at %s", p.ntfDate, clock),
			mainMenuKeyboard())
	}
}

// resolveDate maps preset labels or a typed date to the wire format.
func (r *Router) resolveDate(chatID int64, text, clock string, now time.Time) (string, bool) {
	switch {
	case strings.EqualFold(text, presetTomorrow):
		return domain.DateAfter(now, 1), true
	case strings.EqualFold(text, presetInThreeDay):
		return domain.DateAfter(now, 3), true
	case strings.EqualFold(text, presetNextWeek):
		return domain.DateAfter(now, 7), true
	}
	date, err := domain.ParseFireDate(text, clock, now)
	if err != nil {
		r.sendText(chatID, msgInvalidDate)
		return "", false
	}
	return date, true
}
