package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// UI texts and button labels.
const (
	menuTitle = "📌 What are we doing?"

	btnAddTask       = "Add task ➕"
	btnShowTasks     = "Show tasks 📋"
	btnAddNtf        = "Add notification ⏰"
	btnShowNtfs      = "Show notifications 📅"
	btnSettings      = "Settings ⚙️"
	btnCancel        = "Cancel 🚫"
	presetInOneHour  = "In 1 hour"
	presetTomorrow   = "Tomorrow"
	presetInThreeDay = "In 3 days"
	presetNextWeek   = "Next week"

	askTaskName        = "Send the task name:"
	askTaskDescription = "Send the task description:"
	askTaskNewName     = "Send the new task name:"
	askNtfName         = "Send the notification name:"
	askNtfTime         = "When should I remind you? Send HH:MM or pick a preset:"
	askNtfDate         = "On which date? Send DD.MM (or DD.MM.YYYY) or pick a preset:"
	askReminderTime    = "Send the daily reminder time as HH:MM:"

	msgCancelled       = "Cancelled."
	msgTaskAdded       = "Task added ✅"
	msgNoTasks         = "You have no open tasks."
	msgTaskNotFound    = "Task not found."
	msgNoNtfs          = "You have no active notifications."
	msgNtfNotFound     = "Notification not found."
	msgNtfCancelled    = "Notification cancelled."
	msgInvalidTime     = "Invalid time, expected HH:MM (e.g. 09:30)."
	msgInvalidDate     = "Invalid date, expected DD.MM or DD.MM.YYYY."
	msgStorageTrouble  = "Something went wrong, please try again later."
	msgYourTasks       = "Your tasks:"
	msgYourNtfs        = "Your notifications:"
	msgSettingsTitle   = "Settings:"
	msgNoDescription   = "(no description)"
)

// mainMenuKeyboard is the persistent reply keyboard with the top-level actions.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddTask),
			tgbotapi.NewKeyboardButton(btnShowTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddNtf),
			tgbotapi.NewKeyboardButton(btnShowNtfs),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSettings),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// cancelInlineKeyboard offers a single abort button for conversational flows.
func cancelInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnCancel, "cancel_action"),
		),
	)
}

// settingsInlineKeyboard reflects the current toggle states, so the button
// labels always name the action that would happen, not the current value.
func settingsInlineKeyboard(s *domain.UserSettings) tgbotapi.InlineKeyboardMarkup {
	descLabel := "Turn off description prompt"
	if !s.DescriptionOptional {
		descLabel = "Turn on quick task mode"
	}
	reminderLabel := "Enable daily reminder"
	if s.ReminderEnabled {
		reminderLabel = "Disable daily reminder"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(descLabel, "toggle_desc"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(reminderLabel, "toggle_reminder"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Change reminder time 🕘", "set_reminder_time"),
		),
	)
}

func ntfTimeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(presetInOneHour),
			tgbotapi.NewKeyboardButton("10:00"),
			tgbotapi.NewKeyboardButton("14:00"),
			tgbotapi.NewKeyboardButton("18:00"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func ntfDateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(presetTomorrow),
			tgbotapi.NewKeyboardButton(presetInThreeDay),
			tgbotapi.NewKeyboardButton(presetNextWeek),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// editTimeKeyboard is the preset list used when editing an existing
// notification; "In 1 hour" is not offered there because the date is chosen
// separately.
func editTimeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("10:00"),
			tgbotapi.NewKeyboardButton("14:00"),
			tgbotapi.NewKeyboardButton("18:00"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}
