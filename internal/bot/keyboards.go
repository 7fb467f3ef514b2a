package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	menuLabelAddExpense         = "Add Expense"
	menuLabelCreateEvent        = "Create Event"
	menuLabelSelectOrganization = "Select Organization"
	menuLabelCreateOrganization = "Create Organization"
	btnCancel                   = "Cancel"
)

// mainMenuKeyboard is the original two-column menu.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelAddExpense),
			tgbotapi.NewKeyboardButton(menuLabelCreateEvent),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelSelectOrganization),
			tgbotapi.NewKeyboardButton(menuLabelCreateOrganization),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}
