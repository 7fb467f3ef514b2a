package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"expense-bot/internal/service"
	"expense-bot/internal/store"
)

// Bot aggregates the Telegram API with the store and services.
type Bot struct {
	api           *tgbotapi.BotAPI
	store         *store.Store
	expenseSvc    *service.ExpenseService
	reportSvc     *service.ReportService
	conversations map[int64]stage
	mu            sync.Mutex
}

func New(token string, st *store.Store, expenseSvc *service.ExpenseService, reportSvc *service.ReportService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		store:         st,
		expenseSvc:    expenseSvc,
		reportSvc:     reportSvc,
		conversations: make(map[int64]stage),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s", msg.Chat.ID, msg.Command())
		return b.handleCommand(ctx, msg)
	}

	if isCancelInput(msg.Text) {
		b.clearConversation(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, replyCancelled)
	}

	if st := b.getConversation(msg.Chat.ID); st != stageNone {
		log.Printf("[info] conversation stage %d from %d", st, msg.Chat.ID)
		return b.handleConversation(ctx, msg, st)
	}

	return b.handleMenu(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "expenses":
		return b.handleExpenses(ctx, msg)
	case "cancel":
		b.clearConversation(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, replyCancelled)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	created, err := b.store.AddUserIfAbsent(ctx, msg.Chat.ID, msg.From.UserName)
	if err != nil {
		log.Printf("register user %d: %v", msg.Chat.ID, err)
		return b.sendText(msg.Chat.ID, replyStoreFailure)
	}
	if created {
		log.Printf("[info] user %d registered", msg.Chat.ID)
	}
	b.clearConversation(msg.Chat.ID)
	return b.sendWithReplyMarkup(msg.Chat.ID, replyWelcome, mainMenuKeyboard())
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Expense Tracker</b>\n" +
		"• /start — show the menu\n" +
		"• /expenses — your expense summary\n" +
		"• /cancel — abort the current input\n\n" +
		"Use the menu buttons to add expenses, events and organizations."
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleExpenses(ctx context.Context, msg *tgbotapi.Message) error {
	summary, err := b.reportSvc.Summary(ctx, msg.Chat.ID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return b.sendText(msg.Chat.ID, replyNotRegistered)
		}
		log.Printf("summary for %d: %v", msg.Chat.ID, err)
		return b.sendText(msg.Chat.ID, replyStoreFailure)
	}
	return b.sendText(msg.Chat.ID, summary)
}

func (b *Bot) handleMenu(ctx context.Context, msg *tgbotapi.Message) error {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelAddExpense:
		b.setConversation(msg.Chat.ID, stageExpense)
		return b.sendWithReplyMarkup(msg.Chat.ID, replyExpensePrompt, cancelKeyboard())
	case menuLabelCreateEvent:
		b.setConversation(msg.Chat.ID, stageEvent)
		return b.sendWithReplyMarkup(msg.Chat.ID, replyEventPrompt, cancelKeyboard())
	case menuLabelCreateOrganization:
		b.setConversation(msg.Chat.ID, stageOrganization)
		return b.sendWithReplyMarkup(msg.Chat.ID, replyOrganizationPrompt, cancelKeyboard())
	case menuLabelSelectOrganization:
		return b.sendText(msg.Chat.ID, replySelectOrganization)
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, replyMenuFallback, mainMenuKeyboard())
	}
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message, current stage) error {
	tr := advance(current, msg.Text)

	if tr.action.kind == actionRecordExpense {
		return b.recordExpense(ctx, msg.Chat.ID, tr.action)
	}

	b.setConversation(msg.Chat.ID, tr.next)
	if tr.next != stageNone {
		return b.sendWithReplyMarkup(msg.Chat.ID, tr.reply, cancelKeyboard())
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, tr.reply, mainMenuKeyboard())
}

func (b *Bot) recordExpense(ctx context.Context, chatID int64, act action) error {
	expense, err := b.expenseSvc.Record(ctx, chatID, act.amount, act.category)
	switch {
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidCategory):
		// Keep the prompt armed so the user can retry in place.
		b.setConversation(chatID, stageExpense)
		return b.sendWithReplyMarkup(chatID, replyExpenseFormat, cancelKeyboard())
	case errors.Is(err, store.ErrUserNotFound):
		b.clearConversation(chatID)
		return b.sendText(chatID, replyNotRegistered)
	case err != nil:
		log.Printf("record expense for %d: %v", chatID, err)
		b.clearConversation(chatID)
		return b.sendText(chatID, replyStoreFailure)
	}

	log.Printf("[info] expense recorded chat=%d amount=%.2f category=%s", chatID, expense.Amount, act.category)
	b.clearConversation(chatID)
	return b.sendWithReplyMarkup(chatID, replyExpenseRecorded, mainMenuKeyboard())
}

// SendReports sends an expense summary to every registered user that
// has expenses on record.
func (b *Bot) SendReports(ctx context.Context) error {
	users, err := b.store.Users(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if len(user.Expenses) == 0 {
			continue
		}
		if err := b.sendText(user.ChatID, b.reportSvc.SummaryFor(user)); err != nil {
			log.Printf("send summary to %d: %v", user.ChatID, err)
		}
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(chatID int64, st stage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if st == stageNone {
		delete(b.conversations, chatID)
		return
	}
	b.conversations[chatID] = st
}

func (b *Bot) getConversation(chatID int64) stage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) clearConversation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, chatID)
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel)
}
