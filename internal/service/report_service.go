package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"expense-bot/internal/model"
	"expense-bot/internal/store"
)

const recentExpenseLimit = 5

// ReportService builds human-readable expense summaries.
type ReportService struct {
	store *store.Store
}

func NewReportService(store *store.Store) *ReportService {
	return &ReportService{store: store}
}

// Summary renders the user's spending as Telegram HTML.
func (s *ReportService) Summary(ctx context.Context, chatID int64) (string, error) {
	user, err := s.store.User(ctx, chatID)
	if err != nil {
		return "", err
	}
	return renderSummary(user), nil
}

// SummaryFor renders a summary for an already-loaded user record. Used
// by the periodic report job, which iterates users itself.
func (s *ReportService) SummaryFor(user model.User) string {
	return renderSummary(user)
}

func renderSummary(user model.User) string {
	if len(user.Expenses) == 0 {
		return "💸 You have no recorded expenses yet. Pick \"Add Expense\" from the menu to log one."
	}

	var total float64
	for _, expense := range user.Expenses {
		total += expense.Amount
	}

	var builder strings.Builder
	builder.WriteString("💸 <b>Your expenses</b>\n")
	builder.WriteString(fmt.Sprintf("• <b>Recorded:</b> %d\n", len(user.Expenses)))
	builder.WriteString(fmt.Sprintf("• <b>Total:</b> %.2f\n", total))

	counters := countersInUse(user.Categories)
	if len(counters) > 0 {
		builder.WriteString("\n📂 <b>Categories</b>\n")
		for _, counter := range counters {
			builder.WriteString(fmt.Sprintf("• %s — %d\n", html.EscapeString(counter.Category), counter.Count))
		}
	}

	builder.WriteString("\n🕑 <b>Recent</b>\n")
	start := len(user.Expenses) - recentExpenseLimit
	if start < 0 {
		start = 0
	}
	for i := len(user.Expenses) - 1; i >= start; i-- {
		expense := user.Expenses[i]
		builder.WriteString(fmt.Sprintf("• %.2f on %s\n", expense.Amount, expense.Date.Format("2006-01-02")))
	}

	return strings.TrimSpace(builder.String())
}

// countersInUse drops zero counters and orders the rest by count, then
// by name for equal counts.
func countersInUse(counters []model.CategoryCount) []model.CategoryCount {
	used := make([]model.CategoryCount, 0, len(counters))
	for _, counter := range counters {
		if counter.Count > 0 {
			used = append(used, counter)
		}
	}
	sort.SliceStable(used, func(i, j int) bool {
		if used[i].Count != used[j].Count {
			return used[i].Count > used[j].Count
		}
		return used[i].Category < used[j].Category
	})
	return used
}
