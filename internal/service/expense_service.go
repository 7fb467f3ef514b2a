package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"expense-bot/internal/model"
	"expense-bot/internal/store"
)

var (
	// ErrInvalidAmount means the amount text did not parse as a
	// non-negative number.
	ErrInvalidAmount = errors.New("amount must be a non-negative number")
	// ErrInvalidCategory means the category name is empty.
	ErrInvalidCategory = errors.New("category name must not be empty")
)

// ExpenseService validates expense input before it reaches the store.
type ExpenseService struct {
	store *store.Store
}

func NewExpenseService(store *store.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// Record parses and validates the amount text and category, then writes
// the expense. The store is not touched when validation fails.
func (s *ExpenseService) Record(ctx context.Context, chatID int64, amountText, category string) (model.Expense, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(amountText), 64)
	if err != nil || !model.ValidAmount(amount) {
		return model.Expense{}, ErrInvalidAmount
	}
	category = strings.TrimSpace(category)
	if !model.ValidCategory(category) {
		return model.Expense{}, ErrInvalidCategory
	}
	return s.store.RecordExpense(ctx, chatID, amount, category)
}
