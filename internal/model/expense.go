package model

import "time"

// Expense is a single spent amount recorded at a point in time. The
// category it was logged against lives in the user's category counters,
// not on the expense itself.
type Expense struct {
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}
