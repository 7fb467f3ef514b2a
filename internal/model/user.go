package model

// User stores Telegram user metadata together with everything the user
// tracks through the bot.
type User struct {
	ChatID        int64           `json:"chatId"`
	Username      string          `json:"username"`
	Expenses      []Expense       `json:"expenses"`
	Organizations []Organization  `json:"organizations"`
	Events        []Event         `json:"events"`
	Categories    []CategoryCount `json:"categories"`
}

// NewUser returns a user with empty, non-nil collections so they
// marshal as [] rather than null.
func NewUser(chatID int64, username string) User {
	return User{
		ChatID:        chatID,
		Username:      username,
		Expenses:      []Expense{},
		Organizations: []Organization{},
		Events:        []Event{},
		Categories:    []CategoryCount{},
	}
}
