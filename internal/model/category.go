package model

// CategoryCount is a per-user running counter of expenses logged
// against a named category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
