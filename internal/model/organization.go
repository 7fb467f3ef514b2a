package model

// Organization groups users for shared expense tracking. Present in the
// document schema; no conversation flow writes it yet.
type Organization struct {
	Name string `json:"name"`
}
