package model

// Event is a dated occasion expenses could be attached to. Present in
// the document schema; no conversation flow writes it yet.
type Event struct {
	Name string `json:"name"`
	Date string `json:"date"`
}
