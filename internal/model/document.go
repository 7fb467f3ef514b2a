package model

// Document is the entire persisted application state: every known user
// plus the global category list.
type Document struct {
	Users      []User   `json:"users"`
	Categories []string `json:"categories"`
}

// NewDocument returns an empty document that marshals with empty arrays
// rather than nulls.
func NewDocument() Document {
	return Document{
		Users:      []User{},
		Categories: []string{},
	}
}

// FindUser returns a pointer to the user with the given chat ID, or nil
// if no such user exists. The pointer aliases the document's slice, so
// mutations through it stick.
func (d *Document) FindUser(chatID int64) *User {
	for i := range d.Users {
		if d.Users[i].ChatID == chatID {
			return &d.Users[i]
		}
	}
	return nil
}
