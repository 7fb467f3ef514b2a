package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"expense-bot/internal/model"
)

var (
	// ErrUserNotFound is returned by mutations targeting a chat that was
	// never registered via AddUserIfAbsent.
	ErrUserNotFound = errors.New("user not found")
	// ErrCorrupt is returned when the backing file does not hold a valid
	// document.
	ErrCorrupt = errors.New("document file is corrupt")
)

// Store owns the JSON document on disk. Every mutation loads the whole
// document, changes it in memory and writes it back atomically. The
// writer lock keeps at most one mutation in flight; the rest queue up
// behind it, so overlapping mutations cannot lose each other's writes.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// Open prepares a store backed by the file at path, creating the file
// with an empty document if it does not exist yet. An existing file is
// never touched.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureInitialized() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat document: %w", err)
	}
	log.Printf("[info] document %s does not exist, creating a new one", s.path)
	return s.save(model.NewDocument())
}

// AddUserIfAbsent registers the chat in the document if it is not there
// yet. It reports whether a new user record was created.
func (s *Store) AddUserIfAbsent(ctx context.Context, chatID int64, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	doc, err := s.load()
	if err != nil {
		return false, err
	}
	if doc.FindUser(chatID) != nil {
		return false, nil
	}
	doc.Users = append(doc.Users, model.NewUser(chatID, username))
	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// RecordExpense appends an expense dated now to the user's list. A
// category counter is incremented only if the user already has one for
// that category; unknown categories never get a counter.
func (s *Store) RecordExpense(ctx context.Context, chatID int64, amount float64, category string) (model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.Expense{}, err
	}
	doc, err := s.load()
	if err != nil {
		return model.Expense{}, err
	}
	user := doc.FindUser(chatID)
	if user == nil {
		return model.Expense{}, fmt.Errorf("record expense for chat %d: %w", chatID, ErrUserNotFound)
	}

	expense := model.Expense{Amount: amount, Date: s.now().UTC()}
	user.Expenses = append(user.Expenses, expense)
	for i := range user.Categories {
		if user.Categories[i].Category == category {
			user.Categories[i].Count++
			break
		}
	}

	if err := s.save(doc); err != nil {
		return model.Expense{}, err
	}
	return expense, nil
}

// User returns a copy of the user record for the chat.
func (s *Store) User(ctx context.Context, chatID int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	doc, err := s.load()
	if err != nil {
		return model.User{}, err
	}
	user := doc.FindUser(chatID)
	if user == nil {
		return model.User{}, fmt.Errorf("user for chat %d: %w", chatID, ErrUserNotFound)
	}
	return *user, nil
}

// Users returns a copy of every user record in the document.
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

// Load returns the current document. It exists as a read seam for
// backups and tests; mutations go through the dedicated operations.
func (s *Store) Load() (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Snapshot copies the current document into dir under a timestamped
// name and returns the path of the copy.
func (s *Store) Snapshot(dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %q: %w", dir, err)
	}
	name := fmt.Sprintf("%s-%s.json", strippedBase(s.path), s.now().UTC().Format("20060102-150405"))
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return target, nil
}

func (s *Store) load() (model.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Document{}, fmt.Errorf("read document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return doc, nil
}

// save writes the document to a temp file in the same directory and
// renames it into place, so the file on disk is always valid JSON.
func (s *Store) save(doc model.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".expense-data-*.json")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func strippedBase(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
