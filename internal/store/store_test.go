package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"expense-bot/internal/model"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expense_data.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, path
}

func seedDocument(t *testing.T, path string, doc model.Document) {
	t.Helper()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
}

func TestOpenCreatesEmptyDocument(t *testing.T) {
	s, path := tempStore(t)

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Users) != 0 || len(doc.Categories) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	for _, want := range []string{`"users": []`, `"categories": []`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("file %s does not contain %q", data, want)
		}
	}
}

func TestOpenDoesNotClobberExistingFile(t *testing.T) {
	s, path := tempStore(t)
	ctx := context.Background()

	if _, err := s.AddUserIfAbsent(ctx, 42, "alice"); err != nil {
		t.Fatalf("AddUserIfAbsent: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	doc, err := s2.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Users) != 1 || doc.Users[0].ChatID != 42 {
		t.Fatalf("existing user lost on reopen: %+v", doc.Users)
	}
}

func TestAddUserIfAbsent(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	created, err := s.AddUserIfAbsent(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("AddUserIfAbsent: %v", err)
	}
	if !created {
		t.Fatal("expected user to be created")
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Users) != 1 {
		t.Fatalf("expected one user, got %d", len(doc.Users))
	}
	user := doc.Users[0]
	if user.ChatID != 42 || user.Username != "alice" {
		t.Errorf("unexpected user %+v", user)
	}
	if len(user.Expenses) != 0 || len(user.Categories) != 0 || len(user.Organizations) != 0 || len(user.Events) != 0 {
		t.Errorf("expected empty collections, got %+v", user)
	}
}

func TestAddUserIfAbsentIsIdempotent(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	if _, err := s.AddUserIfAbsent(ctx, 42, "alice"); err != nil {
		t.Fatalf("first AddUserIfAbsent: %v", err)
	}
	created, err := s.AddUserIfAbsent(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("second AddUserIfAbsent: %v", err)
	}
	if created {
		t.Error("second call reported a new user")
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Users) != 1 {
		t.Fatalf("expected exactly one user record, got %d", len(doc.Users))
	}
}

func TestRecordExpenseIncrementsExistingCounter(t *testing.T) {
	s, path := tempStore(t)
	ctx := context.Background()

	user := model.NewUser(42, "alice")
	user.Categories = []model.CategoryCount{{Category: "Food", Count: 0}}
	seedDocument(t, path, model.Document{Users: []model.User{user}, Categories: []string{}})

	fixed := time.Date(2023, 12, 25, 10, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	expense, err := s.RecordExpense(ctx, 42, 100, "Food")
	if err != nil {
		t.Fatalf("RecordExpense: %v", err)
	}
	if expense.Amount != 100 || !expense.Date.Equal(fixed) {
		t.Errorf("unexpected expense %+v", expense)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := doc.Users[0]
	if len(got.Expenses) != 1 || got.Expenses[0].Amount != 100 {
		t.Errorf("unexpected expenses %+v", got.Expenses)
	}
	if len(got.Categories) != 1 || got.Categories[0].Count != 1 {
		t.Errorf("Food counter not incremented: %+v", got.Categories)
	}
}

func TestRecordExpenseDoesNotCreateCounter(t *testing.T) {
	s, path := tempStore(t)
	ctx := context.Background()

	seedDocument(t, path, model.Document{Users: []model.User{model.NewUser(42, "alice")}, Categories: []string{}})

	if _, err := s.RecordExpense(ctx, 42, 50, "Transport"); err != nil {
		t.Fatalf("RecordExpense: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := doc.Users[0]
	if len(got.Expenses) != 1 || got.Expenses[0].Amount != 50 {
		t.Errorf("expense not appended: %+v", got.Expenses)
	}
	if len(got.Categories) != 0 {
		t.Errorf("counter created for unknown category: %+v", got.Categories)
	}
}

func TestRecordExpenseUnknownUserLeavesFileUntouched(t *testing.T) {
	s, path := tempStore(t)
	ctx := context.Background()

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	_, err = s.RecordExpense(ctx, 99, 10, "Food")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("document changed despite failed mutation")
	}
}

func TestRecordExpenseConcurrent(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	if _, err := s.AddUserIfAbsent(ctx, 42, "alice"); err != nil {
		t.Fatalf("AddUserIfAbsent: %v", err)
	}

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.RecordExpense(ctx, 42, 1, "Food"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("RecordExpense: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(doc.Users[0].Expenses); got != writers {
		t.Errorf("expected %d expenses, got %d (lost update)", writers, got)
	}
}

func TestCorruptDocument(t *testing.T) {
	s, path := tempStore(t)
	ctx := context.Background()

	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	if _, err := s.AddUserIfAbsent(ctx, 42, "alice"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("AddUserIfAbsent: expected ErrCorrupt, got %v", err)
	}
	if _, err := s.RecordExpense(ctx, 42, 10, "Food"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("RecordExpense: expected ErrCorrupt, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, path := tempStore(t)

	user := model.NewUser(42, "alice")
	user.Expenses = []model.Expense{{Amount: 12.5, Date: time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)}}
	user.Categories = []model.CategoryCount{{Category: "Food", Count: 1}}
	seedDocument(t, path, model.Document{Users: []model.User{user}, Categories: []string{"Food"}})

	doc, err := s.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.save(doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := s.load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	first, _ := json.Marshal(doc)
	second, _ := json.Marshal(again)
	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed content:\n%s\n%s", first, second)
	}
}

func TestSnapshot(t *testing.T) {
	s, path := tempStore(t)
	ctx := context.Background()

	if _, err := s.AddUserIfAbsent(ctx, 42, "alice"); err != nil {
		t.Fatalf("AddUserIfAbsent: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "backups")
	target, err := s.Snapshot(dir)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	copied, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !bytes.Equal(original, copied) {
		t.Error("snapshot differs from document")
	}
}

func TestUserNotFound(t *testing.T) {
	s, _ := tempStore(t)

	if _, err := s.User(context.Background(), 77); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
