package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/visionhire/backend/internal/domain/interview"
	"github.com/visionhire/backend/internal/domain/topic"
	"github.com/visionhire/backend/internal/store"
)

func stores(t *testing.T) map[string]store.Store {
	t.Helper()

	sqlite, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]store.Store{
		"sqlite": sqlite,
		"memory": store.NewMemory(),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			iv := interview.New("user-1", topic.Resolve("os"), "What is a process?")
			if err := iv.CloseQuestion("an answer", 4, "good", []string{"process", "scheduler"}); err != nil {
				t.Fatal(err)
			}
			if err := iv.AppendQuestion("What is a thread?", true); err != nil {
				t.Fatal(err)
			}

			if err := s.SaveInterview(ctx, iv); err != nil {
				t.Fatalf("save: %v", err)
			}

			loaded, err := s.GetInterview(ctx, iv.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}

			if loaded.OwnerID != "user-1" {
				t.Errorf("owner = %q", loaded.OwnerID)
			}
			if loaded.Topic.Key != "operating systems" {
				t.Errorf("topic = %q", loaded.Topic.Key)
			}
			if loaded.Score != 4 || loaded.QuestionsAsked != 1 || loaded.FollowUpStreak != 1 {
				t.Errorf("counters: %+v", loaded)
			}
			if len(loaded.History) != 2 {
				t.Fatalf("history length = %d", len(loaded.History))
			}
			first := loaded.History[0]
			if first.Answer != "an answer" || first.Score != 4 || first.ScoreReason != "good" {
				t.Errorf("first record: %+v", first)
			}
			if len(first.Keywords) != 2 || first.Keywords[1] != "scheduler" {
				t.Errorf("keywords: %v", first.Keywords)
			}
			if q, open := loaded.OpenQuestion(); !open || q != "What is a thread?" {
				t.Errorf("open question = %q (open=%v)", q, open)
			}
			if loaded.CreatedAt.IsZero() {
				t.Error("created_at not persisted")
			}
		})
	}
}

func TestStore_SaveIsLastWriteWins(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			iv := interview.New("user-1", topic.Default(), "Q1?")
			if err := s.SaveInterview(ctx, iv); err != nil {
				t.Fatal(err)
			}

			if err := iv.CloseQuestion("answer", 5, "", nil); err != nil {
				t.Fatal(err)
			}
			iv.Finish()
			if err := s.SaveInterview(ctx, iv); err != nil {
				t.Fatal(err)
			}

			loaded, err := s.GetInterview(ctx, iv.ID)
			if err != nil {
				t.Fatal(err)
			}
			if !loaded.Finished || loaded.Score != 5 || loaded.QuestionsAsked != 1 {
				t.Errorf("second save not applied: %+v", loaded)
			}
			if len(loaded.History) != 1 {
				t.Errorf("history length = %d", len(loaded.History))
			}
		})
	}
}

func TestStore_GetUnknown(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetInterview(context.Background(), "missing")
			if !errors.Is(err, store.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	iv := interview.New("user-1", topic.Default(), "Q1?")
	if err := s.SaveInterview(ctx, iv); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.GetInterview(ctx, iv.ID)
	if err != nil {
		t.Fatal(err)
	}
	loaded.History[0].Question = "mutated"

	again, err := s.GetInterview(ctx, iv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.History[0].Question != "Q1?" {
		t.Error("store handed out shared state")
	}
}
