package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/shared"
	"github.com/playtrackhq/playtrack/src/infra/memory"
)

func newSession(t *testing.T, id, userID, gameID string, startedAt time.Time) *session.Session {
	t.Helper()
	s, err := session.NewSession(shared.SessionID(id), shared.UserID(userID), shared.GameID(gameID), startedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestInsertEnforcesOneActivePerUser(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.Insert(ctx, newSession(t, "s1", "u1", "g1", start)); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := repo.Insert(ctx, newSession(t, "s2", "u1", "g2", start))
	if !errors.Is(err, session.ErrActiveSession) {
		t.Fatalf("want ErrActiveSession, got %v", err)
	}

	// A different user is unaffected.
	if err := repo.Insert(ctx, newSession(t, "s3", "u2", "g1", start)); err != nil {
		t.Fatalf("insert for other user failed: %v", err)
	}
}

func TestInsertAllowsCompletedAlongsideActive(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	done := newSession(t, "s1", "u1", "g1", start)
	if err := done.Complete(start.Add(time.Minute), 0, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Insert(ctx, done); err != nil {
		t.Fatalf("completed insert failed: %v", err)
	}
	if err := repo.Insert(ctx, newSession(t, "s2", "u1", "g1", start.Add(time.Hour))); err != nil {
		t.Fatalf("active insert after completed failed: %v", err)
	}
}

func TestGetActiveByUser(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := repo.GetActiveByUser(ctx, "u1"); !errors.Is(err, session.ErrNoActiveSession) {
		t.Fatalf("want ErrNoActiveSession, got %v", err)
	}

	if err := repo.Insert(ctx, newSession(t, "s1", "u1", "g1", start)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	got, err := repo.GetActiveByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "s1" {
		t.Errorf("got session %q, want s1", got.ID)
	}
}

func TestUpdateDetachesFromCallerState(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := newSession(t, "s1", "u1", "g1", start)
	if err := repo.Insert(ctx, s); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	// Mutating the caller's copy must not leak into the store until Update.
	if err := s.Complete(start.Add(time.Minute), 0, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.Active {
		t.Fatal("store should still hold the active record before Update")
	}

	if err := repo.Update(ctx, s); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	stored, err = repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Active || stored.DurationSeconds != 60 {
		t.Error("update did not persist completion")
	}
}

func TestListSince(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := newSession(t, "s1", "u1", "g1", base.AddDate(0, 0, -10))
	if err := old.Complete(base.AddDate(0, 0, -10).Add(time.Minute), 0, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Insert(ctx, old); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := repo.Insert(ctx, newSession(t, "s2", "u1", "g1", base)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	recent, err := repo.ListSince(ctx, base.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "s2" {
		t.Errorf("recent = %v, want only s2", recent)
	}
}
