package sessions_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sessionsvc "github.com/playtrackhq/playtrack/src/app/sessions"
	"github.com/playtrackhq/playtrack/src/domain/game"
	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/shared"
	"github.com/playtrackhq/playtrack/src/domain/user"
	"github.com/playtrackhq/playtrack/src/infra/memory"
)

type fixture struct {
	svc      *sessionsvc.Service
	sessions *memory.SessionRepository
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	users := memory.NewUserRepository()
	games := memory.NewGameRepository()
	sessions := memory.NewSessionRepository()

	u, err := user.NewUser("user-1", "alice", "Alice", "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := users.Insert(ctx, u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, err := game.NewGame("game-1", "Chess", "board", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := games.Insert(ctx, g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := sessionsvc.NewService(sessions, users, games)
	svc.Clock = func() time.Time { return now }
	next := 0
	svc.NewID = func() shared.SessionID {
		next++
		return shared.SessionID(fmt.Sprintf("sess-%d", next))
	}
	return &fixture{svc: svc, sessions: sessions, now: now}
}

func TestStartSession(t *testing.T) {
	tests := []struct {
		name    string
		cmd     sessionsvc.StartCommand
		wantErr error
	}{
		{
			name: "starts when no active session",
			cmd:  sessionsvc.StartCommand{UserID: "user-1", GameID: "game-1"},
		},
		{
			name:    "blank user id",
			cmd:     sessionsvc.StartCommand{UserID: " ", GameID: "game-1"},
			wantErr: shared.ErrValidation,
		},
		{
			name:    "blank game id",
			cmd:     sessionsvc.StartCommand{UserID: "user-1", GameID: ""},
			wantErr: shared.ErrValidation,
		},
		{
			name:    "unknown user",
			cmd:     sessionsvc.StartCommand{UserID: "user-missing", GameID: "game-1"},
			wantErr: user.ErrUserNotFound,
		},
		{
			name:    "unknown game",
			cmd:     sessionsvc.StartCommand{UserID: "user-1", GameID: "game-missing"},
			wantErr: game.ErrGameNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sess, err := f.svc.StartSession(context.Background(), tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !sess.Active {
				t.Error("started session should be active")
			}
			if sess.EndedAt != nil {
				t.Error("started session should have no end time")
			}
			if !sess.StartedAt.Equal(f.now) {
				t.Errorf("start time = %v, want %v", sess.StartedAt, f.now)
			}
		})
	}
}

func TestStartSessionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StartSession(ctx, sessionsvc.StartCommand{UserID: "user-1", GameID: "game-1"}); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	_, err := f.svc.StartSession(ctx, sessionsvc.StartCommand{UserID: "user-1", GameID: "game-1"})
	if !errors.Is(err, session.ErrActiveSession) {
		t.Fatalf("want ErrActiveSession, got %v", err)
	}
	if !errors.Is(err, shared.ErrConflict) {
		t.Error("active-session error should map to the conflict taxonomy")
	}

	// The store must still hold exactly one active session for the user.
	all, err := f.sessions.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	active := 0
	for _, s := range all {
		if s.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active sessions = %d, want 1", active)
	}
}

func TestStopSession(t *testing.T) {
	tests := []struct {
		name         string
		elapsed      time.Duration
		wantDuration int64
	}{
		{name: "elapsed whole seconds", elapsed: 125 * time.Second, wantDuration: 125},
		{name: "fractional elapsed floors", elapsed: 125*time.Second + 999*time.Millisecond, wantDuration: 125},
		{name: "zero elapsed still completes", elapsed: 0, wantDuration: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			if _, err := f.svc.StartSession(ctx, sessionsvc.StartCommand{UserID: "user-1", GameID: "game-1"}); err != nil {
				t.Fatalf("start failed: %v", err)
			}

			stopAt := f.now.Add(tt.elapsed)
			f.svc.Clock = func() time.Time { return stopAt }

			sess, err := f.svc.StopSession(ctx, sessionsvc.StopCommand{UserID: "user-1", Score: 50, Won: true})
			if err != nil {
				t.Fatalf("stop failed: %v", err)
			}
			if sess.Active {
				t.Error("stopped session should not be active")
			}
			if sess.EndedAt == nil || !sess.EndedAt.Equal(stopAt) {
				t.Errorf("end time = %v, want %v", sess.EndedAt, stopAt)
			}
			if sess.DurationSeconds != tt.wantDuration {
				t.Errorf("duration = %d, want %d", sess.DurationSeconds, tt.wantDuration)
			}
			if sess.Score != 50 || !sess.Won {
				t.Error("score and winner flag should be recorded")
			}

			// Persisted state must match the returned record.
			stored, err := f.sessions.Get(ctx, sess.ID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored.Active || stored.DurationSeconds != tt.wantDuration {
				t.Error("stored session does not reflect completion")
			}
		})
	}
}

func TestStopSessionWithoutActive(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.StopSession(context.Background(), sessionsvc.StopCommand{UserID: "user-1"})
	if !errors.Is(err, session.ErrNoActiveSession) {
		t.Fatalf("want ErrNoActiveSession, got %v", err)
	}
	if !errors.Is(err, shared.ErrNotFound) {
		t.Error("missing-session error should map to the not-found taxonomy")
	}
}

func TestStartAfterStop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StartSession(ctx, sessionsvc.StartCommand{UserID: "user-1", GameID: "game-1"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.svc.StopSession(ctx, sessionsvc.StopCommand{UserID: "user-1"}); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if _, err := f.svc.StartSession(ctx, sessionsvc.StartCommand{UserID: "user-1", GameID: "game-1"}); err != nil {
		t.Fatalf("restart after stop failed: %v", err)
	}
}
