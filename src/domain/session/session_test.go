package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/shared"
)

func TestNewSession(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		id        shared.SessionID
		userID    shared.UserID
		gameID    shared.GameID
		startedAt time.Time
		wantErr   bool
	}{
		{
			name:      "valid session",
			id:        "sess-1",
			userID:    "user-1",
			gameID:    "game-1",
			startedAt: start,
		},
		{
			name:      "blank user id",
			id:        "sess-1",
			userID:    "  ",
			gameID:    "game-1",
			startedAt: start,
			wantErr:   true,
		},
		{
			name:      "blank game id",
			id:        "sess-1",
			userID:    "user-1",
			gameID:    "",
			startedAt: start,
			wantErr:   true,
		},
		{
			name:    "zero start time",
			id:      "sess-1",
			userID:  "user-1",
			gameID:  "game-1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := session.NewSession(tt.id, tt.userID, tt.gameID, tt.startedAt)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !s.Active {
				t.Error("new session should be active")
			}
			if s.EndedAt != nil {
				t.Error("new session should have no end time")
			}
		})
	}
}

func TestSessionComplete(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		endedAt      time.Time
		wantErr      error
		wantDuration int64
	}{
		{
			name:         "whole seconds elapsed",
			endedAt:      start.Add(125 * time.Second),
			wantDuration: 125,
		},
		{
			name:         "fractional seconds floor",
			endedAt:      start.Add(125*time.Second + 900*time.Millisecond),
			wantDuration: 125,
		},
		{
			name:         "zero elapsed still completes",
			endedAt:      start,
			wantDuration: 0,
		},
		{
			name:    "end before start",
			endedAt: start.Add(-time.Second),
			wantErr: session.ErrInvalidEndTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := session.NewSession("sess-1", "user-1", "game-1", start)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			err = s.Complete(tt.endedAt, 42, true)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Active {
				t.Error("completed session should not be active")
			}
			if s.EndedAt == nil || !s.EndedAt.Equal(tt.endedAt) {
				t.Errorf("end time not recorded: %v", s.EndedAt)
			}
			if s.DurationSeconds != tt.wantDuration {
				t.Errorf("duration = %d, want %d", s.DurationSeconds, tt.wantDuration)
			}
		})
	}
}

func TestSessionCompleteTwice(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := session.NewSession("sess-1", "user-1", "game-1", start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Complete(start.Add(time.Minute), 0, false); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}
	firstEnd := *s.EndedAt

	err = s.Complete(start.Add(2*time.Minute), 10, true)
	if !errors.Is(err, session.ErrSessionCompleted) {
		t.Fatalf("want ErrSessionCompleted, got %v", err)
	}
	if !s.EndedAt.Equal(firstEnd) || s.DurationSeconds != 60 {
		t.Error("second complete must not mutate the session")
	}
	if !errors.Is(err, shared.ErrConflict) {
		t.Error("completed-twice should map to the conflict taxonomy")
	}
}
