package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// SessionRepository implements session.Repository on Postgres. The partial
// unique index sessions_one_active_per_user makes Insert the serialization
// point for the one-active-session-per-user invariant.
type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

const sessionColumns = `id, user_id, game_id, started_at, ended_at, duration_seconds, active, score, won, created_at`

func (r *SessionRepository) Insert(ctx context.Context, s *session.Session) error {
	_, err := r.store.pool.Exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.UserID, s.GameID, s.StartedAt, s.EndedAt, s.DurationSeconds, s.Active, s.Score, s.Won, s.CreatedAt)
	if err != nil {
		if uniqueViolation(err, "sessions_one_active_per_user") {
			return session.ErrActiveSession
		}
		return storeErr(err)
	}
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	tag, err := r.store.pool.Exec(ctx, `
		UPDATE sessions
		SET ended_at = $2, duration_seconds = $3, active = $4, score = $5, won = $6
		WHERE id = $1`,
		s.ID, s.EndedAt, s.DurationSeconds, s.Active, s.Score, s.Won)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id shared.SessionID) (*session.Session, error) {
	row := r.store.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrSessionNotFound
	}
	return s, err
}

func (r *SessionRepository) GetActiveByUser(ctx context.Context, userID shared.UserID) (*session.Session, error) {
	row := r.store.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 AND active`, userID)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNoActiveSession
	}
	return s, err
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID shared.UserID) ([]*session.Session, error) {
	return r.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *SessionRepository) ListByGame(ctx context.Context, gameID shared.GameID) ([]*session.Session, error) {
	return r.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE game_id = $1 ORDER BY created_at DESC`, gameID)
}

func (r *SessionRepository) ListCompleted(ctx context.Context) ([]*session.Session, error) {
	return r.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE NOT active ORDER BY created_at DESC`)
}

func (r *SessionRepository) ListSince(ctx context.Context, since time.Time) ([]*session.Session, error) {
	return r.query(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE created_at >= $1 ORDER BY created_at DESC`, since)
}

func (r *SessionRepository) query(ctx context.Context, sql string, args ...any) ([]*session.Session, error) {
	rows, err := r.store.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var s session.Session
	err := row.Scan(&s.ID, &s.UserID, &s.GameID, &s.StartedAt, &s.EndedAt,
		&s.DurationSeconds, &s.Active, &s.Score, &s.Won, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return &s, nil
}
