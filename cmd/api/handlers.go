package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	gamesvc "github.com/playtrackhq/playtrack/src/app/games"
	sessionsvc "github.com/playtrackhq/playtrack/src/app/sessions"
	statssvc "github.com/playtrackhq/playtrack/src/app/stats"
	usersvc "github.com/playtrackhq/playtrack/src/app/users"
	"github.com/playtrackhq/playtrack/src/domain/game"
	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/shared"
	"github.com/playtrackhq/playtrack/src/domain/stats"
	"github.com/playtrackhq/playtrack/src/domain/user"
)

// decode unmarshals and validates a JSON request payload. Malformed or invalid
// payloads are rejected before any service call.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return nil
}

type RegisterUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32"`
	DisplayName string `json:"display_name" validate:"max=64"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          string(u.ID),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	u, err := s.cfg.UserService.Register(r.Context(), usersvc.RegisterCommand{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.cfg.UserService.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.cfg.UserService.Get(r.Context(), shared.UserID(mux.Vars(r)["id"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserResponse(u))
}

type AddGameRequest struct {
	Name     string `json:"name" validate:"required,max=128"`
	Category string `json:"category" validate:"max=64"`
}

type GameResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toGameResponse(g *game.Game) GameResponse {
	return GameResponse{
		ID:        string(g.ID),
		Name:      g.Name,
		Category:  g.Category,
		CreatedAt: g.CreatedAt,
	}
}

func (s *Server) handleAddGame(w http.ResponseWriter, r *http.Request) {
	var req AddGameRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.cfg.GameService.Add(r.Context(), gamesvc.AddCommand{
		Name:     req.Name,
		Category: req.Category,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toGameResponse(g))
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	list, err := s.cfg.GameService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]GameResponse, 0, len(list))
	for _, g := range list {
		out = append(out, toGameResponse(g))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.cfg.GameService.Get(r.Context(), shared.GameID(mux.Vars(r)["id"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toGameResponse(g))
}

type StartSessionRequest struct {
	UserID string `json:"user_id" validate:"required"`
	GameID string `json:"game_id" validate:"required"`
}

type StopSessionRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Score  int64  `json:"score" validate:"gte=0"`
	Won    bool   `json:"won"`
}

type SessionResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	GameID          string     `json:"game_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Active          bool       `json:"active"`
	Score           int64      `json:"score"`
	Won             bool       `json:"won"`
}

func toSessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{
		ID:              string(sess.ID),
		UserID:          string(sess.UserID),
		GameID:          string(sess.GameID),
		StartedAt:       sess.StartedAt,
		EndedAt:         sess.EndedAt,
		DurationSeconds: sess.DurationSeconds,
		Active:          sess.Active,
		Score:           sess.Score,
		Won:             sess.Won,
	}
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.cfg.SessionService.StartSession(r.Context(), sessionsvc.StartCommand{
		UserID: shared.UserID(req.UserID),
		GameID: shared.GameID(req.GameID),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	var req StopSessionRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.cfg.SessionService.StopSession(r.Context(), sessionsvc.StopCommand{
		UserID: shared.UserID(req.UserID),
		Score:  req.Score,
		Won:    req.Won,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleListUserSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.cfg.SessionService.ListByUser(r.Context(), shared.UserID(mux.Vars(r)["id"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]SessionResponse, 0, len(list))
	for _, sess := range list {
		out = append(out, toSessionResponse(sess))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// metricParam reads the metric query parameter, defaulting to play duration.
func metricParam(r *http.Request) stats.Metric {
	if m := r.URL.Query().Get("metric"); m != "" {
		return stats.Metric(m)
	}
	return stats.MetricDuration
}

func intParam(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

func (s *Server) handleUserTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.cfg.StatsService.UserTotals(r.Context(), shared.UserID(mux.Vars(r)["id"]), metricParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleGameTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.cfg.StatsService.GameTotals(r.Context(), shared.GameID(mux.Vars(r)["id"]), metricParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleWinRate(w http.ResponseWriter, r *http.Request) {
	rate, err := s.cfg.StatsService.WinRate(r.Context(), shared.UserID(mux.Vars(r)["id"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rate)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	entries, err := s.cfg.StatsService.Ranking(r.Context(), statssvc.RankingQuery{
		Metric: metricParam(r),
		Limit:  intParam(r, "limit"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	trending, err := s.cfg.StatsService.Trending(r.Context(), statssvc.TrendQuery{
		Days:  intParam(r, "days"),
		Limit: intParam(r, "limit"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trending)
}
