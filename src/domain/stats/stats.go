package stats

import (
	"fmt"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// Metric selects which session field aggregation views reduce over.
type Metric string

const (
	MetricDuration Metric = "duration"
	MetricScore    Metric = "score"
)

func (m Metric) Validate() error {
	switch m {
	case MetricDuration, MetricScore:
		return nil
	default:
		return fmt.Errorf("%w: unknown metric %q", shared.ErrValidation, string(m))
	}
}

// UserTotals summarizes a single user's completed sessions for one metric.
// Average is rounded to two decimal places; the sum keeps full precision.
type UserTotals struct {
	UserID      shared.UserID `json:"user_id"`
	DisplayName string        `json:"display_name"`
	Metric      Metric        `json:"metric"`
	Count       int64         `json:"count"`
	Total       int64         `json:"total"`
	Average     float64       `json:"average"`
	Max         int64         `json:"max"`
	Min         int64         `json:"min"`
}

// GameTotals summarizes all completed sessions of one game.
type GameTotals struct {
	GameID        shared.GameID `json:"game_id"`
	Name          string        `json:"name"`
	Metric        Metric        `json:"metric"`
	Count         int64         `json:"count"`
	DistinctUsers int64         `json:"distinct_users"`
	Average       float64       `json:"average"`
	Max           int64         `json:"max"`
	Min           int64         `json:"min"`
}

// WinRate reports a user's win percentage. Rate is nil when the user has no
// completed games; it is never NaN or Inf.
type WinRate struct {
	UserID     shared.UserID `json:"user_id"`
	TotalGames int64         `json:"total_games"`
	TotalWins  int64         `json:"total_wins"`
	Rate       *float64      `json:"win_rate,omitempty"`
}

// RankingEntry is one row of a per-user leaderboard sorted descending by the
// chosen metric. Tie order between equal totals is not guaranteed.
type RankingEntry struct {
	Rank        int           `json:"rank"`
	UserID      shared.UserID `json:"user_id"`
	DisplayName string        `json:"display_name"`
	Total       int64         `json:"total"`
}

// TrendingGame is one row of the recent-activity view: games ranked by how many
// sessions were started within the lookback window.
type TrendingGame struct {
	GameID       shared.GameID `json:"game_id"`
	Name         string        `json:"name"`
	SessionCount int64         `json:"session_count"`
}
