package stats

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/playtrackhq/playtrack/src/domain/game"
	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/shared"
	"github.com/playtrackhq/playtrack/src/domain/stats"
	"github.com/playtrackhq/playtrack/src/domain/user"
)

const (
	DefaultRankingLimit  = 10
	DefaultTrendingDays  = 7
	DefaultTrendingLimit = 20
	MaxLimit             = 100
)

// Service derives read-only summary views from the session collection. It
// never mutates session data.
type Service struct {
	Sessions session.Repository
	Users    user.Repository
	Games    game.Repository
	Clock    func() time.Time
}

// NewService creates a new statistics service.
func NewService(sessions session.Repository, users user.Repository, games game.Repository) *Service {
	return &Service{
		Sessions: sessions,
		Users:    users,
		Games:    games,
		Clock:    func() time.Time { return time.Now().UTC() },
	}
}

// bucket accumulates one group of the parameterized reduction. The same
// reducer backs the per-user, per-game, ranking, and trending views so each
// metric variant does not carry its own pipeline.
type bucket struct {
	count int64
	sum   int64
	max   int64
	min   int64
	users map[shared.UserID]struct{}
}

func (b *bucket) observe(s *session.Session, value int64) {
	if b.count == 0 {
		b.max = value
		b.min = value
	} else {
		if value > b.max {
			b.max = value
		}
		if value < b.min {
			b.min = value
		}
	}
	b.count++
	b.sum += value
	b.users[s.UserID] = struct{}{}
}

func (b *bucket) average() float64 {
	if b.count == 0 {
		return 0
	}
	return round2(decimal.NewFromInt(b.sum).Div(decimal.NewFromInt(b.count)))
}

// groupReduce buckets completed sessions by key, accumulating the chosen
// metric. Active sessions are skipped; they have no duration or score yet.
func groupReduce(sessions []*session.Session, metric stats.Metric, key func(*session.Session) string) map[string]*bucket {
	groups := make(map[string]*bucket)
	for _, s := range sessions {
		if s.Active {
			continue
		}
		k := key(s)
		b, ok := groups[k]
		if !ok {
			b = &bucket{users: make(map[shared.UserID]struct{})}
			groups[k] = b
		}
		b.observe(s, metricValue(s, metric))
	}
	return groups
}

func metricValue(s *session.Session, m stats.Metric) int64 {
	if m == stats.MetricScore {
		return s.Score
	}
	return s.DurationSeconds
}

// round2 rounds for display; sums keep full precision before this point.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// UserTotals summarizes one user's completed sessions under the chosen metric.
func (s *Service) UserTotals(ctx context.Context, userID shared.UserID, metric stats.Metric) (*stats.UserTotals, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if err := metric.Validate(); err != nil {
		return nil, err
	}

	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.Sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups := groupReduce(sessions, metric, func(*session.Session) string { return string(userID) })
	totals := &stats.UserTotals{
		UserID:      userID,
		DisplayName: u.DisplayName,
		Metric:      metric,
	}
	if b, ok := groups[string(userID)]; ok {
		totals.Count = b.count
		totals.Total = b.sum
		totals.Average = b.average()
		totals.Max = b.max
		totals.Min = b.min
	}
	return totals, nil
}

// GameTotals summarizes all completed sessions of one game, including how many
// distinct users played it.
func (s *Service) GameTotals(ctx context.Context, gameID shared.GameID, metric stats.Metric) (*stats.GameTotals, error) {
	if err := gameID.Validate(); err != nil {
		return nil, err
	}
	if err := metric.Validate(); err != nil {
		return nil, err
	}

	g, err := s.Games.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.Sessions.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	groups := groupReduce(sessions, metric, func(*session.Session) string { return string(gameID) })
	totals := &stats.GameTotals{
		GameID: gameID,
		Name:   g.Name,
		Metric: metric,
	}
	if b, ok := groups[string(gameID)]; ok {
		totals.Count = b.count
		totals.DistinctUsers = int64(len(b.users))
		totals.Average = b.average()
		totals.Max = b.max
		totals.Min = b.min
	}
	return totals, nil
}

// WinRate reports the user's win percentage over completed sessions, rounded
// to two decimal places. With no completed games the rate is omitted rather
// than computed as NaN.
func (s *Service) WinRate(ctx context.Context, userID shared.UserID) (*stats.WinRate, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Users.Get(ctx, userID); err != nil {
		return nil, err
	}
	sessions, err := s.Sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &stats.WinRate{UserID: userID}
	for _, sess := range sessions {
		if sess.Active {
			continue
		}
		result.TotalGames++
		if sess.Won {
			result.TotalWins++
		}
	}
	if result.TotalGames > 0 {
		rate := round2(decimal.NewFromInt(result.TotalWins * 100).Div(decimal.NewFromInt(result.TotalGames)))
		result.Rate = &rate
	}
	return result, nil
}

// RankingQuery selects the metric and result count for a leaderboard view.
type RankingQuery struct {
	Metric stats.Metric
	Limit  int
}

// Ranking returns per-user totals sorted descending by the chosen metric.
// Order between users with equal totals is not guaranteed.
func (s *Service) Ranking(ctx context.Context, q RankingQuery) ([]stats.RankingEntry, error) {
	if err := q.Metric.Validate(); err != nil {
		return nil, err
	}
	limit := clampLimit(q.Limit, DefaultRankingLimit)

	sessions, err := s.Sessions.ListCompleted(ctx)
	if err != nil {
		return nil, err
	}

	groups := groupReduce(sessions, q.Metric, func(sess *session.Session) string { return string(sess.UserID) })
	entries := make([]stats.RankingEntry, 0, len(groups))
	for id, b := range groups {
		entries = append(entries, stats.RankingEntry{
			UserID: shared.UserID(id),
			Total:  b.sum,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Total > entries[j].Total })
	if len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		entries[i].Rank = i + 1
		if u, err := s.Users.Get(ctx, entries[i].UserID); err == nil {
			entries[i].DisplayName = u.DisplayName
		}
	}
	return entries, nil
}

// TrendQuery selects the lookback window and result count for the trending view.
type TrendQuery struct {
	Days  int
	Limit int
}

// Trending ranks games by how many sessions were started within the lookback
// window, most recent activity first.
func (s *Service) Trending(ctx context.Context, q TrendQuery) ([]stats.TrendingGame, error) {
	days := q.Days
	if days <= 0 {
		days = DefaultTrendingDays
	}
	limit := clampLimit(q.Limit, DefaultTrendingLimit)

	since := s.Clock().AddDate(0, 0, -days)
	sessions, err := s.Sessions.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	counts := make(map[shared.GameID]int64)
	for _, sess := range sessions {
		counts[sess.GameID]++
	}
	trending := make([]stats.TrendingGame, 0, len(counts))
	for id, n := range counts {
		trending = append(trending, stats.TrendingGame{GameID: id, SessionCount: n})
	}
	sort.Slice(trending, func(i, j int) bool { return trending[i].SessionCount > trending[j].SessionCount })
	if len(trending) > limit {
		trending = trending[:limit]
	}

	for i := range trending {
		if g, err := s.Games.Get(ctx, trending[i].GameID); err == nil {
			trending[i].Name = g.Name
		}
	}
	return trending, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
