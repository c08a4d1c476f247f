package services

import (
	"context"
	"errors"

	"cyberquest-backend/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardKey = "leaderboard:total_points"

var ErrNotRanked = errors.New("user not on the leaderboard")

// LeaderboardService keeps a redis sorted set of total points next to the DB.
// Redis is an accelerator, not the source of truth: when it is unavailable
// (RDB == nil or an operation fails) reads fall back to an ORDER BY query and
// writes are skipped, to be picked up by the next rebuild.
type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb}
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank        int64  `json:"rank"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	ImageURL    string `json:"imageUrl,omitempty"`
	TotalPoints int    `json:"totalPoints"`
}

// UpdateScore pushes a user's new total to the sorted set.
func (s *LeaderboardService) UpdateScore(ctx context.Context, userID string, totalPoints int) error {
	if s.RDB == nil {
		return nil
	}
	return s.RDB.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(totalPoints),
		Member: userID,
	}).Err()
}

// RemoveUser drops a deleted user from the sorted set.
func (s *LeaderboardService) RemoveUser(ctx context.Context, userID string) error {
	if s.RDB == nil {
		return nil
	}
	return s.RDB.ZRem(ctx, leaderboardKey, userID).Err()
}

// Top returns the first n entries, highest points first.
func (s *LeaderboardService) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if n < 1 || n > 100 {
		n = 25
	}
	if s.RDB != nil {
		zs, err := s.RDB.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
		if err == nil {
			return s.hydrate(zs)
		}
	}
	return s.topFromDB(n)
}

// RankOf returns the user's 1-based rank and entry. A member missing from the
// sorted set (redis.Nil — e.g. a user created since the last rebuild) is ranked
// from the database like any other redis miss; ErrNotRanked is reserved for
// users that do not exist at all.
func (s *LeaderboardService) RankOf(ctx context.Context, userID string) (*LeaderboardEntry, error) {
	if s.RDB != nil {
		rank, err := s.RDB.ZRevRank(ctx, leaderboardKey, userID).Result()
		if err == nil {
			var user models.User
			if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
				return nil, err
			}
			return &LeaderboardEntry{
				Rank:        rank + 1,
				UserID:      user.ID,
				Username:    user.Username,
				ImageURL:    user.ImageURL,
				TotalPoints: user.TotalPoints,
			}, nil
		}
	}
	return s.rankFromDB(userID)
}

// Rebuild re-seeds the sorted set from the users table.
func (s *LeaderboardService) Rebuild(ctx context.Context) error {
	if s.RDB == nil {
		return nil
	}
	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	members := make([]redis.Z, len(users))
	for i, u := range users {
		members[i] = redis.Z{Score: float64(u.TotalPoints), Member: u.ID}
	}
	pipe := s.RDB.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	pipe.ZAdd(ctx, leaderboardKey, members...)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *LeaderboardService) hydrate(zs []redis.Z) ([]LeaderboardEntry, error) {
	entries := make([]LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		userID, _ := z.Member.(string)
		var user models.User
		if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
			continue // user deleted since last rebuild
		}
		entries = append(entries, LeaderboardEntry{
			Rank:        int64(i + 1),
			UserID:      user.ID,
			Username:    user.Username,
			ImageURL:    user.ImageURL,
			TotalPoints: int(z.Score),
		})
	}
	return entries, nil
}

func (s *LeaderboardService) topFromDB(n int) ([]LeaderboardEntry, error) {
	var users []models.User
	if err := s.DB.Order("total_points DESC, created_at ASC").Limit(n).Find(&users).Error; err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:        int64(i + 1),
			UserID:      u.ID,
			Username:    u.Username,
			ImageURL:    u.ImageURL,
			TotalPoints: u.TotalPoints,
		}
	}
	return entries, nil
}

func (s *LeaderboardService) rankFromDB(userID string) (*LeaderboardEntry, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRanked
		}
		return nil, err
	}
	var ahead int64
	if err := s.DB.Model(&models.User{}).
		Where("total_points > ?", user.TotalPoints).
		Count(&ahead).Error; err != nil {
		return nil, err
	}
	return &LeaderboardEntry{
		Rank:        ahead + 1,
		UserID:      user.ID,
		Username:    user.Username,
		ImageURL:    user.ImageURL,
		TotalPoints: user.TotalPoints,
	}, nil
}
