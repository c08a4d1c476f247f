package services

import (
	"context"
	"testing"

	"cyberquest-backend/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run without redis: the service must serve everything straight
// from the database.

func TestLeaderboardTop_DBFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	for i, points := range []int{300, 100, 200} {
		user := seedUser(t, db, string(rune('a'+i))+"_lb")
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
			Update("total_points", points).Error)
	}

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 300, entries[0].TotalPoints)
	assert.Equal(t, 200, entries[1].TotalPoints)
	assert.Equal(t, 100, entries[2].TotalPoints)
	assert.EqualValues(t, 1, entries[0].Rank)
	assert.EqualValues(t, 3, entries[2].Rank)
}

func TestLeaderboardTop_ClampsLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	seedUser(t, db, "solo_lb")

	entries, err := svc.Top(context.Background(), -5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLeaderboardRankOf_DBFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	leader := seedUser(t, db, "leader_lb")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", leader.ID).
		Update("total_points", 500).Error)
	trailer := seedUser(t, db, "trailer_lb")

	entry, err := svc.RankOf(context.Background(), trailer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, entry.Rank)
	assert.Equal(t, trailer.ID, entry.UserID)

	entry, err = svc.RankOf(context.Background(), leader.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, entry.Rank)
	assert.Equal(t, 500, entry.TotalPoints)

	_, err = svc.RankOf(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotRanked)
}

func TestLeaderboardReads_FallBackWhenRedisUnreachable(t *testing.T) {
	db := newTestDB(t)
	// A client pointed at a closed port: every command errors, which must be
	// indistinguishable from a missing member — both rank from the database.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	svc := NewLeaderboardService(db, rdb)

	user := seedUser(t, db, "unreachable_lb")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("total_points", 42).Error)

	entry, err := svc.RankOf(context.Background(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, entry.Rank)
	assert.Equal(t, 42, entry.TotalPoints)

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, user.ID, entries[0].UserID)

	_, err = svc.RankOf(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotRanked)
}

func TestLeaderboardWrites_NoOpWithoutRedis(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	assert.NoError(t, svc.UpdateScore(context.Background(), "u", 10))
	assert.NoError(t, svc.RemoveUser(context.Background(), "u"))
	assert.NoError(t, svc.Rebuild(context.Background()))
}
