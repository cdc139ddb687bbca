// AngelaMos | 2026
// cache_test.go

package records

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBestsCacheRoundTrip(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisBestsCache(db, 10*time.Minute)
	ctx := context.Background()

	bests := []PersonalRecord{{ID: "r1", UserID: testUser, Lift: "Squat", Weight: 200, Reps: 1}}
	raw, err := json.Marshal(bests)
	require.NoError(t, err)

	mock.ExpectGet("bests:" + testUser).RedisNil()
	mock.ExpectSet("bests:"+testUser, raw, 10*time.Minute).SetVal("OK")
	mock.ExpectGet("bests:" + testUser).SetVal(string(raw))
	mock.ExpectDel("bests:" + testUser).SetVal(1)

	_, ok, err := cache.Get(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, testUser, bests))

	got, ok, err := cache.Get(ctx, testUser)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "Squat", got[0].Lift)

	require.NoError(t, cache.Invalidate(ctx, testUser))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentBestsServesFromCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := newFakeRepo()
	repo.seed(PersonalRecord{UserID: testUser, Lift: "Squat", Weight: 999, Date: day(2026, 1, 1)})

	cached := []PersonalRecord{{ID: "cached", UserID: testUser, Lift: "Squat", Weight: 200, Reps: 1}}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet("bests:" + testUser).SetVal(string(raw))

	agg := NewAggregator(repo, NewRedisBestsCache(db, time.Minute), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	bests, err := agg.CurrentBests(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, bests, 1)
	assert.Equal(t, "cached", bests[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentBestsFallsBackWhenRedisFails(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := newFakeRepo()
	seeded := repo.seed(PersonalRecord{UserID: testUser, Lift: "Squat", Weight: 180, Date: day(2026, 1, 1)})
	raw, err := json.Marshal([]PersonalRecord{*seeded})
	require.NoError(t, err)

	mock.ExpectGet("bests:" + testUser).SetErr(errors.New("connection refused"))
	mock.ExpectSet("bests:"+testUser, raw, time.Minute).SetErr(errors.New("connection refused"))

	agg := NewAggregator(repo, NewRedisBestsCache(db, time.Minute), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	bests, err := agg.CurrentBests(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, bests, 1)
	assert.Equal(t, 180.0, bests[0].Weight)
	require.NoError(t, mock.ExpectationsWereMet())
}

type invalidatingRepo struct {
	*fakeRepo
	during func()
}

func (r invalidatingRepo) ListActive(ctx context.Context, userID string) ([]PersonalRecord, error) {
	recs, err := r.fakeRepo.ListActive(ctx, userID)
	r.during()
	return recs, err
}

func TestCurrentBestsDropsFillThatRacedInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := newFakeRepo()
	seeded := repo.seed(PersonalRecord{UserID: testUser, Lift: "Squat", Weight: 180, Date: day(2026, 1, 1)})
	raw, err := json.Marshal([]PersonalRecord{*seeded})
	require.NoError(t, err)

	mock.ExpectGet("bests:" + testUser).RedisNil()
	mock.ExpectDel("bests:" + testUser).SetVal(0)
	mock.ExpectSet("bests:"+testUser, raw, time.Minute).SetVal("OK")
	mock.ExpectDel("bests:" + testUser).SetVal(1)

	ctx := context.Background()
	var agg *Aggregator
	wrapped := invalidatingRepo{fakeRepo: repo, during: func() { agg.Invalidate(ctx, testUser) }}
	agg = NewAggregator(wrapped, NewRedisBestsCache(db, time.Minute), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	bests, err := agg.CurrentBests(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, bests, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentBestsKeepsUncontendedFill(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := newFakeRepo()
	seeded := repo.seed(PersonalRecord{UserID: testUser, Lift: "Bench", Weight: 120, Date: day(2026, 1, 1)})
	raw, err := json.Marshal([]PersonalRecord{*seeded})
	require.NoError(t, err)

	mock.ExpectGet("bests:" + testUser).RedisNil()
	mock.ExpectSet("bests:"+testUser, raw, time.Minute).SetVal("OK")

	agg := NewAggregator(repo, NewRedisBestsCache(db, time.Minute), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err = agg.CurrentBests(context.Background(), testUser)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
