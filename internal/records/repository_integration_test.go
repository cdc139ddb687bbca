// AngelaMos | 2026
// repository_integration_test.go

//go:build integration

package records

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/strength"
	"github.com/liftlog/liftlog-api/internal/testdb"
)

func TestRepositoryIntegration(t *testing.T) {
	db := testdb.New(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := testdb.InsertUser(t, db)

	newRec := func(lift string, weight float64, date time.Time) *PersonalRecord {
		return &PersonalRecord{
			ID:             uuid.NewString(),
			UserID:         userID,
			Lift:           lift,
			Weight:         weight,
			Reps:           1,
			Date:           date,
			Context:        ContextTraining,
			EstimatedOneRM: weight,
		}
	}

	first := newRec("Squat", 180, day(2026, 3, 1))
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, 1, first.Version)
	assert.True(t, first.IsActive)

	t.Run("active duplicate is rejected", func(t *testing.T) {
		err := repo.Create(ctx, newRec("squat", 180, day(2026, 3, 2)))
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})

	second := newRec("Squat", 190, day(2026, 4, 1))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("best weight honours as-of date", func(t *testing.T) {
		best, err := repo.BestWeight(ctx, userID, "SQUAT", 1, day(2026, 3, 15))
		require.NoError(t, err)
		assert.Equal(t, first.ID, best.ID)

		best, err = repo.BestWeight(ctx, userID, "Squat", 1, day(2026, 5, 1))
		require.NoError(t, err)
		assert.Equal(t, second.ID, best.ID)

		_, err = repo.BestWeight(ctx, userID, "Squat", 3, day(2026, 5, 1))
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("version guards status updates", func(t *testing.T) {
		stale := *second
		second.IsActive = false
		require.NoError(t, repo.UpdateStatus(ctx, second))
		assert.Equal(t, 2, second.Version)

		stale.Verified = true
		assert.ErrorIs(t, repo.UpdateStatus(ctx, &stale), core.ErrConflict)
	})

	t.Run("window includes inactive on request", func(t *testing.T) {
		active, err := repo.ListInWindow(ctx, userID, "squat", day(2026, 1, 1), false)
		require.NoError(t, err)
		assert.Len(t, active, 1)

		all, err := repo.ListInWindow(ctx, userID, "", day(2026, 1, 1), true)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("inactive record frees its slot", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newRec("Squat", 190, day(2026, 4, 2))))
	})

	t.Run("counts and history", func(t *testing.T) {
		counts, err := repo.CountByUser(ctx, userID, day(2026, 4, 1))
		require.NoError(t, err)
		assert.Equal(t, 2, counts.Active)
		assert.Equal(t, 2, counts.Training)
		assert.Equal(t, 1, counts.ThisMonth)

		recs, total, err := repo.ListByLift(ctx, userID, "squat", core.PageParams{Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, recs, 1)
		assert.Equal(t, 190.0, recs[0].Weight)

		latest, err := repo.Latest(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, day(2026, 4, 2), latest.Date.UTC())
	})

	t.Run("best weight by category spans lift names", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newRec("Paused Back Squat", 200, day(2026, 4, 2))))
		require.NoError(t, repo.Create(ctx, newRec("Bench", 120, day(2026, 4, 2))))

		best, err := repo.BestWeightByCategory(ctx, userID, strength.CategorySquat, 1, day(2026, 5, 1))
		require.NoError(t, err)
		assert.Equal(t, "Paused Back Squat", best.Lift)

		best, err = repo.BestWeightByCategory(ctx, userID, strength.CategoryBench, 1, day(2026, 5, 1))
		require.NoError(t, err)
		assert.Equal(t, 120.0, best.Weight)

		_, err = repo.BestWeightByCategory(ctx, userID, strength.CategoryDeadlift, 1, day(2026, 5, 1))
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
