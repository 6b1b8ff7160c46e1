package achievement

import (
	"context"
	"testing"
	"time"

	"studyTrackerAPI/internal/stats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// satisfying returns stats meeting the given tier of the first n non-meta
// achievements and nothing else.
func satisfying(n, level int) stats.UserStats {
	var s stats.UserStats
	for _, a := range All() {
		if n == 0 {
			break
		}
		if a.IsMeta() {
			continue
		}
		s.Set(a.Levels[level-1].Metric, a.Levels[level-1].Threshold)
		n--
	}
	return s
}

func statusOf(t *testing.T, res *Result, id int) AchievementWithStatus {
	t.Helper()
	for _, a := range res.Response.Achievements {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %d missing from response", id)
	return AchievementWithStatus{}
}

func assertConsistent(t *testing.T, store *memoryStore, userID uuid.UUID, s stats.UserStats) {
	t.Helper()
	for _, a := range All() {
		for _, l := range a.Levels {
			assert.Equal(t, l.Satisfied(s), store.has(userID, a.Type(), l.Level),
				"%s level %d", a.Type(), l.Level)
		}
	}
}

func TestReconcile_NewUser(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()

	res, err := Reconcile(context.Background(), store, userID, stats.UserStats{TotalTasks: 1, NightTasks: 1, TotalMinutes: 25})
	require.NoError(t, err)

	assert.Len(t, res.Unlocked, 2)
	assert.Empty(t, res.Revoked)
	assert.True(t, store.has(userID, "achievement_1", 1))
	assert.True(t, store.has(userID, "achievement_2", 1))

	assert.Equal(t, "success", res.Response.Status)
	require.Len(t, res.Response.Achievements, 20)

	first := statusOf(t, res, 1)
	assert.True(t, first.IsUnlocked)
	assert.Equal(t, 1, first.HighestLevel)
	require.Len(t, first.Levels, 3)
	assert.True(t, first.Levels[0].Unlocked)
	assert.NotNil(t, first.Levels[0].UnlockedAt)
	assert.False(t, first.Levels[1].Unlocked)
	assert.Nil(t, first.Levels[1].UnlockedAt)

	third := statusOf(t, res, 3)
	assert.False(t, third.IsUnlocked)
	assert.Equal(t, 0, third.HighestLevel)

	assert.Equal(t, 2, res.Response.UserStats.TotalAchievements)
	assert.Equal(t, 2, res.Response.UserStats.UnlockedAchievements)
	assert.Equal(t, 25, res.Response.UserStats.TotalMinutes)
}

func TestReconcile_Idempotent(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()
	s := satisfying(9, 2)

	first, err := Reconcile(context.Background(), store, userID, s)
	require.NoError(t, err)
	rowsAfterFirst := len(store.rows)

	second, err := Reconcile(context.Background(), store, userID, s)
	require.NoError(t, err)

	assert.Empty(t, second.Unlocked)
	assert.Empty(t, second.Revoked)
	assert.Len(t, store.rows, rowsAfterFirst)
	assert.Equal(t, first.Response, second.Response, "unlock timestamps must be preserved")
}

func TestReconcile_Thresholds(t *testing.T) {
	userID := uuid.New()

	store := newMemoryStore()
	_, err := Reconcile(context.Background(), store, userID, stats.UserStats{TotalTasks: 29})
	require.NoError(t, err)
	assert.True(t, store.has(userID, "achievement_1", 1))
	assert.False(t, store.has(userID, "achievement_1", 2))

	_, err = Reconcile(context.Background(), store, userID, stats.UserStats{TotalTasks: 30})
	require.NoError(t, err)
	assert.True(t, store.has(userID, "achievement_1", 2))
	assert.False(t, store.has(userID, "achievement_1", 3))
}

func TestReconcile_RevokesWhenStatsRegress(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()
	unlockedAt := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	store.seed(userID, "achievement_1", 1, unlockedAt)
	store.seed(userID, "achievement_1", 2, unlockedAt)
	store.seed(userID, "achievement_5", 1, unlockedAt)

	res, err := Reconcile(context.Background(), store, userID, stats.UserStats{TotalTasks: 3})
	require.NoError(t, err)

	assert.Len(t, res.Revoked, 2)
	assert.True(t, store.has(userID, "achievement_1", 1))
	assert.False(t, store.has(userID, "achievement_1", 2))
	assert.False(t, store.has(userID, "achievement_5", 1))

	first := statusOf(t, res, 1)
	assert.Equal(t, 1, first.HighestLevel)
	require.NotNil(t, first.Levels[0].UnlockedAt)
	assert.Equal(t, unlockedAt, *first.Levels[0].UnlockedAt)
}

func TestReconcile_KnowledgeIsPower(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()

	res, err := Reconcile(context.Background(), store, userID, satisfying(5, 1))
	require.NoError(t, err)

	assert.True(t, store.has(userID, TypeFor(KnowledgeIsPowerID), 1))
	assert.False(t, store.has(userID, TypeFor(LifeWinnerID), 1))
	assert.Equal(t, 5, res.Response.UserStats.TotalAchievements)
	assert.Equal(t, 6, res.Response.UserStats.UnlockedAchievements)
}

func TestReconcile_LifeWinnerCountsKnowledgeIsPower(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()

	res, err := Reconcile(context.Background(), store, userID, satisfying(7, 1))
	require.NoError(t, err)

	assert.True(t, store.has(userID, TypeFor(KnowledgeIsPowerID), 1))
	assert.True(t, store.has(userID, TypeFor(LifeWinnerID), 1), "seven regular plus one meta reaches eight")
	assert.Equal(t, 7, res.Response.UserStats.TotalAchievements)
	assert.Equal(t, 8, res.Response.UserStats.UnlockedAchievements)
	assertConsistent(t, store, userID, res.Response.UserStats)
}

func TestReconcile_EverythingUnlocked(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()

	res, err := Reconcile(context.Background(), store, userID, satisfying(18, 3))
	require.NoError(t, err)

	assert.Len(t, store.rows, 60)
	for _, a := range res.Response.Achievements {
		assert.Equal(t, 3, a.HighestLevel, "achievement %d", a.ID)
	}
	assert.Equal(t, 18, res.Response.UserStats.TotalAchievements)
	assert.Equal(t, 19, res.Response.UserStats.UnlockedAchievements)
}

func TestReconcile_StaleMetaRowsRevoked(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.seed(userID, TypeFor(KnowledgeIsPowerID), 1, at)
	store.seed(userID, TypeFor(LifeWinnerID), 1, at)

	res, err := Reconcile(context.Background(), store, userID, stats.UserStats{})
	require.NoError(t, err)

	assert.Empty(t, store.rows)
	assert.Len(t, res.Revoked, 2)
	assert.Zero(t, res.Response.UserStats.UnlockedAchievements)
}

func TestReconcile_IgnoresIncomingMetaCounts(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()

	_, err := Reconcile(context.Background(), store, userID, stats.UserStats{TotalAchievements: 18, UnlockedAchievements: 19})
	require.NoError(t, err)

	assert.Empty(t, store.rows)
}

func TestReconcile_CollapsesDuplicates(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.seed(userID, "achievement_1", 1, early.Add(time.Hour))
	store.seed(userID, "achievement_1", 1, early)

	res, err := Reconcile(context.Background(), store, userID, stats.UserStats{TotalTasks: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Collapsed)
	require.Len(t, store.rows, 1)
	assert.Equal(t, early, store.rows[0].UnlockedAt)
}

func TestReconcile_LeavesUnknownRows(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()
	store.seed(userID, "achievement_99", 1, time.Now())

	res, err := Reconcile(context.Background(), store, userID, stats.UserStats{})
	require.NoError(t, err)

	assert.True(t, store.has(userID, "achievement_99", 1))
	assert.Zero(t, res.Response.UserStats.UnlockedAchievements)
}

func TestReconcile_ScopedToUser(t *testing.T) {
	store := newMemoryStore()
	alice, bob := uuid.New(), uuid.New()
	store.seed(bob, "achievement_1", 1, time.Now())

	_, err := Reconcile(context.Background(), store, alice, stats.UserStats{})
	require.NoError(t, err)

	assert.True(t, store.has(bob, "achievement_1", 1))
}

func TestReconcile_StoreErrors(t *testing.T) {
	userID := uuid.New()

	t.Run("list", func(t *testing.T) {
		store := newMemoryStore()
		store.failList = true
		_, err := Reconcile(context.Background(), store, userID, stats.UserStats{})
		assert.ErrorIs(t, err, errStoreDown)
	})

	t.Run("insert", func(t *testing.T) {
		store := newMemoryStore()
		store.failOn = "insert"
		_, err := Reconcile(context.Background(), store, userID, stats.UserStats{TotalTasks: 1})
		assert.ErrorIs(t, err, errStoreDown)
	})

	t.Run("delete", func(t *testing.T) {
		store := newMemoryStore()
		store.seed(userID, "achievement_1", 1, time.Now())
		store.failOn = "delete"
		_, err := Reconcile(context.Background(), store, userID, stats.UserStats{})
		assert.ErrorIs(t, err, errStoreDown)
	})
}

func TestReconcile_ProgressiveHistory(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()
	ctx := context.Background()

	steps := []stats.UserStats{
		{TotalTasks: 1},
		satisfying(4, 1),
		satisfying(10, 1),
		satisfying(3, 1),
		satisfying(18, 2),
		{},
	}
	for i, s := range steps {
		res, err := Reconcile(ctx, store, userID, s)
		require.NoError(t, err, "step %d", i)
		assertConsistent(t, store, userID, res.Response.UserStats)
	}
	assert.Empty(t, store.rows)
}
