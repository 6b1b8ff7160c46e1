package achievement

import (
	"testing"

	"studyTrackerAPI/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogShape(t *testing.T) {
	all := All()
	require.Len(t, all, 20)

	for i, a := range all {
		assert.Equal(t, i+1, a.ID)
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Description)
		require.Len(t, a.Levels, 3, "achievement %d", a.ID)

		for j, l := range a.Levels {
			assert.Equal(t, j+1, l.Level)
			assert.NotEmpty(t, l.Description)
			assert.Equal(t, a.Levels[0].Metric, l.Metric, "tiers of one achievement share a metric")
			if j > 0 {
				assert.Greater(t, l.Threshold, a.Levels[j-1].Threshold)
			}
		}
	}
}

func TestCatalogMetaAchievements(t *testing.T) {
	var meta []int
	for _, a := range All() {
		if a.IsMeta() {
			meta = append(meta, a.ID)
		}
	}
	assert.Equal(t, []int{KnowledgeIsPowerID, LifeWinnerID}, meta)
}

func TestCatalogThresholds(t *testing.T) {
	tests := []struct {
		id         int
		metric     stats.Metric
		thresholds []int
	}{
		{1, stats.MetricTotalTasks, []int{1, 30, 150}},
		{3, stats.MetricTotalMinutes, []int{300, 1800, 6000}},
		{5, stats.MetricStreakDays, []int{7, 30, 90}},
		{10, stats.MetricMaxDailyTasks, []int{5, 10, 20}},
		{18, stats.MetricExamPrepTasks, []int{5, 15, 30}},
		{19, stats.MetricTotalAchievements, []int{5, 10, 18}},
		{20, stats.MetricUnlockedAchievements, []int{8, 15, 19}},
	}

	for _, tt := range tests {
		a, ok := ByID(tt.id)
		require.True(t, ok)
		for i, l := range a.Levels {
			assert.Equal(t, tt.metric, l.Metric)
			assert.Equal(t, tt.thresholds[i], l.Threshold)
		}
	}
}

func TestCatalogDescriptions(t *testing.T) {
	a, _ := ByID(1)
	assert.Equal(t, "完成30个番茄钟任务", a.Levels[1].Description)

	a, _ = ByID(12)
	assert.Equal(t, `完成5个包含"数学"或"统计"关键词的任务`, a.Levels[0].Description)

	a, _ = ByID(3)
	assert.Equal(t, "累计学习时间达到100小时", a.Levels[2].Description)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "changed"
	all[0].Levels[0].Threshold = 999

	fresh, _ := ByID(1)
	assert.Equal(t, "速通！", fresh.Name)
	assert.Equal(t, 1, fresh.Levels[0].Threshold)
}

func TestByIDUnknown(t *testing.T) {
	_, ok := ByID(21)
	assert.False(t, ok)
}

func TestTypeFor(t *testing.T) {
	assert.Equal(t, "achievement_5", TypeFor(5))
	a, _ := ByID(20)
	assert.Equal(t, "achievement_20", a.Type())
}
