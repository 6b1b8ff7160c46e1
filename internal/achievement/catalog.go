package achievement

import (
	"fmt"

	"studyTrackerAPI/internal/stats"
)

const (
	KnowledgeIsPowerID = 19
	LifeWinnerID       = 20
)

func tiers(m stats.Metric, format string, thresholds ...int) []Level {
	levels := make([]Level, len(thresholds))
	for i, t := range thresholds {
		levels[i] = Level{
			Level:       i + 1,
			Description: fmt.Sprintf(format, t),
			Metric:      m,
			Threshold:   t,
		}
	}
	return levels
}

func keywordTiers(m stats.Metric, keywords string) []Level {
	return tiers(m, "完成%d个包含"+keywords+"关键词的任务", 5, 15, 30)
}

var catalog = []Achievement{
	{
		ID:          1,
		Name:        "速通！",
		Description: "每一段伟大的旅程都始于第一步，你已经踏上了知识的征程",
		Levels:      tiers(stats.MetricTotalTasks, "完成%d个番茄钟任务", 1, 30, 150),
	},
	{
		ID:          2,
		Name:        "别吵，我在烧烤！",
		Description: "当别人在睡觉时，你在点亮知识的明灯，夜晚是你的主场",
		Levels:      tiers(stats.MetricNightTasks, "在晚上10点后完成%d个任务", 1, 15, 45),
	},
	{
		ID:          3,
		Name:        "时间管理大师",
		Description: "投资时间是最有价值的决策，你已经开始积累丰厚的知识回报",
		Levels: []Level{
			{Level: 1, Description: "累计学习时间达到5小时", Metric: stats.MetricTotalMinutes, Threshold: 300},
			{Level: 2, Description: "累计学习时间达到30小时", Metric: stats.MetricTotalMinutes, Threshold: 1800},
			{Level: 3, Description: "累计学习时间达到100小时", Metric: stats.MetricTotalMinutes, Threshold: 6000},
		},
	},
	{
		ID:          4,
		Name:        "早起的鸟儿真香",
		Description: "清晨的阳光照在你的书本上，知识的光芒照进你的大脑",
		Levels:      tiers(stats.MetricEarlyTasks, "在早上6点前开始%d个任务", 1, 10, 30),
	},
	{
		ID:          5,
		Name:        "连续签到王",
		Description: "学习不是短跑，而是马拉松，你已经证明了自己的耐力",
		Levels:      tiers(stats.MetricStreakDays, "连续%d天完成至少1个任务", 7, 30, 90),
	},
	{
		ID:          6,
		Name:        "计划通！",
		Description: "你的大脑就像一个知识的仓库，不断地囤积着智慧的财富",
		Levels:      tiers(stats.MetricTotalPlans, "创建%d个学习计划", 10, 30, 90),
	},
	{
		ID:          7,
		Name:        "任务粉碎机",
		Description: "我只做计划内的事",
		Levels:      tiers(stats.MetricCompletedPlans, "完成%d个计划中的任务", 5, 20, 60),
	},
	{
		ID:          8,
		Name:        "专注力MAX",
		Description: "在这个充满干扰的世界里，你的专注力就是超能力",
		Levels:      tiers(stats.MetricLongTasks, "完成%d个25分钟以上的任务", 5, 25, 60),
	},
	{
		ID:          9,
		Name:        "周末不摆烂",
		Description: "别人周末在玩耍，你却在知识的海洋里遨游，这才是真正的强者",
		Levels:      tiers(stats.MetricWeekendTasks, "在周末完成%d个任务", 3, 15, 40),
	},
	{
		ID:          10,
		Name:        "学习机器人",
		Description: "你对知识的渴望让人敬畏，你的大脑永不满足，学习永不停歇",
		Levels:      tiers(stats.MetricMaxDailyTasks, "单日完成%d个任务", 5, 10, 20),
	},
	{
		ID:          11,
		Name:        "凯恩斯亲传弟子",
		Description: "祖师爷给你的学习成就一点小小的刺激",
		Levels:      keywordTiers(stats.MetricEconomicsTasks, `"经济"`),
	},
	{
		ID:          12,
		Name:        "数学小天才",
		Description: "数字和公式在你手中如同魔法，揭示世界的奥秘",
		Levels:      keywordTiers(stats.MetricMathStatsTasks, `"数学"或"统计"`),
	},
	{
		ID:          13,
		Name:        "英语小达人",
		Description: "语言是沟通的桥梁，你已经掌握了这把打开世界的钥匙",
		Levels:      keywordTiers(stats.MetricEnglishTasks, `"英语"`),
	},
	{
		ID:          14,
		Name:        "央行行长候选人",
		Description: "你对货币和银行体系的理解让央行行长都自愧不如",
		Levels:      keywordTiers(stats.MetricMoneyBankingTasks, `"货币"或"银行"`),
	},
	{
		ID:          15,
		Name:        "华尔街之狼",
		Description: "你对金融理论的理解深入骨髓，成为你思考的基础",
		Levels:      keywordTiers(stats.MetricFinanceTasks, `"金融"`),
	},
	{
		ID:          16,
		Name:        "会计界的扫地僧",
		Description: "数字背后是企业的命脉，你已经掌握了解读它们的能力",
		Levels:      keywordTiers(stats.MetricAccountingTasks, `"财务"或"会计"`),
	},
	{
		ID:          17,
		Name:        "牛回速归！",
		Description: "你对投资理论的掌握让你能够在任何市场环境中找到机会",
		Levels:      keywordTiers(stats.MetricInvestmentTasks, `"投资"`),
	},
	{
		ID:          18,
		Name:        "考研战神",
		Description: "考研路上的每一步都充满挑战，而你正在勇敢前行",
		Levels:      keywordTiers(stats.MetricExamPrepTasks, `"考研"`),
	},
	{
		ID:          KnowledgeIsPowerID,
		Name:        "知识就是力量",
		Description: "你的学习范围广泛而深入，是真正的知识探索者",
		Levels:      tiers(stats.MetricTotalAchievements, "获得%d个其他成就", 5, 10, 18),
	},
	{
		ID:          LifeWinnerID,
		Name:        "人生赢家",
		Description: "你已经征服了所有挑战，站在了知识的巅峰，未来将属于你",
		Levels:      tiers(stats.MetricUnlockedAchievements, "解锁%d个成就", 8, 15, 19),
	},
}

// All returns a copy of the catalog in ID order.
func All() []Achievement {
	out := make([]Achievement, len(catalog))
	for i, a := range catalog {
		a.Levels = append([]Level(nil), a.Levels...)
		out[i] = a
	}
	return out
}

// ByID looks up an achievement definition.
func ByID(id int) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			a.Levels = append([]Level(nil), a.Levels...)
			return a, true
		}
	}
	return Achievement{}, false
}
