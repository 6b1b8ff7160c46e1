package stats

// Metric names a counter in UserStats. Its string form is the JSON key used
// in the achievements response.
type Metric string

const (
	MetricTotalTasks           Metric = "total_tasks"
	MetricTotalMinutes         Metric = "total_minutes"
	MetricNightTasks           Metric = "night_tasks"
	MetricEarlyTasks           Metric = "early_tasks"
	MetricWeekendTasks         Metric = "weekend_tasks"
	MetricLongTasks            Metric = "long_tasks"
	MetricMaxDailyTasks        Metric = "max_daily_tasks"
	MetricStreakDays           Metric = "streak_days"
	MetricTotalPlans           Metric = "total_plans"
	MetricCompletedPlans       Metric = "completed_plans"
	MetricEconomicsTasks       Metric = "economics_tasks"
	MetricMathStatsTasks       Metric = "math_stats_tasks"
	MetricEnglishTasks         Metric = "english_tasks"
	MetricMoneyBankingTasks    Metric = "money_banking_tasks"
	MetricFinanceTasks         Metric = "finance_tasks"
	MetricAccountingTasks      Metric = "accounting_tasks"
	MetricInvestmentTasks      Metric = "investment_tasks"
	MetricExamPrepTasks        Metric = "exam_prep_tasks"
	MetricTotalAchievements    Metric = "total_achievements"
	MetricUnlockedAchievements Metric = "unlocked_achievements"
)

// UserStats is the flat set of counters achievements are evaluated against.
type UserStats struct {
	TotalTasks           int `json:"total_tasks"`
	TotalMinutes         int `json:"total_minutes"`
	NightTasks           int `json:"night_tasks"`
	EarlyTasks           int `json:"early_tasks"`
	WeekendTasks         int `json:"weekend_tasks"`
	LongTasks            int `json:"long_tasks"`
	MaxDailyTasks        int `json:"max_daily_tasks"`
	StreakDays           int `json:"streak_days"`
	TotalPlans           int `json:"total_plans"`
	CompletedPlans       int `json:"completed_plans"`
	EconomicsTasks       int `json:"economics_tasks"`
	MathStatsTasks       int `json:"math_stats_tasks"`
	EnglishTasks         int `json:"english_tasks"`
	MoneyBankingTasks    int `json:"money_banking_tasks"`
	FinanceTasks         int `json:"finance_tasks"`
	AccountingTasks      int `json:"accounting_tasks"`
	InvestmentTasks      int `json:"investment_tasks"`
	ExamPrepTasks        int `json:"exam_prep_tasks"`
	TotalAchievements    int `json:"total_achievements"`
	UnlockedAchievements int `json:"unlocked_achievements"`
}

func (s *UserStats) counter(m Metric) *int {
	switch m {
	case MetricTotalTasks:
		return &s.TotalTasks
	case MetricTotalMinutes:
		return &s.TotalMinutes
	case MetricNightTasks:
		return &s.NightTasks
	case MetricEarlyTasks:
		return &s.EarlyTasks
	case MetricWeekendTasks:
		return &s.WeekendTasks
	case MetricLongTasks:
		return &s.LongTasks
	case MetricMaxDailyTasks:
		return &s.MaxDailyTasks
	case MetricStreakDays:
		return &s.StreakDays
	case MetricTotalPlans:
		return &s.TotalPlans
	case MetricCompletedPlans:
		return &s.CompletedPlans
	case MetricEconomicsTasks:
		return &s.EconomicsTasks
	case MetricMathStatsTasks:
		return &s.MathStatsTasks
	case MetricEnglishTasks:
		return &s.EnglishTasks
	case MetricMoneyBankingTasks:
		return &s.MoneyBankingTasks
	case MetricFinanceTasks:
		return &s.FinanceTasks
	case MetricAccountingTasks:
		return &s.AccountingTasks
	case MetricInvestmentTasks:
		return &s.InvestmentTasks
	case MetricExamPrepTasks:
		return &s.ExamPrepTasks
	case MetricTotalAchievements:
		return &s.TotalAchievements
	case MetricUnlockedAchievements:
		return &s.UnlockedAchievements
	}
	return nil
}

// Value returns the counter for m, or 0 for an unknown metric.
func (s UserStats) Value(m Metric) int {
	if p := s.counter(m); p != nil {
		return *p
	}
	return 0
}

// Set overwrites the counter for m. Unknown metrics are ignored.
func (s *UserStats) Set(m Metric, v int) {
	if p := s.counter(m); p != nil {
		*p = v
	}
}
