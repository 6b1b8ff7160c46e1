package stats

import "strings"

// Subject maps a subject counter to the keywords that classify a task into it.
// A task may match several subjects.
type Subject struct {
	Metric   Metric
	Keywords []string
}

var Subjects = []Subject{
	{Metric: MetricEconomicsTasks, Keywords: []string{"经济"}},
	{Metric: MetricMathStatsTasks, Keywords: []string{"数学", "统计"}},
	{Metric: MetricEnglishTasks, Keywords: []string{"英语"}},
	{Metric: MetricMoneyBankingTasks, Keywords: []string{"货币", "银行"}},
	{Metric: MetricFinanceTasks, Keywords: []string{"金融"}},
	{Metric: MetricAccountingTasks, Keywords: []string{"财务", "会计"}},
	{Metric: MetricInvestmentTasks, Keywords: []string{"投资"}},
	{Metric: MetricExamPrepTasks, Keywords: []string{"考研"}},
}

// Matches reports whether name contains any of the subject's keywords.
func (s Subject) Matches(name string) bool {
	for _, kw := range s.Keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
