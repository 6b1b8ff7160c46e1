package database

// Table name prefixes group tables by module so several modules can share
// one database.
const (
	PrefixCommon = "common_"
	PrefixStudy  = "study_"
	PrefixCourse = "course_"
	PrefixRank   = "rank_"
	PrefixQuiz   = "quiz_"
)

const (
	UsersTable        = PrefixCommon + "users"
	TasksTable        = PrefixStudy + "tasks"
	PlansTable        = PrefixStudy + "plans"
	AchievementsTable = PrefixStudy + "achievements"
)

type tableDef struct {
	model      interface{}
	name       string
	references bool
}

// schema lists tables in creation order. Tables that reference users get an
// ON DELETE CASCADE foreign key.
var schema = []tableDef{
	{model: (*UserModel)(nil), name: UsersTable},
	{model: (*TaskModel)(nil), name: TasksTable, references: true},
	{model: (*PlanModel)(nil), name: PlansTable, references: true},
	{model: (*AchievementModel)(nil), name: AchievementsTable, references: true},
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_study_tasks_user_id ON study_tasks(user_id);",
	"CREATE INDEX IF NOT EXISTS idx_study_tasks_user_start ON study_tasks(user_id, start_time);",
	"CREATE INDEX IF NOT EXISTS idx_study_plans_user_id ON study_plans(user_id);",
	"CREATE INDEX IF NOT EXISTS idx_study_achievements_user_id ON study_achievements(user_id);",
	"CREATE INDEX IF NOT EXISTS idx_common_users_verification_token ON common_users(verification_token) WHERE verification_token IS NOT NULL;",
}

// AppTables returns the application tables in dependency order, children first.
func AppTables() []string {
	out := make([]string, 0, len(schema))
	for i := len(schema) - 1; i >= 0; i-- {
		out = append(out, schema[i].name)
	}
	return out
}
