package shared

const (
	UserID = "user_id"

	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"

	StatusPassed = "PASSED"
	StatusFailed = "FAILED"

	MissionTypeTask      = "TASK"
	MissionTypeBugfix    = "BUGFIX"
	MissionTypeQuiz      = "QUIZ"
	MissionTypeArticle   = "ARTICLE"
	MissionTypeSkillTest = "SKILL_TEST"

	CategoryCertifications = "CERTIFICATIONS"
	CategoryLibraries      = "LIBRARIES"

	DifficultyBeginner     = "BEGINNER"
	DifficultyIntermediate = "INTERMEDIATE"
	DifficultyAdvanced     = "ADVANCED"

	LeagueChampions = "Champions"
	LeagueGold      = "Gold"
	LeagueSilver    = "Silver"
	LeagueBronze    = "Bronze"
)

// Module codes that every user can enter without a stored access grant.
var PublicModuleCodes = []string{"BASICS"}

func IsPublicModuleCode(code string) bool {
	for _, c := range PublicModuleCodes {
		if c == code {
			return true
		}
	}
	return false
}
