package seeders

import (
	"log"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/model"
	"gorm.io/gorm"
)

// MissionSeeder handles seeding missions and their payloads
type MissionSeeder struct {
	db *gorm.DB
}

// NewMissionSeeder creates a new mission seeder
func NewMissionSeeder(db *gorm.DB) *MissionSeeder {
	return &MissionSeeder{db: db}
}

// SeedMissions seeds the BASICS missions with tasks, quizzes and articles
func (s *MissionSeeder) SeedMissions() error {
	for _, mission := range s.getMissions() {
		var existing model.Mission
		if err := s.db.Where("id = ?", mission.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&mission).Error; err != nil {
					log.Printf("Error creating mission %s: %v", mission.Title, err)
					return err
				}
				log.Printf("Created mission: %s", mission.Title)
			} else {
				log.Printf("Error checking mission %s: %v", mission.Title, err)
				return err
			}
		} else {
			log.Printf("Mission %s already exists, skipping", mission.Title)
		}
	}

	log.Println("Mission seeding completed successfully")
	return nil
}

func (s *MissionSeeder) getMissions() []model.Mission {
	now := time.Now()

	return []model.Mission{
		{
			ID:          "mis_basics_hello",
			ModuleID:    "mod_basics",
			SprintID:    strPtr("sprint_basics_1"),
			Order:       1,
			Type:        "ARTICLE",
			Title:       "How Python Runs Your Code",
			ShortDesc:   "Interpreter, scripts and the REPL.",
			Description: "A short read on what happens between hitting Run and seeing output.",
			Difficulty:  "BEGINNER",
			EtaMinutes:  5,
			XP:          25,
			CreatedAt:   now,
			UpdatedAt:   now,
			Article: &model.Article{
				MissionID: "mis_basics_hello",
				Tags:      jsonArray([]string{"interpreter", "basics"}),
				Blocks: jsonArray([]string{
					"Python is an interpreted language: the interpreter reads your file top to bottom and executes each statement as it goes.",
					"The REPL (read-eval-print loop) lets you try single expressions interactively before committing them to a script.",
				}),
				Summary:   "The interpreter executes statements top to bottom; the REPL is your scratchpad.",
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			ID:          "mis_basics_print",
			ModuleID:    "mod_basics",
			SprintID:    strPtr("sprint_basics_1"),
			Order:       2,
			Type:        "TASK",
			Title:       "Greet the World",
			ShortDesc:   "Your first print call.",
			Description: "Read a name from input and print a greeting in the form 'Hello, <name>!'.",
			Requirements: jsonArray([]string{
				"Read one line from standard input",
				"Print exactly: Hello, <name>!",
			}),
			Hints: jsonArray([]string{
				"input() returns a string without the trailing newline",
			}),
			Difficulty: "BEGINNER",
			EtaMinutes: 6,
			XP:         50,
			CreatedAt:  now,
			UpdatedAt:  now,
			Task: &model.Task{
				MissionID:   "mis_basics_print",
				Language:    "python",
				StarterCode: "name = input()\n# print the greeting below\n",
				CreatedAt:   now,
				UpdatedAt:   now,
				TestCases: []model.TaskTestCase{
					{ID: "tc_print_1", TaskID: "mis_basics_print", Order: 1, Input: "Ada", ExpectedOutput: "Hello, Ada!", IsPublic: true},
					{ID: "tc_print_2", TaskID: "mis_basics_print", Order: 2, Input: "Guido", ExpectedOutput: "Hello, Guido!", IsPublic: true},
					{ID: "tc_print_3", TaskID: "mis_basics_print", Order: 3, Input: "world", ExpectedOutput: "Hello, world!", IsPublic: false},
					{ID: "tc_print_4", TaskID: "mis_basics_print", Order: 4, Input: "", ExpectedOutput: "Hello, !", IsPublic: false},
				},
			},
		},
		{
			ID:          "mis_basics_arith",
			ModuleID:    "mod_basics",
			SprintID:    strPtr("sprint_basics_1"),
			Order:       3,
			Type:        "TASK",
			Title:       "Split the Bill",
			ShortDesc:   "Integer division and remainders.",
			Description: "Given a total in cents and a party size, print the even share and the leftover cents on separate lines.",
			Requirements: jsonArray([]string{
				"First input line: total in cents",
				"Second input line: party size",
				"Print share then remainder, each on its own line",
			}),
			Hints: jsonArray([]string{
				"// and % are your friends",
			}),
			Difficulty: "BEGINNER",
			EtaMinutes: 8,
			XP:         50,
			CreatedAt:  now,
			UpdatedAt:  now,
			Task: &model.Task{
				MissionID:   "mis_basics_arith",
				Language:    "python",
				StarterCode: "total = int(input())\npeople = int(input())\n",
				CreatedAt:   now,
				UpdatedAt:   now,
				TestCases: []model.TaskTestCase{
					{ID: "tc_arith_1", TaskID: "mis_basics_arith", Order: 1, Input: "1000\n3", ExpectedOutput: "333\n1", IsPublic: true},
					{ID: "tc_arith_2", TaskID: "mis_basics_arith", Order: 2, Input: "500\n5", ExpectedOutput: "100\n0", IsPublic: true},
					{ID: "tc_arith_3", TaskID: "mis_basics_arith", Order: 3, Input: "7\n2", ExpectedOutput: "3\n1", IsPublic: false},
				},
			},
		},
		{
			ID:          "mis_basics_quiz1",
			ModuleID:    "mod_basics",
			SprintID:    strPtr("sprint_basics_1"),
			Order:       4,
			Type:        "QUIZ",
			Title:       "Variables and Types Check",
			ShortDesc:   "Five quick questions.",
			Description: "Checkpoint quiz on variables, assignment and basic types.",
			Difficulty:  "BEGINNER",
			EtaMinutes:  5,
			XP:          40,
			CreatedAt:   now,
			UpdatedAt:   now,
			QuizQuestions: []model.QuizQuestion{
				{
					ID:        "qq_basics_1",
					MissionID: "mis_basics_quiz1",
					Order:     1,
					Title:     "Types",
					Prompt:    "What is the type of the value produced by input()?",
					Options: []model.QuizOption{
						{ID: "qo_basics_1a", QuestionID: "qq_basics_1", Order: 1, Label: "str", IsCorrect: true},
						{ID: "qo_basics_1b", QuestionID: "qq_basics_1", Order: 2, Label: "int", IsCorrect: false},
						{ID: "qo_basics_1c", QuestionID: "qq_basics_1", Order: 3, Label: "depends on what the user types", IsCorrect: false},
					},
				},
				{
					ID:        "qq_basics_2",
					MissionID: "mis_basics_quiz1",
					Order:     2,
					Title:     "Division",
					Prompt:    "What does 7 // 2 evaluate to?",
					Options: []model.QuizOption{
						{ID: "qo_basics_2a", QuestionID: "qq_basics_2", Order: 1, Label: "3.5", IsCorrect: false},
						{ID: "qo_basics_2b", QuestionID: "qq_basics_2", Order: 2, Label: "3", IsCorrect: true},
						{ID: "qo_basics_2c", QuestionID: "qq_basics_2", Order: 3, Label: "4", IsCorrect: false},
					},
				},
				{
					ID:        "qq_basics_3",
					MissionID: "mis_basics_quiz1",
					Order:     3,
					Title:     "Naming",
					Prompt:    "Which of these is a valid variable name?",
					Options: []model.QuizOption{
						{ID: "qo_basics_3a", QuestionID: "qq_basics_3", Order: 1, Label: "2nd_place", IsCorrect: false},
						{ID: "qo_basics_3b", QuestionID: "qq_basics_3", Order: 2, Label: "total_sum", IsCorrect: true},
						{ID: "qo_basics_3c", QuestionID: "qq_basics_3", Order: 3, Label: "for", IsCorrect: false},
					},
				},
			},
		},
		{
			ID:          "mis_basics_bugfix",
			ModuleID:    "mod_basics",
			SprintID:    strPtr("sprint_basics_2"),
			Order:       1,
			Type:        "BUGFIX",
			Title:       "The Off-By-One Countdown",
			ShortDesc:   "Fix a broken loop.",
			Description: "This countdown is supposed to print 5 down to 1 but skips a number. Find and fix the bug.",
			Hints: jsonArray([]string{
				"Check the range() boundaries",
			}),
			Difficulty: "BEGINNER",
			EtaMinutes: 7,
			XP:         60,
			CreatedAt:  now,
			UpdatedAt:  now,
			Task: &model.Task{
				MissionID:   "mis_basics_bugfix",
				Language:    "python",
				StarterCode: "for i in range(5, 1, -1):\n    print(i)\n",
				CreatedAt:   now,
				UpdatedAt:   now,
				TestCases: []model.TaskTestCase{
					{ID: "tc_bugfix_1", TaskID: "mis_basics_bugfix", Order: 1, Input: "", ExpectedOutput: "5\n4\n3\n2\n1", IsPublic: true},
				},
			},
		},
		{
			ID:          "mis_basics_fizz",
			ModuleID:    "mod_basics",
			SprintID:    strPtr("sprint_basics_2"),
			Order:       2,
			Type:        "TASK",
			Title:       "Fizz Buzz Classic",
			ShortDesc:   "Conditionals in a loop.",
			Description: "Read n and print the Fizz Buzz sequence from 1 to n, one entry per line.",
			Requirements: jsonArray([]string{
				"Multiples of 3 print Fizz, multiples of 5 print Buzz",
				"Multiples of both print FizzBuzz",
			}),
			Difficulty: "BEGINNER",
			EtaMinutes: 10,
			XP:         75,
			CreatedAt:  now,
			UpdatedAt:  now,
			Task: &model.Task{
				MissionID:   "mis_basics_fizz",
				Language:    "python",
				StarterCode: "n = int(input())\n",
				CreatedAt:   now,
				UpdatedAt:   now,
				TestCases: []model.TaskTestCase{
					{ID: "tc_fizz_1", TaskID: "mis_basics_fizz", Order: 1, Input: "5", ExpectedOutput: "1\n2\nFizz\n4\nBuzz", IsPublic: true},
					{ID: "tc_fizz_2", TaskID: "mis_basics_fizz", Order: 2, Input: "15", ExpectedOutput: "1\n2\nFizz\n4\nBuzz\nFizz\n7\n8\nFizz\nBuzz\n11\nFizz\n13\n14\nFizzBuzz", IsPublic: true},
					{ID: "tc_fizz_3", TaskID: "mis_basics_fizz", Order: 3, Input: "1", ExpectedOutput: "1", IsPublic: false},
					{ID: "tc_fizz_4", TaskID: "mis_basics_fizz", Order: 4, Input: "3", ExpectedOutput: "1\n2\nFizz", IsPublic: false},
				},
			},
		},
		{
			ID:          "mis_basics_skill",
			ModuleID:    "mod_basics",
			SprintID:    strPtr("sprint_basics_3"),
			Order:       1,
			Type:        "SKILL_TEST",
			Title:       "Basics Skill Test",
			ShortDesc:   "Timed wrap-up challenge.",
			Description:      "Read a list of integers on one line and print the largest even value, or NONE if there is none.",
			Difficulty:       "BEGINNER",
			EtaMinutes:       15,
			XP:               150,
			TimeLimitSeconds: intPtr(900),
			CreatedAt:        now,
			UpdatedAt:        now,
			Task: &model.Task{
				MissionID:   "mis_basics_skill",
				Language:    "python",
				StarterCode: "values = [int(x) for x in input().split()]\n",
				CreatedAt:   now,
				UpdatedAt:   now,
				TestCases: []model.TaskTestCase{
					{ID: "tc_skill_1", TaskID: "mis_basics_skill", Order: 1, Input: "3 8 5 12 7", ExpectedOutput: "12", IsPublic: true},
					{ID: "tc_skill_2", TaskID: "mis_basics_skill", Order: 2, Input: "1 3 5", ExpectedOutput: "NONE", IsPublic: true},
					{ID: "tc_skill_3", TaskID: "mis_basics_skill", Order: 3, Input: "-4 -2 -6", ExpectedOutput: "-2", IsPublic: false},
					{ID: "tc_skill_4", TaskID: "mis_basics_skill", Order: 4, Input: "0", ExpectedOutput: "0", IsPublic: false},
				},
			},
		},
	}
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
