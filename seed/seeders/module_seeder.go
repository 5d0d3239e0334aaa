package seeders

import (
	"encoding/json"
	"log"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/model"
	"gorm.io/gorm"
)

// ModuleSeeder handles seeding the module catalog and sprint structure
type ModuleSeeder struct {
	db *gorm.DB
}

// NewModuleSeeder creates a new module seeder
func NewModuleSeeder(db *gorm.DB) *ModuleSeeder {
	return &ModuleSeeder{db: db}
}

// SeedModules seeds the module catalog and the BASICS sprint structure
func (s *ModuleSeeder) SeedModules() error {
	for _, module := range s.getModules() {
		var existing model.Module
		if err := s.db.Where("id = ?", module.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&module).Error; err != nil {
					log.Printf("Error creating module %s: %v", module.Code, err)
					return err
				}
				log.Printf("Created module: %s", module.Code)
			} else {
				log.Printf("Error checking module %s: %v", module.Code, err)
				return err
			}
		} else {
			log.Printf("Module %s already exists, skipping", module.Code)
		}
	}

	for _, sprint := range s.getSprints() {
		var existing model.Sprint
		if err := s.db.Where("id = ?", sprint.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&sprint).Error; err != nil {
					log.Printf("Error creating sprint %s: %v", sprint.Name, err)
					return err
				}
				log.Printf("Created sprint: %s", sprint.Name)
			} else {
				log.Printf("Error checking sprint %s: %v", sprint.Name, err)
				return err
			}
		} else {
			log.Printf("Sprint %s already exists, skipping", sprint.Name)
		}
	}

	log.Println("Module seeding completed successfully")
	return nil
}

func (s *ModuleSeeder) getModules() []model.Module {
	now := time.Now()

	return []model.Module{
		{
			ID:          "mod_basics",
			Code:        "BASICS",
			Name:        "python-basics",
			Title:       "Python Basics",
			Description: "Variables, control flow, functions and collections. The free on-ramp for every other track.",
			Requirements: jsonArray([]string{
				"No prior programming experience required",
			}),
			Category:   "CERTIFICATIONS",
			Difficulty: "BEGINNER",
			IsBuilding: false,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:          "mod_pcep",
			Code:        "PCEP",
			Name:        "pcep-certification",
			Title:       "PCEP — Certified Entry-Level Python Programmer",
			Description: "Exam-oriented track covering the full PCEP-30-02 syllabus with timed skill tests.",
			Requirements: jsonArray([]string{
				"Complete the Python Basics module",
			}),
			Category:   "CERTIFICATIONS",
			Difficulty: "BEGINNER",
			IsBuilding: false,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:          "mod_pcap",
			Code:        "PCAP",
			Name:        "pcap-certification",
			Title:       "PCAP — Certified Associate Python Programmer",
			Description: "Modules, packages, OOP, exceptions and string processing for the PCAP-31-03 exam.",
			Requirements: jsonArray([]string{
				"Complete the PCEP track or equivalent experience",
			}),
			Category:   "CERTIFICATIONS",
			Difficulty: "INTERMEDIATE",
			IsBuilding: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:          "mod_pandas",
			Code:        "PANDAS",
			Name:        "pandas-essentials",
			Title:       "Pandas Essentials",
			Description: "DataFrames, indexing, grouping and joins on real datasets.",
			Requirements: jsonArray([]string{
				"Comfortable with Python functions and collections",
			}),
			Category:   "LIBRARIES",
			Difficulty: "INTERMEDIATE",
			IsBuilding: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}

func (s *ModuleSeeder) getSprints() []model.Sprint {
	now := time.Now()

	return []model.Sprint{
		{
			ID:          "sprint_basics_1",
			ModuleID:    "mod_basics",
			Name:        "first-steps",
			Order:       1,
			Title:       "First Steps",
			Description: "Print, variables and arithmetic.",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "sprint_basics_2",
			ModuleID:    "mod_basics",
			Name:        "control-flow",
			Order:       2,
			Title:       "Control Flow",
			Description: "Conditionals, loops and the debugging mindset.",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "sprint_basics_3",
			ModuleID:    "mod_basics",
			Name:        "functions-and-collections",
			Order:       3,
			Title:       "Functions and Collections",
			Description: "Functions, lists and dictionaries, closed by a timed skill test.",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "sprint_pcep_1",
			ModuleID:    "mod_pcep",
			Name:        "computer-programming-basics",
			Order:       1,
			Title:       "Computer Programming Basics",
			Description: "Compilation vs interpretation, literals, operators.",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func jsonArray(items []string) json.RawMessage {
	data, _ := json.Marshal(items)
	return data
}
