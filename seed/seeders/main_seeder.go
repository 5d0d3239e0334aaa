package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// 1. Modules and sprints first (no dependencies)
	moduleSeeder := NewModuleSeeder(s.db)
	if err := moduleSeeder.SeedModules(); err != nil {
		log.Printf("Module seeding failed: %v", err)
		return err
	}

	// 2. Missions and their payloads (depend on sprints)
	missionSeeder := NewMissionSeeder(s.db)
	if err := missionSeeder.SeedMissions(); err != nil {
		log.Printf("Mission seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedModulesOnly seeds only the module catalog
func (s *MainSeeder) SeedModulesOnly() error {
	moduleSeeder := NewModuleSeeder(s.db)
	return moduleSeeder.SeedModules()
}

// SeedMissionsOnly seeds only missions
func (s *MainSeeder) SeedMissionsOnly() error {
	missionSeeder := NewMissionSeeder(s.db)
	return missionSeeder.SeedMissions()
}
