package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/snakecoder-labs/snakecoder_api/seed/seeders"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, modules, missions")
		dsn      = flag.String("dsn", "", "Database DSN (overrides DATABASE_URL env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databaseURL := *dsn
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			log.Fatal("DATABASE_URL is required (or pass -dsn)")
		}
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database")

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "modules":
		log.Println("Seeding modules only...")
		if err := mainSeeder.SeedModulesOnly(); err != nil {
			log.Fatalf("Failed to seed modules: %v", err)
		}
	case "missions":
		log.Println("Seeding missions only...")
		if err := mainSeeder.SeedMissionsOnly(); err != nil {
			log.Fatalf("Failed to seed missions: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'modules' or 'missions'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the SnakeCoder learning platform

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, modules, missions
  -dsn string
        Database DSN (overrides DATABASE_URL environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only the module catalog
  go run seed/main.go -type=modules

Environment Variables:
  DATABASE_URL - Postgres DSN`)
}
