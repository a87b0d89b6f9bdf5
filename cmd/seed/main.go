// Command main runs the database seeder for Glimpse.
package main

import (
	"flag"
	"log"

	"glimpse/internal/config"
	"glimpse/internal/database"
	"glimpse/internal/seed"
)

func main() {
	// Parse command line flags
	numAccounts := flag.Int("accounts", 50, "Number of accounts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev fast mode)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d accounts, clean=%v", *numAccounts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	s := seed.NewSeederWithOptions(db, seed.SeedOptions{
		DryRun:     *dryRun,
		SkipBcrypt: *skipBcrypt,
		MaxDays:    90,
	})

	if *shouldClean && !*dryRun {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	accounts, err := s.SeedAccounts(*numAccounts)
	if err != nil {
		log.Fatalf("Account seeding failed: %v", err)
	}

	if _, err := s.SeedFollowMesh(accounts); err != nil {
		log.Fatalf("Follow mesh seeding failed: %v", err)
	}

	log.Println("All done! The database is now populated with test data.")
	log.Println("All test accounts have the password: password123")
}
