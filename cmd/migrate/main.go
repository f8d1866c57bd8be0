package main

import (
	"log"
	"os"

	"catering/internal/database"
	"catering/internal/repository"
)

// migrate creates the primary bookings table and the local session and
// fallback tables ahead of a deploy.
func main() {
	primaryDSN := os.Getenv("DATABASE_URL")
	localDSN := os.Getenv("LOCAL_STORE_DSN")
	if primaryDSN == "" && localDSN == "" {
		log.Fatal("set DATABASE_URL and/or LOCAL_STORE_DSN")
	}

	if primaryDSN != "" {
		db, err := database.Connect(primaryDSN)
		if err != nil {
			log.Fatal("DB connection failed:", err)
		}
		log.Println("Migrating primary store...")
		if err := repository.MigratePrimary(db); err != nil {
			log.Fatal("Primary migration failed:", err)
		}
	}

	if localDSN != "" {
		db, err := database.Connect(localDSN)
		if err != nil {
			log.Fatal("DB connection failed:", err)
		}
		log.Println("Migrating local store...")
		if err := repository.MigrateLocal(db); err != nil {
			log.Fatal("Local migration failed:", err)
		}
	}

	log.Println("Migration completed")
}
