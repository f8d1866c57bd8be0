package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"catering/internal/database"
	"catering/internal/domain/booking"
	"catering/internal/repository"
)

// fallback_list prints bookings parked in the local fallback cache so
// support can re-enter them by hand. With DATABASE_URL set, each entry also
// reports whether the primary store already holds its reference.
func main() {
	status := flag.String("status", string(booking.StatusPendingSubmission), "entry status to list, empty for all")
	limit := flag.Int("limit", 50, "maximum entries")
	reference := flag.String("reference", "", "print a single entry")
	flag.Parse()

	dsn := os.Getenv("LOCAL_STORE_DSN")
	if dsn == "" {
		log.Fatal("LOCAL_STORE_DSN is required")
	}

	db, err := database.Connect(dsn, database.Options{Quiet: true})
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	repo := repository.NewFallbackRepository(db)
	ctx := context.Background()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *reference != "" {
		entry, err := repo.Get(ctx, *reference)
		if err != nil {
			log.Fatalf("lookup %s failed: %v", *reference, err)
		}
		_ = enc.Encode(entry)
		return
	}

	entries, err := repo.List(ctx, booking.Status(*status), *limit)
	if err != nil {
		log.Fatalf("list fallback bookings failed: %v", err)
	}

	primaryDSN := os.Getenv("DATABASE_URL")
	if primaryDSN == "" {
		_ = enc.Encode(entries)
		log.Printf("fallback list completed: status=%q count=%d", *status, len(entries))
		return
	}

	primaryDB, err := database.Connect(primaryDSN, database.Options{Quiet: true})
	if err != nil {
		log.Fatalf("primary db connect failed: %v", err)
	}
	parked, err := repository.NewBookingRepository(primaryDB).MatchParked(ctx, entries)
	if err != nil {
		log.Fatalf("match against primary failed: %v", err)
	}
	pending := 0
	for _, p := range parked {
		if !p.InPrimary {
			pending++
		}
	}
	_ = enc.Encode(parked)
	log.Printf("fallback list completed: status=%q count=%d not_in_primary=%d", *status, len(parked), pending)
}
