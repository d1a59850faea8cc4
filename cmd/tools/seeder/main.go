package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedPricingSettings(db)
	seedDonations(db)

	log.Println("Seeding completed successfully!")
}

func seedPricingSettings(db *sql.DB) {
	_, err := db.Exec(`
		INSERT INTO pricing_settings (
			vendor, markup_mode, markup_fixed_cents, markup_percent,
			share_mode, donation_fixed_cents, donation_percent_of_markup, currency
		) VALUES ('sinalite', 'fixed', 300, 0, 'fixed', 100, 0, 'usd')
		ON CONFLICT (vendor) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed pricing settings: %v", err)
	}
	log.Println("Seeded pricing settings for sinalite")
}

func seedDonations(db *sql.DB) {
	demo := []struct {
		donorID string
		name    string
		email   string
		cents   int64
	}{
		{"donor-demo-1", "Ada Lovelace", "ada@example.com", 2500},
		{"donor-demo-1", "Ada Lovelace", "ada@example.com", 8000},
		{"donor-demo-2", "Grace Hopper", "grace@example.com", 12000},
	}
	for _, d := range demo {
		_, err := db.Exec(`
			INSERT INTO donations (id, donor_id, donor_name, donor_email, amount_cents, currency, order_ref)
			VALUES ($1, $2, $3, $4, $5, 'usd', '')
			ON CONFLICT (id) DO NOTHING;
		`, uuid.NewString(), d.donorID, d.name, d.email, d.cents)
		if err != nil {
			log.Fatalf("Failed to seed donation for %s: %v", d.donorID, err)
		}
	}
	log.Printf("Seeded %d demo donations", len(demo))
}
