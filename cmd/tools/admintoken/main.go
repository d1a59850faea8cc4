package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/glaadoo/print-power-purpose/internal/auth"
)

func main() {
	subject := flag.String("subject", "admin", "token subject, typically the operator's handle")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		log.Fatal("ADMIN_JWT_SECRET is not set")
	}

	svc, err := auth.NewService(auth.Config{Secret: secret, AccessTokenTTL: *ttl})
	if err != nil {
		log.Fatalf("Failed to initialise signer: %v", err)
	}

	token, expiresAt, err := svc.SignAccessToken(*subject)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
}
