// seed inserts a handful of test students into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/southville8b/student-portal/internal/infrastructure/postgres"
	"github.com/southville8b/student-portal/internal/password"
)

type studentSpec struct {
	lrn       string
	email     string
	firstName string
	lastName  string
	strand    string
	yearLevel string
	// plaintext password for the seeded account; empty means OTP-only
	password string
	// hashed controls whether the password is stored bcrypt-hashed or
	// left plaintext to exercise the legacy-credential path
	hashed    bool
	trackCode string
}

var students = []studentSpec{
	// Normal account with a properly hashed password
	{"136801100042", "juan.delacruz@test.local", "Juan", "Dela Cruz", "STEM", "Grade 11", "password123", true, "TRK-2026-0001"},

	// Legacy account: plaintext credential, upgraded on first login when
	// AUTO_HASH_PASSWORDS is set
	{"136801100043", "maria.santos@test.local", "Maria", "Santos", "ABM", "Grade 12", "password123", false, "TRK-2026-0002"},

	// OTP-only account, no password set
	{"136801100044", "pedro.reyes@test.local", "Pedro", "Reyes", "HUMSS", "Grade 11", "", false, "TRK-2026-0003"},
}

func main() {
	ctx := context.Background()

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("load .env: %v", err)
		}
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	for _, spec := range students {
		_, err := pool.Exec(ctx, `
			INSERT INTO student_details (lrn, email, firstname, lastname, strand, yearlevel)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (lrn) DO UPDATE SET updated_at = now()`,
			spec.lrn, spec.email, spec.firstName, spec.lastName, spec.strand, spec.yearLevel,
		)
		if err != nil {
			log.Fatalf("upsert student %s: %v", spec.lrn, err)
		}

		stored := spec.password
		if spec.hashed && stored != "" {
			stored, err = password.Hash(stored)
			if err != nil {
				log.Fatalf("hash password for %s: %v", spec.lrn, err)
			}
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO student_accounts (lrn, password, track_code)
			VALUES ($1, NULLIF($2, ''), $3)
			ON CONFLICT (lrn) DO UPDATE SET
				password = EXCLUDED.password,
				track_code = EXCLUDED.track_code,
				updated_at = now()`,
			spec.lrn, stored, spec.trackCode,
		)
		if err != nil {
			log.Fatalf("upsert account %s: %v", spec.lrn, err)
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Students created: %d\n", len(students))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Password login (hashed credential):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"password123\"}'\n", students[0].email)
	fmt.Println()
	fmt.Println("  OTP login (code is echoed when no RESEND_API_KEY is set):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/request-otp \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\"}'\n", students[2].email)
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/verify-otp \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"otp\":\"CODE\"}'\n", students[2].email)
	fmt.Println()
	fmt.Println("  Then use the returned token:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/student-profile -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Printf("  Track code lookup (no login needed):\n")
	fmt.Println()
	fmt.Printf("    curl -s http://localhost:8080/api/enrollment/%s\n", students[0].trackCode)
}
