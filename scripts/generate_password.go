// Generates a bcrypt hash for seeding or resetting marketplace accounts.
//
// Usage: go run scripts/generate_password.go <password>
// The cost factor can be overridden with BCRYPT_COST.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/generate_password.go <password>")
	}

	password := os.Args[1]
	if len(password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cost := bcrypt.DefaultCost
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			log.Fatalf("invalid BCRYPT_COST %q", v)
		}
		cost = n
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		log.Fatal("failed to generate hash:", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		log.Fatal("hash verification failed:", err)
	}

	fmt.Println(string(hash))
}
