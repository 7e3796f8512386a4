// Command token issues a signed access token for local testing and
// operator scripts.  The secret is read from JWT_SECRET (a .env file in
// the working directory is honoured).
//
//	token -user 42 -role admin -ttl 2h
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/event-lodging/internal/utils"
)

func main() {
	userID := flag.Uint64("user", 0, "user id placed in the sub claim")
	role := flag.String("role", "participant", "role claim (admin, organizer, participant, ...)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	asJSON := flag.Bool("json", false, "print the token and its expiry as JSON")
	flag.Parse()

	if err := run(*userID, *role, *ttl, *asJSON); err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
}

func run(userID uint64, role string, ttl time.Duration, asJSON bool) error {
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if userID == 0 {
		return fmt.Errorf("-user is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("-ttl must be positive")
	}
	tok, err := utils.NewAccessToken(secret, userID, role, ttl)
	if err != nil {
		return err
	}
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(tok)
	}
	fmt.Println(tok.Token)
	return nil
}
