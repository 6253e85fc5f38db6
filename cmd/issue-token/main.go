// Command issue-token mints a development bearer token for AUTH_PROVIDER=jwt.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go-inventory-sales/internal/config"
	"go-inventory-sales/pkg/jwt"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "user id placed in the token subject (required)")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", config.GetEnv("JWT_SECRET", ""), "HMAC secret, defaults to JWT_SECRET")
	issuer := flag.String("issuer", config.GetEnv("JWT_ISSUER", "go-inventory-sales"), "issuer claim, defaults to JWT_ISSUER")
	flag.Parse()

	if *userID == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "issue-token: -user and a secret are required")
		flag.Usage()
		os.Exit(2)
	}

	token, err := jwt.GenerateToken([]byte(*secret), *issuer, *userID, *email, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue-token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
