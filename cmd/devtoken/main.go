// Command devtoken prints a signed bearer token for local use.
//
//	AUTH_JWT_SECRET=dev-secret go run ./cmd/devtoken -user 1 -admin
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/config"
	"github.com/fastprodman/pointledger/pkg/envconf"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	userID := fs.Int64("user", 0, "user id to put in the subject claim")
	admin := fs.Bool("admin", false, "grant admin rights")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")

	err := fs.Parse(args)
	if err != nil {
		return err
	}

	if *userID <= 0 {
		return fmt.Errorf("-user must be a positive id")
	}

	cfg := new(config.AuthConfig)

	err = envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.Issuer)
	if err != nil {
		return fmt.Errorf("init tokens: %w", err)
	}

	token, err := tokens.Issue(auth.Caller{UserID: *userID, IsAdmin: *admin}, *ttl)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Println(token)

	return nil
}
