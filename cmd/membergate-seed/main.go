// Command membergate-seed loads account and dataset fixtures into Redis.
//
// The fixture file is JSON:
//
//	{
//	  "accounts": [
//	    {
//	      "email": "member@example.com",
//	      "username": "member",
//	      "password": "plaintext-to-hash",
//	      "permissions": {
//	        "bbcor_data": [{"expires_at": "2027-01-01T00:00:00Z"}]
//	      }
//	    }
//	  ],
//	  "datasets": {
//	    "bbcor_data": {"bats": []}
//	  }
//	}
//
// Plaintext passwords are hashed with argon2id on the way in. Accounts
// may instead carry a pre-computed "password_hash" (argon2id PHC or a
// WordPress portable hash), which is stored verbatim. Missing account
// IDs are filled with fresh UUIDs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	membergate "github.com/batdigest/membergate"
	"github.com/batdigest/membergate/account"
	"github.com/batdigest/membergate/dataset"
	"github.com/batdigest/membergate/entitlement"
	"github.com/batdigest/membergate/password"
)

type fixtureAccount struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Username     string              `json:"username"`
	Password     string              `json:"password"`
	PasswordHash string              `json:"password_hash"`
	Permissions  entitlement.History `json:"permissions"`
}

type fixture struct {
	Accounts []fixtureAccount           `json:"accounts"`
	Datasets map[string]json.RawMessage `json:"datasets"`
}

func main() {
	var (
		redisAddr     = flag.String("redis", "localhost:6379", "redis address")
		redisPassword = flag.String("redis-password", "", "redis password")
		file          = flag.String("file", "fixtures.json", "fixture file")
		accountPrefix = flag.String("account-prefix", "user", "account key prefix")
		dataPrefix    = flag.String("data-prefix", "data", "dataset key prefix")
	)
	flag.Parse()

	if err := run(*redisAddr, *redisPassword, *file, *accountPrefix, *dataPrefix); err != nil {
		log.Fatal(err)
	}
}

func run(redisAddr, redisPassword, file, accountPrefix, dataPrefix string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
	})
	defer func() { _ = rdb.Close() }()

	verifier, err := password.NewVerifier(membergate.DefaultConfig().Password)
	if err != nil {
		return err
	}

	accounts := account.NewStore(rdb, accountPrefix)
	datasets := dataset.NewStore(rdb, dataPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, fa := range fx.Accounts {
		if fa.Email == "" {
			return fmt.Errorf("account without email in fixture")
		}

		hash := fa.PasswordHash
		if hash == "" {
			if fa.Password == "" {
				return fmt.Errorf("account %s has neither password nor password_hash", fa.Email)
			}
			hash, err = verifier.Hash(fa.Password)
			if err != nil {
				return fmt.Errorf("hash for %s: %w", fa.Email, err)
			}
		}

		id := fa.ID
		if id == "" {
			id = uuid.NewString()
		}

		rec := &account.Record{
			ID:           id,
			Email:        fa.Email,
			Username:     fa.Username,
			PasswordHash: hash,
			Permissions:  fa.Permissions,
		}
		if err := accounts.Put(ctx, rec); err != nil {
			return fmt.Errorf("store account %s: %w", fa.Email, err)
		}
		log.Printf("seeded account %s (%s)", fa.Email, id)
	}

	for key, payload := range fx.Datasets {
		category := entitlement.Key(key)
		if !entitlement.Known(category) {
			return fmt.Errorf("unknown dataset category %q", key)
		}
		if err := datasets.Put(ctx, category, payload); err != nil {
			return fmt.Errorf("store dataset %s: %w", key, err)
		}
		log.Printf("seeded dataset %s (%d bytes)", key, len(payload))
	}

	return nil
}
