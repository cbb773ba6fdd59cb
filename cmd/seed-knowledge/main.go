// Seeds a clinic's knowledge snippets and rules into Redis from a JSON file.
//
// Usage:
//
//	seed-knowledge [-replace] <seed-file.json>
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/gvasques77-sys/agent-service/internal/agent"
	appconfig "github.com/gvasques77-sys/agent-service/internal/config"
)

type seedFile struct {
	ClinicID string                   `json:"clinic_id"`
	Rules    *agent.ClinicRules       `json:"rules,omitempty"`
	Snippets []agent.KnowledgeSnippet `json:"snippets"`
}

func main() {
	replace := flag.Bool("replace", false, "replace existing snippets instead of appending")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: seed-knowledge [-replace] <seed-file.json>")
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := appconfig.Load()

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatalf("parse seed file: %v", err)
	}
	if seed.ClinicID == "" {
		log.Fatal("seed file is missing clinic_id")
	}

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOpts)
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if seed.Rules != nil {
		seed.Rules.ClinicID = seed.ClinicID
		if err := agent.NewRedisRulesStore(client).PutRules(ctx, seed.Rules); err != nil {
			log.Fatalf("store rules: %v", err)
		}
		fmt.Printf("stored rules for clinic %s (allow_prices=%v)\n", seed.ClinicID, seed.Rules.AllowPrices)
	}

	store := agent.NewRedisKnowledgeStore(client)
	if *replace {
		err = store.ReplaceSnippets(ctx, seed.ClinicID, seed.Snippets)
	} else {
		err = store.AppendSnippets(ctx, seed.ClinicID, seed.Snippets)
	}
	if err != nil {
		log.Fatalf("store snippets: %v", err)
	}

	fmt.Printf("seeded %d snippets for clinic %s\n", len(seed.Snippets), seed.ClinicID)
}
