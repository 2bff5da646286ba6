package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/JaimeStill/agent-console/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	EnvDatabaseDSN = "DATABASE_DSN"
	EnvSeedOwner   = "SEED_OWNER"
)

func main() {
	var (
		dsn   = flag.String("dsn", "", "Database connection string (defaults to config.toml)")
		dir   = flag.String("config", ".", "directory containing config.toml")
		only  = flag.String("only", "", "Comma-separated seeders to run (default all)")
		owner = flag.String("owner", "", "Owner id the seeded records belong to")
		file  = flag.String("file", "", "External seed file (overrides embedded)")
		list  = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range listSeeders() {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	opts := Options{Owner: *owner, File: *file}
	if opts.Owner == "" {
		opts.Owner = os.Getenv(EnvSeedOwner)
	}
	if opts.Owner == "" {
		log.Fatalf("owner required: use -owner flag or %s env var", EnvSeedOwner)
	}

	var names []string
	if *only != "" {
		names = strings.Split(*only, ",")
	}

	db, err := sql.Open("pgx", resolveDSN(*dsn, *dir))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	counts, err := run(ctx, db, names, opts)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	for name, n := range counts {
		fmt.Printf("%s: %d records\n", name, n)
	}
}

func resolveDSN(flagValue, dir string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		return v
	}

	cfg, err := config.Load(dir)
	if err != nil {
		log.Fatalf("database connection string required: use -dsn, %s or a valid config.toml: %v", EnvDatabaseDSN, err)
	}
	return cfg.Database.Dsn()
}
