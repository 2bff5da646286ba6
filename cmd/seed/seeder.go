// Package main seeds a database with demo records. Selected seeders run
// together inside one transaction.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/agent-console/pkg/repository"
)

// Options carries per-run settings shared by every seeder.
type Options struct {
	Owner string
	File  string
}

// Seeder populates one domain's records and reports how many it wrote.
type Seeder interface {
	Name() string
	Description() string
	Seed(ctx context.Context, tx *sql.Tx, opts Options) (int, error)
}

var seeders = map[string]Seeder{}

func registerSeeder(s Seeder) {
	seeders[s.Name()] = s
}

// listSeeders returns the registered seeders ordered by name.
func listSeeders() []Seeder {
	result := make([]Seeder, 0, len(seeders))
	for _, s := range seeders {
		result = append(result, s)
	}
	slices.SortFunc(result, func(a, b Seeder) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return result
}

// resolve maps names to seeders; an empty list selects all of them.
func resolve(names []string) ([]Seeder, error) {
	if len(names) == 0 {
		return listSeeders(), nil
	}

	selected := make([]Seeder, 0, len(names))
	for _, name := range names {
		s, ok := seeders[name]
		if !ok {
			return nil, fmt.Errorf("seeder not found: %s", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// run executes the named seeders in one transaction and returns the
// record count per seeder. Any failure rolls back every seeder.
func run(ctx context.Context, db *sql.DB, names []string, opts Options) (map[string]int, error) {
	selected, err := resolve(names)
	if err != nil {
		return nil, err
	}

	return repository.WithTx(ctx, db, func(tx *sql.Tx) (map[string]int, error) {
		counts := make(map[string]int, len(selected))
		for _, s := range selected {
			n, err := s.Seed(ctx, tx, opts)
			if err != nil {
				return nil, fmt.Errorf("seed %s: %w", s.Name(), err)
			}
			counts[s.Name()] = n
		}
		return counts, nil
	})
}
