// Command migrate applies or rolls back the embedded schema migrations.
//
//	migrate up            apply every pending migration
//	migrate down          roll back every migration
//	migrate steps -n N    apply N migrations, or roll back -N
//	migrate version       print the current version
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/JaimeStill/agent-console/internal/config"
	"github.com/JaimeStill/agent-console/internal/migrations"
	"github.com/JaimeStill/agent-console/pkg/database"
	"github.com/JaimeStill/agent-console/pkg/logging"
)

func main() {
	dir := flag.String("config", ".", "directory containing config.toml")
	steps := flag.Int("n", 1, "migration count for the steps command")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.Load(*dir)
	if err != nil {
		log.Fatal("config load failed: ", err)
	}
	if cfg.Database.Memory() {
		log.Fatal("migrations require the postgres driver")
	}

	logger := logging.New(&cfg.Logging)

	m, err := database.NewMigrator(&cfg.Database.Config, migrations.FS, migrations.Dir, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(*steps)
	case "version":
		var (
			v     uint
			dirty bool
		)
		if v, dirty, err = m.Version(); err == nil {
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		}
	default:
		log.Fatalf("unknown command %q (want up, down, steps or version)", cmd)
	}

	if err != nil {
		log.Fatal(err)
	}
}
