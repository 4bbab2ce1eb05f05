// migrate-saves copies save slots from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-saves \
//	    -sqlite data/idlerpg.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user idlerpg \
//	    -pg-password idlerpg \
//	    -pg-database idlerpg
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lawnchairsociety/idlerpg/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/idlerpg.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "idlerpg", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "idlerpg", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "idlerpg", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	skipCorrupt := flag.Bool("skip-corrupt", false, "Skip slots whose checksum does not match instead of aborting")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("Save Slot Migration Tool")
	log.Println("========================")

	if _, err := os.Stat(*sqlitePath); err != nil {
		log.Fatalf("SQLite database not found: %v", err)
	}
	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	slots, err := src.ListSlots()
	if err != nil {
		log.Fatalf("Failed to read save slots: %v", err)
	}
	log.Printf("Found %d save slots", len(slots))

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
		for _, s := range slots {
			log.Printf("  %s: %d bytes, updated %s, checksum ok: %v",
				s.Slot, len(s.Data), s.UpdatedAt.Format("2006-01-02 15:04:05"), s.Verify())
		}
		log.Println("(DRY RUN - No actual changes were made)")
		return
	}

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", pg.User, pg.Host, pg.Port, pg.Database)
	dst, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()
	log.Printf("Target dialect: %s", dst.Dialect().DriverName())

	migrated, skipped := 0, 0
	for _, s := range slots {
		if !s.Verify() {
			if !*skipCorrupt {
				log.Fatalf("Slot %s failed its checksum; rerun with -skip-corrupt to leave it behind", s.Slot)
			}
			log.Printf("  Skipping corrupt slot %s", s.Slot)
			skipped++
			continue
		}
		if err := dst.PutSlot(s); err != nil {
			log.Fatalf("Failed to migrate slot %s: %v", s.Slot, err)
		}
		migrated++
	}

	log.Println("========================")
	fmt.Printf("Migration complete! Slots migrated: %d, skipped: %d\n", migrated, skipped)
}
