package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gouncertain/adapters/postgres"
	"gouncertain/domain/run"
	"gouncertain/internal/migration"
	"gouncertain/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [reports_dir]")
	}

	databaseURL := os.Args[1]
	driver := "postgres"
	if d := os.Getenv("DATABASE_DRIVER"); d != "" {
		driver = d
	}

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}

	reportsDir := os.Args[2]
	files, err := findReportFiles(reportsDir)
	if err != nil {
		log.Fatalf("Failed to find report files: %v", err)
	}
	log.Printf("Found %d report files in %s", len(files), reportsDir)

	ledger := postgres.NewDecisionLedger(db)
	imported, skipped := importReports(ctx, ledger, files)
	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

func findReportFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// importReports stores every decision report found in files. A file holds
// either one report or an array of them.
func importReports(ctx context.Context, ledger ports.LedgerWriterPort, files []string) (imported, skipped int) {
	for _, file := range files {
		records, err := loadReports(file)
		if err != nil {
			log.Printf("Skipping %s: %v", file, err)
			skipped++
			continue
		}
		for _, record := range records {
			if record.Fingerprint == "" {
				record.Fingerprint = run.NewFingerprint(record.RunID, record.HypothesisID, record.Seed, record.Outcome)
			}
			if err := ledger.StoreRecord(ctx, record); err != nil {
				log.Printf("Failed to store %s from %s: %v", record.Fingerprint, file, err)
				skipped++
				continue
			}
			imported++
		}
	}
	return imported, skipped
}

func loadReports(path string) ([]*run.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []*run.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var record run.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return []*run.Record{&record}, nil
}
