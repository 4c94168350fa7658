package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/man00154/networktroubleshootchatbot/internal/kb"
)

// SQLiteStore holds the knowledge-base entries. It is written only at
// startup (seeding) or by the explicit ingestion mode; during serving it is
// read once and the entries live immutably in memory.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS kb_entries (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        position INTEGER NOT NULL,
        trigger_phrase TEXT UNIQUE NOT NULL COLLATE NOCASE,
        document TEXT NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// SeedDefaultEntries stores the built-in guides if the table is empty, so a
// fresh database serves the stock knowledge base without an ingestion step.
func (s *SQLiteStore) SeedDefaultEntries(entries []kb.Entry) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kb_entries").Scan(&count); err != nil {
		return fmt.Errorf("failed to count kb entries: %w", err)
	}
	if count > 0 {
		return nil
	}
	log.Printf("Seeding knowledge base with %d built-in entries", len(entries))
	return s.ReplaceEntries(entries)
}

// ReplaceEntries swaps the stored knowledge base for the given entries,
// preserving their order as the retrieval enumeration order.
func (s *SQLiteStore) ReplaceEntries(entries []kb.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM kb_entries"); err != nil {
		return fmt.Errorf("failed to clear kb entries: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO kb_entries (position, trigger_phrase, document) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare kb insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(i, e.Trigger, e.Document); err != nil {
			return fmt.Errorf("failed to insert kb entry %q: %w", e.Trigger, err)
		}
	}
	return tx.Commit()
}

// GetAllEntries returns the knowledge base in enumeration order.
func (s *SQLiteStore) GetAllEntries() ([]kb.Entry, error) {
	rows, err := s.db.Query("SELECT trigger_phrase, document FROM kb_entries ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query kb entries: %w", err)
	}
	defer rows.Close()

	var entries []kb.Entry
	for rows.Next() {
		var e kb.Entry
		if err := rows.Scan(&e.Trigger, &e.Document); err != nil {
			return nil, fmt.Errorf("failed to scan kb entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// IngestFromFile reads a two-column markdown table (| trigger | document |)
// and replaces the stored knowledge base with its rows. Literal \n sequences
// inside a document cell become newlines, since table rows are single-line.
func (s *SQLiteStore) IngestFromFile(filePath string) (int, error) {
	contentBytes, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read data file %s: %w", filePath, err)
	}
	lines := strings.Split(string(contentBytes), "\n")

	var entries []kb.Entry
	seen := make(map[string]bool)
	for i, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue
		}
		if !strings.HasPrefix(trimmedLine, "|") || !strings.HasSuffix(trimmedLine, "|") {
			if i > 1 {
				log.Printf("Skipping line not matching table row format: %s", trimmedLine)
			}
			continue
		}

		// Skip the header row and the |---|---| separator.
		inner := strings.Trim(trimmedLine, "|")
		if i <= 1 && (strings.Contains(strings.ToLower(inner), "trigger") || strings.Contains(inner, "---")) {
			continue
		}

		cells := strings.SplitN(inner, "|", 2)
		if len(cells) != 2 {
			log.Printf("Skipping malformed table row (missing document column): %s", trimmedLine)
			continue
		}

		trigger := strings.ToLower(strings.TrimSpace(cells[0]))
		document := strings.ReplaceAll(strings.TrimSpace(cells[1]), `\n`, "\n")
		if trigger == "" || document == "" {
			log.Printf("Skipping row with empty cell content: %s", trimmedLine)
			continue
		}
		if seen[trigger] {
			log.Printf("Skipping duplicate trigger %q", trigger)
			continue
		}
		seen[trigger] = true
		entries = append(entries, kb.Entry{Trigger: trigger, Document: document})
	}

	if len(entries) == 0 {
		log.Println("No entries parsed from data file. Ensure it is a markdown table with trigger and document columns.")
		return 0, nil
	}

	if err := s.ReplaceEntries(entries); err != nil {
		return 0, fmt.Errorf("failed to store ingested entries: %w", err)
	}
	log.Printf("Successfully ingested %d knowledge-base entries.", len(entries))
	return len(entries), nil
}
