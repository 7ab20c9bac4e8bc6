package modelstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/zpam/sms-filter/pkg/classifier"
)

// SQLiteStore persists the model in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bayes_models (
			model TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			alpha REAL NOT NULL,
			spam_tokens INTEGER NOT NULL,
			ham_tokens INTEGER NOT NULL,
			spam_messages INTEGER NOT NULL,
			ham_messages INTEGER NOT NULL,
			trained_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create model table: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bayes_tokens (
			model TEXT NOT NULL,
			token_id INTEGER NOT NULL,
			token TEXT NOT NULL,
			spam_count INTEGER NOT NULL,
			ham_count INTEGER NOT NULL,
			PRIMARY KEY (model, token_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create token table: %v", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snapshot *classifier.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT OR REPLACE INTO bayes_models
			(model, version, alpha, spam_tokens, ham_tokens, spam_messages, ham_messages, trained_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if err := saveSnapshotTx(ctx, tx, upsert, snapshot); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit model: %v", err)
	}

	s.logger.Debug("Saved model snapshot to SQLite",
		zap.Int("vocabulary", len(snapshot.Tokens)))

	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*classifier.Snapshot, error) {
	return loadSnapshot(ctx, s.db)
}

func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	return modelExists(ctx, s.db)
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	return deleteModel(ctx, s.db)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
