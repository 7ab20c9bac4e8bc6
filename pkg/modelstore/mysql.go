package modelstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/zpam/sms-filter/pkg/classifier"
)

// MySQLStore persists the model in a MySQL database.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects with the given DSN, verifies the connection
// and ensures the schema exists.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bayes_models (
			model VARCHAR(64) PRIMARY KEY,
			version INT NOT NULL,
			alpha DOUBLE NOT NULL,
			spam_tokens BIGINT NOT NULL,
			ham_tokens BIGINT NOT NULL,
			spam_messages INT NOT NULL,
			ham_messages INT NOT NULL,
			trained_at VARCHAR(64) NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create model table: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bayes_tokens (
			model VARCHAR(64) NOT NULL,
			token_id INT NOT NULL,
			token TEXT NOT NULL,
			spam_count BIGINT NOT NULL,
			ham_count BIGINT NOT NULL,
			PRIMARY KEY (model, token_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create token table: %v", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

func (s *MySQLStore) Save(ctx context.Context, snapshot *classifier.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO bayes_models
			(model, version, alpha, spam_tokens, ham_tokens, spam_messages, ham_messages, trained_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			version = VALUES(version),
			alpha = VALUES(alpha),
			spam_tokens = VALUES(spam_tokens),
			ham_tokens = VALUES(ham_tokens),
			spam_messages = VALUES(spam_messages),
			ham_messages = VALUES(ham_messages),
			trained_at = VALUES(trained_at)
	`
	if err := saveSnapshotTx(ctx, tx, upsert, snapshot); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit model: %v", err)
	}

	s.logger.Debug("Saved model snapshot to MySQL",
		zap.Int("vocabulary", len(snapshot.Tokens)))

	return nil
}

func (s *MySQLStore) Load(ctx context.Context) (*classifier.Snapshot, error) {
	return loadSnapshot(ctx, s.db)
}

func (s *MySQLStore) Exists(ctx context.Context) (bool, error) {
	return modelExists(ctx, s.db)
}

func (s *MySQLStore) Delete(ctx context.Context) error {
	return deleteModel(ctx, s.db)
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
