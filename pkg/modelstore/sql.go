package modelstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zpam/sms-filter/pkg/classifier"
)

// Both SQL backends share one schema: a singleton row in bayes_models
// plus one row per vocabulary token in bayes_tokens. Timestamps are
// stored as RFC 3339 strings so neither driver needs time parsing
// support.
const defaultModelName = "default"

// sqlTokenBatch bounds how many rows one multi-value INSERT carries.
const sqlTokenBatch = 500

func saveSnapshotTx(ctx context.Context, tx *sql.Tx, upsertModel string, snapshot *classifier.Snapshot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM bayes_tokens WHERE model = ?`, defaultModelName); err != nil {
		return fmt.Errorf("failed to clear old tokens: %v", err)
	}

	if _, err := tx.ExecContext(ctx, upsertModel,
		defaultModelName,
		snapshot.Version,
		snapshot.Alpha,
		snapshot.SpamTokens,
		snapshot.HamTokens,
		snapshot.SpamMessages,
		snapshot.HamMessages,
		snapshot.TrainedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to write model row: %v", err)
	}

	for start := 0; start < len(snapshot.Tokens); start += sqlTokenBatch {
		end := start + sqlTokenBatch
		if end > len(snapshot.Tokens) {
			end = len(snapshot.Tokens)
		}

		var query strings.Builder
		query.WriteString(`INSERT INTO bayes_tokens (model, token_id, token, spam_count, ham_count) VALUES `)
		args := make([]interface{}, 0, (end-start)*5)
		for id := start; id < end; id++ {
			if id > start {
				query.WriteString(", ")
			}
			query.WriteString("(?, ?, ?, ?, ?)")
			args = append(args, defaultModelName, id, snapshot.Tokens[id], snapshot.SpamCounts[id], snapshot.HamCounts[id])
		}

		if _, err := tx.ExecContext(ctx, query.String(), args...); err != nil {
			return fmt.Errorf("failed to write token rows: %v", err)
		}
	}

	return nil
}

func loadSnapshot(ctx context.Context, db *sql.DB) (*classifier.Snapshot, error) {
	snapshot := &classifier.Snapshot{}
	var trainedAt string

	err := db.QueryRowContext(ctx, `
		SELECT version, alpha, spam_tokens, ham_tokens, spam_messages, ham_messages, trained_at
		FROM bayes_models
		WHERE model = ?
	`, defaultModelName).Scan(
		&snapshot.Version,
		&snapshot.Alpha,
		&snapshot.SpamTokens,
		&snapshot.HamTokens,
		&snapshot.SpamMessages,
		&snapshot.HamMessages,
		&trainedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no model row", ErrModelNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model row: %v", err)
	}

	if snapshot.TrainedAt, err = time.Parse(time.RFC3339Nano, trainedAt); err != nil {
		return nil, fmt.Errorf("corrupt model row: bad trained_at: %v", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT token_id, token, spam_count, ham_count
		FROM bayes_tokens
		WHERE model = ?
		ORDER BY token_id
	`, defaultModelName)
	if err != nil {
		return nil, fmt.Errorf("failed to read token rows: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                  int
			token               string
			spamCount, hamCount int64
		)
		if err := rows.Scan(&id, &token, &spamCount, &hamCount); err != nil {
			return nil, fmt.Errorf("failed to scan token row: %v", err)
		}
		if id != len(snapshot.Tokens) {
			return nil, fmt.Errorf("corrupt model: token ids not contiguous at %d", id)
		}
		snapshot.Tokens = append(snapshot.Tokens, token)
		snapshot.SpamCounts = append(snapshot.SpamCounts, spamCount)
		snapshot.HamCounts = append(snapshot.HamCounts, hamCount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate token rows: %v", err)
	}

	return snapshot, nil
}

func modelExists(ctx context.Context, db *sql.DB) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM bayes_models WHERE model = ?`, defaultModelName).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check model existence: %v", err)
	}
	return true, nil
}

func deleteModel(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bayes_tokens WHERE model = ?`, defaultModelName); err != nil {
		return fmt.Errorf("failed to delete token rows: %v", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bayes_models WHERE model = ?`, defaultModelName); err != nil {
		return fmt.Errorf("failed to delete model row: %v", err)
	}

	return tx.Commit()
}
