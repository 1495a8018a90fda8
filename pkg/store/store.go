// Package store persists processing records in SQLite. The database is
// a single file created on first open; the schema bootstraps itself and
// refuses databases written by a different schema version.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mindsparkle/docintel/pkg/artifact"
	"github.com/mindsparkle/docintel/pkg/pipeline"
)

// Store manages record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the record database at path and
// bootstraps the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: database path is empty")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveResult inserts a record and returns its ID. Saving the same
// record ID and version twice is a conflict and fails.
func (s *Store) SaveResult(ctx context.Context, rec *artifact.Record) (string, error) {
	if rec == nil {
		return "", errors.New("record is nil")
	}
	if rec.ID == "" {
		return "", errors.New("record has no id")
	}

	passesJSON, err := json.Marshal(rec.Passes)
	if err != nil {
		return "", fmt.Errorf("marshal passes: %w", err)
	}
	warningsJSON, err := json.Marshal(rec.Warnings)
	if err != nil {
		return "", fmt.Errorf("marshal warnings: %w", err)
	}
	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	version := rec.Version
	if version <= 0 {
		version = 1
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO records (
            id, version, document_id, user_id, mode, vendor_id, model, provider,
            success, validation_score, pass_count, tokens_used, elapsed_ms,
            output, passes_json, warnings_json, metadata_json, created_at, hash
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		version,
		nullableString(rec.DocumentID),
		nullableString(rec.UserID),
		rec.Mode,
		nullableString(rec.VendorID),
		nullableString(rec.Model),
		nullableString(rec.Provider),
		boolToInt(rec.Success),
		rec.ValidationScore,
		rec.PassCount,
		rec.TokensUsed,
		rec.ElapsedMs,
		nullableString(rec.Output),
		string(passesJSON),
		string(warningsJSON),
		string(metadataJSON),
		createdAt.Format(time.RFC3339Nano),
		nullableString(rec.Hash),
	)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return rec.ID, nil
}

// GetResult fetches the latest version of a record by ID. Returns
// (nil, nil) when no record exists.
func (s *Store) GetResult(ctx context.Context, id string) (*artifact.Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ? ORDER BY version DESC LIMIT 1`,
		id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// GetVersion fetches one specific version of a record. Returns
// (nil, nil) when that version does not exist.
func (s *Store) GetVersion(ctx context.Context, id string, version int) (*artifact.Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ? AND version = ?`,
		id, version,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record version: %w", err)
	}
	return rec, nil
}

// LatestForDocument returns the newest record for a source document,
// optionally narrowed to one processing mode. Returns (nil, nil) when
// the document has never been processed.
func (s *Store) LatestForDocument(ctx context.Context, documentID, mode string) (*artifact.Record, error) {
	if documentID == "" {
		return nil, nil
	}

	query := `SELECT ` + recordColumns + ` FROM records WHERE document_id = ?`
	args := []any{documentID}
	if mode != "" {
		query += ` AND mode = ?`
		args = append(args, mode)
	}
	query += ` ORDER BY version DESC, created_at DESC LIMIT 1`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest for document: %w", err)
	}
	return rec, nil
}

// ListResults returns records newest first, optionally filtered by
// user. A limit of zero or less applies the default of 50.
func (s *Store) ListResults(ctx context.Context, userID string, limit int) ([]*artifact.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		rows *sql.Rows
		err  error
	)
	if userID == "" {
		rows, err = s.db.QueryContext(
			ctx,
			`SELECT `+recordColumns+` FROM records ORDER BY created_at DESC LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.db.QueryContext(
			ctx,
			`SELECT `+recordColumns+` FROM records WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
			userID, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*artifact.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats summarizes the stored records.
type Stats struct {
	Records            int     `json:"records"`
	Succeeded          int     `json:"succeeded"`
	Failed             int     `json:"failed"`
	Documents          int     `json:"documents"`
	TokensUsed         int64   `json:"tokensUsed"`
	AvgValidationScore float64 `json:"avgValidationScore"`
}

// Stats aggregates record counts and usage totals.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1),
                COALESCE(SUM(success), 0),
                COUNT(DISTINCT document_id),
                COALESCE(SUM(tokens_used), 0),
                COALESCE(AVG(validation_score), 0)
         FROM records`,
	)
	var st Stats
	if err := row.Scan(&st.Records, &st.Succeeded, &st.Documents, &st.TokensUsed, &st.AvgValidationScore); err != nil {
		return Stats{}, fmt.Errorf("record stats: %w", err)
	}
	st.Failed = st.Records - st.Succeeded
	return st, nil
}

// Prune deletes records created before the cutoff and reports how many
// rows went away.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM records WHERE created_at < ?`,
		before.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("prune records: %w", err)
	}
	return res.RowsAffected()
}

const recordColumns = "id, version, document_id, user_id, mode, vendor_id, model, provider, success, validation_score, pass_count, tokens_used, elapsed_ms, output, passes_json, warnings_json, metadata_json, created_at, hash"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*artifact.Record, error) {
	var (
		id           string
		version      int
		documentID   sql.NullString
		userID       sql.NullString
		mode         string
		vendorID     sql.NullString
		model        sql.NullString
		provider     sql.NullString
		success      int
		score        float64
		passCount    int
		tokensUsed   int
		elapsedMs    int64
		output       sql.NullString
		passesJSON   sql.NullString
		warningsJSON sql.NullString
		metadataJSON sql.NullString
		createdRaw   string
		hash         sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&version,
		&documentID,
		&userID,
		&mode,
		&vendorID,
		&model,
		&provider,
		&success,
		&score,
		&passCount,
		&tokensUsed,
		&elapsedMs,
		&output,
		&passesJSON,
		&warningsJSON,
		&metadataJSON,
		&createdRaw,
		&hash,
	); err != nil {
		return nil, err
	}

	rec := &artifact.Record{
		ID:              id,
		Version:         version,
		DocumentID:      documentID.String,
		UserID:          userID.String,
		Mode:            mode,
		VendorID:        vendorID.String,
		Model:           model.String,
		Provider:        provider.String,
		Success:         success != 0,
		ValidationScore: score,
		PassCount:       passCount,
		TokensUsed:      tokensUsed,
		ElapsedMs:       elapsedMs,
		Output:          output.String,
		Hash:            hash.String,
	}

	if passesJSON.Valid && passesJSON.String != "" {
		var passes []*pipeline.Pass
		if err := json.Unmarshal([]byte(passesJSON.String), &passes); err != nil {
			return nil, fmt.Errorf("unmarshal passes: %w", err)
		}
		rec.Passes = passes
	}
	if warningsJSON.Valid && warningsJSON.String != "" {
		var warnings []string
		if err := json.Unmarshal([]byte(warningsJSON.String), &warnings); err != nil {
			return nil, fmt.Errorf("unmarshal warnings: %w", err)
		}
		rec.Warnings = warnings
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		var metadata map[string]string
		if err := json.Unmarshal([]byte(metadataJSON.String), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
		rec.Metadata = metadata
	}

	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		rec.CreatedAt = created
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
