package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements the parse cache on Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the cached resume for a file when the fingerprint matches.
func (r *PGRepo) Get(ctx context.Context, fileName, fingerprint string) (Resume, error) {
	const query = `
SELECT resume
FROM parsed_resumes
WHERE file_name = $1 AND fingerprint = $2`

	var raw []byte
	err := r.DB.QueryRowContext(ctx, query, fileName, fingerprint).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}

	var resume Resume
	if err := json.Unmarshal(raw, &resume); err != nil {
		return Resume{}, fmt.Errorf("decode cached resume %s: %w", fileName, err)
	}
	return resume, nil
}

// Put upserts the cached parse for a file.
func (r *PGRepo) Put(ctx context.Context, fileName, fingerprint string, resume Resume) error {
	const query = `
INSERT INTO parsed_resumes (file_name, fingerprint, resume, parsed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (file_name)
DO UPDATE SET fingerprint = EXCLUDED.fingerprint, resume = EXCLUDED.resume, parsed_at = EXCLUDED.parsed_at`

	raw, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("encode resume %s: %w", fileName, err)
	}
	_, err = r.DB.ExecContext(ctx, query, fileName, fingerprint, raw, time.Now().UTC())
	return err
}

// Delete drops the cached parse for a file.
func (r *PGRepo) Delete(ctx context.Context, fileName string) error {
	const query = `DELETE FROM parsed_resumes WHERE file_name = $1`
	_, err := r.DB.ExecContext(ctx, query, fileName)
	return err
}

var _ Repo = (*PGRepo)(nil)
