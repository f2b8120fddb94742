package timetables

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements TimetablesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new timetable and returns it with its generated id and
// upload date.
func (r *PGRepo) Create(ctx context.Context, t Timetable) (Timetable, error) {
	const query = `
INSERT INTO timetables (filename, title, week_data, metadata, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, upload_date`

	t.WeekData.Normalize()
	weekJSON, err := json.Marshal(t.WeekData)
	if err != nil {
		return Timetable{}, fmt.Errorf("marshal week data: %w", err)
	}
	metaJSON, err := marshalMetadata(t.Metadata)
	if err != nil {
		return Timetable{}, err
	}

	status := t.Status
	if status == "" {
		status = "completed"
	}

	err = r.DB.QueryRowContext(ctx, query, t.Filename, t.Title, weekJSON, metaJSON, status).
		Scan(&t.ID, &t.UploadDate)
	if err != nil {
		return Timetable{}, err
	}
	t.Status = status
	return t, nil
}

// GetByID returns one timetable.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Timetable, error) {
	const query = `
SELECT id, filename, title, week_data, metadata, status, upload_date
FROM timetables
WHERE id = $1`
	row := r.DB.QueryRowContext(ctx, query, id)
	t, err := scanTimetable(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Timetable{}, ErrNotFound
		}
		return Timetable{}, err
	}
	return t, nil
}

// List returns all timetables, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Timetable, error) {
	const query = `
SELECT id, filename, title, week_data, metadata, status, upload_date
FROM timetables
ORDER BY upload_date DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Timetable{}
	for rows.Next() {
		t, err := scanTimetable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes a timetable. Returns ErrNotFound when no row matched.
func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM timetables WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTimetable(row rowScanner) (Timetable, error) {
	var t Timetable
	var title sql.NullString
	var weekJSON []byte
	var metaJSON []byte
	var status sql.NullString
	if err := row.Scan(&t.ID, &t.Filename, &title, &weekJSON, &metaJSON, &status, &t.UploadDate); err != nil {
		return Timetable{}, err
	}
	if title.Valid {
		t.Title = title.String
	}
	if status.Valid {
		t.Status = status.String
	}
	if err := json.Unmarshal(weekJSON, &t.WeekData); err != nil {
		return Timetable{}, fmt.Errorf("unmarshal week data: %w", err)
	}
	t.WeekData.Normalize()
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &t.Metadata); err != nil {
			return Timetable{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return t, nil
}

func marshalMetadata(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return b, nil
}

var _ TimetablesRepo = (*PGRepo)(nil)
