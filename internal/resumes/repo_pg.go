package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const recordColumns = `id, file_name, name, email, phone, emails, phones, links, core_skills, resume_rating, improvement_areas, upskill_suggestions, raw_text, meta, created_at`

// Create inserts rec and returns it with the database-assigned id and created_at.
func (r *PGRepo) Create(ctx context.Context, rec Record) (Record, error) {
	const query = `
INSERT INTO resumes (
	file_name, name, email, phone, emails, phones, links, core_skills,
	resume_rating, improvement_areas, upskill_suggestions, raw_text, meta
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, created_at`

	emails, err := marshalJSONB(nonNil(rec.Emails))
	if err != nil {
		return Record{}, err
	}
	phones, err := marshalJSONB(nonNil(rec.Phones))
	if err != nil {
		return Record{}, err
	}
	links, err := marshalJSONB(nonNil(rec.Links))
	if err != nil {
		return Record{}, err
	}
	skills, err := marshalJSONB(nonNil(rec.CoreSkills))
	if err != nil {
		return Record{}, err
	}
	meta, err := marshalJSONB(rec.Meta)
	if err != nil {
		return Record{}, err
	}

	err = r.DB.QueryRowContext(ctx, query,
		rec.FileName,
		rec.Name,
		rec.Email,
		rec.Phone,
		emails,
		phones,
		links,
		skills,
		rec.ResumeRating,
		rec.ImprovementAreas,
		rec.UpskillSuggestions,
		rec.RawText,
		meta,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("insert resume: %w", err)
	}
	return rec, nil
}

// GetByID returns the full record.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Record, error) {
	query := `SELECT ` + recordColumns + ` FROM resumes WHERE id = $1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get resume %d: %w", id, err)
	}
	return rec, nil
}

// List returns summary rows newest first. Detail-only columns are left empty.
// A non-positive limit returns every row.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Record, error) {
	const query = `
SELECT id, file_name, name, email, phone, core_skills, resume_rating, created_at
FROM resumes
ORDER BY id DESC
LIMIT $1 OFFSET $2`

	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, query, limitArg, offset)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var rec Record
		var skills []byte
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.Name, &rec.Email, &rec.Phone, &skills, &rec.ResumeRating, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resume: %w", err)
		}
		if err := unmarshalJSONB(skills, &rec.CoreSkills); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return out, nil
}

func scanRecord(row *sql.Row) (Record, error) {
	var rec Record
	var emails, phones, links, skills, meta []byte
	if err := row.Scan(
		&rec.ID,
		&rec.FileName,
		&rec.Name,
		&rec.Email,
		&rec.Phone,
		&emails,
		&phones,
		&links,
		&skills,
		&rec.ResumeRating,
		&rec.ImprovementAreas,
		&rec.UpskillSuggestions,
		&rec.RawText,
		&meta,
		&rec.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	for _, f := range []struct {
		raw  []byte
		dest any
	}{
		{emails, &rec.Emails},
		{phones, &rec.Phones},
		{links, &rec.Links},
		{skills, &rec.CoreSkills},
		{meta, &rec.Meta},
	} {
		if err := unmarshalJSONB(f.raw, f.dest); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

func marshalJSONB(value any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}
	if m, ok := value.(map[string]any); ok && m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}

func unmarshalJSONB(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
