package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-registry/internal/domain/pets"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pets (
	id          TEXT PRIMARY KEY,
	code        TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	birth_date  TEXT NOT NULL,
	gender      TEXT NOT NULL CHECK (gender IN ('Male', 'Female')),
	color       TEXT NOT NULL DEFAULT '',
	nationality TEXT NOT NULL DEFAULT '',
	certificate TEXT NOT NULL DEFAULT '',
	note        TEXT NOT NULL DEFAULT '',
	weight      REAL CHECK (weight IS NULL OR weight >= 0),
	image       TEXT NOT NULL DEFAULT '',
	father      TEXT,
	mother      TEXT,
	created_at  TEXT NOT NULL
)`

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

func (r *PetsRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pets WHERE code = ?)`, code).Scan(&exists)
	return exists, err
}

// InsertMany inserta todo en una transacción. En sqlite un statement fallido
// no aborta la transacción, así que cada documento falla por separado.
func (r *PetsRepo) InsertMany(ctx context.Context, docs []pets.Pet) (pets.BulkReport, error) {
	var rep pets.BulkReport
	if len(docs) == 0 {
		return rep, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return rep, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pets (
			id, code, name,
			birth_date, gender,
			color, nationality, certificate, note,
			weight, image, father, mother,
			created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(code) DO NOTHING`)
	if err != nil {
		return rep, err
	}
	defer stmt.Close()

	for i, p := range docs {
		res, err := stmt.ExecContext(ctx,
			p.ID,
			p.Code,
			p.Name,
			p.BirthDate.UTC().Format(time.RFC3339Nano),
			string(p.Gender),
			p.Color,
			p.Nationality,
			p.Certificate,
			p.Note,
			p.Weight,
			p.Image,
			p.Father,
			p.Mother,
			p.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			rep.Fail(i, p.Code, err)
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			rep.Fail(i, p.Code, pets.ErrDuplicateCode)
			continue
		}
		rep.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return pets.BulkReport{}, err
	}
	return rep, nil
}
