package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pet-registry/internal/domain/pets"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pets (
	id           TEXT PRIMARY KEY,
	code         TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	birth_date   TIMESTAMPTZ NOT NULL,
	gender       TEXT NOT NULL CHECK (gender IN ('Male', 'Female')),
	color        TEXT NOT NULL DEFAULT '',
	nationality  TEXT NOT NULL DEFAULT '',
	certificate  TEXT NOT NULL DEFAULT '',
	note         TEXT NOT NULL DEFAULT '',
	weight       DOUBLE PRECISION CHECK (weight >= 0),
	image        TEXT NOT NULL DEFAULT '',
	father       TEXT,
	mother       TEXT,
	created_at   TIMESTAMPTZ NOT NULL
)`

const insertPetSQL = `
	INSERT INTO pets (
		id, code, name,
		birth_date, gender,
		color, nationality, certificate, note,
		weight, image, father, mother,
		created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	ON CONFLICT (code) DO NOTHING`

type PetsRepo struct {
	pool *pgxpool.Pool
}

func NewPetsRepo(pool *pgxpool.Pool) *PetsRepo {
	return &PetsRepo{pool: pool}
}

// EnsureSchema crea la tabla si no existe.
func (r *PetsRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schemaSQL)
	return err
}

func (r *PetsRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pets WHERE code = $1)`, code).Scan(&exists)
	return exists, err
}

// InsertMany envía todos los inserts en un único pgx.Batch.
// Un code ya presente no afecta filas y se reporta como ErrDuplicateCode.
// El batch corre en una transacción implícita: cualquier otro error lo aborta entero.
func (r *PetsRepo) InsertMany(ctx context.Context, docs []pets.Pet) (pets.BulkReport, error) {
	var rep pets.BulkReport
	if len(docs) == 0 {
		return rep, nil
	}

	b := &pgx.Batch{}
	for _, p := range docs {
		b.Queue(insertPetSQL,
			p.ID,
			p.Code,
			p.Name,
			p.BirthDate,
			string(p.Gender),
			p.Color,
			p.Nationality,
			p.Certificate,
			p.Note,
			p.Weight,
			p.Image,
			p.Father,
			p.Mother,
			p.CreatedAt,
		)
	}

	br := r.pool.SendBatch(ctx, b)
	for i, p := range docs {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return pets.BulkReport{}, err
		}
		if tag.RowsAffected() == 0 {
			rep.Fail(i, p.Code, pets.ErrDuplicateCode)
			continue
		}
		rep.Inserted++
	}
	if err := br.Close(); err != nil {
		return pets.BulkReport{}, err
	}
	return rep, nil
}
