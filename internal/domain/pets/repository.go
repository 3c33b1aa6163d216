package pets

import (
	"context"
	"errors"
)

// ErrDuplicateCode: ya existe un registro con ese code (p.ej. carrera con otro writer).
var ErrDuplicateCode = errors.New("duplicate code")

// Repository es el store insert-only que usa la sincronización.
// InsertMany es una sola operación bulk NO ordenada: el fallo de un documento
// no aborta el resto; los fallos se devuelven en el BulkReport.
// El error solo se usa para fallos que afectan al batch completo (conexión, etc).
type Repository interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
	InsertMany(ctx context.Context, docs []Pet) (BulkReport, error)
}

// DocFailure describe un documento que el store rechazó dentro del batch.
type DocFailure struct {
	Index int
	Code  string
	Err   error
}

type BulkReport struct {
	Inserted int
	Failures []DocFailure
}

func (r *BulkReport) Fail(index int, code string, err error) {
	r.Failures = append(r.Failures, DocFailure{Index: index, Code: code, Err: err})
}
