package sheetimport

import (
	"context"
	"fmt"

	"pet-registry/internal/domain/pets"
)

// Writer commitea los documentos staged en un único insert bulk no ordenado.
type Writer struct {
	repo pets.Repository
	log  runLog
}

func NewWriter(repo pets.Repository, rl runLog) *Writer {
	return &Writer{repo: repo, log: rl}
}

// Commit devuelve la cantidad de documentos intentados (no necesariamente persistidos)
// y el reporte de fallos por documento, con Index relativo a docs.
// Documentos que no pasan el schema se reportan como fallo sin enviarse.
// Nada se reintenta: re-ejecutar la sync es el mecanismo de retry.
func (w *Writer) Commit(ctx context.Context, docs []pets.Pet) (int, pets.BulkReport, error) {
	var report pets.BulkReport
	if len(docs) == 0 {
		return 0, report, nil
	}

	valid := make([]pets.Pet, 0, len(docs))
	origIdx := make([]int, 0, len(docs))
	for i, d := range docs {
		if err := d.Validate(); err != nil {
			report.Fail(i, d.Code, err)
			continue
		}
		valid = append(valid, d)
		origIdx = append(origIdx, i)
	}

	if len(valid) > 0 {
		rep, err := w.repo.InsertMany(ctx, valid)
		if err != nil {
			return len(docs), report, fmt.Errorf("%w: bulk insert: %v", ErrStore, err)
		}
		report.Inserted = rep.Inserted
		for _, f := range rep.Failures {
			idx := f.Index
			if idx >= 0 && idx < len(origIdx) {
				idx = origIdx[idx]
			}
			report.Fail(idx, f.Code, f.Err)
		}
	}

	for _, f := range report.Failures {
		w.log.error(fmt.Sprintf("Insert failed (%s): %v", f.Code, f.Err), map[string]any{"code": f.Code})
	}
	w.log.info(fmt.Sprintf("Bulk insert: attempted %d, inserted %d, failed %d", len(docs), report.Inserted, len(report.Failures)),
		map[string]any{"attempted": len(docs), "inserted": report.Inserted, "failed": len(report.Failures)})

	return len(docs), report, nil
}
