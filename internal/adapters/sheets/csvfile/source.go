package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrCSV = errors.New("csv source error")

// Source lee una exportación CSV de la planilla (primera fila = headers).
// Todas las celdas vuelven como string; celdas vacías como nil.
type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: strings.TrimSpace(path)}
}

func (s *Source) Read(ctx context.Context) ([][]any, error) {
	if s.path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrCSV)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCSV, err)
	}
	defer f.Close()

	return ReadGrid(ctx, f)
}

// ReadGrid parsea CSV desde cualquier reader. Filas con distinta cantidad
// de columnas son válidas (igual que el API de Sheets).
func ReadGrid(ctx context.Context, r io.Reader) ([][]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var grid [][]any
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCSV, err)
		}

		if len(grid) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\uFEFF")
		}

		row := make([]any, len(rec))
		for i, cell := range rec {
			if cell == "" {
				continue
			}
			row[i] = cell
		}
		grid = append(grid, row)
	}
	return grid, nil
}
