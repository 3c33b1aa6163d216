package sheet

import "context"

// Source lee una grilla 2-D de celdas; la primera fila son los headers.
// Los valores son string, float64 o nil según el render del proveedor.
type Source interface {
	Read(ctx context.Context) ([][]any, error)
}
