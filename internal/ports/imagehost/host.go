package imagehost

import (
	"context"
	"io"
)

// UploadParams: destino determinístico (Folder + PublicID) para que re-ejecutar
// pise el asset anterior en lugar de duplicarlo.
type UploadParams struct {
	Folder    string
	PublicID  string
	Overwrite bool
	Format    string // formato raster final, p.ej. "jpg"
}

type Result struct {
	SecureURL string
	PublicID  string
}

// Host publica imágenes en un CDN.
type Host interface {
	UploadStream(ctx context.Context, r io.Reader, p UploadParams) (Result, error)
	UploadURL(ctx context.Context, url string, p UploadParams) (Result, error)
	// Hosts indica si la URL ya apunta al dominio propio del CDN.
	Hosts(url string) bool
}
